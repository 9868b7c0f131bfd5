package db

import (
	"context"
	"testing"

	"github.com/oguzdev/plant-maintenance/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoReservationCollection_List(t *testing.T) {
	client, err := ConnectMongo()
	if err != nil {
		t.Skipf("failed to create client: %v, skipping integration test", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database("test_maintenance")
	collection := db.Collection("reservations")
	collection.Drop(context.Background())

	docs := []interface{}{
		map[string]interface{}{"_id": "r1", "instance_id": "inst-1", "tool_id": "t1", "tool_name": "Grease", "item_type": "CONSUMABLE", "quantity": 5.0, "status": "PICKED"},
		map[string]interface{}{"_id": "r2", "instance_id": "inst-2", "tool_id": "t2", "tool_name": "Wrench", "item_type": "TOOL", "quantity": 1.0, "status": "PICKED"},
	}
	_, err = collection.InsertMany(context.Background(), docs)
	require.NoError(t, err)

	reservationCollection := &MongoReservationCollection{Collection: collection}

	reservations, err := reservationCollection.List(context.Background(), "inst-1")
	assert.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.Equal(t, "Grease", reservations[0].ToolName)
	assert.Equal(t, models.ReservationPicked, reservations[0].Status)
}

func TestMongoToolCollection_Search(t *testing.T) {
	client, err := ConnectMongo()
	if err != nil {
		t.Skipf("failed to create client: %v, skipping integration test", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database("test_maintenance")
	collection := db.Collection("tools")
	collection.Drop(context.Background())

	docs := []interface{}{
		map[string]interface{}{"_id": "t1", "company_id": "acme", "name": "Torque wrench", "item_type": "TOOL"},
		map[string]interface{}{"_id": "t2", "company_id": "acme", "name": "Grease gun", "item_type": "TOOL"},
		map[string]interface{}{"_id": "t3", "company_id": "other", "name": "Pipe wrench", "item_type": "TOOL"},
	}
	_, err = collection.InsertMany(context.Background(), docs)
	require.NoError(t, err)

	toolCollection := &MongoToolCollection{Collection: collection}

	// Case-insensitive substring match, scoped to the company.
	tools, err := toolCollection.Search(context.Background(), "WRENCH", "acme")
	assert.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "Torque wrench", tools[0].Name)

	// Empty query lists the whole company stock.
	tools, err = toolCollection.Search(context.Background(), "", "acme")
	assert.NoError(t, err)
	assert.Len(t, tools, 2)
}
