package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oguzdev/plant-maintenance/internal/execution"
	"github.com/oguzdev/plant-maintenance/internal/models"
)

// MongoReservationCollection implements ReservationCollection for MongoDB.
// Failures are wrapped as execution.ErrUpstream so callers degrade to an empty
// resource list instead of failing the workflow.
type MongoReservationCollection struct {
	Collection *mongo.Collection
}

// List returns the reservations attached to an instance.
func (c *MongoReservationCollection) List(ctx context.Context, instanceID string) ([]models.Reservation, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("%w: mongo collection is nil", execution.ErrUpstream)
	}
	cursor, err := c.Collection.Find(ctx, bson.M{"instance_id": instanceID})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", execution.ErrUpstream, err)
	}
	defer cursor.Close(ctx)
	var reservations []models.Reservation
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("%w: %v", execution.ErrUpstream, err)
	}
	return reservations, nil
}

// MongoToolCollection implements ToolCollection for MongoDB.
type MongoToolCollection struct {
	Collection *mongo.Collection
}

// Search finds stock items by name within a company, for ad-hoc additions.
func (c *MongoToolCollection) Search(ctx context.Context, query, companyID string) ([]models.Tool, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("%w: mongo collection is nil", execution.ErrUpstream)
	}
	filter := bson.M{"company_id": companyID}
	if query != "" {
		filter["name"] = bson.M{"$regex": query, "$options": "i"}
	}
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", execution.ErrUpstream, err)
	}
	defer cursor.Close(ctx)
	var tools []models.Tool
	if err := cursor.All(ctx, &tools); err != nil {
		return nil, fmt.Errorf("%w: %v", execution.ErrUpstream, err)
	}
	return tools, nil
}
