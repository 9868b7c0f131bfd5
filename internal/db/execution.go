package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oguzdev/plant-maintenance/internal/models"
)

// ErrConflict is returned when a second submission races for the same
// instance. Callers surface it as "already completed, refresh and retry".
var ErrConflict = errors.New("instance already has an execution record")

// MongoExecutionCollection implements ExecutionCollection for MongoDB. It is
// the persistence sink of the execution workflow: inserts are append-only and
// a second completion of the same instance is rejected unless it carries a
// re-execution justification.
type MongoExecutionCollection struct {
	Collection *mongo.Collection
	Instances  *mongo.Collection
}

// CreateExecutionRecord claims the instance and appends the execution record.
// The claim is a conditional status transition on the instances collection:
// only an open instance (or, with a re-execution justification, a completed
// one) matches, so of two racing submissions exactly one wins and the other
// gets ErrConflict. The claim stamps the completion time as well.
func (c *MongoExecutionCollection) CreateExecutionRecord(ctx context.Context, record *models.ExecutionRecord) (string, error) {
	if c.Collection == nil || c.Instances == nil {
		return "", fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(record.InstanceID)
	if err != nil {
		return "", fmt.Errorf("invalid instance ID: %w", err)
	}

	claimable := []models.InstanceStatus{models.InstancePending, models.InstanceInProgress}
	if record.ReExecutionReason != nil {
		claimable = append(claimable, models.InstanceCompleted)
	}
	res, err := c.Instances.UpdateOne(ctx,
		bson.M{"_id": objectID, "status": bson.M{"$in": claimable}},
		bson.M{"$set": bson.M{
			"status":         models.InstanceCompleted,
			"last_completed": record.ExecutedAt,
			"updated_at":     time.Now(),
		}})
	if err != nil {
		return "", err
	}
	if res.MatchedCount == 0 {
		return "", ErrConflict
	}

	record.CreatedAt = time.Now()
	insert, err := c.Collection.InsertOne(ctx, record)
	if err != nil {
		return "", err
	}
	id, _ := insert.InsertedID.(primitive.ObjectID)
	record.ID = id
	return id.Hex(), nil
}

// FindExecutions queries execution records from the collection.
func (c *MongoExecutionCollection) FindExecutions(ctx context.Context, filter bson.M) ([]models.ExecutionRecord, error) {
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var records []models.ExecutionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// HasCompletionOn reports whether the plan already has an execution record on
// the given calendar day.
func (c *MongoExecutionCollection) HasCompletionOn(ctx context.Context, planID string, day time.Time) (bool, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	count, err := c.Collection.CountDocuments(ctx, bson.M{
		"plan_id":     planID,
		"executed_at": bson.M{"$gte": start, "$lt": end},
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
