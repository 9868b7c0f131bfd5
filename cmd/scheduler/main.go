// The scheduler is the instance generator: it scans active maintenance plans
// and emits a PENDING instance whenever a plan's cycle has elapsed. The API
// treats it as an untrusted upstream; the reconciler corrects anything it
// over-produces.
package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/oguzdev/plant-maintenance/internal/db"
	"github.com/oguzdev/plant-maintenance/internal/engine"
	"github.com/oguzdev/plant-maintenance/internal/models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "plant_maintenance"
	}
	database := client.Database(dbName)
	plans := &db.MongoPlanCollection{Collection: database.Collection("plans")}
	instances := &db.MongoInstanceCollection{Collection: database.Collection("instances")}

	interval := 15 * time.Minute
	if v := os.Getenv("SCHED_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			interval = time.Duration(n) * time.Second
		}
	}

	log.WithField("interval", interval).Info("Starting instance generator")

	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		generateDueInstances(plans, instances)
		<-tick.C
	}
}

// generateDueInstances emits one PENDING instance per active plan whose next
// due date has arrived and that has no open instance yet.
func generateDueInstances(plans db.PlanCollection, instances db.InstanceCollection) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	active, err := plans.FindPlans(ctx, bson.M{"is_active": true})
	if err != nil {
		log.WithError(err).Error("Failed to list active plans")
		return
	}

	today := engine.TruncateToDay(time.Now())
	created := 0

	for _, plan := range active {
		if plan.FrequencyDays <= 0 {
			// Misconfigured plans never generate instances.
			log.WithField("plan_id", plan.ID.Hex()).Warn("skipping plan with non-positive frequency")
			continue
		}

		existing, err := instances.FindInstances(ctx, bson.M{
			"plan_id": plan.ID.Hex(),
			"status":  bson.M{"$in": []models.InstanceStatus{models.InstancePending, models.InstanceInProgress}},
		})
		if err != nil {
			log.WithError(err).WithField("plan_id", plan.ID.Hex()).Error("Failed to check open instances")
			continue
		}
		if len(existing) > 0 {
			continue
		}

		lastCompleted := latestCompletion(ctx, instances, plan.ID.Hex())
		due := engine.NextDueDate(lastCompleted, plan.FrequencyDays, today)
		if due.After(today) {
			continue
		}

		_, err = instances.InsertInstance(ctx, models.MaintenanceInstance{
			CompanyID:     plan.CompanyID,
			PlanID:        plan.ID.Hex(),
			Title:         plan.Title,
			ScheduledDate: due,
			Status:        models.InstancePending,
			LastCompleted: lastCompleted,
		})
		if err != nil {
			log.WithError(err).WithField("plan_id", plan.ID.Hex()).Error("Failed to create instance")
			continue
		}
		created++
	}

	if created > 0 {
		log.WithField("created", created).Info("Generated maintenance instances")
	}
}

// latestCompletion returns the most recent completion date among a plan's
// completed instances, nil when the plan has never been completed.
func latestCompletion(ctx context.Context, instances db.InstanceCollection, planID string) *time.Time {
	completed, err := instances.FindInstances(ctx, bson.M{
		"plan_id": planID,
		"status":  models.InstanceCompleted,
	})
	if err != nil {
		return nil
	}
	var latest *time.Time
	for _, inst := range completed {
		if inst.LastCompleted == nil {
			continue
		}
		if latest == nil || inst.LastCompleted.After(*latest) {
			t := *inst.LastCompleted
			latest = &t
		}
	}
	return latest
}
