package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/oguzdev/plant-maintenance/internal/auth"
	"github.com/oguzdev/plant-maintenance/internal/db"
	"github.com/oguzdev/plant-maintenance/internal/execution"
	"github.com/oguzdev/plant-maintenance/internal/handlers"
	"github.com/oguzdev/plant-maintenance/internal/middleware"
	"github.com/oguzdev/plant-maintenance/internal/notify"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	log.Info("Connected to MongoDB")

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "plant_maintenance"
	}
	database := client.Database(dbName)

	users := &db.MongoUserCollection{Collection: database.Collection("users")}
	plans := &db.MongoPlanCollection{Collection: database.Collection("plans")}
	instances := &db.MongoInstanceCollection{Collection: database.Collection("instances")}
	executions := &db.MongoExecutionCollection{
		Collection: database.Collection("executions"),
		Instances:  database.Collection("instances"),
	}
	reservations := &db.MongoReservationCollection{Collection: database.Collection("reservations")}
	tools := &db.MongoToolCollection{Collection: database.Collection("tools")}

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}
	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()

	invalidator, err := notify.NewMQTTInvalidator()
	if err != nil {
		log.WithError(err).Warn("MQTT broker unavailable, cache invalidation disabled")
	} else if invalidator != nil {
		defer invalidator.Close()
	}

	var inv execution.Invalidator
	if invalidator != nil {
		inv = invalidator
	}
	submitter := execution.NewSubmitter(reservations, plans, executions, inv)

	authHandler := handlers.NewAuthHandler(authService, users)
	planHandler := handlers.NewPlanHandler(plans)
	instanceHandler := handlers.NewInstanceHandler(instances, plans)
	executionHandler := handlers.NewExecutionHandler(submitter, instances, plans, executions, tools, users)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			authHandler.UpdateProfile(w, r)
			return
		}
		authHandler.GetProfile(w, r)
	})
	mux.HandleFunc("/api/auth/change-password", authHandler.ChangePassword)
	mux.HandleFunc("/api/plans", planHandler.Plans)
	mux.HandleFunc("/api/plans/update", planHandler.UpdatePlan)
	mux.HandleFunc("/api/plans/deactivate", planHandler.DeactivatePlan)
	mux.HandleFunc("/api/instances", instanceHandler.Instances)
	mux.HandleFunc("/api/compliance", instanceHandler.Compliance)
	mux.HandleFunc("/api/executions", executionHandler.Executions)
	mux.HandleFunc("/api/executions/begin", executionHandler.Begin)
	mux.HandleFunc("/api/operators", executionHandler.Operators)
	mux.HandleFunc("/api/tools/search", executionHandler.SearchTools)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	handler := rateLimiter.RateLimit(120, 60)(authMiddleware.Authenticate(mux))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("HTTP server listening")
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
