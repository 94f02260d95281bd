package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/consensuslabs/pavilion-comments/internal/config"
	"github.com/consensuslabs/pavilion-comments/internal/database"
	"github.com/consensuslabs/pavilion-comments/internal/database/mongo"
	"github.com/consensuslabs/pavilion-comments/internal/database/postgres"
	"github.com/consensuslabs/pavilion-comments/internal/database/scylladb"
	"github.com/consensuslabs/pavilion-comments/internal/identity"
	"github.com/consensuslabs/pavilion-comments/internal/logger"
	"github.com/consensuslabs/pavilion-comments/internal/video"
	"github.com/joho/godotenv"
)

func main() {
	targets := flag.String("targets", "", "comma separated stores to migrate (postgres,scylladb,mongo); defaults to postgres plus the configured comment backend")
	configPath := flag.String("config", ".", "directory containing config.yaml")
	flag.Parse()

	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: No .env file found or error loading it: %v", err)
	}

	loggerInstance, err := logger.NewLogger(&logger.Config{
		Level:  logger.InfoLevel,
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	cfg, err := config.NewConfigService(loggerInstance).Load(*configPath)
	if err != nil {
		loggerInstance.LogFatal(err, "Failed to load configuration")
	}

	for _, target := range resolveTargets(*targets, cfg.Comments.Backend) {
		loggerInstance.LogInfo("Running migration", map[string]interface{}{"target": target})

		var err error
		switch target {
		case config.BackendPostgres:
			err = migratePostgres(cfg, loggerInstance)
		case config.BackendScyllaDB:
			err = migrateScylla(cfg, loggerInstance)
		case config.BackendMongo:
			err = migrateMongo(cfg, loggerInstance)
		default:
			err = fmt.Errorf("unknown migration target %q", target)
		}
		if err != nil {
			loggerInstance.LogFatal(err, "Migration failed: "+target)
		}
	}

	loggerInstance.LogInfo("Migrations completed successfully", nil)
}

// resolveTargets returns the stores to migrate. Postgres always holds users
// and videos, so it is always included.
func resolveTargets(flagValue, backend string) []string {
	var targets []string
	if flagValue != "" {
		for _, t := range strings.Split(flagValue, ",") {
			if t = strings.TrimSpace(t); t != "" {
				targets = append(targets, t)
			}
		}
		return targets
	}

	targets = []string{config.BackendPostgres}
	if backend == config.BackendScyllaDB || backend == config.BackendMongo {
		targets = append(targets, backend)
	}
	return targets
}

func migratePostgres(cfg *config.Config, log logger.Logger) error {
	db := database.NewDatabaseService(&cfg.Database, log)
	if _, err := db.Connect(); err != nil {
		return err
	}
	defer db.Close()

	return db.Migrate(&identity.User{}, &video.Video{}, &postgres.CommentRecord{})
}

func migrateScylla(cfg *config.Config, log logger.Logger) error {
	client := scylladb.NewClient(scylladb.ConfigFrom(cfg.ScyllaDB), scylladb.NewLoggerAdapter(log))
	defer client.Close()

	return client.Migrate()
}

// migrateMongo connects, which creates the comment indexes
func migrateMongo(cfg *config.Config, log logger.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	m, err := mongo.New(ctx, cfg.Mongo, log)
	if err != nil {
		return err
	}
	return m.Close(ctx)
}
