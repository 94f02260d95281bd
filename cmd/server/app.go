package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/consensuslabs/pavilion-comments/internal/auth"
	"github.com/consensuslabs/pavilion-comments/internal/cache"
	"github.com/consensuslabs/pavilion-comments/internal/comment"
	"github.com/consensuslabs/pavilion-comments/internal/config"
	"github.com/consensuslabs/pavilion-comments/internal/database"
	"github.com/consensuslabs/pavilion-comments/internal/database/memory"
	"github.com/consensuslabs/pavilion-comments/internal/database/mongo"
	"github.com/consensuslabs/pavilion-comments/internal/database/postgres"
	"github.com/consensuslabs/pavilion-comments/internal/database/scylladb"
	"github.com/consensuslabs/pavilion-comments/internal/health"
	httpHandler "github.com/consensuslabs/pavilion-comments/internal/http"
	"github.com/consensuslabs/pavilion-comments/internal/http/middleware"
	"github.com/consensuslabs/pavilion-comments/internal/identity"
	"github.com/consensuslabs/pavilion-comments/internal/logger"
	"github.com/consensuslabs/pavilion-comments/internal/metrics"
	"github.com/consensuslabs/pavilion-comments/internal/notification/producer"
	"github.com/consensuslabs/pavilion-comments/internal/video"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const videoCacheTTL = 30 * time.Second

// App holds all application dependencies
type App struct {
	config   *config.Config
	logger   logger.Logger
	database database.Service
	redis    *cache.RedisService
	scylla   *scylladb.Client
	mongo    *mongo.Mongo
	pulsar   pulsar.Client
	producer *producer.CommentProducer
	metrics  *metrics.Metrics
	router   *gin.Engine
	server   *http.Server
}

// NewApp creates a new application instance with all dependencies
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log, err := logger.NewLogger(loggerConfig(cfg.Logging))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	app := &App{
		config:  cfg,
		logger:  log,
		metrics: metrics.New(),
	}

	app.database = database.NewDatabaseService(&cfg.Database, log)
	db, err := app.database.Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	repo, err := app.commentRepository(ctx, db)
	if err != nil {
		app.Shutdown()
		return nil, err
	}

	var remote cache.Service
	redisService, err := cache.NewRedisService(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.LogWarn("Redis unavailable, profile cache is process-local only", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		app.redis = redisService
		remote = redisService
	}

	directory, err := identity.NewDirectory(identity.NewGormRepository(db), remote, identity.DirectoryConfig{
		LocalSize: cfg.Identity.Cache.Size,
		LocalTTL:  cfg.Identity.Cache.LocalTTL,
		RemoteTTL: cfg.Identity.Cache.RedisTTL,
	}, log)
	if err != nil {
		app.Shutdown()
		return nil, fmt.Errorf("failed to create identity directory: %w", err)
	}

	videos, err := video.NewCachedOracle(video.NewGormOracle(db), cfg.Identity.Cache.Size, videoCacheTTL)
	if err != nil {
		app.Shutdown()
		return nil, fmt.Errorf("failed to create video oracle: %w", err)
	}

	opts := []comment.Option{comment.WithRecorder(app.metrics)}
	if cfg.Notification.Enabled {
		if err := app.initProducer(); err != nil {
			app.Shutdown()
			return nil, err
		}
		opts = append(opts, comment.WithEventPublisher(app.producer))
	}

	commentCfg := comment.Config{
		MaxContentLength: cfg.Comments.MaxContentLength,
		DefaultPageSize:  cfg.Comments.DefaultPageSize,
		MaxPageSize:      cfg.Comments.MaxPageSize,
	}
	service := comment.NewService(repo, videos, directory, commentCfg, log, opts...)

	app.setupRouter(service, commentCfg)
	return app, nil
}

// commentRepository opens the configured comment backend
func (a *App) commentRepository(ctx context.Context, db *gorm.DB) (comment.Repository, error) {
	switch a.config.Comments.Backend {
	case config.BackendScyllaDB:
		adapter := scylladb.NewLoggerAdapter(a.logger)
		client := scylladb.NewClient(scylladb.ConfigFrom(a.config.ScyllaDB), adapter)
		if err := client.Connect(); err != nil {
			return nil, fmt.Errorf("failed to connect to ScyllaDB: %w", err)
		}
		a.scylla = client
		return scylladb.NewCommentRepository(client.Session(), adapter), nil
	case config.BackendMongo:
		m, err := mongo.New(ctx, a.config.Mongo, a.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		a.mongo = m
		return m.Comments(), nil
	case config.BackendMemory:
		a.logger.LogWarn("Using in-memory comment storage; data is lost on restart", nil)
		return memory.NewCommentRepository().Transactional(), nil
	default:
		return postgres.NewCommentRepository(db), nil
	}
}

func (a *App) initProducer() error {
	client, err := producer.NewClient(a.config.Pulsar)
	if err != nil {
		return err
	}
	a.pulsar = client

	p, err := producer.NewCommentProducer(client, a.config.Notification.CommentEventsTopic, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create comment producer: %w", err)
	}
	a.producer = p
	return nil
}

func (a *App) setupRouter(service comment.Service, commentCfg comment.Config) {
	if a.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	responseHandler := httpHandler.NewResponseHandler(a.logger)

	router := gin.New()
	router.Use(
		httpHandler.CORSMiddleware(a.config.Server.AllowedOrigins),
		httpHandler.RecoveryMiddleware(responseHandler, a.logger),
		middleware.RequestLoggerMiddleware(a.logger),
		middleware.MetricsMiddleware(a.metrics),
	)

	healthHandler := health.NewHandler(responseHandler).AddCheck("database", a.database)
	if a.redis != nil {
		healthHandler.AddCheck("redis", a.redis)
	}
	if a.scylla != nil {
		healthHandler.AddCheck("scylladb", a.scylla)
	}
	if a.mongo != nil {
		healthHandler.AddCheck("mongo", a.mongo)
	}
	healthHandler.RegisterRoutes(router)

	if a.config.Metrics.Enabled {
		router.GET(a.config.Metrics.Path, gin.WrapH(a.metrics.Handler()))
	}

	jwtConfig := &auth.Config{}
	jwtConfig.JWT.Secret = a.config.Auth.JWT.Secret
	jwtConfig.JWT.Issuer = a.config.Auth.JWT.Issuer

	api := router.Group("/api/v1")
	comment.NewHandler(service, responseHandler, commentCfg).RegisterRoutes(api, auth.NewJWTService(jwtConfig))

	a.router = router
}

// Run serves HTTP until ctx is cancelled
func (a *App) Run(ctx context.Context) error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.LogInfo("Starting server", map[string]interface{}{
			"port":    a.config.Server.Port,
			"backend": a.config.Comments.Backend,
		})
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		a.logger.LogInfo("Received shutdown signal", nil)
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown() error {
	a.logger.LogInfo("Initiating graceful shutdown", nil)

	timeout := a.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server: %w", err))
		}
	}
	if a.producer != nil {
		a.producer.Close()
	}
	if a.pulsar != nil {
		a.pulsar.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.LogWarn("Error closing cache connections", map[string]interface{}{"error": err.Error()})
		}
	}
	if a.scylla != nil {
		if err := a.scylla.Close(); err != nil {
			errs = append(errs, fmt.Errorf("scylladb: %w", err))
		}
	}
	if a.mongo != nil {
		if err := a.mongo.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mongo: %w", err))
		}
	}
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	a.logger.LogInfo("Shutdown complete", nil)
	return nil
}

func loggerConfig(cfg config.LoggingConfig) *logger.Config {
	lc := &logger.Config{
		Level:       logger.Level(cfg.Level),
		Format:      cfg.Format,
		Output:      cfg.Output,
		Development: cfg.Development,
	}
	lc.File.Enabled = cfg.File.Enabled
	lc.File.Path = cfg.File.Path
	lc.Sampling.Initial = cfg.Sampling.Initial
	lc.Sampling.Thereafter = cfg.Sampling.Thereafter
	return lc
}
