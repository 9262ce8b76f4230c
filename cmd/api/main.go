package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/factore-sourcing/backend/internal/api/handlers"
	"github.com/factore-sourcing/backend/internal/cache/redis"
	"github.com/factore-sourcing/backend/internal/embedding"
	"github.com/factore-sourcing/backend/internal/index"
	"github.com/factore-sourcing/backend/internal/ingestion"
	"github.com/factore-sourcing/backend/internal/metrics"
	"github.com/factore-sourcing/backend/internal/middleware/ratelimit"
	"github.com/factore-sourcing/backend/internal/middleware/security"
	"github.com/factore-sourcing/backend/internal/middleware/validation"
	"github.com/factore-sourcing/backend/internal/relevance"
	"github.com/factore-sourcing/backend/internal/scraper"
	"github.com/factore-sourcing/backend/internal/storage/sqlite"
	"github.com/factore-sourcing/backend/internal/vector/milvus"
	"github.com/factore-sourcing/backend/pkg/config"
	appLogger "github.com/factore-sourcing/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting source relevance API server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	if err := sqliteClient.InitSchema(); err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	var embeddingCache embedding.Cache
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLHours)*time.Hour,
		)
		if err != nil {
			appLogger.Warn("Redis unavailable, embedding cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			embeddingCache = redisClient
		}
	}

	provider := embedding.Select(cfg.Embedding, embeddingCache)

	var vectorClient *milvus.Client
	if cfg.Vector.Enabled {
		vectorClient, err = milvus.NewClient(
			cfg.Vector.Endpoint,
			cfg.Vector.APIKey,
			cfg.Vector.CollectionName,
			provider.Dimension(),
		)
		if err != nil {
			appLogger.Warn("Vector store unavailable, similarity search disabled", zap.Error(err))
			vectorClient = nil
		} else {
			defer vectorClient.Close()
			if err := vectorClient.CreateCollection(context.Background()); err != nil {
				appLogger.Warn("Failed to prepare vector collection", zap.Error(err))
				vectorClient = nil
			}
		}
	}

	thesisIndex := index.NewThesisIndex(provider.Dimension())
	engine := relevance.NewEngine(thesisIndex, provider)

	// Restore the last submitted thesis so a restart does not silently
	// drop back to unranked matches.
	if record, err := sqliteClient.LatestThesis(); err != nil {
		appLogger.Warn("Failed to load stored thesis", zap.Error(err))
	} else if record != nil {
		if _, _, err := engine.SubmitThesis(context.Background(), record.Text); err != nil {
			appLogger.Warn("Failed to restore stored thesis", zap.Error(err))
		} else {
			appLogger.Info("Restored thesis from storage", zap.String("thesis_id", record.ID))
		}
	}

	sc := scraper.New(cfg.Scraper)
	processor := ingestion.NewProcessor(sqliteClient, vectorClient, sc, provider)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		IsDevelopment: cfg.Logging.Level == "debug",
	}))

	limiter := ratelimit.New(ratelimit.Config{
		Logger: appLogger.GetLogger(),
	})
	defer limiter.Stop()
	app.Use(limiter.Middleware())

	app.Use(validation.Middleware(validation.Config{
		Logger: appLogger.GetLogger(),
	}))

	wsHandler := handlers.NewWebSocketHandler(engine, sqliteClient)
	sourcesHandler := handlers.NewSourcesHandler(processor, sqliteClient, wsHandler)
	thesisHandler := handlers.NewThesisHandler(engine, sqliteClient, wsHandler)
	matchesHandler := handlers.NewMatchesHandler(engine, sqliteClient)
	similarHandler := handlers.NewSimilarHandler(vectorClient, sqliteClient)

	api := app.Group("/api/v1")

	api.Post("/sources", sourcesHandler.AddSource)
	api.Get("/sources/starred", sourcesHandler.ListStarred)
	api.Post("/sources/:id/star", sourcesHandler.StarSource)
	api.Delete("/sources/:id", sourcesHandler.DeleteSource)

	api.Post("/thesis/text", thesisHandler.SubmitText)
	api.Post("/thesis/upload", thesisHandler.SubmitUpload)
	api.Get("/thesis", thesisHandler.GetThesis)

	api.Get("/matches", matchesHandler.GetMatches)
	api.Get("/matches/starred", matchesHandler.GetStarredMatches)

	api.Get("/articles/similar", similarHandler.GetSimilar)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":     "healthy",
			"has_thesis": engine.HasThesis(),
			"time":       time.Now().Unix(),
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/matches", websocket.New(wsHandler.HandleConnection))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
