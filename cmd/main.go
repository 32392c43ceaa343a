package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sakashimaa/planary/internal/config"
	"github.com/sakashimaa/planary/internal/repository"
	"github.com/sakashimaa/planary/internal/service"
	httpTransport "github.com/sakashimaa/planary/internal/transport/http"
	"github.com/sakashimaa/planary/internal/transport/http/handler"
	"github.com/sakashimaa/planary/pkg/db"
	"github.com/sakashimaa/planary/pkg/token"
	"github.com/sakashimaa/planary/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using system envs")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	tp, err := utils.InitTracer(ctx, "planary-api")
	if err != nil {
		log.Fatalf("Error init tracer: %v", err)
	}

	pool, err := db.NewPostgresDB(cfg.Postgres.URL)
	if err != nil {
		log.Fatalf("error creating postgres db: %v", err)
	}

	if err := runMigrations(cfg.Postgres.URL); err != nil {
		log.Fatalf("error running migrations: %v", err)
	}

	loggerCfg := config.LoggerConfig{
		Level: "info",
		Env:   cfg.Env,
	}

	logger, err := config.NewLogger(loggerCfg)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			log.Printf("error syncing logger: %v", err)
		}
	}()

	userRepo := repository.NewUserRepository(pool, logger)
	activityRepo := repository.NewActivityRepository(pool, logger)

	tokens := token.NewService(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	authService := service.NewAuthService(userRepo, tokens, logger)
	activityService := service.NewActivityService(activityRepo, logger)

	logger.Info("planary api started!")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	go func() {
		http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{
			Registry: reg,
		}))
		log.Println("Metrics server is listening on " + cfg.Metrics.Port + " 📈")

		if err := http.ListenAndServe(cfg.Metrics.Port, nil); err != nil {
			log.Printf("Metrics serving failed: %v", err)
		}
	}()

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.Origins,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("Planary API is alive!")
	})

	handlers := &httpTransport.Handlers{
		Auth:     handler.NewAuthHandler(authService, logger),
		Activity: handler.NewActivityHandler(activityService, logger),
	}

	httpTransport.RegisterRoutes(app, handlers, tokens)

	go func() {
		log.Println("HTTP Server listening on port: " + cfg.HTTP.Port)
		if err := app.Listen(cfg.HTTP.Port); err != nil {
			log.Fatalf("Error listening on HTTP: %v", err)
		}
	}()

	<-ctx.Done()

	log.Println("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP: %v\n", err)
	} else {
		log.Println("HTTP Server stopped")
	}

	pool.Close()
	log.Println("✅ Postgres pool closed")

	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Error closing telemetry: %v\n", err)
	} else {
		log.Println("✅ Telemetry closed")
	}
}

func runMigrations(dbURL string) error {
	m, err := migrate.New("file://migrations", dbURL)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}
