package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"court-compare/core/config"
	"court-compare/core/loader"
	"court-compare/core/logger"
	"court-compare/core/middleware/auth"
	"court-compare/core/middleware/rayid"
	"court-compare/core/middleware/requestlog"
	"court-compare/feature/comparison"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// metricsPath serves prometheus metrics without an API key.
const metricsPath = "/metrics"

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the comparison server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		opts, err := cfg.Compare.Options()
		if err != nil {
			logg.Fatal("Invalid compare configuration", zap.Error(err))
		}

		// 3. Initialize Staging and Session Stores
		ctx := context.Background()
		store, err := openStaging(ctx, cfg, logg)
		if err != nil {
			logg.Fatal("Failed to open staging area", zap.Error(err))
		}
		sessions, err := openSessions(cfg, logg)
		if err != nil {
			logg.Fatal("Failed to open session store", zap.Error(err))
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
			BodyLimit:             64 * 1024 * 1024,
		})

		// 5. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(comparison.NewFeature(store, sessions, opts, logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Request logging with ray id
		app.Use(requestlog.New(logg))

		// 3. Auth (Protect API, metrics stay scrapeable)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, Skip: []string{metricsPath}}))
		if !cfg.Server.AuthEnabled() {
			logg.Warn("API key not configured, endpoints are unprotected")
		}

		app.Get(metricsPath, adaptor.HTTPHandler(promhttp.Handler()))

		// 6. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server",
				zap.String("addr", cfg.Server.Addr()),
				zap.String("staging", cfg.Staging.Backend),
				zap.String("session", cfg.Session.Backend),
			)
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
