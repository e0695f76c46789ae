package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"data-loader/core/loader"
	"data-loader/core/logger"
	"data-loader/core/middleware/auth"
	"data-loader/core/middleware/rayid"
	"data-loader/feature/data"
	"data-loader/feature/snapshot"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "data-loader/docs/swagger"
)

// @title Data Loader API
// @version 1.0
// @description Serves the metadata tree built from data files and its persisted snapshots.
// @host localhost:8080
// @BasePath /

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the site, then serve its metadata over HTTP",
	Long:  `Runs a build and starts the HTTP server exposing the metadata tree, snapshots and metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadBuildConfig(cmd)
		if err != nil {
			return err
		}
		if !cfg.Server.IsValidPort() {
			return fmt.Errorf("invalid server port: %q", cfg.Server.Port)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		// Snapshot storage is optional
		var store *snapshot.Store
		if cfg.Database.Enabled {
			if s, err := openStore(cmd.Context(), cfg.Database); err != nil {
				logg.Warn("Optional snapshot database unavailable", zap.Error(err))
			} else {
				store = s
				logg.Info("Connected to snapshot database", zap.String("driver", cfg.Database.Driver))
			}
		}

		result, err := runBuild(cmd.Context(), cfg, logg, reg, store != nil)
		if err != nil {
			return err
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		mgr := loader.NewManager(logg)
		mgr.Register(data.NewFeature(result.Metadata.Clone(), logg))
		mgr.Register(snapshot.NewFeature(store, logg))

		// RayID must be first to trace everything
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Public endpoints
		app.Get("/swagger/*", swagger.HandlerDefault)
		if cfg.Server.Metrics {
			app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
		}

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			return fmt.Errorf("failed to load features: %w", err)
		}

		go func() {
			logg.Info("Starting server", zap.String("addr", cfg.Server.Addr()))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	addBuildFlags(serveCmd)
	RootCmd.AddCommand(serveCmd)
}
