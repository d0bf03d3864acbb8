package cmd

import (
	"errors"
	"os/signal"
	"syscall"

	"document-manager/core/broker"
	"document-manager/core/loader"
	"document-manager/core/logger"
	"document-manager/core/metrics"
	"document-manager/core/middleware/auth"
	"document-manager/core/middleware/rayid"
	"document-manager/core/server"
	"document-manager/feature/documents"
	"document-manager/feature/results"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "document-manager/docs/swagger"
)

// @title Document Manager API
// @version 1.0
// @description Stores clinic documents and renders appointment result reports.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

var withoutConsumer bool

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the document manager server",
	Long:  `Starts the HTTP server and the appointment result consumer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		logg := rt.logger
		defer logg.Sync()

		app, err := newApp(rt)
		if err != nil {
			return err
		}

		var consumer broker.Consumer
		if !withoutConsumer {
			consumer, err = broker.NewConsumer(rt.cfg.Broker, logg, rt.metrics)
			if err != nil {
				return err
			}
			defer consumer.Close()
		}

		errCh := make(chan error, 2)
		go func() {
			logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			errCh <- app.Listen(":" + rt.cfg.Server.Port)
		}()
		if consumer != nil {
			go func() {
				errCh <- consumer.Run(ctx, rt.pipeline.HandleMessage)
			}()
		}

		var runErr error
		select {
		case <-ctx.Done():
		case runErr = <-errCh:
		}

		logg.Info("Shutting down server...")
		stop()
		if err := app.Shutdown(); err != nil {
			runErr = errors.Join(runErr, err)
		}
		return runErr
	},
}

// newApp builds the Fiber application with middleware and features.
func newApp(rt *runtime) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true, // We will log our own startup message
		ErrorHandler:          server.ErrorHandler,
		BodyLimit:             rt.cfg.Server.BodyLimit(),
	})

	// RayID must be first to trace everything
	app.Use(rayid.New())
	app.Use(logger.Middleware(rt.logger))

	// Browser clients call the API from other origins; preflights bypass auth.
	origins := rt.cfg.Server.CorsOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{AllowOrigins: origins}))

	// Public endpoints
	app.Get("/swagger/*", swagger.HandlerDefault)
	public := []string{"/swagger"}
	if rt.cfg.Metrics.Enabled && rt.cfg.Metrics.Path != "" {
		app.Get(rt.cfg.Metrics.Path, metrics.Handler(rt.registry))
		public = append(public, rt.cfg.Metrics.Path)
	}

	app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey, Skip: public}))

	mgr := loader.NewManager(rt.logger)
	mgr.Register(documents.NewFeature(rt.documents, rt.logger))
	mgr.Register(results.NewFeature(rt.pipeline))
	if err := mgr.LoadAll(app); err != nil {
		return nil, err
	}
	return app, nil
}

func init() {
	startCmd.Flags().BoolVar(&withoutConsumer, "no-consumer", false, "serve HTTP only, without consuming events")
	RootCmd.AddCommand(startCmd)
}
