package cmd

import (
	"os/signal"
	"syscall"

	"document-manager/core/broker"
	"document-manager/core/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// consumeCmd represents the consume command
var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Consume appointment result events",
	Long: `Runs only the event consumer: every appointment result received from the
broker is rendered to PDF and stored under <resultId>.pdf. The metrics endpoint
is still served when enabled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		logg := rt.logger
		defer logg.Sync()

		consumer, err := broker.NewConsumer(rt.cfg.Broker, logg, rt.metrics)
		if err != nil {
			return err
		}
		defer consumer.Close()

		if rt.cfg.Metrics.Enabled {
			app := fiber.New(fiber.Config{DisableStartupMessage: true})
			app.Get(rt.cfg.Metrics.Path, metrics.Handler(rt.registry))
			go func() {
				if err := app.Listen(":" + rt.cfg.Server.Port); err != nil {
					logg.Error("Metrics server stopped", zap.Error(err))
				}
			}()
			defer app.Shutdown()
		}

		return consumer.Run(ctx, rt.pipeline.HandleMessage)
	},
}

func init() {
	RootCmd.AddCommand(consumeCmd)
}
