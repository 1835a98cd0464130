package six_cities_client

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/manifest-network/six-cities-client/cmd"
	"github.com/manifest-network/six-cities-client/pkg"
	"github.com/manifest-network/six-cities-client/pkg/collectors"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve <path>... [flags]",
	Short: "Serve endpoint availability metrics",
	Long: `Probe the given API paths on every Prometheus scrape and expose the
results, together with client request metrics, on /metrics.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		slog.Info("Starting six-cities-client exporter")

		config := pkg.LoadServeConfig()
		if err := config.Validate(); err != nil {
			return err
		}

		client, _, err := cmd.NewClient()
		if err != nil {
			return err
		}

		rootCtx, rootCancel := context.WithCancel(c.Context())
		defer rootCancel()
		handleInterrupt(rootCtx, rootCancel)

		registry := prometheus.NewRegistry()
		if err := registry.Register(collectors.NewEndpointCollector(rootCtx, client, args)); err != nil {
			return fmt.Errorf("failed to register endpoint collector: %w", err)
		}
		slog.Info("Registered endpoint collector", "paths", args)

		metricsSrv := pkg.NewMetricsServer(config.ListenAddress, prometheus.Gatherers{registry, prometheus.DefaultGatherer})
		serverErrChan, err := metricsSrv.Start()
		if err != nil {
			return err
		}

		select {
		case err := <-serverErrChan:
			slog.Error("Metrics server encountered an error", "error", err)
			return fmt.Errorf("metrics server failed: %w", err)

		case <-rootCtx.Done():
			slog.Info("Shutdown signal received, initiating graceful shutdown...")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()

			if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
				slog.Error("Error during graceful shutdown of metrics server", "error", err)
			}
		}

		slog.Info("Application shut down complete.")
		return nil
	},
}

// handleInterrupt cancels on SIGINT or SIGTERM.
func handleInterrupt(ctx context.Context, cancel context.CancelFunc) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(ch)
		select {
		case <-ch:
			slog.Info("Received interrupt signal, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()
}

func init() {
	serveCmd.Flags().String("listen-address", "0.0.0.0:2112", "Address to listen on")

	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		slog.Error("Failed to bind serveCmd flags", "error", err)
	}

	RootCmd.AddCommand(serveCmd)
}
