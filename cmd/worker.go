package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/events"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/notification"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start long-running background workers such as the scheduled notification sweep.`,
}

var notificationWorkerCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Run the scheduled low-stock and expiry sweep",
	Long:  `Run the notification sweep on the configured cron schedule until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		startNotificationWorker()
	},
}

var (
	workerSchedule string
	runImmediately bool
)

func startNotificationWorker() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	lg := deps.Logger
	svc := buildServices(deps)
	logAlerts(deps.EventBus)

	spec := deps.Config.Notification.CronSchedule()
	if workerSchedule != "" {
		spec = workerSchedule
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := notification.NewScheduler(svc.Notification, spec, lg)
	if err := scheduler.Start(ctx); err != nil {
		lg.Error("failed to start notification scheduler", "schedule", spec, "error", err)
		os.Exit(1)
	}
	if runImmediately {
		go scheduler.RunOnce(ctx)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	lg.Info("notification worker is running. Press Ctrl+C to stop.", "schedule", spec)

	sig := <-sigChan
	lg.Info("received signal, shutting down notification worker", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	scheduler.Stop(shutdownCtx)
	cancel()
	if err := deps.EventBus.Wait(shutdownCtx); err != nil {
		lg.Warn("shutdown timeout reached, forcing exit")
	}
	lg.Info("notification worker shutdown complete")
}

// logAlerts records every alert the sweep raises; there is no websocket hub
// outside the server process.
func logAlerts(bus *events.EventBus) {
	handler := func(ctx context.Context, event events.Event) error {
		if alert, ok := event.(*events.AlertEvent); ok {
			bus.Logger().Info("alert raised",
				"event_type", alert.EventType(),
				"product_id", alert.ProductID,
				"sku", alert.SKU,
				"recipients", alert.Recipients)
		}
		return nil
	}
	bus.Subscribe(events.EventTypeLowStockAlert, handler)
	bus.Subscribe(events.EventTypeExpiryAlert, handler)
}

func init() {
	notificationWorkerCmd.Flags().StringVar(&workerSchedule, "schedule", "", "Cron schedule (overrides config)")
	notificationWorkerCmd.Flags().BoolVar(&runImmediately, "now", false, "Run one sweep right after start")

	workerCmd.AddCommand(notificationWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
