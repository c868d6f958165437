package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var checkNotificationsCmd = &cobra.Command{
	Use:   "check-notifications",
	Short: "Run one low-stock and expiry sweep",
	Long:  `Evaluate every product once and email managers about low stock and upcoming expiry.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := initializeDependencies()
		if err != nil {
			return fmt.Errorf("failed to initialize dependencies: %w", err)
		}
		defer deps.Close()

		svc := buildServices(deps)
		logAlerts(deps.EventBus)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		result, err := svc.Notification.Sweep(ctx)
		if err != nil {
			return fmt.Errorf("notification sweep failed: %w", err)
		}
		_ = deps.EventBus.Wait(ctx)

		fmt.Fprintln(os.Stdout, result.Message())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkNotificationsCmd)
}
