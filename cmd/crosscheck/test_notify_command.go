package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"crosscheck/internal/notify"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification to the configured webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			svc := notify.NewService(cfg)
			if err := svc.TestNotification(cmd.Context()); err != nil {
				return fmt.Errorf("send test notification: %w", err)
			}
			out := cmd.OutOrStdout()
			if cfg.Notifications.WebhookURL == "" {
				fmt.Fprintln(out, "No webhook configured; nothing was sent")
				return nil
			}
			fmt.Fprintln(out, "Test notification sent")
			return nil
		},
	}
}
