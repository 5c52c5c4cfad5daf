package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Inspect and resend notifications",
}

var notificationsResendCmd = &cobra.Command{
	Use:   "resend <notification-id>",
	Short: "Deliver a stored notification again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid notification id %q", args[0])
		}
		result, err := env.services.Dispatcher.Resend(cmd.Context(), id)
		if err != nil {
			return err
		}
		if result.DeliveryErr != nil {
			return fmt.Errorf("delivery failed: %w", result.DeliveryErr)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "notification %s sent\n", id)
		return nil
	},
}

func init() {
	notificationsCmd.AddCommand(notificationsResendCmd)
}
