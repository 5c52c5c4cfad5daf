package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var redemptionsCmd = &cobra.Command{
	Use:   "redemptions",
	Short: "Voucher redemption desk actions",
}

var redemptionsUseCmd = &cobra.Command{
	Use:   "use <redemption-id>",
	Short: "Mark a redemption as used at the counter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid redemption id %q", args[0])
		}
		redemption, err := env.services.Rewards.MarkUsed(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "redemption %s used at %s\n", redemption.ID, redemption.UsedAt.Format("2006-01-02 15:04"))
		return nil
	},
}

func init() {
	redemptionsCmd.AddCommand(redemptionsUseCmd)
}
