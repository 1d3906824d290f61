package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var quotaTenant string

// quotaCmd fetches and prints the publishing quota snapshot.
var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Show the current content publishing quota",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		schedulers := buildSchedulers(cfg)
		selected, err := selectSchedulers(cfg, schedulers, quotaTenant)
		if err != nil {
			return err
		}

		ctx := context.Background()
		for _, sched := range selected {
			quota := sched.TestQuota(ctx)
			if quota == nil {
				fmt.Printf("%s: quota unavailable\n", sched.Tenant().Name)
				continue
			}
			fmt.Printf("%s: %d/%d\n", sched.Tenant().Name, quota.Usage, quota.Limit)
		}
		return nil
	},
}

func init() {
	quotaCmd.Flags().StringVarP(&quotaTenant, "tenant", "t", "", "check only the named tenant")
	rootCmd.AddCommand(quotaCmd)
}
