package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"confposter/pkg/logger"
)

var postTenant string

// postCmd runs one publishing batch, for all tenants or a single one.
var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Run a publishing batch",
	Long: `Run one publishing batch: check the posting window and publish quota,
select eligible confessions, publish up to the per-run cap and record
the outcome back into the table.

Without --tenant, every configured tenant runs sequentially.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		schedulers := buildSchedulers(cfg)
		selected, err := selectSchedulers(cfg, schedulers, postTenant)
		if err != nil {
			return err
		}

		ctx := context.Background()
		for _, sched := range selected {
			summary := sched.Run(ctx)
			fmt.Printf("%s: eligible=%d attempted=%d succeeded=%d stopped=%s\n",
				summary.Tenant, summary.Eligible, summary.Attempted, summary.Succeeded, summary.Stopped)
		}

		logger.GetLogger().Info("all publishing runs completed")
		return nil
	},
}

func init() {
	postCmd.Flags().StringVarP(&postTenant, "tenant", "t", "", "run only the named tenant")
	rootCmd.AddCommand(postCmd)
}
