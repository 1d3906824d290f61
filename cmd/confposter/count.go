package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var countTenant string

// countCmd reports how many confessions are ready to post.
var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count confessions ready to be posted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		schedulers := buildSchedulers(cfg)
		selected, err := selectSchedulers(cfg, schedulers, countTenant)
		if err != nil {
			return err
		}

		ctx := context.Background()
		for _, sched := range selected {
			count := sched.CountReady(ctx)
			fmt.Printf("%s: %d ready\n", sched.Tenant().Name, count)
		}
		return nil
	},
}

func init() {
	countCmd.Flags().StringVarP(&countTenant, "tenant", "t", "", "count only the named tenant")
	rootCmd.AddCommand(countCmd)
}
