package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:     "sync <experiment-id>",
	Short:   "Force a refresh of an experiment's GrowthBook feature data",
	GroupID: "growthbook",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := apiClient.SyncExperiment(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("syncing experiment: %w", err)
		}

		if jsonOutput {
			return printJSON(resp)
		}
		fmt.Printf("Synced experiment %s at %s\n", args[0], resp.LastSyncedAt.Format("2006-01-02 15:04:05"))
		printRemoteSection(resp.Growthbook)
		return nil
	},
}
