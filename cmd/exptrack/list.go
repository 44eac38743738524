package main

import (
	"context"
	"fmt"

	"github.com/groblegark/exptrack/internal/client"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List experiments",
	GroupID: "experiments",
	RunE: func(cmd *cobra.Command, args []string) error {
		platform, _ := cmd.Flags().GetString("platform")
		group, _ := cmd.Flags().GetString("group")
		search, _ := cmd.Flags().GetString("search")

		req := &client.ListExperimentsRequest{
			Platform:  platform,
			UserGroup: group,
			Search:    search,
		}
		if cmd.Flags().Changed("active") {
			active, _ := cmd.Flags().GetBool("active")
			req.IsActive = &active
		}

		resp, err := apiClient.ListExperiments(context.Background(), req)
		if err != nil {
			return fmt.Errorf("listing experiments: %w", err)
		}

		if jsonOutput {
			return printJSON(resp.Experiments)
		}
		printExperimentListTable(resp.Experiments)
		return nil
	},
}

func init() {
	listCmd.Flags().String("platform", "", "filter by platform membership")
	listCmd.Flags().String("group", "", "filter by user group")
	listCmd.Flags().Bool("active", true, "filter by active state")
	listCmd.Flags().String("search", "", "substring match on name or parameter")
}
