package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var featuresCmd = &cobra.Command{
	Use:     "features",
	Short:   "Search GrowthBook features and show link status",
	GroupID: "growthbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		project, _ := cmd.Flags().GetString("project")

		resp, err := apiClient.SearchFeatures(context.Background(), search, project)
		if err != nil {
			return fmt.Errorf("searching features: %w", err)
		}

		if jsonOutput {
			return printJSON(resp)
		}
		if resp.Count == 0 {
			fmt.Println("No features matched")
			return nil
		}
		printFeatureListTable(resp.Features)
		fmt.Printf("\n%d feature(s)\n", resp.Count)
		return nil
	},
}

func init() {
	featuresCmd.Flags().String("search", "", "search term matched against key and description (required)")
	featuresCmd.Flags().String("project", "", "restrict to a GrowthBook project ID")
	_ = featuresCmd.MarkFlagRequired("search")
}
