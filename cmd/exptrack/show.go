package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:     "show <id>",
	Short:   "Show an experiment with its remote feature data",
	GroupID: "experiments",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		detail, err := apiClient.GetExperiment(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("getting experiment: %w", err)
		}

		if jsonOutput {
			return printJSON(detail)
		}

		printExperimentTable(&detail.Experiment)
		printRemoteSection(detail.Remote)
		if len(detail.Versions) > 0 {
			fmt.Println()
			printVersionListTable(detail.Versions)
		}
		return nil
	},
}
