package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var linkCmd = &cobra.Command{
	Use:     "link <experiment-id> <feature-id>",
	Short:   "Link an experiment to a GrowthBook feature",
	GroupID: "growthbook",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := apiClient.LinkFeature(context.Background(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("linking feature: %w", err)
		}

		if jsonOutput {
			return printJSON(resp)
		}
		fmt.Printf("Linked experiment %s to feature %s (%s, enabled=%t)\n",
			args[0], resp.Feature.Key, resp.Feature.ValueType, resp.Feature.Enabled)
		return nil
	},
}

var unlinkCmd = &cobra.Command{
	Use:     "unlink <experiment-id>",
	Short:   "Remove an experiment's GrowthBook feature link",
	GroupID: "growthbook",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exp, err := apiClient.UnlinkFeature(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("unlinking feature: %w", err)
		}

		if jsonOutput {
			return printJSON(exp)
		}
		fmt.Printf("Unlinked experiment %s\n", exp.ID)
		return nil
	},
}
