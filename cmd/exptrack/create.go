package main

import (
	"context"
	"fmt"
	"time"

	"github.com/groblegark/exptrack/internal/client"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:     "create <name>",
	Short:   "Create a new experiment",
	GroupID: "experiments",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		param, _ := cmd.Flags().GetString("param")
		group, _ := cmd.Flags().GetString("group")
		liveDateStr, _ := cmd.Flags().GetString("live-date")
		platforms, _ := cmd.Flags().GetStringSlice("platform")
		numbers, _ := cmd.Flags().GetStringSlice("number")
		contextText, _ := cmd.Flags().GetString("context")
		inactive, _ := cmd.Flags().GetBool("inactive")

		liveDate := time.Now().UTC()
		if liveDateStr != "" {
			var err error
			liveDate, err = time.Parse("2006-01-02", liveDateStr)
			if err != nil {
				return fmt.Errorf("parsing --live-date (want YYYY-MM-DD): %w", err)
			}
		}

		req := &client.CreateExperimentRequest{
			Name:         args[0],
			ExpParameter: param,
			UserGroup:    group,
			NumbersList:  numbers,
			LiveDate:     liveDate,
			Platforms:    platforms,
			Context:      contextText,
		}
		if inactive {
			active := false
			req.IsActive = &active
		}

		exp, err := apiClient.CreateExperiment(context.Background(), req)
		if err != nil {
			return fmt.Errorf("creating experiment: %w", err)
		}

		if jsonOutput {
			return printJSON(exp)
		}
		fmt.Printf("Created experiment %s\n", exp.ID)
		return nil
	},
}

func init() {
	createCmd.Flags().String("param", "", "experiment parameter key (required)")
	createCmd.Flags().String("group", "", "target user group (required)")
	createCmd.Flags().String("live-date", "", "go-live date (YYYY-MM-DD, default today)")
	createCmd.Flags().StringSlice("platform", nil, "target platform (repeatable)")
	createCmd.Flags().StringSlice("number", nil, "tracking number (repeatable)")
	createCmd.Flags().String("context", "", "markdown context notes")
	createCmd.Flags().Bool("inactive", false, "create as inactive")
	_ = createCmd.MarkFlagRequired("param")
	_ = createCmd.MarkFlagRequired("group")
}
