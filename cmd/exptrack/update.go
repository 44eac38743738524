package main

import (
	"context"
	"fmt"
	"time"

	"github.com/groblegark/exptrack/internal/client"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:     "update <id>",
	Short:   "Update fields of an experiment",
	GroupID: "experiments",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.UpdateExperimentRequest{}

		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			req.Name = &v
		}
		if cmd.Flags().Changed("param") {
			v, _ := cmd.Flags().GetString("param")
			req.ExpParameter = &v
		}
		if cmd.Flags().Changed("group") {
			v, _ := cmd.Flags().GetString("group")
			req.UserGroup = &v
		}
		if cmd.Flags().Changed("live-date") {
			v, _ := cmd.Flags().GetString("live-date")
			d, err := time.Parse("2006-01-02", v)
			if err != nil {
				return fmt.Errorf("parsing --live-date (want YYYY-MM-DD): %w", err)
			}
			req.LiveDate = &d
		}
		if cmd.Flags().Changed("platform") {
			v, _ := cmd.Flags().GetStringSlice("platform")
			req.Platforms = v
		}
		if cmd.Flags().Changed("number") {
			v, _ := cmd.Flags().GetStringSlice("number")
			req.NumbersList = v
		}
		if cmd.Flags().Changed("context") {
			v, _ := cmd.Flags().GetString("context")
			req.Context = &v
		}
		if cmd.Flags().Changed("active") {
			v, _ := cmd.Flags().GetBool("active")
			req.IsActive = &v
		}

		exp, err := apiClient.UpdateExperiment(context.Background(), args[0], req)
		if err != nil {
			return fmt.Errorf("updating experiment: %w", err)
		}

		if jsonOutput {
			return printJSON(exp)
		}
		fmt.Printf("Updated experiment %s\n", exp.ID)
		return nil
	},
}

func init() {
	updateCmd.Flags().String("name", "", "experiment name")
	updateCmd.Flags().String("param", "", "experiment parameter key")
	updateCmd.Flags().String("group", "", "target user group")
	updateCmd.Flags().String("live-date", "", "go-live date (YYYY-MM-DD)")
	updateCmd.Flags().StringSlice("platform", nil, "target platforms (replaces the list)")
	updateCmd.Flags().StringSlice("number", nil, "tracking numbers (replaces the list)")
	updateCmd.Flags().String("context", "", "markdown context notes")
	updateCmd.Flags().Bool("active", true, "active state")
}
