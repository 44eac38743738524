package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check server and database health",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := apiClient.Health(context.Background())
		if err != nil {
			return fmt.Errorf("checking health: %w", err)
		}

		if jsonOutput {
			return printJSON(resp)
		}
		fmt.Printf("Status:       %s\n", resp.Status)
		fmt.Printf("Database:     %s\n", resp.Database)
		fmt.Printf("Experiments:  %d\n", resp.ExperimentCount)
		return nil
	},
}
