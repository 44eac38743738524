package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Short:   "Delete an experiment and its versions",
	GroupID: "experiments",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiClient.DeleteExperiment(context.Background(), args[0]); err != nil {
			return fmt.Errorf("deleting experiment: %w", err)
		}
		fmt.Printf("Deleted experiment %s\n", args[0])
		return nil
	},
}
