package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:     "version <command>",
	Short:   "Manage experiment version history",
	GroupID: "experiments",
}

var versionAddCmd = &cobra.Command{
	Use:   "add <experiment-id> <changes>",
	Short: "Record a version entry for an experiment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dateStr, _ := cmd.Flags().GetString("date")

		changeDate := time.Now().UTC()
		if dateStr != "" {
			var err error
			changeDate, err = time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fmt.Errorf("parsing --date (want YYYY-MM-DD): %w", err)
			}
		}

		ver, err := apiClient.AddVersion(context.Background(), args[0], changeDate, args[1])
		if err != nil {
			return fmt.Errorf("adding version: %w", err)
		}

		if jsonOutput {
			return printJSON(ver)
		}
		fmt.Printf("Added version %s to experiment %s\n", ver.ID, args[0])
		return nil
	},
}

var versionListCmd = &cobra.Command{
	Use:   "list <experiment-id>",
	Short: "List version history for an experiment, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		versions, err := apiClient.ListVersions(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("listing versions: %w", err)
		}

		if jsonOutput {
			return printJSON(versions)
		}
		if len(versions) == 0 {
			fmt.Println("No versions recorded")
			return nil
		}
		printVersionListTable(versions)
		return nil
	},
}

func init() {
	versionAddCmd.Flags().String("date", "", "change date (YYYY-MM-DD, default today)")
	versionCmd.AddCommand(versionAddCmd)
	versionCmd.AddCommand(versionListCmd)
}
