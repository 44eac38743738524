// Command exptrack is the experiment tracking service and its CLI client.
package main

import (
	"os"

	"github.com/groblegark/exptrack/internal/client"
	"github.com/groblegark/exptrack/internal/ui"
	"github.com/spf13/cobra"
)

var (
	serverURL  string
	authToken  string
	jsonOutput bool

	apiClient client.ExperimentsClient
)

func defaultServerURL() string {
	if s := os.Getenv("EXPTRACK_URL"); s != "" {
		return s
	}
	if cfg, err := loadClientConfig(); err == nil && cfg.URL != "" {
		return cfg.URL
	}
	return "http://localhost:8080"
}

func defaultToken() string {
	if s := os.Getenv("EXPTRACK_TOKEN"); s != "" {
		return s
	}
	if cfg, err := loadClientConfig(); err == nil {
		return cfg.Token
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "exptrack <command>",
	Short: "Experiment tracking with GrowthBook enrichment",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		apiClient = client.NewHTTPClient(serverURL, authToken)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if apiClient != nil {
			apiClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "url", defaultServerURL(), "exptrack server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for the server")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "experiments", Title: "Experiments:"},
		&cobra.Group{ID: "growthbook", Title: "GrowthBook:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false

	// Experiments
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(versionCmd)

	// GrowthBook
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(unlinkCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(featuresCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
