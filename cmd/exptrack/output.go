package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/groblegark/exptrack/internal/client"
	"github.com/groblegark/exptrack/internal/model"
	"github.com/groblegark/exptrack/internal/ui"
)

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func activeLabel(active bool) string {
	if active {
		return ui.RenderActive("active")
	}
	return ui.RenderInactive("inactive")
}

func printExperimentTable(exp *model.Experiment) {
	fmt.Printf("ID:            %s\n", ui.RenderAccent(exp.ID))
	fmt.Printf("Name:          %s\n", exp.Name)
	fmt.Printf("Parameter:     %s\n", exp.ExpParameter)
	fmt.Printf("User Group:    %s\n", exp.UserGroup)
	fmt.Printf("Status:        %s\n", activeLabel(exp.IsActive))
	fmt.Printf("Live Date:     %s\n", exp.LiveDate.Format("2006-01-02"))
	if len(exp.Platforms) > 0 {
		fmt.Printf("Platforms:     %s\n", strings.Join(exp.Platforms, ", "))
	}
	if len(exp.NumbersList) > 0 {
		fmt.Printf("Numbers:       %s\n", strings.Join(exp.NumbersList, ", "))
	}
	if exp.GrowthbookFeatureID != nil {
		fmt.Printf("Feature:       %s\n", *exp.GrowthbookFeatureID)
	}
	if exp.LastSyncedAt != nil {
		fmt.Printf("Last Synced:   %s\n", exp.LastSyncedAt.Format("2006-01-02 15:04:05"))
	}
	if exp.Context != "" {
		fmt.Printf("Context:\n%s\n", exp.Context)
	}
	fmt.Printf("Created At:    %s\n", exp.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Updated At:    %s\n", exp.UpdatedAt.Format("2006-01-02 15:04:05"))
}

func printExperimentListTable(experiments []*model.Experiment) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPARAMETER\tGROUP\tSTATUS\tLIVE DATE\tFEATURE")
	for _, exp := range experiments {
		name := exp.Name
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		feature := "-"
		if exp.GrowthbookFeatureID != nil {
			feature = *exp.GrowthbookFeatureID
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			exp.ID,
			name,
			exp.ExpParameter,
			exp.UserGroup,
			activeLabel(exp.IsActive),
			exp.LiveDate.Format("2006-01-02"),
			feature,
		)
	}
	w.Flush()
	fmt.Printf("\n%d experiments\n", len(experiments))
}

func printVersionListTable(versions []*model.Version) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCHANGE DATE\tCHANGES")
	for _, v := range versions {
		changes := strings.ReplaceAll(v.Changes, "\n", " ")
		if len(changes) > 60 {
			changes = changes[:57] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", v.ID, v.ChangeDate.Format("2006-01-02"), changes)
	}
	w.Flush()
	fmt.Printf("\n%d versions\n", len(versions))
}

func printFeatureListTable(features []client.SearchedFeature) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKEY\tTYPE\tENABLED\tRULES\tLINKED TO")
	for _, f := range features {
		enabled := ui.RenderInactive("no")
		if f.Enabled {
			enabled = ui.RenderActive("yes")
		}
		linked := "-"
		if f.LinkedTo != nil {
			linked = fmt.Sprintf("%s (%s)", f.LinkedTo.ExperimentName, f.LinkedTo.ExperimentID)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", f.ID, f.Key, f.ValueType, enabled, f.RuleCount, linked)
	}
	w.Flush()
	fmt.Printf("\n%d features\n", len(features))
}

// printRemoteSection renders the raw "remote" payload from a GET response.
func printRemoteSection(remote json.RawMessage) {
	if len(remote) == 0 || string(remote) == "null" {
		fmt.Println(ui.RenderMuted("Remote:        (none)"))
		return
	}

	var data struct {
		Key              string   `json:"key"`
		ValueType        string   `json:"valueType"`
		Enabled          bool     `json:"enabled"`
		TargetingSummary []string `json:"targetingSummary"`
		RuleCount        int      `json:"ruleCount"`
		Error            string   `json:"error"`
		Message          string   `json:"message"`
	}
	if err := json.Unmarshal(remote, &data); err != nil {
		fmt.Printf("Remote:        %s\n", string(remote))
		return
	}
	if data.Error != "" {
		fmt.Printf("Remote:        %s (%s)\n", ui.RenderInactive(data.Error), data.Message)
		return
	}

	enabled := ui.RenderInactive("disabled")
	if data.Enabled {
		enabled = ui.RenderActive("enabled")
	}
	fmt.Printf("Remote:        %s [%s] %s, %d rules\n", ui.RenderAccent(data.Key), data.ValueType, enabled, data.RuleCount)
	for _, line := range data.TargetingSummary {
		fmt.Printf("  Targeting:   %s\n", line)
	}
}
