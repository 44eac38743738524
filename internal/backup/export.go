// Package backup periodically exports the experiment catalog as JSONL to
// one or more destinations.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/groblegark/exptrack/internal/model"
	"github.com/groblegark/exptrack/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version         string    `json:"version"`
	Type            string    `json:"type"`
	Timestamp       time.Time `json:"timestamp"`
	ExperimentCount int       `json:"experiment_count"`
	VersionCount    int       `json:"version_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes all experiments and their versions from the store as
// JSONL to w. Experiments are sorted by ID; each experiment line embeds its
// versions, newest change first.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	experiments, err := s.ListExperiments(ctx, model.ExperimentFilter{})
	if err != nil {
		return fmt.Errorf("list experiments: %w", err)
	}

	sort.Slice(experiments, func(i, j int) bool {
		return experiments[i].ID < experiments[j].ID
	})

	versionCount := 0
	for _, exp := range experiments {
		versionCount += len(exp.Versions)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:         "1",
		Type:            "header",
		Timestamp:       time.Now().UTC(),
		ExperimentCount: len(experiments),
		VersionCount:    versionCount,
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, exp := range experiments {
		if err := enc.Encode(record{Type: "experiment", Data: exp}); err != nil {
			return fmt.Errorf("encode experiment %s: %w", exp.ID, err)
		}
	}

	return nil
}
