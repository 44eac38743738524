package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/groblegark/exptrack/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanExperiment scans a single row into a model.Experiment.
// The row must contain columns in the order defined by experimentColumns.
func scanExperiment(row scannable) (*model.Experiment, error) {
	var e model.Experiment
	var (
		numbersList  pq.StringArray
		platforms    pq.StringArray
		contextText  sql.NullString
		featureID    sql.NullString
		lastSyncedAt sql.NullTime
	)

	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.ExpParameter,
		&e.UserGroup,
		&numbersList,
		&e.LiveDate,
		&platforms,
		&contextText,
		&e.IsActive,
		&featureID,
		&lastSyncedAt,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.NumbersList = []string(numbersList)
	if e.NumbersList == nil {
		e.NumbersList = []string{}
	}
	e.Platforms = []string(platforms)
	if e.Platforms == nil {
		e.Platforms = []string{}
	}
	e.Context = contextText.String

	if featureID.Valid {
		id := featureID.String
		e.GrowthbookFeatureID = &id
	}
	if lastSyncedAt.Valid {
		t := lastSyncedAt.Time
		e.LastSyncedAt = &t
	}

	return &e, nil
}

// scanExperiments scans multiple rows into a slice of model.Experiment pointers.
func scanExperiments(rows *sql.Rows) ([]*model.Experiment, error) {
	var experiments []*model.Experiment
	for rows.Next() {
		e, err := scanExperiment(rows)
		if err != nil {
			return nil, err
		}
		experiments = append(experiments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return experiments, nil
}

// scanVersion scans a single row into a model.Version.
func scanVersion(row scannable) (*model.Version, error) {
	var v model.Version
	err := row.Scan(
		&v.ID,
		&v.ExperimentID,
		&v.ChangeDate,
		&v.Changes,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// scanVersions scans multiple rows into a slice of model.Version pointers.
func scanVersions(rows *sql.Rows) ([]*model.Version, error) {
	var versions []*model.Version
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return versions, nil
}

// nullTimePtr converts a *time.Time to a sql.NullTime.
func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// nullString converts a string to sql.NullString; empty string is null.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullStringPtr converts a *string to sql.NullString; nil is null.
func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
