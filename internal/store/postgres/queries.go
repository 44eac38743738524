package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/groblegark/exptrack/internal/model"
)

// experimentColumns is the column list used for SELECT statements on the
// experiments table.
const experimentColumns = `id, name, exp_parameter, user_group, numbers_list,
	live_date, platforms, context, is_active, growthbook_feature_id,
	last_synced_at, created_at, updated_at`

// versionColumns is the column list used for SELECT statements on the
// versions table.
const versionColumns = `id, experiment_id, change_date, changes, created_at, updated_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryCreateExperiment(ctx context.Context, db executor, e *model.Experiment) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO experiments (
			id, name, exp_parameter, user_group, numbers_list,
			live_date, platforms, context, is_active, growthbook_feature_id,
			last_synced_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13
		)`,
		e.ID,
		e.Name,
		e.ExpParameter,
		e.UserGroup,
		pq.Array(e.NumbersList),
		e.LiveDate,
		pq.Array(e.Platforms),
		nullString(e.Context),
		e.IsActive,
		nullStringPtr(e.GrowthbookFeatureID),
		nullTimePtr(e.LastSyncedAt),
		e.CreatedAt,
		e.UpdatedAt,
	)
	return err
}

func queryGetExperiment(ctx context.Context, db executor, id string) (*model.Experiment, error) {
	row := db.QueryRowContext(ctx, `SELECT `+experimentColumns+` FROM experiments WHERE id = $1`, id)
	e, err := scanExperiment(row)
	if err != nil {
		return nil, err
	}

	versions, err := queryListVersions(ctx, db, id)
	if err != nil {
		return nil, err
	}
	e.Versions = versions

	return e, nil
}

func queryListExperiments(ctx context.Context, db executor, filter model.ExperimentFilter) ([]*model.Experiment, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if filter.Platform != "" {
		whereClauses = append(whereClauses, nextArg()+" = ANY(platforms)")
		args = append(args, filter.Platform)
	}

	if filter.UserGroup != "" {
		whereClauses = append(whereClauses, "user_group = "+nextArg())
		args = append(args, filter.UserGroup)
	}

	if filter.IsActive != nil {
		whereClauses = append(whereClauses, "is_active = "+nextArg())
		args = append(args, *filter.IsActive)
	}

	if filter.Search != "" {
		p := nextArg()
		whereClauses = append(whereClauses,
			fmt.Sprintf("(name ILIKE '%%' || %s || '%%' OR exp_parameter ILIKE '%%' || %s || '%%')", p, p))
		args = append(args, filter.Search)
	}

	query := `SELECT ` + experimentColumns + ` FROM experiments`
	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	query += " ORDER BY live_date DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	experiments, err := scanExperiments(rows)
	if err != nil {
		return nil, err
	}

	for _, e := range experiments {
		versions, err := queryListVersions(ctx, db, e.ID)
		if err != nil {
			return nil, err
		}
		e.Versions = versions
	}

	return experiments, nil
}

func queryUpdateExperiment(ctx context.Context, db executor, e *model.Experiment) error {
	res, err := db.ExecContext(ctx, `
		UPDATE experiments SET
			name = $2,
			exp_parameter = $3,
			user_group = $4,
			numbers_list = $5,
			live_date = $6,
			platforms = $7,
			context = $8,
			is_active = $9,
			updated_at = $10
		WHERE id = $1`,
		e.ID,
		e.Name,
		e.ExpParameter,
		e.UserGroup,
		pq.Array(e.NumbersList),
		e.LiveDate,
		pq.Array(e.Platforms),
		nullString(e.Context),
		e.IsActive,
		e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func queryDeleteExperiment(ctx context.Context, db executor, id string) error {
	// Versions cascade via the foreign key.
	res, err := db.ExecContext(ctx, `DELETE FROM experiments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func queryLinkFeature(ctx context.Context, db executor, id, featureID string, syncedAt time.Time) error {
	res, err := db.ExecContext(ctx, `
		UPDATE experiments SET
			growthbook_feature_id = $2,
			last_synced_at = $3,
			updated_at = $3
		WHERE id = $1`,
		id, featureID, syncedAt,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func queryUnlinkFeature(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `
		UPDATE experiments SET
			growthbook_feature_id = NULL,
			last_synced_at = NULL,
			updated_at = now()
		WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func queryMarkSynced(ctx context.Context, db executor, id string, syncedAt time.Time) error {
	res, err := db.ExecContext(ctx, `
		UPDATE experiments SET last_synced_at = $2 WHERE id = $1`,
		id, syncedAt,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func queryListLinkedExperiments(ctx context.Context, db executor) ([]*model.Experiment, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+experimentColumns+` FROM experiments WHERE growthbook_feature_id IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExperiments(rows)
}

func queryCreateVersion(ctx context.Context, db executor, v *model.Version) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO versions (
			id, experiment_id, change_date, changes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		v.ID,
		v.ExperimentID,
		v.ChangeDate,
		v.Changes,
		v.CreatedAt,
		v.UpdatedAt,
	)
	return err
}

func queryListVersions(ctx context.Context, db executor, experimentID string) ([]*model.Version, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+versionColumns+` FROM versions WHERE experiment_id = $1 ORDER BY change_date DESC`,
		experimentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanVersions(rows)
}

func queryCountExperiments(ctx context.Context, db executor) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM experiments`).Scan(&count)
	return count, err
}

// requireRow converts a zero-rows-affected result into sql.ErrNoRows so
// callers can treat missing records uniformly.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
