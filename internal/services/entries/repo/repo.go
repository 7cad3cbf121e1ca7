// Package repo provides the entries repository implementation
package repo

import (
	"context"

	"github.com/google/uuid"

	"voicelog/internal/modkit/repokit"
	"voicelog/internal/platform/timex"
	"voicelog/internal/services/entries/domain"
)

// Repo is the entries persistence surface used by the service layer
type Repo interface {
	Insert(ctx context.Context, e domain.TimeEntry) (domain.TimeEntry, error)
	ListRange(ctx context.Context, from, to timex.Date) ([]domain.TimeEntry, error)
}

type (
	// PG is a Postgres implementation of the entries repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer to the Postgres implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// Insert stores one entry and returns it with its assigned id and created_at
func (r *queries) Insert(ctx context.Context, e domain.TimeEntry) (domain.TimeEntry, error) {
	const sql = `
		INSERT INTO time_entries (id, entry_date, project_name, hours, description)
		VALUES ($1, $2::date, $3, $4, $5)
		RETURNING created_at
	`
	e.ID = uuid.NewString()
	row := r.q.QueryRow(ctx, sql, e.ID, e.Date.String(), e.ProjectName, e.Hours, e.Description)
	if err := row.Scan(&e.CreatedAt); err != nil {
		return domain.TimeEntry{}, err
	}
	return e, nil
}

// ListRange returns entries with entry_date in [from, to], oldest first
func (r *queries) ListRange(ctx context.Context, from, to timex.Date) ([]domain.TimeEntry, error) {
	const sql = `
		SELECT id, entry_date::text, project_name, hours, description, created_at
		FROM time_entries
		WHERE entry_date BETWEEN $1::date AND $2::date
		ORDER BY entry_date, created_at
	`
	rows, err := r.q.Query(ctx, sql, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TimeEntry
	for rows.Next() {
		var e domain.TimeEntry
		var day string
		if err := rows.Scan(&e.ID, &day, &e.ProjectName, &e.Hours, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		if e.Date, err = timex.ParseDate(day); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
