package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/cyclr/internal/cycle"
)

const periodColumns = `id, user_id, start_date, end_date, flow_intensity, notes, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPeriod(row rowScanner) (cycle.PeriodRecord, error) {
	var p cycle.PeriodRecord
	var startDate, flow, createdAt string
	var endDate, notes sql.NullString

	if err := row.Scan(&p.ID, &p.UserID, &startDate, &endDate, &flow, &notes, &createdAt); err != nil {
		return p, err
	}

	start, err := cycle.ParseDate(startDate)
	if err != nil {
		return p, fmt.Errorf("period %s start_date: %w", p.ID, err)
	}
	p.StartDate = start
	if endDate.Valid {
		end, err := cycle.ParseDate(endDate.String)
		if err != nil {
			return p, fmt.Errorf("period %s end_date: %w", p.ID, err)
		}
		p.EndDate = &end
	}
	if notes.Valid {
		n := notes.String
		p.Notes = &n
	}
	p.FlowIntensity = cycle.FlowIntensity(flow)
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return p, nil
}

func nullDate(d *cycle.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// CreatePeriod inserts a period for the store's user. Callers validate the
// input; the schema still rejects an end date before the start.
func (s *Store) CreatePeriod(in cycle.PeriodInput) (*cycle.PeriodRecord, error) {
	flow := in.FlowIntensity
	if flow == "" {
		flow = cycle.FlowMedium
	}
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := s.db.Exec(
		`INSERT INTO periods (id, user_id, start_date, end_date, flow_intensity, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, s.userID, in.StartDate.String(), nullDate(in.EndDate), string(flow), nullString(in.Notes), now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert period: %w", err)
	}
	return s.GetPeriod(id)
}

// GetPeriod returns the period with id, or ErrNotFound.
func (s *Store) GetPeriod(id string) (*cycle.PeriodRecord, error) {
	row := s.db.QueryRow(
		`SELECT `+periodColumns+` FROM periods WHERE id = ? AND user_id = ?`, id, s.userID,
	)
	p, err := scanPeriod(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get period %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get period %s: %w", id, err)
	}
	return &p, nil
}

// ListPeriods returns every period of the user in insertion order.
func (s *Store) ListPeriods() ([]cycle.PeriodRecord, error) {
	rows, err := s.db.Query(
		`SELECT `+periodColumns+` FROM periods WHERE user_id = ? ORDER BY rowid`, s.userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}
	defer rows.Close()

	var periods []cycle.PeriodRecord
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// UpdatePeriod writes the patch's non-nil fields and returns the result.
func (s *Store) UpdatePeriod(id string, patch cycle.PeriodPatch) (*cycle.PeriodRecord, error) {
	query := `UPDATE periods SET id = id`
	var args []any

	if patch.EndDate != nil {
		query += `, end_date = ?`
		args = append(args, patch.EndDate.String())
	}
	if patch.FlowIntensity != nil {
		query += `, flow_intensity = ?`
		args = append(args, string(*patch.FlowIntensity))
	}
	if patch.Notes != nil {
		query += `, notes = ?`
		args = append(args, *patch.Notes)
	}
	query += ` WHERE id = ? AND user_id = ?`
	args = append(args, id, s.userID)

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("update period %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("update period %s: %w", id, ErrNotFound)
	}
	return s.GetPeriod(id)
}

// DeletePeriod removes a period, or returns ErrNotFound.
func (s *Store) DeletePeriod(id string) error {
	res, err := s.db.Exec(`DELETE FROM periods WHERE id = ? AND user_id = ?`, id, s.userID)
	if err != nil {
		return fmt.Errorf("delete period %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete period %s: %w", id, ErrNotFound)
	}
	return nil
}
