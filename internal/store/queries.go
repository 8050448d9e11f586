package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Audit ledger operations

// InsertAudit inserts or replaces an audit in the ledger.
func (s *Store) InsertAudit(a *Audit) error {
	query := `
		INSERT OR REPLACE INTO audits
		(id, url, business, status, score, submitted_at, checked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		a.ID,
		a.URL,
		a.Business,
		a.Status,
		a.Score,
		a.SubmittedAt.Format(time.RFC3339),
		timeOrNil(a.CheckedAt),
	)

	if err != nil {
		return fmt.Errorf("failed to insert audit %s: %w", a.ID, err)
	}

	return nil
}

// UpdateAuditResult records the outcome of a status check against the API.
func (s *Store) UpdateAuditResult(id, status string, score *int, checkedAt time.Time) error {
	query := `
		UPDATE audits
		SET status = ?, score = ?, checked_at = ?
		WHERE id = ?
	`

	result, err := s.db.Exec(query, status, score, checkedAt.Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("failed to update audit %s: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("audit %s: %w", id, ErrNotFound)
	}

	return nil
}

// GetAudit retrieves an audit by ID.
func (s *Store) GetAudit(id string) (*Audit, error) {
	query := `
		SELECT id, url, business, status, score, submitted_at, checked_at
		FROM audits
		WHERE id = ?
	`

	var a Audit
	var score sql.NullInt64
	var submittedAt string
	var checkedAt sql.NullString

	err := s.db.QueryRow(query, id).Scan(
		&a.ID,
		&a.URL,
		&a.Business,
		&a.Status,
		&score,
		&submittedAt,
		&checkedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("audit %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audit %s: %w", id, err)
	}

	if score.Valid {
		v := int(score.Int64)
		a.Score = &v
	}

	// Parse submitted_at timestamp
	a.SubmittedAt, err = time.Parse(time.RFC3339, submittedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse submitted_at for %s: %w", id, err)
	}

	if checkedAt.Valid {
		t, err := time.Parse(time.RFC3339, checkedAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse checked_at for %s: %w", id, err)
		}
		a.CheckedAt = &t
	}

	return &a, nil
}

// ListAudits returns all audits ordered by submission time (newest first).
func (s *Store) ListAudits() ([]*Audit, error) {
	query := `
		SELECT id, url, business, status, score, submitted_at, checked_at
		FROM audits
		ORDER BY submitted_at DESC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list audits: %w", err)
	}
	defer rows.Close()

	var audits []*Audit
	for rows.Next() {
		var a Audit
		var score sql.NullInt64
		var submittedAt string
		var checkedAt sql.NullString

		err := rows.Scan(
			&a.ID,
			&a.URL,
			&a.Business,
			&a.Status,
			&score,
			&submittedAt,
			&checkedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}

		if score.Valid {
			v := int(score.Int64)
			a.Score = &v
		}

		// Parse submitted_at timestamp
		a.SubmittedAt, err = time.Parse(time.RFC3339, submittedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse submitted_at for %s: %w", a.ID, err)
		}

		if checkedAt.Valid {
			t, err := time.Parse(time.RFC3339, checkedAt.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse checked_at for %s: %w", a.ID, err)
			}
			a.CheckedAt = &t
		}

		audits = append(audits, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audits: %w", err)
	}

	return audits, nil
}

// Scan mark operations

// UpsertScanMark inserts or replaces the remembered scan for a business.
func (s *Store) UpsertScanMark(m *ScanMark) error {
	query := `
		INSERT OR REPLACE INTO scan_marks (business, scan_uuid, avg_rank, seen_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		m.Business,
		m.ScanUUID,
		m.AvgRank,
		m.SeenAt.Format(time.RFC3339),
	)

	if err != nil {
		return fmt.Errorf("failed to upsert scan mark for %s: %w", m.Business, err)
	}

	return nil
}

// GetScanMark returns the remembered scan for a business.
// Returns nil if the business has not been seen yet.
func (s *Store) GetScanMark(business string) (*ScanMark, error) {
	query := `
		SELECT business, scan_uuid, avg_rank, seen_at
		FROM scan_marks
		WHERE business = ?
	`

	var m ScanMark
	var avgRank sql.NullFloat64
	var seenAt string

	err := s.db.QueryRow(query, business).Scan(
		&m.Business,
		&m.ScanUUID,
		&avgRank,
		&seenAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan mark for %s: %w", business, err)
	}

	if avgRank.Valid {
		v := avgRank.Float64
		m.AvgRank = &v
	}

	// Parse seen_at timestamp
	m.SeenAt, err = time.Parse(time.RFC3339, seenAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse seen_at for %s: %w", business, err)
	}

	return &m, nil
}

// ListScanMarks returns all scan marks ordered by business name.
func (s *Store) ListScanMarks() ([]*ScanMark, error) {
	query := `
		SELECT business, scan_uuid, avg_rank, seen_at
		FROM scan_marks
		ORDER BY business
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list scan marks: %w", err)
	}
	defer rows.Close()

	var marks []*ScanMark
	for rows.Next() {
		var m ScanMark
		var avgRank sql.NullFloat64
		var seenAt string

		err := rows.Scan(
			&m.Business,
			&m.ScanUUID,
			&avgRank,
			&seenAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mark row: %w", err)
		}

		if avgRank.Valid {
			v := avgRank.Float64
			m.AvgRank = &v
		}

		// Parse seen_at timestamp
		m.SeenAt, err = time.Parse(time.RFC3339, seenAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse seen_at for %s: %w", m.Business, err)
		}

		marks = append(marks, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scan marks: %w", err)
	}

	return marks, nil
}

// timeOrNil formats a timestamp for storage, passing NULL through.
func timeOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}
