package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CreateReport files a data-error report against a school and returns its id.
func (db *DB) CreateReport(ctx context.Context, r *Report) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO school_reports (school_name, field_with_error, description, reporter_email, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		r.SchoolName, r.FieldWithError, r.Description, r.ReporterEmail, ReportStatusPending,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create report: %w", err)
	}
	return id, nil
}

// ListReports returns all reports, newest first.
func (db *DB) ListReports(ctx context.Context) ([]*Report, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, school_name, field_with_error, description, reporter_email, status, created_at
		 FROM school_reports ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*Report
	for rows.Next() {
		var r Report
		if err := rows.Scan(&r.ID, &r.SchoolName, &r.FieldWithError, &r.Description,
			&r.ReporterEmail, &r.Status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, &r)
	}
	return reports, rows.Err()
}

// ResolveReport marks a report resolved.
func (db *DB) ResolveReport(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE school_reports SET status = $1 WHERE id = $2`,
		ReportStatusResolved, id,
	)
	if err != nil {
		return fmt.Errorf("failed to resolve report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("report not found: %s", id)
	}
	return nil
}

// DeleteReport removes a report row.
func (db *DB) DeleteReport(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM school_reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("report not found: %s", id)
	}
	return nil
}
