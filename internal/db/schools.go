package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const schoolColumns = `id, name, location_city, location_state, program_type,
	program_length_months, tuition_total, gpa_requirement, icu_experience_months,
	application_deadline, accepts_new_grad_icu, acceptance_rate, nclex_pass_rate,
	website_url, created_at`

func scanSchool(row pgx.Row) (*School, error) {
	var s School
	err := row.Scan(&s.ID, &s.Name, &s.LocationCity, &s.LocationState, &s.ProgramType,
		&s.ProgramLengthMonths, &s.TuitionTotal, &s.GPARequirement, &s.ICUExperienceMonths,
		&s.ApplicationDeadline, &s.AcceptsNewGradICU, &s.AcceptanceRate, &s.NCLEXPassRate,
		&s.WebsiteURL, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSchools returns directory rows matching the filter, ordered by name.
func (db *DB) ListSchools(ctx context.Context, filter SchoolFilter) ([]*School, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.State != "" {
		conds = append(conds, "location_state = "+arg(filter.State))
	}
	if filter.ProgramType != "" {
		conds = append(conds, "program_type = "+arg(filter.ProgramType))
	}
	if filter.MaxTuition > 0 {
		conds = append(conds, "tuition_total <= "+arg(filter.MaxTuition))
	}
	if filter.MaxGPARequirement > 0 {
		conds = append(conds, "gpa_requirement <= "+arg(filter.MaxGPARequirement))
	}
	if filter.AcceptsNewGradICU != nil {
		conds = append(conds, "accepts_new_grad_icu = "+arg(*filter.AcceptsNewGradICU))
	}
	if filter.Search != "" {
		conds = append(conds, "name ILIKE "+arg("%"+filter.Search+"%"))
	}

	query := "SELECT " + schoolColumns + " FROM schools"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name"

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list schools: %w", err)
	}
	defer rows.Close()

	var schools []*School
	for rows.Next() {
		s, err := scanSchool(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan school: %w", err)
		}
		schools = append(schools, s)
	}
	return schools, rows.Err()
}

// GetSchool fetches one school by id. Returns nil when not found.
func (db *DB) GetSchool(ctx context.Context, id uuid.UUID) (*School, error) {
	s, err := scanSchool(db.pool.QueryRow(ctx,
		"SELECT "+schoolColumns+" FROM schools WHERE id = $1", id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get school: %w", err)
	}
	return s, nil
}

// CreateSchool inserts a directory row and returns its id.
func (db *DB) CreateSchool(ctx context.Context, s *School) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO schools (name, location_city, location_state, program_type,
			program_length_months, tuition_total, gpa_requirement, icu_experience_months,
			application_deadline, accepts_new_grad_icu, acceptance_rate, nclex_pass_rate, website_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id`,
		s.Name, s.LocationCity, s.LocationState, s.ProgramType,
		s.ProgramLengthMonths, s.TuitionTotal, s.GPARequirement, s.ICUExperienceMonths,
		s.ApplicationDeadline, s.AcceptsNewGradICU, s.AcceptanceRate, s.NCLEXPassRate, s.WebsiteURL,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create school: %w", err)
	}
	return id, nil
}

// UpdateSchool rewrites a directory row.
func (db *DB) UpdateSchool(ctx context.Context, s *School) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE schools SET name = $1, location_city = $2, location_state = $3,
			program_type = $4, program_length_months = $5, tuition_total = $6,
			gpa_requirement = $7, icu_experience_months = $8, application_deadline = $9,
			accepts_new_grad_icu = $10, acceptance_rate = $11, nclex_pass_rate = $12,
			website_url = $13
		 WHERE id = $14`,
		s.Name, s.LocationCity, s.LocationState, s.ProgramType,
		s.ProgramLengthMonths, s.TuitionTotal, s.GPARequirement, s.ICUExperienceMonths,
		s.ApplicationDeadline, s.AcceptsNewGradICU, s.AcceptanceRate, s.NCLEXPassRate,
		s.WebsiteURL, s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update school: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("school not found: %s", s.ID)
	}
	return nil
}

// DeleteSchool removes a directory row.
func (db *DB) DeleteSchool(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM schools WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete school: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("school not found: %s", id)
	}
	return nil
}

// ListSavedSchools returns the schools a user has favorited.
func (db *DB) ListSavedSchools(ctx context.Context, userID uuid.UUID) ([]*School, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+schoolColumns+` FROM schools s
		 JOIN saved_schools sv ON sv.school_id = s.id
		 WHERE sv.user_id = $1
		 ORDER BY s.name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved schools: %w", err)
	}
	defer rows.Close()

	var schools []*School
	for rows.Next() {
		s, err := scanSchool(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan saved school: %w", err)
		}
		schools = append(schools, s)
	}
	return schools, rows.Err()
}

// SaveSchool favorites a school for a user. Saving twice is a no-op.
func (db *DB) SaveSchool(ctx context.Context, userID, schoolID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO saved_schools (user_id, school_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, school_id) DO NOTHING`,
		userID, schoolID,
	)
	if err != nil {
		return fmt.Errorf("failed to save school: %w", err)
	}
	return nil
}

// UnsaveSchool removes a favorite.
func (db *DB) UnsaveSchool(ctx context.Context, userID, schoolID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM saved_schools WHERE user_id = $1 AND school_id = $2`,
		userID, schoolID,
	)
	if err != nil {
		return fmt.Errorf("failed to unsave school: %w", err)
	}
	return nil
}
