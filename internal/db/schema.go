package db

import (
	"context"
	"fmt"
)

// CreateTables creates all tables and indexes if they do not exist.
func (db *DB) CreateTables(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS user_profiles (
			id UUID PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			subscription_tier VARCHAR(20) NOT NULL DEFAULT 'free',
			interview_count INTEGER NOT NULL DEFAULT 0,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_user_profiles_email ON user_profiles(email);`,

		`CREATE TABLE IF NOT EXISTS schools (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			location_city VARCHAR(100) NOT NULL DEFAULT '',
			location_state VARCHAR(50) NOT NULL DEFAULT '',
			program_type VARCHAR(20) NOT NULL DEFAULT 'DNP',
			program_length_months INTEGER NOT NULL DEFAULT 0,
			tuition_total INTEGER NOT NULL DEFAULT 0,
			gpa_requirement DECIMAL(3,2) NOT NULL DEFAULT 0,
			icu_experience_months INTEGER NOT NULL DEFAULT 0,
			application_deadline VARCHAR(50) NOT NULL DEFAULT '',
			accepts_new_grad_icu BOOLEAN NOT NULL DEFAULT FALSE,
			acceptance_rate DECIMAL(5,2) NOT NULL DEFAULT 0,
			nclex_pass_rate DECIMAL(5,2) NOT NULL DEFAULT 0,
			website_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_schools_state ON schools(location_state);
		CREATE INDEX IF NOT EXISTS idx_schools_program_type ON schools(program_type);`,

		`CREATE TABLE IF NOT EXISTS saved_schools (
			user_id UUID NOT NULL REFERENCES user_profiles(id) ON DELETE CASCADE,
			school_id UUID NOT NULL REFERENCES schools(id) ON DELETE CASCADE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, school_id)
		);`,

		`CREATE TABLE IF NOT EXISTS sponsors (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			title VARCHAR(255) NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			website_url TEXT NOT NULL DEFAULT '',
			instagram_url TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			display_order INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS school_interview_info (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			school_name VARCHAR(255) NOT NULL UNIQUE,
			interview_style TEXT NOT NULL DEFAULT '',
			clinical_focus TEXT NOT NULL DEFAULT '',
			emotional_focus TEXT NOT NULL DEFAULT '',
			additional_notes TEXT NOT NULL DEFAULT '',
			last_updated TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS expedited_requests (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_email VARCHAR(255) NOT NULL,
			school_name VARCHAR(255) NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS reports (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			school_name VARCHAR(255) NOT NULL,
			field_with_error VARCHAR(100) NOT NULL,
			description TEXT NOT NULL,
			reporter_email VARCHAR(255) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status);`,
	}

	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}

	return nil
}
