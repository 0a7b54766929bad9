package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ListInterviewInfo returns all school-specific interview info records.
func (db *DB) ListInterviewInfo(ctx context.Context) ([]*InterviewInfo, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, school_name, interview_style, clinical_focus, emotional_focus,
			additional_notes, last_updated
		 FROM school_interview_info ORDER BY school_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list interview info: %w", err)
	}
	defer rows.Close()

	var infos []*InterviewInfo
	for rows.Next() {
		var i InterviewInfo
		if err := rows.Scan(&i.ID, &i.SchoolName, &i.InterviewStyle, &i.ClinicalFocus,
			&i.EmotionalFocus, &i.AdditionalNotes, &i.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan interview info: %w", err)
		}
		infos = append(infos, &i)
	}
	return infos, rows.Err()
}

// UpsertInterviewInfo creates or refreshes the interview info for a school,
// matched by name.
func (db *DB) UpsertInterviewInfo(ctx context.Context, i *InterviewInfo) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO school_interview_info
			(school_name, interview_style, clinical_focus, emotional_focus, additional_notes, last_updated)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 ON CONFLICT (school_name) DO UPDATE SET
			interview_style = EXCLUDED.interview_style,
			clinical_focus = EXCLUDED.clinical_focus,
			emotional_focus = EXCLUDED.emotional_focus,
			additional_notes = EXCLUDED.additional_notes,
			last_updated = NOW()`,
		i.SchoolName, i.InterviewStyle, i.ClinicalFocus, i.EmotionalFocus, i.AdditionalNotes,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert interview info: %w", err)
	}
	return nil
}

// CreateExpeditedRequest records a user's ask to prioritize a school.
func (db *DB) CreateExpeditedRequest(ctx context.Context, r *ExpeditedRequest) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO expedited_requests (user_email, school_name, notes)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		r.UserEmail, r.SchoolName, r.Notes,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create expedited request: %w", err)
	}
	return id, nil
}
