package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetProfile fetches a user's subscription state. Returns nil when the user
// has no profile row yet.
func (db *DB) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	var p Profile
	err := db.pool.QueryRow(ctx,
		`SELECT id, email, subscription_tier, interview_count, is_admin, created_at
		 FROM user_profiles WHERE id = $1`,
		userID,
	).Scan(&p.ID, &p.Email, &p.SubscriptionTier, &p.InterviewCount, &p.IsAdmin, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// EnsureProfile creates a default free-tier profile row for a user if one
// does not exist and returns the current row.
func (db *DB) EnsureProfile(ctx context.Context, userID uuid.UUID, email string) (*Profile, error) {
	var p Profile
	err := db.pool.QueryRow(ctx,
		`INSERT INTO user_profiles (id, email, subscription_tier, interview_count)
		 VALUES ($1, $2, 'free', 0)
		 ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email
		 RETURNING id, email, subscription_tier, interview_count, is_admin, created_at`,
		userID, email,
	).Scan(&p.ID, &p.Email, &p.SubscriptionTier, &p.InterviewCount, &p.IsAdmin, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure profile: %w", err)
	}
	return &p, nil
}

// IncrementInterviewCount durably spends one interview for the user. This is
// the usage-recorder write: it happens once per started session and is never
// rolled back by a session reset.
func (db *DB) IncrementInterviewCount(ctx context.Context, userID uuid.UUID) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE user_profiles SET interview_count = interview_count + 1 WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment interview count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no profile row for user %s", userID)
	}
	return nil
}

// SetTierByEmail writes the subscription tier assigned by the payment
// webhook. The webhook only knows the customer email.
func (db *DB) SetTierByEmail(ctx context.Context, email, tier string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE user_profiles SET subscription_tier = $1 WHERE email = $2`,
		tier, email,
	)
	if err != nil {
		return fmt.Errorf("failed to set tier for %s: %w", email, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no profile row for email %s", email)
	}
	return nil
}
