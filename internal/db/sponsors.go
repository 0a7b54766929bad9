package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ListSponsors returns all sponsors in display order.
func (db *DB) ListSponsors(ctx context.Context) ([]*Sponsor, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, title, image_url, website_url, instagram_url, description,
			display_order, created_at
		 FROM sponsors ORDER BY display_order, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sponsors: %w", err)
	}
	defer rows.Close()

	var sponsors []*Sponsor
	for rows.Next() {
		var s Sponsor
		if err := rows.Scan(&s.ID, &s.Name, &s.Title, &s.ImageURL, &s.WebsiteURL,
			&s.InstagramURL, &s.Description, &s.DisplayOrder, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sponsor: %w", err)
		}
		sponsors = append(sponsors, &s)
	}
	return sponsors, rows.Err()
}

// CreateSponsor inserts a sponsor row and returns its id.
func (db *DB) CreateSponsor(ctx context.Context, s *Sponsor) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO sponsors (name, title, image_url, website_url, instagram_url, description, display_order)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		s.Name, s.Title, s.ImageURL, s.WebsiteURL, s.InstagramURL, s.Description, s.DisplayOrder,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create sponsor: %w", err)
	}
	return id, nil
}

// UpdateSponsor rewrites a sponsor row.
func (db *DB) UpdateSponsor(ctx context.Context, s *Sponsor) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE sponsors SET name = $1, title = $2, image_url = $3, website_url = $4,
			instagram_url = $5, description = $6, display_order = $7
		 WHERE id = $8`,
		s.Name, s.Title, s.ImageURL, s.WebsiteURL, s.InstagramURL, s.Description, s.DisplayOrder, s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update sponsor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sponsor not found: %s", s.ID)
	}
	return nil
}

// DeleteSponsor removes a sponsor row.
func (db *DB) DeleteSponsor(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM sponsors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sponsor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sponsor not found: %s", id)
	}
	return nil
}
