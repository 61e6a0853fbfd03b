package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/MikeSquared-Agency/offerdesk/internal/knowledge"
)

const profileColumns = `id, company_name, industry, facts, proof_points, style_examples, brand, verified, created_at, updated_at`

// SaveProfile upserts the whole profile and refreshes its timestamps.
func (s *Postgres) SaveProfile(ctx context.Context, p *knowledge.Profile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	brand, err := json.Marshal(p.Brand)
	if err != nil {
		return fmt.Errorf("encode brand: %w", err)
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			industry = EXCLUDED.industry,
			facts = EXCLUDED.facts,
			proof_points = EXCLUDED.proof_points,
			style_examples = EXCLUDED.style_examples,
			brand = EXCLUDED.brand,
			verified = EXCLUDED.verified,
			updated_at = now()
		RETURNING created_at, updated_at`,
		p.ID, p.CompanyName, p.Industry, nonNil(p.Facts), nonNil(p.ProofPoints), nonNil(p.StyleExamples), brand, p.Verified,
	)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// GetProfile fetches a profile by ID.
func (s *Postgres) GetProfile(ctx context.Context, id uuid.UUID) (*knowledge.Profile, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	return scanProfile(row)
}

// LatestProfile returns the most recently updated profile.
func (s *Postgres) LatestProfile(ctx context.Context) (*knowledge.Profile, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY updated_at DESC LIMIT 1`)
	return scanProfile(row)
}

func scanProfile(row pgx.Row) (*knowledge.Profile, error) {
	var p knowledge.Profile
	var brand []byte
	err := row.Scan(&p.ID, &p.CompanyName, &p.Industry, &p.Facts, &p.ProofPoints, &p.StyleExamples, &brand, &p.Verified, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	if err := json.Unmarshal(brand, &p.Brand); err != nil {
		return nil, fmt.Errorf("decode brand: %w", err)
	}
	p.Facts = nonNil(p.Facts)
	p.ProofPoints = nonNil(p.ProofPoints)
	p.StyleExamples = nonNil(p.StyleExamples)
	return &p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
