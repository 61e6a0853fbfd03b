package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MikeSquared-Agency/offerdesk/internal/offer"
)

const offerColumns = `id, profile_id, client_request, title, status, draft, created_at, updated_at`

// foreignKeyViolation is the SQLSTATE for a missing parent profile.
const foreignKeyViolation = "23503"

// CreateOffer inserts rec, assigning its ID and timestamps.
func (s *Postgres) CreateOffer(ctx context.Context, rec *OfferRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Status == "" {
		rec.Status = OfferDraft
	}
	draft, err := json.Marshal(rec.Draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		INSERT INTO offers (`+offerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING created_at, updated_at`,
		rec.ID, rec.ProfileID, rec.ClientRequest, rec.Title, string(rec.Status), draft,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return fmt.Errorf("profile %s: %w", rec.ProfileID, ErrNotFound)
		}
		return fmt.Errorf("insert offer: %w", err)
	}
	return nil
}

// UpdateOffer replaces the fields set in upd and bumps updated_at.
func (s *Postgres) UpdateOffer(ctx context.Context, id uuid.UUID, upd OfferUpdate) (*OfferRecord, error) {
	var status *string
	if upd.Status != nil {
		v := string(*upd.Status)
		status = &v
	}
	var draft []byte
	if upd.Draft != nil {
		b, err := json.Marshal(upd.Draft)
		if err != nil {
			return nil, fmt.Errorf("encode draft: %w", err)
		}
		draft = b
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE offers SET
			title = COALESCE($2::text, title),
			status = COALESCE($3::text, status),
			draft = COALESCE($4::jsonb, draft),
			updated_at = now()
		WHERE id = $1
		RETURNING `+offerColumns,
		id, upd.Title, status, draft,
	)
	return scanOffer(row)
}

// GetOffer fetches one offer.
func (s *Postgres) GetOffer(ctx context.Context, id uuid.UUID) (*OfferRecord, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+offerColumns+` FROM offers WHERE id = $1`, id)
	return scanOffer(row)
}

// ListOffers returns a profile's offers, most recently updated first.
func (s *Postgres) ListOffers(ctx context.Context, profileID uuid.UUID) ([]OfferRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+offerColumns+` FROM offers
		WHERE profile_id = $1
		ORDER BY updated_at DESC`, profileID)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	out := []OfferRecord{}
	for rows.Next() {
		rec, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// DuplicateOffer copies an offer as a new draft titled "<title> (Copy)".
func (s *Postgres) DuplicateOffer(ctx context.Context, id uuid.UUID) (*OfferRecord, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO offers (`+offerColumns+`)
		SELECT $2, profile_id, client_request, title || $3, 'draft', draft, now(), now()
		FROM offers WHERE id = $1
		RETURNING `+offerColumns,
		id, uuid.New(), CopySuffix,
	)
	return scanOffer(row)
}

func scanOffer(row pgx.Row) (*OfferRecord, error) {
	var rec OfferRecord
	var status string
	var draft []byte
	err := row.Scan(&rec.ID, &rec.ProfileID, &rec.ClientRequest, &rec.Title, &status, &draft, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan offer: %w", err)
	}
	rec.Status = OfferStatus(status)
	var d offer.Draft
	if err := json.Unmarshal(draft, &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	rec.Draft = d
	return &rec, nil
}
