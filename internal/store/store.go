// Package store persists knowledge profiles and offer records. Postgres is
// the production backend; Memory serves tests and credential-free local runs.
package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/offerdesk/internal/knowledge"
	"github.com/MikeSquared-Agency/offerdesk/internal/offer"
)

// ErrNotFound is returned when a record (or its parent profile) is missing.
var ErrNotFound = errors.New("record not found")

// ProfileStore reads and writes whole profiles.
type ProfileStore interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*knowledge.Profile, error)
	SaveProfile(ctx context.Context, p *knowledge.Profile) error
	LatestProfile(ctx context.Context) (*knowledge.Profile, error)
}

// OfferStore manages offer records.
type OfferStore interface {
	CreateOffer(ctx context.Context, rec *OfferRecord) error
	UpdateOffer(ctx context.Context, id uuid.UUID, upd OfferUpdate) (*OfferRecord, error)
	GetOffer(ctx context.Context, id uuid.UUID) (*OfferRecord, error)
	ListOffers(ctx context.Context, profileID uuid.UUID) ([]OfferRecord, error)
	DuplicateOffer(ctx context.Context, id uuid.UUID) (*OfferRecord, error)
}

// Store is everything the pipeline needs.
type Store interface {
	ProfileStore
	OfferStore
}

// OfferStatus is the lifecycle tag of an offer record.
type OfferStatus string

const (
	OfferDraft    OfferStatus = "draft"
	OfferSent     OfferStatus = "sent"
	OfferArchived OfferStatus = "archived"
)

// ParseOfferStatus validates a status tag.
func ParseOfferStatus(s string) (OfferStatus, error) {
	switch st := OfferStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case OfferDraft, OfferSent, OfferArchived:
		return st, nil
	}
	return "", fmt.Errorf("unknown offer status %q", s)
}

// UntitledOffer is the title of an offer whose draft has no subject.
const UntitledOffer = "Untitled Offer"

// CopySuffix is appended to the title of a duplicated offer.
const CopySuffix = " (Copy)"

// OfferRecord is one persisted offer with its full draft payload.
type OfferRecord struct {
	ID            uuid.UUID   `json:"id"`
	ProfileID     uuid.UUID   `json:"profile_id"`
	ClientRequest string      `json:"client_request"`
	Title         string      `json:"title"`
	Status        OfferStatus `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	Draft         offer.Draft `json:"offer"`
}

// NewOfferRecord builds a draft-status record titled after the subject.
func NewOfferRecord(profileID uuid.UUID, clientRequest string, d *offer.Draft) *OfferRecord {
	title := strings.TrimSpace(d.Subject)
	if title == "" {
		title = UntitledOffer
	}
	return &OfferRecord{
		ProfileID:     profileID,
		ClientRequest: clientRequest,
		Title:         title,
		Status:        OfferDraft,
		Draft:         *d.Clone(),
	}
}

// OfferUpdate replaces the non-nil fields.
type OfferUpdate struct {
	Title  *string
	Status *OfferStatus
	Draft  *offer.Draft
}

// Postgres is the pgx-backed Store.
type Postgres struct {
	pool *pgxpool.Pool
}

//go:embed schema.sql
var schema string

func New(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Migrate creates the tables if they do not exist.
func (s *Postgres) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *Postgres) Close() {
	s.pool.Close()
}
