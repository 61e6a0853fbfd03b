package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/offerdesk/internal/hermes"
	"github.com/MikeSquared-Agency/offerdesk/internal/offer"
	"github.com/MikeSquared-Agency/offerdesk/internal/store"
	"github.com/MikeSquared-Agency/offerdesk/internal/webhook"
)

// OfferPatch is a manual edit of an offer record. Nil fields are kept.
type OfferPatch struct {
	Title  *string `json:"title,omitempty"`
	Status *string `json:"status,omitempty"`
	Body   *string `json:"body,omitempty"`
}

// DraftOffer drafts an offer for clientRequest from a snapshot of the
// profile and saves it as a new record.
func (p *Pipeline) DraftOffer(ctx context.Context, profileID uuid.UUID, clientRequest string, sections offer.SectionConfig) (*store.OfferRecord, error) {
	if strings.TrimSpace(clientRequest) == "" {
		return nil, ErrEmptyRequest
	}
	prof, err := p.store.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	draft, err := p.drafter.Draft(ctx, prof.Clone(), clientRequest, sections)
	if err != nil {
		return nil, err
	}

	rec := store.NewOfferRecord(prof.ID, clientRequest, draft)
	if err := p.store.CreateOffer(ctx, rec); err != nil {
		return nil, fmt.Errorf("save offer: %w", err)
	}

	p.logger.Info("offer drafted",
		"offer_id", rec.ID,
		"profile_id", prof.ID,
		"status", string(draft.Status),
		"questions", len(draft.Questions),
		"flags", len(draft.Flags),
	)
	p.publish(hermes.SubjectOfferDrafted, offerEvent(rec))
	return rec, nil
}

// RenderOffer renders the offer as a branded document and stores it on the
// draft. A failed render leaves the record untouched.
func (p *Pipeline) RenderOffer(ctx context.Context, offerID uuid.UUID) (*store.OfferRecord, error) {
	rec, err := p.store.GetOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	prof, err := p.store.GetProfile(ctx, rec.ProfileID)
	if err != nil {
		return nil, err
	}

	doc, err := p.renderer.Render(ctx, &rec.Draft, prof.Brand)
	if err != nil {
		return nil, err
	}

	draft := rec.Draft.Clone()
	draft.SetRendered(doc)
	return p.store.UpdateOffer(ctx, offerID, store.OfferUpdate{Draft: draft})
}

// EditOfferBody replaces the body by hand. The rendered document is stale
// afterwards and is cleared; boundary flags are recomputed for the new body.
func (p *Pipeline) EditOfferBody(ctx context.Context, offerID uuid.UUID, body string) (*store.OfferRecord, error) {
	return p.UpdateOffer(ctx, offerID, OfferPatch{Body: &body})
}

// UpdateOffer applies a manual edit to title, status or body.
func (p *Pipeline) UpdateOffer(ctx context.Context, offerID uuid.UUID, patch OfferPatch) (*store.OfferRecord, error) {
	var upd store.OfferUpdate
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title is empty", ErrPrecondition)
		}
		upd.Title = &title
	}
	if patch.Status != nil {
		st, err := store.ParseOfferStatus(*patch.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPrecondition, err)
		}
		upd.Status = &st
	}
	if patch.Body != nil {
		rec, err := p.store.GetOffer(ctx, offerID)
		if err != nil {
			return nil, err
		}
		prof, err := p.store.GetProfile(ctx, rec.ProfileID)
		if err != nil {
			return nil, err
		}
		draft := rec.Draft.Clone()
		if err := draft.EditBody(*patch.Body); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPrecondition, err)
		}
		p.drafter.CheckBoundary(draft, prof)
		upd.Draft = draft
	}
	return p.store.UpdateOffer(ctx, offerID, upd)
}

func (p *Pipeline) GetOffer(ctx context.Context, offerID uuid.UUID) (*store.OfferRecord, error) {
	return p.store.GetOffer(ctx, offerID)
}

// ListOffers returns a profile's offers, most recently updated first.
func (p *Pipeline) ListOffers(ctx context.Context, profileID uuid.UUID) ([]store.OfferRecord, error) {
	return p.store.ListOffers(ctx, profileID)
}

// DuplicateOffer copies an offer as a new draft.
func (p *Pipeline) DuplicateOffer(ctx context.Context, offerID uuid.UUID) (*store.OfferRecord, error) {
	return p.store.DuplicateOffer(ctx, offerID)
}

// SendOffer hands a confirmed offer to the webhook sink once and marks it
// sent. A delivery failure is returned and the status is left unchanged.
func (p *Pipeline) SendOffer(ctx context.Context, offerID uuid.UUID) (*store.OfferRecord, error) {
	if p.notifier == nil {
		return nil, webhook.ErrNotConfigured
	}
	rec, err := p.store.GetOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	prof, err := p.store.GetProfile(ctx, rec.ProfileID)
	if err != nil {
		return nil, err
	}

	err = p.notifier.Send(ctx, webhook.Payload{
		BusinessName:     prof.CompanyName,
		ClientRequest:    rec.ClientRequest,
		Subject:          rec.Draft.Subject,
		Body:             rec.Draft.Body,
		RenderedDocument: rec.Draft.RenderedDocument,
		Timestamp:        time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("send offer: %w", err)
	}

	sent := store.OfferSent
	out, err := p.store.UpdateOffer(ctx, offerID, store.OfferUpdate{Status: &sent})
	if err != nil {
		return nil, fmt.Errorf("mark offer sent: %w", err)
	}
	p.publish(hermes.SubjectOfferSent, offerEvent(out))
	return out, nil
}

// HandleInboundRequest drafts an offer for a request that arrived over the
// event bus. Failures are logged; there is no caller to report to.
func (p *Pipeline) HandleInboundRequest(req hermes.InboundRequest) {
	ctx, cancel := context.WithTimeout(p.ctx, 5*time.Minute)
	defer cancel()

	profileID := req.ProfileID
	if profileID == uuid.Nil {
		prof, err := p.store.LatestProfile(ctx)
		if err != nil {
			p.logger.Error("inbound request: no profile", "error", err)
			return
		}
		profileID = prof.ID
	}

	rec, err := p.DraftOffer(ctx, profileID, req.ClientRequest, offer.DefaultSections())
	if err != nil {
		p.logger.Error("inbound request: drafting failed", "profile_id", profileID, "error", err)
		return
	}
	p.logger.Info("inbound request drafted", "offer_id", rec.ID, "profile_id", profileID)
}

func offerEvent(rec *store.OfferRecord) hermes.OfferEvent {
	return hermes.OfferEvent{
		OfferID:   rec.ID,
		ProfileID: rec.ProfileID,
		Title:     rec.Title,
		Status:    string(rec.Status),
		Flags:     len(rec.Draft.Flags),
		At:        rec.UpdatedAt,
	}
}
