package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/offerdesk/internal/knowledge"
	"github.com/MikeSquared-Agency/offerdesk/internal/offer"
)

// runStoreContract exercises behaviour every Store backend must share.
func runStoreContract(t *testing.T, s Store) {
	ctx := context.Background()

	p := knowledge.NewProfile("Acme Films", "Video services")
	if _, err := p.Append(knowledge.ListFacts, "Base price $500", "Turnaround 5-7 days"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.SaveProfile(ctx, p); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	t.Run("profile round trip", func(t *testing.T) {
		got, err := s.GetProfile(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetProfile failed: %v", err)
		}
		if got.CompanyName != "Acme Films" || len(got.Facts) != 2 {
			t.Errorf("unexpected profile %+v", got)
		}
		if got.Brand != p.Brand {
			t.Errorf("brand = %+v, want %+v", got.Brand, p.Brand)
		}
		if len(got.ProofPoints) != 0 || got.ProofPoints == nil {
			t.Errorf("expected empty non-nil proof points, got %#v", got.ProofPoints)
		}
	})

	t.Run("latest profile", func(t *testing.T) {
		got, err := s.LatestProfile(ctx)
		if err != nil {
			t.Fatalf("LatestProfile failed: %v", err)
		}
		if got.ID != p.ID {
			t.Errorf("latest = %s, want %s", got.ID, p.ID)
		}
	})

	t.Run("missing profile", func(t *testing.T) {
		if _, err := s.GetProfile(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		rec := NewOfferRecord(uuid.New(), "req", &offer.Draft{Status: offer.StatusReady, Subject: "x", Body: "<p>x</p>"})
		if err := s.CreateOffer(ctx, rec); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for orphan offer, got %v", err)
		}
	})

	first := NewOfferRecord(p.ID, "30s ad for a coffee brand", &offer.Draft{
		Status:  offer.StatusReady,
		Subject: "Your 30s coffee ad",
		Body:    "<p>Hi there</p>",
	})
	if err := s.CreateOffer(ctx, first); err != nil {
		t.Fatalf("CreateOffer failed: %v", err)
	}
	untitled := NewOfferRecord(p.ID, "something", &offer.Draft{Status: offer.StatusNeedsInfo, Questions: []string{"Budget?"}})
	if err := s.CreateOffer(ctx, untitled); err != nil {
		t.Fatalf("CreateOffer failed: %v", err)
	}

	t.Run("create defaults", func(t *testing.T) {
		if first.ID == uuid.Nil || first.CreatedAt.IsZero() {
			t.Error("expected ID and timestamps to be assigned")
		}
		if untitled.Title != UntitledOffer {
			t.Errorf("title = %q, want %q", untitled.Title, UntitledOffer)
		}
		got, err := s.GetOffer(ctx, first.ID)
		if err != nil {
			t.Fatalf("GetOffer failed: %v", err)
		}
		if got.Status != OfferDraft || got.Draft.Subject != "Your 30s coffee ad" {
			t.Errorf("unexpected record %+v", got)
		}
	})

	t.Run("partial update", func(t *testing.T) {
		sent := OfferSent
		got, err := s.UpdateOffer(ctx, first.ID, OfferUpdate{Status: &sent})
		if err != nil {
			t.Fatalf("UpdateOffer failed: %v", err)
		}
		if got.Status != OfferSent || got.Title != "Your 30s coffee ad" {
			t.Errorf("unexpected record after status update %+v", got)
		}
		if got.Draft.Body != "<p>Hi there</p>" {
			t.Errorf("draft changed unexpectedly: %q", got.Draft.Body)
		}

		d := got.Draft
		d.SetRendered("<html>doc</html>")
		got, err = s.UpdateOffer(ctx, first.ID, OfferUpdate{Draft: &d})
		if err != nil {
			t.Fatalf("UpdateOffer failed: %v", err)
		}
		if got.Draft.RenderedDocument != "<html>doc</html>" || got.Status != OfferSent {
			t.Errorf("unexpected record after draft update %+v", got)
		}
	})

	t.Run("list most recent first", func(t *testing.T) {
		list, err := s.ListOffers(ctx, p.ID)
		if err != nil {
			t.Fatalf("ListOffers failed: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("expected 2 offers, got %d", len(list))
		}
		if list[0].ID != first.ID {
			t.Errorf("expected the updated offer first, got %q", list[0].Title)
		}
		empty, err := s.ListOffers(ctx, uuid.New())
		if err != nil || len(empty) != 0 {
			t.Errorf("expected empty list, got %v, %v", empty, err)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		dup, err := s.DuplicateOffer(ctx, first.ID)
		if err != nil {
			t.Fatalf("DuplicateOffer failed: %v", err)
		}
		if dup.ID == first.ID {
			t.Error("duplicate must have a new ID")
		}
		if dup.Title != "Your 30s coffee ad (Copy)" || dup.Status != OfferDraft {
			t.Errorf("unexpected duplicate %+v", dup)
		}
		if dup.Draft.Body != "<p>Hi there</p>" || dup.ClientRequest != first.ClientRequest {
			t.Error("duplicate must carry the original content")
		}
		if _, err := s.DuplicateOffer(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("missing offer", func(t *testing.T) {
		if _, err := s.GetOffer(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		title := "x"
		if _, err := s.UpdateOffer(ctx, uuid.New(), OfferUpdate{Title: &title}); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
