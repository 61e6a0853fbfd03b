package store

import (
	"context"
	"testing"

	"github.com/MikeSquared-Agency/offerdesk/internal/knowledge"
	"github.com/MikeSquared-Agency/offerdesk/internal/offer"
)

func TestMemory_Contract(t *testing.T) {
	runStoreContract(t, NewMemory())
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	p := knowledge.NewProfile("Acme", "General")
	if err := m.SaveProfile(ctx, p); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	got, _ := m.GetProfile(ctx, p.ID)
	got.CompanyName = "Mutated"
	again, _ := m.GetProfile(ctx, p.ID)
	if again.CompanyName != "Acme" {
		t.Error("caller mutation leaked into the store")
	}

	rec := NewOfferRecord(p.ID, "req", &offer.Draft{Status: offer.StatusNeedsInfo, Questions: []string{"Budget?"}})
	if err := m.CreateOffer(ctx, rec); err != nil {
		t.Fatalf("CreateOffer failed: %v", err)
	}
	rec.Draft.Questions[0] = "Mutated"
	stored, _ := m.GetOffer(ctx, rec.ID)
	if stored.Draft.Questions[0] != "Budget?" {
		t.Error("caller mutation leaked into the stored draft")
	}
}

func TestMemory_SaveKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	p := knowledge.NewProfile("Acme", "General")
	_ = m.SaveProfile(ctx, p)
	created := p.CreatedAt

	p.Industry = "Video services"
	_ = m.SaveProfile(ctx, p)
	if !p.CreatedAt.Equal(created) {
		t.Errorf("created_at changed from %v to %v", created, p.CreatedAt)
	}
	if p.UpdatedAt.Before(created) {
		t.Error("updated_at moved backwards")
	}
}

func TestParseOfferStatus(t *testing.T) {
	for _, tc := range []struct {
		in      string
		want    OfferStatus
		wantErr bool
	}{
		{"draft", OfferDraft, false},
		{" SENT ", OfferSent, false},
		{"archived", OfferArchived, false},
		{"deleted", "", true},
	} {
		got, err := ParseOfferStatus(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParseOfferStatus(%q) = %q, %v", tc.in, got, err)
		}
	}
}
