package hermes

import (
	"testing"

	"github.com/google/uuid"
)

func TestDecodeInbound(t *testing.T) {
	id := uuid.New()
	req, err := DecodeInbound([]byte(`{"profile_id":"` + id.String() + `","client_request":"30s ad for a coffee brand"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.ProfileID != id || req.ClientRequest != "30s ad for a coffee brand" {
		t.Errorf("unexpected request %+v", req)
	}
}

func TestDecodeInbound_WithoutProfile(t *testing.T) {
	req, err := DecodeInbound([]byte(`{"client_request":"explainer video"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.ProfileID != uuid.Nil {
		t.Errorf("expected nil profile id, got %s", req.ProfileID)
	}
}

func TestDecodeInbound_Rejects(t *testing.T) {
	for _, raw := range []string{`not json`, `{}`, `{"client_request":""}`} {
		if _, err := DecodeInbound([]byte(raw)); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.Publish(SubjectOfferDrafted, OfferEvent{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
