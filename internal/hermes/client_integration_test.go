//go:build integration

package hermes

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func skipWithoutNATS(t *testing.T) string {
	t.Helper()
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set, skipping integration test")
	}
	return url
}

func connect(t *testing.T) *Client {
	t.Helper()
	natsURL := skipWithoutNATS(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client, err := NewClient(context.Background(), natsURL, os.Getenv("NATS_TOKEN"), logger)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

func TestIntegration_PubSub(t *testing.T) {
	client := connect(t)
	received := make(chan OfferEvent, 1)

	err := client.Subscribe(SubjectOfferDrafted, func(_ string, data []byte) {
		var ev OfferEvent
		if err := json.Unmarshal(data, &ev); err == nil {
			received <- ev
		}
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	// Give subscription time to propagate
	time.Sleep(100 * time.Millisecond)

	want := OfferEvent{OfferID: uuid.New(), Title: "Your 30s coffee ad", Status: "draft"}
	if err := client.Publish(SubjectOfferDrafted, want); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case ev := <-received:
		if ev.OfferID != want.OfferID || ev.Title != want.Title {
			t.Errorf("unexpected event %+v", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestIntegration_SubscribeInbound(t *testing.T) {
	client := connect(t)
	received := make(chan InboundRequest, 1)

	if err := client.SubscribeInbound(func(req InboundRequest) { received <- req }); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	_ = client.Publish(SubjectInboundRequest, map[string]string{"client_request": ""})
	_ = client.Publish(SubjectInboundRequest, InboundRequest{ClientRequest: "explainer video"})

	select {
	case req := <-received:
		if req.ClientRequest != "explainer video" {
			t.Errorf("expected the valid request only, got %+v", req)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for inbound request")
	}
}
