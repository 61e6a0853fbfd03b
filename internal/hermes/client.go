// Package hermes carries offerdesk domain events over NATS.
package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const (
	SubjectOfferDrafted   = "offerdesk.offer.drafted"
	SubjectOfferSent      = "offerdesk.offer.sent"
	SubjectProfileUpdated = "offerdesk.profile.updated"

	// SubjectInboundRequest carries client requests that should be drafted
	// without a user at the keyboard.
	SubjectInboundRequest = "offerdesk.request.inbound"
)

// OfferEvent is published when an offer is drafted or sent.
type OfferEvent struct {
	OfferID   uuid.UUID `json:"offer_id"`
	ProfileID uuid.UUID `json:"profile_id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Flags     int       `json:"flags"`
	At        time.Time `json:"at"`
}

// ProfileEvent is published after a profile is saved.
type ProfileEvent struct {
	ProfileID uuid.UUID `json:"profile_id"`
	Facts     int       `json:"facts"`
	Verified  bool      `json:"verified"`
	At        time.Time `json:"at"`
}

// InboundRequest asks for an offer draft. A nil ProfileID means the most
// recently updated profile.
type InboundRequest struct {
	ProfileID     uuid.UUID `json:"profile_id,omitempty"`
	ClientRequest string    `json:"client_request"`
}

// Publisher is the outbound half of the event bus.
type Publisher interface {
	Publish(subject string, data any) error
}

// Nop discards every event. Used when NATS is not configured.
type Nop struct{}

func (Nop) Publish(string, any) error { return nil }

type Client struct {
	conn   *nats.Conn
	subs   []*nats.Subscription
	logger *slog.Logger
}

func NewClient(ctx context.Context, url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.Name("offerdesk"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Subscribe(subject string, handler func(subject string, data []byte)) error {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	c.subs = append(c.subs, sub)
	c.logger.Info("subscribed", "subject", subject)
	return nil
}

// SubscribeInbound decodes inbound draft requests and hands them to fn.
// Undecodable or empty messages are logged and dropped.
func (c *Client) SubscribeInbound(fn func(InboundRequest)) error {
	return c.Subscribe(SubjectInboundRequest, func(_ string, data []byte) {
		req, err := DecodeInbound(data)
		if err != nil {
			c.logger.Warn("dropping inbound request", "error", err)
			return
		}
		fn(req)
	})
}

// DecodeInbound parses an inbound request payload.
func DecodeInbound(data []byte) (InboundRequest, error) {
	var req InboundRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return InboundRequest{}, fmt.Errorf("decode inbound request: %w", err)
	}
	if req.ClientRequest == "" {
		return InboundRequest{}, fmt.Errorf("inbound request has no client_request")
	}
	return req, nil
}

func (c *Client) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.conn.Close()
}
