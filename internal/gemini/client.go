// Package gemini adapts google.golang.org/genai to llm.Generator, using the
// native response schema for structured calls.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/MikeSquared-Agency/offerdesk/internal/llm"
)

// Client implements llm.Generator against the Gemini API.
type Client struct {
	model string
	api   *genai.Client
	err   error // construction failure, surfaced on first use
}

// NewClient builds a Gemini client. A missing key is not an error here;
// every call fails with llm.ErrAuth instead.
func NewClient(ctx context.Context, apiKey, model string) *Client {
	c := &Client{model: model}
	if apiKey == "" {
		c.err = llm.ErrAuth
		return c
	}
	api, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		c.err = &llm.TransportError{Message: "create gemini client", Err: err}
		return c
	}
	c.api = api
	return c
}

func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	if c.err != nil {
		return "", c.err
	}

	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(req.Tokens()),
	}
	if strings.TrimSpace(req.System) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Structured {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = toGenai(req.Schema)
	}

	resp, err := c.api.Models.GenerateContent(ctx, c.model, genai.Text(req.User), cfg)
	if err != nil {
		return "", classify(err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}

// toGenai translates the neutral schema into the SDK's schema type.
func toGenai(s *llm.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{Description: s.Description, Enum: s.Enum}
	switch s.Kind {
	case llm.KindArray:
		out.Type = genai.TypeArray
		out.Items = toGenai(s.Items)
	case llm.KindObject:
		out.Type = genai.TypeObject
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for _, p := range s.Properties {
			out.Properties[p.Name] = toGenai(p.Schema)
			out.PropertyOrdering = append(out.PropertyOrdering, p.Name)
		}
		out.Required = s.Required()
	default:
		out.Type = genai.TypeString
	}
	return out
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classifyAPI(apiErr, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return classifyAPI(*apiErrPtr, err)
	}
	return &llm.TransportError{Message: "generate content", Err: err}
}

func classifyAPI(apiErr genai.APIError, err error) error {
	if apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden {
		return fmt.Errorf("%w: %s", llm.ErrAuth, apiErr.Message)
	}
	return &llm.TransportError{StatusCode: apiErr.Code, Message: llm.Truncate(apiErr.Message, 200), Err: err}
}
