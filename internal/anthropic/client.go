package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/offerdesk/internal/llm"
)

const apiURL = "https://api.anthropic.com/v1/messages"

// Client calls the Anthropic Messages API. It implements llm.Generator.
type Client struct {
	apiKey string
	model  string
	url    string
	client *http.Client
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey: apiKey,
		model:  model,
		url:    apiURL,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

// SetTestTransport points the client at a test server.
func (c *Client) SetTestTransport(url string) {
	c.url = url
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type response struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends one message to the Anthropic API and returns the text.
// The Messages API has no JSON mode, so structured requests get the shape
// appended to the system prompt.
func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	if c.apiKey == "" {
		return "", llm.ErrAuth
	}

	system := req.System
	if req.Structured {
		system = strings.TrimSpace(system) + "\n\n" + llm.ShapeInstruction(req.Schema)
	}

	body, err := json.Marshal(request{
		Model:     c.model,
		MaxTokens: req.Tokens(),
		System:    system,
		Messages:  []message{{Role: "user", Content: req.User}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", &llm.TransportError{Message: "api call", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", &llm.TransportError{StatusCode: resp.StatusCode, Message: "read response", Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("%w: status %d", llm.ErrAuth, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Type != "" {
			return "", &llm.TransportError{
				StatusCode: resp.StatusCode,
				Message:    errResp.Error.Type + ": " + errResp.Error.Message,
			}
		}
		return "", &llm.TransportError{StatusCode: resp.StatusCode, Message: llm.Truncate(string(respBody), 200)}
	}

	var apiResp response
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", &llm.TransportError{StatusCode: resp.StatusCode, Message: "unmarshal response", Err: err}
	}

	var sb strings.Builder
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", llm.ErrEmptyResponse
	}
	return sb.String(), nil
}
