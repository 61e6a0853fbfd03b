// Package openai adapts the official openai-go SDK to llm.Generator.
package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/MikeSquared-Agency/offerdesk/internal/llm"
)

// Settings configures the OpenAI-compatible backend.
type Settings struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for compatible gateways
}

// Client implements llm.Generator using chat completions.
type Client struct {
	model string
	ready bool
	api   sdk.Client
}

func NewClient(s Settings) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(s.APIKey),
		// The pipeline never retries on its own; neither does the transport.
		option.WithMaxRetries(0),
	}
	if s.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.BaseURL))
	}
	return &Client{
		model: s.Model,
		ready: s.APIKey != "",
		api:   sdk.NewClient(opts...),
	}
}

func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	if !c.ready {
		return "", llm.ErrAuth
	}

	system := req.System
	params := sdk.ChatCompletionNewParams{
		Model:               sdk.ChatModel(c.model),
		MaxCompletionTokens: sdk.Int(int64(req.Tokens())),
	}
	if req.Structured {
		// json_object mode requires the word JSON in the prompt; the shape
		// instruction carries it.
		system = strings.TrimSpace(system) + "\n\n" + llm.ShapeInstruction(req.Schema)
		params.ResponseFormat = sdk.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}
	params.Messages = []sdk.ChatCompletionMessageParamUnion{
		sdk.SystemMessage(system),
		sdk.UserMessage(req.User),
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", llm.ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func classify(err error) error {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden {
			return errors.Join(llm.ErrAuth, err)
		}
		return &llm.TransportError{StatusCode: apiErr.StatusCode, Message: llm.Truncate(apiErr.Message, 200), Err: err}
	}
	return &llm.TransportError{Message: "chat completion", Err: err}
}
