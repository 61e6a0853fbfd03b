package gemini

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"

	"github.com/MikeSquared-Agency/offerdesk/internal/llm"
)

func TestGenerate_MissingKey(t *testing.T) {
	c := NewClient(context.Background(), "", "gemini-2.5-flash")
	if _, err := c.Generate(context.Background(), llm.Request{User: "x"}); !errors.Is(err, llm.ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
}

func TestToGenai_Record(t *testing.T) {
	s := &llm.Schema{Kind: llm.KindObject, Properties: []llm.Property{
		{Name: "status", Schema: &llm.Schema{Kind: llm.KindString, Enum: []string{"ready", "needs_info"}}},
		{Name: "missingClientInfo", Schema: llm.StringList()},
	}}

	got := toGenai(s)
	if got.Type != genai.TypeObject {
		t.Fatalf("expected object, got %v", got.Type)
	}
	if len(got.Required) != 2 || got.Required[0] != "status" {
		t.Errorf("unexpected required: %v", got.Required)
	}
	if len(got.PropertyOrdering) != 2 || got.PropertyOrdering[1] != "missingClientInfo" {
		t.Errorf("unexpected ordering: %v", got.PropertyOrdering)
	}
	status := got.Properties["status"]
	if status.Type != genai.TypeString || len(status.Enum) != 2 {
		t.Errorf("unexpected status schema: %+v", status)
	}
	list := got.Properties["missingClientInfo"]
	if list.Type != genai.TypeArray || list.Items == nil || list.Items.Type != genai.TypeString {
		t.Errorf("unexpected list schema: %+v", list)
	}
}

func TestToGenai_Nil(t *testing.T) {
	if toGenai(nil) != nil {
		t.Fatal("expected nil schema for nil input")
	}
}

func TestClassify_Auth(t *testing.T) {
	err := classify(genai.APIError{Code: 403, Message: "API key not valid"})
	if !errors.Is(err, llm.ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
}

func TestClassify_Transport(t *testing.T) {
	err := classify(genai.APIError{Code: 503, Message: "overloaded"})
	var te *llm.TransportError
	if !errors.As(err, &te) || te.StatusCode != 503 {
		t.Fatalf("expected 503 TransportError, got %v", err)
	}
}
