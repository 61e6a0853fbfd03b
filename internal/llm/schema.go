package llm

import (
	"fmt"
	"strings"
)

// Kind is the primitive type of a schema node.
type Kind string

const (
	KindString Kind = "string"
	KindArray  Kind = "array"
	KindObject Kind = "object"
)

// Schema is a provider-neutral description of the JSON shape a stage expects.
// Providers with native structured output translate it; the rest get it as
// an appended instruction.
type Schema struct {
	Kind        Kind
	Description string
	Enum        []string
	Items       *Schema
	Properties  []Property // ordered so prompts are stable
}

// Property is one named field of an object schema.
type Property struct {
	Name   string
	Schema *Schema
}

// StringList is the shape of every extraction and audit answer.
func StringList() *Schema {
	return &Schema{Kind: KindArray, Items: &Schema{Kind: KindString}}
}

// Required returns the property names of an object schema.
func (s *Schema) Required() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Properties))
	for _, p := range s.Properties {
		names = append(names, p.Name)
	}
	return names
}

// Describe renders the schema as a compact JSON-like skeleton for prompts,
// e.g. {"status": "ready|needs_info", "tags": ["string"]}.
func (s *Schema) Describe() string {
	if s == nil {
		return ""
	}
	var sb strings.Builder
	s.describe(&sb)
	return sb.String()
}

func (s *Schema) describe(sb *strings.Builder) {
	switch s.Kind {
	case KindArray:
		sb.WriteString("[")
		if s.Items != nil {
			s.Items.describe(sb)
		}
		sb.WriteString("]")
	case KindObject:
		sb.WriteString("{")
		for i, p := range s.Properties {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "%q: ", p.Name)
			p.Schema.describe(sb)
		}
		sb.WriteString("}")
	default:
		if len(s.Enum) > 0 {
			fmt.Fprintf(sb, "%q", strings.Join(s.Enum, "|"))
			return
		}
		if s.Description != "" {
			fmt.Fprintf(sb, "%q", "string: "+s.Description)
			return
		}
		sb.WriteString(`"string"`)
	}
}

// ShapeInstruction is appended to the system prompt for providers without a
// native structured-output mode.
func ShapeInstruction(s *Schema) string {
	if s == nil {
		return "Return ONLY valid JSON, no markdown fences or other text."
	}
	return "Respond with valid JSON matching this shape:\n" + s.Describe() +
		"\nReturn ONLY the JSON, no markdown fences or other text."
}
