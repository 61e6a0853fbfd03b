// Package parse validates raw generator text against the shapes the stages
// expect. Every failure is a *MalformedOutputError; callers decide whether
// that is recoverable.
package parse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/MikeSquared-Agency/offerdesk/internal/llm"
)

// MalformedOutputError means the text did not match the expected shape after
// fence stripping.
type MalformedOutputError struct {
	Reason string
	Raw    string // truncated
	Err    error
}

func (e *MalformedOutputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed generator output: %s: %v", e.Reason, e.Err)
	}
	return "malformed generator output: " + e.Reason
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// IsMalformed reports whether err is (or wraps) a MalformedOutputError.
func IsMalformed(err error) bool {
	var me *MalformedOutputError
	return errors.As(err, &me)
}

func malformed(raw, reason string, err error) *MalformedOutputError {
	return &MalformedOutputError{Reason: reason, Raw: llm.Truncate(raw, 200), Err: err}
}

var (
	openFenceRe  = regexp.MustCompile("^```[A-Za-z0-9_+.-]*[ \t]*\r?\n?")
	closeFenceRe = regexp.MustCompile("\r?\n?```$")
)

// StripFences removes a leading ```lang marker and a trailing ``` marker
// plus surrounding whitespace. Either marker may be missing.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = openFenceRe.ReplaceAllString(s, "")
	s = closeFenceRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ParseList parses a JSON array of strings. Blank items are dropped; any
// non-string item makes the whole answer malformed.
func ParseList(raw string) ([]string, error) {
	body := StripFences(raw)
	if body == "" {
		return nil, malformed(raw, "empty output", nil)
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		return nil, malformed(raw, "expected a JSON array of strings", err)
	}
	if items == nil {
		return nil, malformed(raw, "expected a JSON array of strings, got null", nil)
	}
	out, err := stringItems(items)
	if err != nil {
		return nil, malformed(raw, err.Error(), nil)
	}
	return out, nil
}

func stringItems(items []json.RawMessage) ([]string, error) {
	out := make([]string, 0, len(items))
	for i, item := range items {
		var s string
		if isNull(item) {
			return nil, fmt.Errorf("item %d is null", i)
		}
		if err := json.Unmarshal(item, &s); err != nil {
			return nil, fmt.Errorf("item %d is not a string", i)
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func isNull(m json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(m), []byte("null"))
}

// FieldKind is the primitive shape of a record field.
type FieldKind int

const (
	KindString FieldKind = iota
	KindStringList
)

func (k FieldKind) String() string {
	if k == KindStringList {
		return "string list"
	}
	return "string"
}

// Field is one required field of a record.
type Field struct {
	Name string
	Kind FieldKind
}

// Record is a validated fixed-field answer. Only fields named at parse time
// are present.
type Record struct {
	strs  map[string]string
	lists map[string][]string
}

// String returns a string field, or "" if it was not requested.
func (r Record) String(name string) string { return r.strs[name] }

// List returns a string-list field, or nil if it was not requested.
func (r Record) List(name string) []string { return r.lists[name] }

// ParseRecord parses a JSON object and requires every field to be present
// with the declared shape. Extra fields are ignored.
func ParseRecord(raw string, fields []Field) (Record, error) {
	body := StripFences(raw)
	if body == "" {
		return Record{}, malformed(raw, "empty output", nil)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &obj); err != nil {
		return Record{}, malformed(raw, "expected a JSON object", err)
	}
	if obj == nil {
		return Record{}, malformed(raw, "expected a JSON object, got null", nil)
	}

	rec := Record{strs: map[string]string{}, lists: map[string][]string{}}
	for _, f := range fields {
		val, ok := obj[f.Name]
		if !ok {
			return Record{}, malformed(raw, fmt.Sprintf("missing field %q", f.Name), nil)
		}
		if isNull(val) {
			return Record{}, malformed(raw, fmt.Sprintf("field %q is null", f.Name), nil)
		}
		switch f.Kind {
		case KindStringList:
			var items []json.RawMessage
			if err := json.Unmarshal(val, &items); err != nil {
				return Record{}, malformed(raw, fmt.Sprintf("field %q must be a %s", f.Name, f.Kind), err)
			}
			list, err := stringItems(items)
			if err != nil {
				return Record{}, malformed(raw, fmt.Sprintf("field %q: %v", f.Name, err), nil)
			}
			rec.lists[f.Name] = list
		default:
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return Record{}, malformed(raw, fmt.Sprintf("field %q must be a %s", f.Name, f.Kind), err)
			}
			rec.strs[f.Name] = s
		}
	}
	return rec, nil
}
