// Package knowledge holds the business knowledge profile and the industry
// frameworks the pipeline steers extraction, audit and drafting with.
package knowledge

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tone is the brand's voice directive for drafting.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneUrgent       Tone = "urgent"
	ToneLuxury       Tone = "luxury"
)

// ParseTone accepts a tone name in any case. Empty means professional.
func ParseTone(s string) (Tone, error) {
	switch t := Tone(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return ToneProfessional, nil
	case ToneProfessional, ToneCasual, ToneUrgent, ToneLuxury:
		return t, nil
	default:
		return "", fmt.Errorf("unknown tone %q", s)
	}
}

// Brand carries the tokens used when drafting and rendering.
type Brand struct {
	PrimaryColor string `json:"primary_color"`
	FontName     string `json:"font_name"`
	LogoURL      string `json:"logo_url,omitempty"`
	Tone         Tone   `json:"tone"`
}

// DefaultBrand is applied to new profiles.
func DefaultBrand() Brand {
	return Brand{PrimaryColor: "#4f46e5", FontName: "Inter", Tone: ToneProfessional}
}

var hexColorRe = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Profile is one tenant's knowledge base. The three lists keep insertion
// order and are not deduplicated.
type Profile struct {
	ID            uuid.UUID `json:"id"`
	CompanyName   string    `json:"company_name"`
	Industry      string    `json:"industry"`
	Facts         []string  `json:"facts"`
	ProofPoints   []string  `json:"proof_points"`
	StyleExamples []string  `json:"style_examples"`
	Brand         Brand     `json:"brand"`
	Verified      bool      `json:"verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewProfile returns an empty profile with a fresh ID and the default brand.
func NewProfile(companyName, industry string) *Profile {
	now := time.Now().UTC()
	return &Profile{
		ID:            uuid.New(),
		CompanyName:   strings.TrimSpace(companyName),
		Industry:      strings.TrimSpace(industry),
		Facts:         []string{},
		ProofPoints:   []string{},
		StyleExamples: []string{},
		Brand:         DefaultBrand(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Clone returns a deep copy, used as the immutable snapshot a stage reads.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Facts = append([]string{}, p.Facts...)
	c.ProofPoints = append([]string{}, p.ProofPoints...)
	c.StyleExamples = append([]string{}, p.StyleExamples...)
	return &c
}

// List names one of the profile's three editable lists.
type List string

const (
	ListFacts         List = "facts"
	ListProofPoints   List = "proof_points"
	ListStyleExamples List = "style_examples"
)

var ErrItemIndex = errors.New("list index out of range")

func (p *Profile) list(l List) (*[]string, error) {
	switch l {
	case ListFacts:
		return &p.Facts, nil
	case ListProofPoints:
		return &p.ProofPoints, nil
	case ListStyleExamples:
		return &p.StyleExamples, nil
	}
	return nil, fmt.Errorf("unknown list %q", l)
}

// Items returns the named list.
func (p *Profile) Items(l List) []string {
	items, err := p.list(l)
	if err != nil {
		return nil
	}
	return *items
}

// Append adds non-blank items to the end of a list and returns how many
// were added.
func (p *Profile) Append(l List, items ...string) (int, error) {
	dst, err := p.list(l)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			*dst = append(*dst, it)
			added++
		}
	}
	if added > 0 {
		p.touch()
	}
	return added, nil
}

// SetItem replaces item i of a list.
func (p *Profile) SetItem(l List, i int, value string) error {
	dst, err := p.list(l)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(*dst) {
		return fmt.Errorf("%s[%d]: %w", l, i, ErrItemIndex)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%s[%d]: value is empty", l, i)
	}
	(*dst)[i] = value
	p.touch()
	return nil
}

// RemoveItem deletes item i of a list, keeping the order of the rest.
func (p *Profile) RemoveItem(l List, i int) error {
	dst, err := p.list(l)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(*dst) {
		return fmt.Errorf("%s[%d]: %w", l, i, ErrItemIndex)
	}
	*dst = append((*dst)[:i], (*dst)[i+1:]...)
	p.touch()
	return nil
}

// MarkVerified flags the profile as reviewed. A profile without facts cannot
// be verified.
func (p *Profile) MarkVerified() error {
	if len(p.Facts) == 0 {
		return errors.New("profile has no facts to verify")
	}
	p.Verified = true
	p.touch()
	return nil
}

// Validate checks the fields a save requires.
func (p *Profile) Validate() error {
	var errs []error
	if strings.TrimSpace(p.CompanyName) == "" {
		errs = append(errs, errors.New("company name is required"))
	}
	if strings.TrimSpace(p.Industry) == "" {
		errs = append(errs, errors.New("industry is required"))
	}
	if p.Brand.PrimaryColor != "" && !hexColorRe.MatchString(p.Brand.PrimaryColor) {
		errs = append(errs, fmt.Errorf("primary color %q is not a hex color", p.Brand.PrimaryColor))
	}
	if _, err := ParseTone(string(p.Brand.Tone)); err != nil {
		errs = append(errs, err)
	}
	if p.Verified && len(p.Facts) == 0 {
		errs = append(errs, errors.New("verified profile must have at least one fact"))
	}
	return errors.Join(errs...)
}

func (p *Profile) touch() { p.UpdatedAt = time.Now().UTC() }
