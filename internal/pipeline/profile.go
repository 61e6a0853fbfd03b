package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/offerdesk/internal/document"
	"github.com/MikeSquared-Agency/offerdesk/internal/hermes"
	"github.com/MikeSquared-Agency/offerdesk/internal/knowledge"
	"github.com/MikeSquared-Agency/offerdesk/internal/store"
)

// IngestResult is the profile after an ingest plus what the stage added.
type IngestResult struct {
	Profile *knowledge.Profile `json:"profile"`
	Added   []string           `json:"added"`
}

// ImportRequest bulk-loads a profile from three text sources.
type ImportRequest struct {
	FactsText       string   `json:"facts_text"`
	CaseStudiesText string   `json:"case_studies_text"`
	StyleExamples   []string `json:"style_examples"`
}

// ImportResult reports what each source contributed.
type ImportResult struct {
	Profile       *knowledge.Profile `json:"profile"`
	Facts         []string           `json:"facts"`
	ProofPoints   []string           `json:"proof_points"`
	StyleExamples int                `json:"style_examples"`
}

// CreateProfile stores a fresh profile with the default brand.
func (p *Pipeline) CreateProfile(ctx context.Context, companyName, industry string) (*knowledge.Profile, error) {
	return p.SaveProfile(ctx, knowledge.NewProfile(companyName, industry))
}

// GetProfile loads a profile by ID.
func (p *Pipeline) GetProfile(ctx context.Context, id uuid.UUID) (*knowledge.Profile, error) {
	return p.store.GetProfile(ctx, id)
}

// SaveProfile validates and stores prof as a whole. A background audit is
// scheduled only when the facts or the industry changed.
func (p *Pipeline) SaveProfile(ctx context.Context, prof *knowledge.Profile) (*knowledge.Profile, error) {
	if err := prof.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPrecondition, err)
	}
	changed, err := p.auditInputChanged(ctx, prof)
	if err != nil {
		return nil, err
	}
	if err := p.store.SaveProfile(ctx, prof); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	p.publish(hermes.SubjectProfileUpdated, hermes.ProfileEvent{
		ProfileID: prof.ID,
		Facts:     len(prof.Facts),
		Verified:  prof.Verified,
		At:        time.Now().UTC(),
	})
	if changed {
		p.Watch(prof.ID).Trigger(prof.Facts, prof.Industry)
	}
	return prof, nil
}

func (p *Pipeline) auditInputChanged(ctx context.Context, prof *knowledge.Profile) (bool, error) {
	prev, err := p.store.GetProfile(ctx, prof.ID)
	if errors.Is(err, store.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("load profile: %w", err)
	}
	return prev.Industry != prof.Industry || !slices.Equal(prev.Facts, prof.Facts), nil
}

// IngestFacts extracts facts from text and appends them to the profile.
func (p *Pipeline) IngestFacts(ctx context.Context, profileID uuid.UUID, text string) (*IngestResult, error) {
	prof, err := p.store.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	facts, err := p.extractor.ExtractFacts(ctx, text, prof.Industry)
	if err != nil {
		return nil, err
	}
	return p.appendAndSave(ctx, prof, knowledge.ListFacts, facts)
}

// IngestCaseStudies extracts proof points from text and appends them.
func (p *Pipeline) IngestCaseStudies(ctx context.Context, profileID uuid.UUID, text string) (*IngestResult, error) {
	prof, err := p.store.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	points, err := p.extractor.ExtractCaseStudies(ctx, text)
	if err != nil {
		return nil, err
	}
	return p.appendAndSave(ctx, prof, knowledge.ListProofPoints, points)
}

// AddStyleExample stores a writing sample verbatim. No stage runs.
func (p *Pipeline) AddStyleExample(ctx context.Context, profileID uuid.UUID, sample string) (*IngestResult, error) {
	if strings.TrimSpace(sample) == "" {
		return nil, ErrEmptyInput
	}
	prof, err := p.store.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return p.appendAndSave(ctx, prof, knowledge.ListStyleExamples, []string{sample})
}

// IngestDocument converts an uploaded file to text and extracts facts from
// it chunk by chunk. Chunks run concurrently; their facts keep document order.
func (p *Pipeline) IngestDocument(ctx context.Context, profileID uuid.UUID, r io.Reader, filename string) (*IngestResult, error) {
	text, err := document.Extract(r, filename)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, fmt.Errorf("%w: %s has no text", ErrEmptyInput, filename)
	}
	prof, err := p.store.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	chunks := document.Chunk(text, document.DefaultChunkRunes)
	p.logger.Info("ingesting document", "file", filename, "text_len", len(text), "chunks", len(chunks))

	perChunk := make([][]string, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			facts, err := p.extractor.ExtractFacts(gctx, chunk, prof.Industry)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i+1, err)
			}
			perChunk[i] = facts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var facts []string
	for _, f := range perChunk {
		facts = append(facts, f...)
	}
	return p.appendAndSave(ctx, prof, knowledge.ListFacts, facts)
}

// Import runs fact and case-study extraction side by side and stores the
// combined result once. Either stage failing leaves the profile unchanged.
func (p *Pipeline) Import(ctx context.Context, profileID uuid.UUID, req ImportRequest) (*ImportResult, error) {
	prof, err := p.store.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	var facts, points []string
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	g.Go(func() error {
		var err error
		facts, err = p.extractor.ExtractFacts(gctx, req.FactsText, prof.Industry)
		return err
	})
	g.Go(func() error {
		var err error
		points, err = p.extractor.ExtractCaseStudies(gctx, req.CaseStudiesText)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var samples []string
	for _, s := range req.StyleExamples {
		if strings.TrimSpace(s) != "" {
			samples = append(samples, s)
		}
	}

	for _, add := range []struct {
		list  knowledge.List
		items []string
	}{
		{knowledge.ListFacts, facts},
		{knowledge.ListProofPoints, points},
		{knowledge.ListStyleExamples, samples},
	} {
		if _, err := prof.Append(add.list, add.items...); err != nil {
			return nil, err
		}
	}
	if _, err := p.SaveProfile(ctx, prof); err != nil {
		return nil, err
	}

	return &ImportResult{
		Profile:       prof,
		Facts:         facts,
		ProofPoints:   points,
		StyleExamples: len(samples),
	}, nil
}

func (p *Pipeline) appendAndSave(ctx context.Context, prof *knowledge.Profile, list knowledge.List, items []string) (*IngestResult, error) {
	if items == nil {
		items = []string{}
	}
	if len(items) == 0 {
		return &IngestResult{Profile: prof, Added: items}, nil
	}
	if _, err := prof.Append(list, items...); err != nil {
		return nil, err
	}
	if _, err := p.SaveProfile(ctx, prof); err != nil {
		return nil, err
	}
	p.logger.Info("profile updated", "profile_id", prof.ID, "list", string(list), "added", len(items))
	return &IngestResult{Profile: prof, Added: items}, nil
}
