package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/offerdesk/internal/knowledge"
)

// Memory is an in-process Store. Records are cloned on the way in and out.
type Memory struct {
	mu       sync.Mutex
	now      func() time.Time
	seq      uint64
	profiles map[uuid.UUID]*memProfile
	offers   map[uuid.UUID]*memOffer
}

type memProfile struct {
	p   knowledge.Profile
	seq uint64
}

type memOffer struct {
	rec OfferRecord
	seq uint64
}

func NewMemory() *Memory {
	return &Memory{
		now:      time.Now,
		profiles: make(map[uuid.UUID]*memProfile),
		offers:   make(map[uuid.UUID]*memOffer),
	}
}

func (m *Memory) next() uint64 {
	m.seq++
	return m.seq
}

func (m *Memory) SaveProfile(_ context.Context, p *knowledge.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := m.now().UTC()
	if prev, ok := m.profiles[p.ID]; ok {
		p.CreatedAt = prev.p.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	m.profiles[p.ID] = &memProfile{p: *p.Clone(), seq: m.next()}
	return nil
}

func (m *Memory) GetProfile(_ context.Context, id uuid.UUID) (*knowledge.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mp, ok := m.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return mp.p.Clone(), nil
}

func (m *Memory) LatestProfile(_ context.Context) (*knowledge.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var latest *memProfile
	for _, mp := range m.profiles {
		if latest == nil || mp.seq > latest.seq {
			latest = mp
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest.p.Clone(), nil
}

func (m *Memory) CreateOffer(_ context.Context, rec *OfferRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[rec.ProfileID]; !ok {
		return fmt.Errorf("profile %s: %w", rec.ProfileID, ErrNotFound)
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Status == "" {
		rec.Status = OfferDraft
	}
	now := m.now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	m.offers[rec.ID] = &memOffer{rec: cloneRecord(rec), seq: m.next()}
	return nil
}

func (m *Memory) UpdateOffer(_ context.Context, id uuid.UUID, upd OfferUpdate) (*OfferRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mo, ok := m.offers[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Title != nil {
		mo.rec.Title = *upd.Title
	}
	if upd.Status != nil {
		mo.rec.Status = *upd.Status
	}
	if upd.Draft != nil {
		mo.rec.Draft = *upd.Draft.Clone()
	}
	mo.rec.UpdatedAt = m.now().UTC()
	mo.seq = m.next()
	out := cloneRecord(&mo.rec)
	return &out, nil
}

func (m *Memory) GetOffer(_ context.Context, id uuid.UUID) (*OfferRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mo, ok := m.offers[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneRecord(&mo.rec)
	return &out, nil
}

func (m *Memory) ListOffers(_ context.Context, profileID uuid.UUID) ([]OfferRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := make([]*memOffer, 0)
	for _, mo := range m.offers {
		if mo.rec.ProfileID == profileID {
			matched = append(matched, mo)
		}
	}
	// seq breaks ties between records updated within the same clock tick.
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq > matched[j].seq })

	out := make([]OfferRecord, 0, len(matched))
	for _, mo := range matched {
		out = append(out, cloneRecord(&mo.rec))
	}
	return out, nil
}

func (m *Memory) DuplicateOffer(_ context.Context, id uuid.UUID) (*OfferRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	src, ok := m.offers[id]
	if !ok {
		return nil, ErrNotFound
	}
	now := m.now().UTC()
	dup := cloneRecord(&src.rec)
	dup.ID = uuid.New()
	dup.Title = src.rec.Title + CopySuffix
	dup.Status = OfferDraft
	dup.CreatedAt = now
	dup.UpdatedAt = now
	m.offers[dup.ID] = &memOffer{rec: dup, seq: m.next()}

	out := cloneRecord(&dup)
	return &out, nil
}

func cloneRecord(rec *OfferRecord) OfferRecord {
	out := *rec
	out.Draft = *rec.Draft.Clone()
	return out
}
