package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/offerdesk/internal/offer"
	"github.com/MikeSquared-Agency/offerdesk/internal/pipeline"
	"github.com/MikeSquared-Agency/offerdesk/internal/store"
)

type draftRequest struct {
	ClientRequest string               `json:"client_request"`
	Sections      *offer.SectionConfig `json:"sections,omitempty"`
}

func (s *Server) draftOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req draftRequest
	if !decode(w, r, &req) {
		return
	}
	sections := offer.DefaultSections()
	if req.Sections != nil {
		sections = *req.Sections
	}
	rec, err := s.pipeline.DraftOffer(r.Context(), id, req.ClientRequest, sections)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) listOffers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	list, err := s.pipeline.ListOffers(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"offers": list, "count": len(list)})
}

func (s *Server) getOffer(w http.ResponseWriter, r *http.Request) {
	s.offerAction(w, r, http.StatusOK, func(p *pipeline.Pipeline, r *http.Request, id uuid.UUID) (*store.OfferRecord, error) {
		return p.GetOffer(r.Context(), id)
	})
}

func (s *Server) patchOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch pipeline.OfferPatch
	if !decode(w, r, &patch) {
		return
	}
	rec, err := s.pipeline.UpdateOffer(r.Context(), id, patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) renderOffer(w http.ResponseWriter, r *http.Request) {
	s.offerAction(w, r, http.StatusOK, func(p *pipeline.Pipeline, r *http.Request, id uuid.UUID) (*store.OfferRecord, error) {
		return p.RenderOffer(r.Context(), id)
	})
}

func (s *Server) duplicateOffer(w http.ResponseWriter, r *http.Request) {
	s.offerAction(w, r, http.StatusCreated, func(p *pipeline.Pipeline, r *http.Request, id uuid.UUID) (*store.OfferRecord, error) {
		return p.DuplicateOffer(r.Context(), id)
	})
}

// sendOffer is the explicit confirmation step; it delivers once.
func (s *Server) sendOffer(w http.ResponseWriter, r *http.Request) {
	s.offerAction(w, r, http.StatusOK, func(p *pipeline.Pipeline, r *http.Request, id uuid.UUID) (*store.OfferRecord, error) {
		return p.SendOffer(r.Context(), id)
	})
}

func (s *Server) offerAction(w http.ResponseWriter, r *http.Request, code int, fn func(*pipeline.Pipeline, *http.Request, uuid.UUID) (*store.OfferRecord, error)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rec, err := fn(s.pipeline, r, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, code, rec)
}
