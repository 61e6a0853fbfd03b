package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/offerdesk/internal/document"
	"github.com/MikeSquared-Agency/offerdesk/internal/knowledge"
	"github.com/MikeSquared-Agency/offerdesk/internal/pipeline"
)

type createProfileRequest struct {
	CompanyName string           `json:"company_name"`
	Industry    string           `json:"industry"`
	Brand       *knowledge.Brand `json:"brand,omitempty"`
}

type textRequest struct {
	Text string `json:"text"`
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, fmt.Sprintf("invalid JSON: %v", err))
		return false
	}
	return true
}

func (s *Server) createProfile(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if !decode(w, r, &req) {
		return
	}
	prof := knowledge.NewProfile(req.CompanyName, req.Industry)
	if req.Brand != nil {
		prof.Brand = *req.Brand
	}
	out, err := s.pipeline.SaveProfile(r.Context(), prof)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	prof, err := s.pipeline.GetProfile(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

// putProfile replaces the whole profile.
func (s *Server) putProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	existing, err := s.pipeline.GetProfile(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var prof knowledge.Profile
	if !decode(w, r, &prof) {
		return
	}
	prof.ID = id
	prof.CreatedAt = existing.CreatedAt
	out, err := s.pipeline.SaveProfile(r.Context(), &prof)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) ingestFacts(w http.ResponseWriter, r *http.Request) {
	s.ingestText(w, r, s.pipeline.IngestFacts)
}

func (s *Server) ingestCaseStudies(w http.ResponseWriter, r *http.Request) {
	s.ingestText(w, r, s.pipeline.IngestCaseStudies)
}

func (s *Server) addStyleExample(w http.ResponseWriter, r *http.Request) {
	s.ingestText(w, r, s.pipeline.AddStyleExample)
}

func (s *Server) ingestText(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uuid.UUID, text string) (*pipeline.IngestResult, error)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req textRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := fn(r.Context(), id, req.Text)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) ingestDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		badRequest(w, "invalid multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "file is required: "+err.Error())
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	if !document.Supported(filename) {
		badRequest(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)))
		return
	}
	if header.Size > s.opts.MaxUploadBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{
			Error: fmt.Sprintf("file exceeds max size (%d bytes)", s.opts.MaxUploadBytes),
			Kind:  "too_large",
		})
		return
	}

	res, err := s.pipeline.IngestDocument(r.Context(), id, io.LimitReader(file, s.opts.MaxUploadBytes), filename)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) importProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req pipeline.ImportRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := s.pipeline.Import(r.Context(), id, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) audit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	suggestions, err := s.pipeline.Audit(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

// auditLive returns the latest debounced background audit.
func (s *Server) auditLive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := s.pipeline.GetProfile(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.pipeline.Suggestions(id))
}
