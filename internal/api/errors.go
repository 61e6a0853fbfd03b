package api

import (
	"errors"
	"net/http"

	"github.com/MikeSquared-Agency/offerdesk/internal/document"
	"github.com/MikeSquared-Agency/offerdesk/internal/knowledge"
	"github.com/MikeSquared-Agency/offerdesk/internal/llm"
	"github.com/MikeSquared-Agency/offerdesk/internal/offer"
	"github.com/MikeSquared-Agency/offerdesk/internal/parse"
	"github.com/MikeSquared-Agency/offerdesk/internal/pipeline"
	"github.com/MikeSquared-Agency/offerdesk/internal/render"
	"github.com/MikeSquared-Agency/offerdesk/internal/store"
	"github.com/MikeSquared-Agency/offerdesk/internal/webhook"
)

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// classify maps a pipeline error to a status code and a stable kind tag.
func classify(err error) (int, string) {
	var status *webhook.StatusError
	switch {
	case errors.Is(err, pipeline.ErrPrecondition),
		errors.Is(err, document.ErrUnsupported),
		errors.Is(err, knowledge.ErrItemIndex):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case llm.IsAuth(err):
		return http.StatusServiceUnavailable, "auth"
	case errors.Is(err, webhook.ErrNotConfigured):
		return http.StatusServiceUnavailable, "webhook_not_configured"
	case errors.Is(err, offer.ErrOfferGeneration):
		return http.StatusBadGateway, "offer_generation"
	case errors.Is(err, render.ErrContentDrift):
		return http.StatusBadGateway, "content_drift"
	case parse.IsMalformed(err):
		return http.StatusBadGateway, "malformed_output"
	case errors.Is(err, llm.ErrEmptyResponse):
		return http.StatusBadGateway, "empty_response"
	case llm.IsTransport(err):
		return http.StatusBadGateway, "transport"
	case errors.As(err, &status):
		return http.StatusBadGateway, "webhook"
	}
	return http.StatusInternalServerError, "internal"
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code, kind := classify(err)
	if code >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "kind", kind, "error", err)
	}
	writeJSON(w, code, errorBody{Error: err.Error(), Kind: kind})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg, Kind: "invalid_request"})
}
