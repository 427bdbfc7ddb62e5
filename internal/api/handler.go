package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"ai-content-planner/internal/export"
	"ai-content-planner/internal/planner"
	"ai-content-planner/internal/profile"

	"github.com/rs/zerolog"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}

// Handler serves the plan endpoints.
type Handler struct {
	gen planner.PlanGenerator
}

func NewHandler(gen planner.PlanGenerator) *Handler {
	return &Handler{gen: gen}
}

func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var prof profile.BusinessProfile
	if err := json.NewDecoder(r.Body).Decode(&prof); err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	plan, err := h.gen.GeneratePlan(ctx, prof)
	var verr *profile.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: verr.Error(), Missing: verr.Missing})
		return
	case err != nil:
		logger.Error().
			Err(err).
			Str("kind", planner.ErrorKind(err)).
			Msg("failed to generate plan")
		writeJSON(w, r, http.StatusBadGateway, errorResponse{Error: planner.FailureMessage})
		return
	}

	writeJSON(w, r, http.StatusOK, plan)
}

// ExportPlan renders a plan posted by the client as a text document.
func (h *Handler) ExportPlan(w http.ResponseWriter, r *http.Request) {
	var plan planner.ContentPlan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName+`.txt"`)
	if _, err := w.Write([]byte(export.RenderText(export.Layout(&plan)))); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to write export")
	}
}

func (h *Handler) ListBusinessTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, profile.BusinessTypes())
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}
