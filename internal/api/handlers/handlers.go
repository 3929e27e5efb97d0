package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/walletwise/insights/internal/api/middleware"
	"github.com/walletwise/insights/internal/jobs"
	"github.com/walletwise/insights/internal/store"
)

const defaultWindowDays = 30

// AnalysesHandler accepts analysis requests and enqueues them. Consent is
// enforced here, at the boundary: a user without an active opt-in never
// reaches the decision core.
type AnalysesHandler struct {
	consent   store.ConsentChecker
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewAnalysesHandler creates a new analyses handler.
func NewAnalysesHandler(consent store.ConsentChecker, publisher jobs.Publisher, log zerolog.Logger) *AnalysesHandler {
	return &AnalysesHandler{
		consent:   consent,
		publisher: publisher,
		log:       log,
	}
}

// EnqueueAnalysis handles POST /api/users/:userID/analyses
func (h *AnalysesHandler) EnqueueAnalysis(w http.ResponseWriter, r *http.Request, userID string) {
	ctx := r.Context()

	var req struct {
		WindowDays int `json:"window_days"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if req.WindowDays == 0 {
		req.WindowDays = defaultWindowDays
	}
	if req.WindowDays < 0 {
		middleware.WriteError(w, http.StatusBadRequest, "window_days must be positive")
		return
	}

	consented, err := h.consent.HasActiveConsent(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to check consent")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to check consent")
		return
	}
	if !consented {
		middleware.WriteError(w, http.StatusForbidden, "User has not opted in to analysis")
		return
	}

	job := &jobs.AnalyzeUserJob{
		JobID:      uuid.NewString(),
		UserID:     userID,
		WindowDays: req.WindowDays,
		Status:     jobs.JobStatusPending,
		CreatedAt:  time.Now(),
		MaxRetries: 3,
	}
	if err := h.publisher.PublishAnalyzeUser(ctx, job); err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to enqueue analysis")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue analysis")
		return
	}

	h.log.Info().
		Str("job_id", job.JobID).
		Str("user_id", userID).
		Int("window_days", req.WindowDays).
		Msg("Analysis enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":      job.JobID,
		"user_id":     userID,
		"window_days": req.WindowDays,
		"status":      job.Status,
	})
}

// JobsHandler exposes job status.
type JobsHandler struct {
	jobStore jobs.JobStore
	log      zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(jobStore jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{jobStore: jobStore, log: log}
}

// GetJob handles GET /api/jobs/:jobID
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.jobStore.GetJob(r.Context(), jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, job)
}

// InsightsHandler serves the read side: persona, recommendations and the
// decision trace for a (user, window) key.
type InsightsHandler struct {
	consent  store.ConsentChecker
	personas store.PersonaReader
	recs     store.RecommendationReader
	traces   store.TraceStore
	log      zerolog.Logger
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(consent store.ConsentChecker, personas store.PersonaReader, recs store.RecommendationReader, traces store.TraceStore, log zerolog.Logger) *InsightsHandler {
	return &InsightsHandler{
		consent:  consent,
		personas: personas,
		recs:     recs,
		traces:   traces,
		log:      log,
	}
}

// GetPersona handles GET /api/users/:userID/persona?window=30
func (h *InsightsHandler) GetPersona(w http.ResponseWriter, r *http.Request, userID string) {
	ctx := r.Context()
	windowDays, ok := h.gate(w, r, userID)
	if !ok {
		return
	}

	assignment, err := h.personas.PersonaAssignment(ctx, userID, windowDays)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to read persona")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to read persona")
		return
	}
	if assignment == nil {
		middleware.WriteError(w, http.StatusNotFound, "No persona assigned for this window")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, assignment)
}

// GetRecommendations handles GET /api/users/:userID/recommendations?window=30
func (h *InsightsHandler) GetRecommendations(w http.ResponseWriter, r *http.Request, userID string) {
	ctx := r.Context()
	windowDays, ok := h.gate(w, r, userID)
	if !ok {
		return
	}

	items, err := h.recs.Recommendations(ctx, userID, windowDays)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to read recommendations")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to read recommendations")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": items,
		"count":           len(items),
	})
}

// GetTrace handles GET /api/users/:userID/trace?window=30
func (h *InsightsHandler) GetTrace(w http.ResponseWriter, r *http.Request, userID string) {
	ctx := r.Context()
	windowDays, ok := h.gate(w, r, userID)
	if !ok {
		return
	}

	trace, err := h.traces.DecisionTrace(ctx, userID, windowDays)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to read trace")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to read trace")
		return
	}
	if trace == nil {
		middleware.WriteError(w, http.StatusNotFound, "No trace for this window")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, trace)
}

// gate checks consent and parses the window query parameter. On failure it
// writes the response itself and returns ok=false.
func (h *InsightsHandler) gate(w http.ResponseWriter, r *http.Request, userID string) (int, bool) {
	consented, err := h.consent.HasActiveConsent(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to check consent")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to check consent")
		return 0, false
	}
	if !consented {
		middleware.WriteError(w, http.StatusForbidden, "User has not opted in to analysis")
		return 0, false
	}

	windowDays := defaultWindowDays
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			middleware.WriteError(w, http.StatusBadRequest, "window must be a positive integer")
			return 0, false
		}
		windowDays = parsed
	}
	return windowDays, true
}
