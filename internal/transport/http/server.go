// package http implements the HTTP transport layer for the matching
// engine. It decodes incoming requests, calls the orchestrator and
// notification services, and encodes the responses.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/expertlink/matching-service/internal/apperrors"
	"github.com/expertlink/matching-service/internal/domain"
	"github.com/expertlink/matching-service/internal/service"
	"github.com/expertlink/matching-service/internal/validation"
	"github.com/expertlink/matching-service/pkg/logger/sl"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds the dependencies of the HTTP layer.
type Server struct {
	log           *slog.Logger
	matching      service.MatchingService
	notifications service.NotificationService
}

func NewServer(
	log *slog.Logger,
	matching service.MatchingService,
	notifications service.NotificationService,
) *Server {
	return &Server{
		log:           log,
		matching:      matching,
		notifications: notifications,
	}
}

// Routes sets up the router with all middleware and API endpoints.
func (s *Server) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(s.requestID)
	mux.Use(s.logRequest)
	mux.Use(s.metricsMiddleware)

	mux.Handle("/metrics", promhttp.Handler())

	mux.Post("/matching/run", s.postRunMatching)
	mux.Post("/matching/pair", s.postCreatePairing)
	mux.Post("/matching/push", s.postPushToExperts)
	mux.Post("/matching/sweep", s.postSweep)

	mux.Post("/matches/{matchID}/view", s.postViewMatch)
	mux.Post("/matches/{matchID}/dismiss", s.postDismissMatch)
	mux.Get("/matches/expert/{expertID}", s.getMatchesForExpert)
	mux.Get("/matches/request/{requestID}", s.getMatchesForRequest)

	mux.Get("/requests/{requestID}/experts", s.getSearchExperts)

	mux.Get("/notifications/pending", s.getPendingNotifications)
	mux.Post("/notifications/mark", s.postMarkNotified)

	return mux
}

func (s *Server) postRunMatching(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.postRunMatching"

	var req runMatchingRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	matches, err := s.matching.RunMatching(r.Context(), req.RequestID)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]interface{}{"matches": toMatchResponses(matches)})
}

func (s *Server) postCreatePairing(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.postCreatePairing"

	var req createPairingRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	match, err := s.matching.CreatePairing(r.Context(), req.ExpertID, req.RequestID, domain.MatchSource(req.Source))
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]interface{}{"match": toMatchResponse(match)})
}

func (s *Server) postPushToExperts(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.postPushToExperts"

	var req pushToExpertsRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	report, err := s.matching.PushToExperts(r.Context(), req.RequestID, req.ExpertIDs, domain.MatchSource(req.Source))
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, pushReportResponse{Pushed: report.Pushed, Failed: report.Failed})
}

func (s *Server) postSweep(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.postSweep"

	var req sweepRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	matches, err := s.matching.AutoMatchRushing(r.Context(), req.RequestID)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]interface{}{"matches": toMatchResponses(matches)})
}

func (s *Server) postViewMatch(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.postViewMatch"

	var req viewMatchRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	match, err := s.matching.MarkViewed(r.Context(), chi.URLParam(r, "matchID"), domain.Side(req.Side))
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]interface{}{"match": toMatchResponse(match)})
}

func (s *Server) postDismissMatch(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.postDismissMatch"

	match, err := s.matching.Dismiss(r.Context(), chi.URLParam(r, "matchID"))
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]interface{}{"match": toMatchResponse(match)})
}

func (s *Server) getMatchesForExpert(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getMatchesForExpert"

	// repeated status params narrow the result, e.g. ?status=NEW&status=VIEWED
	var statuses []domain.MatchStatus
	for _, raw := range r.URL.Query()["status"] {
		statuses = append(statuses, domain.MatchStatus(raw))
	}

	matches, err := s.matching.ListForExpert(r.Context(), chi.URLParam(r, "expertID"), statuses, queryLimit(r, 50))
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]interface{}{"matches": toMatchResponses(matches)})
}

func (s *Server) getMatchesForRequest(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getMatchesForRequest"

	matches, err := s.matching.ListForRequest(r.Context(), chi.URLParam(r, "requestID"), queryLimit(r, 50))
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]interface{}{"matches": toMatchResponses(matches)})
}

func (s *Server) getSearchExperts(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getSearchExperts"

	opts := service.SearchOptions{
		Keyword: r.URL.Query().Get("keyword"),
	}

	if raw := r.URL.Query().Get("work_status"); raw != "" {
		ws := domain.WorkStatus(raw)
		opts.WorkStatus = &ws
	}

	if raw := r.URL.Query().Get("min_score"); raw != "" {
		minScore, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.handleServiceError(w, op, fmt.Errorf("%w: invalid min_score", apperrors.ErrInvalidRequest))
			return
		}

		opts.MinScore = minScore
	}

	opts.Limit = queryLimit(r, 50)

	candidates, err := s.matching.SearchExperts(r.Context(), chi.URLParam(r, "requestID"), opts)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]interface{}{"experts": toCandidateResponses(candidates)})
}

func (s *Server) getPendingNotifications(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getPendingNotifications"

	matches, err := s.notifications.PendingForExperts(r.Context(), queryLimit(r, 100))
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]interface{}{"matches": toMatchResponses(matches)})
}

func (s *Server) postMarkNotified(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.postMarkNotified"

	var req markNotifiedRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	if err := s.notifications.MarkNotified(r.Context(), req.MatchIDs, domain.Side(req.Side)); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]int{"marked": len(req.MatchIDs)})
}

func queryLimit(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return def
	}

	return limit
}

// respond is a helper function to encode data to JSON and write it to the
// response.
func (s *Server) respond(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.log.Error("failed to encode response", sl.Err(err))
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, code int, message string) {
	s.respond(w, code, map[string]string{"error": message})
}

// decodeAndValidate deserializes a JSON request body into a struct and
// runs validation checks on it.
func (s *Server) decodeAndValidate(r *http.Request, v interface{}) error {
	if err := s.decode(r.Body, v); err != nil {
		return err
	}

	if err := validation.ValidateStruct(v); err != nil {
		return err
	}

	return nil
}

func (s *Server) decode(body io.ReadCloser, v interface{}) error {
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}

	return nil
}

// handleServiceError provides centralized error handling for all HTTP
// handlers. It logs the internal error and maps it to a user-facing
// response.
func (s *Server) handleServiceError(w http.ResponseWriter, op string, err error) {
	log := s.log.With(slog.String("op", op))
	log.Error("service error occurred", sl.Err(err))

	var (
		matchExistsErr *apperrors.MatchAlreadyExistsError
		validationErr  *validation.ValidationError
	)

	switch {
	case errors.As(err, &validationErr):
		s.respondError(w, http.StatusBadRequest, fmt.Errorf("%w: %s", apperrors.ErrValidation, validationErr.Error()).Error())
	case errors.Is(err, apperrors.ErrInvalidRequest):
		s.respondError(w, http.StatusBadRequest, "invalid request body")
	case errors.Is(err, apperrors.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "resource not found")
	case errors.As(err, &matchExistsErr):
		s.respondError(w, http.StatusConflict, matchExistsErr.Error())
	case errors.Is(err, apperrors.ErrRequestNotOpen):
		s.respondError(w, http.StatusConflict, apperrors.ErrRequestNotOpen.Error())
	default:
		s.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
