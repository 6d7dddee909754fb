package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/social-lookup/pkg/cache"
	"github.com/Sternrassler/social-lookup/pkg/logging"
	"github.com/Sternrassler/social-lookup/pkg/lookup"
	"github.com/Sternrassler/social-lookup/pkg/metrics"
	"github.com/Sternrassler/social-lookup/pkg/users"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

type server struct {
	engine         *lookup.Engine
	lister         users.IDLister
	requestTimeout time.Duration
	logger         zerolog.Logger
}

func newServer(engine *lookup.Engine, lister users.IDLister, requestTimeout time.Duration) *server {
	return &server{
		engine:         engine,
		lister:         lister,
		requestTimeout: requestTimeout,
		logger:         logging.NewLogger("server"),
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /users/lookup", s.handleLookup)
	// /followers/{screen_name} and /friends/{screen_name}
	mux.HandleFunc("GET /{relation}/{screen_name}", s.handleRelation)
	return s.withRequestID(mux)
}

// lookupResponse is the JSON body of every lookup route.
type lookupResponse struct {
	Users         []users.User `json:"users"`
	Count         int          `json:"count"`
	Unresolved    []users.ID   `json:"unresolved"`
	CacheHits     int          `json:"cache_hits"`
	FailedBatches int          `json:"failed_batches"`
}

func newLookupResponse(r *lookup.Report) lookupResponse {
	resp := lookupResponse{
		Users:         r.Users,
		Count:         len(r.Users),
		Unresolved:    r.Unresolved,
		CacheHits:     len(r.CacheHits),
		FailedBatches: len(r.Failed()),
	}
	if resp.Users == nil {
		resp.Users = []users.User{}
	}
	if resp.Unresolved == nil {
		resp.Unresolved = []users.ID{}
	}
	return resp
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := logging.WithRequestID(r.Context(), s.logger, requestID)
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))

		logger := logging.FromContext(ctx, s.logger)
		logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("Handled request")
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := cache.Ping(ctx, s.engine.Store()); err != nil {
		logger := logging.FromContext(ctx, s.logger)
		logger.Warn().Err(err).Msg("Cache not ready")
		s.writeError(w, http.StatusServiceUnavailable, "cache unavailable")
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("READY"))
}

func (s *server) handleLookup(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	raw := query.Get("ids")
	if raw == "" {
		raw = query.Get("user_id")
	}

	ids, err := users.ParseIDList(raw)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(ids) == 0 {
		s.writeError(w, http.StatusBadRequest, "ids parameter is required")
		return
	}

	refresh, _ := strconv.ParseBool(query.Get("refresh"))

	ctx, cancel := s.requestContext(r)
	defer cancel()

	var report *lookup.Report
	if refresh {
		report = s.engine.Refresh(ctx, ids)
	} else {
		report = s.engine.LookupReport(ctx, ids)
	}
	s.writeJSON(w, http.StatusOK, newLookupResponse(report))
}

func (s *server) handleRelation(w http.ResponseWriter, r *http.Request) {
	relation, err := users.ParseRelation(r.PathValue("relation"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	screenName := r.PathValue("screen_name")

	ctx, cancel := s.requestContext(r)
	defer cancel()

	ids, err := s.lister.FetchIDs(ctx, screenName, relation)
	if err != nil {
		logger := logging.FromContext(ctx, s.logger)
		logger.Warn().
			Err(err).
			Str("screen_name", screenName).
			Str("relation", string(relation)).
			Msg("Id list fetch failed")
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	report := s.engine.LookupReport(ctx, ids)
	s.writeJSON(w, http.StatusOK, newLookupResponse(report))
}

func (s *server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.requestTimeout > 0 {
		return context.WithTimeout(r.Context(), s.requestTimeout)
	}
	return context.WithCancel(r.Context())
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to write response")
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{
		Error:     message,
		RequestID: w.Header().Get(RequestIDHeader),
	})
}
