package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/branding-client/pkg/branding"
	"github.com/Sternrassler/branding-client/pkg/fetch"
	"github.com/Sternrassler/branding-client/pkg/logging"
	"github.com/Sternrassler/branding-client/pkg/metrics"
	"github.com/Sternrassler/branding-client/pkg/orbit"
)

const (
	requestIDHeader     = "X-Request-ID"
	templateParamPrefix = "t."
	flushParam          = "flush"
)

type server struct {
	branding branding.Contenter
	orbit    orbit.Contenter
	ready    func(context.Context) error
	logger   zerolog.Logger
}

type brandingResponse struct {
	Head         string                       `json:"head"`
	BodyFirst    string                       `json:"bodyFirst"`
	BodyLast     string                       `json:"bodyLast"`
	Colours      map[string]map[string]string `json:"colours"`
	Options      map[string]any               `json:"options"`
	Language     string                       `json:"language"`
	Locale       string                       `json:"locale"`
	SearchScope  string                       `json:"searchScope,omitempty"`
	ThemeClasses string                       `json:"themeClasses"`
}

type orbitResponse struct {
	Head      string `json:"head"`
	BodyFirst string `json:"bodyFirst"`
	BodyLast  string `json:"bodyLast"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(chimw.Recoverer)

	r.Get("/health", healthHandler)
	r.Get("/ready", s.readyHandler)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/branding/{projectID}", s.brandingHandler)
	r.Get("/orbit", s.orbitHandler)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *server) readyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.ready(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Readiness check failed")
		http.Error(w, "cache store unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *server) brandingHandler(w http.ResponseWriter, r *http.Request) {
	opts := branding.RequestOptions{
		ProjectID:      chi.URLParam(r, "projectID"),
		ThemeVersionID: r.URL.Query().Get(branding.PreviewParam),
		ForceRefresh:   isFlush(r),
	}

	b, err := s.branding.GetContentWithOptions(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, brandingResponse{
		Head:         b.Head(),
		BodyFirst:    b.BodyFirst(),
		BodyLast:     b.BodyLast(),
		Colours:      b.Colours(),
		Options:      b.Options(),
		Language:     b.Language(),
		Locale:       b.Locale(),
		SearchScope:  b.SearchScope(),
		ThemeClasses: b.ThemeClasses(),
	})
}

func (s *server) orbitHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := orbit.RequestParams{
		Language:     query.Get("language"),
		Variant:      query.Get("variant"),
		ForceRefresh: isFlush(r),
	}

	templateParams := map[string]any{}
	for key, values := range query {
		if name, ok := strings.CutPrefix(key, templateParamPrefix); ok && name != "" && len(values) > 0 {
			templateParams[name] = values[0]
		}
	}

	o, err := s.orbit.GetContent(r.Context(), params, templateParams)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, orbitResponse{
		Head:      o.Head(),
		BodyFirst: o.BodyFirst(),
		BodyLast:  o.BodyLast(),
	})
}

// writeError maps client errors to HTTP statuses.
func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	var fetchErr *fetch.FetchError
	switch {
	case errors.As(err, &fetchErr) && fetchErr.NotFound():
		status = http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.Is(err, fetch.ErrFetch), errors.Is(err, fetch.ErrMalformedResponse):
		status = http.StatusBadGateway
	}

	s.logger.Error().
		Err(err).
		Str("path", r.URL.Path).
		Int(logging.FieldStatusCode, status).
		Str(logging.FieldRequestID, w.Header().Get(requestIDHeader)).
		Msg("Request failed")

	writeJSON(w, status, errorResponse{
		Error:     err.Error(),
		RequestID: w.Header().Get(requestIDHeader),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func isFlush(r *http.Request) bool {
	switch r.URL.Query().Get(flushParam) {
	case "1", "true":
		return true
	default:
		return false
	}
}

// requestID propagates or assigns an X-Request-ID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// accessLog logs one line per request.
func (s *server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int(logging.FieldStatusCode, ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str(logging.FieldRequestID, w.Header().Get(requestIDHeader)).
			Msg("Request handled")
	})
}
