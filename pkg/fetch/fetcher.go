package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Sternrassler/branding-client/pkg/cache"
	"github.com/Sternrassler/branding-client/pkg/logging"
	"github.com/rs/zerolog"
)

// Request is one logical upstream read.
type Request struct {
	URL    string
	Header http.Header
	Key    cache.CacheKey

	// ForceRefresh evicts any cached entry and always goes upstream.
	ForceRefresh bool
}

// FetcherConfig holds the Fetcher configuration.
type FetcherConfig struct {
	// Service names the upstream in errors, logs and metric labels
	Service string

	// Transport performs upstream requests (required)
	Transport Transport

	// Store caches payloads (nil caches nothing)
	Store cache.Store

	// Validator checks payloads (nil requires a non-null "head")
	Validator *Validator

	// Check runs after Validator and before the payload is stored. It is
	// where clients map the payload; a failing payload is malformed and is
	// never cached.
	Check func(body []byte) error

	// CacheTime overrides header-derived freshness when non-nil
	CacheTime *int

	// Logger (nil uses the "<service>-client" component logger)
	Logger *zerolog.Logger
}

// Fetcher runs the lookup, fetch, validate and store pipeline shared by the
// branding and orbit clients.
type Fetcher struct {
	service   string
	transport Transport
	store     cache.Store
	validator *Validator
	check     func([]byte) error
	cacheTime *int
	logger    zerolog.Logger
}

var defaultValidator = MustValidator(RequiredFieldsSchema("head"))

// NewFetcher creates a Fetcher.
func NewFetcher(cfg FetcherConfig) (*Fetcher, error) {
	if cfg.Service == "" {
		return nil, fmt.Errorf("service name is required")
	}
	if cfg.Transport == nil {
		return nil, fmt.Errorf("transport is required")
	}
	if err := ValidateCacheTime(cfg.CacheTime); err != nil {
		return nil, err
	}

	store := cfg.Store
	if store == nil {
		store = cache.NewNullStore()
	}

	validator := cfg.Validator
	if validator == nil {
		validator = defaultValidator
	}

	logger := logging.NewLogger(cfg.Service + "-client")
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	var cacheTime *int
	if cfg.CacheTime != nil {
		v := *cfg.CacheTime
		cacheTime = &v
	}

	return &Fetcher{
		service:   cfg.Service,
		transport: cfg.Transport,
		store:     store,
		validator: validator,
		check:     cfg.Check,
		cacheTime: cacheTime,
		logger:    logger,
	}, nil
}

// Service returns the configured service name.
func (f *Fetcher) Service() string {
	return f.service
}

// Fetch returns the raw payload for req, from cache when fresh.
func (f *Fetcher) Fetch(ctx context.Context, req Request) ([]byte, error) {
	key := req.Key.String()

	if data, ok := f.lookup(ctx, key, req.ForceRefresh); ok {
		return data, nil
	}

	start := time.Now()
	resp, err := f.transport.Get(ctx, req.URL, req.Header)
	fetchDuration.WithLabelValues(f.service).Observe(time.Since(start).Seconds())

	return f.complete(ctx, req, key, resp, err)
}

// FetchAsync is the non-blocking form of Fetch. Cache hits resolve
// immediately.
func (f *Fetcher) FetchAsync(ctx context.Context, req Request) *Future[[]byte] {
	key := req.Key.String()

	if data, ok := f.lookup(ctx, key, req.ForceRefresh); ok {
		return Resolved(data)
	}

	start := time.Now()
	pending := f.transport.GetAsync(ctx, req.URL, req.Header)

	return Then(pending, func(resp *Response, err error) ([]byte, error) {
		fetchDuration.WithLabelValues(f.service).Observe(time.Since(start).Seconds())
		return f.complete(ctx, req, key, resp, err)
	})
}

// lookup returns a fresh cached payload. Store errors degrade to a miss.
func (f *Fetcher) lookup(ctx context.Context, key string, forceRefresh bool) ([]byte, bool) {
	if forceRefresh {
		cacheLookupsTotal.WithLabelValues(f.service, "refresh").Inc()
		if err := f.store.Delete(ctx, key); err != nil {
			f.logger.Warn().Err(err).Str(logging.FieldCacheKey, key).Msg("Cache delete error")
		}
		return nil, false
	}

	data, err := f.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			f.logger.Warn().Err(err).Str(logging.FieldCacheKey, key).Msg("Cache get error")
		}
		cacheLookupsTotal.WithLabelValues(f.service, "miss").Inc()
		f.logger.Debug().Str(logging.FieldCacheKey, key).Bool(logging.FieldCacheHit, false).Msg("Cache lookup")
		return nil, false
	}

	cacheLookupsTotal.WithLabelValues(f.service, "hit").Inc()
	f.logger.Debug().Str(logging.FieldCacheKey, key).Bool(logging.FieldCacheHit, true).Msg("Cache lookup")
	return data, true
}

// complete handles the upstream outcome: classify, validate, store or fall
// back to stale data.
func (f *Fetcher) complete(ctx context.Context, req Request, key string, resp *Response, err error) ([]byte, error) {
	if err != nil {
		class := classifyErr(err)
		fetchRequestsTotal.WithLabelValues(f.service, string(class)).Inc()
		return f.recoverStale(ctx, key, &FetchError{
			Service:    f.service,
			URL:        req.URL,
			ErrorClass: class,
			Err:        err,
		})
	}

	fetchRequestsTotal.WithLabelValues(f.service, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return f.recoverStale(ctx, key, &FetchError{
			Service:    f.service,
			URL:        req.URL,
			StatusCode: resp.StatusCode,
			ErrorClass: classifyStatus(resp.StatusCode),
			Err:        fmt.Errorf("unexpected status %s", http.StatusText(resp.StatusCode)),
		})
	}

	if err := f.validator.Validate(resp.Body); err != nil {
		return nil, f.malformed(req, "schema validation failed", err)
	}
	if f.check != nil {
		if err := f.check(resp.Body); err != nil {
			return nil, f.malformed(req, "could not map payload", err)
		}
	}

	seconds := cache.CacheSeconds(f.cacheTime, resp.Header)
	// Persist even if the caller gave up meanwhile
	if err := f.store.Set(context.WithoutCancel(ctx), key, resp.Body, seconds); err != nil {
		f.logger.Warn().Err(err).Str(logging.FieldCacheKey, key).Msg("Failed to cache response")
	} else {
		f.logger.Debug().
			Str(logging.FieldCacheKey, key).
			Int(logging.FieldTTL, seconds).
			Msg("Cached response")
	}

	return resp.Body, nil
}

func (f *Fetcher) malformed(req Request, reason string, err error) *MalformedResponseError {
	malformedResponsesTotal.WithLabelValues(f.service).Inc()
	f.logger.Error().
		Err(err).
		Str(logging.FieldURL, req.URL).
		Msg("Malformed upstream response")
	return &MalformedResponseError{
		Service: f.service,
		URL:     req.URL,
		Reason:  reason,
		Err:     err,
	}
}

// recoverStale answers a failed fetch with stale cached data when allowed.
// 404 responses are always surfaced.
func (f *Fetcher) recoverStale(ctx context.Context, key string, fetchErr *FetchError) ([]byte, error) {
	fetchErrorsTotal.WithLabelValues(f.service, string(fetchErr.ErrorClass)).Inc()

	if !fetchErr.NotFound() {
		data, err := f.store.GetStale(context.WithoutCancel(ctx), key)
		if err == nil {
			staleFallbacksTotal.WithLabelValues(f.service).Inc()
			f.logger.Error().
				Err(fetchErr).
				Str(logging.FieldURL, fetchErr.URL).
				Str(logging.FieldErrorClass, string(fetchErr.ErrorClass)).
				Msg("Upstream fetch failed, serving stale cache entry")
			return data, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			f.logger.Warn().Err(err).Str(logging.FieldCacheKey, key).Msg("Cache stale read error")
		}
	}

	f.logger.Error().
		Err(fetchErr).
		Str(logging.FieldURL, fetchErr.URL).
		Int(logging.FieldStatusCode, fetchErr.StatusCode).
		Str(logging.FieldErrorClass, string(fetchErr.ErrorClass)).
		Msg("Upstream fetch failed")
	return nil, fetchErr
}
