package orbit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Sternrassler/branding-client/pkg/cache"
	"github.com/Sternrassler/branding-client/pkg/fetch"
	"github.com/rs/zerolog"
)

const service = "orbit"

// CloudIdctaFeature is sent as X-Feature when UseCloudIdcta is enabled.
const CloudIdctaFeature = "akamai-idcta"

const (
	defaultLanguage = "en"
	defaultVariant  = "default"
)

// Contenter is implemented by Client and StubClient.
type Contenter interface {
	GetContent(ctx context.Context, params RequestParams, templateParams map[string]any) (*Orbit, error)
	GetContentAsync(ctx context.Context, params RequestParams, templateParams map[string]any) *fetch.Future[*Orbit]
}

// RequestParams are sent upstream as request headers.
type RequestParams struct {
	// Language is sent as Accept-Language (default "en")
	Language string `json:"language,omitempty"`

	// Variant is sent as X-Orb-Variant (default "default")
	Variant string `json:"variant,omitempty"`

	// ForceRefresh evicts any cached copy and goes upstream
	ForceRefresh bool `json:"-"`
}

// Config holds the client configuration.
type Config struct {
	// Env is one of int, test or live (empty means live)
	Env fetch.Environment

	// CacheKeyPrefix namespaces cache keys
	CacheKeyPrefix string

	// CacheTime overrides header-derived freshness in seconds (nil derives it)
	CacheTime *int

	// Timeout bounds upstream requests when NewClient builds the transport
	Timeout time.Duration

	// Mustache configures the default template renderer
	Mustache MustacheOptions

	// Renderer replaces the mustache renderer when set
	Renderer Renderer

	// UseCloudIdcta requests the cloud-hosted ID call-to-action
	UseCloudIdcta bool

	// Logger (nil uses the "orbit-client" component logger)
	Logger *zerolog.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Env:            fetch.EnvLive,
		CacheKeyPrefix: "orbit",
		Timeout:        fetch.DefaultTimeout,
	}
}

// Client fetches navigation fragments from the Orbit web service.
type Client struct {
	fetcher  *fetch.Fetcher
	renderer Renderer
	config   Config
}

var validator = fetch.MustValidator(schema)

// NewClient creates an orbit client. A nil transport uses an HTTPTransport
// with cfg.Timeout; a nil store caches nothing.
func NewClient(transport fetch.Transport, store cache.Store, cfg Config) (*Client, error) {
	env, err := fetch.ParseEnvironment(string(cfg.Env))
	if err != nil {
		return nil, err
	}
	cfg.Env = env

	if cfg.CacheKeyPrefix == "" {
		cfg.CacheKeyPrefix = DefaultConfig().CacheKeyPrefix
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = fetch.DefaultTimeout
	}
	if transport == nil {
		transport = fetch.NewHTTPTransport(nil, cfg.Timeout)
	}

	fetcher, err := fetch.NewFetcher(fetch.FetcherConfig{
		Service:   service,
		Transport: transport,
		Store:     store,
		Validator: validator,
		Check:     checkPayload,
		CacheTime: cfg.CacheTime,
		Logger:    cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	if cfg.CacheTime != nil {
		v := *cfg.CacheTime
		cfg.CacheTime = &v
	}

	renderer := cfg.Renderer
	if renderer == nil {
		renderer = NewMustacheRenderer(cfg.Mustache)
	}

	return &Client{
		fetcher:  fetcher,
		renderer: renderer,
		config:   cfg,
	}, nil
}

// Options returns the effective configuration.
func (c *Client) Options() Config {
	cfg := c.config
	if cfg.CacheTime != nil {
		v := *cfg.CacheTime
		cfg.CacheTime = &v
	}
	return cfg
}

// URL returns the Orbit web service URL for the configured environment.
func (c *Client) URL() string {
	if c.config.Env.IsLive() {
		return "https://navigation.api.bbci.co.uk/api"
	}
	return fmt.Sprintf("https://navigation.%s.api.bbci.co.uk/api", c.config.Env)
}

// Headers returns the upstream request headers for params.
func (c *Client) Headers(params RequestParams) http.Header {
	language := params.Language
	if language == "" {
		language = defaultLanguage
	}
	variant := params.Variant
	if variant == "" {
		variant = defaultVariant
	}

	header := http.Header{}
	header.Set("Accept", "application/ld+json")
	header.Set("Accept-Encoding", "gzip")
	header.Set("Accept-Language", language)
	header.Set("X-Orb-Variant", variant)
	if c.config.UseCloudIdcta {
		header.Set("X-Feature", CloudIdctaFeature)
	}
	return header
}

// GetContent returns the Orbit fragments for params. Fragments are rendered
// with templateParams when any are given, otherwise returned as literal html.
func (c *Client) GetContent(ctx context.Context, params RequestParams, templateParams map[string]any) (*Orbit, error) {
	req := c.request(params)

	data, err := c.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.mapResult(req.URL, data, templateParams)
}

// GetContentAsync is the non-blocking form of GetContent.
func (c *Client) GetContentAsync(ctx context.Context, params RequestParams, templateParams map[string]any) *fetch.Future[*Orbit] {
	req := c.request(params)

	return fetch.Then(c.fetcher.FetchAsync(ctx, req), func(data []byte, err error) (*Orbit, error) {
		if err != nil {
			return nil, err
		}
		return c.mapResult(req.URL, data, templateParams)
	})
}

func (c *Client) request(params RequestParams) fetch.Request {
	url := c.URL()

	keyParams := map[string]string{}
	if params.Language != "" {
		keyParams["language"] = params.Language
	}
	if params.Variant != "" {
		keyParams["variant"] = params.Variant
	}
	if c.config.UseCloudIdcta {
		keyParams["feature"] = CloudIdctaFeature
	}

	return fetch.Request{
		URL:    url,
		Header: c.Headers(params),
		Key: cache.CacheKey{
			Namespace: c.config.CacheKeyPrefix,
			URL:       url,
			Params:    keyParams,
		},
		ForceRefresh: params.ForceRefresh,
	}
}

func (c *Client) mapResult(url string, data []byte, templateParams map[string]any) (*Orbit, error) {
	o, err := resolve(data, c.renderer, templateParams)
	if err != nil {
		return nil, &fetch.MalformedResponseError{
			Service: service,
			URL:     url,
			Reason:  "could not resolve fragments",
			Err:     err,
		}
	}
	return o, nil
}

var _ Contenter = (*Client)(nil)
