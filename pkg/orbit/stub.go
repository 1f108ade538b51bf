package orbit

import (
	"context"
	"encoding/json"
	"html"

	"github.com/Sternrassler/branding-client/pkg/cache"
	"github.com/Sternrassler/branding-client/pkg/fetch"
)

// StubClient returns canned fragments without network or cache access. The
// head echoes the request and template parameters it was called with.
type StubClient struct{}

// NewStubClient creates a StubClient. It takes the same arguments as
// NewClient so the two are interchangeable, and ignores them.
func NewStubClient(fetch.Transport, cache.Store, Config) *StubClient {
	return &StubClient{}
}

func (s *StubClient) GetContent(_ context.Context, params RequestParams, templateParams map[string]any) (*Orbit, error) {
	return stubOrbit(params, templateParams), nil
}

func (s *StubClient) GetContentAsync(_ context.Context, params RequestParams, templateParams map[string]any) *fetch.Future[*Orbit] {
	return fetch.Resolved(stubOrbit(params, templateParams))
}

func stubOrbit(params RequestParams, templateParams map[string]any) *Orbit {
	if templateParams == nil {
		templateParams = map[string]any{}
	}

	head := `<orbit-head><orbit-request-params data-values="` + encodeAttr(params) +
		`"/><orbit-template-params data-values="` + encodeAttr(templateParams) + `"/></orbit-head>`

	return New(head, "<orbit-bodyfirst/>", "<orbit-bodylast/>")
}

func encodeAttr(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return html.EscapeString(string(data))
}

var _ Contenter = (*StubClient)(nil)
