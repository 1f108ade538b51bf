package branding

import (
	"context"

	"github.com/Sternrassler/branding-client/pkg/cache"
	"github.com/Sternrassler/branding-client/pkg/fetch"
)

// StubClient returns canned branding without network or cache access.
type StubClient struct{}

// NewStubClient creates a StubClient. It takes the same arguments as
// NewClient so the two are interchangeable, and ignores them.
func NewStubClient(fetch.Transport, cache.Store, Config) *StubClient {
	return &StubClient{}
}

func (s *StubClient) GetContent(context.Context, string, string) (*Branding, error) {
	return stubBranding(), nil
}

func (s *StubClient) GetContentAsync(context.Context, string, string) *fetch.Future[*Branding] {
	return fetch.Resolved(stubBranding())
}

func (s *StubClient) GetContentWithOptions(context.Context, RequestOptions) (*Branding, error) {
	return stubBranding(), nil
}

func stubBranding() *Branding {
	return New(
		"<branding-head/>",
		"<branding-bodyfirst/>",
		"<branding-bodylast/>",
		Colours{"body": {"bg": "#eeeeee"}},
		nil,
	)
}

var _ Contenter = (*StubClient)(nil)
