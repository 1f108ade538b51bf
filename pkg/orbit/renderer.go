package orbit

import (
	"github.com/cbroglie/mustache"
)

// Renderer substitutes template parameters into an Orbit fragment template.
type Renderer interface {
	Render(template string, params map[string]any) (string, error)
}

// MustacheOptions configures the mustache renderer.
type MustacheOptions struct {
	// Partials are named templates available as {{> name}}
	Partials map[string]string

	// Raw disables HTML escaping of {{var}} tags
	Raw bool
}

// MustacheRenderer renders templates with mustache.
type MustacheRenderer struct {
	partials *mustache.StaticProvider
	raw      bool
}

// NewMustacheRenderer creates a mustache renderer. The partials map is copied.
func NewMustacheRenderer(opts MustacheOptions) *MustacheRenderer {
	partials := make(map[string]string, len(opts.Partials))
	for name, tmpl := range opts.Partials {
		partials[name] = tmpl
	}
	return &MustacheRenderer{
		partials: &mustache.StaticProvider{Partials: partials},
		raw:      opts.Raw,
	}
}

// Render implements Renderer.
func (r *MustacheRenderer) Render(template string, params map[string]any) (string, error) {
	return mustache.RenderPartialsRaw(template, r.partials, r.raw, params)
}

var _ Renderer = (*MustacheRenderer)(nil)
