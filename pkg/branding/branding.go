// Package branding fetches BBC branding fragments (head/body markup,
// colours and display options) for a project or theme preview.
package branding

import (
	"fmt"
	"html"
	"strings"
)

// Option keys with defaults.
const (
	OptionLanguage      = "language"
	OptionOrbVariation  = "orb_variation"
	OptionOrbHeader     = "orb_header"
	OptionOrbFooter     = "orb_footer"
	OptionOrbFooterText = "orb_footer_text"

	OptionMastheadServiceID = "mastheadServiceId"
	OptionShowNavBar        = "showNavBar"
)

var defaultOptions = map[string]string{
	OptionLanguage:      "en_GB",
	OptionOrbVariation:  "default",
	OptionOrbHeader:     "black",
	OptionOrbFooter:     "black",
	OptionOrbFooterText: "light",
}

var (
	mastheadSearchScopes = map[string]string{
		"cbbc":                "cbbc",
		"cbeebies":            "cbeebies",
		"bbc_radio_cymru":     "cymru",
		"bbc_radio_cymru_mwy": "cymru",
	}

	navBarSearchScopes = map[string]string{
		"radio": "iplayer:radio",
	}

	headerThemes = map[string]string{
		"black":              "black--white",
		"white":              "white--black",
		"transparent-dark":   "semitransparent-dark--white",
		"transparent-medium": "semitransparent-medium--white",
		"transparent-light":  "semitransparent-light--white",
		"transparent":        "transparent--dark-grey",
		"grey":               "grey--white",
		"darkgrey":           "dark-grey--grey",
	}

	footerTextColours = map[string]string{
		"light": "white",
		"dark":  "dark-grey",
	}

	footerThemes = map[string]string{
		"black":    "black--white",
		"opaque":   "semitransparent--white",
		"grey":     "grey--white",
		"darkgrey": "dark-grey--grey",
	}
)

// Colours maps colour roles (e.g. "body") to named colour values.
type Colours map[string]map[string]string

// Branding is an immutable branding fragment.
type Branding struct {
	head        string
	bodyFirst   string
	bodyLast    string
	colours     Colours
	options     map[string]any
	rfcLanguage string
}

// New builds a Branding, filling in default options. The given maps are
// copied.
func New(head, bodyFirst, bodyLast string, colours Colours, options map[string]any) *Branding {
	opts := make(map[string]any, len(options)+len(defaultOptions))
	for k, v := range options {
		opts[k] = v
	}
	for k, v := range defaultOptions {
		if _, ok := opts[k]; !ok {
			opts[k] = v
		}
	}

	b := &Branding{
		head:      head,
		bodyFirst: bodyFirst,
		bodyLast:  bodyLast,
		colours:   copyColours(colours),
		options:   opts,
	}
	b.rfcLanguage = strings.ReplaceAll(b.Option(OptionLanguage), "_", "-")
	return b
}

func (b *Branding) Head() string      { return b.head }
func (b *Branding) BodyFirst() string { return b.bodyFirst }
func (b *Branding) BodyLast() string  { return b.bodyLast }

// Colours returns a copy of the colour table.
func (b *Branding) Colours() Colours {
	return copyColours(b.colours)
}

// Options returns a copy of the options, defaults included.
func (b *Branding) Options() map[string]any {
	opts := make(map[string]any, len(b.options))
	for k, v := range b.options {
		opts[k] = v
	}
	return opts
}

// Option returns the string form of an option, or "" if unset.
func (b *Branding) Option(key string) string {
	v, ok := b.options[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// OverrideOption returns a copy of b with one option replaced.
func (b *Branding) OverrideOption(key string, value any) *Branding {
	opts := b.Options()
	opts[key] = value
	return New(b.head, b.bodyFirst, b.bodyLast, b.colours, opts)
}

// Language returns the language in RFC 5646 form, e.g. "en-GB".
func (b *Branding) Language() string {
	return b.rfcLanguage
}

// Locale returns the language option verbatim, e.g. "en_GB".
func (b *Branding) Locale() string {
	return b.Option(OptionLanguage)
}

// OrbitLanguage returns the language Orbit should be requested in.
//
// Deprecated: use Language.
func (b *Branding) OrbitLanguage() string {
	return b.rfcLanguage
}

// OrbitVariant returns the orb variation option.
func (b *Branding) OrbitVariant() string {
	return b.Option(OptionOrbVariation)
}

// SearchScope returns the Orbit search scope for this branding, or "" when
// it has none. Masthead services take precedence over the nav bar.
func (b *Branding) SearchScope() string {
	if scope, ok := mastheadSearchScopes[b.Option(OptionMastheadServiceID)]; ok {
		return scope
	}
	if scope, ok := navBarSearchScopes[b.Option(OptionShowNavBar)]; ok {
		return scope
	}
	return ""
}

// ThemeClasses returns the Orbit header and footer theme CSS classes.
// Unknown header or footer values use the black theme.
func (b *Branding) ThemeClasses() string {
	header, ok := headerThemes[b.Option(OptionOrbHeader)]
	if !ok {
		header = headerThemes["black"]
	}

	var footer string
	if b.Option(OptionOrbFooter) == "transparent" {
		text, ok := footerTextColours[b.Option(OptionOrbFooterText)]
		if !ok {
			text = footerTextColours["light"]
		}
		footer = "transparent--" + text
	} else if footer, ok = footerThemes[b.Option(OptionOrbFooter)]; !ok {
		footer = footerThemes["black"]
	}

	return fmt.Sprintf("b-header--%s b-footer--%s", header, footer)
}

// BuildNavItem renders a branding navigation list item.
func BuildNavItem(text, href, linktrack string) string {
	var track string
	if linktrack != "" {
		track = fmt.Sprintf(` data-linktrack="%s"`, html.EscapeString(linktrack))
	}
	return fmt.Sprintf(`<li class="br-nav__item"><a class="br-nav__link" href="%s"%s>%s</a></li>`,
		html.EscapeString(href), track, html.EscapeString(text))
}

func copyColours(c Colours) Colours {
	out := make(Colours, len(c))
	for role, values := range c {
		inner := make(map[string]string, len(values))
		for k, v := range values {
			inner[k] = v
		}
		out[role] = inner
	}
	return out
}
