package appid

import (
	"errors"
	"regexp"

	"smartbanner/internal/options"
	"smartbanner/internal/platform"
)

var (
	// ErrNoIdentifier means neither config nor page metadata names the app.
	ErrNoIdentifier = errors.New("no app identifier")
	// ErrMalformedMetadata means the metadata entry exists but carries no app-id token.
	ErrMalformedMetadata = errors.New("app identifier metadata has no app-id token")
)

// Page is the read-only view of the host page's metadata.
type Page interface {
	// Meta returns the content of <meta name=name>.
	Meta(name string) (string, bool)
	// Link returns the href of the first <link rel=rel>.
	Link(rel string) (string, bool)
}

var appIDToken = regexp.MustCompile(`app-id=([^\s,]+)`)

// Resolve finds the store identifier for v. An explicitly configured id
// is used verbatim and the page is never consulted.
func Resolve(v platform.Variant, cfg options.Config, page Page) (string, error) {
	if id, ok := cfg.AppID(v); ok {
		return id, nil
	}
	prof, ok := platform.ProfileFor(v)
	if !ok || page == nil {
		return "", ErrNoIdentifier
	}
	content, ok := page.Meta(prof.MetaName)
	if !ok {
		return "", ErrNoIdentifier
	}
	if prof.RawMetaID {
		return content, nil
	}
	m := appIDToken.FindStringSubmatch(content)
	if m == nil {
		return "", ErrMalformedMetadata
	}
	return m[1], nil
}

// Icon picks the banner icon: the configured one, else the first link
// relation of the platform's fallback list present on the page.
func Icon(v platform.Variant, cfg options.Config, page Page) string {
	if cfg.Icon != "" {
		return cfg.Icon
	}
	prof, ok := platform.ProfileFor(v)
	if !ok || page == nil {
		return ""
	}
	for _, rel := range prof.IconRels {
		if href, ok := page.Link(rel); ok {
			return href
		}
	}
	return ""
}
