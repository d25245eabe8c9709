package catalog

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"smartbanner/internal/cache"
	"smartbanner/internal/storage"
)

// Page is the metadata of one site: <meta name> content and <link rel> href.
// It implements appid.Page.
type Page struct {
	meta  map[string]string
	links map[string]string
}

func NewPage(meta, links map[string]string) Page {
	p := Page{meta: map[string]string{}, links: map[string]string{}}
	for k, v := range meta {
		p.meta[k] = v
	}
	for k, v := range links {
		p.links[strings.ToLower(k)] = v
	}
	return p
}

// Meta looks up <meta name>. Names match exactly, as a CSS attribute selector would.
func (p Page) Meta(name string) (string, bool) {
	v, ok := p.meta[name]
	return v, ok
}

// Link looks up <link rel>. Relations are case-insensitive.
func (p Page) Link(rel string) (string, bool) {
	v, ok := p.links[strings.ToLower(rel)]
	return v, ok
}

// Loader yields metadata rows.
type Loader interface {
	LoadPageMeta(ctx context.Context) ([]storage.MetaRow, error)
}

// Catalog exposes read-only, lock-free per-site page lookups.
type Catalog struct {
	snap cache.Snapshot[map[string]Page]
}

func New() *Catalog { return &Catalog{} }

// Page returns the metadata of site. Unknown sites get an empty page.
func (c *Catalog) Page(site string) (Page, bool) {
	pages, _ := c.snap.Load()
	p, ok := pages[strings.ToLower(site)]
	if !ok {
		return NewPage(nil, nil), false
	}
	return p, true
}

// Replace swaps in a new set of rows.
func (c *Catalog) Replace(rows []storage.MetaRow) {
	meta := map[string]map[string]string{}
	links := map[string]map[string]string{}
	for _, r := range rows {
		site := strings.ToLower(strings.TrimSpace(r.Site))
		name, dst := r.Name, meta
		if r.Kind == storage.KindLink {
			name, dst = strings.ToLower(r.Name), links
		}
		if dst[site] == nil {
			dst[site] = map[string]string{}
		}
		// first row wins, like the first matching node in a document
		if _, dup := dst[site][name]; !dup {
			dst[site][name] = r.Value
		}
	}
	pages := map[string]Page{}
	for site, m := range meta {
		pages[site] = NewPage(m, links[site])
	}
	for site, l := range links {
		if _, ok := pages[site]; !ok {
			pages[site] = NewPage(nil, l)
		}
	}
	c.snap.Store(pages)
}

// BuildSnapshot loads rows from l and replaces the catalog.
func (c *Catalog) BuildSnapshot(ctx context.Context, l Loader) error {
	rows, err := l.LoadPageMeta(ctx)
	if err != nil {
		return err
	}
	c.Replace(rows)
	log.Info().Int("rows", len(rows)).Msg("page catalog loaded")
	return nil
}
