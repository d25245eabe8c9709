package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"smartbanner/internal/banner"
	"smartbanner/internal/catalog"
	"smartbanner/internal/observability"
	"smartbanner/internal/options"
)

// DefaultInstance is used when a request names no instance.
const DefaultInstance = "0"

// BannerResponse is the JSON body of a rendered banner.
type BannerResponse struct {
	Instance  string `json:"instance"`
	Platform  string `json:"platform"`
	Theme     string `json:"theme"`
	ClassName string `json:"className,omitempty"`
	Icon      string `json:"icon,omitempty"`
	Link      string `json:"link"`
	InStore   string `json:"inStore"`
	Button    string `json:"button"`
	HTML      string `json:"html"`
}

type BannerHandler struct {
	Catalog *catalog.Catalog
	Stores  StoreFactory
	banners map[string]options.Overrides
}

// NewBannerHandler indexes the configured instances by id. An instance
// without an id takes the default one.
func NewBannerHandler(cat *catalog.Catalog, stores StoreFactory, banners []options.Overrides) *BannerHandler {
	idx := map[string]options.Overrides{}
	for _, b := range banners {
		id := DefaultInstance
		if b.InstanceID != nil {
			id = *b.InstanceID
		}
		b.InstanceID = &id
		idx[id] = b
	}
	if _, ok := idx[DefaultInstance]; !ok {
		id := DefaultInstance
		idx[id] = options.Overrides{InstanceID: &id}
	}
	return &BannerHandler{Catalog: cat, Stores: stores, banners: idx}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// htmlView collects what the prompt draws; the page does the actual DOM work.
type htmlView struct {
	className string
	markup    string
	shown     bool
}

func (v *htmlView) Mount(className, markup string) error {
	v.className, v.markup = className, markup
	return nil
}
func (v *htmlView) Show() { v.shown = true }
func (v *htmlView) Hide() { v.shown = false }

func (h *BannerHandler) prompt(w http.ResponseWriter, r *http.Request, instance string) (*banner.Prompt, *htmlView, bool) {
	ov, ok := h.banners[instance]
	if !ok {
		return nil, nil, false
	}
	site := r.URL.Query().Get("site")
	if site == "" {
		site = r.Host
	}
	page, _ := h.Catalog.Page(site)

	cfg := options.Resolve(options.Defaults(options.LanguageFromAccept(r.Header.Get("Accept-Language"))), ov)
	view := &htmlView{}
	p := banner.New(cfg, banner.Env{
		UserAgent:  r.UserAgent(),
		Standalone: isTrue(r.Header.Get("X-Standalone")),
		Page:       page,
		Store:      h.Stores.For(w, r),
		View:       view,
	})
	observability.Decisions.WithLabelValues(p.Platform().String(), string(p.Reason())).Inc()
	return p, view, true
}

// Banner decides whether the requesting device gets a banner.
func (h *BannerHandler) Banner(w http.ResponseWriter, r *http.Request) {
	instance := r.URL.Query().Get("instance")
	if instance == "" {
		instance = DefaultInstance
	}
	p, view, ok := h.prompt(w, r, instance)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown banner instance"})
		return
	}
	w.Header().Set("X-Banner-Reason", string(p.Reason()))

	req, rendered := p.Request()
	if !rendered || !view.shown {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, BannerResponse{
		Instance:  p.InstanceID(),
		Platform:  req.Variant.String(),
		Theme:     req.Theme,
		ClassName: req.ClassName,
		Icon:      req.Icon,
		Link:      req.Link,
		InStore:   req.InStore,
		Button:    req.Button,
		HTML:      view.markup,
	})
}

// Close handles the close button.
func (h *BannerHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "close", (*banner.Prompt).Close)
}

// Install handles the install button.
func (h *BannerHandler) Install(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "install", (*banner.Prompt).Install)
}

func (h *BannerHandler) act(w http.ResponseWriter, r *http.Request, action string, fn func(*banner.Prompt) error) {
	instance := chi.URLParam(r, "instance")
	p, _, ok := h.prompt(w, r, instance)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown banner instance"})
		return
	}
	before := p.State()
	if err := fn(p); err != nil {
		log.Error().Err(err).Str("instance", instance).Str("action", action).Msg("banner action failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not store banner state"})
		return
	}
	applied := p.State() != before
	observability.Actions.WithLabelValues(action, boolLabel(applied)).Inc()
	w.Header().Set("X-Banner-State", p.State().String())
	w.WriteHeader(http.StatusNoContent)
}

func isTrue(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
