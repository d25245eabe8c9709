package banner

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"smartbanner/internal/appid"
	"smartbanner/internal/eligibility"
	"smartbanner/internal/options"
	"smartbanner/internal/platform"
	"smartbanner/internal/suppression"
)

// State is where a Prompt is in its lifecycle.
type State int

const (
	Ineligible State = iota
	Eligible
	Rendered
	Dismissed
	Installed
)

func (s State) String() string {
	switch s {
	case Ineligible:
		return "ineligible"
	case Eligible:
		return "eligible"
	case Rendered:
		return "rendered"
	case Dismissed:
		return "dismissed"
	case Installed:
		return "installed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// View is the page layer the banner is drawn into.
type View interface {
	// Mount attaches the banner markup in a container with the given class.
	Mount(className, markup string) error
	Show()
	Hide()
}

// Env carries the collaborators and device signals for one page load.
type Env struct {
	UserAgent string
	// Standalone is set when the page runs as an installed web app.
	Standalone bool
	Page       appid.Page
	Store      suppression.Store
	View       View
}

// RenderRequest is what was handed to the view.
type RenderRequest struct {
	Variant   platform.Variant
	Theme     string
	ClassName string
	Icon      string
	Link      string
	InStore   string
	Button    string
	Markup    string
}

// Prompt is one banner instance. All decisions happen in New; afterwards
// only Close and Install move it, each at most once.
type Prompt struct {
	cfg     options.Config
	device  platform.Detection
	variant platform.Variant
	appID   string
	state   State
	reason  eligibility.Reason
	req     RenderRequest

	store suppression.Store
	view  View
}

// New evaluates the banner for env and renders it when allowed.
func New(cfg options.Config, env Env) *Prompt {
	p := &Prompt{
		cfg:    cfg,
		device: platform.Detect(env.UserAgent),
		store:  env.Store,
		view:   env.View,
	}
	p.variant = p.device.Variant
	switch {
	case cfg.ForceUnknown:
		p.variant = platform.None
	case cfg.Force != platform.None:
		p.variant = cfg.Force
	}

	p.reason = eligibility.Evaluate(eligibility.Input{
		Variant:    p.variant,
		Device:     p.device,
		Standalone: env.Standalone,
		InstanceID: cfg.InstanceID,
		Store:      env.Store,
	})
	logger := log.With().Str("instance", cfg.InstanceID).Str("platform", p.variant.String()).Logger()
	if p.reason != eligibility.Eligible {
		logger.Debug().Str("reason", string(p.reason)).
			Str("os", p.device.OS).Int("os_major", p.device.OSMajor).
			Msg("banner suppressed")
		return p
	}
	p.state = Eligible

	id, err := appid.Resolve(p.variant, cfg, env.Page)
	if err != nil {
		if errors.Is(err, appid.ErrMalformedMetadata) {
			logger.Warn().Err(err).Msg("ignoring malformed app id metadata")
		}
		p.fail(eligibility.UnresolvedIdentifier)
		logger.Debug().Str("reason", string(p.reason)).Msg("banner suppressed")
		return p
	}
	p.appID = id

	if err := p.render(env.Page); err != nil {
		logger.Error().Err(err).Msg("banner render failed")
		p.fail(eligibility.RenderFailed)
		return p
	}
	p.state = Rendered
	logger.Debug().Str("app_id", id).Msg("banner rendered")
	return p
}

func (p *Prompt) fail(r eligibility.Reason) {
	p.state = Ineligible
	p.reason = r
}

func (p *Prompt) render(page appid.Page) error {
	prof, _ := platform.ProfileFor(p.variant)
	theme := p.cfg.Theme
	if theme == "" {
		theme = string(p.variant)
	}
	req := RenderRequest{
		Variant: p.variant,
		Theme:   theme,
		Icon:    appid.Icon(p.variant, p.cfg, page),
		Link:    prof.StoreLink(p.appID, p.cfg.AppStoreLanguage),
		InStore: p.cfg.Price(p.variant) + " - " + p.cfg.Store(p.variant),
		Button:  p.cfg.Button,
	}
	if p.cfg.AddContainerClassName {
		req.ClassName = "smartbanner-" + theme
	}

	params := p.cfg.Params()
	params["icon"] = req.Icon
	params["link"] = req.Link
	params["inStore"] = req.InStore

	renderFn := p.cfg.Render
	if renderFn == nil {
		renderFn = DefaultMarkup
	}
	markup, err := renderFn(params)
	if err != nil {
		return err
	}
	req.Markup = markup
	p.req = req

	if p.view != nil {
		if err := p.view.Mount(req.ClassName, markup); err != nil {
			return fmt.Errorf("mount banner: %w", err)
		}
	}
	if p.cfg.PostRender != nil {
		p.cfg.PostRender()
	}
	if p.view != nil {
		p.view.Show()
	}
	return nil
}

// Close dismisses a rendered banner and suppresses this instance for
// DaysHidden days. It is a no-op in any other state.
func (p *Prompt) Close() error {
	if p.state != Rendered {
		return nil
	}
	p.state = Dismissed
	p.hide()
	if p.cfg.CloseCallback != nil {
		p.cfg.CloseCallback()
	}
	log.Info().Str("instance", p.cfg.InstanceID).Int("days", p.cfg.DaysHidden).Msg("banner closed")
	return p.suppress(suppression.ClosedKey(p.cfg.InstanceID), p.cfg.DaysHidden)
}

// Install records an install click, suppressing every instance for
// DaysReminder days. It is a no-op unless the banner is rendered.
func (p *Prompt) Install() error {
	if p.state != Rendered {
		return nil
	}
	p.state = Installed
	p.hide()
	log.Info().Str("instance", p.cfg.InstanceID).Int("days", p.cfg.DaysReminder).Msg("banner install clicked")
	return p.suppress(suppression.InstalledKey, p.cfg.DaysReminder)
}

func (p *Prompt) hide() {
	if p.view != nil {
		p.view.Hide()
	}
}

func (p *Prompt) suppress(key string, days int) error {
	if p.store == nil {
		return nil
	}
	if err := p.store.Set(key, suppression.Flag, suppression.Days(days)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (p *Prompt) State() State               { return p.state }
func (p *Prompt) Reason() eligibility.Reason { return p.reason }
func (p *Prompt) Platform() platform.Variant { return p.variant }
func (p *Prompt) AppID() string              { return p.appID }
func (p *Prompt) InstanceID() string         { return p.cfg.InstanceID }

// Request returns what was rendered. ok is false if nothing was.
func (p *Prompt) Request() (RenderRequest, bool) {
	return p.req, p.state >= Rendered
}
