package options

import (
	"maps"
	"strings"

	"golang.org/x/text/language"

	"smartbanner/internal/platform"
)

// Params is what a render hook receives: the display values plus every
// option, including keys the resolver does not know about.
type Params map[string]any

// Overrides is a caller-supplied, partial option set. Nil pointers and
// absent map keys keep the default.
type Overrides struct {
	DaysHidden            *int              `mapstructure:"days_hidden"`
	DaysReminder          *int              `mapstructure:"days_reminder"`
	AppStoreLanguage      *string           `mapstructure:"app_store_language"`
	Button                *string           `mapstructure:"button"`
	Store                 map[string]string `mapstructure:"store"`
	Price                 map[string]string `mapstructure:"price"`
	Theme                 *string           `mapstructure:"theme"`
	Icon                  *string           `mapstructure:"icon"`
	Force                 *string           `mapstructure:"force"`
	InstanceID            *string           `mapstructure:"instance_id"`
	AppID                 map[string]string `mapstructure:"app_id"`
	AddContainerClassName *bool             `mapstructure:"add_container_class_name"`

	CloseCallback func()                       `mapstructure:"-"`
	Render        func(Params) (string, error) `mapstructure:"-"`
	PostRender    func()                       `mapstructure:"-"`

	// Extra holds unrecognised keys; they are passed through to rendering.
	Extra map[string]any `mapstructure:",remain"`
}

// Config is the resolved option set. It is built once by Resolve and not
// changed afterwards; the per-platform maps are only reachable through
// accessors so callers cannot mutate them.
type Config struct {
	DaysHidden       int
	DaysReminder     int
	AppStoreLanguage string
	Button           string
	// Theme is used verbatim as the container class suffix.
	Theme string
	Icon  string
	Force platform.Variant
	// ForceUnknown is set when force names no known platform; such a
	// banner never shows.
	ForceUnknown          bool
	InstanceID            string
	AddContainerClassName bool

	CloseCallback func()
	Render        func(Params) (string, error)
	PostRender    func()

	store map[platform.Variant]string
	price map[platform.Variant]string
	appID map[platform.Variant]string
	extra map[string]any
}

// Defaults returns the built-in option set. lang is the App Store
// language; see LanguageFromAccept.
func Defaults(lang string) Config {
	if lang == "" {
		lang = "us"
	}
	return Config{
		DaysHidden:            15,
		DaysReminder:          90,
		AppStoreLanguage:      lang,
		Button:                "OPEN",
		InstanceID:            "0",
		AddContainerClassName: true,
		store: map[platform.Variant]string{
			platform.IOS:     "On the App Store",
			platform.Android: "In Google Play",
			platform.Windows: "In the Windows Store",
		},
		price: map[platform.Variant]string{
			platform.IOS:     "FREE",
			platform.Android: "FREE",
			platform.Windows: "FREE",
		},
		appID: map[platform.Variant]string{},
		extra: map[string]any{},
	}
}

// Resolve merges o over def. Scalars are replaced when set; the
// store, price and app_id maps are merged per platform.
func Resolve(def Config, o Overrides) Config {
	c := def
	c.store = maps.Clone(def.store)
	c.price = maps.Clone(def.price)
	c.appID = maps.Clone(def.appID)
	c.extra = maps.Clone(def.extra)

	if o.DaysHidden != nil {
		c.DaysHidden = *o.DaysHidden
	}
	if o.DaysReminder != nil {
		c.DaysReminder = *o.DaysReminder
	}
	if o.AppStoreLanguage != nil {
		c.AppStoreLanguage = *o.AppStoreLanguage
	}
	if o.Button != nil {
		c.Button = *o.Button
	}
	if o.Theme != nil {
		c.Theme = *o.Theme
	}
	if o.Icon != nil {
		c.Icon = *o.Icon
	}
	if o.Force != nil {
		c.Force = platform.ParseVariant(*o.Force)
		c.ForceUnknown = c.Force == platform.None && strings.TrimSpace(*o.Force) != ""
	}
	if o.InstanceID != nil {
		c.InstanceID = *o.InstanceID
	}
	if o.AddContainerClassName != nil {
		c.AddContainerClassName = *o.AddContainerClassName
	}
	if o.CloseCallback != nil {
		c.CloseCallback = o.CloseCallback
	}
	if o.Render != nil {
		c.Render = o.Render
	}
	if o.PostRender != nil {
		c.PostRender = o.PostRender
	}

	c.store = mergePlatformMap(c.store, o.Store)
	c.price = mergePlatformMap(c.price, o.Price)
	c.appID = mergePlatformMap(c.appID, o.AppID)
	if c.extra == nil {
		c.extra = map[string]any{}
	}
	maps.Copy(c.extra, o.Extra)
	return c
}

func mergePlatformMap(dst map[platform.Variant]string, src map[string]string) map[platform.Variant]string {
	if dst == nil {
		dst = map[platform.Variant]string{}
	}
	for k, v := range src {
		if p := platform.ParseVariant(k); p != platform.None {
			dst[p] = v
		}
	}
	return dst
}

// Store is the store display name for v.
func (c Config) Store(v platform.Variant) string { return c.store[v] }

// Price is the price display string for v.
func (c Config) Price(v platform.Variant) string { return c.price[v] }

// AppID returns the explicitly configured identifier for v.
func (c Config) AppID(v platform.Variant) (string, bool) {
	id, ok := c.appID[v]
	return id, ok
}

// Params flattens the config into a render parameter map. Pass-through
// keys are copied first so known options always win.
func (c Config) Params() Params {
	p := Params{}
	maps.Copy(p, c.extra)
	p["daysHidden"] = c.DaysHidden
	p["daysReminder"] = c.DaysReminder
	p["appStoreLanguage"] = c.AppStoreLanguage
	p["button"] = c.Button
	p["theme"] = c.Theme
	p["icon"] = c.Icon
	p["force"] = string(c.Force)
	p["instanceId"] = c.InstanceID
	p["addContainerClassName"] = c.AddContainerClassName
	p["store"] = platformMap(c.store)
	p["price"] = platformMap(c.price)
	p["appId"] = platformMap(c.appID)
	return p
}

func platformMap(m map[platform.Variant]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}

// LanguageFromAccept derives the App Store language from an
// Accept-Language header: the region of the preferred tag when it has
// one, else its base language, lowercased. Empty or unparseable headers
// give "us".
func LanguageFromAccept(header string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return "us"
	}
	if region, conf := tags[0].Region(); conf == language.Exact {
		return strings.ToLower(region.String())
	}
	base, conf := tags[0].Base()
	if conf == language.No || base.String() == "und" {
		return "us"
	}
	return strings.ToLower(base.String())
}
