package platform

import "net/url"

// Profile holds everything that differs between platforms.
type Profile struct {
	// MetaName is the <meta name=...> carrying the app identifier.
	MetaName string
	// IconRels lists <link rel=...> values to try for the banner icon, in order.
	IconRels []string
	// RawMetaID means the meta content is the identifier itself rather
	// than an "app-id=<value>" token list.
	RawMetaID bool

	storeLink func(appID, lang string) string
}

// StoreLink builds the store URL for appID. lang is only used by iOS.
func (p Profile) StoreLink(appID, lang string) string {
	if p.storeLink == nil {
		return ""
	}
	return p.storeLink(appID, lang)
}

var appleIconRels = []string{"apple-touch-icon-precomposed", "apple-touch-icon"}

var profiles = map[Variant]Profile{
	IOS: {
		MetaName: "apple-itunes-app",
		IconRels: appleIconRels,
		storeLink: func(appID, lang string) string {
			return "https://itunes.apple.com/" + url.PathEscape(lang) + "/app/id" + url.PathEscape(appID)
		},
	},
	Android: {
		MetaName: "google-play-app",
		IconRels: append([]string{"android-touch-icon"}, appleIconRels...),
		storeLink: func(appID, _ string) string {
			return "http://play.google.com/store/apps/details?id=" + url.QueryEscape(appID)
		},
	},
	Windows: {
		MetaName:  "msApplication-ID",
		IconRels:  append([]string{"windows-touch-icon"}, appleIconRels...),
		RawMetaID: true,
		storeLink: func(appID, _ string) string {
			return "http://www.windowsphone.com/s?appid=" + url.QueryEscape(appID)
		},
	},
}

// ProfileFor returns the profile of v. ok is false for None.
func ProfileFor(v Variant) (Profile, bool) {
	p, ok := profiles[v]
	return p, ok
}
