package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	uaIOS7Safari    = "Mozilla/5.0 (iPhone; CPU iPhone OS 7_0 like Mac OS X) AppleWebKit/537.51.1 (KHTML, like Gecko) Version/7.0 Mobile/11A465 Safari/9537.53"
	uaIOS5Safari    = "Mozilla/5.0 (iPhone; CPU iPhone OS 5_1 like Mac OS X) AppleWebKit/534.46 (KHTML, like Gecko) Version/5.1 Mobile/9B176 Safari/7534.48.3"
	uaIOS12Chrome   = "Mozilla/5.0 (iPhone; CPU iPhone OS 12_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) CriOS/70.0.3538.75 Mobile/15E148 Safari/605.1"
	uaIPadWebView   = "Mozilla/5.0 (iPad; CPU OS 9_3_2 like Mac OS X) AppleWebKit/601.1.46 (KHTML, like Gecko) Mobile/13F69"
	uaAndroid       = "Mozilla/5.0 (Linux; Android 4.4.2; Nexus 5 Build/KOT49H) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/32.0.1700.99 Mobile Safari/537.36"
	uaWindowsPhone  = "Mozilla/5.0 (Mobile; Windows Phone 8.1; Android 4.0; ARM; Trident/7.0; Touch; rv:11.0; IEMobile/11.0; NOKIA; Lumia 635) like iPhone OS 7_0_3 Mac OS X AppleWebKit/537 (KHTML, like Gecko) Mobile Safari/537"
	uaWindowsPhone7 = "Mozilla/5.0 (compatible; MSIE 9.0; Windows Phone OS 7.5; Trident/5.0; IEMobile/9.0; NOKIA; Lumia 800)"
	uaDesktop       = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name       string
		ua         string
		wantVar    Variant
		wantMajor  int
		wantSafari bool
		wantNative bool
	}{
		{"ios 7 mobile safari", uaIOS7Safari, IOS, 7, true, true},
		{"ios 5 mobile safari", uaIOS5Safari, IOS, 5, true, false},
		{"ios chrome", uaIOS12Chrome, IOS, 12, false, false},
		{"ipad webview", uaIPadWebView, IOS, 9, false, false},
		{"android", uaAndroid, Android, 4, false, false},
		{"windows phone beats android and iphone tokens", uaWindowsPhone, Windows, 8, false, false},
		{"windows phone 7.5", uaWindowsPhone7, Windows, 7, false, false},
		{"desktop", uaDesktop, None, 0, false, false},
		{"empty", "", None, 0, false, false},
		{"garbage", "\x00\xff;;//", None, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Detect(tt.ua)
			assert.Equal(t, tt.wantVar, d.Variant)
			assert.Equal(t, tt.wantMajor, d.OSMajor)
			assert.Equal(t, tt.wantSafari, d.MobileSafari)
			assert.Equal(t, tt.wantNative, d.NativeSupport)
		})
	}
}

func TestParseVariant(t *testing.T) {
	assert.Equal(t, IOS, ParseVariant("iOS"))
	assert.Equal(t, Android, ParseVariant(" android "))
	assert.Equal(t, Windows, ParseVariant("windows"))
	assert.Equal(t, None, ParseVariant("blackberry"))
	assert.Equal(t, None, ParseVariant(""))
	assert.Equal(t, "none", None.String())
}

func TestProfileStoreLinks(t *testing.T) {
	p, ok := ProfileFor(IOS)
	assert.True(t, ok)
	assert.Equal(t, "https://itunes.apple.com/us/app/id123456", p.StoreLink("123456", "us"))
	assert.Equal(t, "apple-itunes-app", p.MetaName)

	p, _ = ProfileFor(Android)
	assert.Equal(t, "http://play.google.com/store/apps/details?id=com.example.app", p.StoreLink("com.example.app", "us"))
	assert.Equal(t, []string{"android-touch-icon", "apple-touch-icon-precomposed", "apple-touch-icon"}, p.IconRels)

	p, _ = ProfileFor(Windows)
	assert.True(t, p.RawMetaID)
	assert.Equal(t, "http://www.windowsphone.com/s?appid=abc-123", p.StoreLink("abc-123", "us"))

	_, ok = ProfileFor(None)
	assert.False(t, ok)
}

func BenchmarkDetect(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Detect(uaWindowsPhone)
	}
}
