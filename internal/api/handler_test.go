package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartbanner/internal/catalog"
	"smartbanner/internal/options"
	"smartbanner/internal/storage"
	"smartbanner/internal/suppression"
)

const (
	uaAndroid = "Mozilla/5.0 (Linux; Android 10; SM-G960F) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/90.0 Mobile Safari/537.36"
	uaIOS7    = "Mozilla/5.0 (iPhone; CPU iPhone OS 7_0 like Mac OS X) AppleWebKit/537.51.1 (KHTML, like Gecko) Version/7.0 Mobile/11A465 Safari/9537.53"
	uaDesktop = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cat := catalog.New()
	cat.Replace([]storage.MetaRow{
		{Site: "example.com", Kind: storage.KindMeta, Name: "google-play-app", Value: "app-id=com.example.app,other=1"},
		{Site: "example.com", Kind: storage.KindLink, Name: "apple-touch-icon", Value: "/icon.png"},
	})
	promo := "promo"
	button := "VIEW"
	h := NewBannerHandler(cat, CookieStores{}, []options.Overrides{
		{Extra: map[string]any{"title": "Example"}},
		{InstanceID: &promo, Button: &button},
	})
	return Router(h, []string{"*"})
}

func get(t *testing.T, srv http.Handler, url, ua string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func post(t *testing.T, srv http.Handler, url, ua string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, url, nil)
	req.Header.Set("User-Agent", ua)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func TestBanner_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		ua         string
		cookies    []*http.Cookie
		wantStatus int
		wantReason string
	}{
		{"android renders", "/v1/banner?site=example.com", uaAndroid, nil, http.StatusOK, "eligible"},
		{"desktop", "/v1/banner?site=example.com", uaDesktop, nil, http.StatusNoContent, "unresolved_platform"},
		{"ios 7 safari", "/v1/banner?site=example.com", uaIOS7, nil, http.StatusNoContent, "native_support"},
		{"unknown site", "/v1/banner?site=other.org", uaAndroid, nil, http.StatusNoContent, "unresolved_identifier"},
		{"installed cookie", "/v1/banner?site=example.com&instance=promo", uaAndroid,
			[]*http.Cookie{{Name: suppression.InstalledKey, Value: "true"}}, http.StatusNoContent, "suppressed_installed"},
		{"closed other instance", "/v1/banner?site=example.com&instance=promo", uaAndroid,
			[]*http.Cookie{{Name: suppression.ClosedKey("0"), Value: "true"}}, http.StatusOK, "eligible"},
		{"unknown instance", "/v1/banner?site=example.com&instance=nope", uaAndroid, nil, http.StatusNotFound, ""},
	}

	srv := newTestRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, srv, tt.url, tt.ua, tt.cookies...)
			require.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantReason, w.Header().Get("X-Banner-Reason"))
		})
	}
}

func TestBanner_Body(t *testing.T) {
	w := get(t, newTestRouter(t), "/v1/banner?site=example.com", uaAndroid)
	require.Equal(t, http.StatusOK, w.Code)

	var body BannerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "0", body.Instance)
	assert.Equal(t, "android", body.Platform)
	assert.Equal(t, "smartbanner-android", body.ClassName)
	assert.Equal(t, "http://play.google.com/store/apps/details?id=com.example.app", body.Link)
	assert.Equal(t, "FREE - In Google Play", body.InStore)
	assert.Equal(t, "/icon.png", body.Icon)
	assert.Equal(t, "OPEN", body.Button)
	assert.Contains(t, body.HTML, "Example")
}

func TestBanner_Standalone(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/banner?site=example.com", nil)
	req.Header.Set("User-Agent", uaAndroid)
	req.Header.Set("X-Standalone", "true")
	w := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "standalone", w.Header().Get("X-Banner-Reason"))
}

func TestClose_SetsCookieAndSuppresses(t *testing.T) {
	srv := newTestRouter(t)

	w := post(t, srv, "/v1/banner/0/close?site=example.com", uaAndroid)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "dismissed", w.Header().Get("X-Banner-State"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "smartbanner-closed-0", cookies[0].Name)
	assert.Equal(t, "/", cookies[0].Path)
	assert.Equal(t, 15*24*3600, cookies[0].MaxAge)

	w = get(t, srv, "/v1/banner?site=example.com", uaAndroid, cookies[0])
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "suppressed_closed", w.Header().Get("X-Banner-Reason"))

	w = get(t, srv, "/v1/banner?site=example.com&instance=promo", uaAndroid, cookies[0])
	assert.Equal(t, http.StatusOK, w.Code)

	w = post(t, srv, "/v1/banner/0/close?site=example.com", uaAndroid, cookies[0])
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Result().Cookies(), "second close writes nothing")
}

func TestInstall_SetsGlobalCookie(t *testing.T) {
	w := post(t, newTestRouter(t), "/v1/banner/promo/install?site=example.com", uaAndroid)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "installed", w.Header().Get("X-Banner-State"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "smartbanner-installed", cookies[0].Name)
	assert.Equal(t, 90*24*3600, cookies[0].MaxAge)
}

func TestActions_UnknownInstance(t *testing.T) {
	w := post(t, newTestRouter(t), "/v1/banner/nope/close", uaAndroid)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVisitorID(t *testing.T) {
	w := httptest.NewRecorder()
	id := visitorID(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, id)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, id, cookies[0].Value)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	assert.Equal(t, id, visitorID(w, r))
	assert.Empty(t, w.Result().Cookies())
}

func TestHealthz(t *testing.T) {
	w := get(t, newTestRouter(t), "/healthz", uaDesktop)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
