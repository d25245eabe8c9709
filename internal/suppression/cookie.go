package suppression

import (
	"net/http"
	"time"
)

// CookieStore reads flags from the request cookies and writes them back
// as Set-Cookie headers with path "/". Expiry is enforced by the browser.
type CookieStore struct {
	r   *http.Request
	w   http.ResponseWriter
	now func() time.Time

	pending map[string]string
}

func NewCookieStore(w http.ResponseWriter, r *http.Request) *CookieStore {
	return &CookieStore{r: r, w: w, now: time.Now, pending: map[string]string{}}
}

// Get sees writes made earlier in the same request.
func (c *CookieStore) Get(name string) (string, bool) {
	if v, ok := c.pending[name]; ok {
		return v, true
	}
	ck, err := c.r.Cookie(name)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

func (c *CookieStore) Set(name, value string, ttl time.Duration) error {
	exp := c.now().Add(ttl)
	http.SetCookie(c.w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		MaxAge:   int(ttl / time.Second),
		SameSite: http.SameSiteLaxMode,
	})
	c.pending[name] = value
	return nil
}
