package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"smartbanner/internal/suppression"
)

// VisitorCookie identifies a browser when flags live server side.
const VisitorCookie = "smartbanner-vid"

// StoreFactory yields the suppression store for one request.
type StoreFactory interface {
	For(w http.ResponseWriter, r *http.Request) suppression.Store
}

// CookieStores keeps flags in the visitor's cookies.
type CookieStores struct{}

func (CookieStores) For(w http.ResponseWriter, r *http.Request) suppression.Store {
	return suppression.NewCookieStore(w, r)
}

// RedisStores keeps flags in Redis under a visitor id cookie, issuing
// one when the browser has none.
type RedisStores struct {
	Client redis.Cmdable
}

func (s RedisStores) For(w http.ResponseWriter, r *http.Request) suppression.Store {
	return suppression.NewRedisStore(r.Context(), s.Client, visitorID(w, r))
}

func visitorID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(VisitorCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     VisitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(suppression.Days(365).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
