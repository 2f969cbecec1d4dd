package httpserver

import (
	"net/http"
	"strings"
	"time"
)

const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"
	adminCookie   = "adminToken"
)

type cookieJar struct {
	maxAge time.Duration
	secure bool
}

func (c cookieJar) set(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(c.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c cookieJar) clear(w http.ResponseWriter, names ...string) {
	for _, name := range names {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   c.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// accessToken prefers the cookie and falls back to a bearer header.
func accessToken(r *http.Request) string {
	if token := cookieValue(r, accessCookie); token != "" {
		return token
	}
	raw := r.Header.Get("Authorization")
	if len(raw) > len("Bearer ") && strings.EqualFold(raw[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(raw[len("Bearer "):])
	}
	return ""
}
