package common

import (
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const sessionCookie = "sid"

func cookieDomain(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.Host)
	if err != nil {
		host = r.Host
	}
	return strings.TrimPrefix(host, ".")
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, sessionId string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sessionId,
		Domain:   cookieDomain(r),
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		MaxAge:   60 * 60 * 24 * 30,
		Path:     "/",
	})
}

// HandleSessionCookie returns the session id of the request, issuing a new
// one when the cookie is missing or malformed. The bool reports a new
// session.
func HandleSessionCookie(w http.ResponseWriter, r *http.Request) (string, bool) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String(), false
		}
	}
	id := uuid.NewString()
	setSessionCookie(w, r, id)
	return id, true
}
