package httpx

import (
	"context"
	"net/http"
)

type authContextKey string

const contextKeyUsername authContextKey = "inkwell-username"

const sessionCookieName = "inkwell_session"

type contextSetter interface {
	SetContext(context.Context)
}

// sessionToken extracts the client-held token from the request cookie.
func sessionToken(req *http.Request) string {
	cookie, err := req.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// currentUsername resolves the session cookie to a signed-in username.
func (r *Router) currentUsername(req *http.Request) (string, bool) {
	token := sessionToken(req)
	if token == "" {
		return "", false
	}
	username, err := r.auth.CurrentUser(req.Context(), token)
	if err != nil {
		return "", false
	}
	return username, true
}

// requirePage gates a page view; visitors without a session are sent to the
// login form.
func (r *Router) requirePage(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		username, ok := r.currentUsername(req)
		if !ok {
			http.Redirect(w, req, "/login", http.StatusSeeOther)
			return
		}
		ctx := context.WithValue(req.Context(), contextKeyUsername, username)
		if setter, ok := w.(contextSetter); ok {
			setter.SetContext(ctx)
		}
		next(w, req.WithContext(ctx))
	}
}

// requireAction gates a submitting action; without a session the action is
// forbidden rather than redirected.
func (r *Router) requireAction(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		username, ok := r.currentUsername(req)
		if !ok {
			writeError(w, http.StatusForbidden, "not authenticated")
			return
		}
		ctx := context.WithValue(req.Context(), contextKeyUsername, username)
		if setter, ok := w.(contextSetter); ok {
			setter.SetContext(ctx)
		}
		next(w, req.WithContext(ctx))
	}
}

// usernameFromContext extracts the authenticated username from context.
func usernameFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(contextKeyUsername)
	if value == nil {
		return "", false
	}
	username, ok := value.(string)
	return username, ok
}

func (r *Router) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(r.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (r *Router) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
