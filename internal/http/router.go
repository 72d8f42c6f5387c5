package httpx

import (
	"context"
	"errors"
	"html/template"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/inkwell/inkwell/internal/config"
	"github.com/inkwell/inkwell/internal/service/auth"
	"github.com/inkwell/inkwell/internal/service/post"
)

// Router wires HTTP endpoints to services.
type Router struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	auth        auth.Service
	posts       post.Service
	templates   map[string]*template.Template
	limiter     RateLimiter
	sessionTTL  time.Duration
	signupLimit int
	loginLimit  int
	rateWindow  time.Duration
	dbHealth    func(context.Context) error
	cacheHealth func(context.Context) error

	metricsOnce        sync.Once
	metricsInitialized bool
	requestTotal       *prometheus.CounterVec
	requestLatency     *prometheus.HistogramVec
	rateLimitHits      *prometheus.CounterVec
}

const healthCheckTimeout = 2 * time.Second

// NewRouter assembles routes with dependencies.
func NewRouter(logger *slog.Logger, authSvc auth.Service, postSvc post.Service, limiter RateLimiter, cfg config.Config, dbHealth, cacheHealth func(context.Context) error) *Router {
	r := &Router{
		mux:         http.NewServeMux(),
		logger:      logger,
		auth:        authSvc,
		posts:       postSvc,
		templates:   parseTemplates(),
		limiter:     limiter,
		sessionTTL:  cfg.SessionTTL,
		signupLimit: cfg.RateLimitSignup,
		loginLimit:  cfg.RateLimitLogin,
		rateWindow:  cfg.RateLimitWindow,
		dbHealth:    dbHealth,
		cacheHealth: cacheHealth,
	}
	if r.limiter == nil {
		r.limiter = NewMemoryRateLimiter()
	}
	r.initMetrics()
	r.register()
	return r
}

// ServeHTTP delegates to underlying mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Close releases background resources.
func (r *Router) Close() {
	if r.limiter != nil {
		r.limiter.Close()
	}
}

func (r *Router) register() {
	r.mux.HandleFunc("/", r.audit("home", r.handleHome))
	r.mux.HandleFunc("/signup", r.audit("signup", r.handleSignup))
	r.mux.HandleFunc("/login", r.audit("login", r.handleLogin))
	r.mux.HandleFunc("/logout", r.audit("logout", r.handleLogout))
	r.mux.HandleFunc("/post/new", r.audit("post_new", r.handlePostNew))
	r.mux.HandleFunc("/post/", r.audit("post", r.handlePostSubroutes))
	r.mux.HandleFunc("/healthz", r.audit("healthz", r.handleHealthz))
	r.mux.Handle("/metrics", promhttp.Handler())
}

func (r *Router) handleHome(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path != "/" {
		r.notFound(w)
		return
	}
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	posts, err := r.posts.List(req.Context())
	if err != nil {
		r.serverError(w, req, err)
		return
	}
	username, _ := r.currentUsername(req)
	r.render(w, http.StatusOK, "home", &pageData{
		Title:    "Home",
		Username: username,
		Posts:    posts,
	})
}

func (r *Router) handleSignup(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		r.render(w, http.StatusOK, "signup", &pageData{Title: "Sign up"})
	case http.MethodPost:
		r.withRateLimit("signup", r.signupLimit, r.rateWindow, r.handleSignupSubmit)(w, req)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleSignupSubmit(w http.ResponseWriter, req *http.Request) {
	username, password, err := parseCredentials(req)
	if err != nil {
		r.render(w, http.StatusBadRequest, "signup", &pageData{
			Title:     "Sign up",
			FormError: err.Error(),
			FormData:  map[string]string{"username": username},
		})
		return
	}
	if err := r.auth.Register(req.Context(), username, password); err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			r.render(w, http.StatusBadRequest, "signup", &pageData{
				Title:     "Sign up",
				FormError: err.Error(),
				FormData:  map[string]string{"username": username},
			})
			return
		}
		r.serverError(w, req, err)
		return
	}
	http.Redirect(w, req, "/login", http.StatusSeeOther)
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		r.render(w, http.StatusOK, "login", &pageData{Title: "Log in"})
	case http.MethodPost:
		r.withRateLimit("login", r.loginLimit, r.rateWindow, r.handleLoginSubmit)(w, req)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleLoginSubmit(w http.ResponseWriter, req *http.Request) {
	username, password, err := parseCredentials(req)
	if err != nil {
		r.render(w, http.StatusBadRequest, "login", &pageData{
			Title:     "Log in",
			FormError: err.Error(),
			FormData:  map[string]string{"username": username},
		})
		return
	}
	token, err := r.auth.Login(req.Context(), username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			r.render(w, http.StatusUnauthorized, "login", &pageData{
				Title:     "Log in",
				FormError: err.Error(),
				FormData:  map[string]string{"username": username},
			})
			return
		}
		r.serverError(w, req, err)
		return
	}
	r.setSessionCookie(w, token)
	http.Redirect(w, req, "/", http.StatusSeeOther)
}

func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	if token := sessionToken(req); token != "" {
		if err := r.auth.Logout(req.Context(), token); err != nil {
			r.logger.Error("logout failed", "error", err)
		}
	}
	r.clearSessionCookie(w)
	http.Redirect(w, req, "/", http.StatusSeeOther)
}

func (r *Router) handlePostNew(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		r.requirePage(r.handleNewPostForm)(w, req)
	case http.MethodPost:
		r.requireAction(r.handleCreatePost)(w, req)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleNewPostForm(w http.ResponseWriter, req *http.Request) {
	username, _ := usernameFromContext(req.Context())
	r.render(w, http.StatusOK, "new_post", &pageData{
		Title:    "New post",
		Username: username,
	})
}

func (r *Router) handleCreatePost(w http.ResponseWriter, req *http.Request) {
	username, ok := usernameFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for post creation", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	title, content, err := parsePostForm(req)
	if err != nil {
		r.render(w, http.StatusBadRequest, "new_post", &pageData{
			Title:     "New post",
			Username:  username,
			FormError: err.Error(),
			FormData:  map[string]string{"title": title, "content": content},
		})
		return
	}
	if _, err := r.posts.Create(req.Context(), username, title, content); err != nil {
		r.serverError(w, req, err)
		return
	}
	http.Redirect(w, req, "/", http.StatusSeeOther)
}

// handlePostSubroutes dispatches /post/{id} and /post/{id}/delete.
func (r *Router) handlePostSubroutes(w http.ResponseWriter, req *http.Request) {
	trimmed := strings.TrimPrefix(req.URL.Path, "/post/")
	parts := strings.Split(trimmed, "/")
	postID := parts[0]
	if postID == "" {
		r.notFound(w)
		return
	}
	switch {
	case len(parts) == 1:
		if req.Method != http.MethodGet {
			r.methodNotAllowed(w)
			return
		}
		r.handlePostView(w, req, postID)
	case len(parts) == 2 && parts[1] == "delete":
		if req.Method != http.MethodPost {
			r.methodNotAllowed(w)
			return
		}
		r.requireAction(func(w http.ResponseWriter, req *http.Request) {
			r.handleDeletePost(w, req, postID)
		})(w, req)
	default:
		r.notFound(w)
	}
}

func (r *Router) handlePostView(w http.ResponseWriter, req *http.Request, postID string) {
	p, err := r.posts.Get(req.Context(), postID)
	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			r.notFound(w)
			return
		}
		r.serverError(w, req, err)
		return
	}
	username, _ := r.currentUsername(req)
	r.render(w, http.StatusOK, "post", &pageData{
		Title:    p.Title,
		Username: username,
		Post:     p,
	})
}

func (r *Router) handleDeletePost(w http.ResponseWriter, req *http.Request, postID string) {
	if err := r.posts.Delete(req.Context(), postID); err != nil {
		if errors.Is(err, post.ErrNotFound) {
			r.notFound(w)
			return
		}
		r.serverError(w, req, err)
		return
	}
	http.Redirect(w, req, "/", http.StatusSeeOther)
}

func (r *Router) handleHealthz(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	components := make(map[string]any)
	status := "ok"
	check := func(name string, fn func(context.Context) error) {
		if fn == nil {
			return
		}
		ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			status = "degraded"
			components[name] = map[string]any{
				"status": "down",
				"error":  err.Error(),
			}
		} else {
			components[name] = map[string]any{"status": "up"}
		}
	}
	check("database", r.dbHealth)
	check("sessions", r.cacheHealth)
	payload := map[string]any{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
	}
	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, payload)
}

func (r *Router) audit(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next(recorder, req)

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		ctx := recorder.ctx
		if ctx == nil {
			ctx = req.Context()
		}
		duration := time.Since(start)
		r.recordRequestMetrics(req.Method, route, status, duration)

		actor := "anonymous"
		fields := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"bytes", recorder.bytes,
			"duration_ms", duration.Milliseconds(),
		}
		if ip := clientIP(req); ip != "" {
			fields = append(fields, "ip", ip)
		}
		if reqID := strings.TrimSpace(req.Header.Get("X-Request-ID")); reqID != "" {
			fields = append(fields, "request_id", reqID)
		}
		if username, ok := usernameFromContext(ctx); ok {
			actor = "user"
			fields = append(fields, "username", username)
		}
		fields = append(fields, "actor", actor)

		switch {
		case status >= http.StatusInternalServerError:
			r.logger.Error("http_request", fields...)
		case status >= http.StatusBadRequest:
			r.logger.Warn("http_request", fields...)
		default:
			r.logger.Info("http_request", fields...)
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	ctx    context.Context
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

func (sr *statusRecorder) SetContext(ctx context.Context) {
	sr.ctx = ctx
}

func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func clientIP(req *http.Request) string {
	if forwarded := strings.TrimSpace(req.Header.Get("X-Forwarded-For")); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(req.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(req.RemoteAddr)
	}
	return host
}

func (r *Router) serverError(w http.ResponseWriter, req *http.Request, err error) {
	r.logger.Error("handler failed", "path", req.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func (r *Router) methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (r *Router) notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "not found")
}
