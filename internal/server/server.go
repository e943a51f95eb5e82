// Package server is the web host of the graph viewer.
//
// Every browser gets its own session, identified by a cookie, driven by its
// own parameter sync controller. All sessions share one engine.
//
// Routes:
//
//	GET  /             page with the k entry, problem label, graph and index table
//	GET  /graph.svg    last pulled graph drawn by the renderer (also .png, .dot, .json)
//	GET  /api/state    session mirror as JSON
//	GET  /api/index    index table rows as JSON
//	POST /k            propose k (form field "k")
//	POST /refresh      re-pull the index table
//	POST /redraw       re-pull the graph
//	GET  /metrics      Prometheus metrics, when configured
//	GET  /api/version  build information
//
// POST routes answer JSON when the request accepts application/json and
// redirect to / otherwise.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/afgraph/pkg/control"
	"github.com/matzehuels/afgraph/pkg/engine"
	"github.com/matzehuels/afgraph/pkg/errors"
	"github.com/matzehuels/afgraph/pkg/render"
	"github.com/matzehuels/afgraph/pkg/session"
)

// CookieName is the session cookie.
const CookieName = "afgraph_session"

// Config configures a Server.
type Config struct {
	Engine     engine.Engine
	Renderer   *render.Renderer // defaults to render.New()
	Metrics    http.Handler     // served at /metrics when set
	Logger     *log.Logger
	SessionTTL time.Duration // defaults to session.DefaultTTL
}

// Server serves the web UI.
type Server struct {
	eng      engine.Engine
	renderer *render.Renderer
	metrics  http.Handler
	logger   *log.Logger
	sessions *session.Registry
}

// New creates a server.
func New(cfg Config) *Server {
	s := &Server{
		eng:      cfg.Engine,
		renderer: cfg.Renderer,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
	if s.renderer == nil {
		s.renderer = render.New()
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	ttl := cfg.SessionTTL
	if ttl == 0 {
		ttl = session.DefaultTTL
	}
	s.sessions = session.NewRegistry(ttl)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)
		r.Get("/", s.handlePage)
		r.Get("/graph.{format}", s.handleGraph)
		r.Get("/api/state", s.handleState)
		r.Get("/api/index", s.handleIndex)
		r.Post("/k", s.handleProposeK)
		r.Post("/refresh", s.handleCommand(control.RequestTableRefresh{}))
		r.Post("/redraw", s.handleCommand(control.RequestGraphRedraw{}))
	})
	r.Get("/api/version", s.handleVersion)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

// Reload re-reads the engine's dataset, if it supports that, and pulls fresh
// graphs and tables into every session.
func (s *Server) Reload(ctx context.Context) error {
	if rl, ok := s.eng.(engine.Reloader); ok {
		if err := rl.Reload(ctx); err != nil {
			return err
		}
	}
	var firstErr error
	s.sessions.Range(func(_ *session.Session, v any) bool {
		ctrl := v.(*control.Controller)
		for _, cmd := range []control.Command{control.RequestGraphRedraw{}, control.RequestTableRefresh{}} {
			if _, err := ctrl.Dispatch(ctx, cmd); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return true
	})
	return firstErr
}

// Cleanup drops idle sessions until ctx is done.
func (s *Server) Cleanup(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.sessions.Cleanup(); n > 0 {
				s.logger.Debug("dropped idle sessions", "count", n)
			}
		}
	}
}

// =============================================================================
// Sessions
// =============================================================================

type ctxKey int

const controllerKey ctxKey = 0

func controllerFrom(ctx context.Context) *control.Controller {
	return ctx.Value(controllerKey).(*control.Controller)
}

// withSession attaches the caller's controller, opening a session on first
// contact.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(CookieName); err == nil {
			if _, v, err := s.sessions.Get(c.Value); err == nil {
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), controllerKey, v)))
				return
			}
		}

		sess := session.New(s.eng)
		ctrl := control.New(sess, control.WithLogger(s.logger.With("session", sess.ID[:8])))
		if err := ctrl.Start(r.Context()); err != nil {
			s.respondError(w, r, http.StatusBadGateway, err)
			return
		}
		s.sessions.Add(sess, ctrl)
		s.logger.Info("session opened", "id", sess.ID, "k", sess.K)

		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), controllerKey, ctrl)))
	})
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("encode response", "err", err)
	}
}

// respondError writes err as JSON. The status follows the error code;
// fallback is used for errors without one.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, fallback int, err error) {
	status := errors.HTTPStatus(err, fallback)
	s.logger.Error("request failed", "path", r.URL.Path, "status", status, "err", err)
	s.respondJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	})
}

// respondDone answers a POST: JSON for API clients, a redirect to the page
// for forms.
func (s *Server) respondDone(w http.ResponseWriter, r *http.Request, data any) {
	if wantsJSON(r) {
		s.respondJSON(w, http.StatusOK, data)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"took", time.Since(start).Round(time.Millisecond),
			"req", middleware.GetReqID(r.Context()))
	})
}
