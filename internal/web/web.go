// Package web serves the built site for preview, plus small JSON views of
// the computed schedule data.
package web

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"faithsite/internal/config"
	"faithsite/internal/content"
	"faithsite/internal/events"
	"faithsite/internal/lessons"
	appLog "faithsite/internal/log"
	"faithsite/internal/model"
)

// Server provides the preview HTTP endpoints: the rendered site from the
// output directory, /health, and /api/{events,lessons}.
type Server struct {
	cfg *config.Config
	mux *http.ServeMux

	// In-memory caches so repeated API hits do not redo data loading and
	// resolution on every request. Sub-second freshness is unnecessary.
	eventsMu     sync.RWMutex
	eventsCache  *apiCache[[]model.ResolvedEvent]
	lessonsMu    sync.RWMutex
	lessonsCache *apiCache[[]model.StructuredLesson]
}

type apiCache[T any] struct {
	value     T
	updatedAt time.Time
}

const apiCacheTTL = 30 * time.Second

// NewServer constructs a new Server.
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg: cfg,
		mux: http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler, wrapped with basic auth when
// configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// Serve starts the preview server bound to cfg.Listen and blocks.
func (s *Server) Serve() error {
	appLog.Info("starting preview server",
		"listen", "http://"+s.cfg.Listen, "output_dir", s.cfg.OutputDir)
	return http.ListenAndServe(s.cfg.Listen, s.Handler())
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// An empty username or password counts as disabled.
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// /health is always exposed unauthenticated.
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="faithsite", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/events", s.handleEvents)
	s.mux.HandleFunc("/api/lessons", s.handleLessons)

	// Everything else is the rendered static site.
	s.mux.Handle("/", http.FileServer(http.Dir(s.cfg.OutputDir)))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// eventsResponse is the JSON response shape for /api/events.
type eventsResponse struct {
	Events      []model.ResolvedEvent `json:"events"`
	ReferenceAt time.Time             `json:"reference_at"`
	Timezone    string                `json:"timezone"`
}

// handleEvents returns the upcoming events resolved against a clock sampled
// once at this request boundary.
//
// GET /api/events?limit=N (limit 0 or absent returns all)
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := parseIntDefault(r.URL.Query().Get("limit"), 0)
	if limit < 0 {
		limit = 0
	}

	now := time.Now().In(s.cfg.Location())

	s.eventsMu.RLock()
	ec := s.eventsCache
	s.eventsMu.RUnlock()

	var resolved []model.ResolvedEvent
	if ec != nil && now.Sub(ec.updatedAt) < apiCacheTTL {
		resolved = ec.value
	} else {
		resolved = events.Upcoming(content.LoadEvents(s.cfg.DataDir), now, 0)
		s.eventsMu.Lock()
		s.eventsCache = &apiCache[[]model.ResolvedEvent]{value: resolved, updatedAt: now}
		s.eventsMu.Unlock()
	}

	if limit > 0 && len(resolved) > limit {
		resolved = resolved[:limit]
	}

	writeJSON(w, http.StatusOK, eventsResponse{
		Events:      resolved,
		ReferenceAt: now,
		Timezone:    s.cfg.Location().String(),
	})
}

// lessonsResponse is the JSON response shape for /api/lessons.
type lessonsResponse struct {
	Lessons     []model.StructuredLesson `json:"lessons"`
	ReferenceAt time.Time                `json:"reference_at"`
}

// handleLessons returns this week's structured lessons, one per category.
func (s *Server) handleLessons(w http.ResponseWriter, r *http.Request) {
	now := time.Now().In(s.cfg.Location())

	s.lessonsMu.RLock()
	lc := s.lessonsCache
	s.lessonsMu.RUnlock()

	var structured []model.StructuredLesson
	if lc != nil && now.Sub(lc.updatedAt) < apiCacheTTL {
		structured = lc.value
	} else {
		structured = lessons.Structured(content.Categories(s.cfg), now)
		s.lessonsMu.Lock()
		s.lessonsCache = &apiCache[[]model.StructuredLesson]{value: structured, updatedAt: now}
		s.lessonsMu.Unlock()
	}

	writeJSON(w, http.StatusOK, lessonsResponse{
		Lessons:     structured,
		ReferenceAt: now,
	})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}
