// Package console serves the JSON API behind the manager and clerk UI. It
// holds the signed-in sessions, their selected branch, pricing drafts and
// the query cache, and forwards everything else to the backend.
package console

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/Simplici0/printdesk/internal/apiclient"
	"github.com/Simplici0/printdesk/internal/drafts"
	"github.com/Simplici0/printdesk/internal/querycache"
	"github.com/Simplici0/printdesk/internal/session"
)

const listMaxAge = time.Minute

// PollIntervals sets how often each kind of dashboard data is refetched.
// The same values bound how long a cached read is served.
type PollIntervals struct {
	Dashboard time.Duration
	Orders    time.Duration
	Calendar  time.Duration
}

type Deps struct {
	Backend  *apiclient.Client
	Sessions *session.Manager
	Cache    *querycache.Cache
	Drafts   *drafts.Store
	Currency string
	Polls    PollIntervals
	// Polling starts a background refresh per session on login.
	Polling bool
}

type Server struct {
	backend  *apiclient.Client
	sessions *session.Manager
	cache    *querycache.Cache
	drafts   *drafts.Store
	currency string
	polls    PollIntervals
	polling  bool
	now      func() time.Time

	// ctx bounds every background poller.
	ctx     context.Context
	mu      sync.Mutex
	pollers map[string]context.CancelFunc
}

// New wires a console server. Pollers stop when ctx is done.
func New(ctx context.Context, d Deps) *Server {
	s := &Server{
		backend:  d.Backend,
		sessions: d.Sessions,
		cache:    d.Cache,
		drafts:   d.Drafts,
		currency: d.Currency,
		polls:    d.Polls,
		polling:  d.Polling,
		now:      time.Now,
		ctx:      ctx,
		pollers:  make(map[string]context.CancelFunc),
	}
	d.Sessions.OnEnd(s.sessionEnded)
	return s
}

// Routes returns the console HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Post("/logout", s.handleLogout)
		r.Get("/me", s.handleMe)

		r.Group(func(r chi.Router) {
			r.Use(requireRole(apiclient.RoleManager))

			r.Get("/branches", s.handleBranchesList)
			r.Post("/branches", s.handleBranchesCreate)
			r.Put("/branches/{id}", s.handleBranchesUpdate)
			r.Delete("/branches/{id}", s.handleBranchesDelete)
			r.Post("/branches/{id}/select", s.handleBranchesSelect)

			r.Get("/services", s.handleServicesList)
			r.Get("/pricing/drafts", s.handlePricingDrafts)
			r.Route("/services/{id}/pricing", func(r chi.Router) {
				r.Get("/", s.handlePricingGet)
				r.Delete("/", s.handlePricingDiscard)
				r.Post("/save", s.handlePricingSave)
				r.Post("/quote", s.handlePricingQuote)
				r.Post("/{list}", s.handlePricingAdd)
				r.Patch("/{list}/{index}", s.handlePricingUpdate)
				r.Delete("/{list}/{index}", s.handlePricingRemove)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(requireRole(apiclient.RoleManager, apiclient.RoleClerk))

			r.Get("/orders", s.handleOrdersList)
			r.Get("/orders/{id}/items", s.handleOrderItems)
			r.Post("/orders/{id}/complete", s.handleOrderComplete)

			r.Get("/dashboard/calendar", s.handleDashboardCalendar)
			r.Get("/dashboard/stats", s.handleDashboardStats)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

// sessionEnded drops everything the console holds for sess.
func (s *Server) sessionEnded(sess *session.Session) {
	s.stopPolling(sess.ID)
	n := s.cache.Invalidate(querycache.Key(sess.ID))
	log.Debug().Str("session", sess.ID).Int("keys", n).Msg("session cache dropped")
}

// invalidate drops the given kinds of cached data for every live session,
// so a mutation made by one user is visible to the others on their next read.
func (s *Server) invalidate(kinds ...string) {
	for _, sess := range s.sessions.Sessions() {
		for _, kind := range kinds {
			s.cache.Invalidate(querycache.Key(sess.ID, kind))
		}
	}
}

// requestLogger logs one line per request with the chi request id.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}
