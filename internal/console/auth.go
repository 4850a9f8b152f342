package console

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/Simplici0/printdesk/internal/apiclient"
	"github.com/Simplici0/printdesk/internal/session"
)

const (
	sessionCookieName = "printdesk_session"
	sessionHeader     = "X-Session-ID"
)

type ctxKey int

const sessionKey ctxKey = iota

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	SessionID string         `json:"sessionId"`
	User      apiclient.User `json:"user"`
	ExpiresAt *time.Time     `json:"expiresAt,omitempty"`
}

type meResponse struct {
	User      apiclient.User `json:"user"`
	BranchID  string         `json:"branchId"`
	Switching bool           `json:"switching"`
	ExpiresAt *time.Time     `json:"expiresAt,omitempty"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		fail(w, r, err)
		return
	}

	res, err := s.backend.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		fail(w, r, err)
		return
	}

	sess := s.sessions.Start(res)
	s.startPolling(sess)
	setSessionCookie(w, sess.ID)
	respondJSON(w, http.StatusOK, loginResponse{
		SessionID: sess.ID,
		User:      sess.User,
		ExpiresAt: optionalTime(sess.ExpiresAt),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.End(currentSession(r).ID)
	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	respondJSON(w, http.StatusOK, meResponse{
		User:      sess.User,
		BranchID:  sess.Branch.Current(),
		Switching: sess.Branch.Switching(),
		ExpiresAt: optionalTime(sess.ExpiresAt),
	})
}

// requireSession resolves the session from the X-Session-ID header or the
// session cookie and rejects the request when there is none.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Get(sessionID(r))
		if err != nil {
			clearSessionCookie(w)
			respondError(w, http.StatusUnauthorized, "not signed in")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	})
}

func requireRole(roles ...apiclient.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !slices.Contains(roles, currentSession(r).User.Role) {
				respondError(w, http.StatusForbidden, "not allowed for this role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// currentSession is only valid behind requireSession.
func currentSession(r *http.Request) *session.Session {
	return r.Context().Value(sessionKey).(*session.Session)
}

func sessionID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(sessionHeader)); id != "" {
		return id
	}
	if c, err := r.Cookie(sessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

func setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
