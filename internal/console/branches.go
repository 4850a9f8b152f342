package console

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/printdesk/internal/apiclient"
	"github.com/Simplici0/printdesk/internal/pricing"
	"github.com/Simplici0/printdesk/internal/querycache"
	"github.com/Simplici0/printdesk/internal/session"
)

// Cache kinds, each the second segment of a session-scoped key.
const (
	kindBranches = "branches"
	kindServices = "services"
	kindOrders   = "orders"
	kindStats    = "stats"
	kindCalendar = "calendar"
)

func (s *Server) listBranches(ctx context.Context, sess *session.Session) ([]apiclient.Branch, error) {
	return querycache.Fetch(ctx, s.cache, querycache.Key(sess.ID, kindBranches), listMaxAge, sess.Client.ListBranches)
}

func (s *Server) handleBranchesList(w http.ResponseWriter, r *http.Request) {
	list, err := s.listBranches(r.Context(), currentSession(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleBranchesCreate(w http.ResponseWriter, r *http.Request) {
	var b apiclient.Branch
	if err := decodeJSON(r, &b); err != nil {
		fail(w, r, err)
		return
	}
	if err := validate.Struct(b); err != nil {
		fail(w, r, err)
		return
	}

	created, err := currentSession(r).Client.CreateBranch(r.Context(), b)
	if err != nil {
		fail(w, r, err)
		return
	}
	s.invalidate(kindBranches)
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleBranchesUpdate(w http.ResponseWriter, r *http.Request) {
	var b apiclient.Branch
	if err := decodeJSON(r, &b); err != nil {
		fail(w, r, err)
		return
	}
	if err := validate.Struct(b); err != nil {
		fail(w, r, err)
		return
	}

	updated, err := currentSession(r).Client.UpdateBranch(r.Context(), chi.URLParam(r, "id"), b)
	if err != nil {
		fail(w, r, err)
		return
	}
	s.invalidate(kindBranches)
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleBranchesDelete(w http.ResponseWriter, r *http.Request) {
	if err := currentSession(r).Client.DeleteBranch(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, err)
		return
	}
	s.invalidate(kindBranches)
	w.WriteHeader(http.StatusNoContent)
}

// handleBranchesSelect moves the session to another branch. The branch must
// exist; the data cached for the old branch is dropped before the switch.
func (s *Server) handleBranchesSelect(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	id := chi.URLParam(r, "id")

	err := sess.Branch.Switch(r.Context(), id, func(ctx context.Context) error {
		list, err := s.listBranches(ctx, sess)
		if err != nil {
			return err
		}
		found := false
		for _, b := range list {
			if b.ID == id {
				found = true
				break
			}
		}
		if !found {
			return errBranchNotFound
		}
		for _, kind := range []string{kindServices, kindOrders, kindStats, kindCalendar} {
			s.cache.Invalidate(querycache.Key(sess.ID, kind))
		}
		return nil
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"branchId": id})
}

func (s *Server) handleServicesList(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	branchID := sess.Branch.Current()
	if branchID == "" {
		fail(w, r, errNoBranch)
		return
	}

	list, err := querycache.Fetch(r.Context(), s.cache, querycache.Key(sess.ID, kindServices, branchID), listMaxAge,
		func(ctx context.Context) ([]pricing.AgentService, error) {
			return sess.Client.ListAgentServices(ctx, branchID)
		})
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}
