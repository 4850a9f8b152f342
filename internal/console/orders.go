package console

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/printdesk/internal/dashboard"
	"github.com/Simplici0/printdesk/internal/orders"
	"github.com/Simplici0/printdesk/internal/querycache"
	"github.com/Simplici0/printdesk/internal/session"
)

const dateLayout = "2006-01-02"

type statsView struct {
	dashboard.Summary
	ByDate []dashboard.DailyActivity `json:"byDate"`
}

type calendarView struct {
	From  string                `json:"from"`
	To    string                `json:"to"`
	Days  dashboard.Calendar    `json:"days"`
	Total dashboard.DayActivity `json:"total"`
}

func fetchOrders(sess *session.Session, branchID string) func(context.Context) ([]orders.Order, error) {
	return func(ctx context.Context) ([]orders.Order, error) {
		return sess.Client.ListOrders(ctx, branchID)
	}
}

func fetchStats(sess *session.Session, branchID string) func(context.Context) (statsView, error) {
	return func(ctx context.Context) (statsView, error) {
		list, err := sess.Client.ListOrders(ctx, branchID)
		if err != nil {
			return statsView{}, err
		}
		return statsView{
			Summary: dashboard.Summarize(list),
			ByDate:  dashboard.GroupOrdersByDate(list, time.Local),
		}, nil
	}
}

func fetchCalendar(sess *session.Session, branchID string, from, to time.Time) func(context.Context) (dashboard.Calendar, error) {
	return func(ctx context.Context) (dashboard.Calendar, error) {
		records, err := sess.Client.DailyActivity(ctx, branchID, from, to)
		if err != nil {
			return nil, err
		}
		return dashboard.BuildCalendar(records), nil
	}
}

func calendarKey(sess *session.Session, branchID string, from, to time.Time) string {
	return querycache.Key(sess.ID, kindCalendar, branchID, from.Format(dateLayout), to.Format(dateLayout))
}

// monthWindow returns the first and last day of the month containing t.
func monthWindow(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return first, first.AddDate(0, 1, -1)
}

// selectedBranch returns the session's branch or errNoBranch.
func selectedBranch(sess *session.Session) (string, error) {
	id := sess.Branch.Current()
	if id == "" {
		return "", errNoBranch
	}
	return id, nil
}

func (s *Server) handleOrdersList(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	branchID, err := selectedBranch(sess)
	if err != nil {
		fail(w, r, err)
		return
	}

	list, err := querycache.Fetch(r.Context(), s.cache, querycache.Key(sess.ID, kindOrders, branchID), s.polls.Orders, fetchOrders(sess, branchID))
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// handleOrderItems renders items from their frozen snapshot; prices are the
// backend's and are never recomputed here.
func (s *Server) handleOrderItems(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	branchID, err := selectedBranch(sess)
	if err != nil {
		fail(w, r, err)
		return
	}
	orderID := chi.URLParam(r, "id")

	key := querycache.Key(sess.ID, kindOrders, branchID, orderID, "items")
	items, err := querycache.Fetch(r.Context(), s.cache, key, s.polls.Orders, func(ctx context.Context) ([]orders.ClerkOrderItem, error) {
		return sess.Client.ListOrderItems(ctx, orderID)
	})
	if err != nil {
		fail(w, r, err)
		return
	}

	views := make([]orders.ItemView, 0, len(items))
	for _, it := range items {
		views = append(views, orders.Display(it, s.currency))
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleOrderComplete(w http.ResponseWriter, r *http.Request) {
	o, err := currentSession(r).Client.CompleteOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	s.invalidate(kindOrders, kindStats, kindCalendar)
	respondJSON(w, http.StatusOK, o)
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	branchID, err := selectedBranch(sess)
	if err != nil {
		fail(w, r, err)
		return
	}

	stats, err := querycache.Fetch(r.Context(), s.cache, querycache.Key(sess.ID, kindStats, branchID), s.polls.Dashboard, fetchStats(sess, branchID))
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// handleDashboardCalendar serves the activity calendar for [from, to]; both
// default to the current month.
func (s *Server) handleDashboardCalendar(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	branchID, err := selectedBranch(sess)
	if err != nil {
		fail(w, r, err)
		return
	}

	from, to := monthWindow(s.now())
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = time.Parse(dateLayout, raw); err != nil {
			fail(w, r, badRequest("invalid from date %q", raw))
			return
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if to, err = time.Parse(dateLayout, raw); err != nil {
			fail(w, r, badRequest("invalid to date %q", raw))
			return
		}
	}
	if to.Before(from) {
		fail(w, r, badRequest("to is before from"))
		return
	}

	cal, err := querycache.Fetch(r.Context(), s.cache, calendarKey(sess, branchID, from, to), s.polls.Calendar, fetchCalendar(sess, branchID, from, to))
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, calendarView{
		From:  from.Format(dateLayout),
		To:    to.Format(dateLayout),
		Days:  cal,
		Total: cal.Total(),
	})
}
