package console

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Simplici0/printdesk/internal/poller"
	"github.com/Simplici0/printdesk/internal/querycache"
	"github.com/Simplici0/printdesk/internal/session"
)

// startPolling keeps the dashboard, order list and current-month calendar of
// sess warm in the cache until the session ends.
func (s *Server) startPolling(sess *session.Session) {
	if !s.polling {
		return
	}

	ctx, cancel := context.WithCancel(s.ctx)
	s.mu.Lock()
	s.pollers[sess.ID] = cancel
	s.mu.Unlock()

	sched := poller.New(
		poller.Job{Kind: kindStats, Interval: s.polls.Dashboard, Run: s.pollStats(sess)},
		poller.Job{Kind: kindOrders, Interval: s.polls.Orders, Run: s.pollOrders(sess)},
		poller.Job{Kind: kindCalendar, Interval: s.polls.Calendar, Run: s.pollCalendar(sess)},
	)
	go func() {
		defer cancel()
		if err := sched.Run(ctx); err != nil {
			log.Error().Err(err).Str("session", sess.ID).Msg("poller stopped")
		}
	}()

	// The session may have ended while the poller was being set up.
	if _, err := s.sessions.Get(sess.ID); err != nil {
		s.stopPolling(sess.ID)
	}
}

func (s *Server) stopPolling(id string) {
	s.mu.Lock()
	cancel, ok := s.pollers[id]
	delete(s.pollers, id)
	s.mu.Unlock()
	if ok {
		cancel()
	}
}

func (s *Server) pollStats(sess *session.Session) func(context.Context) error {
	return func(ctx context.Context) error {
		branchID := sess.Branch.Current()
		if branchID == "" {
			return nil
		}
		v, err := fetchStats(sess, branchID)(ctx)
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		s.cache.Set(querycache.Key(sess.ID, kindStats, branchID), v)
		return nil
	}
}

func (s *Server) pollOrders(sess *session.Session) func(context.Context) error {
	return func(ctx context.Context) error {
		branchID := sess.Branch.Current()
		if branchID == "" {
			return nil
		}
		v, err := fetchOrders(sess, branchID)(ctx)
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		s.cache.Set(querycache.Key(sess.ID, kindOrders, branchID), v)
		return nil
	}
}

func (s *Server) pollCalendar(sess *session.Session) func(context.Context) error {
	return func(ctx context.Context) error {
		branchID := sess.Branch.Current()
		if branchID == "" {
			return nil
		}
		from, to := monthWindow(s.now())
		v, err := fetchCalendar(sess, branchID, from, to)(ctx)
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		s.cache.Set(calendarKey(sess, branchID, from, to), v)
		return nil
	}
}
