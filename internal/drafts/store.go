// Package drafts persists in-progress pricing configs between console
// restarts. A draft never reaches the backend until it is saved explicitly.
package drafts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Simplici0/printdesk/internal/pricing"
)

var ErrNotFound = errors.New("draft not found")

// Draft is one user's unsaved pricing config for one agent service.
type Draft struct {
	UserID         string
	AgentServiceID string
	BranchID       string
	Config         pricing.Config
	UpdatedAt      time.Time
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, userID, serviceID string) (Draft, error) {
	d := Draft{UserID: userID, AgentServiceID: serviceID}
	var configJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT branch_id, config_json, updated_at
		FROM pricing_drafts
		WHERE user_id = ? AND agent_service_id = ?
	`, userID, serviceID).Scan(&d.BranchID, &configJSON, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		return Draft{}, fmt.Errorf("query pricing draft: %w", err)
	}

	if err := json.Unmarshal([]byte(configJSON), &d.Config); err != nil {
		return Draft{}, fmt.Errorf("decode pricing draft: %w", err)
	}
	return d, nil
}

// Put inserts or replaces the draft.
func (s *Store) Put(ctx context.Context, d Draft) error {
	configJSON, err := json.Marshal(d.Config)
	if err != nil {
		return fmt.Errorf("encode pricing draft: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO pricing_drafts (user_id, agent_service_id, branch_id, config_json)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, agent_service_id) DO UPDATE SET
			branch_id = excluded.branch_id,
			config_json = excluded.config_json,
			updated_at = CURRENT_TIMESTAMP
	`, d.UserID, d.AgentServiceID, d.BranchID, string(configJSON))
	if err != nil {
		return fmt.Errorf("upsert pricing draft: %w", err)
	}
	return nil
}

// Delete discards the draft; deleting a missing draft is not an error.
func (s *Store) Delete(ctx context.Context, userID, serviceID string) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM pricing_drafts WHERE user_id = ? AND agent_service_id = ?
	`, userID, serviceID); err != nil {
		return fmt.Errorf("delete pricing draft: %w", err)
	}
	return nil
}

// ListByUser returns a user's drafts, most recently edited first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]Draft, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT agent_service_id, branch_id, config_json, updated_at
		FROM pricing_drafts
		WHERE user_id = ?
		ORDER BY datetime(updated_at) DESC, agent_service_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query pricing drafts: %w", err)
	}
	defer rows.Close()

	out := make([]Draft, 0)
	for rows.Next() {
		d := Draft{UserID: userID}
		var configJSON string
		if err := rows.Scan(&d.AgentServiceID, &d.BranchID, &configJSON, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan pricing draft: %w", err)
		}
		if err := json.Unmarshal([]byte(configJSON), &d.Config); err != nil {
			return nil, fmt.Errorf("decode pricing draft %s: %w", d.AgentServiceID, err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pricing drafts: %w", err)
	}
	return out, nil
}
