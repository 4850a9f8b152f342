package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var ErrSwitchInProgress = errors.New("branch switch already in progress")

// BranchSelection is the branch a session is currently working in.
type BranchSelection struct {
	mu        sync.RWMutex
	current   string
	switching atomic.Bool
}

func NewBranchSelection(initial string) *BranchSelection {
	return &BranchSelection{current: initial}
}

// Current returns the selected branch id, or "" when none is selected.
func (b *BranchSelection) Current() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current
}

// Switching reports whether a switch is running.
func (b *BranchSelection) Switching() bool {
	return b.switching.Load()
}

// Switch moves the selection to branchID once prepare succeeds. A second
// Switch while one is running is rejected, not queued; the running one is
// not cancelled.
func (b *BranchSelection) Switch(ctx context.Context, branchID string, prepare func(context.Context) error) error {
	if !b.switching.CompareAndSwap(false, true) {
		return ErrSwitchInProgress
	}
	defer b.switching.Store(false)

	if prepare != nil {
		if err := prepare(ctx); err != nil {
			return err
		}
	}

	b.mu.Lock()
	b.current = branchID
	b.mu.Unlock()
	return nil
}
