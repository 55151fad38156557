package state

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type InMemoryStateManager struct {
	lock    sync.RWMutex
	matches map[string]*MatchState
}

func NewInMemoryStateManager() *InMemoryStateManager {
	return &InMemoryStateManager{
		matches: make(map[string]*MatchState),
	}
}

func (m *InMemoryStateManager) Get(ctx context.Context, matchID string) (*MatchState, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	s, ok := m.matches[matchID]
	if !ok {
		return nil, ErrNotFound
	}
	// boards are detached snapshots and shared read-only
	copy := *s
	return &copy, nil
}

func (m *InMemoryStateManager) List(ctx context.Context) ([]*MatchState, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	states := make([]*MatchState, 0, len(m.matches))
	for _, s := range m.matches {
		copy := *s
		states = append(states, &copy)
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].MatchID < states[j].MatchID
	})
	return states, nil
}

func (m *InMemoryStateManager) Set(ctx context.Context, state *MatchState) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if state == nil {
		return fmt.Errorf("match state is nil")
	}
	if state.MatchID == "" {
		return fmt.Errorf("match state has no match ID")
	}

	m.matches[state.MatchID] = state
	return nil
}

func (m *InMemoryStateManager) Delete(ctx context.Context, matchID string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.matches, matchID)
	return nil
}
