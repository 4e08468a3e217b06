package cart

import (
	"context"
	"sort"
	"sync"
)

type MemStore struct {
	mu    sync.RWMutex
	lines map[string]map[string]Line
}

func NewMemStore() *MemStore {
	return &MemStore{lines: make(map[string]map[string]Line)}
}

func NewStore() Store {
	return NewMemStore()
}

func (s *MemStore) Ping(context.Context) error { return nil }

func (s *MemStore) Add(_ context.Context, l Line) (Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.lines[l.UserID]
	if user == nil {
		user = make(map[string]Line)
		s.lines[l.UserID] = user
	}

	for id, cur := range user {
		if cur.Key != l.Key {
			continue
		}
		cur.Qty = min(cur.Qty+l.Qty, MaxQty)
		cur.BasePrice, cur.FinalPrice, cur.CustomizationCost = l.BasePrice, l.FinalPrice, l.CustomizationCost
		cur.DisplayName, cur.Specs = l.DisplayName, l.Specs
		user[id] = cur
		return cur, nil
	}

	user[l.ID] = l
	return l, nil
}

func (s *MemStore) List(_ context.Context, userID string) ([]Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Line, 0, len(s.lines[userID]))
	for _, l := range s.lines[userID] {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemStore) Remove(_ context.Context, userID, lineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lines[userID][lineID]; !ok {
		return ErrLineNotFound
	}
	delete(s.lines[userID], lineID)
	return nil
}
