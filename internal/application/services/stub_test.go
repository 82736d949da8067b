package services_test

import (
	"context"
	"fmt"
	"sync"
)

// stubStore is a scriptable in-memory ListStore. Handlers may be nil, in
// which case the call succeeds and does nothing. Every call is recorded
// in order, so tests can assert sequencing across operations.
type stubStore struct {
	mu    sync.Mutex
	calls []string

	onList   func(list, filter string, out any) error
	onAdd    func(list string, fields any) error
	onUpdate func(list string, id int, fields any) error
	onDelete func(list string, id int) error

	added   []addCall
	updated []updateCall
}

type addCall struct {
	list   string
	fields map[string]any
}

type updateCall struct {
	list   string
	id     int
	fields map[string]any
}

func (s *stubStore) record(call string) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
}

func (s *stubStore) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubStore) ListItems(ctx context.Context, list, filter string, out any) error {
	s.record("list:" + list + ":" + filter)
	if s.onList != nil {
		return s.onList(list, filter, out)
	}
	return nil
}

func (s *stubStore) AddItem(ctx context.Context, list string, fields, out any) error {
	s.record("add:" + list)
	if m, ok := fields.(map[string]any); ok {
		s.mu.Lock()
		s.added = append(s.added, addCall{list: list, fields: m})
		s.mu.Unlock()
	}
	if s.onAdd != nil {
		return s.onAdd(list, fields)
	}
	return nil
}

func (s *stubStore) UpdateItem(ctx context.Context, list string, id int, fields any) error {
	s.record(fmt.Sprintf("update:%s:%d", list, id))
	if m, ok := fields.(map[string]any); ok {
		s.mu.Lock()
		s.updated = append(s.updated, updateCall{list: list, id: id, fields: m})
		s.mu.Unlock()
	}
	if s.onUpdate != nil {
		return s.onUpdate(list, id, fields)
	}
	return nil
}

func (s *stubStore) DeleteItem(ctx context.Context, list string, id int) error {
	s.record(fmt.Sprintf("delete:%s:%d", list, id))
	if s.onDelete != nil {
		return s.onDelete(list, id)
	}
	return nil
}
