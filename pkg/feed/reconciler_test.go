package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nightjol/nightjol/pkg/domain"
)

type fakeLikedStore struct {
	mu      sync.Mutex
	records map[string][]domain.LikedEvent

	listDelay  time.Duration
	failList   bool
	failAdd    bool
	failRemove bool

	addCalls    int
	removeCalls int
}

func newFakeLikedStore() *fakeLikedStore {
	return &fakeLikedStore{records: make(map[string][]domain.LikedEvent)}
}

func (s *fakeLikedStore) List(ctx context.Context, sessionID string) ([]domain.LikedEvent, error) {
	if s.listDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.listDelay):
		}
	}
	if s.failList {
		return nil, errors.New("store down")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.LikedEvent(nil), s.records[sessionID]...), nil
}

func (s *fakeLikedStore) Add(ctx context.Context, sessionID string, event domain.Event) (*domain.LikedEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addCalls++
	if s.failAdd {
		return nil, errors.New("store down")
	}
	record := domain.LikedEvent{
		ID:        event.ID + "-record",
		SessionID: sessionID,
		EventID:   event.ID,
		Event:     event,
		LikedAt:   time.Now(),
	}
	s.records[sessionID] = append(s.records[sessionID], record)
	return &record, nil
}

func (s *fakeLikedStore) Remove(ctx context.Context, sessionID, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeCalls++
	if s.failRemove {
		return errors.New("store down")
	}
	kept := s.records[sessionID][:0]
	for _, record := range s.records[sessionID] {
		if record.EventID != eventID {
			kept = append(kept, record)
		}
	}
	s.records[sessionID] = kept
	return nil
}

func TestReconcile(t *testing.T) {
	t.Run("server answer wins outright", func(t *testing.T) {
		local := map[string]bool{"a": true, "b": true}
		got := Reconcile([]string{"c"}, true, local)
		if !got["c"] || got["a"] || got["b"] {
			t.Errorf("expected server set {c}, got %v", got)
		}
	})

	t.Run("empty server answer clears likes", func(t *testing.T) {
		got := Reconcile(nil, true, map[string]bool{"a": true})
		if len(got) != 0 {
			t.Errorf("expected empty set, got %v", got)
		}
	})

	t.Run("local fallback without server", func(t *testing.T) {
		got := Reconcile(nil, false, map[string]bool{"a": true, "b": false})
		if !got["a"] || got["b"] {
			t.Errorf("expected {a}, got %v", got)
		}
	})
}

func TestEffectiveIDs(t *testing.T) {
	event := domain.Event{ID: "ev1", Name: "Jazz Night"}

	t.Run("server state replaces local", func(t *testing.T) {
		store := newFakeLikedStore()
		store.records["s1"] = []domain.LikedEvent{{EventID: "served"}}

		r := NewReconciler(store, time.Second)
		if _, err := r.Toggle(context.Background(), "s1", event); err != nil {
			t.Fatalf("toggle: %v", err)
		}

		got := r.EffectiveIDs(context.Background(), "s1")
		if !got["served"] {
			t.Errorf("expected server id present, got %v", got)
		}
		// After sync the local set mirrors the server, so the
		// pre-sync toggle of ev1 is forgotten unless the server
		// recorded it.
		if !got["ev1"] {
			t.Errorf("expected persisted toggle in server answer, got %v", got)
		}
	})

	t.Run("falls back to last confirmed set on store failure", func(t *testing.T) {
		store := newFakeLikedStore()
		store.records["s1"] = []domain.LikedEvent{{EventID: "confirmed"}}

		r := NewReconciler(store, time.Second)
		first := r.EffectiveIDs(context.Background(), "s1")
		if !first["confirmed"] {
			t.Fatalf("expected confirmed id, got %v", first)
		}

		store.failList = true
		second := r.EffectiveIDs(context.Background(), "s1")
		if !second["confirmed"] {
			t.Errorf("expected fallback to confirmed set, got %v", second)
		}
	})

	t.Run("slow store falls back within the timeout", func(t *testing.T) {
		store := newFakeLikedStore()
		store.listDelay = 500 * time.Millisecond
		store.records["s1"] = []domain.LikedEvent{{EventID: "slow"}}

		r := NewReconciler(store, 20*time.Millisecond)
		start := time.Now()
		got := r.EffectiveIDs(context.Background(), "s1")
		if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
			t.Errorf("fetch did not respect timeout, took %v", elapsed)
		}
		if len(got) != 0 {
			t.Errorf("expected empty fallback set, got %v", got)
		}
	})
}

func TestToggle(t *testing.T) {
	event := domain.Event{ID: "ev1", Name: "Jazz Night"}

	t.Run("persists and reports the new state", func(t *testing.T) {
		store := newFakeLikedStore()
		r := NewReconciler(store, time.Second)

		liked, err := r.Toggle(context.Background(), "s1", event)
		if err != nil {
			t.Fatalf("toggle: %v", err)
		}
		if !liked || !r.IsLiked("s1", "ev1") {
			t.Error("expected event liked after first toggle")
		}
		if store.addCalls != 1 {
			t.Errorf("expected one Add call, got %d", store.addCalls)
		}
	})

	t.Run("double toggle returns to the original state", func(t *testing.T) {
		store := newFakeLikedStore()
		r := NewReconciler(store, time.Second)

		if _, err := r.Toggle(context.Background(), "s1", event); err != nil {
			t.Fatalf("first toggle: %v", err)
		}
		liked, err := r.Toggle(context.Background(), "s1", event)
		if err != nil {
			t.Fatalf("second toggle: %v", err)
		}
		if liked || r.IsLiked("s1", "ev1") {
			t.Error("expected event unliked after double toggle")
		}
		if store.removeCalls != 1 {
			t.Errorf("expected one Remove call, got %d", store.removeCalls)
		}
		if records, _ := store.List(context.Background(), "s1"); len(records) != 0 {
			t.Errorf("expected empty store, got %d records", len(records))
		}
	})

	t.Run("rolls back on persistence failure", func(t *testing.T) {
		store := newFakeLikedStore()
		store.failAdd = true
		r := NewReconciler(store, time.Second)

		liked, err := r.Toggle(context.Background(), "s1", event)
		if !errors.Is(err, domain.ErrPersistenceFailure) {
			t.Fatalf("expected ErrPersistenceFailure, got %v", err)
		}
		if liked || r.IsLiked("s1", "ev1") {
			t.Error("expected liked state rolled back to false")
		}
	})

	t.Run("rollback restores a liked event on failed unlike", func(t *testing.T) {
		store := newFakeLikedStore()
		r := NewReconciler(store, time.Second)

		if _, err := r.Toggle(context.Background(), "s1", event); err != nil {
			t.Fatalf("setup toggle: %v", err)
		}

		store.failRemove = true
		liked, err := r.Toggle(context.Background(), "s1", event)
		if !errors.Is(err, domain.ErrPersistenceFailure) {
			t.Fatalf("expected ErrPersistenceFailure, got %v", err)
		}
		if !liked || !r.IsLiked("s1", "ev1") {
			t.Error("expected liked state rolled back to true")
		}
	})

	t.Run("sessions do not share liked state", func(t *testing.T) {
		store := newFakeLikedStore()
		r := NewReconciler(store, time.Second)

		if _, err := r.Toggle(context.Background(), "s1", event); err != nil {
			t.Fatalf("toggle: %v", err)
		}
		if r.IsLiked("s2", "ev1") {
			t.Error("session s2 sees s1's like")
		}
	})
}

func TestAnnotate(t *testing.T) {
	events := []domain.Event{{ID: "a"}, {ID: "b", Liked: true}, {ID: "c"}}
	Annotate(events, map[string]bool{"a": true})

	if !events[0].Liked {
		t.Error("expected a liked")
	}
	if events[1].Liked {
		t.Error("expected b reset to unliked")
	}
	if events[2].Liked {
		t.Error("expected c unliked")
	}
}
