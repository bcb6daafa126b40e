package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nightjol/nightjol/pkg/domain"
	"github.com/nightjol/nightjol/pkg/logger"
)

const defaultLikedFetchTimeout = 2 * time.Second

// Reconciler merges the server-persisted liked set with a per-session
// local fallback set. The server is authoritative when it answers in
// time; when it doesn't, the last set it confirmed keeps the feed
// consistent. Toggles apply optimistically and snap back on
// persistence failure.
type Reconciler struct {
	store   domain.LikedEventRepository
	timeout time.Duration

	mu    sync.Mutex
	local map[string]map[string]bool
}

func NewReconciler(store domain.LikedEventRepository, timeout time.Duration) *Reconciler {
	if timeout <= 0 {
		timeout = defaultLikedFetchTimeout
	}
	return &Reconciler{
		store:   store,
		timeout: timeout,
		local:   make(map[string]map[string]bool),
	}
}

// Reconcile resolves the effective liked set from the two candidates.
// Pure: a non-nil server answer wins outright; otherwise the local
// fallback stands. The returned map is always a fresh copy.
func Reconcile(serverIDs []string, serverOK bool, localIDs map[string]bool) map[string]bool {
	effective := make(map[string]bool)
	if serverOK {
		for _, id := range serverIDs {
			effective[id] = true
		}
		return effective
	}
	for id, liked := range localIDs {
		if liked {
			effective[id] = true
		}
	}
	return effective
}

// EffectiveIDs races the persisted fetch against the bounded timeout.
// Whichever settles first wins; a late server answer is discarded with
// its context. On success the session's local set is replaced wholesale
// so later fallbacks reflect the last confirmed server state.
func (r *Reconciler) EffectiveIDs(ctx context.Context, sessionID string) map[string]bool {
	fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var serverIDs []string
	serverOK := false
	if records, err := r.store.List(fetchCtx, sessionID); err == nil {
		serverIDs = make([]string, 0, len(records))
		for _, record := range records {
			serverIDs = append(serverIDs, record.EventID)
		}
		serverOK = true
	} else {
		logger.Errorf("liked reconciler: list for session %s failed, using local fallback: %v", sessionID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	effective := Reconcile(serverIDs, serverOK, r.local[sessionID])
	if serverOK {
		synced := make(map[string]bool, len(effective))
		for id := range effective {
			synced[id] = true
		}
		r.local[sessionID] = synced
	}
	return effective
}

// Annotate stamps the liked flag onto each event from the resolved id
// set. Nothing else writes that field after an adapter creates the
// event.
func Annotate(events []domain.Event, likedIDs map[string]bool) {
	for i := range events {
		events[i].Liked = likedIDs[events[i].ID]
	}
}

// Toggle flips the liked state for one event: the local set changes
// first (the caller sees the flip immediately), then the store is
// updated. A store failure rolls the local set back to its pre-toggle
// value, so local state converges on the last known-persisted state.
// Returns the liked value that holds after settling.
func (r *Reconciler) Toggle(ctx context.Context, sessionID string, event domain.Event) (bool, error) {
	r.mu.Lock()
	ids := r.local[sessionID]
	if ids == nil {
		ids = make(map[string]bool)
		r.local[sessionID] = ids
	}
	wasLiked := ids[event.ID]
	nowLiked := !wasLiked
	if nowLiked {
		ids[event.ID] = true
	} else {
		delete(ids, event.ID)
	}
	r.mu.Unlock()

	var err error
	if nowLiked {
		_, err = r.store.Add(ctx, sessionID, event)
	} else {
		err = r.store.Remove(ctx, sessionID, event.ID)
	}

	if err != nil {
		r.mu.Lock()
		if wasLiked {
			ids[event.ID] = true
		} else {
			delete(ids, event.ID)
		}
		r.mu.Unlock()
		return wasLiked, fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}

	return nowLiked, nil
}

// IsLiked reports the session's current local liked state for an event.
func (r *Reconciler) IsLiked(sessionID, eventID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.local[sessionID][eventID]
}
