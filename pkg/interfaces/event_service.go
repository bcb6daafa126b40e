package interfaces

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/nightjol/nightjol/pkg/domain"
	"github.com/nightjol/nightjol/pkg/feed"
	"github.com/nightjol/nightjol/pkg/integrations"
)

// EventProvider supplies the aggregated event collection. Implemented
// by integrations.EventAggregator.
type EventProvider interface {
	FetchAll(ctx context.Context) *integrations.AggregateResult
	Refresh()
}

// FeedRequest carries the filter, search and sort parameters for one
// feed query.
type FeedRequest struct {
	Query   string
	Filters domain.FilterOptions
	Sort    domain.SortOption
}

// FeedResponse is the wire shape of GET /api/events.
type FeedResponse struct {
	Events      []domain.Event `json:"events"`
	Total       int            `json:"total"`
	SourceStats map[string]int `json:"sourceStats,omitempty"`
	Seeded      bool           `json:"seeded"`
}

// EventService owns the canonical event collection: the aggregated
// multi-source events plus any manually added ones, with liked state
// reconciled per session before filtering.
type EventService struct {
	provider   EventProvider
	reconciler *feed.Reconciler

	mu      sync.Mutex
	manual  []domain.Event
	removed map[string]bool
}

func NewEventService(provider EventProvider, reconciler *feed.Reconciler) *EventService {
	return &EventService{
		provider:   provider,
		reconciler: reconciler,
		removed:    make(map[string]bool),
	}
}

// collection returns the full canonical collection for a session, liked
// state annotated, before any filtering.
func (s *EventService) collection(ctx context.Context, session string) ([]domain.Event, *integrations.AggregateResult) {
	result := s.provider.FetchAll(ctx)

	s.mu.Lock()
	events := make([]domain.Event, 0, len(result.Events)+len(s.manual))
	for _, e := range result.Events {
		if !s.removed[e.ID] {
			events = append(events, e)
		}
	}
	events = append(events, s.manual...)
	s.mu.Unlock()

	likedIDs := s.reconciler.EffectiveIDs(ctx, session)
	feed.Annotate(events, likedIDs)
	return events, result
}

// Feed returns the filtered, sorted, liked-annotated event feed for a
// session.
func (s *EventService) Feed(ctx context.Context, session string, req FeedRequest) *FeedResponse {
	events, result := s.collection(ctx, session)
	filtered := feed.Apply(events, req.Query, req.Filters, req.Sort)

	return &FeedResponse{
		Events:      filtered,
		Total:       len(filtered),
		SourceStats: result.SourceStats,
		Seeded:      result.Seeded,
	}
}

// Suggestions returns up to five autocomplete candidates for a partial
// search query.
func (s *EventService) Suggestions(ctx context.Context, session, query string) []string {
	events, _ := s.collection(ctx, session)
	return feed.Suggestions(events, query)
}

// ToggleLike flips the liked state of an event for a session and
// persists the change, rolling back on persistence failure. The
// returned bool is the settled liked value.
func (s *EventService) ToggleLike(ctx context.Context, session, eventID string) (bool, error) {
	events, _ := s.collection(ctx, session)

	for _, e := range events {
		if e.ID == eventID {
			return s.reconciler.Toggle(ctx, session, e)
		}
	}
	return false, fmt.Errorf("%w: %s", domain.ErrEventNotFound, eventID)
}

// CreateEvent validates and adds a manually entered event to the
// collection. The assigned ID is returned on the event.
func (s *EventService) CreateEvent(event domain.Event) (domain.Event, error) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	event.Liked = false

	if err := event.Validate(); err != nil {
		return domain.Event{}, err
	}

	s.mu.Lock()
	s.manual = append(s.manual, event)
	s.mu.Unlock()

	return event, nil
}

// RemoveEvent takes an event out of the canonical collection. Manual
// events are dropped; aggregated events are tombstoned so they do not
// reappear on the next fetch.
func (s *EventService) RemoveEvent(ctx context.Context, session, eventID string) error {
	events, _ := s.collection(ctx, session)

	found := false
	for _, e := range events {
		if e.ID == eventID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", domain.ErrEventNotFound, eventID)
	}

	s.mu.Lock()
	for i, e := range s.manual {
		if e.ID == eventID {
			s.manual = append(s.manual[:i], s.manual[i+1:]...)
			s.mu.Unlock()
			return nil
		}
	}
	s.removed[eventID] = true
	s.mu.Unlock()
	return nil
}

// Refresh drops the aggregation cache so the next feed request hits
// the live sources.
func (s *EventService) Refresh() {
	s.provider.Refresh()
}
