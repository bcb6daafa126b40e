package integrations

import (
	"context"
	"sync"
	"time"

	"github.com/nightjol/nightjol/pkg/domain"
)

// EventAggregator fans out to every registered source in parallel and
// joins the results in registration order. Registration order is the
// priority order: when two sources list the same event, the earlier
// source's version survives deduplication.
type EventAggregator struct {
	sources      []EventSource
	deduplicator *Deduplicator
	cache        *aggregatorCache
	config       AggregatorConfig
}

type AggregatorConfig struct {
	RequestTimeout time.Duration
	CacheEnabled   bool
	CacheTTL       time.Duration
}

type AggregateResult struct {
	Events      []domain.Event `json:"events"`
	SourceStats map[string]int `json:"source_stats"`
	Seeded      bool           `json:"seeded"`
	SearchTime  time.Duration  `json:"search_time"`
}

func NewEventAggregator(config AggregatorConfig) *EventAggregator {
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 30 * time.Second
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = 30 * time.Minute
	}

	aggregator := &EventAggregator{
		deduplicator: NewDeduplicator(),
		config:       config,
	}

	if config.CacheEnabled {
		aggregator.cache = newAggregatorCache(config.CacheTTL)
	}

	return aggregator
}

// RegisterSource appends a source at the lowest remaining priority.
func (a *EventAggregator) RegisterSource(source EventSource) {
	a.sources = append(a.sources, source)
}

func (a *EventAggregator) Sources() []string {
	names := make([]string, 0, len(a.sources))
	for _, source := range a.sources {
		names = append(names, source.Name())
	}
	return names
}

// FetchAll runs every source concurrently, waits for all of them to
// settle, and concatenates in registration order regardless of which
// fetch finished first. A source that fails contributes an empty slice;
// if they ALL come back empty the fixed seed collection stands in, so
// the caller always has a feed to show.
func (a *EventAggregator) FetchAll(ctx context.Context) *AggregateResult {
	if a.cache != nil {
		if cached := a.cache.Get(); cached != nil {
			return cached
		}
	}

	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	// One slot per source keeps concatenation deterministic: slot order
	// is registration order, never completion order.
	results := make([][]domain.Event, len(a.sources))
	var wg sync.WaitGroup
	for i, source := range a.sources {
		wg.Add(1)
		go func(slot int, src EventSource) {
			defer wg.Done()
			events := src.FetchEvents(ctx)
			results[slot] = events

			status := "ok"
			if len(events) == 0 {
				status = "empty"
			}
			sourceFetchTotal.WithLabelValues(src.Name(), status).Inc()
			sourceEventCount.WithLabelValues(src.Name()).Set(float64(len(events)))
		}(i, source)
	}
	wg.Wait()

	allEvents := []domain.Event{}
	sourceStats := make(map[string]int)
	for i, source := range a.sources {
		sourceStats[source.Name()] = len(results[i])
		allEvents = append(allEvents, results[i]...)
	}

	allEvents = a.deduplicator.DeduplicateEvents(allEvents)

	seeded := false
	if len(allEvents) == 0 {
		allEvents = SeedEvents()
		seeded = true
	}

	result := &AggregateResult{
		Events:      allEvents,
		SourceStats: sourceStats,
		Seeded:      seeded,
		SearchTime:  time.Since(startTime),
	}

	aggregateDuration.Observe(result.SearchTime.Seconds())

	if a.cache != nil {
		a.cache.Set(result)
	}

	return result
}

// Deduplicator collapses duplicate listings across sources. Identity is
// the exact, case-sensitive event name: a deliberately coarse heuristic
// that merges cross-provider listings of the same show while accepting
// that distinct events sharing a title will also merge.
type Deduplicator struct{}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

// DeduplicateEvents keeps the first occurrence of each name, in input
// order.
func (d *Deduplicator) DeduplicateEvents(events []domain.Event) []domain.Event {
	seen := make(map[string]bool)
	unique := []domain.Event{}

	for _, event := range events {
		if !seen[event.Name] {
			seen[event.Name] = true
			unique = append(unique, event)
		}
	}

	return unique
}

type aggregatorCache struct {
	mutex     sync.RWMutex
	result    *AggregateResult
	expiresAt time.Time
	ttl       time.Duration
}

func newAggregatorCache(ttl time.Duration) *aggregatorCache {
	return &aggregatorCache{ttl: ttl}
}

func (c *aggregatorCache) Get() *AggregateResult {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.result == nil || time.Now().After(c.expiresAt) {
		return nil
	}
	return c.result
}

func (c *aggregatorCache) Set(result *AggregateResult) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.result = result
	c.expiresAt = time.Now().Add(c.ttl)
}

// Invalidate drops the cached result so the next FetchAll refetches.
func (c *aggregatorCache) Invalidate() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.result = nil
}

// Refresh forces the next FetchAll to hit the providers again.
func (a *EventAggregator) Refresh() {
	if a.cache != nil {
		a.cache.Invalidate()
	}
}
