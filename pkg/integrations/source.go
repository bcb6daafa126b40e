package integrations

import (
	"context"

	"github.com/nightjol/nightjol/pkg/domain"
)

// EventSource is the adapter contract. FetchEvents never fails: any
// provider problem (missing credential, network error, non-2xx,
// malformed payload) degrades to an empty slice inside the adapter.
// One broken source must never take down the whole aggregation.
type EventSource interface {
	FetchEvents(ctx context.Context) []domain.Event
	Name() string
}
