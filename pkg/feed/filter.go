package feed

import (
	"sort"
	"strings"

	"github.com/nightjol/nightjol/pkg/domain"
	"github.com/nightjol/nightjol/pkg/geo"
)

// Apply runs the filter pipeline and sort over the canonical
// collection. It is pure: the input slice is never mutated and
// identical inputs produce identical output. Filter stages are
// independent predicates, so their order only matters for speed; the
// sort is applied last and is the only order-sensitive stage.
func Apply(events []domain.Event, query string, filters domain.FilterOptions, sortOption domain.SortOption) []domain.Event {
	result := make([]domain.Event, 0, len(events))

	query = strings.ToLower(strings.TrimSpace(query))
	categories := make(map[string]bool, len(filters.Categories))
	for _, category := range filters.Categories {
		categories[category] = true
	}

	for _, event := range events {
		if query != "" && !matchesQuery(event, query) {
			continue
		}
		if len(categories) > 0 && !categories[event.Category] {
			continue
		}
		if event.Price < filters.PriceRange.Min || event.Price > filters.PriceRange.Max {
			continue
		}
		if filters.DateRange.Start != nil && event.DateTime.Before(*filters.DateRange.Start) {
			continue
		}
		if filters.DateRange.End != nil && event.DateTime.After(*filters.DateRange.End) {
			continue
		}
		if filters.Popularity > 0 && event.Popularity < filters.Popularity {
			continue
		}
		if !withinRadius(event, filters) {
			continue
		}
		result = append(result, event)
	}

	sortEvents(result, sortOption, filters.UserLocation)
	return result
}

func matchesQuery(event domain.Event, query string) bool {
	return strings.Contains(strings.ToLower(event.Name), query) ||
		strings.Contains(strings.ToLower(event.Description), query) ||
		strings.Contains(strings.ToLower(event.Location), query) ||
		strings.Contains(strings.ToLower(event.Category), query)
}

// withinRadius passes events without coordinates: a listing that never
// told us where it is gets the benefit of the doubt rather than
// vanishing from a geo-filtered feed.
func withinRadius(event domain.Event, filters domain.FilterOptions) bool {
	if filters.UserLocation == nil || filters.LocationRadius <= 0 {
		return true
	}
	if event.Coordinates == nil {
		return true
	}
	return geo.Distance(*event.Coordinates, *filters.UserLocation) <= filters.LocationRadius
}

// sortEvents orders in place with a stable sort, so ties keep their
// input order and sorting twice is idempotent.
func sortEvents(events []domain.Event, sortOption domain.SortOption, userLocation *domain.Coordinates) {
	switch sortOption {
	case domain.SortDateAsc:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].DateTime.Before(events[j].DateTime)
		})
	case domain.SortDateDesc:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].DateTime.After(events[j].DateTime)
		})
	case domain.SortPriceAsc:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Price < events[j].Price
		})
	case domain.SortPriceDesc:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Price > events[j].Price
		})
	case domain.SortPopularity:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Popularity > events[j].Popularity
		})
	case domain.SortDistance:
		if userLocation == nil {
			return
		}
		sort.SliceStable(events, func(i, j int) bool {
			// No coordinates sorts as farthest.
			if events[i].Coordinates == nil {
				return false
			}
			if events[j].Coordinates == nil {
				return true
			}
			return geo.Distance(*events[i].Coordinates, *userLocation) <
				geo.Distance(*events[j].Coordinates, *userLocation)
		})
	}
}

const maxSuggestions = 5

// Suggestions derives up to five completion strings for the search box
// from the FULL collection, not the filtered result: a suggestion
// should widen the user's view, not echo the current narrowing.
func Suggestions(events []domain.Event, query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	seen := make(map[string]bool)
	suggestions := []string{}

	add := func(value string) {
		if len(suggestions) >= maxSuggestions {
			return
		}
		if value == "" || seen[value] {
			return
		}
		if !strings.Contains(strings.ToLower(value), query) {
			return
		}
		seen[value] = true
		suggestions = append(suggestions, value)
	}

	for _, event := range events {
		add(event.Name)
	}
	for _, event := range events {
		add(event.Category)
	}
	for _, event := range events {
		add(event.Location)
	}

	return suggestions
}
