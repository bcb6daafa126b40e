package integrations

import (
	"fmt"
	"time"

	"github.com/nightjol/nightjol/pkg/domain"
)

// Placeholder images per source family, substituted when a provider
// returns no usable image.
const (
	placeholderEventImage     = "https://images.unsplash.com/photo-1492684223066-81342ee5ff30?w=800&h=600&fit=crop"
	placeholderNightlifeImage = "https://images.unsplash.com/photo-1514525253161-7a46d19cd819?w=800&h=600&fit=crop"
	placeholderCommunityImage = "https://images.unsplash.com/photo-1470229722913-7c0e2dbbafd3?w=800&h=600&fit=crop"
)

const fallbackLocation = "Location TBA"

func fallbackDescription(name string) string {
	return fmt.Sprintf("Experience %s! Get your tickets now for an unforgettable event.", name)
}

// fallbackFutureDate stands in when a provider gives no parseable date:
// one week out, so the listing still reads as upcoming.
func fallbackFutureDate(now time.Time) time.Time {
	return now.Add(7 * 24 * time.Hour)
}

// tomorrowEvening is the synthetic dateTime for open venues, which have
// opening hours rather than a start date.
func tomorrowEvening(now time.Time) time.Time {
	t := now.AddDate(0, 0, 1)
	return time.Date(t.Year(), t.Month(), t.Day(), 21, 0, 0, 0, t.Location())
}

// nextSaturdayEvening lands on the upcoming Saturday at 21:00, matching
// when nightlife venues actually draw a crowd.
func nextSaturdayEvening(now time.Time) time.Time {
	days := (6 - int(now.Weekday())) % 7
	t := now.AddDate(0, 0, days)
	return time.Date(t.Year(), t.Month(), t.Day(), 21, 0, 0, 0, t.Location())
}

// dedupeByName keeps the first occurrence of each exact name, in input
// order. Adapters run this over their own result set before returning;
// the aggregator applies the same rule globally across sources.
func dedupeByName(events []domain.Event) []domain.Event {
	seen := make(map[string]bool)
	unique := make([]domain.Event, 0, len(events))
	for _, event := range events {
		if !seen[event.Name] {
			seen[event.Name] = true
			unique = append(unique, event)
		}
	}
	return unique
}

func dedupeByID(events []domain.Event) []domain.Event {
	seen := make(map[string]bool)
	unique := make([]domain.Event, 0, len(events))
	for _, event := range events {
		if !seen[event.ID] {
			seen[event.ID] = true
			unique = append(unique, event)
		}
	}
	return unique
}
