package integrations

import (
	"time"

	"github.com/nightjol/nightjol/pkg/domain"
)

// SeedEvents is the hardcoded fallback collection served when every
// source comes back empty. The feed never shows a hard error state for
// data-fetch problems; worst case is this list.
func SeedEvents() []domain.Event {
	return []domain.Event{
		{
			ID:          "seed-1",
			Name:        "Summer Music Festival",
			Description: "Join us for an amazing outdoor music festival featuring top artists from around the world. Great food, drinks, and vibes!",
			Location:    "Central Park, New York",
			Price:       75,
			DateTime:    time.Date(2025, 7, 15, 18, 0, 0, 0, time.UTC),
			ImageURL:    "https://images.unsplash.com/photo-1459749411175-04bf5292ceea?w=800&h=600&fit=crop",
			Category:    "festival",
		},
		{
			ID:          "seed-2",
			Name:        "Tech Conference 2025",
			Description: "The biggest tech conference of the year. Learn from industry leaders and network with professionals.",
			Location:    "San Francisco Convention Center",
			Price:       299,
			DateTime:    time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC),
			ImageURL:    "https://images.unsplash.com/photo-1540575467063-178a50c2df87?w=800&h=600&fit=crop",
			Category:    "event",
		},
		{
			ID:          "seed-3",
			Name:        "Food & Wine Festival",
			Description: "Experience the finest cuisine and wines from local and international chefs and vineyards.",
			Location:    "Miami Beach, Florida",
			Price:       125,
			DateTime:    time.Date(2025, 9, 10, 17, 0, 0, 0, time.UTC),
			ImageURL:    "https://images.unsplash.com/photo-1414235077428-338989a2e8c0?w=800&h=600&fit=crop",
			Category:    "festival",
		},
		{
			ID:          "seed-4",
			Name:        "Art Gallery Opening",
			Description: "Exclusive opening night of contemporary art exhibition featuring emerging artists.",
			Location:    "Downtown Gallery, Los Angeles",
			Price:       50,
			DateTime:    time.Date(2025, 6, 25, 19, 0, 0, 0, time.UTC),
			ImageURL:    "https://images.unsplash.com/photo-1531058020387-3be344556be6?w=800&h=600&fit=crop",
			Category:    "event",
		},
		{
			ID:          "seed-5",
			Name:        "Marathon & Charity Run",
			Description: "Participate in our annual charity marathon. All proceeds go to local children's hospitals.",
			Location:    "Chicago Lakefront",
			Price:       45,
			DateTime:    time.Date(2025, 10, 5, 7, 0, 0, 0, time.UTC),
			ImageURL:    "https://images.unsplash.com/photo-1452626038306-9aae5e071dd3?w=800&h=600&fit=crop",
			Category:    "sports",
		},
		{
			ID:          "seed-6",
			Name:        "Comedy Night Live",
			Description: "An evening of laughter with stand-up comedians performing live on stage.",
			Location:    "The Comedy Store, Hollywood",
			Price:       35,
			DateTime:    time.Date(2025, 7, 30, 20, 0, 0, 0, time.UTC),
			ImageURL:    "https://images.unsplash.com/photo-1585699324551-f6c309eedeca?w=800&h=600&fit=crop",
			Category:    "comedy",
		},
	}
}
