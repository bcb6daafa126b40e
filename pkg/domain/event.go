package domain

import (
	"net/url"
	"strings"
	"time"
)

// Event is the canonical, provider-agnostic listing. Every adapter maps
// its provider's payload into this shape; downstream code never sees a
// provider-native record.
type Event struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Location    string       `json:"location"`
	Price       float64      `json:"price"`
	DateTime    time.Time    `json:"dateTime"`
	ImageURL    string       `json:"imageUrl"`
	Liked       bool         `json:"liked"`
	Category    string       `json:"category,omitempty"`
	Popularity  float64      `json:"popularity,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate checks the invariants every event must satisfy before it
// enters the canonical collection.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ValidationError{Field: "id", Message: "id is required"}
	}
	if strings.TrimSpace(e.Name) == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(e.Description) == "" {
		return ValidationError{Field: "description", Message: "description is required"}
	}
	if strings.TrimSpace(e.Location) == "" {
		return ValidationError{Field: "location", Message: "location is required"}
	}
	if e.Price < 0 {
		return ValidationError{Field: "price", Message: "price must not be negative"}
	}
	if e.DateTime.IsZero() {
		return ValidationError{Field: "dateTime", Message: "date and time is required"}
	}
	if u, err := url.Parse(e.ImageURL); err != nil || u.Scheme == "" || u.Host == "" {
		return ValidationError{Field: "imageUrl", Message: "must be a valid URL"}
	}
	return nil
}

// PriceRange bounds are inclusive on both ends.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DateRange bounds are inclusive; either side may be absent.
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// FilterOptions narrows the canonical collection. Zero values disable
// the corresponding stage except the price range, which always applies.
type FilterOptions struct {
	Categories     []string     `json:"categories"`
	PriceRange     PriceRange   `json:"priceRange"`
	DateRange      DateRange    `json:"dateRange"`
	Popularity     float64      `json:"popularity"`
	LocationRadius float64      `json:"locationRadius"`
	UserLocation   *Coordinates `json:"userLocation,omitempty"`
}

// DefaultFilters matches the UI's cleared state.
func DefaultFilters() FilterOptions {
	return FilterOptions{
		PriceRange:     PriceRange{Min: 0, Max: 10000},
		LocationRadius: 50,
	}
}

type SortOption string

const (
	SortDateAsc    SortOption = "date-asc"
	SortDateDesc   SortOption = "date-desc"
	SortPriceAsc   SortOption = "price-asc"
	SortPriceDesc  SortOption = "price-desc"
	SortPopularity SortOption = "popularity"
	SortDistance   SortOption = "distance"
)

// ParseSortOption validates a wire value, defaulting to date-asc.
func ParseSortOption(s string) (SortOption, error) {
	switch SortOption(s) {
	case SortDateAsc, SortDateDesc, SortPriceAsc, SortPriceDesc, SortPopularity, SortDistance:
		return SortOption(s), nil
	case "":
		return SortDateAsc, nil
	}
	return "", ValidationError{Field: "sort", Message: "unknown sort option: " + s}
}

// LikedEvent is one persisted like, scoped to a session.
type LikedEvent struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	EventID   string    `json:"eventId"`
	Event     Event     `json:"eventData"`
	LikedAt   time.Time `json:"likedAt"`
}
