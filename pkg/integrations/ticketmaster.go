package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nightjol/nightjol/pkg/domain"
	"github.com/nightjol/nightjol/pkg/logger"
)

// TicketmasterClient talks to the Discovery v2 API. South African
// listings come first; when they are thin the client tops up from the
// global catalogue so the feed never looks abandoned.
type TicketmasterClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	converter  *CurrencyConverter
	now        func() time.Time
}

type TicketmasterConfig struct {
	APIKey    string
	Converter *CurrencyConverter
}

func NewTicketmasterClient(config TicketmasterConfig) *TicketmasterClient {
	converter := config.Converter
	if converter == nil {
		converter = NewCurrencyConverter(DefaultUSDToZAR)
	}
	return &TicketmasterClient{
		baseURL: "https://app.ticketmaster.com/discovery/v2",
		apiKey:  config.APIKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		converter: converter,
		now:       time.Now,
	}
}

func (c *TicketmasterClient) Name() string {
	return "ticketmaster"
}

type ticketmasterResponse struct {
	Embedded *struct {
		Events []ticketmasterEvent `json:"events"`
	} `json:"_embedded"`
}

type ticketmasterEvent struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Info   string `json:"info"`
	Descr  string `json:"description"`
	URL    string `json:"url"`
	Images []struct {
		URL    string `json:"url"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	} `json:"images"`
	Dates struct {
		Start struct {
			LocalDate string `json:"localDate"`
			LocalTime string `json:"localTime"`
			DateTime  string `json:"dateTime"`
		} `json:"start"`
	} `json:"dates"`
	PriceRanges []struct {
		Min      float64 `json:"min"`
		Max      float64 `json:"max"`
		Currency string  `json:"currency"`
	} `json:"priceRanges"`
	Embedded *struct {
		Venues []ticketmasterVenue `json:"venues"`
	} `json:"_embedded"`
}

type ticketmasterVenue struct {
	Name string `json:"name"`
	City *struct {
		Name string `json:"name"`
	} `json:"city"`
	State *struct {
		Name string `json:"name"`
	} `json:"state"`
	Country *struct {
		Name string `json:"name"`
	} `json:"country"`
	Location *struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"location"`
}

// FetchEvents implements the EventSource contract: every failure mode
// resolves to an empty list.
func (c *TicketmasterClient) FetchEvents(ctx context.Context) []domain.Event {
	if c.apiKey == "" {
		logger.Println("ticketmaster: API key not configured, skipping")
		return nil
	}

	events, err := c.fetchSouthAfricanEvents(ctx)
	if err != nil {
		logger.Errorf("ticketmaster: fetch failed: %v", err)
		return nil
	}
	return events
}

type ticketmasterQuery struct {
	Keyword     string
	City        string
	CountryCode string
	Size        int
}

func (c *TicketmasterClient) searchEvents(ctx context.Context, query ticketmasterQuery) ([]domain.Event, error) {
	if query.Size <= 0 {
		query.Size = 20
	}

	searchURL := fmt.Sprintf("%s/events.json", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	q := url.Values{}
	q.Set("apikey", c.apiKey)
	q.Set("size", strconv.Itoa(query.Size))
	q.Set("sort", "date,asc")
	if query.Keyword != "" {
		q.Set("keyword", query.Keyword)
	}
	if query.City != "" {
		q.Set("city", query.City)
	}
	if query.CountryCode != "" {
		q.Set("countryCode", query.CountryCode)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ticketmaster search failed: status %d", resp.StatusCode)
	}

	var tmResp ticketmasterResponse
	if err := json.NewDecoder(resp.Body).Decode(&tmResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if tmResp.Embedded == nil {
		return []domain.Event{}, nil
	}

	events := make([]domain.Event, 0, len(tmResp.Embedded.Events))
	for _, tmEvent := range tmResp.Embedded.Events {
		events = append(events, c.convertToDomainEvent(tmEvent))
	}
	return events, nil
}

// fetchSouthAfricanEvents prefers ZA listings. Ticketmaster lists each
// showtime as its own event, so results are collapsed by name+date and
// then by name before counting. Fewer than 10 unique ZA events triggers
// a global top-up; zero triggers a plain global search.
func (c *TicketmasterClient) fetchSouthAfricanEvents(ctx context.Context) ([]domain.Event, error) {
	zaEvents, err := c.searchEvents(ctx, ticketmasterQuery{CountryCode: "ZA", Size: 20})
	if err != nil {
		return nil, err
	}

	unique := dedupeByName(dedupeByNameAndDate(zaEvents))

	if len(unique) == 0 {
		globalEvents, err := c.searchEvents(ctx, ticketmasterQuery{Size: 20})
		if err != nil {
			return nil, err
		}
		return dedupeByName(globalEvents), nil
	}

	if len(unique) < 10 {
		globalEvents, err := c.searchEvents(ctx, ticketmasterQuery{CountryCode: "US", Size: 50})
		if err != nil {
			// ZA results are still usable on their own.
			return unique, nil
		}
		combined := append(unique, dedupeByName(dedupeByNameAndDate(globalEvents))...)
		combined = dedupeByName(combined)
		if len(combined) > 20 {
			combined = combined[:20]
		}
		return combined, nil
	}

	return unique, nil
}

func (c *TicketmasterClient) convertToDomainEvent(tmEvent ticketmasterEvent) domain.Event {
	location := fallbackLocation
	var coords *domain.Coordinates
	if tmEvent.Embedded != nil && len(tmEvent.Embedded.Venues) > 0 {
		venue := tmEvent.Embedded.Venues[0]
		location = venue.Name
		if venue.City != nil {
			location += ", " + venue.City.Name
		}
		if venue.State != nil {
			location += ", " + venue.State.Name
		}
		if venue.Location != nil {
			lat, latErr := strconv.ParseFloat(venue.Location.Latitude, 64)
			lng, lngErr := strconv.ParseFloat(venue.Location.Longitude, 64)
			if latErr == nil && lngErr == nil {
				coords = &domain.Coordinates{Lat: lat, Lng: lng}
			}
		}
	}

	imageURL := placeholderEventImage
	for _, img := range tmEvent.Images {
		if img.Width >= 640 {
			imageURL = img.URL
			break
		}
	}
	if imageURL == placeholderEventImage && len(tmEvent.Images) > 0 {
		imageURL = tmEvent.Images[0].URL
	}

	dateTime := c.parseEventDate(tmEvent)

	price := 50.0
	currency := "USD"
	if len(tmEvent.PriceRanges) > 0 {
		price = tmEvent.PriceRanges[0].Min
		currency = tmEvent.PriceRanges[0].Currency
	}

	description := tmEvent.Info
	if description == "" {
		description = tmEvent.Descr
	}
	if description == "" {
		description = fallbackDescription(tmEvent.Name)
	}

	return domain.Event{
		ID:          tmEvent.ID,
		Name:        tmEvent.Name,
		Description: description,
		Location:    location,
		Price:       c.converter.ToZAR(price, currency),
		DateTime:    dateTime,
		ImageURL:    imageURL,
		Category:    "music",
		Coordinates: coords,
	}
}

func (c *TicketmasterClient) parseEventDate(tmEvent ticketmasterEvent) time.Time {
	if tmEvent.Dates.Start.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, tmEvent.Dates.Start.DateTime); err == nil {
			return t
		}
	}
	if tmEvent.Dates.Start.LocalDate != "" {
		localTime := tmEvent.Dates.Start.LocalTime
		if localTime == "" {
			localTime = "19:00:00"
		}
		if t, err := time.Parse("2006-01-02T15:04:05", tmEvent.Dates.Start.LocalDate+"T"+localTime); err == nil {
			return t
		}
	}
	return fallbackFutureDate(c.now())
}

func dedupeByNameAndDate(events []domain.Event) []domain.Event {
	seen := make(map[string]bool)
	unique := make([]domain.Event, 0, len(events))
	for _, event := range events {
		key := event.Name + "|" + event.DateTime.Format(time.RFC3339)
		if !seen[key] {
			seen[key] = true
			unique = append(unique, event)
		}
	}
	return unique
}
