package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nightjol/nightjol/pkg/domain"
	"github.com/nightjol/nightjol/pkg/logger"
)

var yelpCities = []string{
	"Cape Town, South Africa",
	"Johannesburg, South Africa",
	"Durban, South Africa",
}

// YelpClient queries the events API city by city. The per-city requests
// are plain sequential iteration; only the adapters themselves run
// concurrently.
type YelpClient struct {
	baseURL    string
	apiKey     string
	cities     []string
	httpClient *http.Client
	converter  *CurrencyConverter
	now        func() time.Time
}

type YelpConfig struct {
	APIKey    string
	Converter *CurrencyConverter
}

func NewYelpClient(config YelpConfig) *YelpClient {
	converter := config.Converter
	if converter == nil {
		converter = NewCurrencyConverter(DefaultUSDToZAR)
	}
	return &YelpClient{
		baseURL: "https://api.yelp.com/v3",
		apiKey:  config.APIKey,
		cities:  yelpCities,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		converter: converter,
		now:       time.Now,
	}
}

func (c *YelpClient) Name() string {
	return "yelp"
}

type yelpEventsResponse struct {
	Total  int         `json:"total"`
	Events []yelpEvent `json:"events"`
}

type yelpEvent struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Category       string  `json:"category"`
	IsFree         bool    `json:"is_free"`
	Cost           float64 `json:"cost"`
	CostMax        float64 `json:"cost_max"`
	EventSiteURL   string  `json:"event_site_url"`
	ImageURL       string  `json:"image_url"`
	TimeStart      string  `json:"time_start"`
	TimeEnd        string  `json:"time_end"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AttendingCount int     `json:"attending_count"`
	Location       struct {
		City           string   `json:"city"`
		DisplayAddress []string `json:"display_address"`
	} `json:"location"`
}

func (c *YelpClient) FetchEvents(ctx context.Context) []domain.Event {
	if c.apiKey == "" {
		logger.Println("yelp: API key not configured, skipping")
		return nil
	}

	allEvents := []domain.Event{}
	for _, city := range c.cities {
		events, err := c.searchEvents(ctx, city, 10)
		if err != nil {
			logger.Errorf("yelp: fetch for %s failed: %v", city, err)
			continue
		}
		allEvents = append(allEvents, events...)
	}

	return dedupeByName(allEvents)
}

func (c *YelpClient) searchEvents(ctx context.Context, location string, limit int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = 20
	}

	eventsURL := fmt.Sprintf("%s/events", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "GET", eventsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	q := url.Values{}
	q.Set("categories", "nightlife,music-and-nightlife")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("location", location)
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yelp search failed: status %d", resp.StatusCode)
	}

	var yelpResp yelpEventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&yelpResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	events := make([]domain.Event, 0, len(yelpResp.Events))
	for _, yEvent := range yelpResp.Events {
		events = append(events, c.convertToDomainEvent(yEvent))
	}
	return events, nil
}

func (c *YelpClient) convertToDomainEvent(yEvent yelpEvent) domain.Event {
	location := strings.Join(yEvent.Location.DisplayAddress, ", ")
	if location == "" {
		location = fallbackLocation
	}

	imageURL := yEvent.ImageURL
	if imageURL == "" {
		imageURL = placeholderCommunityImage
	}

	var price float64
	if !yEvent.IsFree {
		cost := yEvent.Cost
		if cost == 0 {
			cost = 20
		}
		price = c.converter.ToZAR(cost, "USD")
	}

	description := yEvent.Description
	if description == "" {
		if yEvent.AttendingCount > 0 {
			description = fmt.Sprintf("%s event. %d attending", yEvent.Category, yEvent.AttendingCount)
		} else {
			description = fmt.Sprintf("%s event. Join the fun!", yEvent.Category)
		}
	}

	var coords *domain.Coordinates
	if yEvent.Latitude != 0 || yEvent.Longitude != 0 {
		coords = &domain.Coordinates{Lat: yEvent.Latitude, Lng: yEvent.Longitude}
	}

	category := yEvent.Category
	if category == "" {
		category = "nightlife"
	}

	return domain.Event{
		ID:          "yelp_" + yEvent.ID,
		Name:        yEvent.Name,
		Description: description,
		Location:    location,
		Price:       price,
		DateTime:    c.parseStartTime(yEvent.TimeStart),
		ImageURL:    imageURL,
		Category:    category,
		Coordinates: coords,
	}
}

func (c *YelpClient) parseStartTime(timeStart string) time.Time {
	if timeStart != "" {
		if t, err := time.Parse(time.RFC3339, timeStart); err == nil {
			return t
		}
		if t, err := time.Parse("2006-01-02T15:04:05", timeStart); err == nil {
			return t
		}
	}
	return fallbackFutureDate(c.now())
}
