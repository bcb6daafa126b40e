package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nightjol/nightjol/pkg/domain"
	"github.com/nightjol/nightjol/pkg/logger"
)

// EventbriteClient pulls the token owner's events. Eventbrite retired
// public event search in 2020, so owned events are all the API exposes.
type EventbriteClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	converter  *CurrencyConverter
	now        func() time.Time
}

type EventbriteConfig struct {
	Token     string
	Converter *CurrencyConverter
}

func NewEventbriteClient(config EventbriteConfig) *EventbriteClient {
	converter := config.Converter
	if converter == nil {
		converter = NewCurrencyConverter(DefaultUSDToZAR)
	}
	return &EventbriteClient{
		baseURL: "https://www.eventbriteapi.com/v3",
		token:   config.Token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		converter: converter,
		now:       time.Now,
	}
}

func (c *EventbriteClient) Name() string {
	return "eventbrite"
}

type eventbriteResponse struct {
	Events []eventbriteEvent `json:"events"`
}

type eventbriteEvent struct {
	ID   string `json:"id"`
	Name struct {
		Text string `json:"text"`
	} `json:"name"`
	Description struct {
		Text string `json:"text"`
	} `json:"description"`
	Start struct {
		Local string `json:"local"`
		UTC   string `json:"utc"`
	} `json:"start"`
	Logo *struct {
		URL string `json:"url"`
	} `json:"logo"`
	TicketAvailability *struct {
		MinimumTicketPrice *struct {
			MajorValue string `json:"major_value"`
			Currency   string `json:"currency"`
		} `json:"minimum_ticket_price"`
	} `json:"ticket_availability"`
	Venue *eventbriteVenue `json:"venue"`
}

type eventbriteVenue struct {
	Name    string `json:"name"`
	Address *struct {
		City                    string `json:"city"`
		Region                  string `json:"region"`
		Country                 string `json:"country"`
		LocalizedAddressDisplay string `json:"localized_address_display"`
	} `json:"address"`
}

func (c *EventbriteClient) FetchEvents(ctx context.Context) []domain.Event {
	if c.token == "" {
		logger.Println("eventbrite: token not configured, skipping")
		return nil
	}

	events, err := c.fetchOwnedEvents(ctx)
	if err != nil {
		logger.Errorf("eventbrite: fetch failed: %v", err)
		return nil
	}
	return dedupeByName(events)
}

func (c *EventbriteClient) fetchOwnedEvents(ctx context.Context) ([]domain.Event, error) {
	eventsURL := fmt.Sprintf("%s/users/me/owned_events/?expand=venue,ticket_availability&order_by=start_asc", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "GET", eventsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch owned events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("eventbrite fetch failed: status %d", resp.StatusCode)
	}

	var ebResp eventbriteResponse
	if err := json.NewDecoder(resp.Body).Decode(&ebResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	events := make([]domain.Event, 0, len(ebResp.Events))
	for _, ebEvent := range ebResp.Events {
		events = append(events, c.convertToDomainEvent(ebEvent))
	}
	return events, nil
}

func (c *EventbriteClient) convertToDomainEvent(ebEvent eventbriteEvent) domain.Event {
	location := fallbackLocation
	if venue := ebEvent.Venue; venue != nil {
		if venue.Address != nil && venue.Address.LocalizedAddressDisplay != "" {
			location = venue.Address.LocalizedAddressDisplay
		} else {
			parts := []string{}
			if venue.Name != "" {
				parts = append(parts, venue.Name)
			}
			if venue.Address != nil {
				if venue.Address.City != "" {
					parts = append(parts, venue.Address.City)
				}
				if venue.Address.Region != "" {
					parts = append(parts, venue.Address.Region)
				}
			}
			if len(parts) > 0 {
				location = strings.Join(parts, ", ")
			}
		}
	}

	imageURL := placeholderEventImage
	if ebEvent.Logo != nil && ebEvent.Logo.URL != "" {
		imageURL = ebEvent.Logo.URL
	}

	price := 50.0
	currency := "USD"
	if ta := ebEvent.TicketAvailability; ta != nil && ta.MinimumTicketPrice != nil {
		if v, err := strconv.ParseFloat(ta.MinimumTicketPrice.MajorValue, 64); err == nil {
			price = v
		}
		if ta.MinimumTicketPrice.Currency != "" {
			currency = ta.MinimumTicketPrice.Currency
		}
	}

	description := ebEvent.Description.Text
	if len(description) > 200 {
		description = description[:200]
	}
	if description == "" {
		description = fallbackDescription(ebEvent.Name.Text)
	}

	dateTime := c.parseStartTime(ebEvent)

	return domain.Event{
		ID:          "eb_" + ebEvent.ID,
		Name:        ebEvent.Name.Text,
		Description: description,
		Location:    location,
		Price:       c.converter.ToZAR(price, currency),
		DateTime:    dateTime,
		ImageURL:    imageURL,
		Category:    "event",
	}
}

func (c *EventbriteClient) parseStartTime(ebEvent eventbriteEvent) time.Time {
	if ebEvent.Start.Local != "" {
		if t, err := time.Parse("2006-01-02T15:04:05", ebEvent.Start.Local); err == nil {
			return t
		}
	}
	if ebEvent.Start.UTC != "" {
		if t, err := time.Parse(time.RFC3339, ebEvent.Start.UTC); err == nil {
			return t
		}
	}
	return fallbackFutureDate(c.now())
}
