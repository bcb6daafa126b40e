package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nightjol/nightjol/pkg/domain"
	"github.com/nightjol/nightjol/pkg/logger"
)

// Nightlife category ids: bars, nightclubs, lounges, dance clubs.
const foursquareNightlifeCategories = "13032,13033,13035,13037"

type foursquareCity struct {
	Name   string
	Lat    float64
	Lng    float64
	Radius int
}

var foursquareCities = []foursquareCity{
	{Name: "Cape Town", Lat: -33.9249, Lng: 18.4241, Radius: 15000},
	{Name: "Johannesburg", Lat: -26.2041, Lng: 28.0473, Radius: 15000},
	{Name: "Durban", Lat: -29.8587, Lng: 31.0218, Radius: 15000},
	{Name: "Pretoria", Lat: -25.7479, Lng: 28.2293, Radius: 15000},
}

// FoursquareClient searches nightlife venues per city. Foursquare is
// mid-migration between two response shapes, so every venue is resolved
// through an explicit shape discriminator before mapping.
type FoursquareClient struct {
	baseURL    string
	apiKey     string
	cities     []foursquareCity
	httpClient *http.Client
	converter  *CurrencyConverter
	now        func() time.Time
}

type FoursquareConfig struct {
	APIKey    string
	Converter *CurrencyConverter
}

func NewFoursquareClient(config FoursquareConfig) *FoursquareClient {
	converter := config.Converter
	if converter == nil {
		converter = NewCurrencyConverter(DefaultUSDToZAR)
	}
	return &FoursquareClient{
		baseURL: "https://api.foursquare.com/v3/places",
		apiKey:  config.APIKey,
		cities:  foursquareCities,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		converter: converter,
		now:       time.Now,
	}
}

func (c *FoursquareClient) Name() string {
	return "foursquare"
}

type foursquareResponse struct {
	Results []foursquareVenue `json:"results"`
}

// foursquareVenue carries the union of both known response shapes. The
// current shape uses fsq_place_id with top-level latitude/longitude;
// the legacy shape uses fsq_id with nested geocodes.main.
type foursquareVenue struct {
	FsqPlaceID string `json:"fsq_place_id"`
	FsqID      string `json:"fsq_id"`
	Name       string `json:"name"`
	Descr      string `json:"description"`
	Location   struct {
		FormattedAddress string `json:"formatted_address"`
		Locality         string `json:"locality"`
		Region           string `json:"region"`
		Country          string `json:"country"`
	} `json:"location"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Geocodes  *struct {
		Main struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"main"`
	} `json:"geocodes"`
	Categories []struct {
		Name string `json:"name"`
	} `json:"categories"`
	Photos []struct {
		Prefix string `json:"prefix"`
		Suffix string `json:"suffix"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	} `json:"photos"`
	Hours *struct {
		Display string `json:"display"`
	} `json:"hours"`
	Rating float64 `json:"rating"`
	Price  int     `json:"price"`
}

type venueShape int

const (
	venueShapeUnknown venueShape = iota
	venueShapeCurrent            // fsq_place_id + top-level coordinates
	venueShapeLegacy             // fsq_id + geocodes.main
)

func (v *foursquareVenue) shape() venueShape {
	switch {
	case v.FsqPlaceID != "":
		return venueShapeCurrent
	case v.FsqID != "":
		return venueShapeLegacy
	default:
		return venueShapeUnknown
	}
}

func (v *foursquareVenue) nativeID() string {
	switch v.shape() {
	case venueShapeCurrent:
		return v.FsqPlaceID
	case venueShapeLegacy:
		return v.FsqID
	default:
		return "unknown"
	}
}

func (v *foursquareVenue) coordinates() *domain.Coordinates {
	switch v.shape() {
	case venueShapeCurrent:
		if v.Latitude != 0 || v.Longitude != 0 {
			return &domain.Coordinates{Lat: v.Latitude, Lng: v.Longitude}
		}
		return nil
	case venueShapeLegacy:
		if v.Geocodes != nil {
			return &domain.Coordinates{Lat: v.Geocodes.Main.Latitude, Lng: v.Geocodes.Main.Longitude}
		}
		return nil
	default:
		return nil
	}
}

func (c *FoursquareClient) FetchEvents(ctx context.Context) []domain.Event {
	if c.apiKey == "" {
		logger.Println("foursquare: API key not configured, skipping")
		return nil
	}

	allEvents := []domain.Event{}
	for _, city := range c.cities {
		venues, err := c.searchVenues(ctx, city)
		if err != nil {
			logger.Errorf("foursquare: search in %s failed: %v", city.Name, err)
			continue
		}
		allEvents = append(allEvents, venues...)
	}

	unique := dedupeByName(allEvents)
	if len(unique) > 20 {
		unique = unique[:20]
	}
	return unique
}

func (c *FoursquareClient) searchVenues(ctx context.Context, city foursquareCity) ([]domain.Event, error) {
	searchURL := fmt.Sprintf("%s/search", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	q := url.Values{}
	q.Set("categories", foursquareNightlifeCategories)
	q.Set("limit", "50")
	q.Set("ll", fmt.Sprintf("%f,%f", city.Lat, city.Lng))
	q.Set("radius", fmt.Sprintf("%d", city.Radius))
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search venues: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("foursquare search failed: status %d", resp.StatusCode)
	}

	var fsqResp foursquareResponse
	if err := json.NewDecoder(resp.Body).Decode(&fsqResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	events := make([]domain.Event, 0, len(fsqResp.Results))
	for _, venue := range fsqResp.Results {
		events = append(events, c.convertToDomainEvent(venue))
	}
	return events, nil
}

func (c *FoursquareClient) convertToDomainEvent(venue foursquareVenue) domain.Event {
	location := venue.Location.FormattedAddress
	if location == "" {
		location = venue.Location.Locality
		if venue.Location.Region != "" {
			if location != "" {
				location += ", "
			}
			location += venue.Location.Region
		}
	}
	if location == "" {
		location = fallbackLocation
	}

	imageURL := placeholderNightlifeImage
	if len(venue.Photos) > 0 {
		photo := venue.Photos[0]
		imageURL = fmt.Sprintf("%s%dx%d%s", photo.Prefix, photo.Width, photo.Height, photo.Suffix)
	}

	// Price tiers run 1-4; a tier is a rough USD cover-charge band.
	price := 150.0
	if venue.Price > 0 {
		price = c.converter.ToZAR(float64(venue.Price)*100, "USD")
	}

	categoryName := "Nightlife"
	if len(venue.Categories) > 0 && venue.Categories[0].Name != "" {
		categoryName = venue.Categories[0].Name
	}

	description := venue.Descr
	if description == "" {
		locality := venue.Location.Locality
		if locality == "" {
			locality = "the area"
		}
		hours := "Check venue for hours."
		if venue.Hours != nil && venue.Hours.Display != "" {
			hours = venue.Hours.Display
		}
		description = fmt.Sprintf("%s venue in %s. %s", categoryName, locality, hours)
	}

	return domain.Event{
		ID:          "fsq_" + venue.nativeID(),
		Name:        venue.Name,
		Description: description,
		Location:    location,
		Price:       price,
		DateTime:    tomorrowEvening(c.now()),
		ImageURL:    imageURL,
		Category:    determineVenueCategory(strings.ToLower(categoryName)),
		Popularity:  venue.Rating,
		Coordinates: venue.coordinates(),
	}
}
