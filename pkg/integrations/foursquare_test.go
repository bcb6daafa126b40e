package integrations

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestFoursquareClient(serverURL string) *FoursquareClient {
	client := NewFoursquareClient(FoursquareConfig{APIKey: "fsq-key"})
	client.baseURL = serverURL
	client.now = fixedNow
	client.cities = []foursquareCity{{Name: "Cape Town", Lat: -33.9249, Lng: 18.4241, Radius: 15000}}
	return client
}

func TestFoursquareVenueShapes(t *testing.T) {
	t.Run("current shape", func(t *testing.T) {
		venue := foursquareVenue{FsqPlaceID: "abc", Latitude: -33.9, Longitude: 18.4}
		if venue.shape() != venueShapeCurrent {
			t.Fatal("expected current shape")
		}
		if venue.nativeID() != "abc" {
			t.Errorf("unexpected native id %s", venue.nativeID())
		}
		coords := venue.coordinates()
		if coords == nil || coords.Lat != -33.9 {
			t.Errorf("expected top-level coordinates, got %v", coords)
		}
	})

	t.Run("legacy shape", func(t *testing.T) {
		venue := foursquareVenue{FsqID: "xyz"}
		venue.Geocodes = &struct {
			Main struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"main"`
		}{}
		venue.Geocodes.Main.Latitude = -26.2
		venue.Geocodes.Main.Longitude = 28.0

		if venue.shape() != venueShapeLegacy {
			t.Fatal("expected legacy shape")
		}
		if venue.nativeID() != "xyz" {
			t.Errorf("unexpected native id %s", venue.nativeID())
		}
		coords := venue.coordinates()
		if coords == nil || coords.Lat != -26.2 {
			t.Errorf("expected geocode coordinates, got %v", coords)
		}
	})

	t.Run("current shape prefixed over legacy when both present", func(t *testing.T) {
		venue := foursquareVenue{FsqPlaceID: "new", FsqID: "old"}
		if venue.nativeID() != "new" {
			t.Errorf("expected fsq_place_id to win, got %s", venue.nativeID())
		}
	})

	t.Run("unknown shape", func(t *testing.T) {
		venue := foursquareVenue{Name: "Mystery Bar"}
		if venue.shape() != venueShapeUnknown {
			t.Fatal("expected unknown shape")
		}
		if venue.nativeID() != "unknown" {
			t.Errorf("unexpected native id %s", venue.nativeID())
		}
		if venue.coordinates() != nil {
			t.Error("expected nil coordinates")
		}
	})
}

func TestFoursquareFetchEvents(t *testing.T) {
	t.Run("no API key skips the source", func(t *testing.T) {
		client := NewFoursquareClient(FoursquareConfig{})
		if events := client.FetchEvents(context.Background()); events != nil {
			t.Errorf("expected nil, got %v", events)
		}
	})

	t.Run("maps both response shapes in one payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "fsq-key" {
				t.Errorf("missing Authorization header")
			}
			fmt.Fprint(w, `{"results":[
				{
					"fsq_place_id": "cur-1",
					"name": "Neon Lounge",
					"latitude": -33.92,
					"longitude": 18.42,
					"categories": [{"name": "Night Club"}],
					"rating": 4.5,
					"price": 2,
					"photos": [{"prefix": "http://pix/", "suffix": "/shot.jpg", "width": 800, "height": 600}]
				},
				{
					"fsq_id": "leg-1",
					"name": "Old Town Bar",
					"geocodes": {"main": {"latitude": -33.93, "longitude": 18.43}},
					"categories": [{"name": "Bar"}]
				}
			]}`)
		}))
		defer server.Close()

		client := newTestFoursquareClient(server.URL)
		events := client.FetchEvents(context.Background())
		if len(events) != 2 {
			t.Fatalf("expected 2 events, got %d", len(events))
		}

		current := events[0]
		if current.ID != "fsq_cur-1" {
			t.Errorf("unexpected id %s", current.ID)
		}
		if current.Price != 3700 {
			t.Errorf("expected tier 2 priced at 3700 ZAR, got %.2f", current.Price)
		}
		if current.ImageURL != "http://pix/800x600/shot.jpg" {
			t.Errorf("unexpected image %s", current.ImageURL)
		}
		if current.Popularity != 4.5 {
			t.Errorf("expected rating carried as popularity, got %.1f", current.Popularity)
		}
		if current.Category != "night_club" {
			t.Errorf("unexpected category %s", current.Category)
		}
		if !current.DateTime.Equal(tomorrowEvening(fixedNow())) {
			t.Errorf("expected tomorrow evening, got %v", current.DateTime)
		}

		legacy := events[1]
		if legacy.ID != "fsq_leg-1" {
			t.Errorf("unexpected id %s", legacy.ID)
		}
		if legacy.Coordinates == nil || legacy.Coordinates.Lat != -33.93 {
			t.Errorf("expected geocode coordinates, got %v", legacy.Coordinates)
		}
		if legacy.Price != 150 {
			t.Errorf("expected default price 150, got %.2f", legacy.Price)
		}
	})

	t.Run("caps the merged result at twenty venues", func(t *testing.T) {
		venues := ""
		for i := 0; i < 30; i++ {
			if i > 0 {
				venues += ","
			}
			venues += fmt.Sprintf(`{"fsq_place_id":"v%d","name":"Venue %d"}`, i, i)
		}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"results":[`+venues+`]}`)
		}))
		defer server.Close()

		client := newTestFoursquareClient(server.URL)
		if events := client.FetchEvents(context.Background()); len(events) != 20 {
			t.Errorf("expected 20 events, got %d", len(events))
		}
	})

	t.Run("failed city search degrades to empty", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := newTestFoursquareClient(server.URL)
		if events := client.FetchEvents(context.Background()); len(events) != 0 {
			t.Errorf("expected no events, got %d", len(events))
		}
	})
}
