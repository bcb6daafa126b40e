package interfaces

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/nightjol/nightjol/pkg/domain"
	"github.com/nightjol/nightjol/pkg/logger"
)

// EventHandler exposes the event feed over HTTP.
type EventHandler struct {
	service *EventService
}

func NewEventHandler(service *EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/events", h.GetEvents).Methods("GET")
	router.HandleFunc("/api/events", h.CreateEvent).Methods("POST")
	router.HandleFunc("/api/events/suggestions", h.GetSuggestions).Methods("GET")
	router.HandleFunc("/api/events/refresh", h.RefreshEvents).Methods("POST")
	router.HandleFunc("/api/events/{id}", h.DeleteEvent).Methods("DELETE")
	router.HandleFunc("/api/events/{id}/like", h.ToggleLike).Methods("POST")
}

// GetEvents handles GET /api/events with optional query, filter and
// sort parameters.
func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	sortOption, err := domain.ParseSortOption(r.URL.Query().Get("sort"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	req := FeedRequest{
		Query:   r.URL.Query().Get("q"),
		Filters: filters,
		Sort:    sortOption,
	}

	response := h.service.Feed(r.Context(), sessionID(r), req)
	writeJSONResponse(w, http.StatusOK, response)
}

// GetSuggestions handles GET /api/events/suggestions?q=...
func (h *EventHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	suggestions := h.service.Suggestions(r.Context(), sessionID(r), query)
	if suggestions == nil {
		suggestions = []string{}
	}

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
	})
}

// CreateEvent handles POST /api/events for manually entered events.
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var event domain.Event
	if err := decodeJSONBody(r, &event); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.service.CreateEvent(event)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSONResponse(w, http.StatusCreated, created)
}

// DeleteEvent handles DELETE /api/events/{id}.
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["id"]

	err := h.service.RemoveEvent(r.Context(), sessionID(r), eventID)
	if errors.Is(err, domain.ErrEventNotFound) {
		writeErrorResponse(w, http.StatusNotFound, "event not found")
		return
	}
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "failed to remove event")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleLike handles POST /api/events/{id}/like. A persistence failure
// rolls the toggle back; the response always reports the settled liked
// value.
func (h *EventHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["id"]

	liked, err := h.service.ToggleLike(r.Context(), sessionID(r), eventID)
	if errors.Is(err, domain.ErrEventNotFound) {
		writeErrorResponse(w, http.StatusNotFound, "event not found")
		return
	}
	if err != nil {
		logger.Errorf("toggle like for %s rolled back: %v", eventID, err)
	}

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"id":    eventID,
		"liked": liked,
	})
}

// RefreshEvents handles POST /api/events/refresh, dropping the
// aggregation cache.
func (h *EventHandler) RefreshEvents(w http.ResponseWriter, r *http.Request) {
	h.service.Refresh()
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "refreshing"})
}

func parseFilters(r *http.Request) (domain.FilterOptions, error) {
	filters := domain.DefaultFilters()
	q := r.URL.Query()

	if raw := q.Get("categories"); raw != "" {
		filters.Categories = nil
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				filters.Categories = append(filters.Categories, c)
			}
		}
	}

	var err error
	if filters.PriceRange.Min, err = parseFloatParam(q.Get("minPrice"), filters.PriceRange.Min); err != nil {
		return filters, errors.New("invalid minPrice")
	}
	if filters.PriceRange.Max, err = parseFloatParam(q.Get("maxPrice"), filters.PriceRange.Max); err != nil {
		return filters, errors.New("invalid maxPrice")
	}
	if filters.Popularity, err = parseFloatParam(q.Get("minPopularity"), filters.Popularity); err != nil {
		return filters, errors.New("invalid minPopularity")
	}
	if filters.LocationRadius, err = parseFloatParam(q.Get("radius"), filters.LocationRadius); err != nil {
		return filters, errors.New("invalid radius")
	}

	if filters.DateRange.Start, err = parseDateParam(q.Get("startDate")); err != nil {
		return filters, errors.New("invalid startDate")
	}
	if filters.DateRange.End, err = parseDateParam(q.Get("endDate")); err != nil {
		return filters, errors.New("invalid endDate")
	}

	lat, lng := q.Get("lat"), q.Get("lng")
	if lat != "" && lng != "" {
		latV, latErr := strconv.ParseFloat(lat, 64)
		lngV, lngErr := strconv.ParseFloat(lng, 64)
		if latErr != nil || lngErr != nil {
			return filters, errors.New("invalid coordinates")
		}
		filters.UserLocation = &domain.Coordinates{Lat: latV, Lng: lngV}
	}

	return filters, nil
}

func parseFloatParam(raw string, fallback float64) (float64, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(raw, 64)
}

// parseDateParam accepts RFC3339 timestamps or bare dates.
func parseDateParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
