package interfaces

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nightjol/nightjol/pkg/domain"
	"github.com/nightjol/nightjol/pkg/logger"
)

// LikedEventHandler exposes the per-session liked-events store over
// HTTP.
type LikedEventHandler struct {
	repo domain.LikedEventRepository
}

func NewLikedEventHandler(repo domain.LikedEventRepository) *LikedEventHandler {
	return &LikedEventHandler{repo: repo}
}

func (h *LikedEventHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/liked-events", h.ListLikedEvents).Methods("GET")
	router.HandleFunc("/api/liked-events", h.AddLikedEvent).Methods("POST")
	router.HandleFunc("/api/liked-events/{eventId}", h.RemoveLikedEvent).Methods("DELETE")
}

// ListLikedEvents handles GET /api/liked-events for the requesting
// session.
func (h *LikedEventHandler) ListLikedEvents(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.List(r.Context(), sessionID(r))
	if err != nil {
		logger.Errorf("list liked events: %v", err)
		writeErrorResponse(w, http.StatusInternalServerError, "failed to load liked events")
		return
	}
	if records == nil {
		records = []domain.LikedEvent{}
	}

	writeJSONResponse(w, http.StatusOK, records)
}

type addLikedEventRequest struct {
	EventID   string        `json:"eventId"`
	EventData *domain.Event `json:"eventData"`
}

// AddLikedEvent handles POST /api/liked-events. Adding an already
// liked event returns the existing record with 200 instead of 201.
func (h *LikedEventHandler) AddLikedEvent(w http.ResponseWriter, r *http.Request) {
	var req addLikedEventRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.EventID == "" || req.EventData == nil {
		writeErrorResponse(w, http.StatusBadRequest, "eventId and eventData are required")
		return
	}

	session := sessionID(r)

	existing, err := h.repo.List(r.Context(), session)
	if err != nil {
		logger.Errorf("add liked event: %v", err)
		writeErrorResponse(w, http.StatusInternalServerError, "failed to save liked event")
		return
	}
	for _, record := range existing {
		if record.EventID == req.EventID {
			writeJSONResponse(w, http.StatusOK, record)
			return
		}
	}

	event := *req.EventData
	event.ID = req.EventID

	record, err := h.repo.Add(r.Context(), session, event)
	if err != nil {
		logger.Errorf("add liked event: %v", err)
		writeErrorResponse(w, http.StatusInternalServerError, "failed to save liked event")
		return
	}

	writeJSONResponse(w, http.StatusCreated, record)
}

// RemoveLikedEvent handles DELETE /api/liked-events/{eventId}. Removal
// is idempotent.
func (h *LikedEventHandler) RemoveLikedEvent(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["eventId"]

	if err := h.repo.Remove(r.Context(), sessionID(r), eventID); err != nil {
		logger.Errorf("remove liked event: %v", err)
		writeErrorResponse(w, http.StatusInternalServerError, "failed to remove liked event")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
