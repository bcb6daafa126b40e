package interfaces

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/nightjol/nightjol/pkg/domain"
)

func newLikedRouter(store domain.LikedEventRepository) *mux.Router {
	router := mux.NewRouter()
	NewLikedEventHandler(store).RegisterRoutes(router)
	return router
}

func likedRequest(t *testing.T, router *mux.Router, method, target, session, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if session != "" {
		req.Header.Set("x-session-id", session)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const likedBody = `{
	"eventId": "ev1",
	"eventData": {
		"id": "ev1",
		"name": "Jazz Night",
		"description": "Live quartet",
		"location": "Cape Town",
		"price": 150,
		"dateTime": "2026-03-01T20:00:00Z",
		"imageUrl": "https://example.com/jazz.jpg"
	}
}`

func TestListLikedEvents(t *testing.T) {
	t.Run("empty list is an empty array", func(t *testing.T) {
		router := newLikedRouter(newMemoryLikedStore())
		rec := likedRequest(t, router, "GET", "/api/liked-events", "s1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
			t.Errorf("expected empty JSON array, got %s", body)
		}
	})

	t.Run("missing session header defaults to anonymous", func(t *testing.T) {
		store := newMemoryLikedStore()
		store.records["anonymous"] = []domain.LikedEvent{{EventID: "ev1"}}

		router := newLikedRouter(store)
		rec := likedRequest(t, router, "GET", "/api/liked-events", "", "")

		var records []domain.LikedEvent
		if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(records) != 1 || records[0].EventID != "ev1" {
			t.Errorf("expected the anonymous record, got %+v", records)
		}
	})

	t.Run("store failure yields 500", func(t *testing.T) {
		store := newMemoryLikedStore()
		store.failAll = true

		router := newLikedRouter(store)
		if rec := likedRequest(t, router, "GET", "/api/liked-events", "s1", ""); rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})
}

func TestAddLikedEvent(t *testing.T) {
	t.Run("creates a record", func(t *testing.T) {
		router := newLikedRouter(newMemoryLikedStore())
		rec := likedRequest(t, router, "POST", "/api/liked-events", "s1", likedBody)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var record domain.LikedEvent
		if err := json.Unmarshal(rec.Body.Bytes(), &record); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if record.EventID != "ev1" || record.SessionID != "s1" {
			t.Errorf("unexpected record %+v", record)
		}
		if record.Event.Name != "Jazz Night" {
			t.Errorf("event payload not stored: %+v", record.Event)
		}
	})

	t.Run("re-adding returns the existing record with 200", func(t *testing.T) {
		router := newLikedRouter(newMemoryLikedStore())

		first := likedRequest(t, router, "POST", "/api/liked-events", "s1", likedBody)
		if first.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", first.Code)
		}

		second := likedRequest(t, router, "POST", "/api/liked-events", "s1", likedBody)
		if second.Code != http.StatusOK {
			t.Fatalf("expected 200 on duplicate, got %d", second.Code)
		}

		var firstRecord, secondRecord domain.LikedEvent
		if err := json.Unmarshal(first.Body.Bytes(), &firstRecord); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if err := json.Unmarshal(second.Body.Bytes(), &secondRecord); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if firstRecord.ID != secondRecord.ID {
			t.Errorf("expected the same record back, got %s then %s", firstRecord.ID, secondRecord.ID)
		}
	})

	t.Run("missing fields yield 400", func(t *testing.T) {
		router := newLikedRouter(newMemoryLikedStore())

		if rec := likedRequest(t, router, "POST", "/api/liked-events", "s1", `{"eventId": "ev1"}`); rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 without eventData, got %d", rec.Code)
		}
		if rec := likedRequest(t, router, "POST", "/api/liked-events", "s1", `{"eventData": {"id": "ev1"}}`); rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 without eventId, got %d", rec.Code)
		}
		if rec := likedRequest(t, router, "POST", "/api/liked-events", "s1", `{broken`); rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for malformed JSON, got %d", rec.Code)
		}
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		router := newLikedRouter(newMemoryLikedStore())
		likedRequest(t, router, "POST", "/api/liked-events", "s1", likedBody)

		rec := likedRequest(t, router, "GET", "/api/liked-events", "s2", "")
		if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
			t.Errorf("expected s2 to see nothing, got %s", body)
		}
	})
}

func TestRemoveLikedEvent(t *testing.T) {
	t.Run("removes and is idempotent", func(t *testing.T) {
		router := newLikedRouter(newMemoryLikedStore())
		likedRequest(t, router, "POST", "/api/liked-events", "s1", likedBody)

		if rec := likedRequest(t, router, "DELETE", "/api/liked-events/ev1", "s1", ""); rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}

		listRec := likedRequest(t, router, "GET", "/api/liked-events", "s1", "")
		if body := strings.TrimSpace(listRec.Body.String()); body != "[]" {
			t.Errorf("expected empty list after delete, got %s", body)
		}

		if rec := likedRequest(t, router, "DELETE", "/api/liked-events/ev1", "s1", ""); rec.Code != http.StatusNoContent {
			t.Errorf("expected 204 on repeat delete, got %d", rec.Code)
		}
	})

	t.Run("store failure yields 500", func(t *testing.T) {
		store := newMemoryLikedStore()
		store.failAll = true

		router := newLikedRouter(store)
		if rec := likedRequest(t, router, "DELETE", "/api/liked-events/ev1", "s1", ""); rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})
}
