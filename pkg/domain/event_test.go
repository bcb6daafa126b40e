package domain

import (
	"testing"
	"time"
)

func validEvent() Event {
	return Event{
		ID:          "eb_123",
		Name:        "Jazz Night",
		Description: "An evening of live jazz.",
		Location:    "The Orbit, Johannesburg",
		Price:       150,
		DateTime:    time.Date(2025, 7, 15, 20, 0, 0, 0, time.UTC),
		ImageURL:    "https://example.com/jazz.jpg",
	}
}

func TestEventValidate(t *testing.T) {
	t.Run("valid event", func(t *testing.T) {
		e := validEvent()
		if err := e.Validate(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*Event)
		field  string
	}{
		{"missing id", func(e *Event) { e.ID = "" }, "id"},
		{"missing name", func(e *Event) { e.Name = "   " }, "name"},
		{"missing description", func(e *Event) { e.Description = "" }, "description"},
		{"missing location", func(e *Event) { e.Location = "" }, "location"},
		{"negative price", func(e *Event) { e.Price = -1 }, "price"},
		{"zero date", func(e *Event) { e.DateTime = time.Time{} }, "dateTime"},
		{"relative image url", func(e *Event) { e.ImageURL = "/img/poster.jpg" }, "imageUrl"},
		{"garbage image url", func(e *Event) { e.ImageURL = "not a url" }, "imageUrl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEvent()
			tt.mutate(&e)
			err := e.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			ve, ok := err.(ValidationError)
			if !ok {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if ve.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, ve.Field)
			}
		})
	}

	t.Run("zero price is allowed", func(t *testing.T) {
		e := validEvent()
		e.Price = 0
		if err := e.Validate(); err != nil {
			t.Errorf("expected no error for free event, got %v", err)
		}
	})
}

func TestParseSortOption(t *testing.T) {
	valid := []string{"date-asc", "date-desc", "price-asc", "price-desc", "popularity", "distance"}
	for _, s := range valid {
		opt, err := ParseSortOption(s)
		if err != nil {
			t.Errorf("expected %s to parse, got %v", s, err)
		}
		if string(opt) != s {
			t.Errorf("expected %s, got %s", s, opt)
		}
	}

	t.Run("empty defaults to date-asc", func(t *testing.T) {
		opt, err := ParseSortOption("")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if opt != SortDateAsc {
			t.Errorf("expected date-asc default, got %s", opt)
		}
	})

	t.Run("unknown option", func(t *testing.T) {
		if _, err := ParseSortOption("relevance"); err == nil {
			t.Error("expected error for unknown sort option")
		}
	})
}
