package gcal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), Config{CalendarID: "primary", TimeZone: "UTC"},
		option.WithEndpoint(srv.URL),
		option.WithoutAuthentication(),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestCreateEvent(t *testing.T) {
	var got calendar.Event
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.Contains(r.URL.Path, "/calendars/primary/events") {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		json.NewEncoder(w).Encode(calendar.Event{Id: "evt-123"})
	}))

	id, err := client.CreateEvent(context.Background(), "Juan", "2024-01-16", "10:00", "Consulta general")
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if id != "evt-123" {
		t.Errorf("id = %q", id)
	}
	if got.Summary != "Cita: Juan" || got.Description != "Consulta general" {
		t.Errorf("event = %+v", got)
	}
	if !strings.HasPrefix(got.Start.DateTime, "2024-01-16T10:00") {
		t.Errorf("start = %q", got.Start.DateTime)
	}
	if !strings.HasPrefix(got.End.DateTime, "2024-01-16T10:30") {
		t.Errorf("end = %q", got.End.DateTime)
	}
}

func TestCreateEventRejectsBadSlot(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the API")
	}))

	if _, err := client.CreateEvent(context.Background(), "Juan", "mañana", "10:00", "x"); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}

func TestDeleteEvent(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := client.DeleteEvent(context.Background(), "evt-123"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestDeleteEventGoneIsSuccess(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":404}}`, http.StatusNotFound)
	}))

	if err := client.DeleteEvent(context.Background(), "evt-gone"); err != nil {
		t.Fatalf("delete of missing event should succeed, got %v", err)
	}
}
