package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/md-rashed-zaman/apptdesk/services/console-service/internal/model"
)

func TestList_DecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/appointments" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("status"); got != "completed" {
			t.Errorf("unexpected status filter %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"allAppointments": [
				{
					"id": 7,
					"status": "Completed",
					"createdAt": "2026-08-01T10:00:00Z",
					"service": {"id": "svc-1", "title": "AC Repair", "price": 1200},
					"address": {"state": "Dhaka", "area": "Banani", "district": "Dhaka"},
					"bookedBy": {"firstName": "Asha", "phoneNumber": "9000000001"}
				},
				{
					"id": "appt-8",
					"status": "completed",
					"createdAt": "2026-08-02T09:30:00Z",
					"service": {"id": 2, "title": "Cleaning", "price": 500},
					"address": {"state": "Dhaka", "area": "Gulshan", "district": "Dhaka", "landmark": "near the lake"},
					"bookedBy": {"firstName": "Karim", "lastName": "Uddin", "phoneNumber": "9000000002", "email": "karim@example.com"}
				}
			]
		}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	records, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "7" {
		t.Fatalf("numeric id should decode to %q, got %q", "7", records[0].ID)
	}
	if records[0].Status != model.StatusCompleted {
		t.Fatalf("status should be normalized, got %q", records[0].Status)
	}
	if records[1].ID != "appt-8" || records[1].Service.ID != "2" {
		t.Fatalf("unexpected ids: %q / %q", records[1].ID, records[1].Service.ID)
	}
	if records[1].BookedBy.Email != "karim@example.com" {
		t.Fatalf("unexpected email %q", records[1].BookedBy.Email)
	}
}

func TestList_NullPayloadIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"allAppointments": null}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	records, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("null payload must not be an error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty collection, got %d", len(records))
	}
}

func TestList_ServerErrorCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message": "appointments unavailable"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	_, err := client.List(context.Background())

	var ge *Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if ge.Kind != KindServer || ge.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected classification: %+v", ge)
	}
	if ge.Message != "appointments unavailable" {
		t.Fatalf("unexpected message %q", ge.Message)
	}
}

func TestList_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // reject all connections

	client := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second})
	_, err := client.List(context.Background())

	var ge *Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if ge.Kind != KindTransport {
		t.Fatalf("expected transport kind, got %s", ge.Kind)
	}
}

func TestList_MalformedBodyIsUnexpected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"allAppointments": "nope"`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	_, err := client.List(context.Background())

	var ge *Error
	if !errors.As(err, &ge) || ge.Kind != KindUnexpected {
		t.Fatalf("expected unexpected kind, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	if err := client.Delete(context.Background(), "appt-9"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/v1/appointments/appt-9" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
}

func TestDelete_NonSuccessStatusFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "no such appointment"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	err := client.Delete(context.Background(), "ghost")

	var ge *Error
	if !errors.As(err, &ge) || ge.Kind != KindServer {
		t.Fatalf("expected server error, got %v", err)
	}
	if ge.Message != "no such appointment" {
		t.Fatalf("unexpected message %q", ge.Message)
	}
}

func TestUserMessage_FallbackOrder(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"server message wins", &Error{Kind: KindServer, Message: "busy"}, "busy"},
		{"transport text second", Wrap(KindTransport, errors.New("connection refused")), "connection refused"},
		{"server error without message", &Error{Kind: KindServer, StatusCode: 502}, "fallback"},
		{"foreign error", errors.New("opaque"), "fallback"},
		{"nil error", nil, "fallback"},
	}
	for _, tc := range cases {
		if got := UserMessage(tc.err, "fallback"); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}
