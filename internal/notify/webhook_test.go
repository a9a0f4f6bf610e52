package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testEvent() Event {
	return Event{
		SubmissionID: uuid.New(),
		Source:       "contact_form",
		SubmittedAt:  time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Fields: map[string]string{
			"name":    "Jane Doe",
			"email":   "jane@example.com",
			"company": "Acme Logistics",
		},
	}
}

func TestWebhookTargetDeliverPayload(t *testing.T) {
	event := testEvent()

	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	target := NewWebhookTarget(srv.URL, nil)
	if err := target.Deliver(context.Background(), event); err != nil {
		t.Fatalf("Deliver() error: %v", err)
	}

	if got["submission_id"] != event.SubmissionID.String() {
		t.Errorf("submission_id = %q, want %q", got["submission_id"], event.SubmissionID)
	}
	if got["source"] != "contact_form" {
		t.Errorf("source = %q", got["source"])
	}
	if got["submitted_at"] != "2026-08-30T12:00:00Z" {
		t.Errorf("submitted_at = %q", got["submitted_at"])
	}
	if got["name"] != "Jane Doe" || got["company"] != "Acme Logistics" {
		t.Errorf("fields not forwarded: %v", got)
	}
}

func TestWebhookTargetNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	target := NewWebhookTarget(srv.URL, nil)
	if err := target.Deliver(context.Background(), testEvent()); err == nil {
		t.Fatal("Deliver() should fail on a 502 response")
	}
}

func TestFanoutHitsEveryTarget(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	})

	srv1 := httptest.NewServer(handler)
	defer srv1.Close()
	srv2 := httptest.NewServer(handler)
	defer srv2.Close()

	fanout := NewFanout(WebhookTargets([]string{srv1.URL, srv2.URL}), 5*time.Second)
	fanout.Notify(testEvent())
	fanout.Wait()

	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("calls = %d, want 2", n)
	}
}

func TestFanoutTargetsFailIndependently(t *testing.T) {
	var okCalls int32
	okSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&okCalls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer okSrv.Close()

	badSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	badSrv.Close() // connection refused for this one

	fanout := NewFanout(WebhookTargets([]string{badSrv.URL, okSrv.URL}), 2*time.Second)
	fanout.Notify(testEvent())
	fanout.Wait()

	if n := atomic.LoadInt32(&okCalls); n != 1 {
		t.Errorf("healthy target calls = %d, want 1", n)
	}
}

func TestFanoutNoTargets(t *testing.T) {
	fanout := NewFanout(nil, time.Second)
	fanout.Notify(testEvent())
	fanout.Wait() // must not hang or panic
}
