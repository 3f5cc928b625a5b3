package notifiers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/daniacca/qssa/internal/qssa"
)

func TestWebhookNotifier(t *testing.T) {
	var (
		got     qssa.ProgressEvent
		headers http.Header
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewWebhookNotifier("hook", srv.URL)
	n.SetHeader("Authorization", "Bearer abc")

	if n.ID() != "hook" || n.Type() != "webhook" {
		t.Errorf("unexpected identity %s/%s", n.ID(), n.Type())
	}

	ev := qssa.ProgressEvent{RunID: "r-1", Trajectory: 2, Status: qssa.StatusHalted}
	if err := n.Notify(context.Background(), ev); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if got.RunID != "r-1" || got.Trajectory != 2 || got.Status != qssa.StatusHalted {
		t.Errorf("server received %+v", got)
	}
	if headers.Get("Content-Type") != "application/json" {
		t.Errorf("Expected JSON content type, got %q", headers.Get("Content-Type"))
	}
	if headers.Get("Authorization") != "Bearer abc" || headers.Get("X-QSSA-Run") != "r-1" {
		t.Errorf("missing headers: %v", headers)
	}
	if err := n.Close(); err != nil {
		t.Errorf("Close should not return error: %v", err)
	}
}

func TestWebhookNotifier_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhookNotifier("hook", srv.URL).Notify(context.Background(), qssa.ProgressEvent{})
	if err == nil {
		t.Fatal("Expected error for 502 response")
	}
}

func TestWebhookNotifier_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if err := NewWebhookNotifier("hook", url).Notify(context.Background(), qssa.ProgressEvent{}); err == nil {
		t.Fatal("Expected error for closed server")
	}
}
