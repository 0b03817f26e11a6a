package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"notification-hub/models"
)

func decodeIngestResponse(t *testing.T, w *httptest.ResponseRecorder) models.IngestResponse {
	t.Helper()
	var resp models.IngestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return resp
}

func TestIngestStoresAndPublishes(t *testing.T) {
	env := newTestEnv()
	sub := env.hub.SubscribeAll()
	defer sub.Unsubscribe()

	w := env.do(t, http.MethodPost, "/api/v1/notifications/ingest",
		`{"level":"WARN","content":"disk filling up","date":"2026-01-02T15:04:05"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}

	resp := decodeIngestResponse(t, w)
	if !resp.Success {
		t.Fatalf("success = false: %s", resp.Message)
	}
	if resp.NotificationID != "1" {
		t.Fatalf("notification_id = %q, want \"1\"", resp.NotificationID)
	}

	n, _ := env.store.FindByID(1)
	if n.Type != "WARN" || n.Message != "disk filling up" {
		t.Fatalf("unexpected stored record: %+v", n)
	}

	select {
	case got := <-sub.C():
		if got.Content != "disk filling up" {
			t.Fatalf("unexpected envelope: %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("ingest did not publish")
	}
}

func TestIngestStreamAggregatesWithDateFallback(t *testing.T) {
	env := newTestEnv()

	body := `{"level":"INFO","content":"one","date":"2026-01-02T10:00:00"}
{"level":"INFO","content":"two","date":"not-a-date"}
{"level":"INFO","content":"three","date":"2026-01-02T12:00:00"}
`
	w := env.do(t, http.MethodPost, "/api/v1/notifications/ingest/stream", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	resp := decodeIngestResponse(t, w)
	if !resp.Success {
		t.Fatalf("success = false: %s", resp.Message)
	}
	if resp.Message != "Processed 3 notifications: 3 success, 0 failed" {
		t.Fatalf("message = %q", resp.Message)
	}
	if resp.NotificationID == "" {
		t.Fatal("aggregate id missing")
	}
	if env.store.Len() != 3 {
		t.Fatalf("stored %d records, want 3", env.store.Len())
	}
}

func TestIngestStreamCountsItemFailures(t *testing.T) {
	env := newTestEnv()

	oversized := strings.Repeat("x", 501)
	body := `{"level":"INFO","content":"ok","date":""}
{"level":"INFO","content":"` + oversized + `","date":""}
`
	w := env.do(t, http.MethodPost, "/api/v1/notifications/ingest/stream", body)

	resp := decodeIngestResponse(t, w)
	if resp.Success {
		t.Fatal("aggregate with failures must not report success")
	}
	if resp.Message != "Processed 2 notifications: 1 success, 1 failed" {
		t.Fatalf("message = %q", resp.Message)
	}
	if env.store.Len() != 1 {
		t.Fatalf("stored %d records, want 1", env.store.Len())
	}
}

func TestIngestStreamReportsProgressOnMalformedStream(t *testing.T) {
	env := newTestEnv()

	// Second line is not valid JSON: the stream aborts, but the first item
	// must already be persisted and counted.
	body := `{"level":"INFO","content":"ok","date":""}
{{{garbage
`
	w := env.do(t, http.MethodPost, "/api/v1/notifications/ingest/stream", body)

	resp := decodeIngestResponse(t, w)
	if resp.Success {
		t.Fatal("aborted stream must not report success")
	}
	if !strings.HasPrefix(resp.Message, "Stream error:") {
		t.Fatalf("message = %q", resp.Message)
	}
	if !strings.Contains(resp.Message, "1 success, 0 failed") {
		t.Fatalf("message should carry the progress so far: %q", resp.Message)
	}
	if env.store.Len() != 1 {
		t.Fatalf("stored %d records, want 1", env.store.Len())
	}
}

func TestIngestRejectsOversizedContent(t *testing.T) {
	env := newTestEnv()

	w := env.do(t, http.MethodPost, "/api/v1/notifications/ingest",
		`{"level":"INFO","content":"`+strings.Repeat("x", 501)+`","date":""}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp := decodeIngestResponse(t, w); resp.Success {
		t.Fatal("success must be false")
	}
}

func TestSubscribeStreamsEnvelopesOverSSE(t *testing.T) {
	env := newTestEnv()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/subscribe", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		env.router.ServeHTTP(w, req)
		close(done)
	}()

	// Wait for the subscription to register before publishing.
	deadline := time.Now().Add(time.Second)
	for env.hub.SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("subscriber never registered")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := env.hub.BroadcastToAll("", "INFO", "over the wire"); err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("content type = %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "event:notification") {
		t.Fatalf("missing event name in body: %q", body)
	}
	if !strings.Contains(body, "over the wire") {
		t.Fatalf("missing payload in body: %q", body)
	}
}
