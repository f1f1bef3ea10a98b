package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"webviz-hq/layoutd/pkg/config"
	"webviz-hq/layoutd/pkg/server/types"
	"webviz-hq/layoutd/pkg/store"
	"webviz-hq/layoutd/pkg/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/goleak"
)

const dashboard = `title: Sales
layout:
  - section: Reports
    content:
      - page: Daily
        content:
          - Table:
              source: sales
  - page: About
    content:
      - Plain words
`

func testConfig(modify func(*config.Config)) *config.Config {
	cfg := config.Default()
	cfg.Telemetry.Metrics.Enabled = false
	if modify != nil {
		modify(cfg)
	}
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config, opts Options) *Server {
	t.Helper()

	srv := NewServer(cfg, opts)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body %q: %v", w.Body.String(), err)
	}
	return body
}

func errorType(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body %q: %v", w.Body.String(), err)
	}
	return body.Error.Type
}

func TestServer_PutAndGetDocument(t *testing.T) {
	backend := store.NewMemoryBackend()
	srv := newTestServer(t, testConfig(nil), Options{Store: backend})
	h := srv.Handler()

	w := do(t, h, http.MethodPut, "/v1/documents/sales", dashboard)
	if w.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, want 200: %s", w.Code, w.Body.String())
	}
	put := decode(t, w)
	if put["title"] != "Sales" {
		t.Errorf("title = %v, want Sales", put["title"])
	}
	if objects, _ := put["objects"].([]any); len(objects) != 2 {
		t.Errorf("objects = %v, want 2 top-level objects", put["objects"])
	}
	if nav, _ := put["navigation"].([]any); len(nav) != 2 {
		t.Errorf("navigation = %v, want 2 items", put["navigation"])
	}

	stored, err := backend.Load(context.Background(), "sales")
	if err != nil || stored == nil || stored.Text != dashboard {
		t.Errorf("stored document = %+v, %v, want the PUT body", stored, err)
	}

	w = do(t, h, http.MethodGet, "/v1/documents/sales", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", w.Code)
	}
	if got := decode(t, w); got["title"] != "Sales" || got["id"] != "sales" {
		t.Errorf("GET body = %v, want the last parse", got)
	}

	w = do(t, h, http.MethodGet, "/v1/documents", "")
	list := decode(t, w)
	docs, _ := list["documents"].([]any)
	if len(docs) != 1 {
		t.Fatalf("documents = %v, want one", list["documents"])
	}
	if summary := docs[0].(map[string]any); summary["bytes"] != float64(len(dashboard)) {
		t.Errorf("bytes = %v, want %d", summary["bytes"], len(dashboard))
	}
}

func TestServer_EmptyDocument(t *testing.T) {
	srv := newTestServer(t, testConfig(nil), Options{})

	w := do(t, srv.Handler(), http.MethodPut, "/v1/documents/blank", "")
	if w.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, want 200", w.Code)
	}
	body := decode(t, w)
	if objects, ok := body["objects"].([]any); !ok || len(objects) != 0 {
		t.Errorf("objects = %#v, want empty array", body["objects"])
	}
	if nav, ok := body["navigation"].([]any); !ok || len(nav) != 0 {
		t.Errorf("navigation = %#v, want empty array", body["navigation"])
	}
}

func TestServer_Closest(t *testing.T) {
	srv := newTestServer(t, testConfig(nil), Options{})
	h := srv.Handler()
	do(t, h, http.MethodPut, "/v1/documents/sales", dashboard)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantObject string // Object type; empty for null
		wantPage   string // Page name; empty for null
	}{
		{"plugin line", "/v1/documents/sales/closest?start=7", http.StatusOK, "PLUGIN", "Daily"},
		{"reversed range", "/v1/documents/sales/closest?start=8&end=5", http.StatusOK, "PAGE", "Daily"},
		{"section", "/v1/documents/sales/closest?start=3&end=3", http.StatusOK, "SECTION", ""},
		{"outside", "/v1/documents/sales/closest?start=99", http.StatusOK, "", ""},
		{"missing start", "/v1/documents/sales/closest", http.StatusBadRequest, "", ""},
		{"zero line", "/v1/documents/sales/closest?start=0", http.StatusBadRequest, "", ""},
		{"bad end", "/v1/documents/sales/closest?start=1&end=x", http.StatusBadRequest, "", ""},
		{"unknown document", "/v1/documents/other/closest?start=1", http.StatusNotFound, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodGet, tt.target, "")
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if w.Code != http.StatusOK {
				return
			}

			body := decode(t, w)
			gotObject := ""
			if obj, ok := body["object"].(map[string]any); ok {
				gotObject, _ = obj["type"].(string)
			}
			if gotObject != tt.wantObject {
				t.Errorf("object type = %q, want %q", gotObject, tt.wantObject)
			}

			gotPage := ""
			if page, ok := body["page"].(map[string]any); ok {
				gotPage, _ = page["name"].(string)
			}
			if gotPage != tt.wantPage {
				t.Errorf("page = %q, want %q", gotPage, tt.wantPage)
			}
		})
	}
}

// flakyBackend fails every Save once failSave is set.
type flakyBackend struct {
	store.Backend
	failSave atomic.Bool
}

func (b *flakyBackend) Save(ctx context.Context, doc *store.Document) error {
	if b.failSave.Load() {
		return errors.New("disk full")
	}
	return b.Backend.Save(ctx, doc)
}

func TestServer_PutDocument_SaveFailure(t *testing.T) {
	backend := &flakyBackend{Backend: store.NewMemoryBackend()}
	srv := newTestServer(t, testConfig(nil), Options{Store: backend})
	h := srv.Handler()

	oldText := "title: Old\nlayout:\n  - page: A\n    content: []\n"
	newText := "title: New\nlayout:\n  - page: B\n    content: []\n"

	if w := do(t, h, http.MethodPut, "/v1/documents/d", oldText); w.Code != http.StatusOK {
		t.Fatalf("first PUT status = %d, want 200", w.Code)
	}

	backend.failSave.Store(true)
	w := do(t, h, http.MethodPut, "/v1/documents/d", newText)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("second PUT status = %d, want 500", w.Code)
	}

	// The document and its lookups agree on the new parse.
	if got := decode(t, do(t, h, http.MethodGet, "/v1/documents/d", "")); got["title"] != "New" {
		t.Errorf("GET title = %v, want New", got["title"])
	}
	closest := decode(t, do(t, h, http.MethodGet, "/v1/documents/d/closest?start=3", ""))
	if page, _ := closest["page"].(map[string]any); page == nil || page["name"] != "B" {
		t.Errorf("closest page = %v, want B", closest["page"])
	}

	stored, err := backend.Load(context.Background(), "d")
	if err != nil || stored == nil || stored.Text != oldText {
		t.Errorf("stored document = %+v, %v, want the first PUT body", stored, err)
	}
}

func TestServer_ObjectByID(t *testing.T) {
	srv := newTestServer(t, testConfig(nil), Options{})
	h := srv.Handler()
	do(t, h, http.MethodPut, "/v1/documents/sales", dashboard)

	closest := decode(t, do(t, h, http.MethodGet, "/v1/documents/sales/closest?start=10", ""))
	page, ok := closest["page"].(map[string]any)
	if !ok {
		t.Fatalf("closest = %v, want a page", closest)
	}
	pageID, _ := page["id"].(string)

	w := do(t, h, http.MethodGet, "/v1/documents/sales/objects/"+pageID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	object, _ := decode(t, w)["object"].(map[string]any)
	if object["name"] != "About" {
		t.Errorf("object = %v, want page About", object)
	}

	w = do(t, h, http.MethodGet, "/v1/documents/sales/objects/no-such-id", "")
	if w.Code != http.StatusNotFound || errorType(t, w) != types.ErrorTypeNotFound {
		t.Errorf("unknown object = %d %s, want 404 not_found", w.Code, w.Body.String())
	}
}

func TestServer_DeleteDocument(t *testing.T) {
	backend := store.NewMemoryBackend()
	srv := newTestServer(t, testConfig(nil), Options{Store: backend})
	h := srv.Handler()
	do(t, h, http.MethodPut, "/v1/documents/sales", dashboard)

	if w := do(t, h, http.MethodDelete, "/v1/documents/sales", ""); w.Code != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want 204", w.Code)
	}
	if w := do(t, h, http.MethodGet, "/v1/documents/sales", ""); w.Code != http.StatusNotFound {
		t.Errorf("GET after DELETE status = %d, want 404", w.Code)
	}
	if w := do(t, h, http.MethodDelete, "/v1/documents/sales", ""); w.Code != http.StatusNotFound {
		t.Errorf("second DELETE status = %d, want 404", w.Code)
	}
	if doc, _ := backend.Load(context.Background(), "sales"); doc != nil {
		t.Error("document still in store after DELETE")
	}
}

func TestServer_Limits(t *testing.T) {
	cfg := testConfig(func(c *config.Config) {
		c.Server.MaxDocuments = 1
		c.Server.MaxBodyBytes = 64
	})
	srv := newTestServer(t, cfg, Options{})
	h := srv.Handler()

	if w := do(t, h, http.MethodPut, "/v1/documents/one", "title: One\n"); w.Code != http.StatusOK {
		t.Fatalf("first PUT status = %d, want 200", w.Code)
	}

	w := do(t, h, http.MethodPut, "/v1/documents/two", "title: Two\n")
	if w.Code != http.StatusTooManyRequests || errorType(t, w) != types.ErrorTypeTooManyDocuments {
		t.Errorf("second document = %d %s, want 429 too_many_documents", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodPut, "/v1/documents/one", "title: "+strings.Repeat("x", 100)+"\n")
	if w.Code != http.StatusRequestEntityTooLarge || errorType(t, w) != types.ErrorTypeRequestTooLarge {
		t.Errorf("oversized body = %d %s, want 413 request_too_large", w.Code, w.Body.String())
	}

	// The rejected body must not replace the last good parse
	if got := decode(t, do(t, h, http.MethodGet, "/v1/documents/one", "")); got["title"] != "One" {
		t.Errorf("title after rejected PUT = %v, want One", got["title"])
	}
}

func TestServer_InvalidDocumentID(t *testing.T) {
	srv := newTestServer(t, testConfig(nil), Options{})

	for _, id := range []string{"-leading-dash", "has%20space", strings.Repeat("a", 200)} {
		w := do(t, srv.Handler(), http.MethodPut, "/v1/documents/"+id, "title: x\n")
		if w.Code != http.StatusBadRequest {
			t.Errorf("PUT %q status = %d, want 400", id, w.Code)
		}
	}
}

func TestServer_Restore(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemoryBackend()
	for _, id := range []string{"a", "b", "c"} {
		text := fmt.Sprintf("title: Doc %s\n", id)
		if err := backend.Save(ctx, &store.Document{ID: id, Text: text}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	cfg := testConfig(func(c *config.Config) { c.Server.MaxDocuments = 2 })
	srv := newTestServer(t, cfg, Options{Store: backend})
	h := srv.Handler()

	if w := do(t, h, http.MethodGet, "/ready", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("/ready before restore = %d, want 503", w.Code)
	}

	if err := srv.Restore(ctx); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	if w := do(t, h, http.MethodGet, "/ready", ""); w.Code != http.StatusOK {
		t.Errorf("/ready after restore = %d, want 200: %s", w.Code, w.Body.String())
	}
	if got := decode(t, do(t, h, http.MethodGet, "/v1/documents/b", "")); got["title"] != "Doc b" {
		t.Errorf("restored title = %v, want Doc b", got["title"])
	}
	// Only the first two ids fit under the document limit
	if w := do(t, h, http.MethodGet, "/v1/documents/c", ""); w.Code != http.StatusNotFound {
		t.Errorf("GET c status = %d, want 404", w.Code)
	}
}

func TestServer_ProbesAndMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	cfg := testConfig(func(c *config.Config) { c.Telemetry.Metrics.Enabled = true })
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, registry)

	srv := newTestServer(t, cfg, Options{Metrics: collector, Version: "1.2.3"})
	h := srv.Handler()

	if w := do(t, h, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Errorf("/health = %d, want 200", w.Code)
	}
	if got := decode(t, do(t, h, http.MethodGet, "/version", "")); got["version"] != "1.2.3" {
		t.Errorf("/version = %v, want 1.2.3", got)
	}

	do(t, h, http.MethodPut, "/v1/documents/sales", dashboard)
	do(t, h, http.MethodGet, "/v1/documents/sales/closest?start=7", "")

	w := do(t, h, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("/metrics = %d, want 200", w.Code)
	}
	out := w.Body.String()
	for _, want := range []string{
		`layoutd_http_requests_total{method="PUT",route="/v1/documents/{id}",status="200"} 1`,
		`layoutd_http_requests_total{method="GET",route="/v1/documents/{id}/closest",status="200"} 1`,
		`layoutd_parses_total{result="ok"} 1`,
		`layoutd_open_documents 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
	if strings.Contains(out, `route="/v1/documents/sales"`) {
		t.Error("raw document id used as a route label")
	}
}

func TestServer_ResponseHeaders(t *testing.T) {
	srv := newTestServer(t, testConfig(nil), Options{})

	w := do(t, srv.Handler(), http.MethodGet, "/v1/documents", "")
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestServer_Serve(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	srv := NewServer(testConfig(nil), Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	client := &http.Client{Timeout: 2 * time.Second, Transport: &http.Transport{DisableKeepAlives: true}}
	base := "http://" + ln.Addr().String()

	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := client.Get(base + "/ready")
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never became ready: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	req, _ := http.NewRequest(http.MethodPut, base+"/v1/documents/live", strings.NewReader(dashboard))
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("PUT error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("PUT status = %d, want 200", resp.StatusCode)
	}

	if !srv.IsRunning() {
		t.Error("IsRunning() = false while serving")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
	if srv.IsRunning() {
		t.Error("IsRunning() = true after shutdown")
	}
}
