package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"webviz-hq/layoutd/pkg/config"
	"webviz-hq/layoutd/pkg/layout/ast"
	"webviz-hq/layoutd/pkg/layout/parser"
	"webviz-hq/layoutd/pkg/telemetry/metrics"
	"webviz-hq/layoutd/pkg/telemetry/tracing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

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

func startWorker(t *testing.T, opts ...Option) *Worker {
	t.Helper()

	w := New(parser.NewParser(), opts...)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(w.Stop)
	return w
}

func TestWorker_Parse(t *testing.T) {
	w := startWorker(t)

	resp, err := w.Do(context.Background(), ParseRequest(dashboard))
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	if resp.Type != ResponseParsed {
		t.Errorf("Type = %q, want %q", resp.Type, ResponseParsed)
	}
	if resp.Title != "Sales" {
		t.Errorf("Title = %q, want %q", resp.Title, "Sales")
	}
	if len(resp.Objects) != 2 {
		t.Errorf("len(Objects) = %d, want 2", len(resp.Objects))
	}
	if len(resp.Navigation) != 2 {
		t.Errorf("len(Navigation) = %d, want 2", len(resp.Navigation))
	}
}

func TestWorker_Requests(t *testing.T) {
	w := startWorker(t)
	ctx := context.Background()

	if _, err := w.Do(ctx, ParseRequest(dashboard)); err != nil {
		t.Fatalf("Do(Parse) error = %v", err)
	}

	tests := []struct {
		name       string
		req        Request
		wantType   ResponseType
		wantObject ast.ObjectType // Empty when no object is expected
		wantPage   string
	}{
		{"closest plugin", ClosestObjectRequest(7, 7), ResponseClosestObject, ast.ObjectTypePlugin, "Daily"},
		{"closest section", ClosestObjectRequest(3, 3), ResponseClosestObject, ast.ObjectTypeSection, ""},
		{"closest plain text", ClosestObjectRequest(11, 11), ResponseClosestObject, ast.ObjectTypePlainText, "About"},
		{"closest outside", ClosestObjectRequest(40, 40), ResponseClosestObject, "", ""},
		{"unknown id", ObjectByIDRequest("nope"), ResponseObjectByID, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := w.Do(ctx, tt.req)
			if err != nil {
				t.Fatalf("Do() error = %v", err)
			}
			if resp.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", resp.Type, tt.wantType)
			}

			if tt.wantObject == "" {
				if resp.Object != nil {
					t.Errorf("Object = %v, want nil", resp.Object)
				}
			} else if resp.Object == nil || resp.Object.ObjectType() != tt.wantObject {
				t.Errorf("Object = %v, want %s", resp.Object, tt.wantObject)
			}

			gotPage := ""
			if resp.Page != nil {
				gotPage = resp.Page.Name
			}
			if gotPage != tt.wantPage {
				t.Errorf("Page = %q, want %q", gotPage, tt.wantPage)
			}
		})
	}
}

func TestWorker_GetObjectByID(t *testing.T) {
	w := startWorker(t)
	ctx := context.Background()

	if _, err := w.Do(ctx, ParseRequest(dashboard)); err != nil {
		t.Fatalf("Do(Parse) error = %v", err)
	}
	closest, err := w.Do(ctx, ClosestObjectRequest(10, 10))
	if err != nil || closest.Page == nil {
		t.Fatalf("Do(GetClosestObject) = %+v, %v", closest, err)
	}

	resp, err := w.Do(ctx, ObjectByIDRequest(closest.Page.ID))
	if err != nil {
		t.Fatalf("Do(GetObjectById) error = %v", err)
	}
	page, ok := resp.Object.(*ast.LayoutObject)
	if !ok || page.Name != "About" {
		t.Errorf("Object = %+v, want page About", resp.Object)
	}
}

func TestWorker_ParseAndSetSelection(t *testing.T) {
	w := startWorker(t)

	resp, err := w.Do(context.Background(), ParseAndSetSelectionRequest(dashboard, 8, 5))
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	if resp.Type != ResponseParsedAndSetSelection {
		t.Errorf("Type = %q, want %q", resp.Type, ResponseParsedAndSetSelection)
	}
	if resp.Title != "Sales" || len(resp.Objects) != 2 {
		t.Errorf("parse result = %q with %d objects, want Sales with 2", resp.Title, len(resp.Objects))
	}
	if resp.Page == nil || resp.Page.Name != "Daily" {
		t.Errorf("Page = %+v, want Daily", resp.Page)
	}
	if resp.Object == nil || resp.Object.ObjectType() != ast.ObjectTypePage {
		t.Errorf("Object = %v, want the Daily page", resp.Object)
	}
}

func TestWorker_ReparseReplacesDocument(t *testing.T) {
	w := startWorker(t)
	ctx := context.Background()

	if _, err := w.Do(ctx, ParseRequest(dashboard)); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	resp, err := w.Do(ctx, ParseRequest("title: Other\n"))
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if resp.Title != "Other" || len(resp.Objects) != 1 {
		t.Errorf("reparse = %q with %d objects, want Other with 1", resp.Title, len(resp.Objects))
	}

	closest, err := w.Do(ctx, ClosestObjectRequest(7, 7))
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if closest.Object != nil {
		t.Errorf("Object = %v, want nil after the layout was removed", closest.Object)
	}
}

func TestResponse_MarshalJSON(t *testing.T) {
	page := &ast.LayoutObject{Type: ast.ObjectTypePage, ID: "p", Name: "Home", Span: ast.LineSpan{Start: 2, End: 3}}

	tests := []struct {
		name    string
		resp    Response
		wantKey string
		noKey   string
	}{
		{"selection", Response{Type: ResponseParsedAndSetSelection, Object: page, Page: page}, "selectedObject", "object"},
		{"closest", Response{Type: ResponseClosestObject, Object: page, Page: page}, "object", "selectedObject"},
		{"closest miss", Response{Type: ResponseClosestObject}, "object", "selectedObject"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.resp)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}

			var got map[string]json.RawMessage
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if _, ok := got[tt.wantKey]; !ok {
				t.Errorf("%s missing from %s", tt.wantKey, data)
			}
			if _, ok := got[tt.noKey]; ok {
				t.Errorf("%s present in %s", tt.noKey, data)
			}
			if string(got["type"]) != `"`+string(tt.resp.Type)+`"` {
				t.Errorf("type = %s, want %q", got["type"], tt.resp.Type)
			}
		})
	}
}

func TestWorker_SerializesConcurrentCallers(t *testing.T) {
	w := startWorker(t, WithQueueSize(2))
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			title := strings.Repeat("x", i+1)
			resp, err := w.Do(ctx, ParseRequest("title: "+title+"\n"))
			if err != nil {
				errs <- err
				return
			}
			if resp.Title != title {
				errs <- errors.New("response for another request: " + resp.Title)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestWorker_NotRunning(t *testing.T) {
	w := New(nil)

	if _, err := w.Do(context.Background(), ParseRequest("title: x")); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Do() before Start error = %v, want ErrNotRunning", err)
	}

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := w.Start(context.Background()); err == nil {
		t.Error("second Start() succeeded")
	}

	w.Stop()
	w.Stop()

	if _, err := w.Do(context.Background(), ParseRequest("title: x")); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Do() after Stop error = %v, want ErrNotRunning", err)
	}
}

func TestWorker_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := New(nil)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	cancel()
	w.Stop()

	if _, err := w.Do(context.Background(), ParseRequest("title: x")); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Do() after cancel error = %v, want ErrNotRunning", err)
	}
}

func TestWorker_DoHonorsContext(t *testing.T) {
	w := startWorker(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := w.Do(ctx, ParseRequest(dashboard)); !errors.Is(err, context.Canceled) {
		t.Errorf("Do() error = %v, want context.Canceled", err)
	}
}

func TestWorker_UnknownRequest(t *testing.T) {
	w := startWorker(t)

	if _, err := w.Do(context.Background(), Request{Type: "Render"}); err == nil {
		t.Error("Do() with unknown type succeeded")
	}
}

func TestWorker_Metrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(&config.MetricsConfig{Enabled: true}, registry)
	w := startWorker(t, WithMetrics(collector))
	ctx := context.Background()

	_, _ = w.Do(ctx, ParseRequest(dashboard))
	_, _ = w.Do(ctx, ParseRequest("title: Demo\nlayout:\n  - \"unterminated\n"))
	_, _ = w.Do(ctx, ClosestObjectRequest(40, 40))

	expected := `
# HELP layoutd_parses_total Total number of layout parses
# TYPE layoutd_parses_total counter
layoutd_parses_total{result="ok"} 1
layoutd_parses_total{result="recovered"} 1
`
	if err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "layoutd_parses_total"); err != nil {
		t.Error(err)
	}

	expected = `
# HELP layoutd_lookups_total Total number of document lookups
# TYPE layoutd_lookups_total counter
layoutd_lookups_total{kind="object",result="miss"} 1
layoutd_lookups_total{kind="page",result="miss"} 1
`
	if err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "layoutd_lookups_total"); err != nil {
		t.Error(err)
	}
}

func TestWorker_Tracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := tracing.NewWithExporter(&config.TracingConfig{Enabled: true, Sampler: "always", ServiceName: "test"}, "test", exporter, true)
	if err != nil {
		t.Fatalf("NewWithExporter() error = %v", err)
	}
	defer tracer.Shutdown(context.Background())

	w := startWorker(t, WithTracer(tracer), WithDocumentID("sales"))
	if _, err := w.Do(context.Background(), ParseRequest(dashboard)); err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("len(spans) = %d, want 1", len(spans))
	}
	if spans[0].Name != "worker.Parse" {
		t.Errorf("span name = %q, want %q", spans[0].Name, "worker.Parse")
	}

	attrs := make(map[string]string)
	for _, kv := range spans[0].Attributes {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	if attrs[tracing.AttrDocumentID] != "sales" {
		t.Errorf("%s = %q, want %q", tracing.AttrDocumentID, attrs[tracing.AttrDocumentID], "sales")
	}
	if attrs[tracing.AttrParseFailed] != "false" {
		t.Errorf("%s = %q, want false", tracing.AttrParseFailed, attrs[tracing.AttrParseFailed])
	}
}

func TestDebouncer_CollapsesBurst(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	calls := make(chan int, 10)
	for i := 1; i <= 5; i++ {
		d.Trigger(func() { calls <- i })
	}

	select {
	case got := <-calls:
		if got != 5 {
			t.Errorf("callback = %d, want the last trigger (5)", got)
		}
	case <-time.After(time.Second):
		t.Fatal("debounced callback never ran")
	}

	select {
	case got := <-calls:
		t.Errorf("extra callback %d, want exactly one", got)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestDebouncer_Flush(t *testing.T) {
	d := NewDebouncer(time.Hour)
	defer d.Stop()

	ran := false
	d.Trigger(func() { ran = true })
	d.Flush()

	if !ran {
		t.Error("Flush() did not run the waiting callback")
	}
}

func TestDebouncer_SupersededTimerDoesNothing(t *testing.T) {
	d := NewDebouncer(time.Hour)
	defer d.Stop()

	calls := 0
	d.Trigger(func() { calls++ })

	d.mu.Lock()
	superseded := d.gen
	d.mu.Unlock()

	d.Trigger(func() { calls += 10 })

	// A timer that fired before the second Trigger stopped it.
	d.fire(superseded)
	if calls != 0 {
		t.Fatalf("calls = %d after superseded timer fired, want 0", calls)
	}

	d.Flush()
	if calls != 10 {
		t.Errorf("calls = %d after Flush, want 10 (latest callback only)", calls)
	}
}

func TestDebouncer_Stop(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)

	calls := make(chan struct{}, 2)
	d.Trigger(func() { calls <- struct{}{} })
	d.Stop()
	d.Trigger(func() { calls <- struct{}{} })

	select {
	case <-calls:
		t.Error("callback ran after Stop")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNewDebouncer_DefaultInterval(t *testing.T) {
	if got := NewDebouncer(0).Interval(); got != DefaultDebounce {
		t.Errorf("Interval() = %v, want %v", got, DefaultDebounce)
	}
}
