package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestChecker_CheckReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
		wantFailed []string
	}{
		{
			name:       "no checks",
			checks:     nil,
			wantStatus: StatusReady,
		},
		{
			name: "all healthy",
			checks: map[string]CheckFunc{
				"store":   func(context.Context) error { return nil },
				"workers": func(context.Context) error { return nil },
			},
			wantStatus: StatusReady,
		},
		{
			name: "one failing",
			checks: map[string]CheckFunc{
				"store":   func(context.Context) error { return errors.New("database is locked") },
				"workers": func(context.Context) error { return nil },
			},
			wantStatus: StatusDegraded,
			wantFailed: []string{"store"},
		},
		{
			name: "timeout",
			checks: map[string]CheckFunc{
				"slow": func(ctx context.Context) error {
					<-ctx.Done()
					time.Sleep(10 * time.Millisecond)
					return nil
				},
			},
			wantStatus: StatusDegraded,
			wantFailed: []string{"slow"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(50 * time.Millisecond)
			for name, check := range tt.checks {
				checker.RegisterCheck(name, check)
			}

			status := checker.CheckReadiness(context.Background())

			if status.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", status.Status, tt.wantStatus)
			}
			if len(status.Checks) != len(tt.checks) {
				t.Errorf("len(Checks) = %d, want %d", len(status.Checks), len(tt.checks))
			}
			for _, name := range tt.wantFailed {
				if status.Checks[name].Status != StatusUnhealthy || status.Checks[name].Message == "" {
					t.Errorf("Checks[%q] = %+v, want unhealthy with message", name, status.Checks[name])
				}
			}
		})
	}
}

func TestChecker_RegisterCheckReplaces(t *testing.T) {
	checker := New(0)
	checker.RegisterCheck("store", func(context.Context) error { return errors.New("down") })
	checker.RegisterCheck("store", func(context.Context) error { return nil })
	checker.RegisterCheck("workers", func(context.Context) error { return nil })

	if got := checker.ListChecks(); len(got) != 2 || got[0] != "store" || got[1] != "workers" {
		t.Errorf("ListChecks() = %v, want [store workers]", got)
	}
	if status := checker.CheckReadiness(context.Background()); status.Status != StatusReady {
		t.Errorf("Status = %q, want ready after replacing the failing check", status.Status)
	}
}

func TestRegister(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("store", func(context.Context) error { return errors.New("down") })

	mux := http.NewServeMux()
	Register(mux, checker, "1.2.3", "abc123", "2026-10-19")

	tests := []struct {
		method   string
		path     string
		wantCode int
		wantBody bool
	}{
		{http.MethodGet, "/health", http.StatusOK, true},
		{http.MethodHead, "/health", http.StatusOK, false},
		{http.MethodGet, "/ready", http.StatusServiceUnavailable, true},
		{http.MethodGet, "/version", http.StatusOK, true},
		{http.MethodPost, "/health", http.StatusMethodNotAllowed, true},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if (rec.Body.Len() > 0) != tt.wantBody {
				t.Errorf("body length = %d, wantBody %v", rec.Body.Len(), tt.wantBody)
			}
		})
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	var info VersionInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decoding version failed: %v", err)
	}
	if info.Version != "1.2.3" || info.Commit != "abc123" || info.GoVersion == "" {
		t.Errorf("version = %+v", info)
	}
}
