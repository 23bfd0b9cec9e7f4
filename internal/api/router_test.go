package api_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/M-Chris/testing-hello-worlds-on-common-langs/internal/api"
	"github.com/M-Chris/testing-hello-worlds-on-common-langs/internal/metrics"
)

func newRouter() http.Handler {
	return api.NewRouter(zap.NewNop(), api.RequestHooks{})
}

func TestRouter_GetRoot(t *testing.T) {
	r := newRouter()

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Fatalf("expected application/json, got %q", ct)
		}
		if body := strings.TrimSpace(rec.Body.String()); body != `{"message":"Hello World"}` {
			t.Fatalf("unexpected body %q", body)
		}
	}
}

func TestRouter_OtherRoutesFallThrough(t *testing.T) {
	r := newRouter()

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/missing", http.StatusNotFound},
		{http.MethodGet, "/metrics", http.StatusNotFound},
		{http.MethodPost, "/", http.StatusMethodNotAllowed},
		{http.MethodDelete, "/", http.StatusMethodNotAllowed},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestRouter_CorrelationID(t *testing.T) {
	r := newRouter()

	t.Run("echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Correlation-ID", "abc-123")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if got := rec.Header().Get("X-Correlation-ID"); got != "abc-123" {
			t.Fatalf("expected echoed id, got %q", got)
		}
	})

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if got := rec.Header().Get("X-Correlation-ID"); len(got) != 36 {
			t.Fatalf("expected a generated UUID, got %q", got)
		}
	})
}

func TestRouter_ConcurrentRequests(t *testing.T) {
	r := newRouter()

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			if rec.Code != http.StatusOK {
				errs <- rec.Body.String()
			}
		}()
	}
	wg.Wait()
	close(errs)

	for e := range errs {
		t.Fatalf("unexpected failure: %s", e)
	}
}

func TestRouter_Hooks(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	onStart, onDone := m.RequestHooks()

	var mu sync.Mutex
	var statuses []int
	r := api.NewRouter(zap.NewNop(), api.RequestHooks{
		OnStart: onStart,
		OnDone: func(status int, latency time.Duration) {
			onDone(status, latency)
			mu.Lock()
			statuses = append(statuses, status)
			mu.Unlock()
		},
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	if len(statuses) != 2 || statuses[0] != http.StatusOK || statuses[1] != http.StatusNotFound {
		t.Fatalf("unexpected statuses %v", statuses)
	}
}

func TestMetricsRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.Workers.Set(4)

	rec := httptest.NewRecorder()
	api.NewMetricsRouter(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "server_workers 4") {
		t.Fatalf("expected server_workers gauge in output, got:\n%s", body)
	}
}
