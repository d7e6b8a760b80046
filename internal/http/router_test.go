package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/meetgrid/meetgrid/internal/backend"
	"github.com/meetgrid/meetgrid/internal/booking"
	"github.com/meetgrid/meetgrid/internal/config"
	"github.com/meetgrid/meetgrid/internal/render"
	"github.com/meetgrid/meetgrid/internal/schedule"
	"github.com/meetgrid/meetgrid/internal/tz"
	"github.com/meetgrid/meetgrid/internal/ui"
	"github.com/meetgrid/meetgrid/internal/view"
)

func newTestRouter(t *testing.T) (http.Handler, *httptest.Server) {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Every contract endpoint answers with an empty collection.
		w.Write([]byte("[]"))
	}))
	t.Cleanup(upstream.Close)

	cfg := &config.Config{BaseURL: "http://localhost:8080"}
	conv, err := tz.NewConverter("Asia/Tokyo")
	if err != nil {
		t.Fatalf("NewConverter: %v", err)
	}
	client := backend.NewClient(upstream.URL, 2*time.Second)
	store := view.NewStore(conv.Location(), time.Now())
	agg := schedule.NewAggregator(client, conv)
	wf := booking.NewWorkflow(client, agg, store)
	uiHandler := ui.NewHandler(cfg, store, agg, wf, render.New(conv), conv)

	return NewRouter(cfg, uiHandler, client), upstream
}

func TestHealthEndpoints(t *testing.T) {
	router, upstream := newTestRouter(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s = %d, want 200", path, w.Code)
		}
	}

	upstream.Close()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("/readyz with unreachable backend = %d, want 503", w.Code)
	}
}

func TestMetricsDisabledByDefault(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("/metrics = %d, want 404 when disabled", w.Code)
	}
}

func TestMutationsRequireCSRFToken(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest("POST", "/calendar/view", strings.NewReader("view=week"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("POST without csrf token = %d, want 403", w.Code)
	}
}

func TestCalendarPageServes(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET / = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "MeetGrid") {
		t.Error("page body missing application shell")
	}

	var csrfCookie bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "meetgrid_csrf" {
			csrfCookie = true
		}
	}
	if !csrfCookie {
		t.Error("csrf cookie not issued on first page load")
	}
}
