package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsRequest(t *testing.T, allowed []string, method, origin string, preflight bool) (*httptest.ResponseRecorder, *bool) {
	t.Helper()

	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(method, "/api/dashboard/stats", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if preflight {
		req.Header.Set("Access-Control-Request-Method", "POST")
	}
	rec := httptest.NewRecorder()
	CORS(allowed)(handler).ServeHTTP(rec, req)
	return rec, &called
}

func TestCORS_AllowsListedOrigin(t *testing.T) {
	rec, called := corsRequest(t, []string{"https://dashboard.whatsbiz.app"}, http.MethodGet, "https://dashboard.whatsbiz.app", false)

	if !*called {
		t.Fatalf("expected handler to be called")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://dashboard.whatsbiz.app" {
		t.Fatalf("expected allow origin header, got %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Fatalf("expected allow methods header")
	}
	if rec.Header().Get("Vary") != "Origin" {
		t.Fatalf("expected Vary: Origin, got %q", rec.Header().Get("Vary"))
	}
}

func TestCORS_DeniesUnknownOrigin(t *testing.T) {
	rec, called := corsRequest(t, []string{"https://dashboard.whatsbiz.app"}, http.MethodGet, "https://evil.example", false)

	if !*called {
		t.Fatalf("request should still reach the handler")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow origin header, got %q", got)
	}
}

func TestCORS_WildcardEchoesOrigin(t *testing.T) {
	rec, _ := corsRequest(t, []string{"*"}, http.MethodGet, "https://random.example", false)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://random.example" {
		t.Fatalf("expected echoed origin, got %q", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	rec, called := corsRequest(t, []string{"https://dashboard.whatsbiz.app"}, http.MethodOptions, "https://dashboard.whatsbiz.app", true)

	if *called {
		t.Fatalf("preflight must not reach the handler")
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
}

func TestCORS_NoOriginHeader(t *testing.T) {
	rec, called := corsRequest(t, []string{"*"}, http.MethodGet, "", false)

	if !*called {
		t.Fatalf("expected handler to be called")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow origin header for same-origin request, got %q", got)
	}
}
