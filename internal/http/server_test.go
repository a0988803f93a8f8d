package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fpa/internal/core"
	"fpa/internal/fixtures"
	"fpa/internal/intent"
	"fpa/internal/services"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	src, err := fixtures.NewMemorySource(
		[]core.Record{
			{Month: "2025-06", Entity: "ParentCo", AccountCategory: "Revenue", Amount: 1000, Currency: "USD"},
			{Month: "2025-06", Entity: "ParentCo", AccountCategory: "COGS", Amount: 400, Currency: "USD"},
			{Month: "2025-06", Entity: "ParentCo", AccountCategory: "Opex:Marketing", Amount: 100, Currency: "USD"},
		},
		[]core.Record{
			{Month: "2025-06", Entity: "ParentCo", AccountCategory: "Revenue", Amount: 900, Currency: "USD"},
		},
		nil, nil,
	)
	if err != nil {
		t.Fatal(err)
	}
	return NewServer(":0", services.NewCopilot(src, 0, 0))
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleAsk(t *testing.T) {
	s := testServer(t)
	defer s.rateLimiter.stop()

	rec := doRequest(t, s, http.MethodPost, "/api/ask", `{"question":"What was June 2025 revenue vs budget?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp askResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Answer.Intent.Kind != intent.KindRevenueVsBudget {
		t.Errorf("intent kind = %q", resp.Answer.Intent.Kind)
	}
	if !strings.Contains(resp.Answer.Text, "$1000.00") {
		t.Errorf("headline = %q", resp.Answer.Text)
	}
}

func TestHandleAskBadRequests(t *testing.T) {
	s := testServer(t)
	defer s.rateLimiter.stop()

	tests := []struct {
		name       string
		method     string
		body       string
		wantStatus int
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"invalid json", http.MethodPost, "{not json", http.StatusBadRequest},
		{"empty question", http.MethodPost, `{"question":"  "}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, tt.method, "/api/ask", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandleAskUnknownQuestionStillAnswers(t *testing.T) {
	s := testServer(t)
	defer s.rateLimiter.stop()

	rec := doRequest(t, s, http.MethodPost, "/api/ask", `{"question":"how is the weather?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp askResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Answer.Intent.Kind != intent.KindUnknown {
		t.Errorf("intent kind = %q", resp.Answer.Intent.Kind)
	}
}

func TestHandleEBITDA(t *testing.T) {
	s := testServer(t)
	defer s.rateLimiter.stop()

	rec := doRequest(t, s, http.MethodGet, "/api/ebitda?month=2025-06", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp ebitdaResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	// 1000 − 400 − 100 = 500.
	if resp.EBITDAUSD < 499.99 || resp.EBITDAUSD > 500.01 {
		t.Errorf("EBITDA = %v, want 500", resp.EBITDAUSD)
	}

	if rec := doRequest(t, s, http.MethodGet, "/api/ebitda?month=junk", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad month status = %d", rec.Code)
	}
	if rec := doRequest(t, s, http.MethodGet, "/api/ebitda", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("missing month status = %d", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := testServer(t)
	defer s.rateLimiter.stop()

	for _, path := range []string{"/healthz", "/readyz"} {
		if rec := doRequest(t, s, http.MethodGet, path, ""); rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
		}
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i < 60; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d unexpectedly limited", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Error("request 61 should be limited")
	}
	if !rl.allow("10.0.0.2") {
		t.Error("other clients should not be limited")
	}
}
