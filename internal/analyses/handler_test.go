package analyses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"seo-backend/internal/fetch"
	"seo-backend/internal/shared/server/middleware"
)

func setupAnalysisRouter(t *testing.T, svc *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(middleware.RequestID())
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func postAnalyze(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, resp.Body.String())
	}
	return env
}

func TestAnalyzeEndpointFreshThenCached(t *testing.T) {
	svc, _, _ := newTestService(&fakeFetcher{html: shortTitleHTML}, &fakeRetriever{})
	router := setupAnalysisRouter(t, svc)

	for i, wantCached := range []bool{false, true} {
		resp := postAnalyze(t, router, `{"url":"https://example.com"}`)
		if resp.Code != http.StatusOK {
			t.Fatalf("call %d: expected 200, got %d (%s)", i, resp.Code, resp.Body.String())
		}
		var body struct {
			URL             string           `json:"url"`
			Score           int              `json:"score"`
			Cached          bool             `json:"cached"`
			Issues          []string         `json:"issues"`
			Recommendations []map[string]any `json:"recommendations"`
			PageFeatures    struct {
				Title string `json:"title"`
			} `json:"pageFeatures"`
		}
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.Cached != wantCached {
			t.Fatalf("call %d: expected cached=%v", i, wantCached)
		}
		if body.Score != 45 || body.PageFeatures.Title != "Short" || len(body.Recommendations) != 9 {
			t.Fatalf("call %d: unexpected body %s", i, resp.Body.String())
		}
	}
}

func TestAnalyzeEndpointValidation(t *testing.T) {
	fetcher := &fakeFetcher{html: shortTitleHTML}
	svc, _, _ := newTestService(fetcher, &fakeRetriever{})
	router := setupAnalysisRouter(t, svc)

	for _, body := range []string{`{}`, `{"url":""}`, `{"url":"mailto:a@b.c"}`, `not json`} {
		resp := postAnalyze(t, router, body)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, resp.Code)
		}
		if env := decodeError(t, resp); env.Error.Code != ErrorCodeValidation {
			t.Fatalf("%s: expected validation_error, got %q", body, env.Error.Code)
		}
	}
	if fetcher.Calls() != 0 {
		t.Fatalf("expected no fetch for invalid input")
	}
}

func TestAnalyzeEndpointFetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: &fetch.Error{URL: "https://example.com", Reason: "unreachable"}}
	svc, _, _ := newTestService(fetcher, &fakeRetriever{})
	router := setupAnalysisRouter(t, svc)

	resp := postAnalyze(t, router, `{"url":"https://example.com"}`)
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
	env := decodeError(t, resp)
	if env.Error.Code != ErrorCodeFetchFailed {
		t.Fatalf("expected fetch_failed, got %q", env.Error.Code)
	}
	if env.Error.Message == "" {
		t.Fatalf("expected message to be attached")
	}
}

func TestAnalyzeEndpointUpstreamFailure(t *testing.T) {
	svc, _, _ := newTestService(&fakeFetcher{html: shortTitleHTML}, &fakeRetriever{err: errors.New("index offline")})
	router := setupAnalysisRouter(t, svc)

	resp := postAnalyze(t, router, `{"url":"https://example.com"}`)
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
	env := decodeError(t, resp)
	if env.Error.Code != ErrorCodeUpstream {
		t.Fatalf("expected upstream_error, got %q", env.Error.Code)
	}
	if !bytes.Contains([]byte(env.Error.Message), []byte("index offline")) {
		t.Fatalf("expected underlying message, got %q", env.Error.Message)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	svc, repo, _ := newTestService(&fakeFetcher{html: shortTitleHTML}, &fakeRetriever{})
	for _, u := range []string{"https://a.example", "https://b.example"} {
		if _, err := repo.Create(context.Background(), Result{URL: u, Score: 50}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	router := setupAnalysisRouter(t, svc)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/history?limit=1", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var items []HistoryItem
	if err := json.Unmarshal(resp.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].URL != "https://b.example" {
		t.Fatalf("unexpected history: %+v", items)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/history?limit=abc", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", resp.Code)
	}
}
