package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func setDevEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENV", "dev")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("LLM_PROVIDER", "placeholder")
	t.Setenv("EMBEDDING_PROVIDER", "hash")
	t.Setenv("LOG_LEVEL", "error")
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func testPage(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Short</title></head><body><h1>Hello</h1></body></html>`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnalyzeJSON(t *testing.T) {
	setDevEnv(t)
	page := testPage(t)

	out, err := runRoot(t, "analyze", page.URL)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var res struct {
		URL    string `json:"url"`
		Score  int    `json:"score"`
		Cached bool   `json:"cached"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if res.URL != page.URL || res.Cached {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Score != 55 {
		t.Fatalf("expected score 55 with one heading, got %d", res.Score)
	}
}

func TestAnalyzeMarkdown(t *testing.T) {
	setDevEnv(t)
	page := testPage(t)

	out, err := runRoot(t, "analyze", page.URL, "--format", "markdown")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out, "# SEO Report") || !strings.Contains(out, "- Hello") {
		t.Fatalf("unexpected markdown:\n%s", out)
	}
}

func TestAnalyzeRejectsUnknownFormat(t *testing.T) {
	setDevEnv(t)
	if _, err := runRoot(t, "analyze", "https://example.com", "--format", "xml"); err == nil {
		t.Fatalf("expected format error")
	}
}

func TestSeedReportsCorpusSize(t *testing.T) {
	setDevEnv(t)
	out, err := runRoot(t, "seed")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !strings.Contains(out, "processed 15 entries, index holds 15") {
		t.Fatalf("unexpected output %q", out)
	}
}
