package chat

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"seo-backend/internal/knowledge"
)

func setupChatRouter(t *testing.T, a *Assistant) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(a).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func postChat(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestChatEndpoint(t *testing.T) {
	retriever := &fakeRetriever{matches: []knowledge.Match{match("kb-1", "text", "Guide")}}
	assistant, _ := newAssistant(retriever, &recordingLLM{reply: "answer"})
	router := setupChatRouter(t, assistant)

	resp := postChat(router, `{"message":"What is SEO?","sessionId":"s1"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.Code, resp.Body.String())
	}
	var body Reply
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.SessionID != "s1" || len(body.Sources) != 1 || body.Sources[0] != "Guide" || body.Response == "" {
		t.Fatalf("unexpected reply: %+v", body)
	}
}

func TestChatEndpointErrors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		model  *recordingLLM
		status int
		code   string
	}{
		{"missing message", `{"sessionId":"s1"}`, &recordingLLM{}, http.StatusBadRequest, "validation_error"},
		{"bad json", `{`, &recordingLLM{}, http.StatusBadRequest, "validation_error"},
		{"llm failure", `{"message":"hi"}`, &recordingLLM{err: errors.New("rate limited")}, http.StatusBadGateway, "upstream_error"},
	}
	for _, tc := range cases {
		assistant, _ := newAssistant(&fakeRetriever{}, tc.model)
		resp := postChat(setupChatRouter(t, assistant), tc.body)
		if resp.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.status, resp.Code)
		}
		var env struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s: decode: %v", tc.name, err)
		}
		if env.Error.Code != tc.code {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.code, env.Error.Code)
		}
	}
}

func TestChatEndpointFailureExposesSessionID(t *testing.T) {
	assistant, _ := newAssistant(&fakeRetriever{}, &recordingLLM{err: errors.New("rate limited")})
	resp := postChat(setupChatRouter(t, assistant), `{"message":"hi"}`)
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
	var env struct {
		Error struct {
			Details struct {
				Stage     string `json:"stage"`
				SessionID string `json:"sessionId"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Details.Stage != "complete" || env.Error.Details.SessionID == "" {
		t.Fatalf("expected stage and generated session id in details, got %s", resp.Body.String())
	}
}
