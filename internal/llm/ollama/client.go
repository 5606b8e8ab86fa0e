package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	ollama "github.com/ollama/ollama/api"

	"seo-backend/internal/llm"
)

const defaultEmbeddingModel = "nomic-embed-text"

// Client implements llm.Completer and llm.Embedder on a local Ollama server.
type Client struct {
	api            *ollama.Client
	model          string
	embeddingModel string
}

// NewClient builds a client from OLLAMA_HOST (see ollama.ClientFromEnvironment).
func NewClient(model, embeddingModel string) (*Client, error) {
	api, err := ollama.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("could not create ollama client: %w", err)
	}
	return newClient(api, model, embeddingModel)
}

// NewClientWithURL builds a client against an explicit server address.
func NewClientWithURL(baseURL, model, embeddingModel string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse ollama url: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return newClient(ollama.NewClient(u, httpClient), model, embeddingModel)
}

func newClient(api *ollama.Client, model, embeddingModel string) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Ollama")
	}
	if strings.TrimSpace(embeddingModel) == "" {
		embeddingModel = defaultEmbeddingModel
	}
	return &Client{api: api, model: model, embeddingModel: embeddingModel}, nil
}

// Complete runs a non-streaming chat with one system and one user message.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	stream := false
	req := &ollama.ChatRequest{
		Model: c.model,
		Messages: []ollama.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream: &stream,
		Options: map[string]any{
			"temperature": 0.3,
		},
	}

	var b strings.Builder
	err := c.api.Chat(ctx, req, func(res ollama.ChatResponse) error {
		b.WriteString(res.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}

	content := strings.TrimSpace(b.String())
	if content == "" {
		return "", fmt.Errorf("ollama response empty content")
	}
	return content, nil
}

// Embed returns the embedding vector for text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.api.Embed(ctx, &ollama.EmbedRequest{
		Model: c.embeddingModel,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embed failed: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0]) == 0 {
		return nil, fmt.Errorf("ollama response missing embedding")
	}
	return resp.Embeddings[0], nil
}

var (
	_ llm.Completer = (*Client)(nil)
	_ llm.Embedder  = (*Client)(nil)
)
