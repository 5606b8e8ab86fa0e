package knowledge

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"seo-backend/internal/llm"
)

//go:embed corpus.yaml
var corpusYAML []byte

type corpusFile struct {
	Entries []Entry `yaml:"entries"`
}

// LoadCorpus returns the built-in knowledge entries, without embeddings.
func LoadCorpus() ([]Entry, error) {
	var f corpusFile
	if err := yaml.Unmarshal(corpusYAML, &f); err != nil {
		return nil, fmt.Errorf("parse corpus: %w", err)
	}
	seen := make(map[string]struct{}, len(f.Entries))
	for _, e := range f.Entries {
		if e.ID == "" || e.Text == "" {
			return nil, fmt.Errorf("corpus entry %q: id and text are required", e.ID)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("corpus entry %q: duplicate id", e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return f.Entries, nil
}

// Seed embeds and inserts entries in order. It returns the number of entries processed.
func Seed(ctx context.Context, idx Index, embedder llm.Embedder, entries []Entry) (int, error) {
	for i, e := range entries {
		vec, err := embedder.Embed(ctx, e.Text)
		if err != nil {
			return i, fmt.Errorf("embed %s: %w", e.ID, err)
		}
		e.Embedding = vec
		if err := idx.Insert(ctx, e); err != nil {
			return i, fmt.Errorf("insert %s: %w", e.ID, err)
		}
	}
	return len(entries), nil
}

// SeedIfEmpty seeds the built-in corpus only when the index holds no entries.
func SeedIfEmpty(ctx context.Context, idx Index, embedder llm.Embedder) (int, error) {
	n, err := idx.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count knowledge entries: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	entries, err := LoadCorpus()
	if err != nil {
		return 0, err
	}
	return Seed(ctx, idx, embedder, entries)
}
