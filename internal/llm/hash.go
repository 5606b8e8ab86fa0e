package llm

import (
	"context"
	"math"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// DefaultHashDimensions is the vector length used when none is configured.
const DefaultHashDimensions = 256

// HashEmbedder is an offline Embedder based on feature hashing of word
// unigrams and bigrams. Identical text always yields the identical vector.
type HashEmbedder struct {
	Dimensions int
}

// NewHashEmbedder returns a HashEmbedder with dims dimensions (DefaultHashDimensions if dims <= 0).
func NewHashEmbedder(dims int) HashEmbedder {
	if dims <= 0 {
		dims = DefaultHashDimensions
	}
	return HashEmbedder{Dimensions: dims}
}

// Embed returns an L2-normalized vector. Text without any word yields the zero vector.
func (h HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dims := h.Dimensions
	if dims <= 0 {
		dims = DefaultHashDimensions
	}
	vec := make([]float32, dims)

	tokens := tokenize(text)
	for i, tok := range tokens {
		h.add(vec, tok)
		if i > 0 {
			h.add(vec, tokens[i-1]+" "+tok)
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec, nil
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec, nil
}

func (h HashEmbedder) add(vec []float32, feature string) {
	sum := xxhash.Sum64String(feature)
	idx := sum % uint64(len(vec))
	if sum>>63 == 1 {
		vec[idx]--
		return
	}
	vec[idx]++
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

var _ Embedder = HashEmbedder{}
