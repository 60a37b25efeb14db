package similarity

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/masaki925/marcov-rap/pkg/embedding"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultModel is used when no embedding model is configured.
const DefaultModel = "text-embedding-3-small"

// OpenAI scores pairs by the cosine of their OpenAI embeddings.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI builds a scorer. opts are passed to the client, so tests can
// point it at a local server with option.WithBaseURL.
func NewOpenAI(apiKey, model string, opts ...option.RequestOption) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.New("similarity: openai api key is empty")
	}
	if model == "" {
		model = DefaultModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAI{client: openai.NewClient(opts...), model: model}, nil
}

// Score implements Scorer with a single embeddings request.
func (o *OpenAI) Score(ctx context.Context, refs, hyps []string) ([]Score, error) {
	if err := checkPairs(refs, hyps); err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, nil
	}
	texts := append(append([]string{}, refs...), hyps...)
	resp, err := o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(o.model),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	vecs := make([][]float64, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(vecs) {
			return nil, fmt.Errorf("openai embeddings: index %d out of range", d.Index)
		}
		vecs[d.Index] = d.Embedding
	}
	log.Debug("openai similarity", "pairs", len(refs), "model", o.model)

	n := len(refs)
	scores := make([]Score, n)
	for i := 0; i < n; i++ {
		f := embedding.Cosine(vecs[i], vecs[n+i])
		scores[i] = Score{Precision: f, Recall: f, F1: f}
	}
	return scores, nil
}

// New returns the scorer for backend.
func New(backend, apiKey, model string) (Scorer, error) {
	switch backend {
	case "", BackendLexical:
		return Lexical{}, nil
	case BackendOpenAI:
		return NewOpenAI(apiKey, model)
	default:
		return nil, fmt.Errorf("similarity: unknown backend %q", backend)
	}
}
