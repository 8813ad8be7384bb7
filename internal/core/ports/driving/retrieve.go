package driving

import (
	"context"

	"github.com/burrowlabs/burrow-cli/internal/core/domain"
)

// Retriever answers similarity queries against one collection.
type Retriever interface {
	// Retrieve embeds the query with the collection's model and returns
	// up to topK passages ordered by descending similarity. Ties break
	// on source uri, then heading path, for determinism. Returns
	// domain.ErrRetrieval when the collection is missing or empty; an
	// empty collection is a hard failure, not an empty result.
	Retrieve(ctx context.Context, query, collection string, topK int) ([]domain.RetrievalResult, error)
}

// Answerer turns a question into a natural-language answer grounded in
// retrieved passages.
type Answerer interface {
	// Answer retrieves context for the question and asks the language
	// model to answer from it. Returns the answer and the passages it
	// was grounded on.
	Answer(ctx context.Context, question, collection string, topK int) (string, []domain.RetrievalResult, error)
}
