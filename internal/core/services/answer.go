package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/burrowlabs/burrow-cli/internal/core/domain"
	"github.com/burrowlabs/burrow-cli/internal/core/ports/driven"
	"github.com/burrowlabs/burrow-cli/internal/core/ports/driving"
	"github.com/burrowlabs/burrow-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.Answerer = (*AnswerService)(nil)

// answerSystemPrompt instructs the model to stay grounded in the
// retrieved passages.
const answerSystemPrompt = `You are a documentation assistant. Answer the question using ONLY the provided context passages.
If the context does not contain the answer, say so. Cite the source of each claim.`

// AnswerService turns a question into a grounded natural-language
// answer by retrieving passages and asking the LLM.
type AnswerService struct {
	retriever driving.Retriever
	llm       driven.LLMService
}

// NewAnswerService creates a new answer service.
func NewAnswerService(retriever driving.Retriever, llm driven.LLMService) *AnswerService {
	return &AnswerService{
		retriever: retriever,
		llm:       llm,
	}
}

// Answer retrieves context for the question and asks the language model
// to answer from it. The retrieved passages are returned alongside the
// answer so callers can show attribution.
func (s *AnswerService) Answer(ctx context.Context, question, collection string, topK int) (string, []domain.RetrievalResult, error) {
	if s.llm == nil {
		return "", nil, fmt.Errorf("no LLM configured; use retrieval directly or configure one")
	}

	passages, err := s.retriever.Retrieve(ctx, question, collection, topK)
	if err != nil {
		return "", nil, err
	}

	logger.Debug("Answering with %d passage(s) via %s", len(passages), s.llm.ModelName())

	answer, err := s.llm.Chat(ctx, answerSystemPrompt, buildPrompt(question, passages))
	if err != nil {
		return "", passages, fmt.Errorf("generate answer: %w", err)
	}

	return answer, passages, nil
}

// buildPrompt formats the retrieved passages and the question into the
// user message.
func buildPrompt(question string, passages []domain.RetrievalResult) string {
	var b strings.Builder
	b.WriteString("Context passages:\n\n")
	for i, p := range passages {
		fmt.Fprintf(&b, "[%d] Source: %s", i+1, p.SourceURI)
		if len(p.HeadingPath) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(p.HeadingPath, " > "))
		}
		b.WriteString("\n")
		b.WriteString(p.Content)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Question: %s", question)
	return b.String()
}
