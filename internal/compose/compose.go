// Package compose turns retrieved context (or the whole document) into the
// final natural-language reply. All prompts pin the answer to the document
// content so the model cannot freelance.
package compose

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"docsage/internal/budget"
	"docsage/internal/rag"
)

// ErrEmptyDocument is returned when summarization is requested but the
// stored document has no text.
var ErrEmptyDocument = errors.New("compose: document has no text to summarize")

// answerTemperature balances fluency against drift for grounded replies.
const answerTemperature = 0.7

// contextSeparator joins retrieved chunks in the answer prompt so chunk
// boundaries stay visible to the model.
const contextSeparator = "\n---\n"

// Composer produces answers and summaries through a chat model.
type Composer struct {
	gen rag.Generator
}

// New constructs a Composer over the given generator.
func New(gen rag.Generator) *Composer {
	return &Composer{gen: gen}
}

// Answer composes a reply to question grounded strictly in the retrieved
// contexts. filename names the source document, language the language the
// reply must be written in.
func (c *Composer) Answer(ctx context.Context, question, filename, language string, contexts []string) (string, error) {
	system := fmt.Sprintf(`You are a helpful assistant answering questions about the document "%s".
Answer using ONLY the provided context. If the context does not contain the information needed, say that the document does not contain this information. Do not use outside knowledge.
Write your answer in %s.`, filename, language)

	user := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", strings.Join(contexts, contextSeparator), question)

	answer, err := c.gen.Generate(ctx, system, user, answerTemperature)
	if err != nil {
		return "", fmt.Errorf("compose: answer: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// Summarize produces a summary of the whole document text in the given
// language. Returns ErrEmptyDocument when fullText is blank. Very large
// documents are truncated to the context budget before being sent.
func (c *Composer) Summarize(ctx context.Context, fullText, filename, language string) (string, error) {
	if strings.TrimSpace(fullText) == "" {
		return "", ErrEmptyDocument
	}

	system := fmt.Sprintf(`You are a helpful assistant summarizing the document "%s".
Produce a concise summary that covers the document's main points. Base the summary ONLY on the provided text.
Write the summary in %s.`, filename, language)

	summary, err := c.gen.Generate(ctx, system, budget.Truncate(fullText, 0), answerTemperature)
	if err != nil {
		return "", fmt.Errorf("compose: summarize: %w", err)
	}
	return strings.TrimSpace(summary), nil
}
