// Package query implements the ask flow: load the corpus, classify the
// question, and either summarize the whole document or retrieve the most
// relevant chunks and compose a grounded answer.
package query

import (
	"context"
	"fmt"

	"docsage/internal/classify"
	"docsage/internal/compose"
	"docsage/internal/corpus"
	"docsage/internal/logging"
	"docsage/internal/rag"
)

// NoDocumentAnswer is returned verbatim when no document has been learned
// yet. Asking before training is a normal user action, not an error.
const NoDocumentAnswer = "No document has been learned yet. Please upload a document first."

// Answer is the outcome of one question.
type Answer struct {
	// Text is the reply shown to the user.
	Text string
	// Language is the classified answer language.
	Language string
	// Intent is the strategy that produced the reply.
	Intent classify.Intent
}

// Pipeline answers questions against the stored corpus.
type Pipeline struct {
	store      corpus.Store
	classifier *classify.Classifier
	embedder   rag.Embedder
	composer   *compose.Composer
	topK       int
}

// New constructs a Pipeline. topK <= 0 selects rag.DefaultTopK.
func New(store corpus.Store, classifier *classify.Classifier, embedder rag.Embedder, composer *compose.Composer, topK int) *Pipeline {
	if topK <= 0 {
		topK = rag.DefaultTopK
	}
	return &Pipeline{
		store:      store,
		classifier: classifier,
		embedder:   embedder,
		composer:   composer,
		topK:       topK,
	}
}

// Ask answers question against the current corpus. An empty corpus
// short-circuits before any model call.
func (p *Pipeline) Ask(ctx context.Context, question string) (Answer, error) {
	log := logging.FromContext(ctx)

	c, err := p.store.Get(ctx)
	if err != nil {
		return Answer{}, fmt.Errorf("query: load corpus: %w", err)
	}
	if c.Empty() {
		return Answer{Text: NoDocumentAnswer, Language: "", Intent: classify.IntentAnswer}, nil
	}

	cls := p.classifier.Classify(ctx, question)
	log.Info("query: classified question",
		"language", cls.Language,
		"intent", string(cls.Intent),
	)

	if cls.Intent == classify.IntentSummarize {
		summary, err := p.composer.Summarize(ctx, c.FullText, c.Filename, cls.Language)
		if err != nil {
			return Answer{}, fmt.Errorf("query: %w", err)
		}
		return Answer{Text: summary, Language: cls.Language, Intent: cls.Intent}, nil
	}

	vectors, err := p.embedder.Embed(ctx, []string{question})
	if err != nil {
		return Answer{}, fmt.Errorf("query: embed question: %w", err)
	}
	if len(vectors) != 1 {
		return Answer{}, fmt.Errorf("query: embed question: got %d vectors, want 1", len(vectors))
	}

	top := rag.Rank(c.Chunks, vectors[0], p.topK)
	contexts := make([]string, 0, len(top))
	for _, s := range top {
		contexts = append(contexts, s.Chunk.Content)
	}
	log.Debug("query: retrieved context", "chunks", len(contexts))

	text, err := p.composer.Answer(ctx, question, c.Filename, cls.Language, contexts)
	if err != nil {
		return Answer{}, fmt.Errorf("query: %w", err)
	}
	return Answer{Text: text, Language: cls.Language, Intent: cls.Intent}, nil
}
