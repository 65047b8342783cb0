// Package classify determines how a question should be handled before any
// retrieval happens: which language to answer in, and whether the user wants
// a specific answer or a whole-document summary.
package classify

import (
	"context"
	"encoding/json"
	"strings"

	"docsage/internal/logging"
	"docsage/internal/rag"
)

// Intent is the routing decision for a question.
type Intent string

const (
	// IntentAnswer routes the question through retrieval and grounded
	// answer composition.
	IntentAnswer Intent = "answer"
	// IntentSummarize routes the question to whole-document summarization.
	IntentSummarize Intent = "summarize"
)

// Result is the outcome of classifying one question.
type Result struct {
	// Language is the natural language the answer should be written in
	// (e.g. "English", "Korean").
	Language string
	// Intent selects the answering strategy.
	Intent Intent
}

// classifyPrompt instructs the model to emit a single JSON object and
// nothing else. Kept deliberately rigid so the reply parses mechanically.
const classifyPrompt = `You are a classifier. Given a user question, respond with ONLY a JSON object, no other text, in this exact shape:
{"language": "<the natural language the question is written in, as an English word like English or Korean>", "intent": "<qa or summarize>"}
Use "summarize" only when the user asks for a summary, overview, or gist of the whole document. Use "qa" for everything else.`

// Wire values the model is instructed to produce for the intent field.
const (
	wireQA        = "qa"
	wireSummarize = "summarize"
)

// Classifier decides language and intent for incoming questions using a
// chat model, with a safe fallback when the model misbehaves.
type Classifier struct {
	gen rag.Generator
	// defaultLanguage is used whenever classification fails.
	defaultLanguage string
}

// New constructs a Classifier. defaultLanguage is the answer language used
// when classification fails; empty selects "English".
func New(gen rag.Generator, defaultLanguage string) *Classifier {
	if defaultLanguage == "" {
		defaultLanguage = "English"
	}
	return &Classifier{gen: gen, defaultLanguage: defaultLanguage}
}

// classifyReply is the JSON shape the model is asked to produce.
type classifyReply struct {
	Language string `json:"language"`
	Intent   string `json:"intent"`
}

// Classify determines the language and intent of question. Classification is
// best-effort: any model failure or malformed reply degrades to the default
// language with IntentAnswer, never an error — a bad classification must not
// block answering.
func (c *Classifier) Classify(ctx context.Context, question string) Result {
	log := logging.FromContext(ctx)
	fallback := Result{Language: c.defaultLanguage, Intent: IntentAnswer}

	raw, err := c.gen.Generate(ctx, classifyPrompt, question, 0.0)
	if err != nil {
		log.Warn("classify: model call failed, using defaults",
			"error", err,
			"language", fallback.Language,
		)
		return fallback
	}

	var reply classifyReply
	if err := json.Unmarshal([]byte(stripFences(raw)), &reply); err != nil {
		log.Warn("classify: unparseable reply, using defaults",
			"error", err,
		)
		return fallback
	}

	if reply.Language == "" {
		log.Warn("classify: reply missing language, using defaults")
		return fallback
	}

	intent := IntentAnswer
	switch strings.ToLower(strings.TrimSpace(reply.Intent)) {
	case wireQA:
		intent = IntentAnswer
	case wireSummarize:
		intent = IntentSummarize
	default:
		log.Warn("classify: unknown intent value, defaulting to answer",
			"intent", reply.Intent,
		)
	}

	return Result{Language: strings.TrimSpace(reply.Language), Intent: intent}
}

// stripFences removes a markdown code fence wrapper if the model added one
// despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
