// Package generator adapts a provider chat model to the rag.Generator
// interface used by the classification and composition stages.
package generator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// LLM wraps a chat model as a rag.Generator. It is safe for concurrent use.
type LLM struct {
	model model.ToolCallingChatModel
}

// New wraps the given chat model.
func New(m model.ToolCallingChatModel) *LLM {
	return &LLM{model: m}
}

// Generate sends a system+user message pair to the chat model and returns
// the text of the reply.
func (l *LLM) Generate(ctx context.Context, system, user string, temperature float32) (string, error) {
	msgs := []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	}
	resp, err := l.model.Generate(ctx, msgs, model.WithTemperature(temperature))
	if err != nil {
		return "", fmt.Errorf("generator: %w", err)
	}
	return resp.Content, nil
}
