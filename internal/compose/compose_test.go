package compose

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeGenerator struct {
	reply string
	err   error

	lastSystem string
	lastUser   string
	lastTemp   float32
}

func (f *fakeGenerator) Generate(_ context.Context, system, user string, temperature float32) (string, error) {
	f.lastSystem = system
	f.lastUser = user
	f.lastTemp = temperature
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func TestAnswer(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "  The warranty lasts two years.  "}
	c := New(gen)

	got, err := c.Answer(context.Background(), "How long is the warranty?", "manual.pdf", "English",
		[]string{"chunk one", "chunk two"})
	if err != nil {
		t.Fatalf("Answer() failed: %v", err)
	}
	if got != "The warranty lasts two years." {
		t.Errorf("want trimmed answer, got %q", got)
	}

	if !strings.Contains(gen.lastSystem, "manual.pdf") {
		t.Errorf("system prompt missing filename: %q", gen.lastSystem)
	}
	if !strings.Contains(gen.lastSystem, "English") {
		t.Errorf("system prompt missing language: %q", gen.lastSystem)
	}
	if !strings.Contains(gen.lastUser, "chunk one\n---\nchunk two") {
		t.Errorf("contexts not joined with separator: %q", gen.lastUser)
	}
	if !strings.Contains(gen.lastUser, "How long is the warranty?") {
		t.Errorf("user prompt missing question: %q", gen.lastUser)
	}
	if gen.lastTemp != answerTemperature {
		t.Errorf("temperature = %v, want %v", gen.lastTemp, answerTemperature)
	}
}

func TestAnswer_GeneratorError(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{err: errors.New("model offline")}
	if _, err := New(gen).Answer(context.Background(), "q", "f", "English", []string{"c"}); err == nil {
		t.Error("want error when generator fails, got nil")
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "A short summary."}
	c := New(gen)

	got, err := c.Summarize(context.Background(), "full document text", "manual.pdf", "Korean")
	if err != nil {
		t.Fatalf("Summarize() failed: %v", err)
	}
	if got != "A short summary." {
		t.Errorf("unexpected summary %q", got)
	}

	if gen.lastUser != "full document text" {
		t.Errorf("summarize must send the full text, got %q", gen.lastUser)
	}
	if !strings.Contains(gen.lastSystem, "Korean") {
		t.Errorf("system prompt missing language: %q", gen.lastSystem)
	}
}

func TestSummarize_EmptyDocument(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "should not be called"}
	for _, text := range []string{"", "   \n\t"} {
		if _, err := New(gen).Summarize(context.Background(), text, "f", "English"); !errors.Is(err, ErrEmptyDocument) {
			t.Errorf("Summarize(%q): want ErrEmptyDocument, got %v", text, err)
		}
	}
}
