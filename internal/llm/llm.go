// Package llm abstracts the "generate a reply" capability behind Generator.
// Two implementations ship: Ollama, which calls a local Ollama server, and
// Scripture, which answers offline with the best matching verse.
package llm

import (
	"context"
	"errors"
)

// Request is one completion request. Prompt is the full conversation
// transcript ending in "Assistant:"; Query is the latest user input alone.
type Request struct {
	Prompt    string
	Query     string
	MaxTokens int
}

// Response is the generated reply.
type Response struct {
	Text    string
	VerseID string
	Model   string
}

// Generator produces a reply for a prompt.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req Request) (Response, error)
}

// ErrEmptyReply is returned when the backend answered with no text.
var ErrEmptyReply = errors.New("llm: empty reply")

// Func adapts a plain function to Generator.
type Func func(ctx context.Context, req Request) (Response, error)

// Name returns "func".
func (Func) Name() string { return "func" }

// Generate calls f.
func (f Func) Generate(ctx context.Context, req Request) (Response, error) { return f(ctx, req) }
