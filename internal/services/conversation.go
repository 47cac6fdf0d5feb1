// Package services – conversation primitives
//
// This file holds the pieces shared by every chat surface: the keyword
// content filter, the transcript prompt format, and Conversation, an
// in-memory exchange used by the CLI and the WebSocket endpoint. Persisted
// chats go through MessageService, which uses the same filter and prompt.
package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/scripture-study/internal/llm"
	"github.com/tbourn/scripture-study/internal/observability"
)

// Fixed replies.
const (
	// BlockedReply answers a message rejected by the content filter.
	BlockedReply = "Sorry, I can't help with that."
	// ErrorReply answers a message whose generation failed.
	ErrorReply = "I'm sorry, I encountered an error while generating a response. Please try again."
)

// DefaultBannedWords is the built-in filter list. Multi-word entries match
// consecutive words.
var DefaultBannedWords = []string{
	"bomb", "kill", "suicide", "self-harm", "illegal", "terrorist", "explode",
	"child porn", "cp", "ddos", "hitman", "assassinate",
}

// ContentFilter rejects text containing a banned word or phrase. Matching is
// case-insensitive and whole-word, so "skill" does not trip "kill".
type ContentFilter struct {
	phrases [][]string
}

// NewContentFilter builds a filter from words; blank entries are ignored.
func NewContentFilter(words []string) *ContentFilter {
	f := &ContentFilter{}
	for _, w := range words {
		toks := qwordRE.FindAllString(strings.ToLower(w), -1)
		if len(toks) > 0 {
			f.phrases = append(f.phrases, toks)
		}
	}
	return f
}

// Allowed reports whether text passes the filter. A nil filter allows
// everything.
func (f *ContentFilter) Allowed(text string) bool {
	if f == nil || len(f.phrases) == 0 {
		return true
	}
	toks := qwordRE.FindAllString(strings.ToLower(text), -1)
	for i := range toks {
		for _, p := range f.phrases {
			if hasPhraseAt(toks, i, p) {
				return false
			}
		}
	}
	return true
}

func hasPhraseAt(toks []string, i int, p []string) bool {
	if i+len(p) > len(toks) {
		return false
	}
	for j, w := range p {
		if toks[i+j] != w {
			return false
		}
	}
	return true
}

// Turn is one user message and the reply it received.
type Turn struct {
	User      string
	Assistant string
}

// BuildPrompt renders history and the new input as a plain transcript:
//
//	User: ...
//	Assistant: ...
//	User: <input>
//	Assistant:
func BuildPrompt(history []Turn, input string) string {
	var b strings.Builder
	for _, t := range history {
		b.WriteString("\nUser: ")
		b.WriteString(t.User)
		b.WriteString("\nAssistant: ")
		b.WriteString(t.Assistant)
	}
	b.WriteString("\nUser: ")
	b.WriteString(input)
	b.WriteString("\nAssistant:")
	return b.String()
}

// Replier produces assistant replies with the filter and fallback policy
// applied. It is stateless; callers supply the history.
type Replier struct {
	Generator    llm.Generator
	Filter       *ContentFilter
	MaxNewTokens int
	Timeout      time.Duration
}

// Reply is the outcome of one exchange.
type Reply struct {
	Text    string
	VerseID string
	Blocked bool
	Failed  bool
}

// Reply answers input given the prior turns. Blocked input is never sent to
// the generator. Generation errors are logged and answered with ErrorReply.
func (r *Replier) Reply(ctx context.Context, history []Turn, input string) Reply {
	if !r.Filter.Allowed(input) {
		observability.ObserveReply("blocked")
		return Reply{Text: BlockedReply, Blocked: true}
	}
	if r.Generator == nil {
		observability.ObserveReply("error")
		return Reply{Text: ErrorReply, Failed: true}
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	res, err := r.Generator.Generate(ctx, llm.Request{
		Prompt:    BuildPrompt(history, input),
		Query:     input,
		MaxTokens: r.MaxNewTokens,
	})
	if err != nil {
		log.Error().Err(err).Str("generator", r.Generator.Name()).Msg("generation failed")
		observability.ObserveReply("error")
		return Reply{Text: ErrorReply, Failed: true}
	}
	observability.ObserveReply("ok")
	return Reply{Text: res.Text, VerseID: res.VerseID}
}

// Conversation is an in-memory chat session. History grows with every
// answered turn and is capped at MaxTurns (0 means unbounded). Blocked
// messages are not recorded. Safe for concurrent use.
type Conversation struct {
	Replier  *Replier
	MaxTurns int

	mu      sync.Mutex
	history []Turn
}

// NewConversation starts an empty session.
func NewConversation(r *Replier, maxTurns int) *Conversation {
	return &Conversation{Replier: r, MaxTurns: maxTurns}
}

// Send answers input and records the exchange.
func (c *Conversation) Send(ctx context.Context, input string) Reply {
	input = strings.TrimSpace(input)

	c.mu.Lock()
	hist := append([]Turn(nil), c.history...)
	c.mu.Unlock()

	rep := c.Replier.Reply(ctx, hist, input)
	if rep.Blocked {
		return rep
	}

	c.mu.Lock()
	c.history = append(c.history, Turn{User: input, Assistant: rep.Text})
	if c.MaxTurns > 0 && len(c.history) > c.MaxTurns {
		c.history = append([]Turn(nil), c.history[len(c.history)-c.MaxTurns:]...)
	}
	c.mu.Unlock()
	return rep
}

// Clear forgets the history.
func (c *Conversation) Clear() {
	c.mu.Lock()
	c.history = nil
	c.mu.Unlock()
}

// History returns a copy of the recorded turns.
func (c *Conversation) History() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Turn(nil), c.history...)
}
