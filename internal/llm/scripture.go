package llm

import (
	"context"
	"fmt"
	"strings"
)

// Passage is a verse chosen to answer a question.
type Passage struct {
	VerseID   string
	Reference string
	Text      string
}

// PassageFinder returns the verse that best matches a query. ok is false
// when nothing matches.
type PassageFinder interface {
	FindPassage(ctx context.Context, query string) (p Passage, ok bool, err error)
}

// NoPassageReply is returned by Scripture when no verse matches.
const NoPassageReply = `I couldn't find a passage about that. Try other words, or a reference such as "Alma 32:21".`

// Scripture answers with the best matching verse instead of a model
// completion. It needs no network and is the default generator.
type Scripture struct {
	Finder PassageFinder
}

// Name returns the generator identifier.
func (Scripture) Name() string { return "scripture" }

// Generate searches for req.Query (or the prompt when Query is empty).
func (g Scripture) Generate(ctx context.Context, req Request) (Response, error) {
	q := strings.TrimSpace(req.Query)
	if q == "" {
		q = strings.TrimSpace(req.Prompt)
	}
	if g.Finder == nil {
		return Response{}, fmt.Errorf("scripture generator: no passage finder")
	}
	p, ok, err := g.Finder.FindPassage(ctx, q)
	if err != nil {
		return Response{}, err
	}
	if !ok {
		return Response{Text: NoPassageReply, Model: "scripture"}, nil
	}
	return Response{
		Text:    p.Reference + ": " + p.Text,
		VerseID: p.VerseID,
		Model:   "scripture",
	}, nil
}
