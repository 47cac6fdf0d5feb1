package scripture

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/sahilm/fuzzy"
)

// Reference is a human citation such as "1 Nephi 3:7", "Alma 32" or
// "Mosiah 2:17-18". Chapter and Verse are zero when omitted.
type Reference struct {
	Book     string `json:"book"`
	Chapter  int    `json:"chapter,omitempty"`
	Verse    int    `json:"verse,omitempty"`
	VerseEnd int    `json:"verseEnd,omitempty"`
}

// ErrEmptyReference is returned by ParseReference for blank input.
var ErrEmptyReference = errors.New("reference is empty")

//nolint:govet // participle grammar tags are not standard struct tags
type refGrammar struct {
	Prefix  *int        `@Int?`
	Words   []string    `@Word+`
	Chapter *refChapter `@@?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type refChapter struct {
	Number int       `@Int`
	Verse  *refVerse `( ":" @@ )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type refVerse struct {
	Start int  `@Int`
	End   *int `( "-" @Int )?`
}

var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Word", Pattern: `\p{L}[\p{L}&'.]*`},
	{Name: "Punct", Pattern: `[:\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// ParseReference parses a citation. Book names keep their spelling; matching
// against the corpus happens in ResolveReference.
func ParseReference(s string) (Reference, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Reference{}, ErrEmptyReference
	}
	g, err := refParser.ParseString("", s)
	if err != nil {
		return Reference{}, fmt.Errorf("parse reference %q: %w", s, err)
	}

	name := strings.Join(g.Words, " ")
	if g.Prefix != nil {
		name = fmt.Sprintf("%d %s", *g.Prefix, name)
	}
	ref := Reference{Book: name}
	if g.Chapter != nil {
		ref.Chapter = g.Chapter.Number
		if v := g.Chapter.Verse; v != nil {
			ref.Verse = v.Start
			if v.End != nil && *v.End > v.Start {
				ref.VerseEnd = *v.End
			}
		}
	}
	return ref, nil
}

// ResolveReference finds the book named by ref (by id, name, full name or
// abbreviation, compared through NormalizeBookID) and returns the addressed
// chapter or verse. A missing chapter defaults to the book's first chapter.
func ResolveReference(c *Corpus, ref Reference) (Coordinate, bool) {
	want := NormalizeBookID(strings.TrimSuffix(ref.Book, "."))
	if want == "" || c == nil {
		return Coordinate{}, false
	}
	for _, vol := range c.Volumes {
		if vol == nil {
			continue
		}
		for _, b := range vol.Books {
			if b == nil || !bookMatches(b, want) {
				continue
			}
			ch := edgeChapter(b, +1)
			if ref.Chapter > 0 {
				var ok bool
				if ch, ok = b.Chapter(ref.Chapter); !ok {
					return Coordinate{}, false
				}
			}
			if ch == nil {
				return Coordinate{}, false
			}
			if ref.Verse <= 0 {
				return coordinateOf(vol, b, ch, nil), true
			}
			v, ok := ch.Verse(ref.Verse)
			if !ok {
				return Coordinate{}, false
			}
			return coordinateOf(vol, b, ch, v), true
		}
	}
	return Coordinate{}, false
}

func bookMatches(b *Book, want BookID) bool {
	for _, cand := range []string{b.ID, b.Name, b.FullName, strings.TrimSuffix(b.Abbreviation, ".")} {
		if cand != "" && NormalizeBookID(cand) == want {
			return true
		}
	}
	return false
}

// BookSuggestion is a fuzzy hit on a book name, for "go to" pickers.
type BookSuggestion struct {
	VolumeID       string `json:"volumeId"`
	BookID         string `json:"bookId"`
	Name           string `json:"name"`
	MatchedIndexes []int  `json:"matchedIndexes"`
	Score          int    `json:"score"`
}

type bookSource []bookEntry

type bookEntry struct {
	volumeID string
	book     *Book
}

func (s bookSource) String(i int) string { return s[i].book.Name }
func (s bookSource) Len() int            { return len(s) }

// SuggestBooks ranks book names against a partial, possibly abbreviated
// query ("1 ne", "hel"). limit <= 0 returns every match.
func SuggestBooks(c *Corpus, query string, limit int) []BookSuggestion {
	query = strings.TrimSpace(query)
	if query == "" || c == nil {
		return nil
	}
	var src bookSource
	for _, vol := range c.Volumes {
		if vol == nil {
			continue
		}
		for _, b := range vol.Books {
			if b != nil {
				src = append(src, bookEntry{volumeID: vol.ID, book: b})
			}
		}
	}

	matches := fuzzy.FindFrom(query, src)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]BookSuggestion, 0, len(matches))
	for _, m := range matches {
		e := src[m.Index]
		out = append(out, BookSuggestion{
			VolumeID:       e.volumeID,
			BookID:         e.book.ID,
			Name:           e.book.Name,
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		})
	}
	return out
}
