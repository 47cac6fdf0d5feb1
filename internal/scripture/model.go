// Package scripture holds the hierarchical scripture corpus (volumes, books,
// chapters, verses) and the pure operations over it: flattening into reading
// order, resolving verse ids and cross-references back to coordinates, and
// stepping between chapters.
//
// A Corpus is read-only once loaded. Nothing in this package mutates it, logs,
// or performs I/O outside of the explicit loaders in load.go, so every
// function is safe to call concurrently against a shared corpus.
package scripture

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Verse is a single numbered passage. ID is globally unique and, together
// with (Book, Chapter, Verse), forms a bijection the resolver relies on.
type Verse struct {
	ID              string           `json:"id"`
	Book            string           `json:"book"`
	Chapter         int              `json:"chapter"`
	Verse           int              `json:"verse"`
	Text            string           `json:"text"`
	CrossReferences []CrossReference `json:"crossReferences,omitempty"`
	TopicalGuide    []string         `json:"topicalGuideEntries,omitempty"`
}

// Chapter is an ordered run of verses within a book.
type Chapter struct {
	ID      string   `json:"id"`
	Book    string   `json:"book"`
	Chapter int      `json:"chapter"`
	Title   string   `json:"title"`
	Summary string   `json:"summary,omitempty"`
	Verses  []*Verse `json:"verses"`
}

// Book is an ordered run of chapters in canonical reading order.
type Book struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	FullName     string     `json:"fullName"`
	Abbreviation string     `json:"abbreviation"`
	Chapters     []*Chapter `json:"chapters"`
}

// Volume groups books (e.g. "bom" for the Book of Mormon).
type Volume struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Abbreviation string  `json:"abbreviation"`
	Books        []*Book `json:"books"`
}

// Corpus is the full set of loaded volumes in canonical order.
type Corpus struct {
	Volumes []*Volume `json:"volumes"`
}

// CrossReference is an advisory pointer to another passage. Its target
// fields come from static annotation data and are not guaranteed to exist in
// the loaded corpus; see ResolveCrossReference.
type CrossReference struct {
	Volume  string   `json:"volume"`
	Book    string   `json:"book"`
	Chapter LooseInt `json:"chapter"`
	Verse   LooseInt `json:"verse"`
	Text    string   `json:"text,omitempty"`
	Label   string   `json:"label,omitempty"`
}

// LooseInt decodes from a JSON number or a numeric string ("3"). Anything
// else decodes to zero, which never matches a chapter or verse.
type LooseInt int

// UnmarshalJSON implements json.Unmarshaler.
func (n *LooseInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == "" {
		*n = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		*n = 0
		return nil
	}
	*n = LooseInt(v)
	return nil
}

// BookID is a normalized book identifier, produced only by NormalizeBookID
// or taken verbatim from Book.ID.
type BookID string

// Coordinate is the full address of a verse within a corpus.
type Coordinate struct {
	VolumeID   string `json:"volumeId"`
	VolumeName string `json:"volumeName"`
	BookID     string `json:"bookId"`
	BookName   string `json:"bookName"`
	Chapter    int    `json:"chapter"`
	Verse      int    `json:"verse"`
	VerseID    string `json:"verseId,omitempty"`
}

// String renders the coordinate the way readers cite it ("1 Nephi 3:7").
func (c Coordinate) String() string {
	if c.Verse > 0 {
		return fmt.Sprintf("%s %d:%d", c.BookName, c.Chapter, c.Verse)
	}
	return fmt.Sprintf("%s %d", c.BookName, c.Chapter)
}

// ChapterRef addresses a chapter; it is what the navigator returns.
type ChapterRef struct {
	VolumeID string `json:"volumeId"`
	BookID   string `json:"bookId"`
	Chapter  int    `json:"chapter"`
}

// Volume returns the volume with the given id.
func (c *Corpus) Volume(id string) (*Volume, bool) {
	if c == nil {
		return nil, false
	}
	for _, v := range c.Volumes {
		if v != nil && v.ID == id {
			return v, true
		}
	}
	return nil, false
}

// Book returns the book with the given id.
func (v *Volume) Book(id string) (*Book, bool) {
	if v == nil {
		return nil, false
	}
	for _, b := range v.Books {
		if b != nil && b.ID == id {
			return b, true
		}
	}
	return nil, false
}

// Chapter returns the chapter numbered n.
func (b *Book) Chapter(n int) (*Chapter, bool) {
	if b == nil {
		return nil, false
	}
	for _, ch := range b.Chapters {
		if ch != nil && ch.Chapter == n {
			return ch, true
		}
	}
	return nil, false
}

// Verse returns the verse numbered n.
func (ch *Chapter) Verse(n int) (*Verse, bool) {
	if ch == nil {
		return nil, false
	}
	for _, v := range ch.Verses {
		if v != nil && v.Verse == n {
			return v, true
		}
	}
	return nil, false
}
