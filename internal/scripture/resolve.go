package scripture

import (
	"strings"
	"unicode"
)

// Resolve walks the corpus hierarchy for the verse with the given id and
// returns its full address. The second result is false when no verse has
// that id, including for empty or malformed ids.
func Resolve(c *Corpus, verseID string) (Coordinate, bool) {
	if strings.TrimSpace(verseID) == "" {
		return Coordinate{}, false
	}
	var (
		out   Coordinate
		found bool
	)
	walkChapters(c, func(vol *Volume, b *Book, ch *Chapter) bool {
		for _, v := range ch.Verses {
			if v != nil && v.ID == verseID {
				out = coordinateOf(vol, b, ch, v)
				found = true
				return false
			}
		}
		return true
	})
	return out, found
}

// NormalizeBookID derives a book identifier from a display name: lower-case,
// ampersands removed, runs of whitespace collapsed to a single hyphen.
//
//	"1 Nephi"            -> "1-nephi"
//	"Words of Mormon"    -> "words-of-mormon"
//	"Doctrine & Covenants" -> "doctrine-covenants"
func NormalizeBookID(name string) BookID {
	name = strings.ToLower(strings.ReplaceAll(name, "&", ""))
	return BookID(strings.Join(strings.FieldsFunc(name, unicode.IsSpace), "-"))
}

// ResolveCrossReference turns a cross-reference's loose target into a
// navigable coordinate. It fails softly (false) when the volume is not
// loaded, no book has the normalized id, the chapter is missing, or a
// positive verse number is missing. An empty Volume searches every volume.
func ResolveCrossReference(c *Corpus, xr CrossReference) (Coordinate, bool) {
	if c == nil {
		return Coordinate{}, false
	}
	bookID := string(NormalizeBookID(xr.Book))
	if bookID == "" || xr.Chapter <= 0 {
		return Coordinate{}, false
	}

	volID := strings.ToLower(strings.TrimSpace(xr.Volume))
	for _, vol := range c.Volumes {
		if vol == nil || (volID != "" && strings.ToLower(vol.ID) != volID) {
			continue
		}
		b, ok := vol.Book(bookID)
		if !ok {
			continue
		}
		ch, ok := b.Chapter(int(xr.Chapter))
		if !ok {
			return Coordinate{}, false
		}
		if xr.Verse <= 0 {
			return coordinateOf(vol, b, ch, nil), true
		}
		v, ok := ch.Verse(int(xr.Verse))
		if !ok {
			return Coordinate{}, false
		}
		return coordinateOf(vol, b, ch, v), true
	}
	return Coordinate{}, false
}

// Locator is a map-backed resolver built once per corpus. It answers the
// same questions as Resolve in constant time.
type Locator struct {
	byID map[string]Coordinate
}

// NewLocator indexes every verse of c by id. If ids collide, the first verse
// in reading order wins.
func NewLocator(c *Corpus) *Locator {
	l := &Locator{byID: make(map[string]Coordinate)}
	walkChapters(c, func(vol *Volume, b *Book, ch *Chapter) bool {
		for _, v := range ch.Verses {
			if v == nil {
				continue
			}
			if _, dup := l.byID[v.ID]; !dup {
				l.byID[v.ID] = coordinateOf(vol, b, ch, v)
			}
		}
		return true
	})
	return l
}

// Resolve returns the coordinate of verseID.
func (l *Locator) Resolve(verseID string) (Coordinate, bool) {
	if l == nil {
		return Coordinate{}, false
	}
	co, ok := l.byID[verseID]
	return co, ok
}

// Len reports how many verses are indexed.
func (l *Locator) Len() int {
	if l == nil {
		return 0
	}
	return len(l.byID)
}

func coordinateOf(vol *Volume, b *Book, ch *Chapter, v *Verse) Coordinate {
	co := Coordinate{
		VolumeID:   vol.ID,
		VolumeName: vol.Name,
		BookID:     b.ID,
		BookName:   b.Name,
		Chapter:    ch.Chapter,
	}
	if v != nil {
		co.Verse = v.Verse
		co.VerseID = v.ID
	}
	return co
}
