package scripture

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
)

// LoadFile reads a JSON corpus from path. Files ending in ".xz" are
// decompressed on the fly.
func LoadFile(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = bufio.NewReader(f)
	if strings.HasSuffix(strings.ToLower(path), ".xz") {
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("open xz corpus %s: %w", path, err)
		}
		r = xr
	}
	c, err := Load(r)
	if err != nil {
		return nil, fmt.Errorf("load corpus %s: %w", path, err)
	}
	return c, nil
}

// Load decodes a corpus from JSON. Both {"volumes":[...]} and a bare array
// of volumes are accepted.
func Load(r io.Reader) (*Corpus, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return &Corpus{}, nil
	}

	var c Corpus
	if raw[0] == '[' {
		err = json.Unmarshal(raw, &c.Volumes)
	} else {
		err = json.Unmarshal(raw, &c)
	}
	if err != nil {
		return nil, err
	}
	fillDefaults(&c)
	return &c, nil
}

// fillDefaults derives fields that sources commonly omit: book/chapter back
// references on verses and chapters, and verse ids of the form
// "<book-id>-<chapter>-<verse>".
func fillDefaults(c *Corpus) {
	for _, vol := range c.Volumes {
		if vol == nil {
			continue
		}
		for _, b := range vol.Books {
			if b == nil {
				continue
			}
			if b.ID == "" {
				b.ID = string(NormalizeBookID(b.Name))
			}
			if b.Name == "" {
				b.Name = b.FullName
			}
			for _, ch := range b.Chapters {
				if ch == nil {
					continue
				}
				if ch.Book == "" {
					ch.Book = b.Name
				}
				if ch.ID == "" {
					ch.ID = fmt.Sprintf("%s-%d", b.ID, ch.Chapter)
				}
				for _, v := range ch.Verses {
					if v == nil {
						continue
					}
					if v.Book == "" {
						v.Book = b.Name
					}
					if v.Chapter == 0 {
						v.Chapter = ch.Chapter
					}
					if v.ID == "" {
						v.ID = fmt.Sprintf("%s-%d-%d", b.ID, v.Chapter, v.Verse)
					}
				}
			}
		}
	}
}

// Fingerprint is a stable BLAKE3 digest of the corpus content. Two corpora
// with equal fingerprints produce identical search indexes.
func Fingerprint(c *Corpus) string {
	h := blake3.New()
	if c != nil {
		// json.Encoder writes struct fields in declaration order, so the
		// encoding is deterministic for a given corpus.
		_ = json.NewEncoder(h).Encode(c)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Stats summarizes corpus size.
type Stats struct {
	Volumes  int `json:"volumes"`
	Books    int `json:"books"`
	Chapters int `json:"chapters"`
	Verses   int `json:"verses"`
}

// Count walks the corpus once and returns its Stats.
func Count(c *Corpus) Stats {
	var s Stats
	if c == nil {
		return s
	}
	for _, vol := range c.Volumes {
		if vol == nil {
			continue
		}
		s.Volumes++
		for _, b := range vol.Books {
			if b == nil {
				continue
			}
			s.Books++
		}
	}
	walkChapters(c, func(_ *Volume, _ *Book, ch *Chapter) bool {
		s.Chapters++
		s.Verses += len(ch.Verses)
		return true
	})
	return s
}
