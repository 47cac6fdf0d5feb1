package scripture

// Flatten lays every verse of the corpus out in reading order: volume, then
// book, then chapter, then verse. The returned slice is fresh but its
// elements point at the corpus's own verses.
//
// Empty volumes, books and chapters (and nil entries) contribute nothing.
func Flatten(c *Corpus) []*Verse {
	if c == nil {
		return []*Verse{}
	}
	n := 0
	walkChapters(c, func(_ *Volume, _ *Book, ch *Chapter) bool {
		n += len(ch.Verses)
		return true
	})

	out := make([]*Verse, 0, n)
	walkChapters(c, func(_ *Volume, _ *Book, ch *Chapter) bool {
		for _, v := range ch.Verses {
			if v != nil {
				out = append(out, v)
			}
		}
		return true
	})
	return out
}

// walkChapters visits chapters in reading order until fn returns false.
func walkChapters(c *Corpus, fn func(*Volume, *Book, *Chapter) bool) {
	if c == nil {
		return
	}
	for _, vol := range c.Volumes {
		if vol == nil {
			continue
		}
		for _, b := range vol.Books {
			if b == nil {
				continue
			}
			for _, ch := range b.Chapters {
				if ch == nil {
					continue
				}
				if !fn(vol, b, ch) {
					return
				}
			}
		}
	}
}
