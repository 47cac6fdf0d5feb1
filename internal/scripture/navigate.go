package scripture

// NextChapter returns the chapter after (volumeID, bookID, chapter). Within a
// book it steps to the next chapter in the book's order; past the last
// chapter it moves to the first chapter of the next non-empty book in the
// same volume. It returns false at the end of the volume or when the
// starting coordinate does not exist.
func NextChapter(c *Corpus, volumeID, bookID string, chapter int) (ChapterRef, bool) {
	return step(c, volumeID, bookID, chapter, +1)
}

// PreviousChapter is the mirror of NextChapter: earlier chapter in the book,
// else the last chapter of the previous non-empty book, else false.
func PreviousChapter(c *Corpus, volumeID, bookID string, chapter int) (ChapterRef, bool) {
	return step(c, volumeID, bookID, chapter, -1)
}

// Neighbors returns both directions at once, as the chapter view needs them.
func Neighbors(c *Corpus, volumeID, bookID string, chapter int) (prev, next *ChapterRef) {
	if p, ok := PreviousChapter(c, volumeID, bookID, chapter); ok {
		prev = &p
	}
	if n, ok := NextChapter(c, volumeID, bookID, chapter); ok {
		next = &n
	}
	return prev, next
}

func step(c *Corpus, volumeID, bookID string, chapter, dir int) (ChapterRef, bool) {
	vol, ok := c.Volume(volumeID)
	if !ok {
		return ChapterRef{}, false
	}
	bi := bookIndex(vol, bookID)
	if bi < 0 {
		return ChapterRef{}, false
	}
	book := vol.Books[bi]
	ci := chapterIndex(book, chapter)
	if ci < 0 {
		return ChapterRef{}, false
	}

	// Same book.
	for j := ci + dir; j >= 0 && j < len(book.Chapters); j += dir {
		if ch := book.Chapters[j]; ch != nil {
			return ChapterRef{VolumeID: vol.ID, BookID: book.ID, Chapter: ch.Chapter}, true
		}
	}

	// Neighbouring books in the same volume; cross-volume moves are not defined.
	for k := bi + dir; k >= 0 && k < len(vol.Books); k += dir {
		b := vol.Books[k]
		if b == nil {
			continue
		}
		if ch := edgeChapter(b, dir); ch != nil {
			return ChapterRef{VolumeID: vol.ID, BookID: b.ID, Chapter: ch.Chapter}, true
		}
	}
	return ChapterRef{}, false
}

// edgeChapter returns the first (dir > 0) or last (dir < 0) chapter of b.
func edgeChapter(b *Book, dir int) *Chapter {
	if dir > 0 {
		for _, ch := range b.Chapters {
			if ch != nil {
				return ch
			}
		}
		return nil
	}
	for i := len(b.Chapters) - 1; i >= 0; i-- {
		if b.Chapters[i] != nil {
			return b.Chapters[i]
		}
	}
	return nil
}

func bookIndex(vol *Volume, id string) int {
	for i, b := range vol.Books {
		if b != nil && b.ID == id {
			return i
		}
	}
	return -1
}

func chapterIndex(b *Book, n int) int {
	for i, ch := range b.Chapters {
		if ch != nil && ch.Chapter == n {
			return i
		}
	}
	return -1
}
