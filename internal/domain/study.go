package domain

import "time"

// Study collection keys; each is stored as one StudyBlob per user.
const (
	KeyNotes      = "notes"
	KeyHighlights = "highlights"
	KeyBookmarks  = "bookmarks"
	KeyPosition   = "position"
)

// Note is free text attached to a verse. A verse has at most one note.
type Note struct {
	VerseID   string    `json:"verseId"`
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Highlight marks a verse with a color. A verse may carry several
// highlights; display policy belongs to the client.
type Highlight struct {
	ID        string    `json:"id"`
	VerseID   string    `json:"verseId"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

// Bookmark is a labelled pointer to a verse.
type Bookmark struct {
	ID        string    `json:"id"`
	VerseID   string    `json:"verseId"`
	Label     string    `json:"label,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Position is the chapter the user was last reading.
type Position struct {
	VolumeID  string    `json:"volumeId"`
	BookID    string    `json:"bookId"`
	Chapter   int       `json:"chapter"`
	UpdatedAt time.Time `json:"updatedAt"`
}
