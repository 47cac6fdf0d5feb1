// Study HTTP handlers.
//
// Per-user study data, keyed by the X-User-ID header:
//   - GET    /study/notes               PUT/DELETE /study/notes/{verseId}
//   - GET    /study/highlights          POST /study/highlights    DELETE /study/highlights/{id}
//   - GET    /study/bookmarks           POST /study/bookmarks     DELETE /study/bookmarks/{id}
//   - GET    /study/position            PUT  /study/position
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/scripture-study/internal/domain"
)

// SaveNoteRequest sets the note text of a verse. Blank text deletes the note.
type SaveNoteRequest struct {
	Text string `json:"text" example:"Compare with Hebrews 11:1"`
}

// AddHighlightRequest highlights a verse.
type AddHighlightRequest struct {
	VerseID string `json:"verse_id" binding:"required" example:"alma-32-21"`
	Color   string `json:"color" example:"yellow"`
}

// AddBookmarkRequest bookmarks a verse.
type AddBookmarkRequest struct {
	VerseID string `json:"verse_id" binding:"required" example:"1-nephi-3-7"`
	Label   string `json:"label" example:"Go and do"`
}

// SetPositionRequest records the chapter being read.
type SetPositionRequest struct {
	VolumeID string `json:"volume_id" binding:"required" example:"bom"`
	BookID   string `json:"book_id" binding:"required" example:"alma"`
	Chapter  int    `json:"chapter" binding:"required" example:"32"`
}

// NotesResponse lists a user's notes.
type NotesResponse struct {
	Notes []domain.Note `json:"notes"`
}

// HighlightsResponse lists a user's highlights.
type HighlightsResponse struct {
	Highlights []domain.Highlight `json:"highlights"`
}

// BookmarksResponse lists a user's bookmarks.
type BookmarksResponse struct {
	Bookmarks []domain.Bookmark `json:"bookmarks"`
}

// PositionResponse carries the reading position; null when none is stored.
type PositionResponse struct {
	Position *domain.Position `json:"position"`
}

// ListNotes godoc
// @ID          listNotes
// @Summary     List notes
// @Tags        Study
// @Produce     json
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Success     200  {object} handlers.NotesResponse
// @Router      /study/notes [get]
func (h *Handlers) ListNotes(c *gin.Context) {
	notes, err := h.studySvc.Notes(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, NotesResponse{Notes: notes})
}

// SaveNote godoc
// @ID          saveNote
// @Summary     Write the note of a verse
// @Description Creates or replaces the note on a verse. Blank text deletes it and returns 204.
// @Tags        Study
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       verseId    path    string  true  "Verse ID"               example(alma-32-21)
// @Param       body       body    handlers.SaveNoteRequest  true  "Note"
//
// @Success     200  {object} domain.Note
// @Success     204  {string} string "Note removed"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Verse not found"
// @Router      /study/notes/{verseId} [put]
func (h *Handlers) SaveNote(c *gin.Context) {
	var req SaveNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	n, err := h.studySvc.SaveNote(c.Request.Context(), userID(c), c.Param("verseId"), req.Text)
	if err != nil {
		failErr(c, err)
		return
	}
	if n == nil {
		noContent(c)
		return
	}
	ok(c, http.StatusOK, n)
}

// DeleteNote godoc
// @ID          deleteNote
// @Summary     Delete the note of a verse
// @Tags        Study
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       verseId    path    string  true  "Verse ID"               example(alma-32-21)
// @Success     204  {string} string "No Content"
// @Failure     404  {object} handlers.ErrorResponse "No note on this verse"
// @Router      /study/notes/{verseId} [delete]
func (h *Handlers) DeleteNote(c *gin.Context) {
	if err := h.studySvc.DeleteNote(c.Request.Context(), userID(c), c.Param("verseId")); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// ListHighlights godoc
// @ID          listHighlights
// @Summary     List highlights
// @Tags        Study
// @Produce     json
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       verse_id   query   string  false "Only highlights on this verse"
// @Success     200  {object} handlers.HighlightsResponse
// @Router      /study/highlights [get]
func (h *Handlers) ListHighlights(c *gin.Context) {
	list, err := h.studySvc.Highlights(c.Request.Context(), userID(c), c.Query("verse_id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, HighlightsResponse{Highlights: list})
}

// AddHighlight godoc
// @ID          addHighlight
// @Summary     Highlight a verse
// @Description Adds a highlight; a verse may carry several. Colors: yellow, green, blue, pink, purple.
// @Tags        Study
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.AddHighlightRequest  true  "Highlight"
// @Success     201  {object} domain.Highlight
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Verse not found"
// @Router      /study/highlights [post]
func (h *Handlers) AddHighlight(c *gin.Context) {
	var req AddHighlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "verse_id required")
		return
	}
	hl, err := h.studySvc.AddHighlight(c.Request.Context(), userID(c), req.VerseID, req.Color)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, hl)
}

// RemoveHighlight godoc
// @ID          removeHighlight
// @Summary     Remove a highlight
// @Tags        Study
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Highlight ID"
// @Success     204  {string} string "No Content"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /study/highlights/{id} [delete]
func (h *Handlers) RemoveHighlight(c *gin.Context) {
	if err := h.studySvc.RemoveHighlight(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// ListBookmarks godoc
// @ID          listBookmarks
// @Summary     List bookmarks
// @Tags        Study
// @Produce     json
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Success     200  {object} handlers.BookmarksResponse
// @Router      /study/bookmarks [get]
func (h *Handlers) ListBookmarks(c *gin.Context) {
	list, err := h.studySvc.Bookmarks(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, BookmarksResponse{Bookmarks: list})
}

// AddBookmark godoc
// @ID          addBookmark
// @Summary     Bookmark a verse
// @Tags        Study
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.AddBookmarkRequest  true  "Bookmark"
// @Success     201  {object} domain.Bookmark
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Verse not found"
// @Router      /study/bookmarks [post]
func (h *Handlers) AddBookmark(c *gin.Context) {
	var req AddBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "verse_id required")
		return
	}
	b, err := h.studySvc.AddBookmark(c.Request.Context(), userID(c), req.VerseID, req.Label)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, b)
}

// RemoveBookmark godoc
// @ID          removeBookmark
// @Summary     Remove a bookmark
// @Tags        Study
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Bookmark ID"
// @Success     204  {string} string "No Content"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /study/bookmarks/{id} [delete]
func (h *Handlers) RemoveBookmark(c *gin.Context) {
	if err := h.studySvc.RemoveBookmark(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// GetPosition godoc
// @ID          getPosition
// @Summary     Reading position
// @Tags        Study
// @Produce     json
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Success     200  {object} handlers.PositionResponse
// @Router      /study/position [get]
func (h *Handlers) GetPosition(c *gin.Context) {
	p, err := h.studySvc.Position(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, PositionResponse{Position: p})
}

// SetPosition godoc
// @ID          setPosition
// @Summary     Record reading position
// @Tags        Study
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.SetPositionRequest  true  "Position"
// @Success     200  {object} handlers.PositionResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Chapter not found"
// @Router      /study/position [put]
func (h *Handlers) SetPosition(c *gin.Context) {
	var req SetPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "volume_id, book_id and chapter required")
		return
	}
	p, err := h.studySvc.SetPosition(c.Request.Context(), userID(c), req.VolumeID, req.BookID, req.Chapter)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, PositionResponse{Position: p})
}
