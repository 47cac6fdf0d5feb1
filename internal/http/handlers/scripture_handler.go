// Scripture HTTP handlers.
//
// Read-only endpoints over the loaded corpus:
//   - GET /corpus                                         (active corpus info)
//   - GET /search?q=&limit=                               (fuzzy verse search)
//   - GET /volumes                                        (table of contents)
//   - GET /volumes/{volume}/books/{book}/chapters/{n}     (chapter with prev/next)
//   - GET /verses/{id}                                    (one verse)
//   - GET /verses/{id}/xrefs/{n}                          (follow a cross-reference)
//   - GET /references?q=                                  (resolve "Alma 32:21")
//   - GET /books/suggest?q=                               (fuzzy book names)
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/scripture-study/internal/scripture"
	"github.com/tbourn/scripture-study/internal/services"
	"github.com/tbourn/scripture-study/internal/utils"
)

// CorpusInfoResponse describes the active corpus and the search tunables
// clients should follow.
type CorpusInfoResponse struct {
	services.LoadInfo
	MinQueryLength int   `json:"min_query_length" example:"3"`
	DebounceMs     int64 `json:"debounce_ms" example:"300"`
}

// VolumesResponse lists the volumes of the corpus.
type VolumesResponse struct {
	Volumes []services.VolumeSummary `json:"volumes"`
}

// CrossReferenceResponse is the resolved target of a cross-reference.
type CrossReferenceResponse struct {
	Target scripture.Coordinate `json:"target"`
	Verse  *services.VerseView  `json:"verse"`
}

// SuggestBooksResponse lists fuzzy book-name matches.
type SuggestBooksResponse struct {
	Books []scripture.BookSuggestion `json:"books"`
}

// GetCorpus godoc
// @ID          getCorpus
// @Summary     Active corpus
// @Description Returns the fingerprint and size of the loaded corpus with the client search hints.
// @Tags        Scripture
// @Produce     json
// @Success     200  {object} handlers.CorpusInfoResponse
// @Failure     503  {object} handlers.ErrorResponse "No corpus loaded"
// @Router      /corpus [get]
func (h *Handlers) GetCorpus(c *gin.Context) {
	info, err := h.scrSvc.Info()
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, CorpusInfoResponse{
		LoadInfo:       info,
		MinQueryLength: h.hints.MinQuery,
		DebounceMs:     h.hints.Debounce.Milliseconds(),
	})
}

// Search godoc
// @ID          searchVerses
// @Summary     Search verses
// @Description Fuzzy, ranked verse search. Queries shorter than the minimum length return an empty result.
// @Description Each result carries a context excerpt split into highlighted segments.
// @Tags        Scripture
// @Produce     json
//
// @Param       q      query  string  true   "Search text"   example(goodly parents)
// @Param       limit  query  int     false  "Max results"   minimum(1)
//
// @Success     200  {object} services.SearchResponse
// @Failure     503  {object} handlers.ErrorResponse "No corpus loaded"
// @Router      /search [get]
func (h *Handlers) Search(c *gin.Context) {
	limit := utils.AtoiDefault(c.Query("limit"), 0)
	if limit < 0 {
		limit = 0
	}
	if h.maxSearch > 0 && (limit == 0 || limit > h.maxSearch) {
		limit = h.maxSearch
	}

	resp, err := h.scrSvc.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// ListVolumes godoc
// @ID          listVolumes
// @Summary     Table of contents
// @Tags        Scripture
// @Produce     json
// @Success     200  {object} handlers.VolumesResponse
// @Failure     503  {object} handlers.ErrorResponse "No corpus loaded"
// @Router      /volumes [get]
func (h *Handlers) ListVolumes(c *gin.Context) {
	vols, err := h.scrSvc.Volumes()
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, VolumesResponse{Volumes: vols})
}

// GetChapter godoc
// @ID          getChapter
// @Summary     Read a chapter
// @Description Returns the verses of a chapter with links to the previous and next chapter.
// @Description previous/next are null at the first and last chapter of a volume.
// @Tags        Scripture
// @Produce     json
//
// @Param       volume   path  string  true  "Volume ID"  example(bom)
// @Param       book     path  string  true  "Book ID"    example(1-nephi)
// @Param       chapter  path  int     true  "Chapter"    minimum(1)
//
// @Success     200  {object} services.ChapterView
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /volumes/{volume}/books/{book}/chapters/{chapter} [get]
func (h *Handlers) GetChapter(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("chapter"))
	if err != nil || n < 1 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chapter must be a positive integer")
		return
	}
	view, err := h.scrSvc.Chapter(c.Request.Context(), c.Param("volume"), c.Param("book"), n)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, view)
}

// GetVerse godoc
// @ID          getVerse
// @Summary     Read a verse
// @Tags        Scripture
// @Produce     json
// @Param       id   path  string  true  "Verse ID"  example(1-nephi-3-7)
// @Success     200  {object} services.VerseView
// @Failure     404  {object} handlers.ErrorResponse "Verse not found"
// @Router      /verses/{id} [get]
func (h *Handlers) GetVerse(c *gin.Context) {
	v, err := h.scrSvc.Verse(c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, v)
}

// FollowCrossReference godoc
// @ID          followCrossReference
// @Summary     Follow a cross-reference
// @Description Resolves the n-th (zero-based) cross-reference of a verse to its target verse.
// @Tags        Scripture
// @Produce     json
//
// @Param       id  path  string  true  "Verse ID"                  example(1-nephi-3-7)
// @Param       n   path  int     true  "Cross-reference position"  minimum(0)
//
// @Success     200  {object} handlers.CrossReferenceResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Target not found"
// @Router      /verses/{id}/xrefs/{n} [get]
func (h *Handlers) FollowCrossReference(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "n must be an integer")
		return
	}
	target, err := h.scrSvc.CrossReference(c.Param("id"), n)
	if err != nil {
		failErr(c, err)
		return
	}
	resp := CrossReferenceResponse{Target: target}
	if target.VerseID != "" {
		if v, err := h.scrSvc.Verse(target.VerseID); err == nil {
			resp.Verse = v
		}
	}
	ok(c, http.StatusOK, resp)
}

// LookupReference godoc
// @ID          lookupReference
// @Summary     Resolve a citation
// @Description Parses a citation such as "1 Nephi 3:7" or "Alma 32" and returns its address.
// @Tags        Scripture
// @Produce     json
// @Param       q    query  string  true  "Citation"  example(Alma 32:21)
// @Success     200  {object} scripture.Coordinate
// @Failure     400  {object} handlers.ErrorResponse "Unparseable citation"
// @Failure     404  {object} handlers.ErrorResponse "Not in corpus"
// @Router      /references [get]
func (h *Handlers) LookupReference(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "q required")
		return
	}
	co, err := h.scrSvc.Lookup(q)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, co)
}

// SuggestBooks godoc
// @ID          suggestBooks
// @Summary     Suggest book names
// @Tags        Scripture
// @Produce     json
// @Param       q      query  string  true   "Partial book name"  example(mos)
// @Param       limit  query  int     false  "Max suggestions"    default(10)
// @Success     200  {object} handlers.SuggestBooksResponse
// @Router      /books/suggest [get]
func (h *Handlers) SuggestBooks(c *gin.Context) {
	limit := utils.Clamp(utils.AtoiDefault(c.Query("limit"), 10), 1, 50)
	books, err := h.scrSvc.SuggestBooks(c.Query("q"), limit)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, SuggestBooksResponse{Books: books})
}
