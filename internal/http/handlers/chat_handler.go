// Chat HTTP handlers.
//
// This file exposes REST endpoints for persisted chats:
//   - POST   /chats               (create)
//   - GET    /chats               (list, paginated)
//   - GET    /chats/{id}          (fetch one)
//   - PUT    /chats/{id}/title    (rename)
//   - DELETE /chats/{id}          (delete with its messages)
//
// It also declares the service contracts and the Handlers wiring shared by
// every file in this package.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/scripture-study/internal/domain"
	"github.com/tbourn/scripture-study/internal/scripture"
	"github.com/tbourn/scripture-study/internal/services"
	"github.com/tbourn/scripture-study/internal/utils"
)

//
// Service contracts (context-aware)
//

// ChatService defines chat lifecycle operations consumed by HTTP handlers.
type ChatService interface {
	Create(ctx context.Context, userID, title string) (*domain.Chat, error)
	Get(ctx context.Context, userID, chatID string) (*domain.Chat, error)
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Chat, int64, error)
	UpdateTitle(ctx context.Context, userID, chatID, title string) error
	Delete(ctx context.Context, userID, chatID string) error
}

// MessageService sends prompts and lists the messages of a chat.
type MessageService interface {
	Send(ctx context.Context, userID, chatID, prompt string) (*services.Exchange, error)
	ListPage(ctx context.Context, userID, chatID string, page, pageSize int) ([]domain.Message, int64, error)
}

// ScriptureService reads the loaded corpus.
type ScriptureService interface {
	Info() (services.LoadInfo, error)
	Search(ctx context.Context, query string, limit int) (*services.SearchResponse, error)
	Volumes() ([]services.VolumeSummary, error)
	Chapter(ctx context.Context, volumeID, bookID string, chapter int) (*services.ChapterView, error)
	Verse(verseID string) (*services.VerseView, error)
	CrossReference(verseID string, n int) (scripture.Coordinate, error)
	Lookup(citation string) (scripture.Coordinate, error)
	SuggestBooks(query string, limit int) ([]scripture.BookSuggestion, error)
}

// StudyService manages a user's notes, highlights, bookmarks and reading
// position.
type StudyService interface {
	Notes(ctx context.Context, userID string) ([]domain.Note, error)
	SaveNote(ctx context.Context, userID, verseID, text string) (*domain.Note, error)
	DeleteNote(ctx context.Context, userID, verseID string) error
	Highlights(ctx context.Context, userID, verseID string) ([]domain.Highlight, error)
	AddHighlight(ctx context.Context, userID, verseID, color string) (*domain.Highlight, error)
	RemoveHighlight(ctx context.Context, userID, id string) error
	Bookmarks(ctx context.Context, userID string) ([]domain.Bookmark, error)
	AddBookmark(ctx context.Context, userID, verseID, label string) (*domain.Bookmark, error)
	RemoveBookmark(ctx context.Context, userID, id string) error
	Position(ctx context.Context, userID string) (*domain.Position, error)
	SetPosition(ctx context.Context, userID, volumeID, bookID string, chapter int) (*domain.Position, error)
}

//
// Handler wiring
//

// Services bundles the dependencies of Handlers. Any field may be nil when
// the matching routes are not mounted.
type Services struct {
	Chats     ChatService
	Messages  MessageService
	Scripture ScriptureService
	Study     StudyService

	// MaxSearchResults caps the limit query parameter of /search; 0 = no cap.
	MaxSearchResults int
	Hints            SearchHints
}

// SearchHints are advertised to clients by GET /corpus.
type SearchHints struct {
	MinQuery int
	Debounce time.Duration
}

// Handlers groups the REST endpoints.
type Handlers struct {
	chatSvc   ChatService
	msgSvc    MessageService
	scrSvc    ScriptureService
	studySvc  StudyService
	maxSearch int
	hints     SearchHints
}

// New constructs Handlers bound to the given services.
func New(s Services) *Handlers {
	return &Handlers{
		chatSvc:   s.Chats,
		msgSvc:    s.Messages,
		scrSvc:    s.Scripture,
		studySvc:  s.Study,
		maxSearch: s.MaxSearchResults,
		hints:     s.Hints,
	}
}

// userID extracts the user id set by upstream middleware, then the
// X-User-ID header, and finally falls back to "demo-user".
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

// chatIDParam reads the :id path parameter and rejects non-UUIDs.
func chatIDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chat id must be a UUID")
		return "", false
	}
	return id, true
}

//
// DTOs
//

// CreateChatRequest is the JSON payload for creating a chat.
type CreateChatRequest struct {
	// Title optionally sets the chat title; a default is used when empty.
	Title string `json:"title" example:"Faith in Alma"`
}

// UpdateChatTitleRequest is the JSON payload for updating a chat title.
type UpdateChatTitleRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255" example:"The tree of life"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListChatsResponse wraps a page of chats and pagination information.
type ListChatsResponse struct {
	Chats      []domain.Chat `json:"chats"`
	Pagination Pagination    `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params.
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.Clamp(utils.AtoiDefault(c.Query("page"), defaultPage), 1, 0)
	pageSize = utils.Clamp(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1, maxPageSize)
	return
}

func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := utils.TotalPages(total, pageSize)
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

//
// Handlers
//

// CreateChat godoc
// @ID          createChat
// @Summary     Create a new chat
// @Description Creates a chat for the current user and returns the chat resource.
// @Tags        Chats
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.CreateChatRequest  true  "Create chat payload"
//
// @Success     201  {object}  domain.Chat
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chats [post]
func (h *Handlers) CreateChat(c *gin.Context) {
	var req CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	ch, err := h.chatSvc.Create(c.Request.Context(), userID(c), strings.TrimSpace(req.Title))
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "could not create chat")
		return
	}
	ok(c, http.StatusCreated, ch)
}

// ListChats godoc
// @ID          listChats
// @Summary     List chats (paginated)
// @Description Returns a page of the user's chats, most recently created first.
// @Tags        Chats
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       page       query   int     false "Page number"            minimum(1) default(1)
// @Param       page_size  query   int     false "Items per page"         minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListChatsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /chats [get]
func (h *Handlers) ListChats(c *gin.Context) {
	page, pageSize := clampPagination(c)

	items, total, err := h.chatSvc.ListPage(c.Request.Context(), userID(c), page, pageSize)
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list chats")
		return
	}
	if items == nil {
		items = []domain.Chat{}
	}
	ok(c, http.StatusOK, ListChatsResponse{Chats: items, Pagination: newPagination(page, pageSize, total)})
}

// GetChat godoc
// @ID          getChat
// @Summary     Fetch a chat
// @Tags        Chats
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Chat ID (UUID)"         format(uuid)
//
// @Success     200  {object} domain.Chat
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Chat not found"
// @Router      /chats/{id} [get]
func (h *Handlers) GetChat(c *gin.Context) {
	chatID, valid := chatIDParam(c)
	if !valid {
		return
	}
	ch, err := h.chatSvc.Get(c.Request.Context(), userID(c), chatID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ch)
}

// UpdateChatTitle godoc
// @ID          updateChatTitle
// @Summary     Rename a chat
// @Description Updates the title of a chat owned by the current user.
// @Tags        Chats
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Chat ID (UUID)"         format(uuid)
// @Param       body       body    handlers.UpdateChatTitleRequest  true  "New title"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Chat not found"
// @Router      /chats/{id}/title [put]
func (h *Handlers) UpdateChatTitle(c *gin.Context) {
	chatID, valid := chatIDParam(c)
	if !valid {
		return
	}

	var req UpdateChatTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title required (1-255 chars)")
		return
	}

	if err := h.chatSvc.UpdateTitle(c.Request.Context(), userID(c), chatID, req.Title); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// DeleteChat godoc
// @ID          deleteChat
// @Summary     Delete a chat
// @Description Deletes a chat owned by the current user together with its messages.
// @Tags        Chats
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Chat ID (UUID)"         format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Chat not found"
// @Router      /chats/{id} [delete]
func (h *Handlers) DeleteChat(c *gin.Context) {
	chatID, valid := chatIDParam(c)
	if !valid {
		return
	}
	if err := h.chatSvc.Delete(c.Request.Context(), userID(c), chatID); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
