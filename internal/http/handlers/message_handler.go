// Message HTTP handlers.
//
// This file exposes REST endpoints for chat messages:
//   - POST /chats/{id}/messages   (send a prompt and store the reply)
//   - GET  /chats/{id}/messages   (list paginated messages for a chat)
package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/scripture-study/internal/domain"
	"github.com/tbourn/scripture-study/internal/services"
)

//
// DTOs
//

// PostMessageRequest is the JSON payload for sending a user message.
type PostMessageRequest struct {
	// Content is the user prompt. It must be non-empty.
	Content string `json:"content" binding:"required,min=1" example:"What does Alma teach about faith?"`
}

// PostMessageResponse carries both stored messages of one exchange.
// Blocked is set when the prompt was rejected by the content filter.
type PostMessageResponse struct {
	User      *domain.Message `json:"user"`
	Message   *domain.Message `json:"message"`
	ChatTitle string          `json:"chat_title"`
	Blocked   bool            `json:"blocked"`
}

// ListMessagesResponse contains a page of chat messages and pagination metadata.
type ListMessagesResponse struct {
	Messages   []domain.Message `json:"messages"`
	Pagination Pagination       `json:"pagination"`
}

// nlCollapseRE collapses runs of 3+ newlines to two, preserving paragraphs.
var nlCollapseRE = regexp.MustCompile(`\n{3,}`)

// sanitizeContent converts CRLF/CR to LF, collapses blank-line runs and trims.
func sanitizeContent(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// maxPromptRunes reads the prompt cap from the concrete service when
// available so oversize prompts fail before any database work.
func maxPromptRunes(msgSvc MessageService) int {
	const fallback = 4000
	if ms, ok := msgSvc.(*services.MessageService); ok && ms.MaxPromptRunes > 0 {
		return ms.MaxPromptRunes
	}
	return fallback
}

// PostMessage godoc
// @ID          postMessage
// @Summary     Send a message and get the assistant reply
// @Description Appends a user message to the chat and generates an assistant reply.
// @Description Prompts containing banned words are stored as blocked and answered with a fixed reply.
// @Tags        Messages
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID that owns the chat"  example(user123)
// @Param       id         path    string  true  "Chat ID (UUID)"              format(uuid)
// @Param       body       body    handlers.PostMessageRequest  true  "User message payload"
//
// @Success     200  {object}  handlers.PostMessageResponse  "Stored exchange"
// @Failure     400  {object}  handlers.ErrorResponse        "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse        "Chat not found"
// @Failure     500  {object}  handlers.ErrorResponse        "Internal error"
// @Router      /chats/{id}/messages [post]
func (h *Handlers) PostMessage(c *gin.Context) {
	chatID, valid := chatIDParam(c)
	if !valid {
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}

	content := sanitizeContent(req.Content)
	if content == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}
	if limit := maxPromptRunes(h.msgSvc); utf8.RuneCountInString(content) > limit {
		fail(c, http.StatusBadRequest, ErrCodeTooLong, fmt.Sprintf("content too long: max %d runes", limit))
		return
	}

	ex, err := h.msgSvc.Send(c.Request.Context(), userID(c), chatID, content)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, PostMessageResponse{
		User:      ex.User,
		Message:   ex.Assistant,
		ChatTitle: ex.ChatTitle,
		Blocked:   ex.Assistant.Blocked,
	})
}

// ListMessages godoc
// @ID          listMessages
// @Summary     List messages in a chat (paginated)
// @Description Returns messages in ascending creation order.
// @Tags        Messages
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID that owns the chat"  example(user123)
// @Param       id         path    string  true  "Chat ID (UUID)"              format(uuid)
// @Param       page       query   int     false "Page number"                 minimum(1) default(1)
// @Param       page_size  query   int     false "Items per page"              minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListMessagesResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Chat not found"
// @Router      /chats/{id}/messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	chatID, valid := chatIDParam(c)
	if !valid {
		return
	}
	page, pageSize := clampPagination(c)

	items, total, err := h.msgSvc.ListPage(c.Request.Context(), userID(c), chatID, page, pageSize)
	if err != nil {
		failErr(c, err)
		return
	}
	if items == nil {
		items = []domain.Message{}
	}
	ok(c, http.StatusOK, ListMessagesResponse{Messages: items, Pagination: newPagination(page, pageSize, total)})
}
