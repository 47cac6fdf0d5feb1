// Package services – ChatService
//
// ChatService owns the persisted study chats of a user. Message traffic and
// automatic titles live in MessageService.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/scripture-study/internal/domain"
	"github.com/tbourn/scripture-study/internal/utils"
)

const (
	defaultChatPageSize = 20
	defaultChatTitleMax = 60
)

// ChatRepo is the persistence contract of ChatService. Every lookup is
// scoped to the owning user; rows owned by someone else read as
// gorm.ErrRecordNotFound.
type ChatRepo interface {
	CreateChat(ctx context.Context, db *gorm.DB, userID, title string) (*domain.Chat, error)
	GetChat(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Chat, error)
	UpdateChatTitle(ctx context.Context, db *gorm.DB, id, userID, title string) error
	CountChats(ctx context.Context, db *gorm.DB, userID string) (int64, error)
	ListChatsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Chat, error)
	DeleteChat(ctx context.Context, db *gorm.DB, id, userID string) error
}

// ChatService creates, lists, renames and deletes chats.
type ChatService struct {
	DB   *gorm.DB
	Repo ChatRepo

	// TitleMaxLen caps stored titles in runes; 0 disables the cap.
	TitleMaxLen int
}

// NewChatService returns a ChatService with a 60-rune title cap.
func NewChatService(db *gorm.DB, r ChatRepo) *ChatService {
	return &ChatService{DB: db, Repo: r, TitleMaxLen: defaultChatTitleMax}
}

func (s *ChatService) span(ctx context.Context, name, userID string) (context.Context, trace.Span) {
	return otel.Tracer("services/ChatService").Start(ctx, name,
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
}

// Create starts a chat. A blank title becomes "New chat", which
// MessageService later replaces with one derived from the first question.
func (s *ChatService) Create(ctx context.Context, userID, title string) (*domain.Chat, error) {
	ctx, span := s.span(ctx, "Create", userID)
	defer span.End()

	if title = normalizeTitle(title); title == "" {
		title = defaultTitleNew
	}
	return s.Repo.CreateChat(ctx, s.DB, userID, s.clip(title))
}

// ListPage returns one page of the user's chats, newest first, and the
// total count. page < 1 reads as 1; pageSize < 1 reads as 20.
func (s *ChatService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Chat, int64, error) {
	ctx, span := s.span(ctx, "ListPage", userID)
	defer span.End()

	page = utils.Clamp(page, 1, 0)
	if pageSize < 1 {
		pageSize = defaultChatPageSize
	}

	total, err := s.Repo.CountChats(ctx, s.DB, userID)
	if err != nil || total == 0 {
		return []domain.Chat{}, total, err
	}
	span.SetAttributes(attribute.Int64("chats.total", total))

	items, err := s.Repo.ListChatsPage(ctx, s.DB, userID, (page-1)*pageSize, pageSize)
	return items, total, err
}

// Get returns a chat owned by userID, or ErrChatNotFound.
func (s *ChatService) Get(ctx context.Context, userID, chatID string) (*domain.Chat, error) {
	ctx, span := s.span(ctx, "Get", userID)
	defer span.End()

	c, err := s.Repo.GetChat(ctx, s.DB, chatID, userID)
	if err != nil {
		return nil, chatErr(err)
	}
	return c, nil
}

// UpdateTitle renames a chat. A blank title becomes "Untitled".
func (s *ChatService) UpdateTitle(ctx context.Context, userID, chatID, title string) error {
	ctx, span := s.span(ctx, "UpdateTitle", userID)
	defer span.End()

	if title = normalizeTitle(title); title == "" {
		title = defaultTitleUntitled
	}
	return chatErr(s.Repo.UpdateChatTitle(ctx, s.DB, chatID, userID, s.clip(title)))
}

// Delete removes a chat owned by userID.
func (s *ChatService) Delete(ctx context.Context, userID, chatID string) error {
	ctx, span := s.span(ctx, "Delete", userID)
	defer span.End()

	return chatErr(s.Repo.DeleteChat(ctx, s.DB, chatID, userID))
}

func (s *ChatService) clip(title string) string {
	if s.TitleMaxLen <= 0 || utf8.RuneCountInString(title) <= s.TitleMaxLen {
		return title
	}
	return string([]rune(title)[:s.TitleMaxLen])
}

// chatErr maps a missing row to ErrChatNotFound.
func chatErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrChatNotFound
	}
	return err
}

// normalizeTitle trims and collapses runs of whitespace to single spaces.
func normalizeTitle(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
