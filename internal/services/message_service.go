// Package services – MessageService
//
// MessageService stores the messages of a chat. Each Send builds the prompt
// from the chat's recent unblocked turns, asks the Replier for an answer and
// writes the question and the answer in one transaction. The first answered
// question of a chat that still has a placeholder title also names it.
package services

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/scripture-study/internal/domain"
	"github.com/tbourn/scripture-study/internal/repo"
	"github.com/tbourn/scripture-study/internal/utils"
)

// Placeholder titles; chats carrying one are renamed after the first answer.
const (
	defaultTitleNew      = "New chat"
	defaultTitleUntitled = "Untitled"

	defaultMessagePageSize = 20
	maxTitleWords          = 8
)

// MessageService coordinates message persistence and generated replies.
type MessageService struct {
	DB      *gorm.DB
	Replier *Replier

	// HistoryTurns is how many previous exchanges are sent with the prompt.
	HistoryTurns int

	// MaxPromptRunes rejects longer prompts; MaxReplyRunes truncates
	// replies. Zero disables either limit.
	MaxPromptRunes int
	MaxReplyRunes  int

	// TitleLocale drives title casing (English when unset). TitleMaxLen caps
	// derived titles in runes (60 when unset).
	TitleLocale language.Tag
	TitleMaxLen int
}

// Exchange is the stored result of one Send.
type Exchange struct {
	User      *domain.Message `json:"user"`
	Assistant *domain.Message `json:"assistant"`
	ChatTitle string          `json:"chat_title"`
}

// Send validates the prompt, verifies the chat, generates a reply and
// persists both messages in one transaction. Prompts rejected by the content
// filter are stored with Blocked set and never reach the generator or later
// prompts.
func (s *MessageService) Send(ctx context.Context, userID, chatID, prompt string) (*Exchange, error) {
	ctx, span := s.span(ctx, "Send", userID, chatID)
	defer span.End()

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if s.MaxPromptRunes > 0 && utf8.RuneCountInString(prompt) > s.MaxPromptRunes {
		return nil, ErrTooLong
	}

	chat, err := repo.GetChat(ctx, s.DB, chatID, userID)
	if err != nil {
		return nil, chatErr(err)
	}

	history, err := s.history(ctx, chatID)
	if err != nil {
		return nil, err
	}

	rep := s.replier().Reply(ctx, history, prompt)
	span.SetAttributes(
		attribute.Bool("reply.blocked", rep.Blocked),
		attribute.Bool("reply.failed", rep.Failed),
	)
	if s.MaxReplyRunes > 0 && utf8.RuneCountInString(rep.Text) > s.MaxReplyRunes {
		rep.Text = string([]rune(rep.Text)[:s.MaxReplyRunes])
	}

	now := time.Now().UTC()
	userMsg := &domain.Message{
		ChatID:    chatID,
		Role:      domain.RoleUser,
		Content:   prompt,
		Blocked:   rep.Blocked,
		CreatedAt: now,
	}
	asstMsg := &domain.Message{
		ChatID:    chatID,
		Role:      domain.RoleAssistant,
		Content:   rep.Text,
		Blocked:   rep.Blocked,
		CreatedAt: now.Add(time.Microsecond),
	}
	if rep.VerseID != "" {
		v := rep.VerseID
		asstMsg.VerseID = &v
	}

	title := ""
	if !rep.Blocked && isPlaceholderTitle(chat.Title) {
		title = s.deriveTitle(prompt)
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []*domain.Message{userMsg, asstMsg} {
			if err := repo.CreateMessage(ctx, tx, m); err != nil {
				return err
			}
		}
		if title == "" {
			return nil
		}
		return tx.Model(&domain.Chat{}).Where("id = ?", chatID).Update("title", title).Error
	})
	if err != nil {
		return nil, err
	}
	if title != "" {
		chat.Title = title
	}
	return &Exchange{User: userMsg, Assistant: asstMsg, ChatTitle: chat.Title}, nil
}

func (s *MessageService) replier() *Replier {
	if s.Replier == nil {
		return &Replier{}
	}
	return s.Replier
}

// history loads the last HistoryTurns exchanges as prompt turns. Messages
// are paired in order; an unpaired message is dropped.
func (s *MessageService) history(ctx context.Context, chatID string) ([]Turn, error) {
	msgs, err := repo.RecentMessages(ctx, s.DB, chatID, 2*s.HistoryTurns)
	if err != nil {
		return nil, err
	}
	turns := make([]Turn, 0, len(msgs)/2)
	for i := 0; i+1 < len(msgs); i++ {
		if msgs[i].Role == domain.RoleUser && msgs[i+1].Role == domain.RoleAssistant {
			turns = append(turns, Turn{User: msgs[i].Content, Assistant: msgs[i+1].Content})
			i++
		}
	}
	return turns, nil
}

// ListPage returns one page of a chat's messages, oldest first, after
// checking that userID owns the chat.
func (s *MessageService) ListPage(ctx context.Context, userID, chatID string, page, pageSize int) ([]domain.Message, int64, error) {
	ctx, span := s.span(ctx, "ListPage", userID, chatID)
	defer span.End()

	page = utils.Clamp(page, 1, 0)
	if pageSize < 1 {
		pageSize = defaultMessagePageSize
	}
	span.SetAttributes(attribute.Int("page", page), attribute.Int("page_size", pageSize))

	if _, err := repo.GetChat(ctx, s.DB, chatID, userID); err != nil {
		return nil, 0, chatErr(err)
	}
	total, err := repo.CountMessages(ctx, s.DB, chatID)
	if err != nil || total == 0 {
		return []domain.Message{}, total, err
	}
	items, err := repo.ListMessagesPage(ctx, s.DB, chatID, (page-1)*pageSize, pageSize)
	return items, total, err
}

func (s *MessageService) span(ctx context.Context, name, userID, chatID string) (context.Context, trace.Span) {
	return otel.Tracer("services/MessageService").Start(ctx, name,
		trace.WithAttributes(
			attribute.String("chat.id", chatID),
			attribute.String("user.id", userID),
		),
	)
}

// isPlaceholderTitle reports whether title is blank or one of the defaults.
func isPlaceholderTitle(title string) bool {
	t := strings.TrimSpace(title)
	return t == "" || strings.EqualFold(t, defaultTitleNew) || strings.EqualFold(t, defaultTitleUntitled)
}

// deriveTitle names a chat after its first question: up to eight title-cased
// words with stop words removed. Chapter and verse numbers are kept, so
// "explain alma 32:21" becomes "Explain Alma 32:21".
func (s *MessageService) deriveTitle(prompt string) string {
	words := titleWordRE.FindAllString(strings.ToLower(prompt), -1)

	locale := s.TitleLocale
	if locale == language.Und {
		locale = language.English
	}
	caser := cases.Title(locale)

	out := make([]string, 0, maxTitleWords)
	for _, w := range words {
		if _, stop := titleStopWords[w]; stop {
			continue
		}
		out = append(out, caser.String(w))
		if len(out) == maxTitleWords {
			break
		}
	}
	return s.clipTitle(strings.Join(out, " "))
}

func (s *MessageService) clipTitle(title string) string {
	limit := s.TitleMaxLen
	if limit <= 0 {
		limit = defaultChatTitleMax
	}
	if utf8.RuneCountInString(title) <= limit {
		return title
	}
	return strings.TrimSpace(string([]rune(title)[:limit]))
}

// Words, or chapter numbers with an optional ":verse".
var titleWordRE = regexp.MustCompile(`\p{L}+|\p{N}+(?::\p{N}+)?`)

var titleStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {}, "to": {}, "in": {},
	"is": {}, "are": {}, "for": {}, "on": {}, "with": {}, "by": {}, "from": {},
	"at": {}, "as": {}, "that": {}, "this": {}, "it": {}, "be": {}, "was": {}, "were": {},
	"what": {}, "how": {}, "does": {}, "do": {}, "about": {}, "tell": {}, "me": {},
	"say": {}, "says": {}, "mean": {}, "i": {}, "we": {},
}
