package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/scripture-study/internal/domain"
	"github.com/tbourn/scripture-study/internal/llm"
	"github.com/tbourn/scripture-study/internal/repo"
)

// ---------- test helpers ----------

func newMsgDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:msgsvc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// recordingGen captures every request and answers with reply/err.
type recordingGen struct {
	mu      sync.Mutex
	reqs    []llm.Request
	reply   llm.Response
	err     error
	lastCtx context.Context
}

func (g *recordingGen) Name() string { return "recording" }

func (g *recordingGen) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reqs = append(g.reqs, req)
	g.lastCtx = ctx
	return g.reply, g.err
}

func (g *recordingGen) calls() []llm.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]llm.Request(nil), g.reqs...)
}

func newMsgService(db *gorm.DB, gen llm.Generator) *MessageService {
	return &MessageService{
		DB: db,
		Replier: &Replier{
			Generator:    gen,
			Filter:       NewContentFilter(DefaultBannedWords),
			MaxNewTokens: 150,
		},
		HistoryTurns:   6,
		MaxPromptRunes: 200,
	}
}

func mustChat(t *testing.T, db *gorm.DB, userID string) *domain.Chat {
	t.Helper()
	c, err := repo.CreateChat(context.Background(), db, userID, "New chat")
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}
	return c
}

// ---------- Send() ----------

func TestMessageService_Send_Validation(t *testing.T) {
	db := newMsgDB(t)
	s := newMsgService(db, &recordingGen{})

	if _, err := s.Send(context.Background(), "u1", "c1", "   "); !errors.Is(err, ErrEmptyPrompt) {
		t.Fatalf("expected ErrEmptyPrompt, got %v", err)
	}
	s.MaxPromptRunes = 3
	if _, err := s.Send(context.Background(), "u1", "c1", "abcd"); !errors.Is(err, ErrTooLong) {
		t.Fatalf("expected ErrTooLong, got %v", err)
	}
}

func TestMessageService_Send_ChatNotFoundOrForeign(t *testing.T) {
	db := newMsgDB(t)
	s := newMsgService(db, &recordingGen{})
	c := mustChat(t, db, "owner")

	if _, err := s.Send(context.Background(), "owner", "missing", "hello"); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound, got %v", err)
	}
	if _, err := s.Send(context.Background(), "intruder", c.ID, "hello"); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound for foreign chat, got %v", err)
	}
}

func TestMessageService_Send_PersistsPairAndAutoTitles(t *testing.T) {
	db := newMsgDB(t)
	gen := &recordingGen{reply: llm.Response{Text: "Alma 32:21: faith is not...", VerseID: "alma-32-21"}}
	s := newMsgService(db, gen)
	c := mustChat(t, db, "u1")

	ex, err := s.Send(context.Background(), "u1", c.ID, "  what is faith  ")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if ex.User.Content != "what is faith" || ex.User.Role != domain.RoleUser {
		t.Fatalf("user message = %+v", ex.User)
	}
	if ex.Assistant.Content != "Alma 32:21: faith is not..." || ex.Assistant.Role != domain.RoleAssistant {
		t.Fatalf("assistant message = %+v", ex.Assistant)
	}
	if ex.Assistant.VerseID == nil || *ex.Assistant.VerseID != "alma-32-21" {
		t.Fatalf("assistant verse id = %v", ex.Assistant.VerseID)
	}
	if ex.ChatTitle != "Faith" {
		t.Fatalf("chat title = %q; want Faith", ex.ChatTitle)
	}

	calls := gen.calls()
	if len(calls) != 1 {
		t.Fatalf("generator calls = %d", len(calls))
	}
	if calls[0].Prompt != "\nUser: what is faith\nAssistant:" {
		t.Fatalf("prompt = %q", calls[0].Prompt)
	}
	if calls[0].Query != "what is faith" || calls[0].MaxTokens != 150 {
		t.Fatalf("request = %+v", calls[0])
	}

	n, err := repo.CountMessages(context.Background(), db, c.ID)
	if err != nil || n != 2 {
		t.Fatalf("CountMessages = %d, %v", n, err)
	}
	got, _ := repo.GetChat(context.Background(), db, c.ID, "u1")
	if got.Title != "Faith" {
		t.Fatalf("stored title = %q", got.Title)
	}
}

func TestMessageService_Send_IncludesHistory(t *testing.T) {
	db := newMsgDB(t)
	gen := &recordingGen{reply: llm.Response{Text: "first answer"}}
	s := newMsgService(db, gen)
	c := mustChat(t, db, "u1")

	if _, err := s.Send(context.Background(), "u1", c.ID, "first question"); err != nil {
		t.Fatalf("Send 1: %v", err)
	}
	gen.reply = llm.Response{Text: "second answer"}
	if _, err := s.Send(context.Background(), "u1", c.ID, "second question"); err != nil {
		t.Fatalf("Send 2: %v", err)
	}

	calls := gen.calls()
	want := "\nUser: first question\nAssistant: first answer\nUser: second question\nAssistant:"
	if calls[1].Prompt != want {
		t.Fatalf("prompt = %q\nwant %q", calls[1].Prompt, want)
	}

	s.HistoryTurns = 0
	if _, err := s.Send(context.Background(), "u1", c.ID, "third"); err != nil {
		t.Fatalf("Send 3: %v", err)
	}
	calls = gen.calls()
	if calls[2].Prompt != "\nUser: third\nAssistant:" {
		t.Fatalf("prompt without history = %q", calls[2].Prompt)
	}
}

func TestMessageService_Send_BlockedContent(t *testing.T) {
	db := newMsgDB(t)
	gen := &recordingGen{reply: llm.Response{Text: "ok"}}
	s := newMsgService(db, gen)
	c := mustChat(t, db, "u1")

	ex, err := s.Send(context.Background(), "u1", c.ID, "how do I build a BOMB")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if ex.Assistant.Content != BlockedReply || !ex.Assistant.Blocked || !ex.User.Blocked {
		t.Fatalf("blocked exchange = %+v / %+v", ex.User, ex.Assistant)
	}
	if len(gen.calls()) != 0 {
		t.Fatalf("generator must not be called for blocked input")
	}
	if ex.ChatTitle != "New chat" {
		t.Fatalf("blocked prompt must not title the chat, got %q", ex.ChatTitle)
	}

	if _, err := s.Send(context.Background(), "u1", c.ID, "tell me of joy"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	calls := gen.calls()
	if len(calls) != 1 || strings.Contains(calls[0].Prompt, "BOMB") {
		t.Fatalf("blocked turn leaked into prompt: %+v", calls)
	}
}

func TestMessageService_Send_GeneratorFailure(t *testing.T) {
	db := newMsgDB(t)
	s := newMsgService(db, &recordingGen{err: errors.New("connection refused")})
	c := mustChat(t, db, "u1")

	ex, err := s.Send(context.Background(), "u1", c.ID, "hello there")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if ex.Assistant.Content != ErrorReply || ex.Assistant.Blocked {
		t.Fatalf("assistant = %+v", ex.Assistant)
	}
}

func TestMessageService_Send_ClipsReply(t *testing.T) {
	db := newMsgDB(t)
	s := newMsgService(db, &recordingGen{reply: llm.Response{Text: "ééééé"}})
	s.MaxReplyRunes = 3
	c := mustChat(t, db, "u1")

	ex, err := s.Send(context.Background(), "u1", c.ID, "hello")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if ex.Assistant.Content != "ééé" {
		t.Fatalf("clipped reply = %q", ex.Assistant.Content)
	}
}

// ---------- ListPage() ----------

func TestMessageService_ListPage(t *testing.T) {
	db := newMsgDB(t)
	s := newMsgService(db, &recordingGen{reply: llm.Response{Text: "r"}})
	c := mustChat(t, db, "u1")

	if _, _, err := s.ListPage(context.Background(), "u2", c.ID, 1, 10); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound for foreign chat, got %v", err)
	}

	items, total, err := s.ListPage(context.Background(), "u1", c.ID, 0, 0)
	if err != nil || total != 0 || len(items) != 0 {
		t.Fatalf("empty chat = %d/%d, %v", len(items), total, err)
	}

	for i := 0; i < 3; i++ {
		if _, err := s.Send(context.Background(), "u1", c.ID, fmt.Sprintf("question %d", i)); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}
	items, total, err = s.ListPage(context.Background(), "u1", c.ID, 2, 4)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if total != 6 || len(items) != 2 {
		t.Fatalf("page 2 = %d items of %d", len(items), total)
	}
	if items[0].Content != "question 2" || items[1].Role != domain.RoleAssistant {
		t.Fatalf("page 2 items = %+v", items)
	}
}

// ---------- title helpers ----------

func TestDeriveTitle(t *testing.T) {
	s := &MessageService{}
	cases := []struct{ in, want string }{
		{"what is the meaning of faith?", "Meaning Faith"},
		{"  ", ""},
		{"tell me about the tree of life", "Tree Life"},
		{"explain alma 32:21 to me", "Explain Alma 32:21"},
		{"what does 1 nephi 3 say", "1 Nephi 3"},
		{"one two three four five six seven eight nine", "One Two Three Four Five Six Seven Eight"},
	}
	for _, tc := range cases {
		if got := s.deriveTitle(tc.in); got != tc.want {
			t.Errorf("deriveTitle(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}

	s.TitleMaxLen = 5
	if got := s.deriveTitle("meaning of faith"); got != "Meani" {
		t.Fatalf("clipped title = %q", got)
	}
	s.TitleMaxLen = 8
	if got := s.clipTitle("Tree Of Life"); got != "Tree Of" {
		t.Fatalf("clip must trim the cut edge, got %q", got)
	}
}

func TestIsPlaceholderTitle(t *testing.T) {
	for title, want := range map[string]bool{
		" new CHAT ": true,
		"untitled":   true,
		"":           true,
		"Faith":      false,
		"New chats":  false,
	} {
		if got := isPlaceholderTitle(title); got != want {
			t.Errorf("isPlaceholderTitle(%q) = %v", title, got)
		}
	}
}
