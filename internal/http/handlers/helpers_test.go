package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/scripture-study/internal/domain"
	"github.com/tbourn/scripture-study/internal/llm"
	"github.com/tbourn/scripture-study/internal/repo"
	"github.com/tbourn/scripture-study/internal/scripture/bundled"
	"github.com/tbourn/scripture-study/internal/services"
)

// ---------- test DB + repo shim ----------

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type testChatRepo struct{}

func (testChatRepo) CreateChat(ctx context.Context, db *gorm.DB, userID, title string) (*domain.Chat, error) {
	return repo.CreateChat(ctx, db, userID, title)
}

func (testChatRepo) GetChat(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Chat, error) {
	return repo.GetChat(ctx, db, id, userID)
}

func (testChatRepo) UpdateChatTitle(ctx context.Context, db *gorm.DB, id, userID, title string) error {
	return repo.UpdateChatTitle(ctx, db, id, userID, title)
}

func (testChatRepo) CountChats(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.CountChats(ctx, db, userID)
}

func (testChatRepo) ListChatsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Chat, error) {
	return repo.ListChatsPage(ctx, db, userID, offset, limit)
}

func (testChatRepo) DeleteChat(ctx context.Context, db *gorm.DB, id, userID string) error {
	return repo.DeleteChat(ctx, db, id, userID)
}

// ---------- services over the bundled corpus ----------

func newScripture(t *testing.T) *services.ScriptureService {
	t.Helper()
	c, err := bundled.Corpus()
	if err != nil {
		t.Fatalf("bundled corpus: %v", err)
	}
	s := services.NewScriptureService(services.SearchSettings{MinQuery: 3, Threshold: 0.5, ContextWindow: 20})
	s.Load(context.Background(), c)
	return s
}

// echoGen answers "echo: <query>".
var echoGen = llm.Func(func(_ context.Context, req llm.Request) (llm.Response, error) {
	return llm.Response{Text: "echo: " + req.Query}, nil
})

func newReplier(gen llm.Generator) *services.Replier {
	return &services.Replier{Generator: gen, Filter: services.NewContentFilter(services.DefaultBannedWords), MaxNewTokens: 150}
}

// testEnv is a Handlers instance over real services and an in-memory DB.
type testEnv struct {
	db     *gorm.DB
	scr    *services.ScriptureService
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	scr := newScripture(t)
	h := New(Services{
		Chats: services.NewChatService(db, testChatRepo{}),
		Messages: &services.MessageService{
			DB:             db,
			Replier:        newReplier(echoGen),
			HistoryTurns:   4,
			MaxPromptRunes: 50,
		},
		Scripture:        scr,
		Study:            services.NewStudyService(db, scr),
		MaxSearchResults: 5,
		Hints:            SearchHints{MinQuery: 3},
	})

	r := gin.New()
	r.POST("/chats", h.CreateChat)
	r.GET("/chats", h.ListChats)
	r.GET("/chats/:id", h.GetChat)
	r.PUT("/chats/:id/title", h.UpdateChatTitle)
	r.DELETE("/chats/:id", h.DeleteChat)
	r.POST("/chats/:id/messages", h.PostMessage)
	r.GET("/chats/:id/messages", h.ListMessages)

	r.GET("/corpus", h.GetCorpus)
	r.GET("/search", h.Search)
	r.GET("/volumes", h.ListVolumes)
	r.GET("/volumes/:volume/books/:book/chapters/:chapter", h.GetChapter)
	r.GET("/verses/:id", h.GetVerse)
	r.GET("/verses/:id/xrefs/:n", h.FollowCrossReference)
	r.GET("/references", h.LookupReference)
	r.GET("/books/suggest", h.SuggestBooks)

	r.GET("/study/notes", h.ListNotes)
	r.PUT("/study/notes/:verseId", h.SaveNote)
	r.DELETE("/study/notes/:verseId", h.DeleteNote)
	r.GET("/study/highlights", h.ListHighlights)
	r.POST("/study/highlights", h.AddHighlight)
	r.DELETE("/study/highlights/:id", h.RemoveHighlight)
	r.GET("/study/bookmarks", h.ListBookmarks)
	r.POST("/study/bookmarks", h.AddBookmark)
	r.DELETE("/study/bookmarks/:id", h.RemoveBookmark)
	r.GET("/study/position", h.GetPosition)
	r.PUT("/study/position", h.SetPosition)

	return &testEnv{db: db, scr: scr, router: r}
}

// do performs a request as user and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status=%d want %d body=%s", w.Code, status, w.Body.String())
	}
}

func wantError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	wantStatus(t, w, status)
	if got := decode[ErrorResponse](t, w); got.Code != code {
		t.Fatalf("code=%q want %q", got.Code, code)
	}
}
