package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/scripture-study/internal/domain"
)

func Test_userID_and_clampPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=0&page_size=500", nil)
	if got := userID(c); got != "demo-user" {
		t.Fatalf("fallback user = %q", got)
	}
	c.Request.Header.Set("X-User-ID", "  u-header ")
	if got := userID(c); got != "u-header" {
		t.Fatalf("header user = %q", got)
	}
	c.Set("userID", "u-ctx")
	if got := userID(c); got != "u-ctx" {
		t.Fatalf("context user = %q", got)
	}

	page, size := clampPagination(c)
	if page != 1 || size != 100 {
		t.Fatalf("clamp = %d,%d", page, size)
	}

	p := newPagination(2, 4, 9)
	if p.TotalPages != 3 || !p.HasNext {
		t.Fatalf("pagination = %+v", p)
	}
}

func TestChats_CreateListGetRenameDelete(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/chats", "u1", "{bad")
	wantError(t, w, http.StatusBadRequest, ErrCodeBadRequest)

	w = e.do(t, http.MethodPost, "/chats", "u1", CreateChatRequest{Title: "  "})
	wantStatus(t, w, http.StatusCreated)
	created := decode[domain.Chat](t, w)
	if created.Title != "New chat" || created.UserID != "u1" {
		t.Fatalf("created = %+v", created)
	}
	e.do(t, http.MethodPost, "/chats", "u1", CreateChatRequest{Title: "Second"})
	e.do(t, http.MethodPost, "/chats", "u2", CreateChatRequest{Title: "Other user"})

	w = e.do(t, http.MethodGet, "/chats?page=1&page_size=1", "u1", nil)
	wantStatus(t, w, http.StatusOK)
	list := decode[ListChatsResponse](t, w)
	if list.Pagination.Total != 2 || len(list.Chats) != 1 || !list.Pagination.HasNext {
		t.Fatalf("list = %+v", list)
	}

	w = e.do(t, http.MethodGet, "/chats", "nobody", nil)
	wantStatus(t, w, http.StatusOK)
	if body := w.Body.String(); body == "" || decode[ListChatsResponse](t, w).Chats == nil {
		t.Fatalf("empty list must serialize as []: %s", body)
	}

	path := "/chats/" + created.ID
	w = e.do(t, http.MethodGet, path, "u1", nil)
	wantStatus(t, w, http.StatusOK)

	w = e.do(t, http.MethodGet, path, "u2", nil)
	wantError(t, w, http.StatusNotFound, ErrCodeNotFound)

	w = e.do(t, http.MethodPut, path+"/title", "u1", UpdateChatTitleRequest{Title: "Faith"})
	wantStatus(t, w, http.StatusNoContent)
	got := decode[domain.Chat](t, e.do(t, http.MethodGet, path, "u1", nil))
	if got.Title != "Faith" {
		t.Fatalf("renamed title = %q", got.Title)
	}

	w = e.do(t, http.MethodPut, path+"/title", "u1", map[string]string{"title": ""})
	wantError(t, w, http.StatusBadRequest, ErrCodeBadRequest)

	w = e.do(t, http.MethodPut, "/chats/"+uuid.NewString()+"/title", "u1", UpdateChatTitleRequest{Title: "x"})
	wantError(t, w, http.StatusNotFound, ErrCodeNotFound)

	w = e.do(t, http.MethodDelete, path, "u2", nil)
	wantError(t, w, http.StatusNotFound, ErrCodeNotFound)
	w = e.do(t, http.MethodDelete, path, "u1", nil)
	wantStatus(t, w, http.StatusNoContent)
	w = e.do(t, http.MethodGet, path, "u1", nil)
	wantError(t, w, http.StatusNotFound, ErrCodeNotFound)
}

func TestChats_RejectNonUUIDs(t *testing.T) {
	e := newTestEnv(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/chats/not-a-uuid"},
		{http.MethodDelete, "/chats/not-a-uuid"},
		{http.MethodPut, "/chats/not-a-uuid/title"},
		{http.MethodGet, "/chats/not-a-uuid/messages"},
		{http.MethodPost, "/chats/not-a-uuid/messages"},
	} {
		w := e.do(t, tc.method, tc.path, "u1", map[string]string{"title": "x", "content": "x"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s %s = %d", tc.method, tc.path, w.Code)
		}
	}
}
