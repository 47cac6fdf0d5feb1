package repo

import (
	"context"
	"testing"
	"time"

	"github.com/tbourn/scripture-study/internal/domain"
)

func TestCreateMessage_AssignsIDAndTimestamps(t *testing.T) {
	ctx := context.Background()
	db := newRepoDB(t, &domain.Chat{}, &domain.Message{})
	if err := db.Create(&domain.Chat{ID: "c1", UserID: "u1", Title: "t"}).Error; err != nil {
		t.Fatalf("seed chat: %v", err)
	}

	verse := "alma-32-21"
	m := &domain.Message{ChatID: "c1", Role: domain.RoleAssistant, Content: "faith is not to have a perfect knowledge", VerseID: &verse}
	if err := CreateMessage(ctx, db, m); err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	if m.ID == "" || m.CreatedAt.IsZero() || time.Since(m.CreatedAt) > time.Minute {
		t.Fatalf("unexpected message: %+v", m)
	}

	var got domain.Message
	if err := db.First(&got, "id = ?", m.ID).Error; err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got.VerseID == nil || *got.VerseID != verse {
		t.Fatalf("verse id not stored: %+v", got)
	}
}

func TestListMessagesPage_OrderAndCount(t *testing.T) {
	ctx := context.Background()
	if _, err := CountMessages(ctx, newRepoDB(t), "c1"); err == nil {
		t.Fatalf("expected error when table missing")
	}

	db := newRepoDB(t, &domain.Message{})
	t0 := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	// Same CreatedAt for the first two; "a" sorts before "b".
	seed := []domain.Message{
		{ID: "b", ChatID: "c1", Role: domain.RoleUser, Content: "2", CreatedAt: t0},
		{ID: "a", ChatID: "c1", Role: domain.RoleUser, Content: "1", CreatedAt: t0},
		{ID: "c", ChatID: "c1", Role: domain.RoleAssistant, Content: "3", CreatedAt: t0.Add(time.Second)},
		{ID: "z", ChatID: "c2", Role: domain.RoleUser, Content: "other", CreatedAt: t0},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed %s: %v", seed[i].ID, err)
		}
	}

	total, err := CountMessages(ctx, db, "c1")
	if err != nil || total != 3 {
		t.Fatalf("CountMessages = %d, %v; want 3", total, err)
	}
	page, err := ListMessagesPage(ctx, db, "c1", 0, 10)
	if err != nil {
		t.Fatalf("ListMessagesPage: %v", err)
	}
	if len(page) != 3 || page[0].ID != "a" || page[1].ID != "b" || page[2].ID != "c" {
		t.Fatalf("unexpected order: %+v", page)
	}
	page, _ = ListMessagesPage(ctx, db, "c1", 2, 10)
	if len(page) != 1 || page[0].ID != "c" {
		t.Fatalf("unexpected offset page: %+v", page)
	}
}

func TestRecentMessages_LastNChronologicalSkippingBlocked(t *testing.T) {
	ctx := context.Background()
	db := newRepoDB(t, &domain.Message{})
	t0 := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"m1", "m2", "m3", "m4", "m5"} {
		m := domain.Message{ID: id, ChatID: "c1", Role: domain.RoleUser, Content: id, CreatedAt: t0.Add(time.Duration(i) * time.Second)}
		m.Blocked = id == "m4"
		if err := db.Create(&m).Error; err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}

	got, err := RecentMessages(ctx, db, "c1", 3)
	if err != nil {
		t.Fatalf("RecentMessages: %v", err)
	}
	if len(got) != 3 || got[0].ID != "m2" || got[1].ID != "m3" || got[2].ID != "m5" {
		t.Fatalf("unexpected recent window: %+v", got)
	}

	none, err := RecentMessages(ctx, db, "c1", 0)
	if err != nil || none != nil {
		t.Fatalf("n=0 should return nil, got %+v err=%v", none, err)
	}
}
