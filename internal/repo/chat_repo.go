package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/scripture-study/internal/domain"
)

// ErrNotFound aliases gorm.ErrRecordNotFound; errors.Is matches either.
var ErrNotFound = gorm.ErrRecordNotFound

// ownedBy limits a query to rows of userID.
func ownedBy(userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB { return db.Where("user_id = ?", userID) }
}

// chatOf limits a query to one chat of userID.
func chatOf(id, userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB { return db.Where("id = ? AND user_id = ?", id, userID) }
}

// affected turns a write that touched nothing into ErrNotFound.
func affected(res *gorm.DB) error {
	switch {
	case res.Error != nil:
		return res.Error
	case res.RowsAffected == 0:
		return ErrNotFound
	}
	return nil
}

// CreateChat stores a new chat for userID under a random UUID.
func CreateChat(ctx context.Context, db *gorm.DB, userID, title string) (*domain.Chat, error) {
	now := time.Now().UTC()
	c := &domain.Chat{ID: uuid.NewString(), UserID: userID, Title: title, CreatedAt: now, UpdatedAt: now}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// CountChats counts the live chats of userID.
func CountChats(ctx context.Context, db *gorm.DB, userID string) (total int64, err error) {
	err = db.WithContext(ctx).Model(&domain.Chat{}).Scopes(ownedBy(userID)).Count(&total).Error
	return total, err
}

// ListChatsPage returns limit chats of userID after skipping offset, newest
// first. The id tiebreak keeps pages stable for chats created in the same
// instant.
func ListChatsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Chat, error) {
	var out []domain.Chat
	err := db.WithContext(ctx).
		Scopes(ownedBy(userID)).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&out).Error
	return out, err
}

// GetChat loads chat id if userID owns it.
func GetChat(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Chat, error) {
	var c domain.Chat
	if err := db.WithContext(ctx).Scopes(chatOf(id, userID)).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateChatTitle renames chat id if userID owns it.
func UpdateChatTitle(ctx context.Context, db *gorm.DB, id, userID, title string) error {
	return affected(db.WithContext(ctx).Model(&domain.Chat{}).Scopes(chatOf(id, userID)).Update("title", title))
}

// DeleteChat soft-deletes chat id if userID owns it. Messages are kept and
// become unreachable with their chat.
func DeleteChat(ctx context.Context, db *gorm.DB, id, userID string) error {
	return affected(db.WithContext(ctx).Scopes(chatOf(id, userID)).Delete(&domain.Chat{}))
}
