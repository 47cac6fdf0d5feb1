package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/scripture-study/internal/domain"
)

// LoadBlob returns the stored bytes for (userID, key), or ErrNotFound.
func LoadBlob(ctx context.Context, db *gorm.DB, userID, key string) ([]byte, error) {
	var b domain.StudyBlob
	err := db.WithContext(ctx).
		Where("user_id = ? AND collection = ?", userID, key).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return b.Data, nil
}

// SaveBlob writes data for (userID, key), replacing whatever was there.
func SaveBlob(ctx context.Context, db *gorm.DB, userID, key string, data []byte) error {
	b := &domain.StudyBlob{
		UserID:    userID,
		Key:       key,
		Data:      data,
		UpdatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "collection"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(b).Error
}

// DeleteBlob removes (userID, key). Deleting a missing blob is not an error.
func DeleteBlob(ctx context.Context, db *gorm.DB, userID, key string) error {
	return db.WithContext(ctx).
		Where("user_id = ? AND collection = ?", userID, key).
		Delete(&domain.StudyBlob{}).Error
}
