// Package domain holds the GORM models of the study server: chats, their
// messages, and the per-user study collections.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Chat is a persisted conversation. Titles start as "New chat" and are
// replaced after the first answered question. Deleting a chat is soft.
type Chat struct {
	ID        string         `json:"id"        gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id"   gorm:"type:varchar(64);not null;index:idx_user_chats"`
	Title     string         `json:"title"     gorm:"type:varchar(255);not null;default:'New chat'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"         gorm:"index"`
}

func (Chat) TableName() string { return "chats" }

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat. Assistant replies that quote a verse carry
// its id in VerseID; refused prompts and their canned answers are Blocked.
type Message struct {
	ID        string         `json:"id"        gorm:"type:char(36);primaryKey"`
	ChatID    string         `json:"chat_id"   gorm:"type:char(36);not null;index:idx_chat_msgs,priority:1"`
	Role      string         `json:"role"      gorm:"type:varchar(16);not null;check:role IN ('user','assistant')"`
	Content   string         `json:"content"   gorm:"type:text;not null"`
	VerseID   *string        `json:"verse_id,omitempty" gorm:"type:varchar(128)"`
	Blocked   bool           `json:"blocked,omitempty"  gorm:"not null;default:false"`
	CreatedAt time.Time      `json:"created_at" gorm:"index:idx_chat_msgs,priority:2"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"         gorm:"index"`

	// Hard-deleting the chat removes its messages.
	Chat Chat `json:"-" gorm:"foreignKey:ChatID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Message) TableName() string { return "messages" }

// StudyBlob is one user's serialized collection (notes, highlights,
// bookmarks or reading position). The whole collection is rewritten on every
// change; the last write wins.
type StudyBlob struct {
	UserID    string    `gorm:"type:varchar(64);primaryKey"`
	Key       string    `gorm:"column:collection;type:varchar(32);primaryKey"`
	Data      []byte    `gorm:"type:blob;not null"`
	UpdatedAt time.Time `gorm:"index"`
}

func (StudyBlob) TableName() string { return "study_blobs" }
