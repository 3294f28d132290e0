package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	TypeProjectInvitation = "project_invitation"
)

const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// MaxAttempts is how many delivery tries a notification gets before it
// is parked as failed.
const MaxAttempts = 5

// Notification is an outbox row. Writers enqueue, the dispatcher worker
// delivers; delivery never happens inline with the business transaction.
type Notification struct {
	ID        snowflake.ID   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UserID    snowflake.ID   `gorm:"index:idx_notifications_user;autoIncrement:false" json:"user_id"`
	Type      string         `gorm:"size:64" json:"type"`
	Payload   datatypes.JSON `json:"payload"`
	Status    string         `gorm:"size:16;index:idx_notifications_status" json:"status"`
	Attempts  int            `json:"attempts"`
	LastError string         `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	SentAt    *time.Time     `json:"sent_at,omitempty"`
}

func (Notification) TableName() string { return "notifications" }
