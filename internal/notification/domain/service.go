package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type EnqueueRequest struct {
	UserID  snowflake.ID
	Type    string
	Payload map[string]any
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, notification *Notification) error
	// ListPending returns the oldest undelivered notifications, capped at limit.
	ListPending(ctx context.Context, db *gorm.DB, limit int) ([]*Notification, error)
	MarkSent(ctx context.Context, db *gorm.DB, notification *Notification) error
	MarkFailed(ctx context.Context, db *gorm.DB, notification *Notification) error
}

type Service interface {
	Enqueue(ctx context.Context, req EnqueueRequest) error
	// EnqueueTx writes the outbox row inside the caller's transaction.
	EnqueueTx(ctx context.Context, tx *gorm.DB, req EnqueueRequest) error
}

var ErrUnknownType = errors.New("unknown notification type")
