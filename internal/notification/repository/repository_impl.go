package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Pet-projects-for-experience/Backend/internal/notification/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, notification *domain.Notification) error {
	return db.WithContext(ctx).Create(notification).Error
}

func (r *repo) ListPending(ctx context.Context, db *gorm.DB, limit int) ([]*domain.Notification, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}

	var notifications []*domain.Notification
	err := db.WithContext(ctx).
		Where("status = ?", domain.StatusPending).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *repo) MarkSent(ctx context.Context, db *gorm.DB, notification *domain.Notification) error {
	return db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ?", notification.ID).
		Updates(map[string]any{
			"status":     domain.StatusSent,
			"attempts":   notification.Attempts,
			"sent_at":    notification.SentAt,
			"updated_at": notification.UpdatedAt,
		}).Error
}

func (r *repo) MarkFailed(ctx context.Context, db *gorm.DB, notification *domain.Notification) error {
	status := domain.StatusPending
	if notification.Attempts >= domain.MaxAttempts {
		status = domain.StatusFailed
	}
	return db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ?", notification.ID).
		Updates(map[string]any{
			"status":     status,
			"attempts":   notification.Attempts,
			"last_error": notification.LastError,
			"updated_at": notification.UpdatedAt,
		}).Error
}
