package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Pet-projects-for-experience/Backend/internal/notification/domain"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("notification.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Enqueue(ctx context.Context, req domain.EnqueueRequest) error {
	return s.EnqueueTx(ctx, s.db, req)
}

func (s *Service) EnqueueTx(ctx context.Context, tx *gorm.DB, req domain.EnqueueRequest) error {
	if req.Type != domain.TypeProjectInvitation {
		return domain.ErrUnknownType
	}

	payload, err := json.Marshal(req.Payload)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	notification := &domain.Notification{
		ID:        s.genID.Generate(),
		UserID:    req.UserID,
		Type:      req.Type,
		Payload:   payload,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, tx, notification); err != nil {
		return err
	}

	s.log.Debug("notification enqueued",
		zap.String("notification_id", notification.ID.String()),
		zap.String("type", notification.Type))
	return nil
}
