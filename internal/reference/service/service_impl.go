package service

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Pet-projects-for-experience/Backend/internal/reference/domain"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("reference.service"),
		repo: p.Repo,
	}
}

func (s *Service) ListProfessions(ctx context.Context) ([]domain.Profession, error) {
	return s.repo.ListProfessions(ctx, s.db)
}

func (s *Service) ListSkills(ctx context.Context) ([]domain.Skill, error) {
	return s.repo.ListSkills(ctx, s.db)
}

func (s *Service) ListDirections(ctx context.Context) ([]domain.Direction, error) {
	return s.repo.ListDirections(ctx, s.db)
}
