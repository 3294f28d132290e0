package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/Pet-projects-for-experience/Backend/internal/reference/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListProfessions(ctx context.Context, db *gorm.DB) ([]domain.Profession, error) {
	var professions []domain.Profession
	err := db.WithContext(ctx).
		Order("speciality asc, specialization asc").
		Find(&professions).Error
	if err != nil {
		return nil, err
	}
	return professions, nil
}

func (r *repo) ListSkills(ctx context.Context, db *gorm.DB) ([]domain.Skill, error) {
	var skills []domain.Skill
	err := db.WithContext(ctx).Order("name asc").Find(&skills).Error
	if err != nil {
		return nil, err
	}
	return skills, nil
}

func (r *repo) ListDirections(ctx context.Context, db *gorm.DB) ([]domain.Direction, error) {
	var directions []domain.Direction
	err := db.WithContext(ctx).Order("name asc").Find(&directions).Error
	if err != nil {
		return nil, err
	}
	return directions, nil
}

func (r *repo) FindProfessionByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Profession, error) {
	var profession domain.Profession
	err := db.WithContext(ctx).Where("id = ?", id).Take(&profession).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &profession, nil
}

func (r *repo) FindSkillsByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]domain.Skill, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var skills []domain.Skill
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&skills).Error
	if err != nil {
		return nil, err
	}
	return skills, nil
}

func (r *repo) FindDirectionsByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]domain.Direction, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var directions []domain.Direction
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&directions).Error
	if err != nil {
		return nil, err
	}
	return directions, nil
}
