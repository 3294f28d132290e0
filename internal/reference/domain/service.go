package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	ListProfessions(ctx context.Context, db *gorm.DB) ([]Profession, error)
	ListSkills(ctx context.Context, db *gorm.DB) ([]Skill, error)
	ListDirections(ctx context.Context, db *gorm.DB) ([]Direction, error)
	FindProfessionByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Profession, error)
	FindSkillsByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]Skill, error)
	FindDirectionsByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]Direction, error)
}

type Service interface {
	ListProfessions(ctx context.Context) ([]Profession, error)
	ListSkills(ctx context.Context) ([]Skill, error)
	ListDirections(ctx context.Context) ([]Direction, error)
}

var (
	ErrProfessionNotFound = errors.New("profession_not_found")
	ErrSkillNotFound      = errors.New("skill_not_found")
	ErrDirectionNotFound  = errors.New("direction_not_found")
)
