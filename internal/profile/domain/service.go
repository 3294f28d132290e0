package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// MaxSpecialists caps how many professions one profile may carry.
const MaxSpecialists = 2

type Repository interface {
	FindByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*Profile, error)
	Create(ctx context.Context, db *gorm.DB, profile *Profile) error
	Update(ctx context.Context, db *gorm.DB, profile *Profile) error
	ReplaceSpecialists(ctx context.Context, db *gorm.DB, userID snowflake.ID, specialists []Specialist) error
	HasProfession(ctx context.Context, db *gorm.DB, userID, professionID snowflake.ID) (bool, error)
}

type Service interface {
	Get(ctx context.Context, userID snowflake.ID) (*Profile, error)
	Update(ctx context.Context, userID snowflake.ID, req UpdateProfileRequest) (*Profile, error)
	Ensure(ctx context.Context, userID snowflake.ID) error
	HasProfession(ctx context.Context, userID, professionID snowflake.ID) (bool, error)
}

type SpecialistSpec struct {
	ProfessionID snowflake.ID `json:"profession_id"`
	Level        *int16       `json:"level,omitempty"`
	SkillIDs     []snowflake.ID
}

type UpdateProfileRequest struct {
	Name               *string
	About              *string
	PortfolioLink      *string
	Country            *string
	City               *string
	Birthday           *time.Time
	ReadyToParticipate *bool
	Specialists        []SpecialistSpec
}

var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidAbout        = errors.New("invalid_about")
	ErrInvalidPortfolio    = errors.New("invalid_portfolio_link")
	ErrInvalidBirthday     = errors.New("invalid_birthday")
	ErrInvalidLevel        = errors.New("invalid_level")
	ErrUnknownProfession   = errors.New("unknown_profession")
	ErrUnknownSkill        = errors.New("unknown_skill")
	ErrDuplicateProfession = errors.New("duplicate_profession")
	ErrTooManySpecialists  = errors.New("too_many_specialists")
)
