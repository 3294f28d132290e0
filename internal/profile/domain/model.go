// Package domain contains core types for specialist profiles.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"

	refdomain "github.com/Pet-projects-for-experience/Backend/internal/reference/domain"
)

// Profile is the specialist profile attached to a user account.
type Profile struct {
	UserID             snowflake.ID `gorm:"primaryKey;column:user_id" json:"user_id"`
	Name               string       `gorm:"type:text;not null;default:''" json:"name"`
	About              string       `gorm:"type:text;not null;default:''" json:"about"`
	PortfolioLink      string       `gorm:"type:text;not null;default:''" json:"portfolio_link"`
	Country            string       `gorm:"type:text;not null;default:''" json:"country"`
	City               string       `gorm:"type:text;not null;default:''" json:"city"`
	Birthday           *time.Time   `gorm:"type:date" json:"birthday,omitempty"`
	ReadyToParticipate bool         `gorm:"not null;default:false" json:"ready_to_participate"`
	CreatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Specialists []Specialist `gorm:"foreignKey:ProfileUserID" json:"specialists"`
}

// TableName sets the database table name.
func (Profile) TableName() string { return "profiles" }

// Specialist binds a profile to a profession with optional level and skills.
type Specialist struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	ProfileUserID snowflake.ID `gorm:"column:profile_user_id;not null;uniqueIndex:idx_specialists_profile_profession" json:"-"`
	ProfessionID  snowflake.ID `gorm:"column:profession_id;not null;uniqueIndex:idx_specialists_profile_profession" json:"-"`
	Level         *int16       `gorm:"type:smallint" json:"level,omitempty"`

	Profession refdomain.Profession `gorm:"foreignKey:ProfessionID" json:"profession"`
	Skills     []refdomain.Skill    `gorm:"many2many:specialist_skills" json:"skills"`
}

// TableName sets the database table name.
func (Specialist) TableName() string { return "specialists" }
