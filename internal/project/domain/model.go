// Package domain contains core types for the project aggregate.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"

	refdomain "github.com/Pet-projects-for-experience/Backend/internal/reference/domain"
)

// Project statuses.
const (
	StatusDraft  int16 = 1
	StatusActive int16 = 2
	StatusEnded  int16 = 3
)

// ValidStatus reports whether the value is a known project status.
func ValidStatus(status int16) bool {
	return status >= StatusDraft && status <= StatusEnded
}

// Busyness values in hours per week.
var BusynessChoices = []int16{10, 20, 30, 40}

// ValidBusyness reports whether the value is a known busyness choice.
func ValidBusyness(busyness int16) bool {
	for _, choice := range BusynessChoices {
		if busyness == choice {
			return true
		}
	}
	return false
}

// Recruitment status labels, derived, never persisted.
const (
	RecruitmentOpen   = "open"
	RecruitmentClosed = "closed"
)

// Project is the aggregate root: a posted pet project with specialist slots.
type Project struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:text;not null;uniqueIndex:idx_projects_creator_name" json:"name"`
	Description string       `gorm:"type:text;not null;default:''" json:"description"`
	CreatorID   snowflake.ID `gorm:"column:creator_id;not null;uniqueIndex:idx_projects_creator_name;index" json:"creator_id"`
	OwnerID     snowflake.ID `gorm:"column:owner_id;not null;index" json:"owner_id"`
	Started     *time.Time   `gorm:"type:date" json:"started,omitempty"`
	Ended       *time.Time   `gorm:"type:date" json:"ended,omitempty"`
	Busyness    *int16       `gorm:"type:smallint" json:"busyness,omitempty"`
	Status      int16        `gorm:"type:smallint;not null;index" json:"status"`
	Link        string       `gorm:"type:text;not null;default:''" json:"link"`
	Phone       string       `gorm:"type:text;not null;default:''" json:"phone_number"`
	Telegram    string       `gorm:"type:text;not null;default:''" json:"telegram_nick"`
	Email       string       `gorm:"type:text;not null;default:''" json:"email"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Directions  []refdomain.Direction `gorm:"many2many:project_directions" json:"directions"`
	Specialists []ProjectSpecialist   `gorm:"foreignKey:ProjectID" json:"project_specialists"`
}

// TableName sets the database table name.
func (Project) TableName() string { return "projects" }

// RecruitmentStatus derives the open/closed label from the live slot set.
func (p *Project) RecruitmentStatus() string {
	return RecruitmentStatus(p.Specialists)
}

// RecruitmentStatus is open when any slot still has is_required set.
func RecruitmentStatus(slots []ProjectSpecialist) string {
	for _, slot := range slots {
		if slot.IsRequired {
			return RecruitmentOpen
		}
	}
	return RecruitmentClosed
}

// ProjectSpecialist is a required-specialist slot on a project.
type ProjectSpecialist struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	ProjectID    snowflake.ID `gorm:"column:project_id;not null;uniqueIndex:idx_project_specialists_slot" json:"project_id"`
	ProfessionID snowflake.ID `gorm:"column:profession_id;not null;uniqueIndex:idx_project_specialists_slot" json:"-"`
	Level        int16        `gorm:"type:smallint;not null;uniqueIndex:idx_project_specialists_slot" json:"level"`
	Count        int16        `gorm:"type:smallint;not null;default:1" json:"count"`
	IsRequired   bool         `gorm:"not null;default:false" json:"is_required"`

	Profession refdomain.Profession `gorm:"foreignKey:ProfessionID" json:"profession"`
	Skills     []refdomain.Skill    `gorm:"many2many:project_specialist_skills" json:"skills"`
}

// TableName sets the database table name.
func (ProjectSpecialist) TableName() string { return "project_specialists" }

// ProjectParticipant is the durable membership record materialized by an
// accepted request or invitation. One row per (project, user, profession).
type ProjectParticipant struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	ProjectID    snowflake.ID `gorm:"column:project_id;not null;uniqueIndex:idx_project_participants_role" json:"project_id"`
	UserID       snowflake.ID `gorm:"column:user_id;not null;uniqueIndex:idx_project_participants_role" json:"user_id"`
	ProfessionID snowflake.ID `gorm:"column:profession_id;not null;uniqueIndex:idx_project_participants_role" json:"-"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	Profession refdomain.Profession `gorm:"foreignKey:ProfessionID" json:"profession"`
	Skills     []refdomain.Skill    `gorm:"many2many:project_participant_skills" json:"skills"`
}

// TableName sets the database table name.
func (ProjectParticipant) TableName() string { return "project_participants" }

// FavoriteProject marks a project as favorited by a user.
type FavoriteProject struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ProjectID snowflake.ID `gorm:"column:project_id;not null;uniqueIndex:idx_favorite_projects_pair" json:"project_id"`
	UserID    snowflake.ID `gorm:"column:user_id;not null;uniqueIndex:idx_favorite_projects_pair" json:"user_id"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (FavoriteProject) TableName() string { return "favorite_projects" }
