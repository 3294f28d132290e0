package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Profession is an immutable reference pair of speciality and specialization.
type Profession struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	Speciality     string       `gorm:"not null;uniqueIndex:idx_professions_pair" json:"speciality"`
	Specialization string       `gorm:"not null;uniqueIndex:idx_professions_pair" json:"specialization"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Profession) TableName() string { return "professions" }

// Skill is an immutable reference entry.
type Skill struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null;uniqueIndex" json:"name"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Skill) TableName() string { return "skills" }

// Direction is a development-direction tag projects are labelled with.
type Direction struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null;uniqueIndex" json:"name"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Direction) TableName() string { return "directions" }
