// Package domain contains the generic proposal entity covering both
// participation requests and invitations.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"

	projectdomain "github.com/Pet-projects-for-experience/Backend/internal/project/domain"
)

// Proposal kinds. A request is candidate-initiated, an invitation is
// initiated by the project owner or creator.
const (
	KindRequest    = "request"
	KindInvitation = "invitation"
)

// Proposal statuses. InProgress is the only non-terminal state.
const (
	StatusInProgress int16 = 1
	StatusAccepted   int16 = 2
	StatusRejected   int16 = 3
)

// StatusLabel renders a status for API payloads and error messages.
func StatusLabel(status int16) string {
	switch status {
	case StatusInProgress:
		return "in_progress"
	case StatusAccepted:
		return "accepted"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// StatusFromLabel resolves a label back to its status value.
func StatusFromLabel(label string) (int16, bool) {
	switch label {
	case "in_progress":
		return StatusInProgress, true
	case "accepted":
		return StatusAccepted, true
	case "rejected":
		return StatusRejected, true
	default:
		return 0, false
	}
}

// Proposal is one participation request or invitation for a project slot.
// At most one in-progress row may exist per (project, user, position) for
// requests and per (user, position) for invitations, enforced by partial
// unique indexes at the storage layer.
type Proposal struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	Kind        string        `gorm:"type:text;not null;index" json:"-"`
	ProjectID   snowflake.ID  `gorm:"column:project_id;not null;index" json:"project_id"`
	UserID      snowflake.ID  `gorm:"column:user_id;not null;index" json:"user_id"`
	PositionID  snowflake.ID  `gorm:"column:position_id;not null;index" json:"position_id"`
	AuthorID    *snowflake.ID `gorm:"column:author_id" json:"author_id,omitempty"`
	Status      int16         `gorm:"type:smallint;not null;default:1" json:"-"`
	IsViewed    bool          `gorm:"not null;default:false" json:"is_viewed"`
	CoverLetter string        `gorm:"type:text;not null;default:''" json:"cover_letter"`
	Answer      string        `gorm:"type:text;not null;default:''" json:"answer"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Project  projectdomain.Project           `gorm:"foreignKey:ProjectID" json:"project"`
	Position projectdomain.ProjectSpecialist `gorm:"foreignKey:PositionID" json:"position"`
}

// TableName sets the database table name.
func (Proposal) TableName() string { return "proposals" }

// Terminal reports whether the proposal reached a final state.
func (p *Proposal) Terminal() bool {
	return p.Status == StatusAccepted || p.Status == StatusRejected
}
