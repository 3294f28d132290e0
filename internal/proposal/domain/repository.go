package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/Pet-projects-for-experience/Backend/pkg/db/pagination"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, proposal *Proposal) error
	FindByID(ctx context.Context, db *gorm.DB, proposalID snowflake.ID, kind string) (*Proposal, error)
	// FindExisting returns the newest proposal matching the triple whose
	// status is in the given set. Invitations match on (user, position) only.
	FindExisting(ctx context.Context, db *gorm.DB, kind string, projectID, userID, positionID snowflake.ID, statuses []int16) (*Proposal, error)
	HasInProgressInvitation(ctx context.Context, db *gorm.DB, userID, positionID snowflake.ID) (bool, error)
	UpdateAnswer(ctx context.Context, db *gorm.DB, proposal *Proposal) error
	MarkViewed(ctx context.Context, db *gorm.DB, proposalID snowflake.ID) error
	ListInbox(ctx context.Context, db *gorm.DB, kind string, actorID snowflake.ID, page pagination.Pagination) ([]*Proposal, error)
	ListOutbox(ctx context.Context, db *gorm.DB, kind string, actorID snowflake.ID, page pagination.Pagination) ([]*Proposal, error)
}
