package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"

	"github.com/Pet-projects-for-experience/Backend/pkg/db/pagination"
)

// Listing boxes: inbox holds proposals the actor answers, outbox the ones
// the actor initiated.
const (
	BoxInbox  = "inbox"
	BoxOutbox = "outbox"
)

type CreateRequestInput struct {
	ProjectID   snowflake.ID
	PositionID  snowflake.ID
	CoverLetter string
}

type CreateInvitationInput struct {
	ProjectID   snowflake.ID
	PositionID  snowflake.ID
	UserID      snowflake.ID
	CoverLetter string
}

type AnswerInput struct {
	Status int16
	Answer *string
	// ExtraFields is set by the transport when the payload tries to change
	// anything besides status and answer. Invitations reject such writes
	// wholesale.
	ExtraFields bool
}

type ListProposalsRequest struct {
	Kind      string
	Box       string
	PageToken string
	PageSize  int32
}

type ListProposalsResponse struct {
	pagination.PageInfo
	Proposals []Proposal `json:"proposals"`
}

type Service interface {
	CreateRequest(ctx context.Context, actorID snowflake.ID, input CreateRequestInput) (*Proposal, error)
	CreateInvitation(ctx context.Context, actorID snowflake.ID, input CreateInvitationInput) (*Proposal, error)
	Get(ctx context.Context, actorID, proposalID snowflake.ID, kind string) (*Proposal, error)
	MarkViewed(ctx context.Context, actorID, proposalID snowflake.ID, kind string) error
	Answer(ctx context.Context, actorID, proposalID snowflake.ID, kind string, input AnswerInput) (*Proposal, error)
	List(ctx context.Context, actorID snowflake.ID, req ListProposalsRequest) (ListProposalsResponse, error)
}

var (
	ErrProposalNotFound = errors.New("proposal not found")
	ErrForbidden        = errors.New("proposal action forbidden")
)
