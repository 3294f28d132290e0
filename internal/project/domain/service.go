package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/Pet-projects-for-experience/Backend/pkg/db/pagination"
)

// Page sizes used by the catalog and the landing preview.
const (
	ProjectPageSize     = 7
	PreviewMainPageSize = 6
)

type SlotSpec struct {
	ProfessionID snowflake.ID
	Level        int16
	Count        int16
	IsRequired   bool
	SkillIDs     []snowflake.ID
}

// WriteProjectRequest carries a full create or replace of a project or draft.
// Nil pointers mean "field absent", which draft writes tolerate.
type WriteProjectRequest struct {
	Name            string
	Description     *string
	Started         *time.Time
	Ended           *time.Time
	Busyness        *int16
	Status          *int16
	DirectionIDs    []snowflake.ID
	Link            *string
	Phone           *string
	Telegram        *string
	Email           *string
	RecruitmentOpen *bool
	Specialists     []SlotSpec
}

type ListProjectsRequest struct {
	Statuses          []int16
	Busyness          []int16
	Levels            []int16
	ProfessionIDs     []snowflake.ID
	SkillIDs          []snowflake.ID
	DirectionIDs      []snowflake.ID
	RecruitmentStatus *int
	ProjectRole       *int
	Search            string
	FavoritesOnly     bool
	Page              pagination.Offset
}

type ListProjectsResponse struct {
	pagination.OffsetPageInfo
	Projects []Project `json:"projects"`
}

type Service interface {
	Create(ctx context.Context, actorID snowflake.ID, req WriteProjectRequest) (*Project, error)
	CreateDraft(ctx context.Context, actorID snowflake.ID, req WriteProjectRequest) (*Project, error)
	Update(ctx context.Context, actorID, projectID snowflake.ID, req WriteProjectRequest) (*Project, error)
	UpdateDraft(ctx context.Context, actorID, projectID snowflake.ID, req WriteProjectRequest) (*Project, error)
	Get(ctx context.Context, viewerID, projectID snowflake.ID) (*Project, error)
	Delete(ctx context.Context, actorID, projectID snowflake.ID) error
	List(ctx context.Context, viewerID snowflake.ID, req ListProjectsRequest) (ListProjectsResponse, error)
	ListDrafts(ctx context.Context, viewerID snowflake.ID, page pagination.Offset) (ListProjectsResponse, error)
	PreviewMain(ctx context.Context, page pagination.Offset) (ListProjectsResponse, error)
	AddFavorite(ctx context.Context, userID, projectID snowflake.ID) error
	RemoveFavorite(ctx context.Context, userID, projectID snowflake.ID) error
	ExcludeParticipant(ctx context.Context, actorID, projectID, participantID snowflake.ID) error
	ListParticipants(ctx context.Context, viewerID, projectID snowflake.ID) ([]ProjectParticipant, error)
	CompleteEndedProjects(ctx context.Context) (int64, error)
}

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrForbidden           = errors.New("project action forbidden")
	ErrAlreadyFavorite     = errors.New("project already favorited")
	ErrNotFavorite         = errors.New("project not favorited")
)

// Draft visibility behaviors, selected by the runtime policy.
const (
	DraftVisibilityOwner = "owner"
	DraftVisibilityNone  = "none"
)

// VisibilityPolicy decides who may see a project. Non-draft projects are
// public; drafts follow the configured behavior.
type VisibilityPolicy struct {
	Draft string
}

func (p VisibilityPolicy) CanView(viewerID snowflake.ID, project *Project) bool {
	if project == nil {
		return false
	}
	if project.Status != StatusDraft {
		return true
	}
	switch p.Draft {
	case DraftVisibilityNone:
		return false
	default:
		return viewerID != 0 && (viewerID == project.CreatorID || viewerID == project.OwnerID)
	}
}
