package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, project *Project) error
	Update(ctx context.Context, db *gorm.DB, project *Project) error
	Delete(ctx context.Context, db *gorm.DB, projectID snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, projectID snowflake.ID) (*Project, error)
	NameTaken(ctx context.Context, db *gorm.DB, creatorID snowflake.ID, name string, excludeID snowflake.ID) (bool, error)
	ReplaceDirections(ctx context.Context, db *gorm.DB, project *Project, directionIDs []snowflake.ID) error
	ReplaceSpecialists(ctx context.Context, db *gorm.DB, projectID snowflake.ID, specialists []ProjectSpecialist) error
	List(ctx context.Context, db *gorm.DB, viewerID snowflake.ID, req ListProjectsRequest, visibility VisibilityPolicy) ([]Project, int64, error)
	ListDrafts(ctx context.Context, db *gorm.DB, viewerID snowflake.ID, offset, limit int) ([]Project, int64, error)
	ListActive(ctx context.Context, db *gorm.DB, offset, limit int) ([]Project, int64, error)

	FindSpecialist(ctx context.Context, db *gorm.DB, specialistID snowflake.ID) (*ProjectSpecialist, error)

	InsertParticipant(ctx context.Context, db *gorm.DB, participant *ProjectParticipant) error
	IsParticipant(ctx context.Context, db *gorm.DB, projectID, userID snowflake.ID) (bool, error)
	HasParticipantRole(ctx context.Context, db *gorm.DB, projectID, userID, professionID snowflake.ID) (bool, error)
	ListParticipants(ctx context.Context, db *gorm.DB, projectID snowflake.ID) ([]ProjectParticipant, error)
	DeleteParticipant(ctx context.Context, db *gorm.DB, projectID, participantID snowflake.ID) (int64, error)

	InsertFavorite(ctx context.Context, db *gorm.DB, favorite *FavoriteProject) error
	DeleteFavorite(ctx context.Context, db *gorm.DB, projectID, userID snowflake.ID) (int64, error)

	MarkEndedProjects(ctx context.Context, db *gorm.DB, today time.Time) (int64, error)
}
