package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/Pet-projects-for-experience/Backend/internal/proposal/domain"
	"github.com/Pet-projects-for-experience/Backend/pkg/db/pagination"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, proposal *domain.Proposal) error {
	return db.WithContext(ctx).Omit("Project", "Position").Create(proposal).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, proposalID snowflake.ID, kind string) (*domain.Proposal, error) {
	var proposal domain.Proposal
	err := db.WithContext(ctx).
		Preload("Project").
		Preload("Project.Directions").
		Preload("Position").
		Preload("Position.Profession").
		Preload("Position.Skills").
		Where("id = ? AND kind = ?", proposalID, kind).
		First(&proposal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProposalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (r *repo) FindExisting(ctx context.Context, db *gorm.DB, kind string, projectID, userID, positionID snowflake.ID, statuses []int16) (*domain.Proposal, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	stmt := db.WithContext(ctx).
		Where("kind = ? AND user_id = ? AND position_id = ?", kind, userID, positionID).
		Where("status IN ?", statuses)
	if kind == domain.KindRequest {
		stmt = stmt.Where("project_id = ?", projectID)
	}

	var proposal domain.Proposal
	err := stmt.Order("created_at desc, id desc").First(&proposal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (r *repo) HasInProgressInvitation(ctx context.Context, db *gorm.DB, userID, positionID snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Proposal{}).
		Where("kind = ? AND user_id = ? AND position_id = ? AND status = ?",
			domain.KindInvitation, userID, positionID, domain.StatusInProgress).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) UpdateAnswer(ctx context.Context, db *gorm.DB, proposal *domain.Proposal) error {
	tx := db.WithContext(ctx).
		Model(&domain.Proposal{}).
		Where("id = ?", proposal.ID).
		Updates(map[string]any{
			"status":     proposal.Status,
			"answer":     proposal.Answer,
			"updated_at": proposal.UpdatedAt,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrProposalNotFound
	}
	return nil
}

func (r *repo) MarkViewed(ctx context.Context, db *gorm.DB, proposalID snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.Proposal{}).
		Where("id = ?", proposalID).
		Updates(map[string]any{
			"is_viewed":  true,
			"updated_at": time.Now().UTC(),
		}).Error
}

// ListInbox returns proposals the actor answers: requests against projects
// the actor owns or created, and invitations addressed to the actor.
func (r *repo) ListInbox(ctx context.Context, db *gorm.DB, kind string, actorID snowflake.ID, page pagination.Pagination) ([]*domain.Proposal, error) {
	stmt := db.WithContext(ctx).Model(&domain.Proposal{}).Where("kind = ?", kind)
	if kind == domain.KindRequest {
		stmt = stmt.Where("project_id IN (SELECT id FROM projects WHERE creator_id = ? OR owner_id = ?)", actorID, actorID)
	} else {
		stmt = stmt.Where("user_id = ?", actorID)
	}
	return r.list(stmt, page)
}

// ListOutbox returns proposals the actor initiated.
func (r *repo) ListOutbox(ctx context.Context, db *gorm.DB, kind string, actorID snowflake.ID, page pagination.Pagination) ([]*domain.Proposal, error) {
	stmt := db.WithContext(ctx).Model(&domain.Proposal{}).Where("kind = ?", kind)
	if kind == domain.KindRequest {
		stmt = stmt.Where("user_id = ?", actorID)
	} else {
		stmt = stmt.Where("author_id = ?", actorID)
	}
	return r.list(stmt, page)
}

func (r *repo) list(stmt *gorm.DB, page pagination.Pagination) ([]*domain.Proposal, error) {
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err == nil {
			createdAt, timeErr := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
			id, idErr := snowflake.ParseString(cursor.ID)
			if timeErr == nil && idErr == nil {
				stmt = stmt.Where("(created_at, id) < (?, ?)", createdAt, id)
			}
		}
	}

	limit := page.PageSize
	if limit <= 0 {
		limit = 20
	}

	var proposals []*domain.Proposal
	err := stmt.
		Preload("Project").
		Preload("Position").
		Preload("Position.Profession").
		Order("created_at desc, id desc").
		Limit(limit + 1).
		Find(&proposals).Error
	if err != nil {
		return nil, err
	}
	return proposals, nil
}
