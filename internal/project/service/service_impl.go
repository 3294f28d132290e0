package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	authdomain "github.com/Pet-projects-for-experience/Backend/internal/auth/domain"
	"github.com/Pet-projects-for-experience/Backend/internal/clock"
	"github.com/Pet-projects-for-experience/Backend/internal/config"
	"github.com/Pet-projects-for-experience/Backend/internal/project/domain"
	refdomain "github.com/Pet-projects-for-experience/Backend/internal/reference/domain"
	"github.com/Pet-projects-for-experience/Backend/pkg/db"
	"github.com/Pet-projects-for-experience/Backend/pkg/db/pagination"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Policy  *config.PolicyHolder
	Repo    domain.Repository
	RefRepo refdomain.Repository
	AuthSvc authdomain.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	policy  *config.PolicyHolder
	repo    domain.Repository
	refRepo refdomain.Repository
	authSvc authdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("project.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		policy:  p.Policy,
		repo:    p.Repo,
		refRepo: p.RefRepo,
		authSvc: p.AuthSvc,
	}
}

func (s *Service) visibility() domain.VisibilityPolicy {
	return domain.VisibilityPolicy{Draft: s.policy.Current().DraftVisibility}
}

func (s *Service) today() time.Time {
	return clock.Today(s.clock)
}

func (s *Service) Create(ctx context.Context, actorID snowflake.ID, req domain.WriteProjectRequest) (*domain.Project, error) {
	return s.create(ctx, actorID, req, false)
}

func (s *Service) CreateDraft(ctx context.Context, actorID snowflake.ID, req domain.WriteProjectRequest) (*domain.Project, error) {
	return s.create(ctx, actorID, req, true)
}

func (s *Service) create(ctx context.Context, actorID snowflake.ID, req domain.WriteProjectRequest, draft bool) (*domain.Project, error) {
	in := &writeInput{actorID: actorID, draft: draft, req: req}
	if err := s.validateWrite(ctx, in); err != nil {
		return nil, err
	}

	status := domain.StatusActive
	if draft {
		status = domain.StatusDraft
	}
	if req.Status != nil {
		status = *req.Status
	}

	now := time.Now().UTC()
	project := &domain.Project{
		ID:        s.genID.Generate(),
		Name:      strings.TrimSpace(req.Name),
		CreatorID: actorID,
		OwnerID:   actorID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyOptionalFields(project, req)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, project); err != nil {
			return err
		}
		if err := s.repo.ReplaceDirections(ctx, tx, project, req.DirectionIDs); err != nil {
			return err
		}
		for i := range in.specialists {
			in.specialists[i].ProjectID = project.ID
		}
		return s.repo.ReplaceSpecialists(ctx, tx, project.ID, in.specialists)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, s.nameConflict()
		}
		return nil, err
	}

	// Explicit organizer side effect, in place of a persistence hook.
	if err := s.authSvc.MarkOrganizer(ctx, actorID); err != nil {
		s.log.Warn("failed to mark creator as organizer",
			zap.String("user_id", actorID.String()), zap.Error(err))
	}

	return s.repo.FindByID(ctx, s.db, project.ID)
}

func (s *Service) Update(ctx context.Context, actorID, projectID snowflake.ID, req domain.WriteProjectRequest) (*domain.Project, error) {
	return s.update(ctx, actorID, projectID, req, false)
}

func (s *Service) UpdateDraft(ctx context.Context, actorID, projectID snowflake.ID, req domain.WriteProjectRequest) (*domain.Project, error) {
	return s.update(ctx, actorID, projectID, req, true)
}

func (s *Service) update(ctx context.Context, actorID, projectID snowflake.ID, req domain.WriteProjectRequest, draft bool) (*domain.Project, error) {
	project, err := s.repo.FindByID(ctx, s.db, projectID)
	if err != nil {
		return nil, err
	}
	if !s.visibility().CanView(actorID, project) {
		return nil, domain.ErrProjectNotFound
	}
	if actorID != project.CreatorID && actorID != project.OwnerID {
		return nil, domain.ErrForbidden
	}
	if draft != (project.Status == domain.StatusDraft) {
		return nil, domain.ErrProjectNotFound
	}

	in := &writeInput{actorID: actorID, existing: project, draft: draft, req: req}
	if err := s.validateWrite(ctx, in); err != nil {
		return nil, err
	}

	project.Name = strings.TrimSpace(req.Name)
	if req.Status != nil {
		project.Status = *req.Status
	}
	applyOptionalFields(project, req)
	project.UpdatedAt = time.Now().UTC()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, project); err != nil {
			return err
		}
		if req.DirectionIDs != nil {
			if err := s.repo.ReplaceDirections(ctx, tx, project, req.DirectionIDs); err != nil {
				return err
			}
		}
		if req.Specialists == nil {
			return nil
		}
		for i := range in.specialists {
			in.specialists[i].ProjectID = project.ID
		}
		return s.repo.ReplaceSpecialists(ctx, tx, project.ID, in.specialists)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, s.nameConflict()
		}
		return nil, err
	}

	return s.repo.FindByID(ctx, s.db, project.ID)
}

func (s *Service) Get(ctx context.Context, viewerID, projectID snowflake.ID) (*domain.Project, error) {
	project, err := s.repo.FindByID(ctx, s.db, projectID)
	if err != nil {
		return nil, err
	}
	if !s.visibility().CanView(viewerID, project) {
		return nil, domain.ErrProjectNotFound
	}
	return project, nil
}

func (s *Service) Delete(ctx context.Context, actorID, projectID snowflake.ID) error {
	project, err := s.repo.FindByID(ctx, s.db, projectID)
	if err != nil {
		return err
	}
	if !s.visibility().CanView(actorID, project) {
		return domain.ErrProjectNotFound
	}
	if actorID != project.CreatorID && actorID != project.OwnerID {
		return domain.ErrForbidden
	}
	return s.repo.Delete(ctx, s.db, projectID)
}

func (s *Service) List(ctx context.Context, viewerID snowflake.ID, req domain.ListProjectsRequest) (domain.ListProjectsResponse, error) {
	req.Page = req.Page.Normalize(domain.ProjectPageSize, domain.ProjectPageSize)
	projects, total, err := s.repo.List(ctx, s.db, viewerID, req, s.visibility())
	if err != nil {
		return domain.ListProjectsResponse{}, err
	}
	return domain.ListProjectsResponse{
		OffsetPageInfo: pagination.OffsetPageInfo{
			Page:       req.Page.Page,
			PageSize:   req.Page.PageSize,
			TotalCount: total,
		},
		Projects: projects,
	}, nil
}

func (s *Service) ListDrafts(ctx context.Context, viewerID snowflake.ID, page pagination.Offset) (domain.ListProjectsResponse, error) {
	page = page.Normalize(domain.ProjectPageSize, domain.ProjectPageSize)
	projects, total, err := s.repo.ListDrafts(ctx, s.db, viewerID, page.OffsetValue(), page.PageSize)
	if err != nil {
		return domain.ListProjectsResponse{}, err
	}
	return domain.ListProjectsResponse{
		OffsetPageInfo: pagination.OffsetPageInfo{
			Page:       page.Page,
			PageSize:   page.PageSize,
			TotalCount: total,
		},
		Projects: projects,
	}, nil
}

func (s *Service) PreviewMain(ctx context.Context, page pagination.Offset) (domain.ListProjectsResponse, error) {
	page = page.Normalize(domain.PreviewMainPageSize, domain.PreviewMainPageSize)
	projects, total, err := s.repo.ListActive(ctx, s.db, page.OffsetValue(), page.PageSize)
	if err != nil {
		return domain.ListProjectsResponse{}, err
	}
	return domain.ListProjectsResponse{
		OffsetPageInfo: pagination.OffsetPageInfo{
			Page:       page.Page,
			PageSize:   page.PageSize,
			TotalCount: total,
		},
		Projects: projects,
	}, nil
}

func (s *Service) AddFavorite(ctx context.Context, userID, projectID snowflake.ID) error {
	project, err := s.repo.FindByID(ctx, s.db, projectID)
	if err != nil {
		return err
	}
	if !s.visibility().CanView(userID, project) {
		return domain.ErrProjectNotFound
	}

	favorite := &domain.FavoriteProject{
		ID:        s.genID.Generate(),
		ProjectID: projectID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.InsertFavorite(ctx, s.db, favorite); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ErrAlreadyFavorite
		}
		return err
	}
	return nil
}

func (s *Service) RemoveFavorite(ctx context.Context, userID, projectID snowflake.ID) error {
	deleted, err := s.repo.DeleteFavorite(ctx, s.db, projectID, userID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotFavorite
	}
	return nil
}

func (s *Service) ExcludeParticipant(ctx context.Context, actorID, projectID, participantID snowflake.ID) error {
	project, err := s.repo.FindByID(ctx, s.db, projectID)
	if err != nil {
		return err
	}
	if actorID != project.CreatorID && actorID != project.OwnerID {
		return domain.ErrForbidden
	}

	deleted, err := s.repo.DeleteParticipant(ctx, s.db, projectID, participantID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}

func (s *Service) ListParticipants(ctx context.Context, viewerID, projectID snowflake.ID) ([]domain.ProjectParticipant, error) {
	project, err := s.repo.FindByID(ctx, s.db, projectID)
	if err != nil {
		return nil, err
	}
	if !s.visibility().CanView(viewerID, project) {
		return nil, domain.ErrProjectNotFound
	}
	return s.repo.ListParticipants(ctx, s.db, projectID)
}

// CompleteEndedProjects flips active projects whose end date has passed to
// ended. Invoked periodically by the background worker.
func (s *Service) CompleteEndedProjects(ctx context.Context) (int64, error) {
	completed, err := s.repo.MarkEndedProjects(ctx, s.db, s.today())
	if err != nil {
		return 0, err
	}
	if completed > 0 {
		s.log.Info("auto-completed ended projects", zap.Int64("count", completed))
	}
	return completed, nil
}

func (s *Service) nameConflict() error {
	return validationError("unique", "unique", "you already have a project or draft with this name")
}

func applyOptionalFields(project *domain.Project, req domain.WriteProjectRequest) {
	if req.Description != nil {
		project.Description = strings.TrimSpace(*req.Description)
	}
	if req.Started != nil {
		started := *req.Started
		project.Started = &started
	}
	if req.Ended != nil {
		ended := *req.Ended
		project.Ended = &ended
	}
	if req.Busyness != nil {
		busyness := *req.Busyness
		project.Busyness = &busyness
	}
	if req.Link != nil {
		project.Link = strings.TrimSpace(*req.Link)
	}
	if req.Phone != nil {
		project.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Telegram != nil {
		project.Telegram = strings.TrimSpace(*req.Telegram)
	}
	if req.Email != nil {
		project.Email = strings.TrimSpace(*req.Email)
	}
}
