package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	authdomain "github.com/Pet-projects-for-experience/Backend/internal/auth/domain"
	"github.com/Pet-projects-for-experience/Backend/internal/config"
	notificationdomain "github.com/Pet-projects-for-experience/Backend/internal/notification/domain"
	profiledomain "github.com/Pet-projects-for-experience/Backend/internal/profile/domain"
	projectdomain "github.com/Pet-projects-for-experience/Backend/internal/project/domain"
	"github.com/Pet-projects-for-experience/Backend/internal/proposal/domain"
	"github.com/Pet-projects-for-experience/Backend/internal/validation"
	"github.com/Pet-projects-for-experience/Backend/pkg/db"
	"github.com/Pet-projects-for-experience/Backend/pkg/db/pagination"
)

const maxCoverLetterLength = 750

type Params struct {
	fx.In

	DB              *gorm.DB
	Log             *zap.Logger
	GenID           *snowflake.Node
	Policy          *config.PolicyHolder
	Repo            domain.Repository
	ProjectRepo     projectdomain.Repository
	ProfileSvc      profiledomain.Service
	AuthSvc         authdomain.Service
	NotificationSvc notificationdomain.Service
}

type Service struct {
	db              *gorm.DB
	log             *zap.Logger
	genID           *snowflake.Node
	policy          *config.PolicyHolder
	repo            domain.Repository
	projectRepo     projectdomain.Repository
	profileSvc      profiledomain.Service
	authSvc         authdomain.Service
	notificationSvc notificationdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:              p.DB,
		log:             p.Log.Named("proposal.service"),
		genID:           p.GenID,
		policy:          p.Policy,
		repo:            p.Repo,
		projectRepo:     p.ProjectRepo,
		profileSvc:      p.ProfileSvc,
		authSvc:         p.AuthSvc,
		notificationSvc: p.NotificationSvc,
	}
}

// createInput is the shared working state for both proposal kinds.
type createInput struct {
	actorID     snowflake.ID
	userID      snowflake.ID
	projectID   snowflake.ID
	positionID  snowflake.ID
	coverLetter string

	project  *projectdomain.Project
	position *projectdomain.ProjectSpecialist
}

// initiator supplies the role-specific creation checks layered over the
// shared pipeline: candidates ask to join, owners invite. Actor and
// addressee checks run before the position is resolved, so an actor who
// may not create the proposal at all hears that first.
type initiator interface {
	kind() string
	validateActor(ctx context.Context, in *createInput) error
	validatePosition(ctx context.Context, in *createInput) error
}

func (s *Service) CreateRequest(ctx context.Context, actorID snowflake.ID, input domain.CreateRequestInput) (*domain.Proposal, error) {
	in := &createInput{
		actorID:     actorID,
		userID:      actorID,
		projectID:   input.ProjectID,
		positionID:  input.PositionID,
		coverLetter: input.CoverLetter,
	}
	return s.create(ctx, &candidateInitiator{svc: s}, in)
}

func (s *Service) CreateInvitation(ctx context.Context, actorID snowflake.ID, input domain.CreateInvitationInput) (*domain.Proposal, error) {
	in := &createInput{
		actorID:     actorID,
		userID:      input.UserID,
		projectID:   input.ProjectID,
		positionID:  input.PositionID,
		coverLetter: input.CoverLetter,
	}
	proposal, err := s.create(ctx, &ownerInitiator{svc: s}, in)
	if err != nil {
		return nil, err
	}

	// Fire-and-forget: a notification failure never fails the invitation.
	s.enqueueInvitationNotice(ctx, proposal, in)
	return proposal, nil
}

func (s *Service) create(ctx context.Context, strategy initiator, in *createInput) (*domain.Proposal, error) {
	if len([]rune(in.coverLetter)) > maxCoverLetterLength {
		return nil, validation.New("cover_letter", "length", "cover letter is limited to 750 characters")
	}

	project, err := s.projectRepo.FindByID(ctx, s.db, in.projectID)
	if err != nil {
		return nil, err
	}
	in.project = project

	if err := strategy.validateActor(ctx, in); err != nil {
		return nil, err
	}

	position, err := s.projectRepo.FindSpecialist(ctx, s.db, in.positionID)
	if err != nil {
		return nil, err
	}
	if position == nil || position.ProjectID != in.projectID || !position.IsRequired {
		return nil, validation.New("position", "position", "this specialist is not sought by the project")
	}
	in.position = position

	if err := strategy.validatePosition(ctx, in); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindExisting(ctx, s.db, strategy.kind(), in.projectID, in.userID, in.positionID, s.blockingStatuses())
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, duplicateError(existing.Status)
	}

	now := time.Now().UTC()
	proposal := &domain.Proposal{
		ID:          s.genID.Generate(),
		Kind:        strategy.kind(),
		ProjectID:   in.projectID,
		UserID:      in.userID,
		PositionID:  in.positionID,
		Status:      domain.StatusInProgress,
		CoverLetter: in.coverLetter,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if strategy.kind() == domain.KindInvitation {
		author := in.actorID
		proposal.AuthorID = &author
	}

	if err := s.repo.Insert(ctx, s.db, proposal); err != nil {
		// A concurrent writer hit the partial unique index first.
		if db.IsDuplicateKeyErr(err) {
			return nil, duplicateError(domain.StatusInProgress)
		}
		return nil, err
	}

	return s.repo.FindByID(ctx, s.db, proposal.ID, proposal.Kind)
}

func (s *Service) Get(ctx context.Context, actorID, proposalID snowflake.ID, kind string) (*domain.Proposal, error) {
	proposal, err := s.repo.FindByID(ctx, s.db, proposalID, kind)
	if err != nil {
		return nil, err
	}
	if !s.mayView(actorID, proposal) {
		return nil, domain.ErrProposalNotFound
	}
	return proposal, nil
}

// MarkViewed flips the viewed flag once the answering party has read the
// proposal. The read endpoint invokes it as a discrete step after fetching.
func (s *Service) MarkViewed(ctx context.Context, actorID, proposalID snowflake.ID, kind string) error {
	proposal, err := s.repo.FindByID(ctx, s.db, proposalID, kind)
	if err != nil {
		return err
	}
	if !s.isAnsweringParty(actorID, proposal) {
		return nil
	}
	if proposal.IsViewed {
		return nil
	}
	return s.repo.MarkViewed(ctx, s.db, proposalID)
}

func (s *Service) Answer(ctx context.Context, actorID, proposalID snowflake.ID, kind string, input domain.AnswerInput) (*domain.Proposal, error) {
	proposal, err := s.repo.FindByID(ctx, s.db, proposalID, kind)
	if err != nil {
		return nil, err
	}
	if !s.mayView(actorID, proposal) {
		return nil, domain.ErrProposalNotFound
	}
	if !s.isAnsweringParty(actorID, proposal) {
		return nil, domain.ErrForbidden
	}

	if kind == domain.KindInvitation && input.ExtraFields {
		return nil, validation.New("status", "status", "you may only change the invitation status")
	}
	if proposal.Terminal() {
		return nil, validation.New("status", "status",
			fmt.Sprintf("the proposal is already %s", domain.StatusLabel(proposal.Status)))
	}
	if input.Status != domain.StatusAccepted && input.Status != domain.StatusRejected {
		return nil, validation.New("status", "status", "a proposal can only be accepted or rejected")
	}

	if input.Status == domain.StatusAccepted {
		already, err := s.projectRepo.HasParticipantRole(ctx, s.db, proposal.ProjectID, proposal.UserID, proposal.Position.ProfessionID)
		if err != nil {
			return nil, err
		}
		if already {
			return nil, alreadyParticipatingError()
		}
	}

	proposal.Status = input.Status
	if input.Answer != nil {
		proposal.Answer = *input.Answer
	}
	proposal.UpdatedAt = time.Now().UTC()

	// Participant materialization and the status flip commit together.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if input.Status == domain.StatusAccepted {
			record := &projectdomain.ProjectParticipant{
				ID:           s.genID.Generate(),
				ProjectID:    proposal.ProjectID,
				UserID:       proposal.UserID,
				ProfessionID: proposal.Position.ProfessionID,
				CreatedAt:    time.Now().UTC(),
				Skills:       proposal.Position.Skills,
			}
			if err := s.projectRepo.InsertParticipant(ctx, tx, record); err != nil {
				return err
			}
		}
		return s.repo.UpdateAnswer(ctx, tx, proposal)
	})
	if err != nil {
		// The unique participant constraint caught a concurrent accept.
		if db.IsDuplicateKeyErr(err) {
			return nil, alreadyParticipatingError()
		}
		return nil, err
	}

	return s.repo.FindByID(ctx, s.db, proposal.ID, kind)
}

func (s *Service) List(ctx context.Context, actorID snowflake.ID, req domain.ListProposalsRequest) (domain.ListProposalsResponse, error) {
	if req.Kind != domain.KindRequest && req.Kind != domain.KindInvitation {
		return domain.ListProposalsResponse{}, domain.ErrProposalNotFound
	}

	pageSize := int(req.PageSize)
	if pageSize <= 0 {
		pageSize = 20
	}
	page := pagination.Pagination{PageToken: req.PageToken, PageSize: pageSize}

	var (
		items []*domain.Proposal
		err   error
	)
	switch req.Box {
	case domain.BoxInbox:
		items, err = s.repo.ListInbox(ctx, s.db, req.Kind, actorID, page)
	default:
		items, err = s.repo.ListOutbox(ctx, s.db, req.Kind, actorID, page)
	}
	if err != nil {
		return domain.ListProposalsResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(proposal *domain.Proposal) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        proposal.ID.String(),
			CreatedAt: proposal.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	proposals := make([]domain.Proposal, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		proposals = append(proposals, *item)
	}

	resp := domain.ListProposalsResponse{Proposals: proposals}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

// blockingStatuses resolves which existing statuses block resubmission,
// taken from the hot-reloadable policy.
func (s *Service) blockingStatuses() []int16 {
	labels := s.policy.Current().BlockingStatuses
	statuses := make([]int16, 0, len(labels))
	for _, label := range labels {
		if status, ok := domain.StatusFromLabel(label); ok {
			statuses = append(statuses, status)
		}
	}
	if len(statuses) == 0 {
		statuses = []int16{domain.StatusInProgress}
	}
	return statuses
}

func (s *Service) mayView(actorID snowflake.ID, proposal *domain.Proposal) bool {
	if actorID == proposal.UserID {
		return true
	}
	if proposal.AuthorID != nil && actorID == *proposal.AuthorID {
		return true
	}
	return actorID == proposal.Project.CreatorID || actorID == proposal.Project.OwnerID
}

func (s *Service) isAnsweringParty(actorID snowflake.ID, proposal *domain.Proposal) bool {
	if proposal.Kind == domain.KindInvitation {
		return actorID == proposal.UserID
	}
	return actorID == proposal.Project.CreatorID || actorID == proposal.Project.OwnerID
}

func (s *Service) enqueueInvitationNotice(ctx context.Context, proposal *domain.Proposal, in *createInput) {
	err := s.notificationSvc.Enqueue(ctx, notificationdomain.EnqueueRequest{
		UserID: proposal.UserID,
		Type:   notificationdomain.TypeProjectInvitation,
		Payload: map[string]any{
			"project_id":   proposal.ProjectID.String(),
			"project_name": in.project.Name,
			"position_id":  proposal.PositionID.String(),
			"profession":   in.position.Profession.Specialization,
		},
	})
	if err != nil {
		s.log.Warn("failed to enqueue invitation notification",
			zap.String("proposal_id", proposal.ID.String()),
			zap.Error(err))
	}
}

func duplicateError(status int16) error {
	code := "unique_in_progress"
	switch status {
	case domain.StatusRejected:
		code = "unique_rejected"
	case domain.StatusAccepted:
		code = "unique_accepted"
	}
	return validation.New(code, code,
		fmt.Sprintf("a proposal for this position already exists in status '%s'", domain.StatusLabel(status)))
}

func alreadyParticipatingError() error {
	return validation.New("already", "already", "this specialist already participates in the project")
}
