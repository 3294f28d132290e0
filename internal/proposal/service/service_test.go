package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	authdomain "github.com/Pet-projects-for-experience/Backend/internal/auth/domain"
	authrepository "github.com/Pet-projects-for-experience/Backend/internal/auth/repository"
	authservice "github.com/Pet-projects-for-experience/Backend/internal/auth/service"
	"github.com/Pet-projects-for-experience/Backend/internal/clock"
	"github.com/Pet-projects-for-experience/Backend/internal/config"
	notificationdomain "github.com/Pet-projects-for-experience/Backend/internal/notification/domain"
	profiledomain "github.com/Pet-projects-for-experience/Backend/internal/profile/domain"
	profilerepository "github.com/Pet-projects-for-experience/Backend/internal/profile/repository"
	profileservice "github.com/Pet-projects-for-experience/Backend/internal/profile/service"
	projectdomain "github.com/Pet-projects-for-experience/Backend/internal/project/domain"
	projectrepository "github.com/Pet-projects-for-experience/Backend/internal/project/repository"
	"github.com/Pet-projects-for-experience/Backend/internal/proposal/domain"
	"github.com/Pet-projects-for-experience/Backend/internal/proposal/repository"
	refdomain "github.com/Pet-projects-for-experience/Backend/internal/reference/domain"
	refrepository "github.com/Pet-projects-for-experience/Backend/internal/reference/repository"
	"github.com/Pet-projects-for-experience/Backend/internal/validation"
)

// fakeNotifier records enqueued notifications and can fail on demand.
type fakeNotifier struct {
	requests []notificationdomain.EnqueueRequest
	err      error
}

func (f *fakeNotifier) Enqueue(_ context.Context, req notificationdomain.EnqueueRequest) error {
	if f.err != nil {
		return f.err
	}
	f.requests = append(f.requests, req)
	return nil
}

func (f *fakeNotifier) EnqueueTx(ctx context.Context, _ *gorm.DB, req notificationdomain.EnqueueRequest) error {
	return f.Enqueue(ctx, req)
}

type fixture struct {
	svc        domain.Service
	authSvc    authdomain.Service
	profileSvc profiledomain.Service
	db         *gorm.DB
	node       *snowflake.Node
	notifier   *fakeNotifier
	creatorID  snowflake.ID
	inviteeID  snowflake.ID
	project    projectdomain.Project
	position   projectdomain.ProjectSpecialist
	profession refdomain.Profession
	skill      refdomain.Skill
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithPolicy(t, config.DefaultPolicy())
}

func newFixtureWithPolicy(t *testing.T, policy config.Policy) *fixture {
	t.Helper()

	dbConn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&authdomain.User{}, &authdomain.Session{},
		&refdomain.Profession{}, &refdomain.Skill{}, &refdomain.Direction{},
		&profiledomain.Profile{}, &profiledomain.Specialist{},
		&projectdomain.Project{}, &projectdomain.ProjectSpecialist{},
		&projectdomain.ProjectParticipant{}, &projectdomain.FavoriteProject{},
		&domain.Proposal{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	profession := refdomain.Profession{
		ID:             node.Generate(),
		Speciality:     "Разработка",
		Specialization: "Бэкенд-разработчик",
	}
	skill := refdomain.Skill{ID: node.Generate(), Name: "Go"}
	require.NoError(t, dbConn.Create(&profession).Error)
	require.NoError(t, dbConn.Create(&skill).Error)

	userRepo, sessionRepo := authrepository.New(dbConn)
	authSvc := authservice.New(authservice.Params{
		Cfg:         config.Config{SessionTTLHours: 1},
		Log:         zap.NewNop(),
		GenID:       node,
		Repo:        userRepo,
		SessionRepo: sessionRepo,
	})

	ctx := context.Background()
	creator, err := authSvc.Register(ctx, authdomain.RegisterRequest{
		Username: "organizer",
		Email:    "organizer@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	invitee, err := authSvc.Register(ctx, authdomain.RegisterRequest{
		Username: "specialist",
		Email:    "specialist@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	profileSvc := profileservice.New(profileservice.Params{
		DB:      dbConn,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   clock.NewFakeClock(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)),
		Repo:    profilerepository.Provide(),
		RefRepo: refrepository.Provide(),
	})
	level := refdomain.LevelMiddle
	_, err = profileSvc.Update(ctx, invitee.ID, profiledomain.UpdateProfileRequest{
		Specialists: []profiledomain.SpecialistSpec{{
			ProfessionID: profession.ID,
			Level:        &level,
			SkillIDs:     []snowflake.ID{skill.ID},
		}},
	})
	require.NoError(t, err)

	now := time.Now().UTC()
	project := projectdomain.Project{
		ID:        node.Generate(),
		Name:      "Трекер привычек",
		CreatorID: creator.ID,
		OwnerID:   creator.ID,
		Status:    projectdomain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, dbConn.Create(&project).Error)
	position := projectdomain.ProjectSpecialist{
		ID:           node.Generate(),
		ProjectID:    project.ID,
		ProfessionID: profession.ID,
		Level:        refdomain.LevelMiddle,
		Count:        1,
		IsRequired:   true,
		Skills:       []refdomain.Skill{skill},
	}
	require.NoError(t, dbConn.Create(&position).Error)

	notifier := &fakeNotifier{}
	svc := New(Params{
		DB:              dbConn,
		Log:             zap.NewNop(),
		GenID:           node,
		Policy:          config.NewStaticPolicyHolder(policy),
		Repo:            repository.Provide(),
		ProjectRepo:     projectrepository.Provide(),
		ProfileSvc:      profileSvc,
		AuthSvc:         authSvc,
		NotificationSvc: notifier,
	})

	return &fixture{
		svc:        svc,
		authSvc:    authSvc,
		profileSvc: profileSvc,
		db:         dbConn,
		node:       node,
		notifier:   notifier,
		creatorID:  creator.ID,
		inviteeID:  invitee.ID,
		project:    project,
		position:   position,
		profession: profession,
		skill:      skill,
	}
}

func requireCode(t *testing.T, err error, field, code string) {
	t.Helper()
	var verrs *validation.Errors
	require.ErrorAs(t, err, &verrs)
	for _, e := range verrs.Errors {
		if e.Field == field && e.Code == code {
			return
		}
	}
	t.Fatalf("expected %s/%s, got %+v", field, code, verrs.Errors)
}

func strptr(s string) *string { return &s }

func TestCreateRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	proposal, err := f.svc.CreateRequest(ctx, f.inviteeID, domain.CreateRequestInput{
		ProjectID:   f.project.ID,
		PositionID:  f.position.ID,
		CoverLetter: "Хочу присоединиться к проекту",
	})
	require.NoError(t, err)
	require.Equal(t, domain.KindRequest, proposal.Kind)
	require.Equal(t, domain.StatusInProgress, proposal.Status)
	require.Equal(t, f.inviteeID, proposal.UserID)
	require.Nil(t, proposal.AuthorID)
	require.False(t, proposal.IsViewed)
	require.Empty(t, f.notifier.requests)
}

func TestCreateRequestRejectsOwnProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateRequest(ctx, f.creatorID, domain.CreateRequestInput{
		ProjectID:  f.project.ID,
		PositionID: f.position.ID,
	})
	requireCode(t, err, "already", "already")
}

func TestCreateRequestRejectsParticipant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	participant := projectdomain.ProjectParticipant{
		ID:           f.node.Generate(),
		ProjectID:    f.project.ID,
		UserID:       f.inviteeID,
		ProfessionID: f.profession.ID,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, f.db.Create(&participant).Error)

	_, err := f.svc.CreateRequest(ctx, f.inviteeID, domain.CreateRequestInput{
		ProjectID:  f.project.ID,
		PositionID: f.position.ID,
	})
	requireCode(t, err, "already", "already")
}

func TestCreateRequestActorCheckedBeforePosition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Even with the slot no longer sought, the owner hears that they cannot
	// apply to their own project before anything about the position.
	require.NoError(t, f.db.Model(&projectdomain.ProjectSpecialist{}).
		Where("id = ?", f.position.ID).
		Update("is_required", false).Error)

	_, err := f.svc.CreateRequest(ctx, f.creatorID, domain.CreateRequestInput{
		ProjectID:  f.project.ID,
		PositionID: f.position.ID,
	})
	requireCode(t, err, "already", "already")
}

func TestCreateRequestPositionChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A slot that is not sought cannot be applied for.
	idle := projectdomain.ProjectSpecialist{
		ID:           f.node.Generate(),
		ProjectID:    f.project.ID,
		ProfessionID: f.profession.ID,
		Level:        refdomain.LevelSenior,
		Count:        1,
		IsRequired:   false,
	}
	require.NoError(t, f.db.Create(&idle).Error)

	_, err := f.svc.CreateRequest(ctx, f.inviteeID, domain.CreateRequestInput{
		ProjectID:  f.project.ID,
		PositionID: idle.ID,
	})
	requireCode(t, err, "position", "position")

	// A slot belonging to another project does not count either.
	other := projectdomain.Project{
		ID:        f.node.Generate(),
		Name:      "Другой проект",
		CreatorID: f.creatorID,
		OwnerID:   f.creatorID,
		Status:    projectdomain.StatusActive,
	}
	require.NoError(t, f.db.Create(&other).Error)

	_, err = f.svc.CreateRequest(ctx, f.inviteeID, domain.CreateRequestInput{
		ProjectID:  other.ID,
		PositionID: f.position.ID,
	})
	requireCode(t, err, "position", "position")
}

func TestCreateRequestCoverLetterLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	long := make([]rune, maxCoverLetterLength+1)
	for i := range long {
		long[i] = 'ж'
	}
	_, err := f.svc.CreateRequest(ctx, f.inviteeID, domain.CreateRequestInput{
		ProjectID:   f.project.ID,
		PositionID:  f.position.ID,
		CoverLetter: string(long),
	})
	requireCode(t, err, "cover_letter", "length")
}

func TestCreateRequestDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	input := domain.CreateRequestInput{ProjectID: f.project.ID, PositionID: f.position.ID}
	_, err := f.svc.CreateRequest(ctx, f.inviteeID, input)
	require.NoError(t, err)

	_, err = f.svc.CreateRequest(ctx, f.inviteeID, input)
	requireCode(t, err, "unique_in_progress", "unique_in_progress")
}

func TestCreateRequestBlockedByRejectedPolicy(t *testing.T) {
	f := newFixtureWithPolicy(t, config.Policy{
		BlockingStatuses: []string{"in_progress", "rejected"},
		DraftVisibility:  "owner",
	})
	ctx := context.Background()

	input := domain.CreateRequestInput{ProjectID: f.project.ID, PositionID: f.position.ID}
	proposal, err := f.svc.CreateRequest(ctx, f.inviteeID, input)
	require.NoError(t, err)

	_, err = f.svc.Answer(ctx, f.creatorID, proposal.ID, domain.KindRequest,
		domain.AnswerInput{Status: domain.StatusRejected})
	require.NoError(t, err)

	_, err = f.svc.CreateRequest(ctx, f.inviteeID, input)
	requireCode(t, err, "unique_rejected", "unique_rejected")
}

func TestRejectedRequestCanBeResubmittedByDefault(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	input := domain.CreateRequestInput{ProjectID: f.project.ID, PositionID: f.position.ID}
	proposal, err := f.svc.CreateRequest(ctx, f.inviteeID, input)
	require.NoError(t, err)

	_, err = f.svc.Answer(ctx, f.creatorID, proposal.ID, domain.KindRequest,
		domain.AnswerInput{Status: domain.StatusRejected})
	require.NoError(t, err)

	_, err = f.svc.CreateRequest(ctx, f.inviteeID, input)
	require.NoError(t, err)
}

func TestCreateInvitation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	proposal, err := f.svc.CreateInvitation(ctx, f.creatorID, domain.CreateInvitationInput{
		ProjectID:  f.project.ID,
		PositionID: f.position.ID,
		UserID:     f.inviteeID,
	})
	require.NoError(t, err)
	require.Equal(t, domain.KindInvitation, proposal.Kind)
	require.NotNil(t, proposal.AuthorID)
	require.Equal(t, f.creatorID, *proposal.AuthorID)

	require.Len(t, f.notifier.requests, 1)
	notice := f.notifier.requests[0]
	require.Equal(t, f.inviteeID, notice.UserID)
	require.Equal(t, notificationdomain.TypeProjectInvitation, notice.Type)
	require.Equal(t, f.project.Name, notice.Payload["project_name"])
}

func TestCreateInvitationSurvivesNotifierFailure(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("broker down")
	ctx := context.Background()

	_, err := f.svc.CreateInvitation(ctx, f.creatorID, domain.CreateInvitationInput{
		ProjectID:  f.project.ID,
		PositionID: f.position.ID,
		UserID:     f.inviteeID,
	})
	require.NoError(t, err)
}

func TestCreateInvitationOnlyByOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateInvitation(ctx, f.inviteeID, domain.CreateInvitationInput{
		ProjectID:  f.project.ID,
		PositionID: f.position.ID,
		UserID:     f.inviteeID,
	})
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateInvitationUserChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// The owner cannot invite themselves.
	_, err := f.svc.CreateInvitation(ctx, f.creatorID, domain.CreateInvitationInput{
		ProjectID:  f.project.ID,
		PositionID: f.position.ID,
		UserID:     f.creatorID,
	})
	requireCode(t, err, "user", "user")

	// Unknown user.
	_, err = f.svc.CreateInvitation(ctx, f.creatorID, domain.CreateInvitationInput{
		ProjectID:  f.project.ID,
		PositionID: f.position.ID,
		UserID:     f.node.Generate(),
	})
	requireCode(t, err, "user", "user")

	// A user whose specialties do not match the position.
	outsider, err := authserviceRegister(ctx, f, "outsider", "outsider@example.com")
	require.NoError(t, err)
	_, err = f.svc.CreateInvitation(ctx, f.creatorID, domain.CreateInvitationInput{
		ProjectID:  f.project.ID,
		PositionID: f.position.ID,
		UserID:     outsider,
	})
	requireCode(t, err, "user", "user")
}

func TestCreateInvitationPendingBlocksAnotherProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateInvitation(ctx, f.creatorID, domain.CreateInvitationInput{
		ProjectID:  f.project.ID,
		PositionID: f.position.ID,
		UserID:     f.inviteeID,
	})
	require.NoError(t, err)

	_, err = f.svc.CreateInvitation(ctx, f.creatorID, domain.CreateInvitationInput{
		ProjectID:  f.project.ID,
		PositionID: f.position.ID,
		UserID:     f.inviteeID,
	})
	requireCode(t, err, "user", "user")
}

func TestAcceptRequestMaterializesParticipant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	proposal, err := f.svc.CreateRequest(ctx, f.inviteeID, domain.CreateRequestInput{
		ProjectID:  f.project.ID,
		PositionID: f.position.ID,
	})
	require.NoError(t, err)

	answered, err := f.svc.Answer(ctx, f.creatorID, proposal.ID, domain.KindRequest,
		domain.AnswerInput{Status: domain.StatusAccepted, Answer: strptr("Добро пожаловать")})
	require.NoError(t, err)
	require.Equal(t, domain.StatusAccepted, answered.Status)
	require.Equal(t, "Добро пожаловать", answered.Answer)

	var participants []projectdomain.ProjectParticipant
	require.NoError(t, f.db.Preload("Skills").
		Where("project_id = ? AND user_id = ?", f.project.ID, f.inviteeID).
		Find(&participants).Error)
	require.Len(t, participants, 1)
	require.Equal(t, f.profession.ID, participants[0].ProfessionID)
	require.Len(t, participants[0].Skills, 1)
	require.Equal(t, "Go", participants[0].Skills[0].Name)
}

func TestAcceptRejectsExistingParticipantRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	proposal, err := f.svc.CreateRequest(ctx, f.inviteeID, domain.CreateRequestInput{
		ProjectID:  f.project.ID,
		PositionID: f.position.ID,
	})
	require.NoError(t, err)

	participant := projectdomain.ProjectParticipant{
		ID:           f.node.Generate(),
		ProjectID:    f.project.ID,
		UserID:       f.inviteeID,
		ProfessionID: f.profession.ID,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, f.db.Create(&participant).Error)

	_, err = f.svc.Answer(ctx, f.creatorID, proposal.ID, domain.KindRequest,
		domain.AnswerInput{Status: domain.StatusAccepted})
	requireCode(t, err, "already", "already")
}

// racingProjectRepo sneaks a conflicting participant row in right after the
// membership precheck reports clear, simulating a concurrent accept that
// commits between the check and the transaction.
type racingProjectRepo struct {
	projectdomain.Repository
	db    *gorm.DB
	node  *snowflake.Node
	armed bool
}

func (r *racingProjectRepo) HasParticipantRole(ctx context.Context, db *gorm.DB, projectID, userID, professionID snowflake.ID) (bool, error) {
	has, err := r.Repository.HasParticipantRole(ctx, db, projectID, userID, professionID)
	if err != nil || has || !r.armed {
		return has, err
	}
	r.armed = false
	record := projectdomain.ProjectParticipant{
		ID:           r.node.Generate(),
		ProjectID:    projectID,
		UserID:       userID,
		ProfessionID: professionID,
		CreatedAt:    time.Now().UTC(),
	}
	if err := r.db.Create(&record).Error; err != nil {
		return false, err
	}
	return false, nil
}

func TestAcceptRaceOnParticipantConstraint(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	proposal, err := f.svc.CreateRequest(ctx, f.inviteeID, domain.CreateRequestInput{
		ProjectID:  f.project.ID,
		PositionID: f.position.ID,
	})
	require.NoError(t, err)

	racing := New(Params{
		DB:              f.db,
		Log:             zap.NewNop(),
		GenID:           f.node,
		Policy:          config.NewStaticPolicyHolder(config.DefaultPolicy()),
		Repo:            repository.Provide(),
		ProjectRepo:     &racingProjectRepo{Repository: projectrepository.Provide(), db: f.db, node: f.node, armed: true},
		ProfileSvc:      f.profileSvc,
		AuthSvc:         f.authSvc,
		NotificationSvc: f.notifier,
	})

	_, err = racing.Answer(ctx, f.creatorID, proposal.ID, domain.KindRequest,
		domain.AnswerInput{Status: domain.StatusAccepted})
	requireCode(t, err, "already", "already")

	// The loser's transaction rolled back: one membership row, and the
	// request is still open.
	var rows int64
	require.NoError(t, f.db.Model(&projectdomain.ProjectParticipant{}).
		Where("project_id = ? AND user_id = ?", f.project.ID, f.inviteeID).
		Count(&rows).Error)
	require.EqualValues(t, 1, rows)

	got, err := f.svc.Get(ctx, f.creatorID, proposal.ID, domain.KindRequest)
	require.NoError(t, err)
	require.Equal(t, domain.StatusInProgress, got.Status)
}

func TestAnswerAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	proposal, err := f.svc.CreateRequest(ctx, f.inviteeID, domain.CreateRequestInput{
		ProjectID:  f.project.ID,
		PositionID: f.position.ID,
	})
	require.NoError(t, err)

	// A bystander cannot even see the request.
	strangerID := f.node.Generate()
	_, err = f.svc.Answer(ctx, strangerID, proposal.ID, domain.KindRequest,
		domain.AnswerInput{Status: domain.StatusAccepted})
	require.ErrorIs(t, err, domain.ErrProposalNotFound)

	// The applicant may view the request but not answer it.
	_, err = f.svc.Answer(ctx, f.inviteeID, proposal.ID, domain.KindRequest,
		domain.AnswerInput{Status: domain.StatusAccepted})
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAnswerTerminalIsImmutable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	proposal, err := f.svc.CreateRequest(ctx, f.inviteeID, domain.CreateRequestInput{
		ProjectID:  f.project.ID,
		PositionID: f.position.ID,
	})
	require.NoError(t, err)

	_, err = f.svc.Answer(ctx, f.creatorID, proposal.ID, domain.KindRequest,
		domain.AnswerInput{Status: domain.StatusRejected})
	require.NoError(t, err)

	_, err = f.svc.Answer(ctx, f.creatorID, proposal.ID, domain.KindRequest,
		domain.AnswerInput{Status: domain.StatusAccepted})
	requireCode(t, err, "status", "status")
}

func TestAnswerInvitationRejectsExtraFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	proposal, err := f.svc.CreateInvitation(ctx, f.creatorID, domain.CreateInvitationInput{
		ProjectID:  f.project.ID,
		PositionID: f.position.ID,
		UserID:     f.inviteeID,
	})
	require.NoError(t, err)

	_, err = f.svc.Answer(ctx, f.inviteeID, proposal.ID, domain.KindInvitation,
		domain.AnswerInput{Status: domain.StatusAccepted, ExtraFields: true})
	requireCode(t, err, "status", "status")

	answered, err := f.svc.Answer(ctx, f.inviteeID, proposal.ID, domain.KindInvitation,
		domain.AnswerInput{Status: domain.StatusAccepted})
	require.NoError(t, err)
	require.Equal(t, domain.StatusAccepted, answered.Status)
}

func TestMarkViewedOnlyByAnsweringParty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	proposal, err := f.svc.CreateRequest(ctx, f.inviteeID, domain.CreateRequestInput{
		ProjectID:  f.project.ID,
		PositionID: f.position.ID,
	})
	require.NoError(t, err)

	// The applicant re-reading their own request leaves the flag alone.
	require.NoError(t, f.svc.MarkViewed(ctx, f.inviteeID, proposal.ID, domain.KindRequest))
	got, err := f.svc.Get(ctx, f.inviteeID, proposal.ID, domain.KindRequest)
	require.NoError(t, err)
	require.False(t, got.IsViewed)

	require.NoError(t, f.svc.MarkViewed(ctx, f.creatorID, proposal.ID, domain.KindRequest))
	got, err = f.svc.Get(ctx, f.creatorID, proposal.ID, domain.KindRequest)
	require.NoError(t, err)
	require.True(t, got.IsViewed)

	// Idempotent.
	require.NoError(t, f.svc.MarkViewed(ctx, f.creatorID, proposal.ID, domain.KindRequest))
}

func TestGetHidesWrongKind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	proposal, err := f.svc.CreateRequest(ctx, f.inviteeID, domain.CreateRequestInput{
		ProjectID:  f.project.ID,
		PositionID: f.position.ID,
	})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, f.inviteeID, proposal.ID, domain.KindInvitation)
	require.ErrorIs(t, err, domain.ErrProposalNotFound)
}

func TestListBoxes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	proposal, err := f.svc.CreateRequest(ctx, f.inviteeID, domain.CreateRequestInput{
		ProjectID:  f.project.ID,
		PositionID: f.position.ID,
	})
	require.NoError(t, err)

	// The applicant's outbox holds the request.
	resp, err := f.svc.List(ctx, f.inviteeID, domain.ListProposalsRequest{
		Kind: domain.KindRequest,
		Box:  domain.BoxOutbox,
	})
	require.NoError(t, err)
	require.Len(t, resp.Proposals, 1)
	require.Equal(t, proposal.ID, resp.Proposals[0].ID)
	require.False(t, resp.HasMore)

	// The owner's inbox holds it too.
	resp, err = f.svc.List(ctx, f.creatorID, domain.ListProposalsRequest{
		Kind: domain.KindRequest,
		Box:  domain.BoxInbox,
	})
	require.NoError(t, err)
	require.Len(t, resp.Proposals, 1)

	// A stranger sees nothing.
	resp, err = f.svc.List(ctx, f.node.Generate(), domain.ListProposalsRequest{
		Kind: domain.KindRequest,
		Box:  domain.BoxInbox,
	})
	require.NoError(t, err)
	require.Empty(t, resp.Proposals)

	_, err = f.svc.List(ctx, f.inviteeID, domain.ListProposalsRequest{Kind: "bogus"})
	require.ErrorIs(t, err, domain.ErrProposalNotFound)
}

func TestListPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Three slots, three requests from the same user.
	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		position := projectdomain.ProjectSpecialist{
			ID:           f.node.Generate(),
			ProjectID:    f.project.ID,
			ProfessionID: f.profession.ID,
			Level:        refdomain.LevelJunior + int16(i),
			Count:        1,
			IsRequired:   true,
		}
		require.NoError(t, f.db.Create(&position).Error)
		record := domain.Proposal{
			ID:         f.node.Generate(),
			Kind:       domain.KindRequest,
			ProjectID:  f.project.ID,
			UserID:     f.inviteeID,
			PositionID: position.ID,
			Status:     domain.StatusInProgress,
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
			UpdatedAt:  base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, f.db.Create(&record).Error)
	}

	first, err := f.svc.List(ctx, f.inviteeID, domain.ListProposalsRequest{
		Kind:     domain.KindRequest,
		Box:      domain.BoxOutbox,
		PageSize: 2,
	})
	require.NoError(t, err)
	require.Len(t, first.Proposals, 2)
	require.True(t, first.HasMore)
	require.NotEmpty(t, first.NextPageToken)

	second, err := f.svc.List(ctx, f.inviteeID, domain.ListProposalsRequest{
		Kind:      domain.KindRequest,
		Box:       domain.BoxOutbox,
		PageSize:  2,
		PageToken: first.NextPageToken,
	})
	require.NoError(t, err)
	require.Len(t, second.Proposals, 1)
	require.False(t, second.HasMore)
}

func TestListPaginationSubSecondBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Rows landing inside the same wall-clock second must not be skipped
	// when the cursor crosses them.
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		position := projectdomain.ProjectSpecialist{
			ID:           f.node.Generate(),
			ProjectID:    f.project.ID,
			ProfessionID: f.profession.ID,
			Level:        refdomain.LevelJunior + int16(i),
			Count:        1,
			IsRequired:   true,
		}
		require.NoError(t, f.db.Create(&position).Error)
		record := domain.Proposal{
			ID:         f.node.Generate(),
			Kind:       domain.KindRequest,
			ProjectID:  f.project.ID,
			UserID:     f.inviteeID,
			PositionID: position.ID,
			Status:     domain.StatusInProgress,
			CreatedAt:  base.Add(time.Duration(i) * 100 * time.Millisecond),
			UpdatedAt:  base.Add(time.Duration(i) * 100 * time.Millisecond),
		}
		require.NoError(t, f.db.Create(&record).Error)
	}

	first, err := f.svc.List(ctx, f.inviteeID, domain.ListProposalsRequest{
		Kind:     domain.KindRequest,
		Box:      domain.BoxOutbox,
		PageSize: 2,
	})
	require.NoError(t, err)
	require.Len(t, first.Proposals, 2)
	require.True(t, first.HasMore)

	second, err := f.svc.List(ctx, f.inviteeID, domain.ListProposalsRequest{
		Kind:      domain.KindRequest,
		Box:       domain.BoxOutbox,
		PageSize:  2,
		PageToken: first.NextPageToken,
	})
	require.NoError(t, err)
	require.Len(t, second.Proposals, 1)
	require.True(t, second.Proposals[0].CreatedAt.Equal(base))
	require.False(t, second.HasMore)
}

func authserviceRegister(ctx context.Context, f *fixture, username, email string) (snowflake.ID, error) {
	userRepo, sessionRepo := authrepository.New(f.db)
	svc := authservice.New(authservice.Params{
		Cfg:         config.Config{SessionTTLHours: 1},
		Log:         zap.NewNop(),
		GenID:       f.node,
		Repo:        userRepo,
		SessionRepo: sessionRepo,
	})
	user, err := svc.Register(ctx, authdomain.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "password123",
	})
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}
