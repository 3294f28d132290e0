package service

import (
	"context"
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
	"github.com/Pet-projects-for-experience/Backend/internal/project/domain"
	"github.com/Pet-projects-for-experience/Backend/internal/project/repository"
	refdomain "github.com/Pet-projects-for-experience/Backend/internal/reference/domain"
	refrepository "github.com/Pet-projects-for-experience/Backend/internal/reference/repository"
	"github.com/Pet-projects-for-experience/Backend/internal/validation"
	"github.com/Pet-projects-for-experience/Backend/pkg/db/pagination"
)

type fixture struct {
	svc        domain.Service
	authSvc    authdomain.Service
	db         *gorm.DB
	node       *snowflake.Node
	clock      *clock.FakeClock
	creatorID  snowflake.ID
	profession refdomain.Profession
	skill      refdomain.Skill
	direction  refdomain.Direction
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
		&domain.Project{}, &domain.ProjectSpecialist{},
		&domain.ProjectParticipant{}, &domain.FavoriteProject{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	profession := refdomain.Profession{
		ID:             node.Generate(),
		Speciality:     "Разработка",
		Specialization: "Бэкенд-разработчик",
	}
	skill := refdomain.Skill{ID: node.Generate(), Name: "Go"}
	direction := refdomain.Direction{ID: node.Generate(), Name: "Веб-разработка"}
	require.NoError(t, dbConn.Create(&profession).Error)
	require.NoError(t, dbConn.Create(&skill).Error)
	require.NoError(t, dbConn.Create(&direction).Error)

	userRepo, sessionRepo := authrepository.New(dbConn)
	authSvc := authservice.New(authservice.Params{
		Cfg:         config.Config{SessionTTLHours: 1},
		Log:         zap.NewNop(),
		GenID:       node,
		Repo:        userRepo,
		SessionRepo: sessionRepo,
	})

	creator, err := authSvc.Register(context.Background(), authdomain.RegisterRequest{
		Username: "organizer",
		Email:    "organizer@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	fakeClock := clock.NewFakeClock(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:      dbConn,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   fakeClock,
		Policy:  config.NewStaticPolicyHolder(policy),
		Repo:    repository.Provide(),
		RefRepo: refrepository.Provide(),
		AuthSvc: authSvc,
	})

	return &fixture{
		svc:        svc,
		authSvc:    authSvc,
		db:         dbConn,
		node:       node,
		clock:      fakeClock,
		creatorID:  creator.ID,
		profession: profession,
		skill:      skill,
		direction:  direction,
	}
}

func (f *fixture) validWrite() domain.WriteProjectRequest {
	description := "Сервис для отслеживания ежедневных привычек и целей"
	started := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	ended := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	busyness := int16(20)
	open := true
	return domain.WriteProjectRequest{
		Name:            "Трекер привычек",
		Description:     &description,
		Started:         &started,
		Ended:           &ended,
		Busyness:        &busyness,
		DirectionIDs:    []snowflake.ID{f.direction.ID},
		RecruitmentOpen: &open,
		Specialists: []domain.SlotSpec{{
			ProfessionID: f.profession.ID,
			Level:        refdomain.LevelMiddle,
			Count:        1,
			IsRequired:   true,
			SkillIDs:     []snowflake.ID{f.skill.ID},
		}},
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

func TestCreateActiveProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project, err := f.svc.Create(ctx, f.creatorID, f.validWrite())
	require.NoError(t, err)
	require.Equal(t, domain.StatusActive, project.Status)
	require.Equal(t, f.creatorID, project.CreatorID)
	require.Equal(t, f.creatorID, project.OwnerID)
	require.Len(t, project.Specialists, 1)
	require.Equal(t, "Go", project.Specialists[0].Skills[0].Name)
	require.Equal(t, domain.RecruitmentOpen, project.RecruitmentStatus())
	require.Len(t, project.Directions, 1)

	creator, err := f.authSvc.GetUser(ctx, f.creatorID)
	require.NoError(t, err)
	require.True(t, creator.IsOrganizer)
}

func TestCreateNameValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.validWrite()
	req.Name = ""
	_, err := f.svc.Create(ctx, f.creatorID, req)
	requireCode(t, err, "name", "is_required")

	req.Name = "Го"
	_, err = f.svc.Create(ctx, f.creatorID, req)
	requireCode(t, err, "name", "length")

	req.Name = "Трекер <script>"
	_, err = f.svc.Create(ctx, f.creatorID, req)
	requireCode(t, err, "name", "invalid")
}

func TestCreateDuplicateName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.creatorID, f.validWrite())
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, f.creatorID, f.validWrite())
	requireCode(t, err, "unique", "unique")

	// Another user may reuse the name.
	otherID := f.node.Generate()
	_, err = f.svc.Create(ctx, otherID, f.validWrite())
	require.NoError(t, err)
}

func TestCreateFieldValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.validWrite()
	short := "коротко"
	req.Description = &short
	badBusyness := int16(15)
	req.Busyness = &badBusyness
	badLink := "ftp://example.com/repo"
	req.Link = &badLink
	badPhone := "89991234567"
	req.Phone = &badPhone
	badNick := "ник"
	req.Telegram = &badNick

	_, err := f.svc.Create(ctx, f.creatorID, req)
	requireCode(t, err, "description", "length")
	requireCode(t, err, "busyness", "busyness")
	requireCode(t, err, "link", "invalid")
	requireCode(t, err, "phone_number", "invalid")
	requireCode(t, err, "telegram_nick", "invalid")
}

func TestCreateDateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.validWrite()
	past := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	req.Started = &past
	_, err := f.svc.Create(ctx, f.creatorID, req)
	requireCode(t, err, "invalid_dates", "invalid_dates")

	req = f.validWrite()
	flippedStart := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	flippedEnd := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	req.Started = &flippedStart
	req.Ended = &flippedEnd
	_, err = f.svc.Create(ctx, f.creatorID, req)
	requireCode(t, err, "invalid_dates", "invalid_dates")

	req = f.validWrite()
	req.Started = nil
	req.Ended = nil
	_, err = f.svc.Create(ctx, f.creatorID, req)
	requireCode(t, err, "invalid_dates", "is_required")
}

func TestCreateDuplicateSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.validWrite()
	req.Specialists = append(req.Specialists, domain.SlotSpec{
		ProfessionID: f.profession.ID,
		Level:        refdomain.LevelMiddle,
		Count:        2,
		IsRequired:   false,
	})
	_, err := f.svc.Create(ctx, f.creatorID, req)
	requireCode(t, err, "unique_project_specialists", "unique_project_specialists")
}

func TestProjectCannotBeGivenDraftStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.validWrite()
	draft := domain.StatusDraft
	req.Status = &draft
	_, err := f.svc.Create(ctx, f.creatorID, req)
	requireCode(t, err, "status", "status")
}

func TestRecruitmentFlag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Closing recruitment forces every slot off, whatever the payload said.
	req := f.validWrite()
	closed := false
	req.RecruitmentOpen = &closed
	project, err := f.svc.Create(ctx, f.creatorID, req)
	require.NoError(t, err)
	require.Equal(t, domain.RecruitmentClosed, project.RecruitmentStatus())

	// Open recruitment needs at least one sought slot.
	req = f.validWrite()
	req.Name = "Трекер привычек два"
	req.Specialists[0].IsRequired = false
	_, err = f.svc.Create(ctx, f.creatorID, req)
	requireCode(t, err, "is_required", "is_required")
}

func TestDraftAllowsPartialFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.svc.CreateDraft(ctx, f.creatorID, domain.WriteProjectRequest{Name: "Черновик проекта"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusDraft, draft.Status)
	require.Empty(t, draft.Description)
}

func TestDraftPublishRequiresFullContract(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.svc.CreateDraft(ctx, f.creatorID, domain.WriteProjectRequest{Name: "Черновик проекта"})
	require.NoError(t, err)

	active := domain.StatusActive
	_, err = f.svc.UpdateDraft(ctx, f.creatorID, draft.ID, domain.WriteProjectRequest{
		Name:   draft.Name,
		Status: &active,
	})
	requireCode(t, err, "description", "is_required")
	requireCode(t, err, "invalid_dates", "is_required")
	requireCode(t, err, "busyness", "is_required")
	requireCode(t, err, "project_specialists", "is_required")

	req := f.validWrite()
	req.Name = draft.Name
	req.Status = &active
	published, err := f.svc.UpdateDraft(ctx, f.creatorID, draft.ID, req)
	require.NoError(t, err)
	require.Equal(t, domain.StatusActive, published.Status)
}

func TestDraftVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.svc.CreateDraft(ctx, f.creatorID, domain.WriteProjectRequest{Name: "Черновик проекта"})
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, f.creatorID, draft.ID)
	require.NoError(t, err)
	require.Equal(t, draft.ID, got.ID)

	strangerID := f.node.Generate()
	_, err = f.svc.Get(ctx, strangerID, draft.ID)
	require.ErrorIs(t, err, domain.ErrProjectNotFound)

	_, err = f.svc.Get(ctx, 0, draft.ID)
	require.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestDraftVisibilityNonePolicy(t *testing.T) {
	f := newFixtureWithPolicy(t, config.Policy{
		BlockingStatuses: []string{"in_progress"},
		DraftVisibility:  domain.DraftVisibilityNone,
	})
	ctx := context.Background()

	draft, err := f.svc.CreateDraft(ctx, f.creatorID, domain.WriteProjectRequest{Name: "Черновик проекта"})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, f.creatorID, draft.ID)
	require.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestUpdateForbiddenForNonOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project, err := f.svc.Create(ctx, f.creatorID, f.validWrite())
	require.NoError(t, err)

	strangerID := f.node.Generate()
	_, err = f.svc.Update(ctx, strangerID, project.ID, f.validWrite())
	require.ErrorIs(t, err, domain.ErrForbidden)

	err = f.svc.Delete(ctx, strangerID, project.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListActiveOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project, err := f.svc.Create(ctx, f.creatorID, f.validWrite())
	require.NoError(t, err)
	_, err = f.svc.CreateDraft(ctx, f.creatorID, domain.WriteProjectRequest{Name: "Черновик проекта"})
	require.NoError(t, err)

	resp, err := f.svc.List(ctx, 0, domain.ListProjectsRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.TotalCount)
	require.Equal(t, project.ID, resp.Projects[0].ID)

	drafts, err := f.svc.ListDrafts(ctx, f.creatorID, pagination.Offset{})
	require.NoError(t, err)
	require.Equal(t, int64(1), drafts.TotalCount)
	require.Equal(t, domain.StatusDraft, drafts.Projects[0].Status)
}

func TestFavorites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project, err := f.svc.Create(ctx, f.creatorID, f.validWrite())
	require.NoError(t, err)

	userID := f.node.Generate()
	require.NoError(t, f.svc.AddFavorite(ctx, userID, project.ID))
	require.ErrorIs(t, f.svc.AddFavorite(ctx, userID, project.ID), domain.ErrAlreadyFavorite)
	require.NoError(t, f.svc.RemoveFavorite(ctx, userID, project.ID))
	require.ErrorIs(t, f.svc.RemoveFavorite(ctx, userID, project.ID), domain.ErrNotFavorite)
}

func TestExcludeParticipant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project, err := f.svc.Create(ctx, f.creatorID, f.validWrite())
	require.NoError(t, err)

	participant := domain.ProjectParticipant{
		ID:           f.node.Generate(),
		ProjectID:    project.ID,
		UserID:       f.node.Generate(),
		ProfessionID: f.profession.ID,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, f.db.Create(&participant).Error)

	strangerID := f.node.Generate()
	err = f.svc.ExcludeParticipant(ctx, strangerID, project.ID, participant.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, f.svc.ExcludeParticipant(ctx, f.creatorID, project.ID, participant.ID))

	err = f.svc.ExcludeParticipant(ctx, f.creatorID, project.ID, participant.ID)
	require.ErrorIs(t, err, domain.ErrParticipantNotFound)
}

func TestExcludeParticipantLeavesOtherProjectsIntact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mine, err := f.svc.Create(ctx, f.creatorID, f.validWrite())
	require.NoError(t, err)

	other, err := f.authSvc.Register(ctx, authdomain.RegisterRequest{
		Username: "neighbor",
		Email:    "neighbor@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	theirsWrite := f.validWrite()
	theirsWrite.Name = "Чужой проект"
	theirs, err := f.svc.Create(ctx, other.ID, theirsWrite)
	require.NoError(t, err)

	participant := domain.ProjectParticipant{
		ID:           f.node.Generate(),
		ProjectID:    theirs.ID,
		UserID:       f.node.Generate(),
		ProfessionID: f.profession.ID,
		CreatedAt:    time.Now().UTC(),
		Skills:       []refdomain.Skill{f.skill},
	}
	require.NoError(t, f.db.Create(&participant).Error)

	err = f.svc.ExcludeParticipant(ctx, f.creatorID, mine.ID, participant.ID)
	require.ErrorIs(t, err, domain.ErrParticipantNotFound)

	var rows int64
	require.NoError(t, f.db.Model(&domain.ProjectParticipant{}).
		Where("id = ?", participant.ID).Count(&rows).Error)
	require.EqualValues(t, 1, rows)
	require.NoError(t, f.db.Table("project_participant_skills").
		Where("project_participant_id = ?", participant.ID).Count(&rows).Error)
	require.EqualValues(t, 1, rows)
}

func TestCompleteEndedProjects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project, err := f.svc.Create(ctx, f.creatorID, f.validWrite())
	require.NoError(t, err)

	completed, err := f.svc.CompleteEndedProjects(ctx)
	require.NoError(t, err)
	require.Zero(t, completed)

	f.clock.Advance(200 * 24 * time.Hour)
	completed, err = f.svc.CompleteEndedProjects(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), completed)

	got, err := f.svc.Get(ctx, f.creatorID, project.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusEnded, got.Status)
}
