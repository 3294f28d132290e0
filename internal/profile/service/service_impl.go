package service

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Pet-projects-for-experience/Backend/internal/clock"
	"github.com/Pet-projects-for-experience/Backend/internal/profile/domain"
	refdomain "github.com/Pet-projects-for-experience/Backend/internal/reference/domain"
	"github.com/Pet-projects-for-experience/Backend/pkg/db"
)

const (
	minNameLength      = 2
	maxNameLength      = 30
	minAboutLength     = 20
	maxAboutLength     = 1500
	minPortfolioLength = 5
	maxPortfolioLength = 256
)

var nameRe = regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ-]+$`)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	RefRepo refdomain.Repository
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	refRepo refdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("profile.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		refRepo: p.RefRepo,
	}
}

func (s *Service) Get(ctx context.Context, userID snowflake.ID) (*domain.Profile, error) {
	profile, err := s.repo.FindByUserID(ctx, s.db, userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		if err := s.Ensure(ctx, userID); err != nil {
			return nil, err
		}
		return s.repo.FindByUserID(ctx, s.db, userID)
	}
	return profile, err
}

// Ensure creates an empty profile row when the user does not have one yet.
// Called explicitly from registration instead of a persistence hook.
func (s *Service) Ensure(ctx context.Context, userID snowflake.ID) error {
	_, err := s.repo.FindByUserID(ctx, s.db, userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		return err
	}

	now := time.Now().UTC()
	profile := &domain.Profile{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, s.db, profile); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil
		}
		return err
	}
	return nil
}

func (s *Service) Update(ctx context.Context, userID snowflake.ID, req domain.UpdateProfileRequest) (*domain.Profile, error) {
	if err := s.Ensure(ctx, userID); err != nil {
		return nil, err
	}
	profile, err := s.repo.FindByUserID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	if err := applyFields(profile, req, s.clock); err != nil {
		return nil, err
	}

	var specialists []domain.Specialist
	if req.Specialists != nil {
		specialists, err = s.buildSpecialists(ctx, userID, req.Specialists)
		if err != nil {
			return nil, err
		}
	}

	profile.UpdatedAt = time.Now().UTC()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, profile); err != nil {
			return err
		}
		if req.Specialists != nil {
			return s.repo.ReplaceSpecialists(ctx, tx, userID, specialists)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.FindByUserID(ctx, s.db, userID)
}

func (s *Service) HasProfession(ctx context.Context, userID, professionID snowflake.ID) (bool, error) {
	return s.repo.HasProfession(ctx, s.db, userID, professionID)
}

func applyFields(profile *domain.Profile, req domain.UpdateProfileRequest, c clock.Clock) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if len([]rune(name)) < minNameLength || len([]rune(name)) > maxNameLength || !nameRe.MatchString(name) {
			return domain.ErrInvalidName
		}
		profile.Name = name
	}
	if req.About != nil {
		about := strings.TrimSpace(*req.About)
		if about != "" {
			if n := len([]rune(about)); n < minAboutLength || n > maxAboutLength {
				return domain.ErrInvalidAbout
			}
		}
		profile.About = about
	}
	if req.PortfolioLink != nil {
		link := strings.TrimSpace(*req.PortfolioLink)
		if link != "" {
			if n := len(link); n < minPortfolioLength || n > maxPortfolioLength {
				return domain.ErrInvalidPortfolio
			}
			parsed, err := url.Parse(link)
			if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
				return domain.ErrInvalidPortfolio
			}
		}
		profile.PortfolioLink = link
	}
	if req.Country != nil {
		profile.Country = strings.TrimSpace(*req.Country)
	}
	if req.City != nil {
		profile.City = strings.TrimSpace(*req.City)
	}
	if req.Birthday != nil {
		if req.Birthday.After(c.Now()) {
			return domain.ErrInvalidBirthday
		}
		birthday := *req.Birthday
		profile.Birthday = &birthday
	}
	if req.ReadyToParticipate != nil {
		profile.ReadyToParticipate = *req.ReadyToParticipate
	}
	return nil
}

func (s *Service) buildSpecialists(ctx context.Context, userID snowflake.ID, specs []domain.SpecialistSpec) ([]domain.Specialist, error) {
	if len(specs) > domain.MaxSpecialists {
		return nil, domain.ErrTooManySpecialists
	}

	seen := make(map[snowflake.ID]struct{}, len(specs))
	specialists := make([]domain.Specialist, 0, len(specs))
	for _, spec := range specs {
		if _, dup := seen[spec.ProfessionID]; dup {
			return nil, domain.ErrDuplicateProfession
		}
		seen[spec.ProfessionID] = struct{}{}

		if spec.Level != nil && !refdomain.ValidLevel(*spec.Level) {
			return nil, domain.ErrInvalidLevel
		}

		profession, err := s.refRepo.FindProfessionByID(ctx, s.db, spec.ProfessionID)
		if err != nil {
			return nil, err
		}
		if profession == nil {
			return nil, domain.ErrUnknownProfession
		}

		skills, err := s.refRepo.FindSkillsByIDs(ctx, s.db, spec.SkillIDs)
		if err != nil {
			return nil, err
		}
		if len(skills) != len(spec.SkillIDs) {
			return nil, domain.ErrUnknownSkill
		}

		specialists = append(specialists, domain.Specialist{
			ID:            s.genID.Generate(),
			ProfileUserID: userID,
			ProfessionID:  spec.ProfessionID,
			Level:         spec.Level,
			Skills:        skills,
		})
	}
	return specialists, nil
}
