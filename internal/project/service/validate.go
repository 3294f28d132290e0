package service

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/Pet-projects-for-experience/Backend/internal/project/domain"
	refdomain "github.com/Pet-projects-for-experience/Backend/internal/reference/domain"
	"github.com/Pet-projects-for-experience/Backend/internal/validation"
)

const (
	minNameLength        = 5
	maxNameLength        = 100
	minDescriptionLength = 20
	maxDescriptionLength = 1500
	minLinkLength        = 5
	maxLinkLength        = 256
	maxTelegramLength    = 32
	minTelegramLength    = 5
)

var (
	nameRe     = regexp.MustCompile(`^[+/_:,.0-9A-Za-zА-Яа-яЁё\s–—-]+$`)
	phoneRe    = regexp.MustCompile(`^\+7\d{10}$`)
	telegramRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// writeInput is the working state threaded through the validation pipeline.
type writeInput struct {
	actorID  snowflake.ID
	existing *domain.Project
	draft    bool
	req      domain.WriteProjectRequest

	// assembled by the slot check for later persistence
	specialists []domain.ProjectSpecialist
}

// check is one named validation step. Checks collect field-keyed errors and
// only return an error on infrastructure failure.
type check func(ctx context.Context, in *writeInput, errs *validation.Errors) error

func (s *Service) validateWrite(ctx context.Context, in *writeInput) error {
	pipeline := []check{
		s.checkStatus,
		s.checkName,
		s.checkDescription,
		s.checkDates,
		s.checkBusyness,
		s.checkLink,
		s.checkContacts,
		s.checkDirections,
		s.checkSpecialists,
		s.checkRecruitment,
	}

	errs := &validation.Errors{}
	for _, step := range pipeline {
		if err := step(ctx, in, errs); err != nil {
			return err
		}
	}
	return errs.ErrOrNil()
}

func (s *Service) checkStatus(_ context.Context, in *writeInput, errs *validation.Errors) error {
	if in.req.Status == nil {
		return nil
	}
	status := *in.req.Status
	if !domain.ValidStatus(status) {
		errs.Add("status", "status", "unknown project status")
		return nil
	}
	if !in.draft && status == domain.StatusDraft {
		errs.Add("status", "status", "a project cannot be given draft status")
	}
	return nil
}

func (s *Service) checkName(ctx context.Context, in *writeInput, errs *validation.Errors) error {
	name := strings.TrimSpace(in.req.Name)
	if name == "" {
		errs.Add("name", "is_required", "project name is required")
		return nil
	}
	if n := len([]rune(name)); n < minNameLength || n > maxNameLength {
		errs.Add("name", "length", "project name must be 5 to 100 characters")
		return nil
	}
	if !nameRe.MatchString(name) {
		errs.Add("name", "invalid", "project name contains unsupported characters")
		return nil
	}

	var excludeID snowflake.ID
	if in.existing != nil {
		excludeID = in.existing.ID
	}
	taken, err := s.repo.NameTaken(ctx, s.db, in.actorID, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		errs.Add("unique", "unique", "you already have a project or draft with this name")
	}
	return nil
}

func (s *Service) checkDescription(_ context.Context, in *writeInput, errs *validation.Errors) error {
	if in.req.Description == nil {
		if s.publishing(in) {
			errs.Add("description", "is_required", "description is required")
		}
		return nil
	}
	description := strings.TrimSpace(*in.req.Description)
	if description == "" {
		if s.publishing(in) {
			errs.Add("description", "is_required", "description is required")
		}
		return nil
	}
	if n := len([]rune(description)); n < minDescriptionLength || n > maxDescriptionLength {
		errs.Add("description", "length", "description must be 20 to 1500 characters")
	}
	return nil
}

func (s *Service) checkDates(_ context.Context, in *writeInput, errs *validation.Errors) error {
	started := in.req.Started
	ended := in.req.Ended

	if s.publishing(in) && (started == nil || ended == nil) {
		errs.Add("invalid_dates", "is_required", "start and end dates are required")
		return nil
	}

	today := s.today()
	if started != nil && started.Before(today) && dateChanged(in.existing, started, true) {
		errs.Add("invalid_dates", "invalid_dates", "start date cannot be in the past")
	}
	if ended != nil && ended.Before(today) && dateChanged(in.existing, ended, false) {
		errs.Add("invalid_dates", "invalid_dates", "end date cannot be in the past")
	}
	if started != nil && ended != nil && started.After(*ended) {
		errs.Add("invalid_dates", "invalid_dates", "end date cannot precede the start date")
	}
	return nil
}

func (s *Service) checkBusyness(_ context.Context, in *writeInput, errs *validation.Errors) error {
	if in.req.Busyness == nil {
		if s.publishing(in) {
			errs.Add("busyness", "is_required", "busyness is required")
		}
		return nil
	}
	if !domain.ValidBusyness(*in.req.Busyness) {
		errs.Add("busyness", "busyness", "busyness must be 10, 20, 30 or 40 hours per week")
	}
	return nil
}

func (s *Service) checkLink(_ context.Context, in *writeInput, errs *validation.Errors) error {
	if in.req.Link == nil {
		return nil
	}
	link := strings.TrimSpace(*in.req.Link)
	if link == "" {
		return nil
	}
	if n := len(link); n < minLinkLength || n > maxLinkLength {
		errs.Add("link", "length", "link must be 5 to 256 characters")
		return nil
	}
	parsed, err := url.Parse(link)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		errs.Add("link", "invalid", "link must be a valid http(s) URL")
	}
	return nil
}

func (s *Service) checkContacts(_ context.Context, in *writeInput, errs *validation.Errors) error {
	if in.req.Phone != nil {
		phone := strings.TrimSpace(*in.req.Phone)
		if phone != "" && !phoneRe.MatchString(phone) {
			errs.Add("phone_number", "invalid", "phone number format is +7XXXXXXXXXX")
		}
	}
	if in.req.Telegram != nil {
		nick := strings.TrimSpace(*in.req.Telegram)
		if nick != "" {
			if n := len(nick); n < minTelegramLength || n > maxTelegramLength || !telegramRe.MatchString(nick) {
				errs.Add("telegram_nick", "invalid", "telegram nick must be 5 to 32 latin characters, digits or underscores")
			}
		}
	}
	return nil
}

func (s *Service) checkDirections(ctx context.Context, in *writeInput, errs *validation.Errors) error {
	if in.req.DirectionIDs == nil {
		return nil
	}
	directions, err := s.refRepo.FindDirectionsByIDs(ctx, s.db, in.req.DirectionIDs)
	if err != nil {
		return err
	}
	if len(directions) != len(in.req.DirectionIDs) {
		errs.Add("directions", "invalid", "unknown development direction")
	}
	return nil
}

func (s *Service) checkSpecialists(ctx context.Context, in *writeInput, errs *validation.Errors) error {
	specs := in.req.Specialists
	if specs == nil {
		if s.publishing(in) {
			errs.Add("project_specialists", "is_required", "a project needs at least one specialist slot")
		}
		return nil
	}
	if len(specs) == 0 && s.publishing(in) {
		errs.Add("project_specialists", "is_required", "a project needs at least one specialist slot")
		return nil
	}

	type slotKey struct {
		profession snowflake.ID
		level      int16
	}
	seen := make(map[slotKey]struct{}, len(specs))
	duplicated := false
	for _, spec := range specs {
		key := slotKey{profession: spec.ProfessionID, level: spec.Level}
		if _, dup := seen[key]; dup {
			duplicated = true
		}
		seen[key] = struct{}{}
	}
	if duplicated {
		errs.Add("unique_project_specialists", "unique_project_specialists",
			"duplicate specialists with the same profession and level are not allowed")
		return nil
	}

	specialists := make([]domain.ProjectSpecialist, 0, len(specs))
	for _, spec := range specs {
		if !refdomain.ValidLevel(spec.Level) {
			errs.Add("level", "level", "level must be between junior and lead")
			return nil
		}
		if spec.Count < 1 {
			errs.Add("count", "count", "slot head-count must be at least one")
			return nil
		}

		profession, err := s.refRepo.FindProfessionByID(ctx, s.db, spec.ProfessionID)
		if err != nil {
			return err
		}
		if profession == nil {
			errs.Add("profession", "invalid", "unknown profession")
			return nil
		}

		skills, err := s.refRepo.FindSkillsByIDs(ctx, s.db, spec.SkillIDs)
		if err != nil {
			return err
		}
		if len(skills) != len(spec.SkillIDs) {
			errs.Add("skills", "invalid", "unknown skill")
			return nil
		}

		specialists = append(specialists, domain.ProjectSpecialist{
			ID:           s.genID.Generate(),
			ProfessionID: spec.ProfessionID,
			Level:        spec.Level,
			Count:        spec.Count,
			IsRequired:   spec.IsRequired,
			Skills:       skills,
		})
	}
	in.specialists = specialists
	return nil
}

// checkRecruitment enforces flag consistency and normalizes closed
// recruitment by forcing every slot's is_required off at write time.
func (s *Service) checkRecruitment(_ context.Context, in *writeInput, errs *validation.Errors) error {
	if in.req.RecruitmentOpen == nil || in.req.Specialists == nil {
		return nil
	}
	if !*in.req.RecruitmentOpen {
		for i := range in.specialists {
			in.specialists[i].IsRequired = false
		}
		return nil
	}
	for _, slot := range in.specialists {
		if slot.IsRequired {
			return nil
		}
	}
	errs.Add("is_required", "is_required", "mark at least one specialist as sought for the project")
	return nil
}

// publishing reports whether this write must satisfy the full project
// contract: any non-draft write, or a draft write that activates the project.
func (s *Service) publishing(in *writeInput) bool {
	if !in.draft {
		return true
	}
	return in.req.Status != nil && *in.req.Status == domain.StatusActive
}

func validationError(field, code, message string) error {
	return validation.New(field, code, message)
}

func dateChanged(existing *domain.Project, value *time.Time, started bool) bool {
	if existing == nil {
		return true
	}
	current := existing.Ended
	if started {
		current = existing.Started
	}
	if current == nil {
		return true
	}
	return !current.Equal(*value)
}
