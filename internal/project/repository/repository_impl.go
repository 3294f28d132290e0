package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/Pet-projects-for-experience/Backend/internal/project/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, project *domain.Project) error {
	return db.WithContext(ctx).Omit("Directions", "Specialists").Create(project).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, project *domain.Project) error {
	return db.WithContext(ctx).
		Model(&domain.Project{}).
		Where("id = ?", project.ID).
		Updates(map[string]any{
			"name":        project.Name,
			"description": project.Description,
			"started":     project.Started,
			"ended":       project.Ended,
			"busyness":    project.Busyness,
			"status":      project.Status,
			"link":        project.Link,
			"phone":       project.Phone,
			"telegram":    project.Telegram,
			"email":       project.Email,
			"updated_at":  project.UpdatedAt,
		}).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, projectID snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", projectID).Delete(&domain.Project{}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, projectID snowflake.ID) (*domain.Project, error) {
	var project domain.Project
	err := db.WithContext(ctx).
		Preload("Directions").
		Preload("Specialists").
		Preload("Specialists.Profession").
		Preload("Specialists.Skills").
		Where("id = ?", projectID).
		First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *repo) NameTaken(ctx context.Context, db *gorm.DB, creatorID snowflake.ID, name string, excludeID snowflake.ID) (bool, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Project{}).
		Where("creator_id = ? AND name = ?", creatorID, name)
	if excludeID != 0 {
		stmt = stmt.Where("id <> ?", excludeID)
	}
	var count int64
	if err := stmt.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) ReplaceDirections(ctx context.Context, db *gorm.DB, project *domain.Project, directionIDs []snowflake.ID) error {
	if err := db.WithContext(ctx).
		Exec(`DELETE FROM project_directions WHERE project_id = ?`, project.ID).Error; err != nil {
		return err
	}
	for _, id := range directionIDs {
		if err := db.WithContext(ctx).
			Exec(`INSERT INTO project_directions (project_id, direction_id) VALUES (?, ?)`, project.ID, id).Error; err != nil {
			return err
		}
	}
	return nil
}

// ReplaceSpecialists swaps the full slot set. Callers wrap it in a
// transaction so a concurrent reader never observes a project with no slots.
func (r *repo) ReplaceSpecialists(ctx context.Context, db *gorm.DB, projectID snowflake.ID, specialists []domain.ProjectSpecialist) error {
	if err := db.WithContext(ctx).
		Exec(`DELETE FROM project_specialist_skills WHERE project_specialist_id IN (SELECT id FROM project_specialists WHERE project_id = ?)`, projectID).
		Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&domain.ProjectSpecialist{}).Error; err != nil {
		return err
	}

	for i := range specialists {
		skills := specialists[i].Skills
		specialists[i].Skills = nil
		if err := db.WithContext(ctx).Omit("Profession", "Skills").Create(&specialists[i]).Error; err != nil {
			return err
		}
		// Skill associations attach after insert, many-to-many rows need the slot id.
		if len(skills) == 0 {
			continue
		}
		if err := db.WithContext(ctx).
			Model(&specialists[i]).
			Association("Skills").
			Append(skills); err != nil {
			return err
		}
		specialists[i].Skills = skills
	}
	return nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, viewerID snowflake.ID, req domain.ListProjectsRequest, visibility domain.VisibilityPolicy) ([]domain.Project, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Project{})

	switch visibility.Draft {
	case domain.DraftVisibilityNone:
		stmt = stmt.Where("status <> ?", domain.StatusDraft)
	default:
		if viewerID != 0 {
			stmt = stmt.Where("status <> ? OR creator_id = ? OR owner_id = ?", domain.StatusDraft, viewerID, viewerID)
		} else {
			stmt = stmt.Where("status <> ?", domain.StatusDraft)
		}
	}

	if len(req.Statuses) > 0 {
		stmt = stmt.Where("status IN ?", req.Statuses)
	}
	if len(req.Busyness) > 0 {
		stmt = stmt.Where("busyness IN ?", req.Busyness)
	}
	if len(req.DirectionIDs) > 0 {
		stmt = stmt.Where("EXISTS (SELECT 1 FROM project_directions pd WHERE pd.project_id = projects.id AND pd.direction_id IN ?)", req.DirectionIDs)
	}
	if len(req.Levels) > 0 {
		stmt = stmt.Where("EXISTS (SELECT 1 FROM project_specialists ps WHERE ps.project_id = projects.id AND ps.level IN ?)", req.Levels)
	}
	if len(req.ProfessionIDs) > 0 {
		stmt = stmt.Where("EXISTS (SELECT 1 FROM project_specialists ps WHERE ps.project_id = projects.id AND ps.profession_id IN ?)", req.ProfessionIDs)
	}
	if len(req.SkillIDs) > 0 {
		stmt = stmt.Where(`EXISTS (
			SELECT 1 FROM project_specialists ps
			JOIN project_specialist_skills pss ON pss.project_specialist_id = ps.id
			WHERE ps.project_id = projects.id AND pss.skill_id IN ?)`, req.SkillIDs)
	}
	if req.RecruitmentStatus != nil {
		if *req.RecruitmentStatus == 1 {
			stmt = stmt.Where("EXISTS (SELECT 1 FROM project_specialists ps WHERE ps.project_id = projects.id AND ps.is_required)")
		} else if *req.RecruitmentStatus == 0 {
			stmt = stmt.Where("NOT EXISTS (SELECT 1 FROM project_specialists ps WHERE ps.project_id = projects.id AND ps.is_required)")
		}
	}
	if req.ProjectRole != nil && viewerID != 0 {
		if *req.ProjectRole == 1 {
			stmt = stmt.Where("creator_id = ? OR owner_id = ?", viewerID, viewerID)
		} else if *req.ProjectRole == 0 {
			stmt = stmt.Where("EXISTS (SELECT 1 FROM project_participants pp WHERE pp.project_id = projects.id AND pp.user_id = ?)", viewerID).
				Where("status <> ?", domain.StatusDraft)
		}
	}
	if req.FavoritesOnly && viewerID != 0 {
		stmt = stmt.Where("EXISTS (SELECT 1 FROM favorite_projects fp WHERE fp.project_id = projects.id AND fp.user_id = ?)", viewerID)
	}
	stmt = applySearch(stmt, req.Search)

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []domain.Project
	err := stmt.
		Preload("Directions").
		Preload("Specialists").
		Preload("Specialists.Profession").
		Preload("Specialists.Skills").
		Order("created_at desc, id desc").
		Offset(req.Page.OffsetValue()).
		Limit(req.Page.PageSize).
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (r *repo) ListDrafts(ctx context.Context, db *gorm.DB, viewerID snowflake.ID, offset, limit int) ([]domain.Project, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Project{}).
		Where("status = ?", domain.StatusDraft).
		Where("creator_id = ? OR owner_id = ?", viewerID, viewerID)

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []domain.Project
	err := stmt.
		Preload("Directions").
		Preload("Specialists").
		Preload("Specialists.Profession").
		Preload("Specialists.Skills").
		Order("created_at desc, id desc").
		Offset(offset).
		Limit(limit).
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (r *repo) ListActive(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Project, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Project{}).
		Where("status = ?", domain.StatusActive)

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []domain.Project
	err := stmt.
		Preload("Directions").
		Preload("Specialists").
		Preload("Specialists.Profession").
		Order("created_at desc, id desc").
		Offset(offset).
		Limit(limit).
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (r *repo) FindSpecialist(ctx context.Context, db *gorm.DB, specialistID snowflake.ID) (*domain.ProjectSpecialist, error) {
	var slot domain.ProjectSpecialist
	err := db.WithContext(ctx).
		Preload("Profession").
		Preload("Skills").
		Where("id = ?", specialistID).
		First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *repo) InsertParticipant(ctx context.Context, db *gorm.DB, participant *domain.ProjectParticipant) error {
	skills := participant.Skills
	participant.Skills = nil
	if err := db.WithContext(ctx).Omit("Profession", "Skills").Create(participant).Error; err != nil {
		return err
	}
	if len(skills) == 0 {
		return nil
	}
	if err := db.WithContext(ctx).Model(participant).Association("Skills").Append(skills); err != nil {
		return err
	}
	participant.Skills = skills
	return nil
}

func (r *repo) IsParticipant(ctx context.Context, db *gorm.DB, projectID, userID snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.ProjectParticipant{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) HasParticipantRole(ctx context.Context, db *gorm.DB, projectID, userID, professionID snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.ProjectParticipant{}).
		Where("project_id = ? AND user_id = ? AND profession_id = ?", projectID, userID, professionID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) ListParticipants(ctx context.Context, db *gorm.DB, projectID snowflake.ID) ([]domain.ProjectParticipant, error) {
	var participants []domain.ProjectParticipant
	err := db.WithContext(ctx).
		Preload("Profession").
		Preload("Skills").
		Where("project_id = ?", projectID).
		Order("created_at asc, id asc").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *repo) DeleteParticipant(ctx context.Context, db *gorm.DB, projectID, participantID snowflake.ID) (int64, error) {
	var deleted int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Participant row goes first: the project_id guard decides whether the
		// id belongs to this project at all, and a miss must not touch the
		// skills snapshot of a participant in another project.
		res := tx.Where("id = ? AND project_id = ?", participantID, projectID).
			Delete(&domain.ProjectParticipant{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		if deleted == 0 {
			return nil
		}
		return tx.Exec(`DELETE FROM project_participant_skills WHERE project_participant_id = ?`, participantID).Error
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func (r *repo) InsertFavorite(ctx context.Context, db *gorm.DB, favorite *domain.FavoriteProject) error {
	return db.WithContext(ctx).Create(favorite).Error
}

func (r *repo) DeleteFavorite(ctx context.Context, db *gorm.DB, projectID, userID snowflake.ID) (int64, error) {
	tx := db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&domain.FavoriteProject{})
	return tx.RowsAffected, tx.Error
}

func (r *repo) MarkEndedProjects(ctx context.Context, db *gorm.DB, today time.Time) (int64, error) {
	tx := db.WithContext(ctx).
		Model(&domain.Project{}).
		Where("status = ? AND ended IS NOT NULL AND ended < ?", domain.StatusActive, today).
		Updates(map[string]any{
			"status":     domain.StatusEnded,
			"updated_at": time.Now().UTC(),
		})
	return tx.RowsAffected, tx.Error
}
