package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/Pet-projects-for-experience/Backend/internal/profile/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*domain.Profile, error) {
	var profile domain.Profile
	err := db.WithContext(ctx).
		Preload("Specialists").
		Preload("Specialists.Profession").
		Preload("Specialists.Skills").
		Where("user_id = ?", userID).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, profile *domain.Profile) error {
	return db.WithContext(ctx).Omit("Specialists").Create(profile).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, profile *domain.Profile) error {
	return db.WithContext(ctx).
		Omit("Specialists").
		Model(&domain.Profile{}).
		Where("user_id = ?", profile.UserID).
		Updates(map[string]any{
			"name":                 profile.Name,
			"about":                profile.About,
			"portfolio_link":       profile.PortfolioLink,
			"country":              profile.Country,
			"city":                 profile.City,
			"birthday":             profile.Birthday,
			"ready_to_participate": profile.ReadyToParticipate,
			"updated_at":           profile.UpdatedAt,
		}).Error
}

// ReplaceSpecialists swaps the full specialist set. Callers wrap it in a
// transaction so readers never observe a profile with no specialists mid-write.
func (r *repo) ReplaceSpecialists(ctx context.Context, db *gorm.DB, userID snowflake.ID, specialists []domain.Specialist) error {
	if err := db.WithContext(ctx).
		Exec(`DELETE FROM specialist_skills WHERE specialist_id IN (SELECT id FROM specialists WHERE profile_user_id = ?)`, userID).
		Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).
		Where("profile_user_id = ?", userID).
		Delete(&domain.Specialist{}).Error; err != nil {
		return err
	}
	if len(specialists) == 0 {
		return nil
	}

	for i := range specialists {
		skills := specialists[i].Skills
		specialists[i].Skills = nil
		if err := db.WithContext(ctx).Omit("Profession", "Skills").Create(&specialists[i]).Error; err != nil {
			return err
		}
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

func (r *repo) HasProfession(ctx context.Context, db *gorm.DB, userID, professionID snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Specialist{}).
		Where("profile_user_id = ? AND profession_id = ?", userID, professionID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
