// Package seed bootstraps reference data for fresh installs.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	refdomain "github.com/Pet-projects-for-experience/Backend/internal/reference/domain"
)

// professionPairs is the built-in speciality/specialization catalog.
var professionPairs = [][2]string{
	{"Разработка", "Фронтенд-разработчик"},
	{"Разработка", "Бэкенд-разработчик"},
	{"Разработка", "Фулстек-разработчик"},
	{"Разработка", "Мобильный разработчик"},
	{"Тестирование", "Ручной тестировщик"},
	{"Тестирование", "Автоматизатор тестирования"},
	{"Дизайн", "UX/UI-дизайнер"},
	{"Дизайн", "Графический дизайнер"},
	{"Аналитика", "Системный аналитик"},
	{"Аналитика", "Бизнес-аналитик"},
	{"Менеджмент", "Менеджер проекта"},
	{"Менеджмент", "Продакт-менеджер"},
	{"Инфраструктура", "DevOps-инженер"},
	{"Данные", "Дата-инженер"},
	{"Данные", "Дата-сайентист"},
}

var skillNames = []string{
	"Python", "Go", "Java", "Kotlin", "Swift", "JavaScript", "TypeScript",
	"React", "Vue", "Angular", "Django", "FastAPI", "PostgreSQL", "MySQL",
	"Redis", "Docker", "Kubernetes", "Git", "Linux", "CI/CD", "Figma",
	"SQL", "REST API", "gRPC", "RabbitMQ", "Kafka",
}

var directionNames = []string{
	"Веб-разработка",
	"Мобильная разработка",
	"Искусственный интеллект",
	"Геймдев",
	"Финтех",
	"Образование",
	"Здоровье",
	"Электронная коммерция",
	"Социальные сети",
	"Инструменты разработчика",
}

// EnsureReferenceData populates professions, skills and directions when
// the corresponding tables are empty. Existing catalogs are left as is.
func EnsureReferenceData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureProfessions(ctx, tx, node); err != nil {
			return err
		}
		if err := ensureSkills(ctx, tx, node); err != nil {
			return err
		}
		return ensureDirections(ctx, tx, node)
	})
}

func ensureProfessions(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&refdomain.Profession{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	professions := make([]refdomain.Profession, 0, len(professionPairs))
	for _, pair := range professionPairs {
		professions = append(professions, refdomain.Profession{
			ID:             node.Generate(),
			Speciality:     pair[0],
			Specialization: pair[1],
			CreatedAt:      now,
		})
	}
	return tx.WithContext(ctx).Create(&professions).Error
}

func ensureSkills(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&refdomain.Skill{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	skills := make([]refdomain.Skill, 0, len(skillNames))
	for _, name := range skillNames {
		skills = append(skills, refdomain.Skill{
			ID:        node.Generate(),
			Name:      name,
			CreatedAt: now,
		})
	}
	return tx.WithContext(ctx).Create(&skills).Error
}

func ensureDirections(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&refdomain.Direction{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	directions := make([]refdomain.Direction, 0, len(directionNames))
	for _, name := range directionNames {
		directions = append(directions, refdomain.Direction{
			ID:        node.Generate(),
			Name:      name,
			CreatedAt: now,
		})
	}
	return tx.WithContext(ctx).Create(&directions).Error
}
