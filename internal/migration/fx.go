package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	authdomain "github.com/Pet-projects-for-experience/Backend/internal/auth/domain"
	"github.com/Pet-projects-for-experience/Backend/internal/config"
	notificationdomain "github.com/Pet-projects-for-experience/Backend/internal/notification/domain"
	profiledomain "github.com/Pet-projects-for-experience/Backend/internal/profile/domain"
	projectdomain "github.com/Pet-projects-for-experience/Backend/internal/project/domain"
	proposaldomain "github.com/Pet-projects-for-experience/Backend/internal/proposal/domain"
	refdomain "github.com/Pet-projects-for-experience/Backend/internal/reference/domain"
	"github.com/Pet-projects-for-experience/Backend/internal/seed"
	"github.com/Pet-projects-for-experience/Backend/pkg/db"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if db.IsPostgres(cfg) {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// Non-postgres dialects are for local runs; the versioned
			// migrations target postgres, so fall back to AutoMigrate.
			if err := conn.AutoMigrate(
				&authdomain.User{},
				&authdomain.Session{},
				&refdomain.Profession{},
				&refdomain.Skill{},
				&refdomain.Direction{},
				&profiledomain.Profile{},
				&profiledomain.Specialist{},
				&projectdomain.Project{},
				&projectdomain.ProjectSpecialist{},
				&projectdomain.ProjectParticipant{},
				&projectdomain.FavoriteProject{},
				&proposaldomain.Proposal{},
				&notificationdomain.Notification{},
			); err != nil {
				return err
			}
		}

		return seed.EnsureReferenceData(conn)
	}),
)
