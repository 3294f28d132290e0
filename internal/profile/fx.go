package profile

import (
	"go.uber.org/fx"

	"github.com/Pet-projects-for-experience/Backend/internal/profile/repository"
	"github.com/Pet-projects-for-experience/Backend/internal/profile/service"
)

var Module = fx.Module("profile.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
