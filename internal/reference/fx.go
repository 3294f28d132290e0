package reference

import (
	"go.uber.org/fx"

	"github.com/Pet-projects-for-experience/Backend/internal/reference/repository"
	"github.com/Pet-projects-for-experience/Backend/internal/reference/service"
)

var Module = fx.Module("reference.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
