package project

import (
	"go.uber.org/fx"

	"github.com/Pet-projects-for-experience/Backend/internal/project/repository"
	"github.com/Pet-projects-for-experience/Backend/internal/project/service"
)

var Module = fx.Module("project.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
