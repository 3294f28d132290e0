package notification

import (
	"go.uber.org/fx"

	"github.com/Pet-projects-for-experience/Backend/internal/notification/provider"
	"github.com/Pet-projects-for-experience/Backend/internal/notification/repository"
	"github.com/Pet-projects-for-experience/Backend/internal/notification/service"
	"github.com/Pet-projects-for-experience/Backend/internal/notification/worker"
)

var Module = fx.Module("notification.service",
	provider.Module,
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	worker.Module,
)
