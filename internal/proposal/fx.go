package proposal

import (
	"go.uber.org/fx"

	"github.com/Pet-projects-for-experience/Backend/internal/proposal/repository"
	"github.com/Pet-projects-for-experience/Backend/internal/proposal/service"
)

var Module = fx.Module("proposal.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
