package auth

import (
	"go.uber.org/fx"

	"github.com/Pet-projects-for-experience/Backend/internal/auth/repository"
	"github.com/Pet-projects-for-experience/Backend/internal/auth/service"
	"github.com/Pet-projects-for-experience/Backend/internal/auth/session"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
	session.Module,
)
