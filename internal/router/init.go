package router

import (
	authapp "github.com/secureweb/auth-service/internal/application"
	"github.com/secureweb/auth-service/internal/container"
	pginfra "github.com/secureweb/auth-service/internal/infrastructure/postgres"
	handlers "github.com/secureweb/auth-service/internal/interface/http"
	"github.com/secureweb/auth-service/internal/router/modules"
)

func buildAuthModule() *modules.AuthModule {
	repo := pginfra.NewUserRepository(container.GetPGPool())

	service := authapp.NewService(
		repo,
		container.GetMailgun(),
		container.GetJWT(),
		container.GetRedis(),
		container.GetRabbitPub(),
		container.GetLogger(),
	)

	handler := handlers.NewAuthHandler(
		service,
		container.GetLogger(),
		container.GetConfig().CookieDomain,
		container.GetConfig().CookieSecure,
	)

	return modules.NewAuthModule(handler, container.GetJWT())
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	r.Add(buildAuthModule())
}
