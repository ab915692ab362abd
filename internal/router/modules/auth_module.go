package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/secureweb/auth-service/internal/container"
	handlers "github.com/secureweb/auth-service/internal/interface/http"
	"github.com/secureweb/auth-service/internal/interface/middleware"
	"github.com/secureweb/auth-service/pkg/helpers"
)

// AuthModule wires the account handlers into routes.
// Public: POST /api/register, /api/login, /api/reset-password,
// /api/change-password, /api/refresh.
// Protected: POST /api/logout, GET /api/profile.
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	registerLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath())
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP())
	resetLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath())
	changeLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath())
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP())

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/reset-password", resetLimiter, m.Handler.ForgotPassword)
	rg.POST("/change-password", changeLimiter, m.Handler.ChangePassword)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(rdb, m.JWT))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUsername()))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/profile", m.Handler.Profile)
	}
}
