package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	authapp "github.com/secureweb/auth-service/internal/application"
	"github.com/secureweb/auth-service/internal/domain/autherr"
	"github.com/secureweb/auth-service/internal/domain/entity"
	"github.com/secureweb/auth-service/pkg/helpers"
	"github.com/secureweb/auth-service/pkg/response"
	"github.com/secureweb/auth-service/pkg/validation"
)

type AuthHandler struct {
	Svc     *authapp.Service
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewAuthHandler(svc *authapp.Service, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Confirm  string `json:"confirm" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type changePasswordRequest struct {
	Username    string `json:"username" binding:"required"`
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
	Confirm     string `json:"confirm" binding:"required"`
}

// statusFor maps domain error codes onto HTTP statuses. Anything that is
// not a structured auth failure is an internal error and stays opaque.
func statusFor(e *autherr.Error) int {
	switch e.Code {
	case autherr.CodeValidation:
		return http.StatusBadRequest
	case autherr.CodeInvalidCredentials:
		return http.StatusUnauthorized
	case autherr.CodeUserNotFound:
		return http.StatusNotFound
	case autherr.CodeUserExists:
		return http.StatusConflict
	case autherr.CodeDeliveryFailed:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

// fail writes the structured failure envelope. Internal details never
// reach the client.
func (h *AuthHandler) fail(c *gin.Context, err error) {
	var ae *autherr.Error
	if errors.As(err, &ae) {
		response.Error[any](c, statusFor(ae), ae.Message, gin.H{"message": ae.Message, "error_code": ae.Code})
		return
	}
	if h.Logger != nil {
		h.Logger.WithError(err).WithField("path", c.FullPath()).Error("unexpected error")
	}
	response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
}

func userPayload(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"phone":      u.Phone,
		"address":    u.Address,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

// Register POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), authapp.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Confirm:  req.Confirm,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, userPayload(u), "user registered")
}

// Login POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	pair, err := h.Svc.IssueTokens(c.Request.Context(), u)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, userPayload(u), "login successful")
}

// ForgotPassword POST /api/reset-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"sent": true}, "email sent")
}

// ChangePassword POST /api/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.ChangePassword(c.Request.Context(), req.Username, req.OldPassword, req.NewPassword, req.Confirm)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, userPayload(u), "password updated")
}
