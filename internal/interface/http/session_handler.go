package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/secureweb/auth-service/pkg/response"
)

// Refresh POST /api/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, gin.H{"refreshed": true}, "token refreshed")
}

// Logout POST /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out")
}

// Profile GET /api/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	uname := c.GetString("username")
	u, err := h.Svc.GetProfile(uname)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, userPayload(u), "profile")
}
