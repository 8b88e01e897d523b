package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movieclub/internal/config"
	"github.com/iliyamo/movieclub/internal/utils"
)

// ownerSubject is the token subject for the single owner account.
const ownerSubject = "owner"

// AuthHandler issues access tokens to the owner.
type AuthHandler struct {
	Cfg config.Config
}

type loginReq struct {
	Password string `json:"password"`
}

type loginResp struct {
	Access utils.AccessToken `json:"access"`
	Role   string            `json:"role"`
}

// Login checks the owner password against OWNER_PASSWORD_HASH and returns
// a signed access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	if req.Password == "" {
		return errorJSON(c, http.StatusBadRequest, "password required")
	}
	if err := utils.CheckOwnerPassword(h.Cfg.OwnerPasswordHash, req.Password); err != nil {
		return errorJSON(c, http.StatusUnauthorized, "invalid credentials")
	}

	ttl := time.Duration(h.Cfg.AccessTTLMin) * time.Minute
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, ownerSubject, utils.RoleOwner, ttl)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "issue access failed")
	}
	return c.JSON(http.StatusOK, loginResp{Access: access, Role: utils.RoleOwner})
}
