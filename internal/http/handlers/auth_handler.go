package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flastal/flastal-backend/internal/dto"
	"github.com/flastal/flastal-backend/internal/http/handlers/common"
	"github.com/flastal/flastal-backend/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterFan POST /auth/fans/register
func (h *AuthHandler) RegisterFan(c *gin.Context) {
	var req dto.RegisterFanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.auth.RegisterFan(c.Request.Context(), service.RegisterFanInput{
		Email:      req.Email,
		Password:   req.Password,
		HandleName: req.HandleName,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{Account: result.User, TokenPair: result.TokenPair})
}

// RegisterFlorist POST /auth/florists/register
func (h *AuthHandler) RegisterFlorist(c *gin.Context) {
	var req dto.RegisterFloristRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	florist, err := h.auth.RegisterFlorist(c.Request.Context(), service.RegisterFloristInput{
		Email:        req.Email,
		Password:     req.Password,
		ShopName:     req.ShopName,
		PlatformName: req.PlatformName,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, florist)
}

// LoginFan POST /auth/fans/login
func (h *AuthHandler) LoginFan(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.auth.LoginFan(c.Request.Context(), service.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{Account: result.User, TokenPair: result.TokenPair})
}

// LoginFlorist POST /auth/florists/login
func (h *AuthHandler) LoginFlorist(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.auth.LoginFlorist(c.Request.Context(), service.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{Account: result.Florist, TokenPair: result.TokenPair})
}

// Refresh POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Me GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
		return
	}

	account, err := h.auth.Me(c.Request.Context(), actor)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, account)
}
