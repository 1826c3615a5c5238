package handler

import (
	"context"
	"net/http"

	"complaint-portal/auth-service/internal/models"
	"complaint-portal/auth-service/internal/services"
	"complaint-portal/auth-service/internal/utils"
	"complaint-portal/shared/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error)
	Login(ctx context.Context, in services.LoginInput) (*services.AuthResult, error)
	Me(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, in services.ProfileInput) (*models.User, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
	Logout(ctx context.Context, claims *token.Claims) error
	Validate(ctx context.Context, tokenString string) (*token.Claims, error)
}

type AuthHandler struct {
	authService AuthService
	log         *logrus.Entry
}

func NewAuthHandler(authService AuthService, log *logrus.Entry) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// RegisterRoutes mounts /auth. protect is the token middleware.
func (h *AuthHandler) RegisterRoutes(auth *gin.RouterGroup, protect gin.HandlerFunc) {
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.GET("/validate", h.Validate)

	protected := auth.Group("", protect)
	protected.GET("/me", h.Me)
	protected.PUT("/profile", h.UpdateProfile)
	protected.PUT("/change-password", h.ChangePassword)
	protected.POST("/logout", h.Logout)
	protected.GET("/logout", h.Logout)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, h.log)
		return
	}
	res, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "token": res.Token, "user": res.User})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, h.log)
		return
	}
	res, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": res.Token, "user": res.User})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.Me(c.Request.Context(), c.GetString(utils.ContextUserID))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req services.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, h.log)
		return
	}
	user, err := h.authService.UpdateProfile(c.Request.Context(), c.GetString(utils.ContextUserID), req)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respondWithData(c, http.StatusOK, user)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, h.log)
		return
	}
	if err := h.authService.ChangePassword(c.Request.Context(), c.GetString(utils.ContextUserID), req.CurrentPassword, req.NewPassword); err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respondWithData(c, http.StatusOK, gin.H{})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := utils.ClaimsFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "code": "UNAUTHORIZED", "error": token.ErrMissing.Error()})
		return
	}
	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respondWithData(c, http.StatusOK, gin.H{})
}

// Validate lets other services check a token without sharing the blacklist.
func (h *AuthHandler) Validate(c *gin.Context) {
	claims, err := h.authService.Validate(c.Request.Context(), token.FromHeader(c.GetHeader("Authorization")))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id": claims.UserID,
		"role":    claims.Role,
	})
}
