package handler

import (
	"context"
	"net/http"

	"complaint-portal/auth-service/internal/models"
	"complaint-portal/auth-service/internal/services"
	"complaint-portal/auth-service/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type UserService interface {
	List(ctx context.Context, in services.ListInput) (*models.UserPage, error)
	Institutions(ctx context.Context) ([]models.User, error)
	PendingApprovals(ctx context.Context) ([]models.User, error)
	UpdateApproval(ctx context.Context, userID string, in services.ApprovalInput) (*models.User, error)
	Get(ctx context.Context, userID string) (*models.User, error)
	Update(ctx context.Context, userID string, in services.UpdateUserInput) (*models.User, error)
	Delete(ctx context.Context, actorID, userID string) error
}

type UserHandler struct {
	service UserService
	log     *logrus.Entry
}

func NewUserHandler(service UserService, log *logrus.Entry) *UserHandler {
	return &UserHandler{service: service, log: log}
}

// RegisterRoutes mounts /users on a group that already runs the token middleware.
func (h *UserHandler) RegisterRoutes(users *gin.RouterGroup) {
	admin := utils.RequireRoles(models.RoleAdmin)

	users.GET("", admin, h.ListUsers)
	users.GET("/institutions", utils.RequireRoles(models.RoleAdmin, models.RoleInstitution), h.GetInstitutions)
	users.GET("/pending-approvals", admin, h.GetPendingApprovals)
	users.GET("/:id", admin, h.GetUser)
	users.PUT("/:id", admin, h.UpdateUser)
	users.DELETE("/:id", admin, h.DeleteUser)
	users.PUT("/:id/approval", admin, h.UpdateApproval)
}

// GET /users?role=&approvalStatus=&page=&limit=
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, err := h.service.List(c.Request.Context(), services.ListInput{
		Role:           c.Query("role"),
		ApprovalStatus: c.Query("approvalStatus"),
		Page:           c.Query("page"),
		Limit:          c.Query("limit"),
	})
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      page.Count,
		"total":      page.Total,
		"totalPages": page.TotalPages,
		"pagination": page.Pagination,
		"data":       page.Data,
	})
}

func respondWithList(c *gin.Context, users []models.User) {
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(users), "data": users})
}

func (h *UserHandler) GetInstitutions(c *gin.Context) {
	users, err := h.service.Institutions(c.Request.Context())
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respondWithList(c, users)
}

func (h *UserHandler) GetPendingApprovals(c *gin.Context) {
	users, err := h.service.PendingApprovals(c.Request.Context())
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respondWithList(c, users)
}

func (h *UserHandler) UpdateApproval(c *gin.Context) {
	var req services.ApprovalInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, h.log)
		return
	}
	user, err := h.service.UpdateApproval(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respondWithData(c, http.StatusOK, user)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respondWithData(c, http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req services.UpdateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, h.log)
		return
	}
	user, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respondWithData(c, http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.GetString(utils.ContextUserID), c.Param("id")); err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respondWithData(c, http.StatusOK, gin.H{})
}
