package handler

import (
	"context"
	"net/http"

	"complaint-portal/complaint-service/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type DashboardService interface {
	Admin(ctx context.Context, actor models.Principal) (*models.AdminDashboard, error)
	Institution(ctx context.Context, actor models.Principal) (*models.InstitutionDashboard, error)
}

type DashboardHandler struct {
	service DashboardService
	log     *logrus.Entry
}

func NewDashboardHandler(service DashboardService, log *logrus.Entry) *DashboardHandler {
	return &DashboardHandler{service: service, log: log}
}

// RegisterRoutes mounts the dashboards on an authenticated group.
func (h *DashboardHandler) RegisterRoutes(dashboard *gin.RouterGroup) {
	dashboard.GET("/admin", h.GetAdmin)
	dashboard.GET("/institution", h.GetInstitution)
}

func (h *DashboardHandler) GetAdmin(c *gin.Context) {
	actor, ok := requirePrincipal(c)
	if !ok {
		return
	}
	dash, err := h.service.Admin(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respondWithData(c, http.StatusOK, dash)
}

func (h *DashboardHandler) GetInstitution(c *gin.Context) {
	actor, ok := requirePrincipal(c)
	if !ok {
		return
	}
	dash, err := h.service.Institution(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respondWithData(c, http.StatusOK, dash)
}
