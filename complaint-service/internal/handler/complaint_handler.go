package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"complaint-portal/complaint-service/internal/models"
	"complaint-portal/complaint-service/internal/services"
	"complaint-portal/complaint-service/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ComplaintService interface {
	Create(ctx context.Context, actor models.Principal, in services.CreateInput) (*models.ComplaintView, error)
	Read(ctx context.Context, actor models.Principal, id string) (*models.ComplaintView, error)
	List(ctx context.Context, actor models.Principal, criteria services.ListCriteria) (*models.ComplaintPage, error)
	ListMine(ctx context.Context, actor models.Principal, criteria services.ListCriteria) (*models.ComplaintPage, error)
	Transition(ctx context.Context, actor models.Principal, id, status, comment string) (*models.ComplaintView, error)
	Assign(ctx context.Context, actor models.Principal, id string, institutionID *string) (*models.ComplaintView, error)
	AddResponse(ctx context.Context, actor models.Principal, id, message string) (*models.ComplaintView, error)
	Delete(ctx context.Context, actor models.Principal, id string) error
	Stats(ctx context.Context, actor models.Principal) (*models.Stats, error)
	Recent(ctx context.Context, actor models.Principal) ([]models.ComplaintView, error)
}

const (
	// multipartOverhead is the room left for text fields and part headers
	// on top of the largest accepted image.
	multipartOverhead      = 1 << 20
	defaultMultipartMemory = 32 << 20
)

type ComplaintHandler struct {
	service ComplaintService
	log     *logrus.Entry

	maxBody    int64
	formMemory int64
}

func NewComplaintHandler(service ComplaintService, log *logrus.Entry) *ComplaintHandler {
	return &ComplaintHandler{service: service, log: log, formMemory: defaultMultipartMemory}
}

// WithUploadLimit caps the create request body at maxImageBytes plus room for
// the form fields. Larger bodies are refused while they are read.
func (h *ComplaintHandler) WithUploadLimit(maxImageBytes int64) *ComplaintHandler {
	if maxImageBytes > 0 {
		h.maxBody = maxImageBytes + multipartOverhead
		h.formMemory = maxImageBytes
	}
	return h
}

// RegisterRoutes mounts the complaint endpoints on an authenticated group.
func (h *ComplaintHandler) RegisterRoutes(complaints *gin.RouterGroup) {
	complaints.POST("", h.limitBody, h.CreateComplaint)
	complaints.GET("", h.ListComplaints)
	complaints.GET("/my-complaints", h.ListMyComplaints)
	complaints.GET("/stats", h.GetStats)
	complaints.GET("/recent", h.GetRecent)
	complaints.GET("/:id", h.GetComplaint)
	complaints.DELETE("/:id", h.DeleteComplaint)
	complaints.PUT("/:id/status", h.UpdateStatus)
	complaints.POST("/:id/responses", h.AddResponse)
	complaints.PUT("/:id/assign", h.AssignComplaint)
}

func (h *ComplaintHandler) limitBody(c *gin.Context) {
	if h.maxBody > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)
	}
	c.Next()
}

// parseForm reads the whole form before any field is used so an oversized
// upload fails as one error instead of as missing fields.
func (h *ComplaintHandler) parseForm(c *gin.Context) error {
	err := c.Request.ParseMultipartForm(h.formMemory)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil, errors.Is(err, http.ErrNotMultipart):
		return nil
	case errors.As(err, &tooLarge):
		return fmt.Errorf("%w: request body exceeds %d bytes", models.ErrValidation, tooLarge.Limit)
	default:
		return fmt.Errorf("%w: invalid multipart form", models.ErrValidation)
	}
}

func (h *ComplaintHandler) principal(c *gin.Context) (models.Principal, bool) {
	return requirePrincipal(c)
}

// requirePrincipal aborts with 401 when no authenticated caller is attached.
func requirePrincipal(c *gin.Context) (models.Principal, bool) {
	p, ok := utils.PrincipalFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "code": "UNAUTHORIZED", "error": "authentication required"})
	}
	return p, ok
}

func criteriaFromQuery(c *gin.Context) services.ListCriteria {
	return services.ListCriteria{
		Status:     c.Query("status"),
		Category:   c.Query("category"),
		Date:       c.Query("date"),
		AssignedTo: c.Query("assignedTo"),
		Sort:       c.Query("sort"),
		Page:       c.Query("page"),
		Limit:      c.Query("limit"),
	}
}

func (h *ComplaintHandler) CreateComplaint(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}
	if err := h.parseForm(c); err != nil {
		respondWithError(c, h.log, err)
		return
	}

	in := services.CreateInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Province:    c.PostForm("province"),
		District:    c.PostForm("district"),
		Sector:      c.PostForm("sector"),
		Cell:        c.PostForm("cell"),
		Village:     c.PostForm("village"),
		Priority:    c.PostForm("priority"),
		NationalID:  c.PostForm("nationalId"),
		Phone:       c.PostForm("phone"),
	}

	header, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		respondWithError(c, h.log, fmt.Errorf("%w: invalid image upload", models.ErrValidation))
		return
	default:
		file, err := header.Open()
		if err != nil {
			respondWithError(c, h.log, fmt.Errorf("%w: invalid image upload", models.ErrValidation))
			return
		}
		defer file.Close()

		in.Image = &models.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		}
	}

	view, err := h.service.Create(c.Request.Context(), actor, in)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respondWithData(c, http.StatusCreated, view)
}

func (h *ComplaintHandler) ListComplaints(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}
	page, err := h.service.List(c.Request.Context(), actor, criteriaFromQuery(c))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respondWithPage(c, page)
}

func (h *ComplaintHandler) ListMyComplaints(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}
	page, err := h.service.ListMine(c.Request.Context(), actor, criteriaFromQuery(c))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respondWithPage(c, page)
}

func respondWithPage(c *gin.Context, page *models.ComplaintPage) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      page.Count,
		"total":      page.Total,
		"totalPages": page.TotalPages,
		"pagination": page.Pagination,
		"data":       page.Data,
	})
}

func (h *ComplaintHandler) GetComplaint(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}
	view, err := h.service.Read(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respondWithData(c, http.StatusOK, view)
}

func (h *ComplaintHandler) DeleteComplaint(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respondWithData(c, http.StatusOK, gin.H{})
}

type statusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

func (h *ComplaintHandler) UpdateStatus(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, h.log, fmt.Errorf("%w: invalid request body", models.ErrValidation))
		return
	}
	view, err := h.service.Transition(c.Request.Context(), actor, c.Param("id"), req.Status, req.Comment)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respondWithData(c, http.StatusOK, view)
}

type responseRequest struct {
	Message string `json:"message"`
}

func (h *ComplaintHandler) AddResponse(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}
	var req responseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, h.log, fmt.Errorf("%w: invalid request body", models.ErrValidation))
		return
	}
	view, err := h.service.AddResponse(c.Request.Context(), actor, c.Param("id"), req.Message)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respondWithData(c, http.StatusOK, view)
}

// assignRequest accepts {"institutionId": null} to clear the assignment.
type assignRequest struct {
	InstitutionID *string `json:"institutionId"`
}

func (h *ComplaintHandler) AssignComplaint(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, h.log, fmt.Errorf("%w: invalid request body", models.ErrValidation))
		return
	}
	view, err := h.service.Assign(c.Request.Context(), actor, c.Param("id"), req.InstitutionID)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respondWithData(c, http.StatusOK, view)
}

func (h *ComplaintHandler) GetStats(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}
	stats, err := h.service.Stats(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respondWithData(c, http.StatusOK, stats)
}

func (h *ComplaintHandler) GetRecent(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}
	recent, err := h.service.Recent(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respondWithData(c, http.StatusOK, recent)
}
