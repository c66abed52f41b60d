package handlers

import (
	"net/http"
	"strings"
	"time"

	"job-tracker/internal/api"
	"job-tracker/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ApplicationHandler struct {
	service   ApplicationService
	validator *validator.Validate
}

func NewApplicationHandler(service ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		service:   service,
		validator: validator.New(),
	}
}

// CreateApplicationRequest represents the request body for tracking a new application
// @Description Request body for creating an application
type CreateApplicationRequest struct {
	Company   string     `json:"company" validate:"required,max=255" example:"Google"`
	Position  string     `json:"position" validate:"required,max=255" example:"Software Engineer"`
	Status    string     `json:"status" validate:"omitempty,max=50" example:"applied"`
	AppliedAt *time.Time `json:"applied_at" example:"2026-03-01T00:00:00Z"`
	JobURL    *string    `json:"job_url" validate:"omitempty,url,max=1000" example:"https://careers.google.com/jobs/1"`
	Notes     *string    `json:"notes" validate:"omitempty,max=5000"`
} // @name CreateApplicationRequest

// UpdateApplicationRequest represents the editable fields of an application
// @Description Request body for updating an application
type UpdateApplicationRequest struct {
	Company   string     `json:"company" validate:"required,max=255" example:"Google"`
	Position  string     `json:"position" validate:"required,max=255" example:"Software Engineer"`
	AppliedAt *time.Time `json:"applied_at" example:"2026-03-01T00:00:00Z"`
	JobURL    *string    `json:"job_url" validate:"omitempty,url,max=1000"`
	Notes     *string    `json:"notes" validate:"omitempty,max=5000"`
} // @name UpdateApplicationRequest

// UpdateStatusRequest represents a manual status change
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,max=50" example:"interview"`
} // @name UpdateStatusRequest

// RecordContactRequest represents a manual contact entry
type RecordContactRequest struct {
	ContactedAt *time.Time `json:"contacted_at" example:"2026-03-10T12:00:00Z"`
} // @name RecordContactRequest

func (h *ApplicationHandler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		api.SendError(c, http.StatusBadRequest, api.ErrCodeValidation, "Invalid request body", err.Error())
		return false
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendError(c, http.StatusBadRequest, api.ErrCodeValidation, "Validation failed", err.Error())
		return false
	}
	return true
}

// CreateApplication tracks a new application
// @Summary Create an application
// @Tags applications
// @Accept json
// @Produce json
// @Param application body CreateApplicationRequest true "Application data"
// @Success 201 {object} api.APIResponse{data=repository.Application}
// @Failure 400 {object} api.APIResponse{error=api.APIError}
// @Failure 500 {object} api.APIResponse{error=api.APIError}
// @Router /applications [post]
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	var req CreateApplicationRequest
	if !h.bind(c, &req) {
		return
	}

	app, err := h.service.CreateApplication(c.Request.Context(), repository.CreateApplicationRequest{
		Company:   req.Company,
		Position:  req.Position,
		Status:    req.Status,
		AppliedAt: req.AppliedAt,
		JobURL:    req.JobURL,
		Notes:     req.Notes,
	})
	if err != nil {
		sendServiceError(c, err, "Application", "create application")
		return
	}

	api.SendSuccess(c, http.StatusCreated, app, nil)
}

// ListApplications returns a page of applications
// @Summary List applications
// @Tags applications
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Success 200 {object} api.APIResponse{data=[]repository.Application}
// @Failure 400 {object} api.APIResponse{error=api.APIError}
// @Router /applications [get]
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	page, limit := pagination(c)
	params := repository.ListApplicationsParams{
		Limit:  int32(limit),
		Offset: int32((page - 1) * limit),
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		params.Status = &status
	}

	apps, total, err := h.service.ListApplicationsPage(c.Request.Context(), params)
	if err != nil {
		sendServiceError(c, err, "Application", "list applications")
		return
	}

	api.SendSuccess(c, http.StatusOK, apps, api.NewPaginationMeta(page, limit, total))
}

// GetApplication returns one application
// @Summary Get an application
// @Tags applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} api.APIResponse{data=repository.Application}
// @Failure 404 {object} api.APIResponse{error=api.APIError}
// @Router /applications/{id} [get]
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	id, ok := parseID(c, "application")
	if !ok {
		return
	}

	app, err := h.service.GetApplication(c.Request.Context(), id)
	if err != nil {
		sendServiceError(c, err, "Application", "fetch application")
		return
	}

	api.SendSuccess(c, http.StatusOK, app, nil)
}

// UpdateApplication edits the non-status fields
// @Summary Update an application
// @Tags applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param application body UpdateApplicationRequest true "Application data"
// @Success 200 {object} api.APIResponse{data=repository.Application}
// @Failure 400 {object} api.APIResponse{error=api.APIError}
// @Failure 404 {object} api.APIResponse{error=api.APIError}
// @Router /applications/{id} [put]
func (h *ApplicationHandler) UpdateApplication(c *gin.Context) {
	id, ok := parseID(c, "application")
	if !ok {
		return
	}
	var req UpdateApplicationRequest
	if !h.bind(c, &req) {
		return
	}

	app, err := h.service.UpdateApplication(c.Request.Context(), id, repository.UpdateApplicationRequest{
		Company:   req.Company,
		Position:  req.Position,
		AppliedAt: req.AppliedAt,
		JobURL:    req.JobURL,
		Notes:     req.Notes,
	})
	if err != nil {
		sendServiceError(c, err, "Application", "update application")
		return
	}

	api.SendSuccess(c, http.StatusOK, app, nil)
}

// UpdateStatus applies a manual status change
// @Summary Change application status
// @Tags applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param status body UpdateStatusRequest true "New status"
// @Success 200 {object} api.APIResponse{data=repository.Application}
// @Failure 400 {object} api.APIResponse{error=api.APIError}
// @Failure 404 {object} api.APIResponse{error=api.APIError}
// @Router /applications/{id}/status [patch]
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "application")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !h.bind(c, &req) {
		return
	}

	app, err := h.service.ChangeStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		sendServiceError(c, err, "Application", "update status")
		return
	}

	api.SendSuccess(c, http.StatusOK, app, nil)
}

// RecordContact moves the last contact date forward
// @Summary Record contact
// @Tags applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param contact body RecordContactRequest false "Contact time, defaults to now"
// @Success 200 {object} api.APIResponse{data=repository.Application}
// @Failure 404 {object} api.APIResponse{error=api.APIError}
// @Router /applications/{id}/last-contact [patch]
func (h *ApplicationHandler) RecordContact(c *gin.Context) {
	id, ok := parseID(c, "application")
	if !ok {
		return
	}
	var req RecordContactRequest
	if c.Request.ContentLength > 0 && !h.bind(c, &req) {
		return
	}

	var at time.Time
	if req.ContactedAt != nil {
		at = *req.ContactedAt
	}
	app, err := h.service.RecordContact(c.Request.Context(), id, at)
	if err != nil {
		sendServiceError(c, err, "Application", "record contact")
		return
	}

	api.SendSuccess(c, http.StatusOK, app, nil)
}

// DeleteApplication removes an application and its suggestions
// @Summary Delete an application
// @Tags applications
// @Param id path string true "Application ID"
// @Success 204
// @Failure 404 {object} api.APIResponse{error=api.APIError}
// @Router /applications/{id} [delete]
func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	id, ok := parseID(c, "application")
	if !ok {
		return
	}

	if err := h.service.DeleteApplication(c.Request.Context(), id); err != nil {
		sendServiceError(c, err, "Application", "delete application")
		return
	}

	c.Status(http.StatusNoContent)
}
