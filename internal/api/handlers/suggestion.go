package handlers

import (
	"net/http"
	"strings"

	"job-tracker/internal/api"
	"job-tracker/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SuggestionHandler struct {
	matcher EmailMatcher
}

func NewSuggestionHandler(matcher EmailMatcher) *SuggestionHandler {
	return &SuggestionHandler{matcher: matcher}
}

// ConfirmSuggestionResponse is the resolved suggestion and the updated application
type ConfirmSuggestionResponse struct {
	Suggestion  *repository.Suggestion  `json:"suggestion"`
	Application *repository.Application `json:"application"`
} // @name ConfirmSuggestionResponse

// ListSuggestions returns match suggestions
// @Summary List suggestions
// @Tags suggestions
// @Produce json
// @Param state query string false "pending, confirmed or dismissed" default(pending)
// @Param application_id query string false "Filter by application"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} api.APIResponse{data=[]repository.Suggestion}
// @Failure 400 {object} api.APIResponse{error=api.APIError}
// @Router /suggestions [get]
func (h *SuggestionHandler) ListSuggestions(c *gin.Context) {
	page, limit := pagination(c)
	params := repository.ListSuggestionsParams{
		Limit:  int32(limit),
		Offset: int32((page - 1) * limit),
	}

	switch state := strings.ToLower(c.DefaultQuery("state", repository.SuggestionPending)); state {
	case "all":
	case repository.SuggestionPending, repository.SuggestionConfirmed, repository.SuggestionDismissed:
		params.State = &state
	default:
		api.SendValidationError(c, "Invalid state", "expected pending, confirmed, dismissed or all")
		return
	}

	if raw := c.Query("application_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			api.SendError(c, http.StatusBadRequest, api.ErrCodeValidation, "Invalid application ID", err.Error())
			return
		}
		params.ApplicationID = &id
	}

	suggestions, err := h.matcher.ListSuggestions(c.Request.Context(), params)
	if err != nil {
		sendServiceError(c, err, "Suggestion", "list suggestions")
		return
	}

	api.SendSuccess(c, http.StatusOK, suggestions, nil)
}

// ConfirmSuggestion accepts a suggestion and applies its target status
// @Summary Confirm a suggestion
// @Tags suggestions
// @Produce json
// @Param id path string true "Suggestion ID"
// @Success 200 {object} api.APIResponse{data=ConfirmSuggestionResponse}
// @Failure 404 {object} api.APIResponse{error=api.APIError}
// @Failure 409 {object} api.APIResponse{error=api.APIError}
// @Router /suggestions/{id}/confirm [post]
func (h *SuggestionHandler) ConfirmSuggestion(c *gin.Context) {
	id, ok := parseID(c, "suggestion")
	if !ok {
		return
	}

	suggestion, app, err := h.matcher.ConfirmSuggestion(c.Request.Context(), id)
	if err != nil {
		sendServiceError(c, err, "Suggestion", "confirm suggestion")
		return
	}

	api.SendSuccess(c, http.StatusOK, ConfirmSuggestionResponse{Suggestion: suggestion, Application: app}, nil)
}

// DismissSuggestion rejects a suggestion
// @Summary Dismiss a suggestion
// @Tags suggestions
// @Produce json
// @Param id path string true "Suggestion ID"
// @Success 200 {object} api.APIResponse{data=repository.Suggestion}
// @Failure 404 {object} api.APIResponse{error=api.APIError}
// @Failure 409 {object} api.APIResponse{error=api.APIError}
// @Router /suggestions/{id}/dismiss [post]
func (h *SuggestionHandler) DismissSuggestion(c *gin.Context) {
	id, ok := parseID(c, "suggestion")
	if !ok {
		return
	}

	suggestion, err := h.matcher.DismissSuggestion(c.Request.Context(), id)
	if err != nil {
		sendServiceError(c, err, "Suggestion", "dismiss suggestion")
		return
	}

	api.SendSuccess(c, http.StatusOK, suggestion, nil)
}
