package handlers

import (
	"net/http"

	"job-tracker/internal/agent"
	"job-tracker/internal/api"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type AgentHandler struct {
	agents    AgentRunner
	followUps FollowUpScanner
	validator *validator.Validate
}

func NewAgentHandler(agents AgentRunner, followUps FollowUpScanner) *AgentHandler {
	return &AgentHandler{
		agents:    agents,
		followUps: followUps,
		validator: validator.New(),
	}
}

type FollowUpRequest struct {
	Tone string `json:"tone" validate:"omitempty,oneof=professional friendly brief" example:"friendly"`
} // @name FollowUpRequest

type InterviewPrepRequest struct {
	JobDescription string `json:"job_description" validate:"max=20000"`
} // @name InterviewPrepRequest

func (h *AgentHandler) bindOptional(c *gin.Context, req interface{}) bool {
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(req); err != nil {
			api.SendError(c, http.StatusBadRequest, api.ErrCodeValidation, "Invalid request body", err.Error())
			return false
		}
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendError(c, http.StatusBadRequest, api.ErrCodeValidation, "Validation failed", err.Error())
		return false
	}
	return true
}

// DraftFollowUp drafts a follow-up message for an application
// @Summary Draft a follow-up
// @Tags agents
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param request body FollowUpRequest false "Tone"
// @Success 200 {object} api.APIResponse{data=agent.FollowUpDraft}
// @Failure 404 {object} api.APIResponse{error=api.APIError}
// @Failure 503 {object} api.APIResponse{error=api.APIError}
// @Router /agents/follow-up/{id} [post]
func (h *AgentHandler) DraftFollowUp(c *gin.Context) {
	id, ok := parseID(c, "application")
	if !ok {
		return
	}
	var req FollowUpRequest
	if !h.bindOptional(c, &req) {
		return
	}

	draft, err := h.agents.DraftFollowUp(c.Request.Context(), id, req.Tone)
	if err != nil {
		sendServiceError(c, err, "Application", "draft follow-up")
		return
	}

	api.SendSuccess(c, http.StatusOK, draft, nil)
}

// PrepareInterview builds interview preparation notes
// @Summary Interview preparation
// @Tags agents
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param request body InterviewPrepRequest false "Job description"
// @Success 200 {object} api.APIResponse{data=agent.InterviewPrep}
// @Failure 404 {object} api.APIResponse{error=api.APIError}
// @Failure 503 {object} api.APIResponse{error=api.APIError}
// @Router /agents/interview-prep/{id} [post]
func (h *AgentHandler) PrepareInterview(c *gin.Context) {
	id, ok := parseID(c, "application")
	if !ok {
		return
	}
	var req InterviewPrepRequest
	if !h.bindOptional(c, &req) {
		return
	}

	prep, err := h.agents.PrepareInterview(c.Request.Context(), id, req.JobDescription)
	if err != nil {
		sendServiceError(c, err, "Application", "prepare interview")
		return
	}

	api.SendSuccess(c, http.StatusOK, prep, nil)
}

// TailorResume compares a resume with a job description
// @Summary Tailor a resume
// @Tags agents
// @Accept json
// @Produce json
// @Param request body agent.TailorInput true "Resume and job description"
// @Success 200 {object} api.APIResponse{data=agent.TailoredResume}
// @Failure 400 {object} api.APIResponse{error=api.APIError}
// @Failure 503 {object} api.APIResponse{error=api.APIError}
// @Router /agents/tailor-resume [post]
func (h *AgentHandler) TailorResume(c *gin.Context) {
	var req agent.TailorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendError(c, http.StatusBadRequest, api.ErrCodeValidation, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendError(c, http.StatusBadRequest, api.ErrCodeValidation, "Validation failed", err.Error())
		return
	}

	out, err := h.agents.TailorResume(c.Request.Context(), req)
	if err != nil {
		sendServiceError(c, err, "Resume", "tailor resume")
		return
	}

	api.SendSuccess(c, http.StatusOK, out, nil)
}

// ScanFollowUps runs the stale application scan immediately
// @Summary Run the follow-up scan
// @Tags followups
// @Produce json
// @Success 200 {object} api.APIResponse{data=[]service.FollowUpDue}
// @Router /followups/scan [post]
func (h *AgentHandler) ScanFollowUps(c *gin.Context) {
	due, err := h.followUps.ScanStale(c.Request.Context())
	if err != nil {
		sendServiceError(c, err, "Application", "scan follow-ups")
		return
	}

	api.SendSuccess(c, http.StatusOK, due, nil)
}
