package handlers

import (
	"net/http"
	"strings"
	"time"

	"job-tracker/internal/api"
	"job-tracker/internal/matching"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type EmailHandler struct {
	matcher   EmailMatcher
	agents    AgentRunner
	validator *validator.Validate
}

func NewEmailHandler(matcher EmailMatcher, agents AgentRunner) *EmailHandler {
	return &EmailHandler{
		matcher:   matcher,
		agents:    agents,
		validator: validator.New(),
	}
}

// EmailRequest carries one incoming email, either as fields or as a raw
// RFC 5322 message. Fields win over values parsed from Raw.
// @Description Incoming email
type EmailRequest struct {
	MessageID  string     `json:"message_id" validate:"max=998" example:"<abc123@google.com>"`
	From       string     `json:"from" validate:"required_without=Raw,max=998" example:"recruiting@google.com"`
	Subject    string     `json:"subject" validate:"max=998" example:"Interview Invitation - Software Engineer"`
	Body       string     `json:"body"`
	ReceivedAt *time.Time `json:"received_at" example:"2026-03-10T12:00:00Z"`
	Raw        string     `json:"raw"`
} // @name EmailRequest

func (h *EmailHandler) bindEmail(c *gin.Context) (matching.Email, bool) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendError(c, http.StatusBadRequest, api.ErrCodeValidation, "Invalid request body", err.Error())
		return matching.Email{}, false
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendError(c, http.StatusBadRequest, api.ErrCodeValidation, "Validation failed", err.Error())
		return matching.Email{}, false
	}

	var email matching.Email
	if strings.TrimSpace(req.Raw) != "" {
		parsed, err := matching.ParseMessage(strings.NewReader(req.Raw))
		if err != nil {
			api.SendError(c, http.StatusBadRequest, api.ErrCodeValidation, "Invalid raw message", err.Error())
			return matching.Email{}, false
		}
		email = parsed
	}
	if req.MessageID != "" {
		email.MessageID = req.MessageID
	}
	if req.From != "" {
		email.From = req.From
	}
	if req.Subject != "" {
		email.Subject = req.Subject
	}
	if req.Body != "" {
		email.Body = req.Body
	}
	if req.ReceivedAt != nil {
		email.ReceivedAt = req.ReceivedAt.UTC()
	}
	if strings.TrimSpace(email.From) == "" {
		api.SendValidationError(c, "Validation failed", "sender is required")
		return matching.Email{}, false
	}
	return email, true
}

// MatchEmail matches an email against tracked applications and acts on it
// @Summary Process an email
// @Description Rank candidates, then auto update, store a suggestion or ignore
// @Tags emails
// @Accept json
// @Produce json
// @Param email body EmailRequest true "Email"
// @Success 200 {object} api.APIResponse{data=service.MatchOutcome}
// @Failure 400 {object} api.APIResponse{error=api.APIError}
// @Failure 500 {object} api.APIResponse{error=api.APIError}
// @Router /emails/match [post]
func (h *EmailHandler) MatchEmail(c *gin.Context) {
	email, ok := h.bindEmail(c)
	if !ok {
		return
	}

	outcome, err := h.matcher.ProcessEmail(c.Request.Context(), email)
	if err != nil {
		sendServiceError(c, err, "Application", "process email")
		return
	}

	api.SendSuccess(c, http.StatusOK, outcome, nil)
}

// PreviewEmail ranks and decides without writing anything
// @Summary Preview an email match
// @Tags emails
// @Accept json
// @Produce json
// @Param email body EmailRequest true "Email"
// @Success 200 {object} api.APIResponse{data=service.MatchOutcome}
// @Failure 400 {object} api.APIResponse{error=api.APIError}
// @Router /emails/preview [post]
func (h *EmailHandler) PreviewEmail(c *gin.Context) {
	email, ok := h.bindEmail(c)
	if !ok {
		return
	}

	outcome, err := h.matcher.Preview(c.Request.Context(), email)
	if err != nil {
		sendServiceError(c, err, "Application", "preview email")
		return
	}

	api.SendSuccess(c, http.StatusOK, outcome, nil)
}

// AnalyzeEmail asks the agent to classify an email
// @Summary Analyze an email with the agent
// @Tags emails
// @Accept json
// @Produce json
// @Param email body EmailRequest true "Email"
// @Success 200 {object} api.APIResponse{data=agent.EmailAnalysis}
// @Failure 400 {object} api.APIResponse{error=api.APIError}
// @Failure 503 {object} api.APIResponse{error=api.APIError}
// @Router /emails/analyze [post]
func (h *EmailHandler) AnalyzeEmail(c *gin.Context) {
	email, ok := h.bindEmail(c)
	if !ok {
		return
	}

	analysis, err := h.agents.AnalyzeEmail(c.Request.Context(), email)
	if err != nil {
		sendServiceError(c, err, "Email", "analyze email")
		return
	}

	api.SendSuccess(c, http.StatusOK, analysis, nil)
}

// GetMatchingConfig returns the effective matching configuration
// @Summary Matching configuration
// @Tags matching
// @Produce json
// @Success 200 {object} api.APIResponse{data=MatchingConfigResponse}
// @Router /matching/config [get]
func (h *EmailHandler) GetMatchingConfig(c *gin.Context) {
	cfg := h.matcher.Config()
	api.SendSuccess(c, http.StatusOK, MatchingConfigResponse{
		Config:            cfg,
		StatusProgression: cfg.StatusProgression(),
		TerminalStatuses:  cfg.TerminalStatuses(),
	}, nil)
}

// MatchingConfigResponse is the effective weights plus the status model
type MatchingConfigResponse struct {
	matching.Config
	StatusProgression []string `json:"status_progression"`
	TerminalStatuses  []string `json:"terminal_statuses"`
} // @name MatchingConfigResponse
