package handlers

import "github.com/gin-gonic/gin"

// Handlers bundles every API handler for route registration.
type Handlers struct {
	Applications *ApplicationHandler
	Emails       *EmailHandler
	Suggestions  *SuggestionHandler
	Agents       *AgentHandler
}

// RegisterRoutes mounts the v1 API on rg.
func (h Handlers) RegisterRoutes(rg *gin.RouterGroup) {
	applications := rg.Group("/applications")
	{
		applications.POST("", h.Applications.CreateApplication)
		applications.GET("", h.Applications.ListApplications)
		applications.GET("/:id", h.Applications.GetApplication)
		applications.PUT("/:id", h.Applications.UpdateApplication)
		applications.DELETE("/:id", h.Applications.DeleteApplication)
		applications.PATCH("/:id/status", h.Applications.UpdateStatus)
		applications.PATCH("/:id/last-contact", h.Applications.RecordContact)
	}

	emails := rg.Group("/emails")
	{
		emails.POST("/match", h.Emails.MatchEmail)
		emails.POST("/preview", h.Emails.PreviewEmail)
		emails.POST("/analyze", h.Emails.AnalyzeEmail)
	}

	suggestions := rg.Group("/suggestions")
	{
		suggestions.GET("", h.Suggestions.ListSuggestions)
		suggestions.POST("/:id/confirm", h.Suggestions.ConfirmSuggestion)
		suggestions.POST("/:id/dismiss", h.Suggestions.DismissSuggestion)
	}

	agents := rg.Group("/agents")
	{
		agents.POST("/follow-up/:id", h.Agents.DraftFollowUp)
		agents.POST("/interview-prep/:id", h.Agents.PrepareInterview)
		agents.POST("/tailor-resume", h.Agents.TailorResume)
	}

	rg.POST("/followups/scan", h.Agents.ScanFollowUps)
	rg.GET("/matching/config", h.Emails.GetMatchingConfig)
}
