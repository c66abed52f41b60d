// Command tracker-api serves the job application tracker: application CRUD,
// email-to-application matching, match suggestions, LLM helpers and a
// websocket event stream.
package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"job-tracker/internal/agent"
	"job-tracker/internal/api"
	"job-tracker/internal/api/handlers"
	"job-tracker/internal/config"
	"job-tracker/internal/db"
	"job-tracker/internal/health"
	"job-tracker/internal/logger"
	"job-tracker/internal/notify"
	"job-tracker/internal/repository"
	"job-tracker/internal/scheduler"
	"job-tracker/internal/service"
	"job-tracker/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.Logger)

	logger.Info().
		Str("environment", cfg.Logger.Environment).
		Str("log_level", cfg.Logger.Level).
		Str("matching_preset", cfg.Matching.Preset).
		Msg("configuration loaded successfully")

	matchCfg, err := cfg.MatchingConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid matching configuration")
	}

	logger.Info().Msg("running database migrations")
	if err := db.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx := context.Background()
	database, err := db.NewDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	logger.Info().Msg("database connected successfully")

	// Notifications fan out to websocket clients and, optionally, Slack.
	hub := ws.NewHub(originChecker(cfg.CORS))
	defer hub.Close()
	notifiers := notify.Multi{hub}
	if cfg.Features.EnableSlackNotify {
		notifiers = append(notifiers, notify.NewSlack(cfg.External.SlackWebhookURL,
			notify.EventStatusUpdated, notify.EventSuggestionCreated, notify.EventFollowUpDue))
		logger.Info().Msg("slack notifications enabled")
	}

	appRepo := repository.NewApplicationRepository(database.Queries)
	suggestionRepo := repository.NewSuggestionRepository(database.Queries)

	var agents service.Agents
	if cfg.Features.EnableAgents {
		agents = service.NewAgents(agent.NewAnthropicCompleter(cfg.External.AnthropicAPIKey, cfg.External.AnthropicModel))
		logger.Info().Str("model", cfg.External.AnthropicModel).Msg("agents enabled")
	}

	var drafter service.Drafter
	if cfg.Scheduler.DraftFollowUps && agents.Drafter != nil {
		drafter = agents.Drafter
	}

	applicationService := service.NewApplicationService(appRepo, matchCfg, notifiers)
	matchService := service.NewEmailMatchService(appRepo, suggestionRepo, matchCfg, notifiers)
	followUpService := service.NewFollowUpService(appRepo, matchCfg, cfg.Scheduler.FollowUpAfterDays, drafter, notifiers)
	agentService := service.NewAgentService(appRepo, agents)

	if cfg.Features.EnableFollowUpScan {
		cronScheduler := scheduler.NewScheduler()
		err := cronScheduler.Add(scheduler.Job{
			Name:    "followup-scan",
			Spec:    cfg.Scheduler.FollowUpCron,
			Timeout: 10 * time.Minute,
			Run: func(ctx context.Context) error {
				_, err := followUpService.ScanStale(ctx)
				return err
			},
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to schedule follow-up scan")
		}
		cronScheduler.Start()
		defer cronScheduler.Stop()
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(api.RequestIDMiddleware())
	router.Use(api.LoggingMiddleware())
	router.Use(api.CORSMiddleware(cfg.CORS))
	router.Use(api.ErrorHandlerMiddleware())

	healthChecker := health.NewHealthChecker(database, cfg.Database.HealthTimeout, hub.ClientCount)
	router.GET("/health", healthChecker.Handler)
	router.GET("/ws", gin.WrapH(hub))

	handlers.Handlers{
		Applications: handlers.NewApplicationHandler(applicationService),
		Emails:       handlers.NewEmailHandler(matchService, agentService),
		Suggestions:  handlers.NewSuggestionHandler(matchService),
		Agents:       handlers.NewAgentHandler(agentService, followUpService),
	}.RegisterRoutes(router.Group("/api/v1"))

	addr := cfg.GetBindAddress()
	// Use a listener so we can discover the selected port when PORT=0
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatal().Err(err).Str("addr", addr).Msg("failed to bind listener")
	}

	tcpAddr, ok := ln.Addr().(*net.TCPAddr)
	if !ok {
		_ = ln.Close()
		logger.Fatal().Msg("failed to determine TCP address")
	}
	selectedPort := tcpAddr.Port

	srv := &http.Server{
		Addr:              ln.Addr().String(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().
			Int("port", selectedPort).
			Str("addr", cfg.Server.Host).
			Msg("starting server")
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")

	fmt.Printf("PORT=%d\n", selectedPort) //nolint:forbidigo // supervisor reads the port from stdout
}

// originChecker restricts websocket upgrades to the configured frontend.
func originChecker(cfg config.CORSConfig) func(*http.Request) bool {
	if cfg.AllowAll || cfg.FrontendURL == "" {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || origin == cfg.FrontendURL
	}
}
