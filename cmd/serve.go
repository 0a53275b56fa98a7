package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/api/handlers"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/api/middleware"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/api/services"
	docs "github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/docs"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/appconfig"
	awsclient "github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/aws"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/backend"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/cache"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/events"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/genai"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/scoring"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	httpSwagger "github.com/swaggo/http-swagger"
)

const shutdownGrace = 15 * time.Second

// Keys read from the AWS secret named by aws.secretName.
const (
	secretBackendAPIKey = "BACKEND_API_KEY"
	secretGenAIAPIKey   = "GENAI_API_KEY"
)

// @title CRM Services API
// @version v1
// @description This is the API for the CRM: leads, clients, activities, attendance, reports, tickets and the marketing hub.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server for handling API requests",
	RunE: func(cmd *cobra.Command, args []string) error {

		if err := loadConfig(); err != nil {
			return err
		}

		// Initialize event publisher
		var notifier events.Notifier = events.NopNotifier{}
		if appCfg.Pulsar.URL != "" {
			publisher, err := events.NewEventPublisher(appCfg.Pulsar.URL, appCfg.Pulsar.Topic)
			if err != nil {
				return fmt.Errorf("failed to initialize event publisher: %w", err)
			}
			notifier = publisher
		} else {
			log.Warn().Msg("pulsar.url not set, change events are not published")
		}

		// Closing the database also closes the publisher
		if err := openDB(notifier); err != nil {
			return err
		}
		defer crmDB.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := loadSecrets(ctx, appCfg); err != nil {
			return err
		}

		health := map[string]handlers.Pinger{"database": crmDB}
		var listCache services.Cache = cache.Nop{}
		if appCfg.Redis.Addr != "" {
			redisCache := cache.NewRedis(appCfg.Redis.Addr, appCfg.Redis.Password, appCfg.Redis.DB, appCfg.Redis.TTL)
			defer redisCache.Close()
			if err := redisCache.Ping(ctx); err != nil {
				log.Warn().Err(err).Str("addr", appCfg.Redis.Addr).Msg("redis not reachable, list queries will miss the cache")
			}
			listCache = redisCache
			health["cache"] = redisCache
		}

		service := &services.Service{
			Config: appCfg,
			DB:     crmDB,
			Cache:  listCache,
			Scorer: &scoring.Scorer{},
		}

		if appCfg.Backend.URL != "" {
			backendClient := backend.NewClient(appCfg.Backend.URL, appCfg.Backend.APIKey, appCfg.Backend.Timeout)
			service.Backend = backendClient
			service.Scorer.Remote = backendClient
		} else {
			log.Warn().Msg("backend.url not set, content generation and calls are disabled and leads are scored locally")
		}

		if appCfg.GenAI.APIKey != "" {
			service.GenAI = genai.NewClient(appCfg.GenAI.URL, appCfg.GenAI.Model, appCfg.GenAI.APIKey,
				appCfg.GenAI.Timeout, appCfg.GenAI.MaxElapsed)
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			Handler:           newRouter(service, appCfg, health),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			log.Info().Msg("Caught signal, shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("server shutdown failed")
			}
		}()

		log.Info().Msg(fmt.Sprintf("Server started at %s:%d", host, port))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not start server: %w", err)
		}
		log.Info().Msg("Server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&host, "host", "0.0.0.0", "host to run the server on")
	serveCmd.Flags().IntVar(&port, "port", 8080, "port to run the server on")
}

// loadSecrets fills API keys missing from the config from AWS Secrets Manager.
func loadSecrets(ctx context.Context, cfg *appconfig.Config) error {
	if cfg.AWS.SecretName == "" {
		return nil
	}

	awsCfg, err := awsclient.LoadAWSConfig(ctx, cfg.AWS.Region)
	if err != nil {
		return err
	}
	keys, err := awsclient.GetSecretKeys(ctx, awsclient.NewSecretsManagerClient(awsCfg), cfg.AWS.SecretName)
	if err != nil {
		return fmt.Errorf("failed to load API keys: %w", err)
	}

	if cfg.Backend.APIKey == "" {
		cfg.Backend.APIKey = keys[secretBackendAPIKey]
	}
	if cfg.GenAI.APIKey == "" {
		cfg.GenAI.APIKey = keys[secretGenAIAPIKey]
	}
	log.Info().Str("secret", cfg.AWS.SecretName).Int("keys", len(keys)).Msg("API keys loaded from Secrets Manager")
	return nil
}

// newRouter registers every route. Only the API subrouter requires a bearer token.
func newRouter(service *services.Service, cfg *appconfig.Config, health map[string]handlers.Pinger) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.WithMetrics)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", handlers.Health(health)).Methods(http.MethodGet)

	// The webhook authenticates with its shared secret, so it is registered ahead of
	// the API subrouter and its JWT middleware.
	r.Handle(path.Join(cfg.BasePath, "/tickets/inbound"),
		middleware.WithLogger(handlers.InboundTicket(service))).Methods(http.MethodPost)

	// Docs
	docs.SwaggerInfo.Host = cfg.Host
	docs.SwaggerInfo.BasePath = cfg.BasePath
	r.PathPrefix(cfg.DocsPath).Handler(httpSwagger.Handler(
		httpSwagger.URL(path.Join(cfg.DocsPath, "/doc.json")),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	)).Methods(http.MethodGet)

	// Register the routes
	api := r.PathPrefix(cfg.BasePath).Subrouter()

	// Apply the middleware to the API routes
	api.Use(middleware.WithLogger)
	api.Use(middleware.NewJWTMiddleware(cfg.Auth.JWTSecret))

	// Profile routes
	api.HandleFunc("/profile", handlers.GetProfile(service)).Methods(http.MethodGet)
	api.HandleFunc("/profile", handlers.UpdateProfile(service)).Methods(http.MethodPut)
	api.HandleFunc("/users", handlers.ListUsers(service)).Methods(http.MethodGet)

	// Client routes
	api.HandleFunc("/clients", handlers.ListClients(service)).Methods(http.MethodGet)
	api.HandleFunc("/clients", handlers.CreateClient(service)).Methods(http.MethodPost)
	api.HandleFunc("/clients/{client-id}", handlers.GetClient(service)).Methods(http.MethodGet)
	api.HandleFunc("/clients/{client-id}", handlers.UpdateClient(service)).Methods(http.MethodPut)
	api.HandleFunc("/clients/{client-id}", handlers.DeleteClient(service)).Methods(http.MethodDelete)

	// Lead routes
	api.HandleFunc("/leads", handlers.ListLeads(service)).Methods(http.MethodGet)
	api.HandleFunc("/leads", handlers.CreateLead(service)).Methods(http.MethodPost)
	api.HandleFunc("/leads/{lead-id}", handlers.GetLead(service)).Methods(http.MethodGet)
	api.HandleFunc("/leads/{lead-id}", handlers.UpdateLead(service)).Methods(http.MethodPut)
	api.HandleFunc("/leads/{lead-id}", handlers.DeleteLead(service)).Methods(http.MethodDelete)
	api.HandleFunc("/leads/{lead-id}/status", handlers.UpdateLeadStatus(service)).Methods(http.MethodPatch)
	api.HandleFunc("/leads/{lead-id}/score", handlers.ScoreLead(service)).Methods(http.MethodPost)
	api.HandleFunc("/leads/{lead-id}/call", handlers.StartCall(service)).Methods(http.MethodPost)

	// Follow-up and meeting routes
	api.HandleFunc("/follow-ups", handlers.ListFollowUps(service)).Methods(http.MethodGet)
	api.HandleFunc("/follow-ups", handlers.CreateFollowUp(service)).Methods(http.MethodPost)
	api.HandleFunc("/follow-ups/{follow-up-id}", handlers.UpdateFollowUp(service)).Methods(http.MethodPut)
	api.HandleFunc("/follow-ups/{follow-up-id}", handlers.DeleteFollowUp(service)).Methods(http.MethodDelete)
	api.HandleFunc("/follow-ups/{follow-up-id}/complete", handlers.CompleteFollowUp(service)).Methods(http.MethodPost)
	api.HandleFunc("/meetings", handlers.ListMeetings(service)).Methods(http.MethodGet)
	api.HandleFunc("/meetings", handlers.CreateMeeting(service)).Methods(http.MethodPost)
	api.HandleFunc("/meetings/{meeting-id}", handlers.UpdateMeeting(service)).Methods(http.MethodPut)
	api.HandleFunc("/meetings/{meeting-id}", handlers.DeleteMeeting(service)).Methods(http.MethodDelete)

	// Attendance and daily report routes
	api.HandleFunc("/attendance", handlers.ListAttendance(service)).Methods(http.MethodGet)
	api.HandleFunc("/attendance/check-in", handlers.CheckIn(service)).Methods(http.MethodPost)
	api.HandleFunc("/attendance/check-out", handlers.CheckOut(service)).Methods(http.MethodPost)
	api.HandleFunc("/daily-reports", handlers.ListReports(service)).Methods(http.MethodGet)
	api.HandleFunc("/daily-reports", handlers.SubmitReport(service)).Methods(http.MethodPost)
	api.HandleFunc("/daily-reports/summary", handlers.SummarizeReports(service)).Methods(http.MethodGet)

	// To-do routes
	api.HandleFunc("/todos", handlers.ListTodos(service)).Methods(http.MethodGet)
	api.HandleFunc("/todos", handlers.CreateTodo(service)).Methods(http.MethodPost)
	api.HandleFunc("/todos/{todo-id}", handlers.UpdateTodo(service)).Methods(http.MethodPut)
	api.HandleFunc("/todos/{todo-id}", handlers.DeleteTodo(service)).Methods(http.MethodDelete)

	// Ticket routes
	api.HandleFunc("/tickets", handlers.ListTickets(service)).Methods(http.MethodGet)
	api.HandleFunc("/tickets", handlers.CreateTicket(service)).Methods(http.MethodPost)
	api.HandleFunc("/tickets/{ticket-id}", handlers.GetTicket(service)).Methods(http.MethodGet)
	api.HandleFunc("/tickets/{ticket-id}", handlers.UpdateTicket(service)).Methods(http.MethodPut)

	// Notification routes
	api.HandleFunc("/notifications", handlers.ListNotifications(service)).Methods(http.MethodGet)
	api.HandleFunc("/notifications/read-all", handlers.MarkAllRead(service)).Methods(http.MethodPost)
	api.HandleFunc("/notifications/{notification-id}/read", handlers.MarkRead(service)).Methods(http.MethodPost)

	// Marketing hub routes
	api.HandleFunc("/hub/content", handlers.ListContent(service)).Methods(http.MethodGet)
	api.HandleFunc("/hub/content", handlers.GenerateContent(service)).Methods(http.MethodPost)
	api.HandleFunc("/hub/assist", handlers.Assist(service)).Methods(http.MethodPost)

	return r
}
