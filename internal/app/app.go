package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dedocracia/dedocracia/internal/auth"
	"github.com/dedocracia/dedocracia/internal/config"
	"github.com/dedocracia/dedocracia/internal/device"
	"github.com/dedocracia/dedocracia/internal/handlers"
	"github.com/dedocracia/dedocracia/internal/logger"
	"github.com/dedocracia/dedocracia/internal/models"
	"github.com/dedocracia/dedocracia/internal/repository"
	"github.com/dedocracia/dedocracia/internal/services"
	"github.com/dedocracia/dedocracia/internal/websocket"
)

// demoCandidates are seeded when demo mode is enabled on a fresh store
var demoCandidates = []models.Candidate{
	{Name: "Ada Lovelace", Description: "List 1"},
	{Name: "Grace Hopper", Description: "List 2"},
	{Name: "Alan Turing", Description: "List 3"},
}

// App holds all application dependencies
type App struct {
	log        logger.Logger
	cfg        config.Config
	handlers   *handlers.Handlers
	repo       *repository.Repository
	gateway    *device.Gateway
	candidates *services.CandidateService
	lifecycle  *services.LifecycleService
}

// New creates and initializes a new application instance
func New(log logger.Logger, cfg config.Config, adminAuth *auth.Auth) (*App, error) {
	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	// Initialize services
	resultsService := services.NewResultsService(log, repo)
	lifecycleService := services.NewLifecycleService(log, repo, resultsService)
	candidateService := services.NewCandidateService(log, repo, lifecycleService)
	voterService := services.NewVoterService(log, repo)
	ballotService := services.NewBallotService(log, repo, lifecycleService)

	if cfg.StoreTimeout > 0 {
		resultsService.SetStoreTimeout(cfg.StoreTimeout)
		lifecycleService.SetStoreTimeout(cfg.StoreTimeout)
		candidateService.SetStoreTimeout(cfg.StoreTimeout)
		voterService.SetStoreTimeout(cfg.StoreTimeout)
		ballotService.SetStoreTimeout(cfg.StoreTimeout)
	}

	// Restore the persisted election state before serving traffic
	if err := lifecycleService.Load(context.Background()); err != nil {
		repo.Close()
		return nil, fmt.Errorf("restoring election state: %w", err)
	}

	// Initialize WebSocket hub with DI
	hub := websocket.New(log, lifecycleService)
	hub.Start()
	lifecycleService.SetBroadcaster(hub)
	ballotService.SetBroadcaster(hub)
	voterService.SetBroadcaster(hub)

	// Device channel is optional: without a broker the services keep
	// their no-op notifier
	var gateway *device.Gateway
	if cfg.MQTTBroker != "" {
		gateway = device.New(log, device.Config{
			BrokerURL:   cfg.MQTTBroker,
			TopicPrefix: cfg.MQTTPrefix,
			Username:    cfg.MQTTUsername,
			Password:    cfg.MQTTPassword,
		}, voterService, ballotService, candidateService, lifecycleService)

		voterService.SetNotifier(gateway)
		ballotService.SetNotifier(gateway)
		lifecycleService.SetNotifier(gateway)
	}

	a := &App{
		log:        log,
		cfg:        cfg,
		repo:       repo,
		gateway:    gateway,
		candidates: candidateService,
		lifecycle:  lifecycleService,
		handlers: handlers.New(
			candidateService,
			voterService,
			ballotService,
			lifecycleService,
			resultsService,
			adminAuth,
			hub,
			log,
			handlers.ProvisionInfo{BrokerURL: cfg.MQTTBroker, TopicPrefix: cfg.MQTTPrefix},
		),
	}

	if cfg.SeedDemo {
		if err := a.seedDemo(context.Background()); err != nil {
			log.Warn("Demo seeding failed", "error", err)
		}
	}

	return a, nil
}

// seedDemo loads demo candidates into a fresh setup-phase store
func (a *App) seedDemo(ctx context.Context) error {
	if state := a.lifecycle.State(); state != models.StateSetup {
		a.log.Info("Skipping demo seed, election already underway", "state", state)
		return nil
	}
	existing, err := a.candidates.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		a.log.Info("Skipping demo seed, candidates already present", "count", len(existing))
		return nil
	}

	for _, c := range demoCandidates {
		if _, err := a.candidates.Add(ctx, c.Name, c.Description); err != nil {
			return err
		}
	}
	a.log.Info("Seeded demo candidates", "count", len(demoCandidates))
	return nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close performs graceful shutdown of app resources
func (a *App) Close() {
	if a.gateway != nil {
		a.gateway.Close()
	}
	if a.repo != nil {
		a.repo.Close()
	}
}

// Run connects the device channel and starts the HTTP server
func (a *App) Run(addr string) error {
	if a.gateway != nil {
		if err := a.gateway.Connect(); err != nil {
			return fmt.Errorf("device channel: %w", err)
		}
		a.log.Info("Device channel connected", "broker", a.cfg.MQTTBroker, "prefix", a.cfg.MQTTPrefix)
	}

	a.log.Info("Server starting", "addr", addr)
	return http.ListenAndServe(addr, a.Router())
}
