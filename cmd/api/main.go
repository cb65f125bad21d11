package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/voxvote/parliament-pipeline/pkg/core/agent"
	"github.com/voxvote/parliament-pipeline/pkg/core/config"
	"github.com/voxvote/parliament-pipeline/pkg/core/mediafetch"
	"github.com/voxvote/parliament-pipeline/pkg/core/observability"
	"github.com/voxvote/parliament-pipeline/pkg/core/pipeline"
	"github.com/voxvote/parliament-pipeline/pkg/core/publish"
	"github.com/voxvote/parliament-pipeline/pkg/core/store"
	"github.com/voxvote/parliament-pipeline/pkg/core/transport"
)

func main() {
	godotenv.Load()

	settings, err := config.Load(os.Getenv("PARLIAMENT_CONFIG"))
	if err != nil {
		fmt.Printf("[FATAL] Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	os.Setenv("DATABASE_URL", settings.DatabaseURL)
	ctx := context.Background()
	if err := store.InitDB(ctx); err != nil {
		fmt.Printf("[FATAL] Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	fetcher := mediafetch.NewFetcher(settings.MediaStorageRoot)
	agentMgr := agent.NewManager(agent.Config{ActiveProvider: settings.ActiveProvider})
	forumClient := publish.NewHTTPForumClient(settings.ForumBaseURL, settings.ForumAPIKey)
	publisher := publish.NewPublisher(forumClient)

	orchestrator := pipeline.NewOrchestrator(fetcher, agentMgr, publisher)
	orchestrator.MaxRetries = settings.MaxRetries
	orchestrator.Metrics = observability.NewStageMetrics()

	bus, err := transport.NewBus()
	if err != nil {
		fmt.Printf("[FATAL] Failed to start message bus: %v\n", err)
		os.Exit(1)
	}
	bus.RegisterOrchestrator(orchestrator)
	transport.SetTrigger(orchestrator, bus)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := bus.Run(runCtx); err != nil {
			fmt.Printf("[FATAL] Message bus stopped: %v\n", err)
			os.Exit(1)
		}
	}()
	<-bus.Running()

	handlers := &Handlers{
		Orchestrator: orchestrator,
		DebateRepo:   orchestrator.DebateRepo,
		Bus:          bus,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Logger)

	r.Get("/health", handlers.HandleHealth)
	r.Handle("/metrics", observability.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(apiKeyAuth(settings.PipelineAPIKey))
		r.Post("/poll", handlers.HandlePoll)
		r.Get("/status", handlers.HandleStatus)
		r.Get("/debates", handlers.HandleDebates)
		r.Post("/retrigger", handlers.HandleRetrigger)
		r.Post("/test-debate", handlers.HandleTestDebate)
		r.Post("/test-hansard", handlers.HandleTestHansard)
	})

	fmt.Printf("API server starting on :%d...\n", settings.HTTPPort)
	fmt.Println("  - GET  /health")
	fmt.Println("  - GET  /metrics")
	fmt.Println("  - POST /api/poll")
	fmt.Println("  - GET  /api/status")
	fmt.Println("  - GET  /api/debates")
	fmt.Println("  - POST /api/retrigger")
	fmt.Println("  - POST /api/test-debate")
	fmt.Println("  - POST /api/test-hansard")

	server := &http.Server{Addr: fmt.Sprintf(":%d", settings.HTTPPort), Handler: r}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		fmt.Println("shutting down...")
		cancel()
		server.Close()
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
