package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/voxvote/parliament-pipeline/pkg/core/agent"
	"github.com/voxvote/parliament-pipeline/pkg/core/config"
	"github.com/voxvote/parliament-pipeline/pkg/core/logging"
	"github.com/voxvote/parliament-pipeline/pkg/core/mediafetch"
	"github.com/voxvote/parliament-pipeline/pkg/core/observability"
	"github.com/voxvote/parliament-pipeline/pkg/core/pipeline"
	"github.com/voxvote/parliament-pipeline/pkg/core/publish"
	"github.com/voxvote/parliament-pipeline/pkg/core/store"
	"github.com/voxvote/parliament-pipeline/pkg/core/transport"
)

// main runs the worker process: it subscribes to every stage queue and
// drives debates through their chain as messages arrive, and on a timer
// polls every tracked legislature for newly detected sittings. The admin
// binary (cmd/api) shares the same orchestrator wiring but serves requests
// instead of a schedule.
func main() {
	godotenv.Load()

	settings, err := config.Load(os.Getenv("PARLIAMENT_CONFIG"))
	if err != nil {
		fmt.Printf("[FATAL] Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	os.Setenv("DATABASE_URL", settings.DatabaseURL)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		fmt.Println("shutting down...")
		cancel()
	}()

	go schedulePolling(ctx, bus, settings.PollInterval())

	fmt.Println("worker started, consuming every stage queue")
	if err := bus.Run(ctx); err != nil {
		fmt.Printf("[FATAL] Message bus stopped: %v\n", err)
		os.Exit(1)
	}
}

// schedulePolling publishes a poll request for every tracked legislature
// once per interval, on top of whatever polls an administrator triggers
// manually through the admin surface.
func schedulePolling(ctx context.Context, bus *transport.Bus, interval time.Duration) {
	<-bus.Running()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, code := range pipeline.TrackedLegislatureCodes {
				if err := bus.PublishPoll(code); err != nil {
					logging.Errorf("worker", "scheduling poll for %s: %v", code, err)
				}
			}
		}
	}
}
