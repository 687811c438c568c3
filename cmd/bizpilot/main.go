// cmd/bizpilot/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"bizpilot-core/internal/chat"
	"bizpilot-core/internal/common/config"
	"bizpilot-core/internal/common/database"
	"bizpilot-core/internal/common/logger"
	"bizpilot-core/internal/daily"
	"bizpilot-core/internal/idea"
	"bizpilot-core/internal/store"
	"bizpilot-core/internal/wizard"
)

func main() {
	demo := flag.Bool("demo", false, "submit a sample idea through the full pipeline")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	zlog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zlog.Sync()
	log := logger.NewZapAdapter(zlog)

	medium := selectMedium(cfg, zlog)

	ideas := store.NewCollection[idea.StoredIdea](medium, store.KeyIdeas, log)
	updates := store.NewCollection[daily.Record](medium, store.KeyDailyUpdates, log)

	pipeline := idea.NewPipeline(cfg.Analysis, ideas, log)
	dailySvc := daily.NewService(cfg.Analysis, updates, log)

	zlog.Info("bizpilot core ready",
		zap.String("environment", cfg.App.Environment),
		zap.String("analysisBase", cfg.Analysis.BaseURL),
		zap.Int("cachedIdeas", len(ideas.LoadAll(context.Background()))),
		zap.Int("cachedUpdates", len(updates.LoadAll(context.Background()))),
	)

	if *demo {
		runDemo(cfg, pipeline, dailySvc, log, zlog)
	}
}

// selectMedium prefers Redis when configured and reachable, otherwise
// falls back to the in-memory medium so the store degrades instead of
// failing.
func selectMedium(cfg *config.Config, zlog *zap.Logger) store.Medium {
	if cfg.Redis.Address == "" {
		zlog.Info("no redis configured, using in-memory persistence")
		return store.NewMemoryMedium()
	}

	client, err := database.NewRedis(cfg.Redis)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if pingErr := client.Ping(ctx); pingErr == nil {
			return store.NewRedisMedium(client.GetClient())
		}
		zlog.Warn("redis unreachable, falling back to in-memory persistence",
			zap.String("address", cfg.Redis.Address))
		_ = client.Close()
	}
	return store.NewMemoryMedium()
}

func runDemo(cfg *config.Config, pipeline *idea.Pipeline, dailySvc *daily.Service, log logger.Logger, zlog *zap.Logger) {
	machine := wizard.NewMachine(pipeline, log)
	form := machine.Form()
	form.Title = "EcoBox"
	form.Description = "Reusable packaging subscription for local commerce"
	form.Category = "sustainability"

	ctx := context.Background()
	for machine.Step() != wizard.StepReview {
		if err := machine.Next(ctx); err != nil {
			break
		}
	}
	if err := machine.Next(ctx); err != nil {
		zlog.Warn("demo submission failed", zap.String("message", err.Error()))
		return
	}
	zlog.Info("demo idea stored", zap.String("id", machine.CreatedID()))

	rec := dailySvc.Create(ctx, daily.UpdateInput{
		Date: time.Now().UTC().Format("2006-01-02"),
		MarketingOutreach: daily.MarketingOutreach{
			Posted:  "Yes",
			Channel: "Instagram",
		},
	})
	if result, err := dailySvc.Analyze(ctx, rec); err != nil {
		zlog.Warn("demo daily analysis skipped", zap.String("message", err.Error()))
	} else {
		zlog.Info("demo daily update analyzed",
			zap.String("id", rec.ID),
			zap.Int("momentumScore", result.MomentumScore))
	}

	session := chat.NewSession(chat.Config{
		SeedPrompt:       "Tell me about my new idea " + machine.CreatedID(),
		SeedDelay:        cfg.Chat.SeedDelayDuration(),
		SimulatedLatency: cfg.Chat.SimulatedLatencyDuration(),
	}, chat.NewCannedResponder(), log)
	session.Start()
	session.Wait()
	for _, msg := range session.Messages() {
		zlog.Info("chat transcript", zap.String("sender", string(msg.Sender)), zap.String("content", msg.Content))
	}
	session.Close()
}
