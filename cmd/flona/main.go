package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/aslinsheeba/flona-ai/internal/ai"
	"github.com/aslinsheeba/flona-ai/internal/config"
	"github.com/aslinsheeba/flona-ai/internal/db"
	"github.com/aslinsheeba/flona-ai/internal/describe"
	"github.com/aslinsheeba/flona-ai/internal/embedcache"
	"github.com/aslinsheeba/flona-ai/internal/filestore"
	"github.com/aslinsheeba/flona-ai/internal/handler"
	"github.com/aslinsheeba/flona-ai/internal/job"
	"github.com/aslinsheeba/flona-ai/internal/middleware"
	"github.com/aslinsheeba/flona-ai/internal/repo"
	"github.com/aslinsheeba/flona-ai/internal/schedule"
	"github.com/aslinsheeba/flona-ai/internal/service"
	"github.com/aslinsheeba/flona-ai/internal/transcribe"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "flona",
		Short: "flona edit planning server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run flona server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
			return runServer(cfg)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("file_store", cfg.FileStore.Type),
	)

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	generator, embedder, err := buildAICollaborators(cfg.AI)
	if err != nil {
		return err
	}

	var cacheRepo *repo.EmbeddingCacheRepo
	if cfg.Database != nil {
		conn, err := db.Open(*cfg.Database)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		if err := db.ApplyMigrations(conn); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		cacheRepo = repo.NewEmbeddingCacheRepo(conn)
	}

	if cacheRepo != nil {
		embedder = embedcache.WrapDBCacheToEmbedder(embedder, cacheRepo)
	}
	embedder = embedcache.WrapLruCacheToEmbedder(
		embedder,
		cfg.EmbedCache.LruSize,
		time.Duration(cfg.EmbedCache.LruTTLMinutes)*time.Minute,
	)

	manager := ai.NewManager(generator, generator, embedder, ai.ManagerConfig{
		Timeout:       cfg.AI.Timeout,
		MaxInputChars: cfg.AI.MaxInputChars,
	})

	transcriber := transcribe.New(cfg.Transcribe)
	describer := describe.New(manager)
	planService := service.NewPlanService(manager, store, transcriber, describer, cfg.Plan)

	deps := handler.RouterDeps{
		Plan:            handler.NewPlanHandler(planService),
		Process:         handler.NewProcessHandler(planService, store, cfg.Upload),
		RateLimitWindow: time.Duration(cfg.RateLimitSeconds) * time.Second,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.CORSAllowlist),
			middleware.RequestID(),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewScheduler()
	if err := scheduler.AddJob(
		job.NewUploadCleanupJob(store, time.Duration(cfg.Upload.MaxAgeHours)*time.Hour),
		cfg.Upload.CleanupCron,
	); err != nil {
		return err
	}
	if cacheRepo != nil {
		if err := scheduler.AddJob(
			job.NewEmbeddingCacheCleanupJob(cacheRepo, time.Duration(cfg.EmbedCache.RetentionDays)*24*time.Hour),
			"30 3 * * *",
		); err != nil {
			return err
		}
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}

// buildAICollaborators assembles the generator and embedder, chaining
// configured fallback providers behind the primary.
func buildAICollaborators(cfg config.AIConfig) (ai.IGenerator, ai.IEmbedder, error) {
	providerArgs := cfg.Data
	if providerArgs == nil {
		providerArgs = cfg
	}
	primary, err := ai.NewProvider(cfg.Provider, providerArgs)
	if err != nil {
		return nil, nil, fmt.Errorf("init ai provider: %w", err)
	}
	if len(cfg.Fallbacks) == 0 {
		return ai.NewGenerator(primary, cfg.Model), ai.NewEmbedder(primary, cfg.EmbedModel), nil
	}

	generators := []ai.GeneratorEntry{{Name: cfg.Provider, Generator: ai.NewGenerator(primary, cfg.Model)}}
	embedders := []ai.EmbedderEntry{{Name: cfg.Provider, Embedder: ai.NewEmbedder(primary, cfg.EmbedModel)}}
	for i, fb := range cfg.Fallbacks {
		provider, err := ai.NewProvider(fb.Provider, fb.Data)
		if err != nil {
			return nil, nil, fmt.Errorf("init ai fallback %d: %w", i, err)
		}
		generators = append(generators, ai.GeneratorEntry{Name: fb.Provider, Generator: ai.NewGenerator(provider, fb.Model)})
		embedders = append(embedders, ai.EmbedderEntry{Name: fb.Provider, Embedder: ai.NewEmbedder(provider, fb.EmbedModel)})
	}
	return ai.NewGroupGenerator(generators), ai.NewGroupEmbedder(embedders), nil
}
