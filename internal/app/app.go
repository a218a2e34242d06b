// Package app wires configuration into the pipeline, the meeting service and
// their optional infrastructure. Both binaries start from here.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-insights/internal/adapter/repository"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/external/assemblyai"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-insights/internal/usecase/ai"
	"github.com/johnquangdev/meeting-insights/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-insights/pkg/config"
)

// Component states reported on /health
const (
	StatusEnabled  = "enabled"
	StatusDisabled = "disabled"
	StatusMemory   = "memory"
)

// App holds the wired components
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Registry   *prometheus.Registry
	Pipeline   *ai.Pipeline
	Service    *meeting.MeetingService
	DB         *gorm.DB
	Components map[string]string

	closers []func() error
}

// Options select which infrastructure New connects to
type Options struct {
	// Infrastructure connects to the database, Redis and MinIO when they are enabled in config
	Infrastructure bool
	// Clusters overrides PIPELINE_CLUSTERS_FILE
	Clusters []ai.KeywordCluster
	// PipelineOptions are appended after the config-derived ones
	PipelineOptions []ai.Option
}

// PipelineConfig maps PIPELINE_* settings onto the pipeline tuning
func PipelineConfig(cfg *config.Config) ai.Config {
	pc := ai.DefaultConfig()
	p := cfg.Pipeline
	pc.ChunkThreshold = p.ChunkThreshold
	pc.StageTimeout = p.StageTimeout
	pc.MinDecisions = p.MinDecisions
	pc.MinQuestions = p.MinQuestions
	pc.Merge = ai.MergeConfig{
		DecisionPrefixLen:   p.DecisionPrefixLen,
		QuestionPrefixLen:   p.QuestionPrefixLen,
		ActionItemPrefixLen: p.ActionItemPrefixLen,
	}
	pc.TaskPrefixLen = p.TaskPrefixLen
	pc.ChunkConcurrency = p.ChunkConcurrency
	return pc
}

// Clusters returns the keyword clusters from PIPELINE_CLUSTERS_FILE, or the defaults
func Clusters(cfg *config.Config) ([]ai.KeywordCluster, error) {
	if cfg.Pipeline.ClustersFile == "" {
		return ai.DefaultKeywordClusters(), nil
	}
	clusters, err := ai.LoadKeywordClusters(cfg.Pipeline.ClustersFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load keyword clusters: %w", err)
	}
	return clusters, nil
}

// New builds the application. Optional infrastructure that fails to connect is
// reported and skipped, except the database, which fails startup when enabled.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	a := &App{
		Config:     cfg,
		Logger:     logger,
		Registry:   prometheus.NewRegistry(),
		Components: map[string]string{},
	}
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	clusters := opts.Clusters
	if clusters == nil {
		var err error
		if clusters, err = Clusters(cfg); err != nil {
			return nil, err
		}
	}

	pipelineOpts := []ai.Option{
		ai.WithConfig(PipelineConfig(cfg)),
		ai.WithLogger(logger),
		ai.WithMetrics(ai.NewMetrics(a.Registry)),
		ai.WithClusters(clusters),
	}
	a.Pipeline = ai.NewPipeline(append(pipelineOpts, opts.PipelineOptions...)...)

	serviceOpts := []meeting.Option{meeting.WithLogger(logger)}

	if opts.Infrastructure {
		infraOpts, err := a.connect(ctx)
		if err != nil {
			a.Close()
			return nil, err
		}
		serviceOpts = append(serviceOpts, infraOpts...)
	} else {
		store := cache.NewMemoryStore(cfg.Cache.CleanupInterval)
		a.closers = append(a.closers, store.Close)
		serviceOpts = append(serviceOpts, meeting.WithCache(store, cfg.Cache.TTL))
		a.Components["cache"] = StatusMemory
	}

	if importer, err := assemblyai.NewImporter(&cfg.AssemblyAI, logger); err == nil {
		serviceOpts = append(serviceOpts, meeting.WithImporter(importer))
		a.Components["assemblyai"] = StatusEnabled
	} else {
		a.Components["assemblyai"] = StatusDisabled
	}

	a.Service = meeting.NewMeetingService(a.Pipeline, cfg, serviceOpts...)
	return a, nil
}

func (a *App) connect(ctx context.Context) ([]meeting.Option, error) {
	cfg := a.Config
	var opts []meeting.Option

	if cfg.Database.Enabled {
		log.Println("📦 Connecting to database...")
		db, err := database.NewPostgresDB(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.DB = db
		a.closers = append(a.closers, func() error { return database.CloseDB(db) })
		opts = append(opts, meeting.WithRepository(repository.NewProcessingRunRepository(db)))
		a.Components["database"] = StatusEnabled
	} else {
		a.Components["database"] = StatusDisabled
	}

	var store cache.Store
	if cfg.Redis.Enabled {
		log.Println("📦 Connecting to Redis...")
		redisStore, err := cache.NewRedisStore(ctx, cache.RedisOptions{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, a.Logger)
		if err != nil {
			log.Printf("⚠️  Redis unavailable, caching results in memory: %v", err)
		} else {
			store = redisStore
			a.Components["cache"] = "redis"
		}
	}
	if store == nil {
		store = cache.NewMemoryStore(cfg.Cache.CleanupInterval)
		a.Components["cache"] = StatusMemory
	}
	a.closers = append(a.closers, store.Close)
	opts = append(opts, meeting.WithCache(store, cfg.Cache.TTL))

	if cfg.Storage.Enabled {
		log.Println("🗄️  Connecting to object storage...")
		archive, err := storage.NewResultArchive(ctx, &cfg.Storage, a.Logger)
		if err != nil {
			log.Printf("⚠️  Object storage unavailable, results will not be archived: %v", err)
			a.Components["storage"] = StatusDisabled
		} else {
			opts = append(opts, meeting.WithArchive(archive))
			a.Components["storage"] = StatusEnabled
		}
	} else {
		a.Components["storage"] = StatusDisabled
	}

	return opts, nil
}

// Close releases connections in reverse order of creation
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && a.Logger != nil {
			a.Logger.Warn("⚠️ Failed to close component", zap.Error(err))
		}
	}
	a.closers = nil
}
