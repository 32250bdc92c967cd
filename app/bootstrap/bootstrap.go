package bootstrap

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/milvuschat/backend-go/internal/config"
	"github.com/milvuschat/backend-go/internal/di"
	apperrors "github.com/milvuschat/backend-go/internal/errors"
	"github.com/milvuschat/backend-go/internal/knowledge"
	"github.com/milvuschat/backend-go/internal/logger"
	"github.com/milvuschat/backend-go/internal/services"
	"github.com/milvuschat/backend-go/internal/store"
)

// App encapsulates lifecycle resources that need to be cleaned up on shutdown.
type App struct {
	cleanupTasks    []func() error
	ragService      *services.RAGService
	metricsService  *services.MetricsService
	milvusAvailable bool
	storeBackend    string
}

// Global app instance for controllers to access
var globalApp *App

// GetApp returns the global app instance
func GetApp() *App {
	return globalApp
}

// SetGlobalApp sets the global app instance
func SetGlobalApp(app *App) {
	globalApp = app
}

// RAGService returns the shared RAG service instance
func (a *App) RAGService() *services.RAGService {
	return a.ragService
}

// MetricsService returns the shared metrics service instance
func (a *App) MetricsService() *services.MetricsService {
	return a.metricsService
}

// MilvusAvailable reports whether the primary store survived the startup probe
func (a *App) MilvusAvailable() bool {
	return a.milvusAvailable
}

// StoreBackend returns the backend selected at startup
func (a *App) StoreBackend() string {
	return a.storeBackend
}

// Init bootstraps configuration, logger, the document store and the DI
// container required by the Beego application.
func Init() (*App, error) {
	// Load environment variables from .env if present (non-fatal if missing).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize structured logger.
	if err := logger.InitLogger(); err != nil {
		return nil, err
	}

	// Load dynamic configuration.
	if err := config.LoadConfig(); err != nil {
		return nil, err
	}

	app := &App{}
	cfg := config.GetAppConfig()

	// One-shot store backend selection. Any Milvus failure here pins the
	// in-memory backend for the remainder of the process lifetime.
	docStore := selectStore(cfg)
	app.milvusAvailable = false
	app.storeBackend = store.BackendMemory
	if _, ok := docStore.(*store.MemoryStore); !ok {
		app.milvusAvailable = true
		app.storeBackend = store.BackendMilvus
	}

	container := di.InitContainer()
	if err := di.RegisterProviders(container, docStore); err != nil {
		return nil, err
	}

	if err := container.Invoke(func(rag *services.RAGService, metrics *services.MetricsService, embedder knowledge.Embedder) {
		app.ragService = rag
		app.metricsService = metrics

		// 嵌入模型维度与集合维度不一致属于配置错误，尽早暴露
		if dims := embedder.Dimensions(); dims > 0 && dims != cfg.Knowledge.VectorStore.Milvus.VectorSize {
			logger.Warn("Embedding model dimension does not match collection dimension",
				zap.Int("model_dimension", dims),
				zap.Int("collection_dimension", cfg.Knowledge.VectorStore.Milvus.VectorSize))
		}
	}); err != nil {
		return nil, err
	}

	app.metricsService.SetBackend(app.storeBackend)

	// Seed the fallback store with the demonstration corpus, mirroring the
	// behavior of the primary deployment's preloaded documentation.
	if !app.milvusAvailable && cfg.Knowledge.SeedFallback {
		seedFallback(app.ragService, cfg)
	}

	app.cleanupTasks = append(app.cleanupTasks, func() error {
		logger.Sync()
		return nil
	})

	SetGlobalApp(app)
	return app, nil
}

// selectStore probes Milvus once and falls back to the in-memory store on any
// failure. No periodic retry, no mid-session failback.
func selectStore(cfg *config.Config) store.DocumentStore {
	milvusStore, err := store.NewMilvusStore(context.Background(), cfg.Knowledge.VectorStore.Milvus)
	if err != nil {
		logger.Warn("Milvus unavailable, using in-memory storage for the process lifetime",
			zap.String("address", cfg.Knowledge.VectorStore.Milvus.Address),
			zap.Error(apperrors.NewStoreUnavailableError(err)))
		return store.NewMemoryStore()
	}

	logger.Info("Connected to Milvus",
		zap.String("address", cfg.Knowledge.VectorStore.Milvus.Address),
		zap.String("collection", cfg.Knowledge.VectorStore.Milvus.Collection))
	return milvusStore
}

// seedFallback embeds and inserts the seed corpus. Best effort: a provider
// failure here should not prevent the service from starting.
func seedFallback(rag *services.RAGService, cfg *config.Config) {
	if cfg.AI.OpenAIAPIKey == "" {
		logger.Warn("Embedding provider not configured, skipping fallback seed corpus")
		return
	}

	seeded := 0
	for _, doc := range store.FallbackSeedDocuments {
		if _, err := rag.Ingest(context.Background(), doc.Text, doc.Metadata); err != nil {
			logger.Warn("Failed to seed fallback document", zap.String("metadata", doc.Metadata), zap.Error(err))
			continue
		}
		seeded++
	}
	logger.Info("Seeded fallback store with demonstration corpus", zap.Int("documents", seeded))
}

// Shutdown flushes logs and closes resources gracefully.
func (a *App) Shutdown() {
	// Execute cleanup tasks in reverse order (best effort).
	for i := len(a.cleanupTasks) - 1; i >= 0; i-- {
		if err := a.cleanupTasks[i](); err != nil {
			log.Printf("Cleanup error: %v\n", err)
		}
	}
}
