package di

import (
	"fmt"

	"go.uber.org/dig"

	"github.com/milvuschat/backend-go/internal/config"
	"github.com/milvuschat/backend-go/internal/knowledge"
	"github.com/milvuschat/backend-go/internal/services"
	"github.com/milvuschat/backend-go/internal/store"
)

// RegisterProviders 注册所有依赖提供者
// 文档存储由bootstrap完成一次性后端选择后注入，容器内不再做降级决策
func RegisterProviders(container *dig.Container, docStore store.DocumentStore) error {
	if err := container.Provide(func() (*config.Config, error) {
		cfg := config.GetAppConfig()
		if cfg == nil {
			return nil, fmt.Errorf("config not loaded")
		}
		return cfg, nil
	}); err != nil {
		return err
	}

	if err := container.Provide(func(cfg *config.Config) knowledge.Embedder {
		return knowledge.NewOpenAIEmbedder(cfg.AI)
	}); err != nil {
		return err
	}

	if err := container.Provide(func(cfg *config.Config) knowledge.Generator {
		return knowledge.NewOpenAIGenerator(cfg.AI)
	}); err != nil {
		return err
	}

	if err := container.Provide(services.NewMetricsService); err != nil {
		return err
	}

	if err := container.Provide(func() store.DocumentStore {
		return docStore
	}); err != nil {
		return err
	}

	if err := container.Provide(services.NewRAGService); err != nil {
		return err
	}

	return nil
}
