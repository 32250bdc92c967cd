package services

import (
	"context"
	goerrors "errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/milvuschat/backend-go/internal/config"
	apperrors "github.com/milvuschat/backend-go/internal/errors"
	"github.com/milvuschat/backend-go/internal/knowledge"
	"github.com/milvuschat/backend-go/internal/logger"
	"github.com/milvuschat/backend-go/internal/store"
)

// RetrieveResult 检索结果
type RetrieveResult struct {
	Snippets []string
	Method   string
}

// ChatResult 聊天结果
type ChatResult struct {
	Reply        string
	ContextUsed  []string
	SearchMethod string
}

// RAGService 检索增强生成服务
// 编排 嵌入 -> 向量检索 -> 提示词组装 -> 文本生成 的完整链路
type RAGService struct {
	embedder  knowledge.Embedder
	generator knowledge.Generator
	docStore  store.DocumentStore
	backend   string
	cfg       config.KnowledgeConfig
	aiCfg     config.AIConfig
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewRAGService 创建RAG服务
// 存储后端在进程生命周期内固定，构造时确定一次，不在请求路径上重查
func NewRAGService(embedder knowledge.Embedder, generator knowledge.Generator, docStore store.DocumentStore, cfg *config.Config, metrics *MetricsService) *RAGService {
	backend := store.BackendMilvus
	if _, ok := docStore.(*store.MemoryStore); ok {
		backend = store.BackendMemory
	}

	return &RAGService{
		embedder:  embedder,
		generator: generator,
		docStore:  docStore,
		backend:   backend,
		cfg:       cfg.Knowledge,
		aiCfg:     cfg.AI,
		metrics:   metrics,
		logger:    logger.GetLogger(),
	}
}

// Retrieve 为查询文本检索最相似的上下文片段
// 空库返回空片段列表而不是错误；嵌入调用失败则整个请求失败
func (s *RAGService) Retrieve(ctx context.Context, queryText string) (*RetrieveResult, error) {
	if strings.TrimSpace(queryText) == "" {
		return nil, apperrors.NewInvalidInputError("message", "must not be empty")
	}

	embedding, err := s.embedQuery(ctx, queryText)
	if err != nil {
		return nil, err
	}

	topK := s.cfg.TopK
	if topK <= 0 {
		topK = 3
	}

	started := time.Now()
	matches, err := s.docStore.Search(ctx, embedding, topK)
	if err != nil {
		return nil, apperrors.NewSystemError(apperrors.ErrCodeInternalServer, "Vector search failed").WithCause(err)
	}

	if s.metrics != nil {
		s.metrics.ObserveSearch(s.backend, time.Since(started))
	}

	snippets := make([]string, 0, len(matches))
	for _, match := range matches {
		if match.Document.Text != "" {
			snippets = append(snippets, match.Document.Text)
		}
	}

	s.logger.Debug("Retrieved context snippets",
		zap.Int("count", len(snippets)),
		zap.String("method", s.backend))

	return &RetrieveResult{Snippets: snippets, Method: s.backend}, nil
}

// Chat 执行完整的RAG问答流程
func (s *RAGService) Chat(ctx context.Context, message string) (*ChatResult, error) {
	retrieved, err := s.Retrieve(ctx, message)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncChat("retrieval_error")
		}
		return nil, err
	}

	// 响应里只回显真正进入提示词的片段，被预算丢弃的不算
	prompt, kept := knowledge.BuildPrompt(message, retrieved.Snippets, s.cfg.MaxContextChars)

	genCtx := ctx
	if s.aiCfg.ChatTimeoutSec > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, time.Duration(s.aiCfg.ChatTimeoutSec)*time.Second)
		defer cancel()
	}

	reply, err := s.generator.Generate(genCtx, prompt)
	if err != nil {
		s.logger.Error("Generation provider call failed", zap.Error(err))
		if s.metrics != nil {
			s.metrics.IncChat("generation_error")
		}
		return nil, apperrors.NewGenerationProviderError(err)
	}

	if s.metrics != nil {
		s.metrics.IncChat("ok")
	}
	s.logger.Info("Chat request completed",
		zap.Int("context_snippets", len(kept)),
		zap.String("search_method", retrieved.Method))

	return &ChatResult{
		Reply:        reply,
		ContextUsed:  kept,
		SearchMethod: retrieved.Method,
	}, nil
}

// CheckProvider 测试文本生成服务的连通性
// 发送一条固定消息并返回模型回复，供 /test-openai 诊断接口使用
func (s *RAGService) CheckProvider(ctx context.Context) (string, error) {
	if !s.generator.Ready() {
		return "", apperrors.NewGenerationProviderError(goerrors.New("generation provider not configured"))
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	reply, err := s.generator.Generate(checkCtx, "Say hello")
	if err != nil {
		s.logger.Error("Provider connectivity check failed", zap.Error(err))
		return "", apperrors.NewGenerationProviderError(err)
	}
	return reply, nil
}

// Ingest 摄入一条文本：生成嵌入并写入文档存储
func (s *RAGService) Ingest(ctx context.Context, text, metadata string) (int64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, apperrors.NewInvalidInputError("text", "must not be empty")
	}

	embedding, err := s.embedQuery(ctx, text)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncIngest("embedding_error")
		}
		return 0, err
	}

	id, err := s.docStore.Insert(ctx, text, metadata, embedding)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncIngest("store_error")
		}
		return 0, apperrors.NewSystemError(apperrors.ErrCodeInternalServer, "Failed to store document").WithCause(err)
	}

	if s.metrics != nil {
		s.metrics.IncIngest("ok")
	}
	s.logger.Info("Document ingested", zap.Int64("document_id", id))
	return id, nil
}

// AddSampleData 批量写入演示语料
func (s *RAGService) AddSampleData(ctx context.Context) (int, error) {
	inserted := 0
	for _, doc := range store.SampleDocuments {
		if _, err := s.Ingest(ctx, doc.Text, doc.Metadata); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

// Info 返回文档存储状态
func (s *RAGService) Info(ctx context.Context) (store.Info, error) {
	return s.docStore.Info(ctx)
}

func (s *RAGService) embedQuery(ctx context.Context, text string) ([]float32, error) {
	embedCtx := ctx
	if s.aiCfg.EmbedTimeoutSec > 0 {
		var cancel context.CancelFunc
		embedCtx, cancel = context.WithTimeout(ctx, time.Duration(s.aiCfg.EmbedTimeoutSec)*time.Second)
		defer cancel()
	}

	embedding, err := s.embedder.Embed(embedCtx, text)
	if err != nil {
		s.logger.Error("Embedding provider call failed", zap.Error(err))
		return nil, apperrors.NewEmbeddingProviderError(err)
	}
	return embedding, nil
}
