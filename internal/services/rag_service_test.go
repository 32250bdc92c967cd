package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/milvuschat/backend-go/internal/config"
	apperrors "github.com/milvuschat/backend-go/internal/errors"
	"github.com/milvuschat/backend-go/internal/store"
)

// MockEmbedder 模拟嵌入服务
type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockEmbedder) Dimensions() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockEmbedder) Ready() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockGenerator 模拟文本生成服务
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockGenerator) Ready() bool {
	args := m.Called()
	return args.Bool(0)
}

func testConfig() *config.Config {
	return &config.Config{
		Knowledge: config.KnowledgeConfig{
			TopK:            3,
			MaxContextChars: 6000,
		},
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	embedder := new(MockEmbedder)
	generator := new(MockGenerator)
	svc := NewRAGService(embedder, generator, store.NewMemoryStore(), testConfig(), nil)

	_, err := svc.Chat(context.Background(), "   ")
	require.Error(t, err)

	appErr := apperrors.GetAppError(err)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, appErr.Code)
	embedder.AssertNotCalled(t, "Embed", mock.Anything, mock.Anything)
}

func TestChatWithEmptyStoreReturnsContextFreeReply(t *testing.T) {
	embedder := new(MockEmbedder)
	embedder.On("Embed", mock.Anything, "hello").Return([]float32{1, 0}, nil)
	generator := new(MockGenerator)
	generator.On("Generate", mock.Anything, mock.Anything).Return("hi there", nil)

	svc := NewRAGService(embedder, generator, store.NewMemoryStore(), testConfig(), nil)

	result, err := svc.Chat(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", result.Reply)
	assert.Empty(t, result.ContextUsed)
	assert.Equal(t, store.BackendMemory, result.SearchMethod)
}

func TestChatUsesRetrievedContext(t *testing.T) {
	docStore := store.NewMemoryStore()
	_, err := docStore.Insert(context.Background(), "Milvus is a vector database.", "milvus", []float32{0.9, 0.1})
	require.NoError(t, err)

	embedder := new(MockEmbedder)
	embedder.On("Embed", mock.Anything, "What is Milvus?").Return([]float32{1, 0}, nil)
	generator := new(MockGenerator)
	generator.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Milvus is a vector database.")
	})).Return("Milvus is a vector database.", nil)

	svc := NewRAGService(embedder, generator, docStore, testConfig(), nil)

	result, err := svc.Chat(context.Background(), "What is Milvus?")
	require.NoError(t, err)
	require.Len(t, result.ContextUsed, 1)
	assert.Equal(t, "Milvus is a vector database.", result.ContextUsed[0])
}

func TestChatSurfacesEmbeddingProviderError(t *testing.T) {
	embedder := new(MockEmbedder)
	embedder.On("Embed", mock.Anything, mock.Anything).Return(nil, errors.New("provider down"))
	generator := new(MockGenerator)

	svc := NewRAGService(embedder, generator, store.NewMemoryStore(), testConfig(), nil)

	_, err := svc.Chat(context.Background(), "hello")
	require.Error(t, err)

	appErr := apperrors.GetAppError(err)
	assert.Equal(t, apperrors.ErrCodeEmbeddingProvider, appErr.Code)
	generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestChatSurfacesGenerationProviderError(t *testing.T) {
	embedder := new(MockEmbedder)
	embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{1, 0}, nil)
	generator := new(MockGenerator)
	generator.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))

	svc := NewRAGService(embedder, generator, store.NewMemoryStore(), testConfig(), nil)

	_, err := svc.Chat(context.Background(), "hello")
	require.Error(t, err)

	// 生成失败与检索失败使用不同错误码，客户端可区分
	appErr := apperrors.GetAppError(err)
	assert.Equal(t, apperrors.ErrCodeGenerationProvider, appErr.Code)
}

func TestIngestIncreasesCountByOne(t *testing.T) {
	docStore := store.NewMemoryStore()
	embedder := new(MockEmbedder)
	embedder.On("Embed", mock.Anything, "X").Return([]float32{0.5, 0.5}, nil)

	svc := NewRAGService(embedder, new(MockGenerator), docStore, testConfig(), nil)

	before, err := svc.Info(context.Background())
	require.NoError(t, err)

	id, err := svc.Ingest(context.Background(), "X", "m")
	require.NoError(t, err)
	assert.Positive(t, id)

	after, err := svc.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before.Count+1, after.Count)
}

func TestIngestRejectsEmptyText(t *testing.T) {
	embedder := new(MockEmbedder)
	svc := NewRAGService(embedder, new(MockGenerator), store.NewMemoryStore(), testConfig(), nil)

	_, err := svc.Ingest(context.Background(), "", "m")
	require.Error(t, err)

	appErr := apperrors.GetAppError(err)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, appErr.Code)
}

func TestAddSampleDataInsertsAllDocuments(t *testing.T) {
	docStore := store.NewMemoryStore()
	embedder := new(MockEmbedder)
	embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.5, 0.5}, nil)

	svc := NewRAGService(embedder, new(MockGenerator), docStore, testConfig(), nil)

	inserted, err := svc.AddSampleData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(store.SampleDocuments), inserted)

	info, err := svc.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(len(store.SampleDocuments)), info.Count)
}

func TestRetrieveReportsBackend(t *testing.T) {
	embedder := new(MockEmbedder)
	embedder.On("Embed", mock.Anything, "query").Return([]float32{1, 0}, nil)

	svc := NewRAGService(embedder, new(MockGenerator), store.NewMemoryStore(), testConfig(), nil)

	result, err := svc.Retrieve(context.Background(), "query")
	require.NoError(t, err)
	assert.Equal(t, store.BackendMemory, result.Method)
	assert.Empty(t, result.Snippets)
}

// statsFailingStore 模拟统计接口偶发失败的主存储后端
type statsFailingStore struct{}

func (s *statsFailingStore) Insert(ctx context.Context, text, metadata string, embedding []float32) (int64, error) {
	return 1, nil
}

func (s *statsFailingStore) Search(ctx context.Context, queryEmbedding []float32, k int) ([]store.Match, error) {
	return []store.Match{}, nil
}

func (s *statsFailingStore) Info(ctx context.Context) (store.Info, error) {
	return store.Info{}, errors.New("stats unavailable")
}

func TestRetrieveBackendSurvivesInfoFailure(t *testing.T) {
	embedder := new(MockEmbedder)
	embedder.On("Embed", mock.Anything, "query").Return([]float32{1, 0}, nil)

	// 后端在构造时固定，统计接口失败不影响searchMethod
	svc := NewRAGService(embedder, new(MockGenerator), &statsFailingStore{}, testConfig(), nil)

	result, err := svc.Retrieve(context.Background(), "query")
	require.NoError(t, err)
	assert.Equal(t, store.BackendMilvus, result.Method)
}

func TestChatContextUsedExcludesBudgetDroppedSnippets(t *testing.T) {
	docStore := store.NewMemoryStore()
	ctx := context.Background()

	first := "Milvus is a vector database."
	second := "It supports cosine similarity and scalar filtering."
	_, err := docStore.Insert(ctx, first, "", []float32{1, 0})
	require.NoError(t, err)
	_, err = docStore.Insert(ctx, second, "", []float32{0.9, 0.1})
	require.NoError(t, err)

	embedder := new(MockEmbedder)
	embedder.On("Embed", mock.Anything, "q").Return([]float32{1, 0}, nil)
	generator := new(MockGenerator)
	generator.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, first) && !strings.Contains(prompt, second)
	})).Return("reply", nil)

	// 预算只容得下第一条片段
	cfg := testConfig()
	cfg.Knowledge.MaxContextChars = len(first) + 5

	svc := NewRAGService(embedder, generator, docStore, cfg, nil)

	result, err := svc.Chat(ctx, "q")
	require.NoError(t, err)
	assert.Equal(t, []string{first}, result.ContextUsed)
}

func TestCheckProviderNotConfigured(t *testing.T) {
	generator := new(MockGenerator)
	generator.On("Ready").Return(false)

	svc := NewRAGService(new(MockEmbedder), generator, store.NewMemoryStore(), testConfig(), nil)

	_, err := svc.CheckProvider(context.Background())
	require.Error(t, err)

	appErr := apperrors.GetAppError(err)
	assert.Equal(t, apperrors.ErrCodeGenerationProvider, appErr.Code)
	generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestCheckProviderReturnsReply(t *testing.T) {
	generator := new(MockGenerator)
	generator.On("Ready").Return(true)
	generator.On("Generate", mock.Anything, "Say hello").Return("Hello!", nil)

	svc := NewRAGService(new(MockEmbedder), generator, store.NewMemoryStore(), testConfig(), nil)

	reply, err := svc.CheckProvider(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello!", reply)
}
