package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreInsertAssignsSequentialIDs(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id1, err := s.Insert(ctx, "first", "", []float32{1, 0})
	require.NoError(t, err)
	id2, err := s.Insert(ctx, "second", "", []float32{0, 1})
	require.NoError(t, err)

	assert.Equal(t, int64(1), id1)
	assert.Equal(t, int64(2), id2)

	info, err := s.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), info.Count)
	assert.Equal(t, BackendMemory, info.Backend)
}

func TestMemoryStoreInsertRejectsEmptyEmbedding(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Insert(context.Background(), "text", "", nil)
	assert.Error(t, err)
}

func TestMemoryStoreDimensionMismatch(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Insert(ctx, "first", "", []float32{1, 0, 0})
	require.NoError(t, err)

	// 维度由首次插入固定
	_, err = s.Insert(ctx, "second", "", []float32{1, 0})
	assert.Error(t, err)
}

func TestMemoryStoreSearchReturnsAtMostK(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := s.Insert(ctx, fmt.Sprintf("doc-%d", i), "", []float32{1, float32(i) / 10})
		require.NoError(t, err)
	}

	matches, err := s.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Len(t, matches, 3)

	// 相似度非递增
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}
}

func TestMemoryStoreSelfSearchReturnsDocumentAsTop(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Insert(ctx, "other", "", []float32{0.2, 0.9})
	require.NoError(t, err)
	embedding := []float32{0.7, 0.1}
	id, err := s.Insert(ctx, "target", "", embedding)
	require.NoError(t, err)

	matches, err := s.Search(ctx, embedding, 2)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, id, matches[0].Document.ID)
	assert.Equal(t, "target", matches[0].Document.Text)
}

func TestMemoryStoreTieBreakByInsertionOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	// 两份相同嵌入的文档，得分相等时按ID升序
	embedding := []float32{0.5, 0.5}
	id1, err := s.Insert(ctx, "first", "", embedding)
	require.NoError(t, err)
	id2, err := s.Insert(ctx, "second", "", embedding)
	require.NoError(t, err)

	matches, err := s.Search(ctx, []float32{1, 1}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, matches[0].Score, matches[1].Score)
	assert.Equal(t, id1, matches[0].Document.ID)
	assert.Equal(t, id2, matches[1].Document.ID)
}

func TestMemoryStoreSimilarityRanking(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	// 模拟"什么是Milvus"查询更接近Milvus文档的嵌入空间
	_, err := s.Insert(ctx, "Milvus is a vector database.", "milvus", []float32{0.9, 0.1, 0})
	require.NoError(t, err)
	_, err = s.Insert(ctx, "Cats are mammals.", "cats", []float32{0, 0.1, 0.9})
	require.NoError(t, err)

	matches, err := s.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "Milvus is a vector database.", matches[0].Document.Text)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestMemoryStoreEmptyStoreSearch(t *testing.T) {
	s := NewMemoryStore()

	matches, err := s.Search(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMemoryStoreZeroNormQuery(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Search(context.Background(), []float32{0, 0}, 3)
	assert.Error(t, err)
}

func TestMemoryStoreConcurrentInserts(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := s.Insert(ctx, fmt.Sprintf("doc-%d", n), "", []float32{1, float32(n)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	info, err := s.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(20), info.Count)
}
