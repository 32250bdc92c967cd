package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryStore 进程内退化向量存储
// Milvus启动探测失败后使用，进程重启即清空
type MemoryStore struct {
	mu         sync.RWMutex
	documents  []Document
	nextID     int64
	vectorSize int
}

// NewMemoryStore 创建内存向量存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) Insert(ctx context.Context, text, metadata string, embedding []float32) (int64, error) {
	if len(embedding) == 0 {
		return 0, fmt.Errorf("embedding is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 维度由首次插入固定，不一致属于配置错误
	if s.vectorSize == 0 {
		s.vectorSize = len(embedding)
	} else if len(embedding) != s.vectorSize {
		return 0, fmt.Errorf("embedding dimension %d does not match store dimension %d", len(embedding), s.vectorSize)
	}

	stored := make([]float32, len(embedding))
	copy(stored, embedding)

	id := s.nextID
	s.nextID++
	s.documents = append(s.documents, Document{
		ID:        id,
		Text:      text,
		Metadata:  metadata,
		Embedding: stored,
	})
	return id, nil
}

func (s *MemoryStore) Search(ctx context.Context, queryEmbedding []float32, k int) ([]Match, error) {
	if len(queryEmbedding) == 0 {
		return nil, fmt.Errorf("query embedding is empty")
	}
	if k <= 0 {
		k = 3
	}

	queryNorm := vectorNorm(queryEmbedding)
	if queryNorm == 0 {
		return nil, fmt.Errorf("query embedding norm is zero")
	}

	s.mu.RLock()
	snapshot := s.documents
	s.mu.RUnlock()

	matches := make([]Match, 0, len(snapshot))
	for _, doc := range snapshot {
		score := cosineSimilarity(queryEmbedding, doc.Embedding, queryNorm)
		matches = append(matches, Match{Document: doc, Score: score})
	}

	sortMatchesByScore(matches)
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func (s *MemoryStore) Info(ctx context.Context) (Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Info{Count: int64(len(s.documents)), Backend: BackendMemory}, nil
}

// sortMatchesByScore 按相似度降序排序，同分时按插入顺序（ID升序）
func sortMatchesByScore(matches []Match) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score == matches[j].Score {
			return matches[i].Document.ID < matches[j].Document.ID
		}
		return matches[i].Score > matches[j].Score
	})
}

func vectorNorm(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

func cosineSimilarity(a, b []float32, normA float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot float64
	var normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (normA * math.Sqrt(normB))
}
