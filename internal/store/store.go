package store

import "context"

// 后端标识
const (
	BackendMilvus = "milvus"
	BackendMemory = "memory"
)

// Document 已存储的文档
type Document struct {
	ID        int64
	Text      string
	Metadata  string
	Embedding []float32
}

// Match 相似度检索结果
type Match struct {
	Document Document
	Score    float64
}

// Info 存储状态信息
type Info struct {
	Count   int64  `json:"count"`
	Backend string `json:"backend"`
}

// DocumentStore 文档向量存储抽象
// 两种后端返回完全相同的结果形态，调用方无需感知后端类型
type DocumentStore interface {
	Insert(ctx context.Context, text, metadata string, embedding []float32) (int64, error)
	Search(ctx context.Context, queryEmbedding []float32, k int) ([]Match, error)
	Info(ctx context.Context) (Info, error)
}
