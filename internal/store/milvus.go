package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/milvuschat/backend-go/internal/config"
	"github.com/milvuschat/backend-go/internal/logger"
)

type milvusStore struct {
	milvusClient client.Client
	collection   string
	vectorSize   int
	textMaxLen   int
	metaMaxLen   int
}

// NewMilvusStore 创建Milvus向量存储并完成集合初始化
// 连接、建表、索引或加载任一步骤失败都返回错误，由调用方决定降级
func NewMilvusStore(ctx context.Context, cfg config.MilvusConfig) (DocumentStore, error) {
	if cfg.Address == "" {
		cfg.Address = "localhost:19530"
	}
	if cfg.Collection == "" {
		cfg.Collection = "milvus_chatbot_data"
	}
	if cfg.VectorSize == 0 {
		cfg.VectorSize = 1536
	}
	if cfg.TextMaxLength == 0 {
		cfg.TextMaxLength = 2000
	}
	if cfg.MetaMaxLength == 0 {
		cfg.MetaMaxLength = 1000
	}

	timeout := time.Duration(cfg.ConnectTimeout) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	milvusClient, err := client.NewClient(connectCtx, client.Config{
		Address:       cfg.Address,
		DBName:        cfg.Database,
		Username:      cfg.Username,
		Password:      cfg.Password,
		EnableTLSAuth: cfg.TLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create milvus client: %w", err)
	}

	s := &milvusStore{
		milvusClient: milvusClient,
		collection:   cfg.Collection,
		vectorSize:   cfg.VectorSize,
		textMaxLen:   cfg.TextMaxLength,
		metaMaxLen:   cfg.MetaMaxLength,
	}

	if err := s.ensureCollection(connectCtx); err != nil {
		milvusClient.Close()
		return nil, err
	}

	return s, nil
}

func (s *milvusStore) ensureCollection(ctx context.Context) error {
	hasCollection, err := s.milvusClient.HasCollection(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if !hasCollection {
		schema := &entity.Schema{
			CollectionName: s.collection,
			Description:    "Vector storage for the RAG chatbot",
			Fields: []*entity.Field{
				{
					Name:       "id",
					DataType:   entity.FieldTypeInt64,
					PrimaryKey: true,
					AutoID:     true,
				},
				{
					Name:     "embedding",
					DataType: entity.FieldTypeFloatVector,
					TypeParams: map[string]string{
						"dim": fmt.Sprintf("%d", s.vectorSize),
					},
				},
				{
					Name:     "text",
					DataType: entity.FieldTypeVarChar,
					TypeParams: map[string]string{
						"max_length": fmt.Sprintf("%d", s.textMaxLen),
					},
				},
				{
					Name:     "metadata",
					DataType: entity.FieldTypeVarChar,
					TypeParams: map[string]string{
						"max_length": fmt.Sprintf("%d", s.metaMaxLen),
					},
				},
			},
		}

		if err := s.milvusClient.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}

		index, err := entity.NewIndexIvfFlat(entity.COSINE, 128)
		if err != nil {
			return fmt.Errorf("failed to build index definition: %w", err)
		}
		if err := s.milvusClient.CreateIndex(ctx, s.collection, "embedding", index, false); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	if err := s.milvusClient.LoadCollection(ctx, s.collection, false); err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}

	return nil
}

func (s *milvusStore) Insert(ctx context.Context, text, metadata string, embedding []float32) (int64, error) {
	if len(embedding) != s.vectorSize {
		return 0, fmt.Errorf("embedding dimension %d does not match collection dimension %d", len(embedding), s.vectorSize)
	}

	vectorColumn := entity.NewColumnFloatVector("embedding", s.vectorSize, [][]float32{embedding})
	textColumn := entity.NewColumnVarChar("text", []string{text})
	metadataColumn := entity.NewColumnVarChar("metadata", []string{metadata})

	idColumn, err := s.milvusClient.Insert(ctx, s.collection, "", vectorColumn, textColumn, metadataColumn)
	if err != nil {
		return 0, fmt.Errorf("milvus insert failed: %w", err)
	}

	if err := s.milvusClient.Flush(ctx, s.collection, false); err != nil {
		logger.Warn("failed to flush milvus collection after insert")
	}

	ids, ok := idColumn.(*entity.ColumnInt64)
	if !ok || len(ids.Data()) == 0 {
		return 0, fmt.Errorf("milvus insert returned no id")
	}
	return ids.Data()[0], nil
}

func (s *milvusStore) Search(ctx context.Context, queryEmbedding []float32, k int) ([]Match, error) {
	if len(queryEmbedding) == 0 {
		return nil, fmt.Errorf("query embedding is empty")
	}
	if k <= 0 {
		k = 3
	}

	sp, err := entity.NewIndexIvfFlatSearchParam(10)
	if err != nil {
		return nil, fmt.Errorf("failed to build search params: %w", err)
	}

	searchResults, err := s.milvusClient.Search(
		ctx,
		s.collection,
		[]string{},
		"",
		[]string{"text", "metadata"},
		[]entity.Vector{entity.FloatVector(queryEmbedding)},
		"embedding",
		entity.COSINE,
		k,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("milvus search failed: %w", err)
	}

	if len(searchResults) == 0 {
		return []Match{}, nil
	}
	result := searchResults[0]
	if result.Err != nil {
		return nil, fmt.Errorf("milvus search error: %w", result.Err)
	}
	if result.ResultCount == 0 {
		return []Match{}, nil
	}

	var ids []int64
	if idCol, ok := result.IDs.(*entity.ColumnInt64); ok {
		ids = idCol.Data()
	}

	var texts, metadatas []string
	for _, field := range result.Fields {
		switch field.Name() {
		case "text":
			if col, ok := field.(*entity.ColumnVarChar); ok {
				texts = col.Data()
			}
		case "metadata":
			if col, ok := field.(*entity.ColumnVarChar); ok {
				metadatas = col.Data()
			}
		}
	}

	matches := make([]Match, 0, result.ResultCount)
	for i := 0; i < result.ResultCount; i++ {
		doc := Document{}
		if i < len(ids) {
			doc.ID = ids[i]
		}
		if i < len(texts) {
			doc.Text = texts[i]
		}
		if i < len(metadatas) {
			doc.Metadata = metadatas[i]
		}

		score := float64(0)
		if i < len(result.Scores) {
			score = float64(result.Scores[i])
		}
		matches = append(matches, Match{Document: doc, Score: score})
	}

	return matches, nil
}

func (s *milvusStore) Info(ctx context.Context) (Info, error) {
	stats, err := s.milvusClient.GetCollectionStatistics(ctx, s.collection)
	if err != nil {
		return Info{}, fmt.Errorf("failed to get collection statistics: %w", err)
	}

	var count int64
	if raw, ok := stats["row_count"]; ok {
		count, _ = strconv.ParseInt(raw, 10, 64)
	}

	return Info{Count: count, Backend: BackendMilvus}, nil
}
