package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	os.Unsetenv("PORT")
	os.Unsetenv("MILVUS_ADDRESS")
	os.Unsetenv("KNOWLEDGE_TOP_K")

	require.NoError(t, LoadConfig())
	cfg := GetAppConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "text-embedding-3-small", cfg.AI.EmbeddingModel)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.GenerationModel)
	assert.Equal(t, 3, cfg.Knowledge.TopK)
	assert.Equal(t, 6000, cfg.Knowledge.MaxContextChars)
	assert.True(t, cfg.Knowledge.SeedFallback)
	assert.Equal(t, "localhost:19530", cfg.Knowledge.VectorStore.Milvus.Address)
	assert.Equal(t, "milvus_chatbot_data", cfg.Knowledge.VectorStore.Milvus.Collection)
	assert.Equal(t, 1536, cfg.Knowledge.VectorStore.Milvus.VectorSize)
	assert.Equal(t, 2000, cfg.Knowledge.VectorStore.Milvus.TextMaxLength)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("MILVUS_ADDRESS", "milvus.internal:19530")
	t.Setenv("KNOWLEDGE_TOP_K", "5")
	t.Setenv("KNOWLEDGE_SEED_FALLBACK", "false")

	require.NoError(t, LoadConfig())
	cfg := GetAppConfig()

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "milvus.internal:19530", cfg.Knowledge.VectorStore.Milvus.Address)
	assert.Equal(t, 5, cfg.Knowledge.TopK)
	assert.False(t, cfg.Knowledge.SeedFallback)
}
