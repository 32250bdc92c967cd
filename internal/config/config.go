package config

import (
	"os"
	"strconv"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	AI        AIConfig
	Knowledge KnowledgeConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type AIConfig struct {
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	EmbeddingModel   string
	GenerationModel  string
	EmbedTimeoutSec  int
	ChatTimeoutSec   int
}

type KnowledgeConfig struct {
	TopK            int
	MaxContextChars int
	SeedFallback    bool
	VectorStore     VectorStoreConfig
}

type VectorStoreConfig struct {
	Milvus MilvusConfig
}

type MilvusConfig struct {
	Address        string
	Username       string
	Password       string
	Collection     string
	Database       string
	TLS            bool
	VectorSize     int
	TextMaxLength  int
	MetaMaxLength  int
	ConnectTimeout int // 秒
}

var AppConfig *Config

func LoadConfig() error {
	// 重置viper全局状态，重复加载时以当前环境为准
	viper.Reset()

	// 设置默认值
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("server.env", "development")

	// AI配置默认值
	viper.SetDefault("ai.openai_base_url", "")
	viper.SetDefault("ai.embedding_model", "text-embedding-3-small")
	viper.SetDefault("ai.generation_model", "gpt-4o-mini")
	viper.SetDefault("ai.embed_timeout_sec", 15)
	viper.SetDefault("ai.chat_timeout_sec", 30)

	// 知识库配置默认值
	viper.SetDefault("knowledge.top_k", 3)
	viper.SetDefault("knowledge.max_context_chars", 6000)
	viper.SetDefault("knowledge.seed_fallback", true)
	viper.SetDefault("knowledge.vector_store.milvus.address", "localhost:19530")
	viper.SetDefault("knowledge.vector_store.milvus.collection", "milvus_chatbot_data")
	viper.SetDefault("knowledge.vector_store.milvus.database", "default")
	viper.SetDefault("knowledge.vector_store.milvus.tls", false)
	viper.SetDefault("knowledge.vector_store.milvus.vector_size", 1536)
	viper.SetDefault("knowledge.vector_store.milvus.text_max_length", 2000)
	viper.SetDefault("knowledge.vector_store.milvus.meta_max_length", 1000)
	viper.SetDefault("knowledge.vector_store.milvus.connect_timeout", 10)

	// 读取环境变量
	viper.SetEnvPrefix("MILVUSCHAT")
	viper.AutomaticEnv()

	// 从环境变量读取
	if port := os.Getenv("PORT"); port != "" {
		viper.Set("server.port", port)
	}
	if env := os.Getenv("ENV"); env != "" {
		viper.Set("server.env", env)
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		viper.Set("ai.openai_api_key", apiKey)
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		viper.Set("ai.openai_base_url", baseURL)
	}
	if model := os.Getenv("OPENAI_EMBEDDING_MODEL"); model != "" {
		viper.Set("ai.embedding_model", model)
	}
	if model := os.Getenv("OPENAI_GENERATION_MODEL"); model != "" {
		viper.Set("ai.generation_model", model)
	}
	if address := os.Getenv("MILVUS_ADDRESS"); address != "" {
		viper.Set("knowledge.vector_store.milvus.address", address)
	}
	if username := os.Getenv("MILVUS_USERNAME"); username != "" {
		viper.Set("knowledge.vector_store.milvus.username", username)
	}
	if password := os.Getenv("MILVUS_PASSWORD"); password != "" {
		viper.Set("knowledge.vector_store.milvus.password", password)
	}
	if collection := os.Getenv("MILVUS_COLLECTION"); collection != "" {
		viper.Set("knowledge.vector_store.milvus.collection", collection)
	}
	if topK := os.Getenv("KNOWLEDGE_TOP_K"); topK != "" {
		if k, err := strconv.Atoi(topK); err == nil && k > 0 {
			viper.Set("knowledge.top_k", k)
		}
	}
	if seed := os.Getenv("KNOWLEDGE_SEED_FALLBACK"); seed == "false" {
		viper.Set("knowledge.seed_fallback", false)
	}

	AppConfig = &Config{
		Server: ServerConfig{
			Port: viper.GetString("server.port"),
			Env:  viper.GetString("server.env"),
		},
		AI: AIConfig{
			OpenAIAPIKey:    viper.GetString("ai.openai_api_key"),
			OpenAIBaseURL:   viper.GetString("ai.openai_base_url"),
			EmbeddingModel:  viper.GetString("ai.embedding_model"),
			GenerationModel: viper.GetString("ai.generation_model"),
			EmbedTimeoutSec: viper.GetInt("ai.embed_timeout_sec"),
			ChatTimeoutSec:  viper.GetInt("ai.chat_timeout_sec"),
		},
		Knowledge: KnowledgeConfig{
			TopK:            viper.GetInt("knowledge.top_k"),
			MaxContextChars: viper.GetInt("knowledge.max_context_chars"),
			SeedFallback:    viper.GetBool("knowledge.seed_fallback"),
			VectorStore: VectorStoreConfig{
				Milvus: MilvusConfig{
					Address:        viper.GetString("knowledge.vector_store.milvus.address"),
					Username:       viper.GetString("knowledge.vector_store.milvus.username"),
					Password:       viper.GetString("knowledge.vector_store.milvus.password"),
					Collection:     viper.GetString("knowledge.vector_store.milvus.collection"),
					Database:       viper.GetString("knowledge.vector_store.milvus.database"),
					TLS:            viper.GetBool("knowledge.vector_store.milvus.tls"),
					VectorSize:     viper.GetInt("knowledge.vector_store.milvus.vector_size"),
					TextMaxLength:  viper.GetInt("knowledge.vector_store.milvus.text_max_length"),
					MetaMaxLength:  viper.GetInt("knowledge.vector_store.milvus.meta_max_length"),
					ConnectTimeout: viper.GetInt("knowledge.vector_store.milvus.connect_timeout"),
				},
			},
		},
	}

	return nil
}

// GetAppConfig 获取全局配置
func GetAppConfig() *Config {
	return AppConfig
}
