package store

// SampleDocument 演示语料条目
type SampleDocument struct {
	Text     string
	Metadata string
}

// SampleDocuments /add-sample-data接口写入的演示语料
var SampleDocuments = []SampleDocument{
	{
		Text:     "Milvus is an open-source vector database designed for AI applications. It provides high-performance similarity search and supports various vector operations.",
		Metadata: "milvus_intro",
	},
	{
		Text:     "Vector databases store data as high-dimensional vectors and enable fast similarity search using algorithms like cosine similarity, Euclidean distance, and dot product.",
		Metadata: "vector_db_concept",
	},
	{
		Text:     "OpenAI provides embedding models like text-embedding-3-small that convert text into 1536-dimensional vectors for semantic search applications.",
		Metadata: "openai_embeddings",
	},
	{
		Text:     "FastAPI is a modern Python web framework for building APIs with automatic documentation, type hints, and high performance.",
		Metadata: "fastapi_info",
	},
	{
		Text:     "React is a JavaScript library for building user interfaces, particularly for single-page applications with component-based architecture.",
		Metadata: "react_info",
	},
}

// FallbackSeedDocuments 降级到内存存储时预载的Milvus文档语料
var FallbackSeedDocuments = []SampleDocument{
	{
		Text:     "Milvus is an open-source vector database designed for AI applications. It provides high-performance similarity search and supports various vector operations. Milvus is built for scalability and can handle billions of vectors with sub-second search latency.",
		Metadata: "milvus_overview",
	},
	{
		Text:     "Vector databases like Milvus store data as high-dimensional vectors and enable fast similarity search using algorithms like cosine similarity, Euclidean distance, and dot product. This makes them perfect for AI applications that need to find similar content based on meaning rather than exact matches.",
		Metadata: "vector_database_concept",
	},
	{
		Text:     "Milvus supports multiple index types including IVF_FLAT, IVF_SQ8, IVF_PQ, HNSW, and ANNOY. IVF_FLAT provides the best accuracy but uses more memory, while HNSW offers fast search with good accuracy. Each index type has different trade-offs between search speed, memory usage, and accuracy.",
		Metadata: "milvus_index_types",
	},
	{
		Text:     "Milvus collections are similar to tables in traditional databases. Each collection has a schema that defines the fields and their data types. The primary field is typically an auto-incrementing ID, and vector fields store the actual vector data.",
		Metadata: "milvus_collections",
	},
	{
		Text:     "Milvus supports various distance metrics for similarity search including L2 (Euclidean distance), IP (Inner Product), and COSINE similarity. COSINE similarity is often preferred for text embeddings as it measures the angle between vectors regardless of their magnitude.",
		Metadata: "milvus_distance_metrics",
	},
	{
		Text:     "Milvus provides Python, Java, Go, and Node.js SDKs for easy integration. The SDK handles connection management, retries, and error handling automatically.",
		Metadata: "milvus_sdks",
	},
	{
		Text:     "Milvus integrates well with popular AI frameworks and tools. It works with OpenAI embeddings, Hugging Face models, and other embedding services. Milvus is commonly used in RAG (Retrieval-Augmented Generation) applications, recommendation systems, and semantic search engines.",
		Metadata: "milvus_integrations",
	},
	{
		Text:     "Milvus supports hybrid search combining vector similarity with scalar filtering. You can filter results based on metadata fields while still using vector similarity for ranking.",
		Metadata: "milvus_hybrid_search",
	},
}
