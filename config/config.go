package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the assistant service.
type Config struct {
	Server     ServerConfig     `json:"server" yaml:"server"`
	LLM        LLMConfig        `json:"llm" yaml:"llm"`
	Embedding  EmbeddingConfig  `json:"embedding" yaml:"embedding"`
	VectorDB   VectorDBConfig   `json:"vectordb" yaml:"vectordb"`
	Splitter   SplitterConfig   `json:"splitter" yaml:"splitter"`
	Session    SessionConfig    `json:"session" yaml:"session"`
	Knowledge  KnowledgeConfig  `json:"knowledge" yaml:"knowledge"`
	Report     ReportConfig     `json:"report" yaml:"report"`
	HTTPClient HTTPClientConfig `json:"http_client" yaml:"http_client"`
	Log        LogConfig        `json:"log" yaml:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr                string   `json:"addr" yaml:"addr"`
	ReadTimeoutSeconds  int      `json:"read_timeout_seconds,omitempty" yaml:"read_timeout_seconds,omitempty"`
	WriteTimeoutSeconds int      `json:"write_timeout_seconds,omitempty" yaml:"write_timeout_seconds,omitempty"`
	CORSAllowOrigins    []string `json:"cors_allow_origins,omitempty" yaml:"cors_allow_origins,omitempty"`
}

// LLMConfig defines the upstream completion model.
type LLMConfig struct {
	Provider    string  `json:"provider" yaml:"provider"` // Available options: openai, groq, offline
	APIKey      string  `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL     string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model       string  `json:"model" yaml:"model"`
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
}

// EmbeddingConfig defines the embedding model.
type EmbeddingConfig struct {
	Provider   string `json:"provider" yaml:"provider"` // Available options: openai, offline
	APIKey     string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL    string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model      string `json:"model,omitempty" yaml:"model,omitempty"`
	Dimensions int    `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	CacheSize  int    `json:"cache_size,omitempty" yaml:"cache_size,omitempty"`
}

// VectorDBConfig defines the vector store backend.
type VectorDBConfig struct {
	Provider   string `json:"provider" yaml:"provider"` // Available options: memory, milvus
	Address    string `json:"address,omitempty" yaml:"address,omitempty"`
	Database   string `json:"database,omitempty" yaml:"database,omitempty"`
	Collection string `json:"collection,omitempty" yaml:"collection,omitempty"`
	Username   string `json:"username,omitempty" yaml:"username,omitempty"`
	Password   string `json:"password,omitempty" yaml:"password,omitempty"`
	Metric     string `json:"metric,omitempty" yaml:"metric,omitempty"` // cosine (default) or l2
}

// SplitterConfig defines document splitting for knowledge ingestion.
type SplitterConfig struct {
	Provider     string `json:"provider" yaml:"provider"` // Available options: recursive, character, token
	ChunkSize    int    `json:"chunk_size,omitempty" yaml:"chunk_size,omitempty"`
	ChunkOverlap int    `json:"chunk_overlap,omitempty" yaml:"chunk_overlap,omitempty"`
}

// SessionConfig selects the conversation store backend.
type SessionConfig struct {
	Backend       string `json:"backend" yaml:"backend"` // Available options: memory, redis
	RedisAddr     string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
	RedisPassword string `json:"redis_password,omitempty" yaml:"redis_password,omitempty"`
	RedisDB       int    `json:"redis_db,omitempty" yaml:"redis_db,omitempty"`
	TTLSeconds    int    `json:"ttl_seconds,omitempty" yaml:"ttl_seconds,omitempty"`
	Prefix        string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

// KnowledgeConfig controls retrieval over the reference corpus.
type KnowledgeConfig struct {
	TopK   int  `json:"top_k,omitempty" yaml:"top_k,omitempty"`
	Hybrid bool `json:"hybrid,omitempty" yaml:"hybrid,omitempty"`
	// SkipSeed leaves the store empty at startup instead of indexing
	// the builtin reference passages.
	SkipSeed bool `json:"skip_seed,omitempty" yaml:"skip_seed,omitempty"`
}

// ReportConfig controls the report-analysis pipeline.
type ReportConfig struct {
	ReviewThreshold float64 `json:"review_threshold,omitempty" yaml:"review_threshold,omitempty"`
}

// HTTPClientConfig controls outbound HTTP behavior.
type HTTPClientConfig struct {
	TimeoutSeconds int      `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
	HostAllowlist  []string `json:"host_allowlist,omitempty" yaml:"host_allowlist,omitempty"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Pretty bool   `json:"pretty,omitempty" yaml:"pretty,omitempty"`
}

const (
	defaultGroqBaseURL  = "https://api.groq.com/openai/v1"
	defaultGroqModel    = "llama-3.3-70b-versatile"
	defaultOpenAIModel  = "gpt-3.5-turbo"
	defaultEmbedModel   = "text-embedding-3-small"
	defaultEmbedDims    = 1536
	offlineEmbedDims    = 256
	defaultChunkSize    = 500
	defaultChunkOverlap = 50
)

// Load reads the YAML file at path (optional), applies environment
// overrides and defaults, and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables onto the config. Explicit
// LLM_PROVIDER wins; otherwise the provider is inferred from which API
// key is present, and LLM_OFFLINE forces the offline provider.
func (c *Config) ApplyEnv() {
	groqKey := os.Getenv("GROQ_API_KEY")
	openaiKey := os.Getenv("OPENAI_API_KEY")

	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = strings.ToLower(strings.TrimSpace(v))
	} else if c.LLM.Provider == "" {
		switch {
		case groqKey != "" && openaiKey == "":
			c.LLM.Provider = ProviderGroq
		case openaiKey != "":
			c.LLM.Provider = ProviderOpenAI
		default:
			c.LLM.Provider = ProviderOffline
		}
	}
	if offlineEnv(os.Getenv("LLM_OFFLINE")) {
		c.LLM.Provider = ProviderOffline
	}

	switch c.LLM.Provider {
	case ProviderGroq:
		if groqKey != "" {
			c.LLM.APIKey = groqKey
		}
		if v := os.Getenv("GROQ_BASE_URL"); v != "" {
			c.LLM.BaseURL = v
		}
	case ProviderOpenAI:
		if openaiKey != "" {
			c.LLM.APIKey = openaiKey
		}
		if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
			c.LLM.BaseURL = v
		}
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}

	if openaiKey != "" && c.Embedding.APIKey == "" {
		c.Embedding.APIKey = openaiKey
	}
	if v := os.Getenv("MEDASSIST_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Session.RedisAddr = v
		if c.Session.Backend == "" {
			c.Session.Backend = SessionRedis
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_PRETTY"); v != "" {
		c.Log.Pretty = offlineEnv(v)
	}
}

// ApplyDefaults fills every unset field with its default.
func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeoutSeconds <= 0 {
		c.Server.ReadTimeoutSeconds = 30
	}
	if c.Server.WriteTimeoutSeconds <= 0 {
		c.Server.WriteTimeoutSeconds = 120
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderOffline
	}
	if c.LLM.Provider == ProviderGroq && c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultGroqBaseURL
	}
	if c.LLM.Model == "" {
		switch c.LLM.Provider {
		case ProviderGroq:
			c.LLM.Model = defaultGroqModel
		case ProviderOpenAI:
			c.LLM.Model = defaultOpenAIModel
		default:
			c.LLM.Model = "offline"
		}
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.7
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 800
	}

	if c.Embedding.Provider == "" {
		if c.Embedding.APIKey != "" {
			c.Embedding.Provider = ProviderOpenAI
		} else {
			c.Embedding.Provider = ProviderOffline
		}
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = defaultEmbedModel
	}
	if c.Embedding.Dimensions <= 0 {
		if c.Embedding.Provider == ProviderOffline {
			c.Embedding.Dimensions = offlineEmbedDims
		} else {
			c.Embedding.Dimensions = defaultEmbedDims
		}
	}
	if c.Embedding.CacheSize <= 0 {
		c.Embedding.CacheSize = 512
	}

	if c.VectorDB.Provider == "" {
		c.VectorDB.Provider = VectorMemory
	}
	if c.VectorDB.Metric == "" {
		c.VectorDB.Metric = "cosine"
	}
	if c.VectorDB.Collection == "" {
		c.VectorDB.Collection = "medassist_knowledge"
	}

	if c.Splitter.Provider == "" {
		c.Splitter.Provider = "recursive"
	}
	if c.Splitter.ChunkSize <= 0 {
		c.Splitter.ChunkSize = defaultChunkSize
	}
	if c.Splitter.ChunkOverlap <= 0 {
		c.Splitter.ChunkOverlap = defaultChunkOverlap
	}

	if c.Session.Backend == "" {
		c.Session.Backend = SessionMemory
	}
	if c.Session.Prefix == "" {
		c.Session.Prefix = "medassist:sess:"
	}

	if c.Knowledge.TopK <= 0 {
		c.Knowledge.TopK = 3
	}
	if c.Report.ReviewThreshold <= 0 {
		c.Report.ReviewThreshold = 0.7
	}
	if c.HTTPClient.TimeoutSeconds <= 0 {
		c.HTTPClient.TimeoutSeconds = 60
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// offlineEnv reports whether an environment string is truthy.
func offlineEnv(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

