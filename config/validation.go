package config

import (
	"fmt"
	"strings"
)

// Provider names accepted across the config.
const (
	ProviderOpenAI  = "openai"
	ProviderGroq    = "groq"
	ProviderOffline = "offline"

	VectorMemory = "memory"
	VectorMilvus = "milvus"

	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error [%s]: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("found %d configuration error(s):\n", len(errs)))
	for i, err := range errs {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Message))
	}
	return b.String()
}

// Validate validates the complete configuration
func (c *Config) Validate() error {
	var errs ValidationErrors

	errs = append(errs, c.validateLLM()...)
	errs = append(errs, c.validateEmbedding()...)
	errs = append(errs, c.validateVectorDB()...)
	errs = append(errs, c.validateSplitter()...)
	errs = append(errs, c.validateSession()...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (c *Config) validateLLM() ValidationErrors {
	var errs ValidationErrors

	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderGroq:
		if c.LLM.APIKey == "" {
			errs = append(errs, ValidationError{
				Field:   "llm.api_key",
				Message: fmt.Sprintf("api key is required for %s provider", c.LLM.Provider),
			})
		}
	case ProviderOffline:
	default:
		errs = append(errs, ValidationError{
			Field:   "llm.provider",
			Message: fmt.Sprintf("unknown llm provider %q (expected openai, groq or offline)", c.LLM.Provider),
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, ValidationError{
			Field:   "llm.temperature",
			Message: fmt.Sprintf("temperature must be in [0, 2], got %.2f", c.LLM.Temperature),
		})
	}
	if c.LLM.MaxTokens < 0 {
		errs = append(errs, ValidationError{
			Field:   "llm.max_tokens",
			Message: fmt.Sprintf("max_tokens must be non-negative, got %d", c.LLM.MaxTokens),
		})
	}

	return errs
}

func (c *Config) validateEmbedding() ValidationErrors {
	var errs ValidationErrors

	switch c.Embedding.Provider {
	case ProviderOpenAI:
		if c.Embedding.APIKey == "" {
			errs = append(errs, ValidationError{
				Field:   "embedding.api_key",
				Message: "api key is required for openai embedding provider",
			})
		}
	case ProviderOffline:
	default:
		errs = append(errs, ValidationError{
			Field:   "embedding.provider",
			Message: fmt.Sprintf("unknown embedding provider %q (expected openai or offline)", c.Embedding.Provider),
		})
	}

	if c.Embedding.Dimensions <= 0 {
		errs = append(errs, ValidationError{
			Field:   "embedding.dimensions",
			Message: fmt.Sprintf("embedding dimensions must be positive, got %d", c.Embedding.Dimensions),
		})
	}

	return errs
}

func (c *Config) validateVectorDB() ValidationErrors {
	var errs ValidationErrors

	switch strings.ToLower(c.VectorDB.Provider) {
	case VectorMemory:
	case VectorMilvus:
		if c.VectorDB.Address == "" {
			errs = append(errs, ValidationError{
				Field:   "vectordb.address",
				Message: "vectordb address is required for milvus provider",
			})
		}
		if c.VectorDB.Collection == "" {
			errs = append(errs, ValidationError{
				Field:   "vectordb.collection",
				Message: "collection name is required for milvus provider",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "vectordb.provider",
			Message: fmt.Sprintf("unknown vectordb provider %q (expected memory or milvus)", c.VectorDB.Provider),
		})
	}

	switch strings.ToLower(c.VectorDB.Metric) {
	case "", "cosine", "l2":
	default:
		errs = append(errs, ValidationError{
			Field:   "vectordb.metric",
			Message: fmt.Sprintf("unknown metric %q (expected cosine or l2)", c.VectorDB.Metric),
		})
	}

	return errs
}

func (c *Config) validateSplitter() ValidationErrors {
	var errs ValidationErrors

	switch c.Splitter.Provider {
	case "recursive", "character", "token":
	default:
		errs = append(errs, ValidationError{
			Field:   "splitter.provider",
			Message: fmt.Sprintf("unknown splitter %q (expected recursive, character or token)", c.Splitter.Provider),
		})
	}
	if c.Splitter.ChunkOverlap >= c.Splitter.ChunkSize {
		errs = append(errs, ValidationError{
			Field:   "splitter.chunk_overlap",
			Message: fmt.Sprintf("chunk_overlap %d must be smaller than chunk_size %d", c.Splitter.ChunkOverlap, c.Splitter.ChunkSize),
		})
	}

	return errs
}

func (c *Config) validateSession() ValidationErrors {
	var errs ValidationErrors

	switch c.Session.Backend {
	case SessionMemory:
	case SessionRedis:
		if c.Session.RedisAddr == "" {
			errs = append(errs, ValidationError{
				Field:   "session.redis_addr",
				Message: "redis address is required for redis session backend",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "session.backend",
			Message: fmt.Sprintf("unknown session backend %q (expected memory or redis)", c.Session.Backend),
		})
	}

	return errs
}
