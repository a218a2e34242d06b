package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Storage    StorageConfig
	JWT        JWTConfig
	AI         AIConfig
	Pipeline   PipelineConfig
	AssemblyAI AssemblyAIConfig
	Cache      CacheConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
	LogLevel        string   `envconfig:"LOG_LEVEL" default:""`
}

// DatabaseConfig holds database configuration. Persistence of processing runs
// is skipped unless Enabled is set.
type DatabaseConfig struct {
	Enabled  bool   `envconfig:"DB_ENABLED" default:"false"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"meeting_insights"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int    `envconfig:"DB_MIN_CONNS" default:"5"`
}

// RedisConfig holds Redis configuration. Without it results are cached in memory.
type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// StorageConfig holds MinIO configuration for result archives
type StorageConfig struct {
	Enabled         bool   `envconfig:"STORAGE_ENABLED" default:"false"`
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"meeting-insights"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
}

// JWTConfig holds JWT configuration. An empty AccessSecret disables API auth.
type JWTConfig struct {
	AccessSecret string `envconfig:"JWT_ACCESS_SECRET" default:""`
	Issuer       string `envconfig:"JWT_ISSUER" default:"meeting-insights"`
}

// AIConfig holds text-generation provider settings
type AIConfig struct {
	Provider        string `envconfig:"AI_PROVIDER" default:"groq"`
	Model           string `envconfig:"AI_MODEL" default:""`
	Language        string `envconfig:"AI_LANGUAGE" default:""`
	OpenAIAPIKey    string `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIBaseURL   string `envconfig:"OPENAI_BASE_URL" default:""`
	GroqAPIKey      string `envconfig:"GROQ_API_KEY" default:""`
	GroqAPIURL      string `envconfig:"GROQ_API_URL" default:""`
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY" default:""`
	OllamaURL       string `envconfig:"OLLAMA_URL" default:""`
}

// PipelineConfig tunes the extraction pipeline
type PipelineConfig struct {
	ChunkThreshold      int           `envconfig:"PIPELINE_CHUNK_THRESHOLD" default:"12000"`
	StageTimeout        time.Duration `envconfig:"PIPELINE_STAGE_TIMEOUT" default:"5m"`
	MinDecisions        int           `envconfig:"PIPELINE_MIN_DECISIONS" default:"2"`
	MinQuestions        int           `envconfig:"PIPELINE_MIN_QUESTIONS" default:"2"`
	DecisionPrefixLen   int           `envconfig:"PIPELINE_DECISION_PREFIX_LEN" default:"20"`
	QuestionPrefixLen   int           `envconfig:"PIPELINE_QUESTION_PREFIX_LEN" default:"30"`
	ActionItemPrefixLen int           `envconfig:"PIPELINE_ACTION_ITEM_PREFIX_LEN" default:"25"`
	TaskPrefixLen       int           `envconfig:"PIPELINE_TASK_PREFIX_LEN" default:"25"`
	ChunkConcurrency    int           `envconfig:"PIPELINE_CHUNK_CONCURRENCY" default:"1"`
	ClustersFile        string        `envconfig:"PIPELINE_CLUSTERS_FILE" default:""`
}

// AssemblyAIConfig holds AssemblyAI configuration
type AssemblyAIConfig struct {
	APIKey  string `envconfig:"ASSEMBLYAI_API_KEY" default:""`
	BaseURL string `envconfig:"ASSEMBLYAI_BASE_URL" default:""`
}

// CacheConfig holds result cache configuration
type CacheConfig struct {
	TTL             time.Duration `envconfig:"CACHE_TTL" default:"24h"`
	CleanupInterval time.Duration `envconfig:"CACHE_CLEANUP_INTERVAL" default:"10m"`
}

var knownProviders = map[string]bool{
	"openai":    true,
	"groq":      true,
	"anthropic": true,
	"ollama":    true,
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{}
	sections := []struct {
		name string
		spec any
	}{
		{"server", &config.Server},
		{"database", &config.Database},
		{"redis", &config.Redis},
		{"storage", &config.Storage},
		{"jwt", &config.JWT},
		{"ai", &config.AI},
		{"pipeline", &config.Pipeline},
		{"assemblyai", &config.AssemblyAI},
		{"cache", &config.Cache},
	}
	for _, s := range sections {
		if err := envconfig.Process("", s.spec); err != nil {
			return nil, fmt.Errorf("failed to read %s config: %w", s.name, err)
		}
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !knownProviders[strings.ToLower(c.AI.Provider)] {
		return fmt.Errorf("AI_PROVIDER %q is not supported", c.AI.Provider)
	}
	p := c.Pipeline
	if p.ChunkThreshold <= 0 {
		return fmt.Errorf("PIPELINE_CHUNK_THRESHOLD must be positive")
	}
	if p.StageTimeout <= 0 {
		return fmt.Errorf("PIPELINE_STAGE_TIMEOUT must be positive")
	}
	if p.MinDecisions < 0 || p.MinQuestions < 0 {
		return fmt.Errorf("PIPELINE_MIN_DECISIONS and PIPELINE_MIN_QUESTIONS must not be negative")
	}
	for name, n := range map[string]int{
		"PIPELINE_DECISION_PREFIX_LEN":    p.DecisionPrefixLen,
		"PIPELINE_QUESTION_PREFIX_LEN":    p.QuestionPrefixLen,
		"PIPELINE_ACTION_ITEM_PREFIX_LEN": p.ActionItemPrefixLen,
		"PIPELINE_TASK_PREFIX_LEN":        p.TaskPrefixLen,
	} {
		if n < 1 || n > 200 {
			return fmt.Errorf("%s must be between 1 and 200, got %d", name, n)
		}
	}
	if p.ChunkConcurrency < 1 {
		return fmt.Errorf("PIPELINE_CHUNK_CONCURRENCY must be at least 1")
	}
	return nil
}

// APIKeyFor returns the configured key of a provider
func (c *Config) APIKeyFor(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return c.AI.OpenAIAPIKey
	case "groq":
		return c.AI.GroqAPIKey
	case "anthropic":
		return c.AI.AnthropicAPIKey
	default:
		return ""
	}
}

// BaseURLFor returns the configured endpoint override of a provider
func (c *Config) BaseURLFor(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return c.AI.OpenAIBaseURL
	case "groq":
		return c.AI.GroqAPIURL
	case "ollama":
		return c.AI.OllamaURL
	default:
		return ""
	}
}

// HasDefaultProviderKey reports whether the default provider can run without a
// key supplied per request
func (c *Config) HasDefaultProviderKey() bool {
	return strings.EqualFold(c.AI.Provider, "ollama") || c.APIKeyFor(c.AI.Provider) != ""
}

// IsProduction reports whether ENVIRONMENT is production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
