package model

import "time"

// Config is the complete factcheck configuration
type Config struct {
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Knowledge   KnowledgeConfig   `yaml:"knowledge" mapstructure:"knowledge"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Chat        ChatConfig        `yaml:"chat" mapstructure:"chat"`
	MCP         MCPConfig         `yaml:"mcp" mapstructure:"mcp"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
}

// ServerConfig configures the HTTP fact-check service
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	Mode            string        `yaml:"mode" mapstructure:"mode"` // gin mode: release, debug, test
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	Metrics         bool          `yaml:"metrics" mapstructure:"metrics"`
}

// KnowledgeConfig configures the remote SPARQL knowledge base
type KnowledgeConfig struct {
	Endpoint          string        `yaml:"endpoint" mapstructure:"endpoint"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int           `yaml:"burst_size" mapstructure:"burst_size"`
	Disabled          bool          `yaml:"disabled" mapstructure:"disabled"` // Local table only
}

// CacheConfig configures caching of remote answers
type CacheConfig struct {
	Enabled       bool          `yaml:"enabled" mapstructure:"enabled"`
	Backend       string        `yaml:"backend" mapstructure:"backend"` // memory, disk, layered, redis
	TTL           time.Duration `yaml:"ttl" mapstructure:"ttl"`
	Dir           string        `yaml:"dir" mapstructure:"dir"`
	RedisAddr     string        `yaml:"redis_addr" mapstructure:"redis_addr"`
	RedisPassword string        `yaml:"redis_password" mapstructure:"redis_password"`
	RedisDB       int           `yaml:"redis_db" mapstructure:"redis_db"`
}

// HTTPConfig configures outbound page fetching and proxies
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy     string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// ConcurrencyConfig configures batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// ChatConfig configures the fact-checking chat client
type ChatConfig struct {
	ServiceURL   string        `yaml:"service_url" mapstructure:"service_url"`
	Provider     string        `yaml:"provider" mapstructure:"provider"` // ollama, openai, anthropic
	Model        string        `yaml:"model" mapstructure:"model"`
	BaseURL      string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey       string        `yaml:"api_key" mapstructure:"api_key"`
	Temperature  float64       `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens    int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	SystemPrompt string        `yaml:"system_prompt" mapstructure:"system_prompt"`
}

// MCPConfig configures the MCP tool server
type MCPConfig struct {
	Transport string `yaml:"transport" mapstructure:"transport"` // stdio, http
	Addr      string `yaml:"addr" mapstructure:"addr"`
}

// LoggingConfig configures service logging
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // text, json
}

// DefaultUserAgent identifies factcheck to the knowledge base
const DefaultUserAgent = "FactCheckerMCP/1.0"

// DefaultSystemPrompt is used by the chat client when none is configured
const DefaultSystemPrompt = `You are a helpful assistant that provides accurate information.
When discussing facts about countries and capitals, you should be precise and correct.
If you're not sure about a fact, acknowledge your uncertainty.`

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            "127.0.0.1:5000",
			Mode:            "release",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			Metrics:         true,
		},
		Knowledge: KnowledgeConfig{
			Endpoint:          "https://query.wikidata.org/sparql",
			UserAgent:         DefaultUserAgent,
			Timeout:           5 * time.Second,
			RequestsPerSecond: 5,
			BurstSize:         5,
		},
		Cache: CacheConfig{
			Enabled: true,
			Backend: "memory",
			TTL:     24 * time.Hour,
			Dir:     ".factcheck-cache",
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "factcheck/0.1 (+https://github.com/ppiankov/factcheck)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Chat: ChatConfig{
			ServiceURL:   "http://127.0.0.1:5000/fact-check",
			Provider:     "ollama",
			Model:        "llama3",
			Temperature:  0.7,
			MaxTokens:    1000,
			Timeout:      2 * time.Minute,
			SystemPrompt: DefaultSystemPrompt,
		},
		MCP: MCPConfig{
			Transport: "stdio",
			Addr:      "127.0.0.1:8081",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
