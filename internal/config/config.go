package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig              `json:"server"`
	Database   DatabaseConfig            `json:"database"`
	Providers  map[string]ProviderConfig `json:"providers"`
	Summarizer SummarizerConfig          `json:"summarizer"`
}

type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"sslmode"`
}

type ProviderConfig struct {
	Type         string `json:"type"`
	Name         string `json:"name"`
	BaseURL      string `json:"base_url,omitempty"`
	APIKey       string `json:"api_key,omitempty"`
	DefaultModel string `json:"default_model"`
	MaxTokens    int    `json:"max_tokens,omitempty"`
}

// SummarizerConfig holds the engine defaults applied when a request does
// not override them.
type SummarizerConfig struct {
	Strategy         string `json:"strategy"`
	CompressionLevel string `json:"compression_level"`
	Provider         string `json:"provider"`
	ChunkSize        int    `json:"chunk_size"`
	CustomPrompt     string `json:"custom_prompt,omitempty"`
	EnableCache      bool   `json:"enable_cache"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Check for user config directory
	homeDir, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(homeDir, ".recapd"))
	}

	// Set defaults
	viper.SetDefault("server.port", 3000)
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "recapd")
	viper.SetDefault("database.database", "recapd")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("summarizer.strategy", "single-pass")
	viper.SetDefault("summarizer.compression_level", "moderate")
	viper.SetDefault("summarizer.provider", "openai")
	viper.SetDefault("summarizer.chunk_size", 10)
	viper.SetDefault("summarizer.enable_cache", true)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createDefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	loadEnvOverrides(&cfg)

	return &cfg, nil
}

func createDefaultConfig() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 3000,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "recapd",
			Password: "",
			Database: "recapd",
			SSLMode:  "disable",
		},
		Providers: map[string]ProviderConfig{
			"openai": {
				Type:         "openai",
				Name:         "OpenAI",
				DefaultModel: "gpt-4",
			},
			"anthropic": {
				Type:         "anthropic",
				Name:         "Anthropic",
				DefaultModel: "claude-3-sonnet-20240229",
			},
			"ollama": {
				Type:         "openai-compatible",
				Name:         "Ollama",
				BaseURL:      "http://localhost:11434",
				DefaultModel: "llama2",
			},
		},
		Summarizer: SummarizerConfig{
			Strategy:         "single-pass",
			CompressionLevel: "moderate",
			Provider:         "openai",
			ChunkSize:        10,
			EnableCache:      true,
		},
	}
	loadEnvOverrides(cfg)
	return cfg
}

func loadEnvOverrides(cfg *Config) {
	if port := os.Getenv("RECAPD_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}

	if host := os.Getenv("RECAPD_HOST"); host != "" {
		cfg.Server.Host = host
	}

	// Database overrides
	if dbHost := os.Getenv("POSTGRES_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
	}
	if dbPort := os.Getenv("POSTGRES_PORT"); dbPort != "" {
		if port, err := strconv.Atoi(dbPort); err == nil {
			cfg.Database.Port = port
		}
	}
	if dbUser := os.Getenv("POSTGRES_USER"); dbUser != "" {
		cfg.Database.User = dbUser
	}
	if dbPass := os.Getenv("POSTGRES_PASSWORD"); dbPass != "" {
		cfg.Database.Password = dbPass
	}
	if dbName := os.Getenv("POSTGRES_DB"); dbName != "" {
		cfg.Database.Database = dbName
	}

	// Provider API keys come from the environment, never the config file
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if p, ok := cfg.Providers["openai"]; ok {
			p.APIKey = key
			cfg.Providers["openai"] = p
		}
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		if p, ok := cfg.Providers["anthropic"]; ok {
			p.APIKey = key
			cfg.Providers["anthropic"] = p
		}
	}
}
