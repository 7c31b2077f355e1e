package config

import "github.com/caarlos0/env/v10"

// Config centralizes the gateway configuration. Constructed once in main and
// handed to components explicitly; nothing reads the environment after load.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	JWTSecret            string `env:"JWT_SECRET,required"`
	JWTAccessTTLMinutes  int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"60"`
	JWTRefreshTTLMinutes int    `env:"JWT_REFRESH_TTL_MINUTES" envDefault:"43200"`

	// Remote identity provider used as a fallback for legacy-issued tokens
	// whose signature does not match JWTSecret.
	IdentityBaseURL         string `env:"IDENTITY_BASE_URL"`
	IdentityAPIKey          string `env:"IDENTITY_API_KEY"`
	IdentityCacheTTLSeconds int    `env:"IDENTITY_CACHE_TTL_SECONDS" envDefault:"300"`

	FoundryEndpoint   string `env:"AZURE_AI_FOUNDRY_ENDPOINT,required"`
	FoundryAPIKey     string `env:"AZURE_AI_FOUNDRY_API_KEY,required"`
	FoundryDeployment string `env:"AZURE_AI_FOUNDRY_DEPLOYMENT_NAME" envDefault:"gpt-4-mini"`
	FoundryAPIVersion string `env:"AZURE_AI_FOUNDRY_API_VERSION" envDefault:"2024-10-01-preview"`
	LLMTimeoutSeconds int    `env:"LLM_TIMEOUT_SECONDS" envDefault:"60"`

	// HistoryWindow caps how many stored messages are loaded when composing a
	// prompt. Full history stays persisted.
	HistoryWindow int `env:"HISTORY_WINDOW" envDefault:"20"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	GitHubToken string `env:"GITHUB_TOKEN"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// LoadConfig parses the configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
