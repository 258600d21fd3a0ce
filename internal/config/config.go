package config

// Config represents the full CLI configuration.
type Config struct {
	API           APIConfig           `yaml:"api"`
	Canary        CanaryConfig        `yaml:"canary"`
	Store         StoreConfig         `yaml:"store"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// APIConfig configures the detection service client.
type APIConfig struct {
	// Key is the API key. Usually left empty here and supplied via the
	// PROMPTSENTRY_API_KEY environment variable; ${VAR} syntax is expanded.
	Key string `yaml:"key"`

	// BaseURL overrides the detection service URL (self-hosted deployments).
	BaseURL string `yaml:"baseURL"`

	// MaxWaitTime bounds each detect call, e.g. "1s".
	MaxWaitTime string `yaml:"maxWaitTime"`
}

// CanaryConfig configures canary word defaults.
type CanaryConfig struct {
	Length int    `yaml:"length"`
	Format string `yaml:"format"`
}

// StoreConfig configures the local detection audit log.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ObservabilityConfig configures logging.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures client request/response logging.
type LoggingConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Level         string `yaml:"level"`         // debug, info, error
	Format        string `yaml:"format"`        // json, human
	RedactAPIKeys bool   `yaml:"redactAPIKeys"` // Redact API keys in logs
}
