package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Messenger MessengerConfig `mapstructure:"messenger" validate:"required"`
}

// ServerConfig contains all HTTP server related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// MessengerConfig contains the settings for the chat platform integration.
type MessengerConfig struct {
	// APIBaseURL is the base URL of the messenger bot API.
	APIBaseURL string `mapstructure:"api_base_url" validate:"required,url"`

	// BotToken authenticates outbound calls to the messenger bot API.
	BotToken string `mapstructure:"bot_token" validate:"required"`

	// PollTimeoutSeconds is the long-polling timeout for inbound updates.
	PollTimeoutSeconds int `mapstructure:"poll_timeout_seconds" validate:"gte=0,lte=90"`

	// PollingEnabled controls whether the long-polling update loop is started.
	// Disable it when running multiple instances behind the HTTP surface only.
	PollingEnabled bool `mapstructure:"polling_enabled"`
}
