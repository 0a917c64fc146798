// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// BotToken authenticates against the Telegram Bot API. Required.
	BotToken string `koanf:"bot_token"`

	// ChatID is the Telegram chat that receives notifications. Required.
	ChatID int64 `koanf:"chat_id"`

	// StorePath locates the seen-event JSON file.
	StorePath string `koanf:"store_path"`

	// FailedPath locates the permanent-failure JSON log.
	FailedPath string `koanf:"failed_path"`

	// RunLogPath locates the append-only run log file.
	RunLogPath string `koanf:"run_log_path"`

	// FetchTimeoutSeconds bounds every listing and detail request.
	FetchTimeoutSeconds int `koanf:"fetch_timeout_seconds"`

	// MinBodyBytes marks shorter responses as blocked or broken pages.
	MinBodyBytes int `koanf:"min_body_bytes"`

	// PerPlatformCap limits notifications per platform per pass.
	PerPlatformCap int `koanf:"per_platform_cap"`

	// SendPacingSeconds is the delay between consecutive sends.
	SendPacingSeconds int `koanf:"send_pacing_seconds"`

	// SendRetries is the attempt ceiling per notification.
	SendRetries int `koanf:"send_retries"`

	// CheckIntervalMinutes schedules periodic passes; zero disables the
	// scheduler so passes run only via the HTTP trigger.
	CheckIntervalMinutes int `koanf:"check_interval_minutes"`
}

// New creates a Config with service defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		StorePath:           "data/seen_events.json",
		FailedPath:          "data/failed_messages.json",
		RunLogPath:          "data/run.log",
		FetchTimeoutSeconds: 15,
		MinBodyBytes:        500,
		PerPlatformCap:      5,
		SendPacingSeconds:   2,
		SendRetries:         3,
	}
}
