package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads and validates configuration from:
// 1. Default values
// 2. The YAML file at path (optional)
// 3. BOT_* environment variables (dots become underscores)
//
// A handful of unprefixed variables are honored too, because hosting
// platforms inject them under fixed names: BOT_TOKEN, GEMINI_API_KEY,
// REDIS_URL, and PORT.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindPlatformEnv(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundErr) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		// Missing config file is fine: defaults plus environment cover it.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Render injects PORT for web services; it wins over the configured addr.
	if port := v.GetString("keepalive.port"); port != "" {
		cfg.Keepalive.Addr = ":" + port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// bindPlatformEnv maps the well-known deployment variables onto config keys.
// Later names are fallbacks: the prefixed form wins when both are set.
func bindPlatformEnv(v *viper.Viper) error {
	bindings := [][]string{
		{"telegram.token", "BOT_TELEGRAM_TOKEN", "BOT_TOKEN"},
		{"gemini.api_key", "BOT_GEMINI_API_KEY", "GEMINI_API_KEY"},
		{"session.redis_url", "BOT_SESSION_REDIS_URL", "REDIS_URL"},
		{"keepalive.port", "PORT"},
	}
	for _, b := range bindings {
		if err := v.BindEnv(b...); err != nil {
			return fmt.Errorf("failed to bind environment for %s: %w", b[0], err)
		}
	}
	return nil
}

// setDefaults sets default values for optional configuration parameters.
func setDefaults(v *viper.Viper) {
	// Logger defaults
	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", DefaultLogJSON)

	// Database defaults
	v.SetDefault("database.path", DefaultDBPath)

	// Quiz defaults
	v.SetDefault("quiz.quick_questions", DefaultQuizQuickQuestions)
	v.SetDefault("quiz.full_questions", DefaultQuizFullQuestions)
	v.SetDefault("quiz.wrap_width", DefaultQuizWrapWidth)
	v.SetDefault("quiz.progress_width", DefaultQuizProgressWidth)

	// Session defaults. Empty string defaults register the keys so that
	// BOT_* environment overrides are visible during Unmarshal.
	v.SetDefault("session.backend", DefaultSessionBackend)
	v.SetDefault("session.ttl", DefaultSessionTTL)
	v.SetDefault("session.redis_addr", "")
	v.SetDefault("session.redis_password", "")
	v.SetDefault("session.redis_db", 0)

	// Keepalive defaults
	v.SetDefault("keepalive.enabled", DefaultKeepaliveEnabled)
	v.SetDefault("keepalive.addr", DefaultKeepaliveAddr)
	v.SetDefault("keepalive.ping_url", "")

	// Gemini defaults
	v.SetDefault("gemini.enabled", false)
	v.SetDefault("gemini.model", DefaultGeminiModel)
	v.SetDefault("gemini.temperature", DefaultGeminiTemperature)
	v.SetDefault("gemini.instruction", DefaultGeminiInstruction)
	v.SetDefault("gemini.timeout", DefaultGeminiTimeout)
	v.SetDefault("gemini.max_retries", DefaultGeminiMaxRetries)
	v.SetDefault("gemini.retry_delay", DefaultGeminiRetryDelay)

	// Scheduler defaults
	for name, task := range DefaultSchedulerTasks {
		v.SetDefault("scheduler.tasks."+name+".enabled", task.Enabled)
		v.SetDefault("scheduler.tasks."+name+".schedule", task.Schedule)
	}

	// Message defaults
	v.SetDefault("messages.welcome", DefaultMessages.Welcome)
	v.SetDefault("messages.choose_level", DefaultMessages.ChooseLevel)
	v.SetDefault("messages.reset", DefaultMessages.Reset)
	v.SetDefault("messages.reset_error", DefaultMessages.ResetError)
	v.SetDefault("messages.start_error", DefaultMessages.StartError)
	v.SetDefault("messages.session_expired", DefaultMessages.SessionExpired)
	v.SetDefault("messages.callback_error", DefaultMessages.CallbackError)
	v.SetDefault("messages.question_error", DefaultMessages.QuestionError)
	v.SetDefault("messages.answer_error", DefaultMessages.AnswerError)
	v.SetDefault("messages.results_error", DefaultMessages.ResultsError)
	v.SetDefault("messages.stats_empty", DefaultMessages.StatsEmpty)
	v.SetDefault("messages.stats_error", DefaultMessages.StatsError)
	v.SetDefault("messages.ai_error", DefaultMessages.AIError)
}
