// Package config manages application configuration from defaults, an
// optional YAML file, and BOT_-prefixed environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-telegram/bot/models"
)

// Config holds the full application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Quiz      QuizConfig      `mapstructure:"quiz"`
	Session   SessionConfig   `mapstructure:"session"`
	Keepalive KeepaliveConfig `mapstructure:"keepalive"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  Messages        `mapstructure:"messages"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot credentials. The token comes from the
// BOT_TOKEN environment variable in deployments and is never committed.
// BotInfo is populated at startup via GetMe and is not read from the file.
type TelegramConfig struct {
	Token   string       `mapstructure:"token" validate:"required"`
	BotInfo *models.User `mapstructure:"-"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// QuizConfig controls quiz sizing and presentation.
type QuizConfig struct {
	QuickQuestions int `mapstructure:"quick_questions" validate:"required,min=1"`
	FullQuestions  int `mapstructure:"full_questions" validate:"required,min=1"`
	WrapWidth      int `mapstructure:"wrap_width" validate:"required,min=10"`
	ProgressWidth  int `mapstructure:"progress_width" validate:"required,min=4"`
}

// SessionConfig controls where active quiz sessions are cached and how long
// an abandoned session survives before cleanup.
type SessionConfig struct {
	Backend       string        `mapstructure:"backend" validate:"required,oneof=memory redis"`
	TTL           time.Duration `mapstructure:"ttl" validate:"required,min=1m"`
	RedisURL      string        `mapstructure:"redis_url"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db" validate:"min=0"`
}

// KeepaliveConfig controls the liveness HTTP server and the optional
// self-ping that keeps free hosting tiers from suspending the service.
type KeepaliveConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr" validate:"required"`
	PingURL string `mapstructure:"ping_url" validate:"omitempty,url"`
}

// GeminiConfig controls the optional AI answer deep-dive feature.
type GeminiConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model" validate:"required"`
	Temperature float32       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	Instruction string        `mapstructure:"instruction" validate:"required"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"required,min=1s,max=10m"`
	MaxRetries  int           `mapstructure:"max_retries" validate:"min=0,max=10"`
	RetryDelay  time.Duration `mapstructure:"retry_delay" validate:"required,min=100ms,max=1m"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a named scheduled task with a cron expression.
// The expression may carry an optional leading seconds field.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// Messages holds the user-visible bot texts. All texts default to the
// bot's Russian voice and can be overridden in config.yaml.
// Welcome supports a {name} placeholder for the user's first name.
type Messages struct {
	Welcome        string `mapstructure:"welcome" validate:"required"`
	ChooseLevel    string `mapstructure:"choose_level" validate:"required"`
	Reset          string `mapstructure:"reset" validate:"required"`
	ResetError     string `mapstructure:"reset_error" validate:"required"`
	StartError     string `mapstructure:"start_error" validate:"required"`
	SessionExpired string `mapstructure:"session_expired" validate:"required"`
	CallbackError  string `mapstructure:"callback_error" validate:"required"`
	QuestionError  string `mapstructure:"question_error" validate:"required"`
	AnswerError    string `mapstructure:"answer_error" validate:"required"`
	ResultsError   string `mapstructure:"results_error" validate:"required"`
	StatsEmpty     string `mapstructure:"stats_empty" validate:"required"`
	StatsError     string `mapstructure:"stats_error" validate:"required"`
	AIError        string `mapstructure:"ai_error" validate:"required"`
}

// Validate checks the configuration using struct tags plus the cross-field
// rules tags cannot express.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if c.Gemini.Enabled && c.Gemini.APIKey == "" {
		return fmt.Errorf("gemini.api_key is required when gemini.enabled is true")
	}
	if c.Session.Backend == "redis" && c.Session.RedisAddr == "" && c.Session.RedisURL == "" {
		return fmt.Errorf("session.redis_addr or session.redis_url is required when session.backend is redis")
	}
	if task, ok := c.Scheduler.Tasks["keepalive_ping"]; ok && task.Enabled && c.Keepalive.PingURL == "" {
		return fmt.Errorf("keepalive.ping_url is required when the keepalive_ping task is enabled")
	}
	if c.Quiz.QuickQuestions > c.Quiz.FullQuestions {
		return fmt.Errorf("quiz.quick_questions (%d) cannot exceed quiz.full_questions (%d)",
			c.Quiz.QuickQuestions, c.Quiz.FullQuestions)
	}

	return nil
}
