// Package tasks implements the bot's scheduled background tasks: database
// maintenance, stale session cleanup, and the keep-alive self-ping.
package tasks

import (
	"log/slog"
	"net/http"

	"github.com/albitskyd51/qa-interview-bot/internal/config"
	"github.com/albitskyd51/qa-interview-bot/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger     *slog.Logger
	Store      database.Store
	Config     *config.Config
	HTTPClient *http.Client
}
