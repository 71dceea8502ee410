package handlers

import (
	"log/slog"

	"github.com/albitskyd51/qa-interview-bot/internal/config"
	"github.com/albitskyd51/qa-interview-bot/internal/database"
	"github.com/albitskyd51/qa-interview-bot/internal/gemini"
	"github.com/albitskyd51/qa-interview-bot/internal/quiz"
	"github.com/albitskyd51/qa-interview-bot/internal/session"
)

// HandlerDeps provides dependencies for Telegram command and callback handlers.
type HandlerDeps struct {
	Logger       *slog.Logger
	Config       *config.Config
	Store        database.Store
	Sessions     *session.Manager
	Bank         quiz.Bank
	GeminiClient gemini.Client
}

// quizParams assembles quiz draw parameters from configuration.
func (d HandlerDeps) quizParams() quiz.Params {
	return quiz.Params{
		QuickQuestions: d.Config.Quiz.QuickQuestions,
		FullQuestions:  d.Config.Quiz.FullQuestions,
		WrapWidth:      d.Config.Quiz.WrapWidth,
	}
}
