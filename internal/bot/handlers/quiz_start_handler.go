package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/albitskyd51/qa-interview-bot/internal/quiz"
	"github.com/albitskyd51/qa-interview-bot/internal/session"
)

// NewQuizStartHandler returns a handler for the mode_<level>_<mode> and
// retry_<level>_<mode> buttons. Both draw a fresh question set, replace any
// session in progress, and show the first question.
func NewQuizStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return quizStartHandler{deps}.Handle
}

type quizStartHandler struct {
	deps HandlerDeps
}

func (h quizStartHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "quiz_start")

	if update.CallbackQuery == nil {
		log.WarnContext(ctx, "Quiz start received update without callback query", "update_id", update.ID)
		return
	}

	chatID, messageID, _ := callbackTarget(update)
	userID := update.CallbackQuery.From.ID
	data := update.CallbackQuery.Data

	level, mode, err := parseQuizStart(data)
	if err != nil {
		log.WarnContext(ctx, "Callback with malformed quiz start payload", "error", err, "data", data)
		_ = editMessage(ctx, b, chatID, messageID, h.deps.Config.Messages.CallbackError, "", nil)
		return
	}

	questions, err := quiz.Build(h.deps.Bank, level, mode, h.deps.quizParams(), nil)
	if err != nil {
		log.ErrorContext(ctx, "Failed to build quiz", "error", err, "level", level, "mode", mode)
		_ = editMessage(ctx, b, chatID, messageID, h.deps.Config.Messages.CallbackError, "", nil)
		return
	}

	state := &session.State{
		Level:          level,
		Mode:           mode,
		Questions:      questions,
		TotalQuestions: len(questions),
	}
	if err := h.deps.Sessions.Start(ctx, userID, state); err != nil {
		log.ErrorContext(ctx, "Failed to start session", "error", err, "user_id", userID)
		_ = editMessage(ctx, b, chatID, messageID, h.deps.Config.Messages.CallbackError, "", nil)
		return
	}

	log.InfoContext(ctx, "Quiz started", "user_id", userID, "level", level, "mode", mode, "questions", len(questions))
	sendQuestion(ctx, b, h.deps, log, chatID, messageID, userID, state)
}

// parseQuizStart splits mode_<level>_<mode> or retry_<level>_<mode> callback
// data into its validated parts.
func parseQuizStart(data string) (quiz.Level, quiz.Mode, error) {
	parts := strings.Split(data, "_")
	if len(parts) != 3 {
		return "", "", fmt.Errorf("malformed quiz start payload %q", data)
	}

	level, err := quiz.ParseLevel(parts[1])
	if err != nil {
		return "", "", err
	}
	mode, err := quiz.ParseMode(parts[2])
	if err != nil {
		return "", "", err
	}
	return level, mode, nil
}
