package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewAnswerHandler returns a handler for the answer_<idx> buttons.
func NewAnswerHandler(deps HandlerDeps) bot.HandlerFunc {
	return answerHandler{deps}.Handle
}

type answerHandler struct {
	deps HandlerDeps
}

func (h answerHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "answer")

	if update.CallbackQuery == nil {
		log.WarnContext(ctx, "Answer handler received update without callback query", "update_id", update.ID)
		return
	}

	chatID, messageID, _ := callbackTarget(update)
	userID := update.CallbackQuery.From.ID
	data := update.CallbackQuery.Data

	answerIdx, err := strconv.Atoi(strings.TrimPrefix(data, "answer_"))
	if err != nil {
		log.WarnContext(ctx, "Callback with malformed answer payload", "error", err, "data", data)
		_ = editMessage(ctx, b, chatID, messageID, h.deps.Config.Messages.CallbackError, "", nil)
		return
	}

	state := loadSession(ctx, b, h.deps, log, chatID, messageID, userID, h.deps.Config.Messages.AnswerError)
	if state == nil {
		return
	}

	q, ok := state.Current()
	if !ok {
		// Stale tap after the last answer was already graded.
		showResults(ctx, b, h.deps, log, chatID, messageID, userID, state)
		return
	}
	if answerIdx < 0 || answerIdx >= len(q.Options) {
		log.WarnContext(ctx, "Answer index out of range", "index", answerIdx, "options", len(q.Options), "user_id", userID)
		_ = editMessage(ctx, b, chatID, messageID, h.deps.Config.Messages.AnswerError, "", nil)
		return
	}

	correct := answerIdx == q.Correct
	answeredIdx := state.CurrentQuestion
	if correct {
		state.CorrectAnswers++
	}
	state.CurrentQuestion++

	if err := h.deps.Sessions.Save(ctx, userID, state); err != nil {
		log.ErrorContext(ctx, "Failed to save answer progress", "error", err, "user_id", userID)
		_ = editMessage(ctx, b, chatID, messageID, h.deps.Config.Messages.AnswerError, "", nil)
		return
	}

	log.InfoContext(ctx, "Answer graded", "user_id", userID,
		"question_index", answeredIdx, "correct", correct,
		"score", state.CorrectAnswers, "total", state.TotalQuestions)

	withAI := h.deps.GeminiClient != nil
	err = editMessage(ctx, b, chatID, messageID, feedbackText(q, correct), models.ParseModeHTML, feedbackKeyboard(answeredIdx, withAI))
	if err != nil {
		log.ErrorContext(ctx, "Failed to send answer feedback", "error", err, "chat_id", chatID)
		_ = editMessage(ctx, b, chatID, messageID, h.deps.Config.Messages.AnswerError, "", nil)
	}
}

// NewNextQuestionHandler returns a handler for the next_question button.
func NewNextQuestionHandler(deps HandlerDeps) bot.HandlerFunc {
	return nextQuestionHandler{deps}.Handle
}

type nextQuestionHandler struct {
	deps HandlerDeps
}

func (h nextQuestionHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "next_question")

	if update.CallbackQuery == nil {
		log.WarnContext(ctx, "Next question handler received update without callback query", "update_id", update.ID)
		return
	}

	chatID, messageID, _ := callbackTarget(update)
	userID := update.CallbackQuery.From.ID

	state := loadSession(ctx, b, h.deps, log, chatID, messageID, userID, h.deps.Config.Messages.QuestionError)
	if state == nil {
		return
	}

	sendQuestion(ctx, b, h.deps, log, chatID, messageID, userID, state)
}
