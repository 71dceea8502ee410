package handlers

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/albitskyd51/qa-interview-bot/internal/database"
	"github.com/albitskyd51/qa-interview-bot/internal/quiz"
	"github.com/albitskyd51/qa-interview-bot/internal/session"
)

// editMessage rewrites the message a callback query came from. When the
// message is inaccessible (messageID zero) the text goes out as a new
// message instead, so the user still sees the next screen.
func editMessage(ctx context.Context, b *bot.Bot, chatID int64, messageID int, text string, parseMode models.ParseMode, markup models.ReplyMarkup) error {
	if messageID != 0 {
		_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   messageID,
			Text:        text,
			ParseMode:   parseMode,
			ReplyMarkup: markup,
		})
		return err
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   parseMode,
		ReplyMarkup: markup,
	})
	return err
}

// sendQuestion shows the question under the session cursor, or the results
// screen once the cursor has passed the last question.
func sendQuestion(ctx context.Context, b *bot.Bot, deps HandlerDeps, log *slog.Logger, chatID int64, messageID int, userID int64, state *session.State) {
	q, ok := state.Current()
	if !ok {
		showResults(ctx, b, deps, log, chatID, messageID, userID, state)
		return
	}

	text := questionText(state, q, deps.Config.Quiz.ProgressWidth)
	err := editMessage(ctx, b, chatID, messageID, text, models.ParseModeHTML, questionKeyboard(q))
	if err != nil {
		log.ErrorContext(ctx, "Failed to send question", "error", err,
			"chat_id", chatID, "question_index", state.CurrentQuestion)
		_ = editMessage(ctx, b, chatID, messageID, deps.Config.Messages.QuestionError, "", nil)
	}
}

// showResults finalizes a quiz: the result is persisted, the session is
// dropped, and the message is rewritten with the score and verdict.
func showResults(ctx context.Context, b *bot.Bot, deps HandlerDeps, log *slog.Logger, chatID int64, messageID int, userID int64, state *session.State) {
	percentage := quiz.Percentage(state.CorrectAnswers, state.TotalQuestions)

	err := deps.Store.SaveTestResult(ctx, &database.TestResult{
		UserID:         userID,
		Level:          string(state.Level),
		Mode:           string(state.Mode),
		CorrectAnswers: state.CorrectAnswers,
		TotalQuestions: state.TotalQuestions,
		Percentage:     percentage,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to save test result", "error", err, "user_id", userID)
		_ = editMessage(ctx, b, chatID, messageID, deps.Config.Messages.ResultsError, "", nil)
		return
	}

	if err := deps.Sessions.Delete(ctx, userID); err != nil {
		log.WarnContext(ctx, "Failed to drop finished session", "error", err, "user_id", userID)
	}

	text := resultsText(state, deps.quizParams())
	err = editMessage(ctx, b, chatID, messageID, text, models.ParseModeHTML, resultsKeyboard(state.Level, state.Mode))
	if err != nil {
		log.ErrorContext(ctx, "Failed to send results", "error", err, "chat_id", chatID)
		_ = editMessage(ctx, b, chatID, messageID, deps.Config.Messages.ResultsError, "", nil)
		return
	}

	log.InfoContext(ctx, "Quiz completed", "user_id", userID,
		"level", state.Level, "mode", state.Mode,
		"correct", state.CorrectAnswers, "total", state.TotalQuestions,
		"percentage", percentage)
}

// loadSession fetches the user's session, telling the user to start over
// when it is gone and showing errText on lookup failures. Returns nil when
// the caller should stop.
func loadSession(ctx context.Context, b *bot.Bot, deps HandlerDeps, log *slog.Logger, chatID int64, messageID int, userID int64, errText string) *session.State {
	state, err := deps.Sessions.Get(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load session", "error", err, "user_id", userID)
		_ = editMessage(ctx, b, chatID, messageID, errText, "", nil)
		return nil
	}
	if state == nil {
		log.InfoContext(ctx, "Session expired or missing", "user_id", userID)
		_ = editMessage(ctx, b, chatID, messageID, deps.Config.Messages.SessionExpired, "", nil)
		return nil
	}
	return state
}
