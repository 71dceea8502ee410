package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewAIExplainHandler returns a handler for the ai_explain_<idx> button,
// which asks Gemini for a deeper walk-through of an answered question. The
// reply goes out as a separate message so the answer feedback stays visible.
func NewAIExplainHandler(deps HandlerDeps) bot.HandlerFunc {
	return aiExplainHandler{deps}.Handle
}

type aiExplainHandler struct {
	deps HandlerDeps
}

func (h aiExplainHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "ai_explain")

	if update.CallbackQuery == nil {
		log.WarnContext(ctx, "AI explain received update without callback query", "update_id", update.ID)
		return
	}

	chatID, _, _ := callbackTarget(update)
	userID := update.CallbackQuery.From.ID
	data := update.CallbackQuery.Data

	if h.deps.GeminiClient == nil {
		log.WarnContext(ctx, "AI explain requested while Gemini is disabled", "user_id", userID)
		return
	}

	idx, err := strconv.Atoi(strings.TrimPrefix(data, "ai_explain_"))
	if err != nil {
		log.WarnContext(ctx, "Callback with malformed AI explain payload", "error", err, "data", data)
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.AIError})
		return
	}

	state, err := h.deps.Sessions.Get(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load session", "error", err, "user_id", userID)
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.AIError})
		return
	}
	if state == nil {
		// The question list is gone with the session once the quiz ends.
		log.InfoContext(ctx, "AI explain requested without an active session", "user_id", userID)
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.SessionExpired})
		return
	}
	if idx < 0 || idx >= len(state.Questions) {
		log.WarnContext(ctx, "AI explain index out of range", "index", idx, "questions", len(state.Questions), "user_id", userID)
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.AIError})
		return
	}

	log.InfoContext(ctx, "Handling AI explain request", "user_id", userID, "question_index", idx)
	_, _ = b.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionTyping})

	explanation, err := h.deps.GeminiClient.ExplainQuestion(ctx, state.Questions[idx], state.Level)
	if err != nil {
		log.ErrorContext(ctx, "AI explanation failed", "error", err, "user_id", userID)
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.AIError})
		return
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "🤖 " + explanation})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send AI explanation", "error", err, "chat_id", chatID)
	}
}
