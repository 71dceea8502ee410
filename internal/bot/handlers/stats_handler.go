package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStatsHandler returns a handler for the /stats command.
func NewStatsHandler(deps HandlerDeps) bot.HandlerFunc {
	return statsHandler{deps}.Handle
}

// statsHandler processes the /stats command using injected dependencies.
type statsHandler struct {
	deps HandlerDeps
}

func (h statsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "stats")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Stats handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /stats command", "chat_id", chatID, "user_id", userID)

	text, markup, err := renderStats(ctx, h.deps, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load user stats", "error", err, "user_id", userID)
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.StatsError})
		return
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: markup,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send stats message", "error", err, "chat_id", chatID)
	}
}

// NewStatsCallbackHandler returns a handler for the show_stats button, which
// rewrites the originating message instead of sending a new one.
func NewStatsCallbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return statsCallbackHandler{deps}.Handle
}

type statsCallbackHandler struct {
	deps HandlerDeps
}

func (h statsCallbackHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "show_stats")

	if update.CallbackQuery == nil {
		log.WarnContext(ctx, "Stats callback received update without callback query", "update_id", update.ID)
		return
	}

	userID := update.CallbackQuery.From.ID
	chatID, messageID, _ := callbackTarget(update)
	log.InfoContext(ctx, "Handling show_stats callback", "chat_id", chatID, "user_id", userID)

	text, markup, err := renderStats(ctx, h.deps, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load user stats", "error", err, "user_id", userID)
		_ = editMessage(ctx, b, chatID, messageID, h.deps.Config.Messages.StatsError, "", nil)
		return
	}

	if err := editMessage(ctx, b, chatID, messageID, text, models.ParseModeHTML, markup); err != nil {
		log.ErrorContext(ctx, "Failed to show stats", "error", err, "chat_id", chatID)
	}
}

// renderStats builds the statistics screen: the full breakdown for users
// with completed tests, the invitation text otherwise.
func renderStats(ctx context.Context, deps HandlerDeps, userID int64) (string, *models.InlineKeyboardMarkup, error) {
	stats, err := deps.Store.GetUserStats(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	if stats == nil || stats.Overall.TestsTaken == 0 {
		return deps.Config.Messages.StatsEmpty, statsKeyboard(false), nil
	}
	return statsText(stats), statsKeyboard(true), nil
}
