package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/albitskyd51/qa-interview-bot/internal/quiz"
)

// NewLevelSelectHandler returns a handler for the select_<level> buttons.
// It shows the mode choice for the picked difficulty.
func NewLevelSelectHandler(deps HandlerDeps) bot.HandlerFunc {
	return levelSelectHandler{deps}.Handle
}

type levelSelectHandler struct {
	deps HandlerDeps
}

func (h levelSelectHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "select_level")

	if update.CallbackQuery == nil {
		log.WarnContext(ctx, "Level select received update without callback query", "update_id", update.ID)
		return
	}

	chatID, messageID, _ := callbackTarget(update)
	data := update.CallbackQuery.Data

	level, err := quiz.ParseLevel(strings.TrimPrefix(data, "select_"))
	if err != nil {
		log.WarnContext(ctx, "Callback with unknown level", "error", err, "data", data)
		_ = editMessage(ctx, b, chatID, messageID, h.deps.Config.Messages.CallbackError, "", nil)
		return
	}

	log.InfoContext(ctx, "Level selected", "chat_id", chatID, "user_id", update.CallbackQuery.From.ID, "level", level)

	p := h.deps.quizParams()
	err = editMessage(ctx, b, chatID, messageID, modeText(level, p), models.ParseModeHTML, modeKeyboard(level, p))
	if err != nil {
		log.ErrorContext(ctx, "Failed to show mode choice", "error", err, "chat_id", chatID)
	}
}

// NewChooseLevelHandler returns a handler for the choose_level button, which
// brings the user back to the difficulty menu.
func NewChooseLevelHandler(deps HandlerDeps) bot.HandlerFunc {
	return chooseLevelHandler{deps}.Handle
}

type chooseLevelHandler struct {
	deps HandlerDeps
}

func (h chooseLevelHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "choose_level")

	if update.CallbackQuery == nil {
		log.WarnContext(ctx, "Choose level received update without callback query", "update_id", update.ID)
		return
	}

	chatID, messageID, _ := callbackTarget(update)
	log.InfoContext(ctx, "Returning to level menu", "chat_id", chatID, "user_id", update.CallbackQuery.From.ID)

	err := editMessage(ctx, b, chatID, messageID, h.deps.Config.Messages.ChooseLevel, "", levelKeyboard(true))
	if err != nil {
		log.ErrorContext(ctx, "Failed to show level menu", "error", err, "chat_id", chatID)
	}
}
