package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/albitskyd51/qa-interview-bot/internal/database"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

// startHandler processes the /start command using injected dependencies.
type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Start handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	from := update.Message.From
	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /start command", "chat_id", chatID, "user_id", from.ID)

	firstName := from.FirstName
	if firstName == "" {
		firstName = "друг"
	}

	err := h.deps.Store.SaveUser(ctx, &database.User{
		UserID:    from.ID,
		Username:  from.Username,
		FirstName: firstName,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to save user", "error", err, "user_id", from.ID)
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.StartError})
		return
	}

	// A fresh /start always abandons the quiz in progress.
	if err := h.deps.Sessions.Delete(ctx, from.ID); err != nil {
		log.WarnContext(ctx, "Failed to drop previous session", "error", err, "user_id", from.ID)
	}

	welcome := strings.ReplaceAll(h.deps.Config.Messages.Welcome, "{name}", firstName)
	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        welcome,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: levelKeyboard(true),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send welcome message", "error", err, "chat_id", chatID)
		return
	}

	log.DebugContext(ctx, "Successfully sent welcome message", "chat_id", chatID, "first_name", firstName)
}
