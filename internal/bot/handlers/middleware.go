// Package handlers contains Telegram bot command and callback handlers,
// along with their registration logic and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AnswerCallback creates a middleware that acknowledges a callback query
// before the handler runs, so the button stops showing the client-side
// spinner even if the handler takes a while or fails.
func AnswerCallback(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update.CallbackQuery == nil {
				next(ctx, bot, update)
				return
			}

			ok, err := bot.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
				CallbackQueryID: update.CallbackQuery.ID,
			})
			if err != nil || !ok {
				log := deps.Logger.With("middleware", "AnswerCallback")
				log.WarnContext(ctx, "Failed to answer callback query",
					"error", err, "callback_query_id", update.CallbackQuery.ID)
			}

			next(ctx, bot, update)
		}
	}
}
