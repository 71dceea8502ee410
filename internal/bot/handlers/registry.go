package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents a command or callback handler with its match
// pattern and middleware. It encapsulates all information needed to register
// the handler with the bot.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands initializes and returns a map of all bot commands and
// callback handlers. Every callback goes through AnswerCallback so buttons
// never keep spinning.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "start",
		Handler:     NewStartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/stats"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "stats",
		Handler:     NewStatsHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/reset"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "reset",
		Handler:     NewResetHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}

	callbackMiddleware := []tgbot.Middleware{AnswerCallback(deps)}

	handlers["select_"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "select_",
		Handler:     NewLevelSelectHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
		Middleware:  callbackMiddleware,
	}
	handlers["mode_"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "mode_",
		Handler:     NewQuizStartHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
		Middleware:  callbackMiddleware,
	}
	handlers["retry_"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "retry_",
		Handler:     NewQuizStartHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
		Middleware:  callbackMiddleware,
	}
	handlers["answer_"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "answer_",
		Handler:     NewAnswerHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
		Middleware:  callbackMiddleware,
	}
	handlers["ai_explain_"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "ai_explain_",
		Handler:     NewAIExplainHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
		Middleware:  callbackMiddleware,
	}
	handlers["next_question"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "next_question",
		Handler:     NewNextQuestionHandler(deps),
		MatchType:   tgbot.MatchTypeExact,
		Middleware:  callbackMiddleware,
	}
	handlers["show_stats"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "show_stats",
		Handler:     NewStatsCallbackHandler(deps),
		MatchType:   tgbot.MatchTypeExact,
		Middleware:  callbackMiddleware,
	}
	handlers["choose_level"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "choose_level",
		Handler:     NewChooseLevelHandler(deps),
		MatchType:   tgbot.MatchTypeExact,
		Middleware:  callbackMiddleware,
	}

	return handlers
}
