// Package main contains the entrypoint for the Telegram bot application.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/albitskyd51/qa-interview-bot/internal/bot"
	"github.com/albitskyd51/qa-interview-bot/internal/bot/handlers"
	"github.com/albitskyd51/qa-interview-bot/internal/bot/tasks"
	"github.com/albitskyd51/qa-interview-bot/internal/config"
	"github.com/albitskyd51/qa-interview-bot/internal/database"
	"github.com/albitskyd51/qa-interview-bot/internal/gemini"
	"github.com/albitskyd51/qa-interview-bot/internal/keepalive"
	"github.com/albitskyd51/qa-interview-bot/internal/logger"
	"github.com/albitskyd51/qa-interview-bot/internal/quiz"
	"github.com/albitskyd51/qa-interview-bot/internal/session"
	"github.com/albitskyd51/qa-interview-bot/internal/telegram"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop() // Ensure context cancellation is signaled before exit
	os.Exit(exitCode)
}

// run initializes and starts all application components (config, logger, db,
// question bank, session cache, AI client, bot, scheduler, keep-alive server),
// handles graceful shutdown, and returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db) // Ensure DB is closed on function exit
	store := database.NewStore(db, log)

	bank, err := quiz.Load()
	if err != nil {
		log.Error("Failed to load question bank", "error", err)
		return 1
	}
	log.Info("Question bank loaded", "levels", len(bank))

	var cache session.Cache
	if cfg.Session.Backend == "redis" {
		redisCache, err := session.NewRedisCache(ctx, cfg.Session)
		if err != nil {
			log.Error("Failed to connect to Redis", "error", err)
			return 1
		}
		defer func() { _ = redisCache.Close() }()
		log.Info("Session cache backend: redis")
		cache = redisCache
	} else {
		log.Info("Session cache backend: memory")
		cache = session.NewMemoryCache()
	}
	sessions := session.NewManager(cache, store, log)

	var gemClient gemini.Client
	if cfg.Gemini.Enabled {
		gemClient, err = gemini.NewClient(ctx, cfg.Gemini, log)
		if err != nil {
			log.Error("Failed to initialize Gemini client", "error", err)
			return 1
		}
	} else {
		log.Info("Gemini deep-dive feature is disabled")
	}

	hDeps := handlers.HandlerDeps{
		Logger:       log,
		Config:       cfg,
		Store:        store,
		Sessions:     sessions,
		Bank:         bank,
		GeminiClient: gemClient,
	}
	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Config: cfg,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	// Retrieve bot info and store it in the config for runtime use
	cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	if err := telegram.SetupCommands(ctx, tg, log); err != nil {
		log.Error("Failed to publish bot command menu", "error", err)
		return 1
	}

	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	var keepaliveServer *keepalive.Server
	if cfg.Keepalive.Enabled {
		keepaliveServer = keepalive.NewServer(cfg.Keepalive.Addr, log)
		keepaliveServer.RegisterCheck("database", store.Ping)
	} else {
		log.Warn("Keep-alive server is disabled; free hosting tiers may suspend the bot")
	}

	app := bot.NewBot(log, cfg, db, store, tg, sched, keepaliveServer)

	log.Info("Starting bot...")
	runErr := app.Run(ctx) // Run blocks until context is cancelled or an error occurs
	log.Info("Bot run loop finished. Initiating shutdown...")

	// Check if the error is significant (not just context cancellation)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		// Allow logs to flush before exiting on error
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
