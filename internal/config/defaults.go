package config

import "time"

// Default values for configuration
const (
	// Logger defaults
	DefaultLogLevel = "info"
	DefaultLogJSON  = true

	// Database defaults
	DefaultDBPath = "qa_bot.db" // SQLite database file

	// Quiz defaults
	DefaultQuizQuickQuestions = 10 // Quick mode draw size
	DefaultQuizFullQuestions  = 20 // Full mode draw size
	DefaultQuizWrapWidth      = 35 // Max runes per line in questions/options
	DefaultQuizProgressWidth  = 10 // Progress bar cell count

	// Session defaults
	DefaultSessionBackend = "memory"
	DefaultSessionTTL     = 24 * time.Hour

	// Keepalive defaults
	DefaultKeepaliveEnabled = true
	DefaultKeepaliveAddr    = ":8080"

	// Gemini defaults
	DefaultGeminiModel       = "gemini-2.0-flash"
	DefaultGeminiTemperature = 0.7
	DefaultGeminiTimeout     = 30 * time.Second
	DefaultGeminiMaxRetries  = 2
	DefaultGeminiRetryDelay  = 2 * time.Second
)

// DefaultGeminiInstruction frames the AI deep-dive responses. The bot talks
// to candidates preparing for QA interviews, so the coach persona answers in
// Russian with short practical explanations.
const DefaultGeminiInstruction = "Ты — опытный QA-инженер и наставник, который помогает готовиться " +
	"к собеседованиям на позицию QA Engineer. Тебе дают вопрос из теста, варианты ответов, " +
	"правильный ответ и краткое пояснение. Дай более глубокий разбор: почему правильный ответ верен, " +
	"в чём подвох остальных вариантов и как эта тема всплывает на реальных собеседованиях. " +
	"Отвечай на русском, кратко и по делу, без markdown-разметки."

// DefaultSchedulerTasks wires the background jobs. The keepalive ping is off
// until the deployment sets its public URL.
var DefaultSchedulerTasks = map[string]TaskConfig{
	"sql_maintenance": {Enabled: true, Schedule: "30 4 * * *"},
	"session_cleanup": {Enabled: true, Schedule: "0 * * * *"},
	"keepalive_ping":  {Enabled: false, Schedule: "*/10 * * * *"},
}

// DefaultMessages are the bot's stock Russian texts.
var DefaultMessages = Messages{
	Welcome: "👋 Привет, {name}!\n\n" +
		"Я — твой персональный помощник для подготовки к собеседованию на позицию QA Engineer.\n\n" +
		"🎯 <b>Что я умею:</b>\n" +
		"✅ Проверяю знания по 3 уровням сложности\n" +
		"✅ Два режима тестирования (полный и быстрый)\n" +
		"✅ Даю подробные объяснения к каждому ответу\n" +
		"✅ Сохраняю статистику и показываю прогресс\n" +
		"✅ Показываю прогресс-бар во время теста\n\n" +
		"📚 <b>Уровни тестирования:</b>\n" +
		"🌱 <b>Junior</b> — основы тестирования, базовая терминология\n" +
		"🚀 <b>Middle</b> — API, автоматизация, CI/CD, безопасность\n" +
		"👑 <b>Senior</b> — TDD/BDD, метрики, архитектурные подходы\n\n" +
		"🎮 <b>Режимы тестирования:</b>\n" +
		"• Полный тест — 20 случайных вопросов\n" +
		"• Быстрый тест — 10 случайных вопросов\n\n" +
		"💡 <b>Полезные команды:</b>\n" +
		"/start — Начать заново\n" +
		"/stats — Посмотреть статистику\n" +
		"/reset — Сбросить текущий тест\n\n" +
		"⚡️ <b>Выбери свой уровень и начинай!</b>",
	ChooseLevel:    "🎯 Выбери уровень для прохождения теста:",
	Reset:          "🔄 Текущий тест сброшен!\n\nВыбери уровень для нового теста:",
	ResetError:     "❌ Не удалось сбросить тест. Попробуйте /start",
	StartError:     "❌ Произошла ошибка при запуске. Попробуйте еще раз: /start",
	SessionExpired: "❌ Сессия истекла. Начните заново: /start",
	CallbackError:  "❌ Произошла ошибка. Используйте /reset чтобы начать заново.",
	QuestionError:  "❌ Ошибка загрузки вопроса. Используйте /reset",
	AnswerError:    "❌ Ошибка проверки ответа. Используйте /reset",
	ResultsError:   "❌ Ошибка показа результатов. Используйте /start",
	StatsEmpty: "📊 <b>Статистика</b>\n\n" +
		"У вас пока нет завершенных тестов.\n" +
		"Пройдите первый тест чтобы увидеть статистику!",
	StatsError: "❌ Не удалось загрузить статистику. Попробуйте позже.",
	AIError:    "🤖 Не удалось получить разбор. Попробуйте позже.",
}
