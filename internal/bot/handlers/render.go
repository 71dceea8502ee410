package handlers

import (
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/albitskyd51/qa-interview-bot/internal/database"
	"github.com/albitskyd51/qa-interview-bot/internal/quiz"
	"github.com/albitskyd51/qa-interview-bot/internal/session"
)

// recentStatsShown caps how many recent results the statistics screen lists.
const recentStatsShown = 3

// callbackTarget extracts the chat and message a callback query came from.
// Telegram marks messages older than 48 hours inaccessible; those cannot be
// edited, so messageID is zero and editable is false for them.
func callbackTarget(update *models.Update) (chatID int64, messageID int, editable bool) {
	if update.CallbackQuery.Message.Message.Date != 0 {
		msg := update.CallbackQuery.Message.Message
		return msg.Chat.ID, msg.ID, true
	}
	return update.CallbackQuery.Message.InaccessibleMessage.Chat.ID, 0, false
}

// levelKeyboard is the difficulty menu. The stats shortcut is shown on the
// start and level-choice screens but not after a reset.
func levelKeyboard(withStats bool) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(quiz.Levels())+1)
	for _, level := range quiz.Levels() {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         level.Title() + " " + level.Emoji(),
			CallbackData: "select_" + string(level),
		}})
	}
	if withStats {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         "📊 Моя статистика",
			CallbackData: "show_stats",
		}})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func modeText(level quiz.Level, p quiz.Params) string {
	return fmt.Sprintf(
		"%s <b>%s</b>\n\n"+
			"Выбери режим тестирования:\n\n"+
			"📝 <b>Полный тест</b> — %d случайных вопросов\n"+
			"⚡️ <b>Быстрый тест</b> — %d случайных вопросов для быстрой проверки",
		level.Emoji(), level.Title(), p.FullQuestions, p.QuickQuestions,
	)
}

func modeKeyboard(level quiz.Level, p quiz.Params) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
		{{
			Text:         quiz.ModeFull.Emoji() + " " + quiz.ModeFull.Label(p.FullQuestions),
			CallbackData: fmt.Sprintf("mode_%s_%s", level, quiz.ModeFull),
		}},
		{{
			Text:         quiz.ModeQuick.Emoji() + " " + quiz.ModeQuick.Label(p.QuickQuestions),
			CallbackData: fmt.Sprintf("mode_%s_%s", level, quiz.ModeQuick),
		}},
		{{Text: "◀️ Назад", CallbackData: "choose_level"}},
	}}
}

// questionText renders the header, progress bar, and body for the question
// under the session cursor.
func questionText(state *session.State, q quiz.Question, progressWidth int) string {
	progress := quiz.ProgressBar(state.CurrentQuestion, state.TotalQuestions, progressWidth)
	return fmt.Sprintf(
		"%s %s Вопрос %d/%d\n\n%s\n\n❓ <b>%s</b>",
		state.Level.Emoji(), state.Mode.Emoji(),
		state.CurrentQuestion+1, state.TotalQuestions,
		progress, q.Question,
	)
}

func questionKeyboard(q quiz.Question) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(q.Options))
	for idx, option := range q.Options {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         option,
			CallbackData: fmt.Sprintf("answer_%d", idx),
		}})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func feedbackText(q quiz.Question, correct bool) string {
	if correct {
		return fmt.Sprintf("✅ <b>Правильно!</b>\n\n💡 %s", q.Explanation)
	}
	return fmt.Sprintf(
		"❌ <b>Неправильно!</b>\n\n<b>Правильный ответ:</b>\n%s\n\n💡 %s",
		q.Options[q.Correct], q.Explanation,
	)
}

// feedbackKeyboard follows every answered question. questionIdx identifies
// the question just answered, so the optional AI deep-dive button survives
// the cursor having already moved on.
func feedbackKeyboard(questionIdx int, withAI bool) *models.InlineKeyboardMarkup {
	rows := [][]models.InlineKeyboardButton{
		{{Text: "Следующий вопрос ➡️", CallbackData: "next_question"}},
	}
	if withAI {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         "🤖 Разбор от ИИ",
			CallbackData: fmt.Sprintf("ai_explain_%d", questionIdx),
		}})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func resultsText(state *session.State, p quiz.Params) string {
	percentage := quiz.Percentage(state.CorrectAnswers, state.TotalQuestions)
	grade := quiz.GradeFor(percentage)
	return fmt.Sprintf(
		"🎓 <b>Результаты теста</b>\n%s\n\n"+
			"Уровень: %s\n"+
			"Режим: %s\n"+
			"Правильных ответов: %d/%d\n"+
			"Процент: %.1f%%\n\n"+
			"<b>%s</b>\n%s",
		strings.Repeat("=", 30),
		state.Level.ResultTitle(),
		state.Mode.Label(state.Mode.Size(p)),
		state.CorrectAnswers, state.TotalQuestions,
		percentage, grade.Title, grade.Comment,
	)
}

func resultsKeyboard(level quiz.Level, mode quiz.Mode) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
		{{Text: "Пройти тест заново 🔄", CallbackData: fmt.Sprintf("retry_%s_%s", level, mode)}},
		{{Text: "Выбрать другой уровень 🎯", CallbackData: "choose_level"}},
		{{Text: "Моя статистика 📊", CallbackData: "show_stats"}},
	}}
}

// statsText renders the statistics screen for a user with at least one
// completed test. The empty case uses Messages.StatsEmpty instead.
func statsText(stats *database.UserStats) string {
	var sb strings.Builder

	fmt.Fprintf(&sb,
		"📊 <b>Ваша статистика</b>\n%s\n\n"+
			"<b>Общая статистика:</b>\n"+
			"Пройдено тестов: %d\n"+
			"Средний результат: %.1f%%\n"+
			"Лучший результат: %.1f%%\n"+
			"Правильных ответов: %d/%d\n\n",
		strings.Repeat("=", 30),
		stats.Overall.TestsTaken,
		stats.Overall.AvgPercentage,
		stats.Overall.BestPercentage,
		stats.Overall.TotalCorrect,
		stats.Overall.TotalQuestions,
	)

	if len(stats.ByLevel) > 0 {
		sb.WriteString("<b>По уровням:</b>\n")
		for _, ls := range stats.ByLevel {
			fmt.Fprintf(&sb,
				"\n%s:\n  • Попыток: %d\n  • Средний: %.1f%%\n  • Лучший: %.1f%%\n",
				quiz.Level(ls.Level).StatsTitle(),
				ls.TestsTaken, ls.AvgPercentage, ls.BestPercentage,
			)
		}
	}

	if len(stats.Recent) > 0 {
		sb.WriteString("\n\n<b>Последние тесты:</b>\n")
		for i, res := range stats.Recent {
			if i == recentStatsShown {
				break
			}
			fmt.Fprintf(&sb, "%d. %s %s - %.0f%%\n",
				i+1, quiz.Mode(res.Mode).Emoji(), res.Level, res.Percentage)
		}
	}

	return sb.String()
}

func statsKeyboard(hasTests bool) *models.InlineKeyboardMarkup {
	text := "Начать тест 🚀"
	if hasTests {
		text = "Пройти новый тест 🚀"
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
		{{Text: text, CallbackData: "choose_level"}},
	}}
}
