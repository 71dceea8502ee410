package quiz

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode/utf8"
)

// Level is a quiz difficulty tier.
type Level string

// Difficulty tiers, mirroring the career ladder the bot quizzes for.
const (
	LevelJunior Level = "junior"
	LevelMiddle Level = "middle"
	LevelSenior Level = "senior"
)

// Levels returns all tiers in menu order.
func Levels() []Level {
	return []Level{LevelJunior, LevelMiddle, LevelSenior}
}

// ParseLevel validates a level token from callback data.
func ParseLevel(s string) (Level, error) {
	switch l := Level(s); l {
	case LevelJunior, LevelMiddle, LevelSenior:
		return l, nil
	default:
		return "", fmt.Errorf("unknown level %q", s)
	}
}

// Emoji is the level marker used across menus and question headers.
func (l Level) Emoji() string {
	switch l {
	case LevelJunior:
		return "🌱"
	case LevelMiddle:
		return "🚀"
	case LevelSenior:
		return "👑"
	default:
		return ""
	}
}

// Title is the short level name used in menus.
func (l Level) Title() string {
	switch l {
	case LevelJunior:
		return "Junior QA"
	case LevelMiddle:
		return "Middle QA"
	case LevelSenior:
		return "Senior QA"
	default:
		return string(l)
	}
}

// ResultTitle is the long level name used on the results screen.
func (l Level) ResultTitle() string {
	switch l {
	case LevelJunior:
		return "Junior QA Engineer 🌱"
	case LevelMiddle:
		return "Middle QA Engineer 🚀"
	case LevelSenior:
		return "Senior QA Engineer 👑"
	default:
		return string(l)
	}
}

// StatsTitle is the compact level name used in the statistics breakdown.
func (l Level) StatsTitle() string {
	switch l {
	case LevelJunior:
		return "Junior 🌱"
	case LevelMiddle:
		return "Middle 🚀"
	case LevelSenior:
		return "Senior 👑"
	default:
		return string(l)
	}
}

// Mode is a quiz length preset.
type Mode string

// Length presets: a full run and a quick check.
const (
	ModeFull  Mode = "full"
	ModeQuick Mode = "quick"
)

// ParseMode validates a mode token from callback data.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeFull, ModeQuick:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// Emoji is the mode marker used in headers and the stats view.
func (m Mode) Emoji() string {
	if m == ModeQuick {
		return "⚡️"
	}
	return "📝"
}

// Label is the mode name with its draw size, e.g. "Полный тест (20 вопросов)".
func (m Mode) Label(questions int) string {
	if m == ModeQuick {
		return fmt.Sprintf("Быстрый тест (%d вопросов)", questions)
	}
	return fmt.Sprintf("Полный тест (%d вопросов)", questions)
}

// Params sizes a quiz draw.
type Params struct {
	QuickQuestions int
	FullQuestions  int
	WrapWidth      int
}

// Size returns the draw size for this mode.
func (m Mode) Size(p Params) int {
	if m == ModeQuick {
		return p.QuickQuestions
	}
	return p.FullQuestions
}

// Build draws a quiz: up to Size(p) random questions from the level's pool,
// without replacement, each with its options reshuffled and the correct
// index recomputed. All texts are wrapped to p.WrapWidth runes per line.
// rng may be nil; the shared math/rand source is used then.
func Build(bank Bank, level Level, mode Mode, p Params, rng *rand.Rand) ([]Question, error) {
	pool, ok := bank[level]
	if !ok || len(pool) == 0 {
		return nil, fmt.Errorf("no questions for level %q", level)
	}

	perm := rand.Perm
	if rng != nil {
		perm = rng.Perm
	}

	n := mode.Size(p)
	if n > len(pool) {
		n = len(pool)
	}

	quiz := make([]Question, 0, n)
	for _, i := range perm(len(pool))[:n] {
		quiz = append(quiz, shuffleOptions(pool[i], p.WrapWidth, perm))
	}
	return quiz, nil
}

// shuffleOptions permutes a question's options, tracking where the correct
// answer lands. The option multiset and the correct answer text never change;
// only the index moves.
func shuffleOptions(q Question, wrapWidth int, perm func(int) []int) Question {
	shuffled := Question{
		Question:    WrapText(q.Question, wrapWidth),
		Options:     make([]string, len(q.Options)),
		Explanation: WrapText(q.Explanation, wrapWidth),
	}
	for newIdx, oldIdx := range perm(len(q.Options)) {
		shuffled.Options[newIdx] = WrapText(q.Options[oldIdx], wrapWidth)
		if oldIdx == q.Correct {
			shuffled.Correct = newIdx
		}
	}
	return shuffled
}

// WrapText re-flows text into lines of at most width runes, breaking on
// whitespace. A word longer than the width gets a line of its own.
func WrapText(text string, width int) string {
	words := strings.Fields(text)

	var lines []string
	var current []string
	currentLen := 0

	for _, w := range words {
		wl := utf8.RuneCountInString(w)
		if currentLen+wl+1 <= width {
			current = append(current, w)
			currentLen += wl + 1
		} else {
			if len(current) > 0 {
				lines = append(lines, strings.Join(current, " "))
			}
			current = []string{w}
			currentLen = wl
		}
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}

	return strings.Join(lines, "\n")
}

// ProgressBar renders quiz progress as a fixed-width bar: [███░░░░░░░] 3/10.
func ProgressBar(current, total, width int) string {
	filled := 0
	if total > 0 {
		filled = width * current / total
	}
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %d/%d", bar, current, total)
}

// Percentage is the score share of correct answers, 0 when total is 0.
func Percentage(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// Grade is the verdict shown on the results screen.
type Grade struct {
	Title   string
	Comment string
}

// GradeFor maps a score percentage to its verdict.
func GradeFor(percentage float64) Grade {
	switch {
	case percentage >= 90:
		return Grade{Title: "Отлично! 🌟", Comment: "Ты отлично подготовлен к собеседованию!"}
	case percentage >= 70:
		return Grade{Title: "Хорошо! 👍", Comment: "Неплохой результат, но есть куда расти."}
	case percentage >= 50:
		return Grade{Title: "Удовлетворительно 📚", Comment: "Стоит подтянуть знания по некоторым темам."}
	default:
		return Grade{Title: "Нужно больше практики 💪", Comment: "Рекомендую повторить материал и попробовать еще раз."}
	}
}
