package quiz_test

import (
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/albitskyd51/qa-interview-bot/internal/quiz"
)

func TestWrapText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{
			name:     "empty",
			input:    "",
			width:    35,
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    "   \n  ",
			width:    35,
			expected: "",
		},
		{
			name:     "short line stays intact",
			input:    "Что такое тестирование ПО?",
			width:    35,
			expected: "Что такое тестирование ПО?",
		},
		{
			name:     "breaks on width counting the joining space",
			input:    "ab cd",
			width:    5,
			expected: "ab\ncd",
		},
		{
			name:     "fits when the space is accounted for",
			input:    "ab cd",
			width:    6,
			expected: "ab cd",
		},
		{
			name:     "long word gets its own line",
			input:    "интернационализация",
			width:    10,
			expected: "интернационализация",
		},
		{
			name:     "cyrillic counts runes not bytes",
			input:    "Отклонение результата от ожидаемого",
			width:    20,
			expected: "Отклонение\nрезультата от\nожидаемого",
		},
		{
			name:     "reflows embedded newlines",
			input:    "первая\nвторая третья",
			width:    35,
			expected: "первая вторая третья",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := quiz.WrapText(tt.input, tt.width)
			if result != tt.expected {
				t.Errorf("WrapText(%q, %d) = %q, want %q", tt.input, tt.width, result, tt.expected)
			}
		})
	}
}

func TestProgressBar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		current  int
		total    int
		width    int
		expected string
	}{
		{
			name:     "empty at start",
			current:  0,
			total:    10,
			width:    10,
			expected: "[░░░░░░░░░░] 0/10",
		},
		{
			name:     "partial fill truncates down",
			current:  1,
			total:    3,
			width:    10,
			expected: "[███░░░░░░░] 1/3",
		},
		{
			name:     "two thirds",
			current:  2,
			total:    3,
			width:    10,
			expected: "[██████░░░░] 2/3",
		},
		{
			name:     "full at end",
			current:  10,
			total:    10,
			width:    10,
			expected: "[██████████] 10/10",
		},
		{
			name:     "zero total stays empty",
			current:  0,
			total:    0,
			width:    10,
			expected: "[░░░░░░░░░░] 0/0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := quiz.ProgressBar(tt.current, tt.total, tt.width)
			if result != tt.expected {
				t.Errorf("ProgressBar(%d, %d, %d) = %q, want %q",
					tt.current, tt.total, tt.width, result, tt.expected)
			}
		})
	}
}

func TestGradeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		percentage float64
		wantTitle  string
	}{
		{name: "perfect score", percentage: 100, wantTitle: "Отлично! 🌟"},
		{name: "ninety boundary", percentage: 90, wantTitle: "Отлично! 🌟"},
		{name: "just below ninety", percentage: 89.9, wantTitle: "Хорошо! 👍"},
		{name: "seventy boundary", percentage: 70, wantTitle: "Хорошо! 👍"},
		{name: "fifty boundary", percentage: 50, wantTitle: "Удовлетворительно 📚"},
		{name: "below fifty", percentage: 49.9, wantTitle: "Нужно больше практики 💪"},
		{name: "zero", percentage: 0, wantTitle: "Нужно больше практики 💪"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			grade := quiz.GradeFor(tt.percentage)
			if grade.Title != tt.wantTitle {
				t.Errorf("GradeFor(%v).Title = %q, want %q", tt.percentage, grade.Title, tt.wantTitle)
			}
			if grade.Comment == "" {
				t.Errorf("GradeFor(%v).Comment is empty", tt.percentage)
			}
		})
	}
}

func TestPercentage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		correct  int
		total    int
		expected float64
	}{
		{name: "half", correct: 5, total: 10, expected: 50},
		{name: "all", correct: 20, total: 20, expected: 100},
		{name: "none", correct: 0, total: 10, expected: 0},
		{name: "zero total", correct: 0, total: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := quiz.Percentage(tt.correct, tt.total); got != tt.expected {
				t.Errorf("Percentage(%d, %d) = %v, want %v", tt.correct, tt.total, got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	for _, level := range quiz.Levels() {
		parsed, err := quiz.ParseLevel(string(level))
		if err != nil {
			t.Errorf("ParseLevel(%q) failed: %v", level, err)
		}
		if parsed != level {
			t.Errorf("ParseLevel(%q) = %q, want %q", level, parsed, level)
		}
	}

	if _, err := quiz.ParseLevel("principal"); err == nil {
		t.Error("ParseLevel(\"principal\") = nil error, want error")
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	for _, mode := range []quiz.Mode{quiz.ModeFull, quiz.ModeQuick} {
		parsed, err := quiz.ParseMode(string(mode))
		if err != nil {
			t.Errorf("ParseMode(%q) failed: %v", mode, err)
		}
		if parsed != mode {
			t.Errorf("ParseMode(%q) = %q, want %q", mode, parsed, mode)
		}
	}

	if _, err := quiz.ParseMode("marathon"); err == nil {
		t.Error("ParseMode(\"marathon\") = nil error, want error")
	}
}

func testBank() quiz.Bank {
	mk := func(n string) quiz.Question {
		return quiz.Question{
			Question:    "Вопрос про " + n,
			Options:     []string{n + " правильный", n + " второй", n + " третий", n + " четвертый"},
			Correct:     0,
			Explanation: "Пояснение про " + n,
		}
	}
	return quiz.Bank{
		quiz.LevelJunior: {mk("алфа"), mk("бета"), mk("гамма"), mk("дельта"), mk("эпсилон")},
		quiz.LevelMiddle: {mk("один"), mk("два"), mk("три")},
		quiz.LevelSenior: {mk("раз"), mk("два-с"), mk("три-с")},
	}
}

func TestBuildDrawSize(t *testing.T) {
	t.Parallel()

	bank := testBank()
	params := quiz.Params{QuickQuestions: 2, FullQuestions: 4, WrapWidth: 35}
	rng := rand.New(rand.NewSource(1))

	quick, err := quiz.Build(bank, quiz.LevelJunior, quiz.ModeQuick, params, rng)
	if err != nil {
		t.Fatalf("Build(quick) failed: %v", err)
	}
	if len(quick) != 2 {
		t.Errorf("quick draw has %d questions, want 2", len(quick))
	}

	full, err := quiz.Build(bank, quiz.LevelJunior, quiz.ModeFull, params, rng)
	if err != nil {
		t.Fatalf("Build(full) failed: %v", err)
	}
	if len(full) != 4 {
		t.Errorf("full draw has %d questions, want 4", len(full))
	}

	// A pool smaller than the draw size caps the draw instead of failing.
	capped, err := quiz.Build(bank, quiz.LevelMiddle, quiz.ModeFull, params, rng)
	if err != nil {
		t.Fatalf("Build(capped) failed: %v", err)
	}
	if len(capped) != 3 {
		t.Errorf("capped draw has %d questions, want all 3 from the pool", len(capped))
	}
}

func TestBuildShufflePreservesAnswers(t *testing.T) {
	t.Parallel()

	bank := testBank()
	params := quiz.Params{QuickQuestions: 2, FullQuestions: 5, WrapWidth: 35}
	rng := rand.New(rand.NewSource(7))

	built, err := quiz.Build(bank, quiz.LevelJunior, quiz.ModeFull, params, rng)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	byText := make(map[string]quiz.Question)
	for _, q := range bank[quiz.LevelJunior] {
		byText[q.Question] = q
	}

	seen := make(map[string]bool)
	for _, q := range built {
		orig, ok := byText[q.Question]
		if !ok {
			t.Fatalf("built question %q not found in the pool", q.Question)
		}
		if seen[q.Question] {
			t.Errorf("question %q drawn twice", q.Question)
		}
		seen[q.Question] = true

		if q.Correct < 0 || q.Correct >= len(q.Options) {
			t.Fatalf("question %q: correct index %d out of range", q.Question, q.Correct)
		}
		if q.Options[q.Correct] != orig.Options[orig.Correct] {
			t.Errorf("question %q: correct option = %q, want %q",
				q.Question, q.Options[q.Correct], orig.Options[orig.Correct])
		}

		gotOptions := append([]string(nil), q.Options...)
		wantOptions := append([]string(nil), orig.Options...)
		sort.Strings(gotOptions)
		sort.Strings(wantOptions)
		if diff := cmp.Diff(wantOptions, gotOptions); diff != "" {
			t.Errorf("question %q: option multiset changed (-want +got):\n%s", q.Question, diff)
		}
	}
}

func TestBuildWrapsTexts(t *testing.T) {
	t.Parallel()

	bank := quiz.Bank{
		quiz.LevelJunior: {{
			Question:    "Очень длинный вопрос который точно не поместится в одну короткую строку",
			Options:     []string{"правильный вариант ответа здесь", "второй", "третий", "четвертый"},
			Correct:     0,
			Explanation: "Длинное пояснение которое тоже придется переносить на несколько строк",
		}},
	}
	params := quiz.Params{QuickQuestions: 1, FullQuestions: 1, WrapWidth: 20}

	built, err := quiz.Build(bank, quiz.LevelJunior, quiz.ModeQuick, params, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	q := built[0]
	for _, line := range strings.Split(q.Question, "\n") {
		if n := len([]rune(line)); n > 20 {
			t.Errorf("question line %q is %d runes, want <= 20", line, n)
		}
	}
	if !strings.Contains(q.Question, "\n") {
		t.Errorf("long question %q was not wrapped", q.Question)
	}
	if !strings.Contains(q.Explanation, "\n") {
		t.Errorf("long explanation %q was not wrapped", q.Explanation)
	}
}

func TestBuildUnknownLevel(t *testing.T) {
	t.Parallel()

	params := quiz.Params{QuickQuestions: 1, FullQuestions: 1, WrapWidth: 35}
	if _, err := quiz.Build(testBank(), quiz.Level("staff"), quiz.ModeQuick, params, nil); err == nil {
		t.Error("Build() with unknown level = nil error, want error")
	}
}

func TestModeLabels(t *testing.T) {
	t.Parallel()

	if got := quiz.ModeFull.Label(20); got != "Полный тест (20 вопросов)" {
		t.Errorf("ModeFull.Label(20) = %q", got)
	}
	if got := quiz.ModeQuick.Label(10); got != "Быстрый тест (10 вопросов)" {
		t.Errorf("ModeQuick.Label(10) = %q", got)
	}
	if got := quiz.ModeQuick.Emoji(); got != "⚡️" {
		t.Errorf("ModeQuick.Emoji() = %q", got)
	}
	if got := quiz.ModeFull.Emoji(); got != "📝" {
		t.Errorf("ModeFull.Emoji() = %q", got)
	}
}
