package gemini

import (
	"fmt"
	"strings"

	"github.com/albitskyd51/qa-interview-bot/internal/quiz"
)

// formatQuestionPrompt lays out an answered quiz question for the model:
// the question, all options, the correct answer, and the short explanation
// the user already saw. The coach persona comes from the configured system
// instruction, so the prompt itself only carries the material to expand on.
// Texts arrive pre-wrapped for chat display; line breaks are collapsed back
// into plain sentences first.
func formatQuestionPrompt(question quiz.Question, level quiz.Level) string {
	var sb strings.Builder
	sb.WriteString("Уровень: " + level.Title() + "\n")
	sb.WriteString("Вопрос: " + unwrap(question.Question) + "\n")
	sb.WriteString("Варианты ответа:\n")
	for i, opt := range question.Options {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, unwrap(opt)))
	}
	sb.WriteString("Правильный ответ: " + unwrap(question.Options[question.Correct]) + "\n")
	sb.WriteString("Краткое пояснение: " + unwrap(question.Explanation) + "\n\n")
	sb.WriteString("Разбери этот вопрос подробнее.")
	return sb.String()
}

func unwrap(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}
