// Package quiz holds the embedded interview question bank and the quiz
// engine: drawing questions, shuffling answer options, wrapping texts for
// narrow chat layouts, and grading results.
package quiz

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

//go:embed questions.json
var questionsJSON []byte

// Question is one multiple-choice interview question. Correct indexes into
// Options. In the embedded bank the correct option always comes first;
// Build reshuffles options on every draw so users never learn positions.
type Question struct {
	Question    string   `json:"question" validate:"required"`
	Options     []string `json:"options" validate:"required,min=2,dive,required"`
	Correct     int      `json:"correct" validate:"gte=0"`
	Explanation string   `json:"explanation" validate:"required"`
}

// Bank maps difficulty levels to their question pools.
type Bank map[Level][]Question

// Load parses and validates the embedded question bank.
func Load() (Bank, error) {
	var bank Bank
	if err := json.Unmarshal(questionsJSON, &bank); err != nil {
		return nil, fmt.Errorf("failed to parse embedded question bank: %w", err)
	}

	validate := validator.New()
	for _, level := range Levels() {
		pool, ok := bank[level]
		if !ok || len(pool) == 0 {
			return nil, fmt.Errorf("question bank has no %q level", level)
		}
		for i, q := range pool {
			if err := validate.Struct(q); err != nil {
				return nil, fmt.Errorf("invalid question %d in %q pool: %w", i, level, err)
			}
			if q.Correct >= len(q.Options) {
				return nil, fmt.Errorf("question %d in %q pool: correct index %d out of range (%d options)",
					i, level, q.Correct, len(q.Options))
			}
		}
	}

	return bank, nil
}
