package database

import (
	"time"
)

// User is a Telegram user who has interacted with the bot at least once.
// Rows are written on /start and never updated afterwards.
type User struct {
	UserID    int64     `db:"user_id"`
	Username  string    `db:"username"`
	FirstName string    `db:"first_name"`
	CreatedAt time.Time `db:"created_at"`
}

// TestResult is one completed quiz run. Percentage is computed once at
// completion time and stored, so the stats views never recompute it.
type TestResult struct {
	ID             uint      `db:"id"`
	UserID         int64     `db:"user_id"`
	Level          string    `db:"level"`
	Mode           string    `db:"mode"`
	CorrectAnswers int       `db:"correct_answers"`
	TotalQuestions int       `db:"total_questions"`
	Percentage     float64   `db:"percentage"`
	CompletedAt    time.Time `db:"completed_at"`
}

// Session is the persisted snapshot of an in-progress quiz. The question
// list (already sampled and shuffled) is stored as JSON so a restarted
// instance can resume the quiz exactly where the user left it.
// One session per user: user_id is the primary key.
type Session struct {
	UserID          int64     `db:"user_id"`
	Level           string    `db:"level"`
	Mode            string    `db:"mode"`
	QuestionsJSON   string    `db:"questions_json"`
	CurrentQuestion int       `db:"current_question"`
	CorrectAnswers  int       `db:"correct_answers"`
	TotalQuestions  int       `db:"total_questions"`
	StartedAt       time.Time `db:"started_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// OverallStats aggregates every completed test of one user.
type OverallStats struct {
	TestsTaken     int     `db:"tests_taken"`
	AvgPercentage  float64 `db:"avg_percentage"`
	BestPercentage float64 `db:"best_percentage"`
	TotalCorrect   int     `db:"total_correct"`
	TotalQuestions int     `db:"total_questions"`
}

// LevelStats aggregates a user's completed tests for one difficulty level.
type LevelStats struct {
	Level          string  `db:"level"`
	TestsTaken     int     `db:"tests_taken"`
	AvgPercentage  float64 `db:"avg_percentage"`
	BestPercentage float64 `db:"best_percentage"`
}

// UserStats is everything the statistics view needs, fetched in one call.
type UserStats struct {
	Overall OverallStats
	ByLevel []LevelStats
	Recent  []TestResult
}
