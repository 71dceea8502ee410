// Package session tracks in-progress quizzes. State lives in a cache tier
// for fast access and is written through to the database on every mutation,
// so a process restart resumes a quiz where it left off.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/albitskyd51/qa-interview-bot/internal/database"
	"github.com/albitskyd51/qa-interview-bot/internal/quiz"
)

// State is one user's quiz in progress. Questions are already drawn,
// shuffled, and wrapped; CurrentQuestion indexes the next unanswered one.
type State struct {
	Level           quiz.Level      `json:"level"`
	Mode            quiz.Mode       `json:"mode"`
	Questions       []quiz.Question `json:"questions"`
	CurrentQuestion int             `json:"current_question"`
	CorrectAnswers  int             `json:"correct_answers"`
	TotalQuestions  int             `json:"total_questions"`
	StartedAt       time.Time       `json:"started_at"`
}

// Current returns the question under the cursor, or ok=false when the
// cursor has moved past the last question.
func (s *State) Current() (quiz.Question, bool) {
	if s.CurrentQuestion < 0 || s.CurrentQuestion >= len(s.Questions) {
		return quiz.Question{}, false
	}
	return s.Questions[s.CurrentQuestion], true
}

// Finished reports whether every question has been answered.
func (s *State) Finished() bool {
	return s.CurrentQuestion >= s.TotalQuestions
}

// Cache is the fast session tier. Get returns nil, nil on a miss.
type Cache interface {
	Get(ctx context.Context, userID int64) (*State, error)
	Set(ctx context.Context, userID int64, state *State) error
	Delete(ctx context.Context, userID int64) error
}

// Manager coordinates the two session tiers. The database row is the
// source of truth; cache failures degrade to the database with a warning,
// database failures are returned.
type Manager struct {
	cache  Cache
	store  database.Store
	logger *slog.Logger
}

// NewManager creates a session manager over the given cache and store.
func NewManager(cache Cache, store database.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		cache:  cache,
		store:  store,
		logger: logger.With("component", "sessions"),
	}
}

// Start registers a fresh session for the user, replacing any previous
// one and stamping the start time.
func (m *Manager) Start(ctx context.Context, userID int64, state *State) error {
	if state.StartedAt.IsZero() {
		state.StartedAt = time.Now().UTC()
	}
	return m.Save(ctx, userID, state)
}

// Save writes the session through both tiers.
func (m *Manager) Save(ctx context.Context, userID int64, state *State) error {
	record, err := toRecord(userID, state)
	if err != nil {
		return err
	}
	if err := m.store.SaveSession(ctx, record); err != nil {
		return err
	}
	if err := m.cache.Set(ctx, userID, state); err != nil {
		m.logger.WarnContext(ctx, "Session cache write failed", "error", err, "user_id", userID)
	}
	return nil
}

// Get returns the user's session, or nil, nil when none exists. A cache
// miss falls through to the database, and a hit there re-primes the cache.
func (m *Manager) Get(ctx context.Context, userID int64) (*State, error) {
	state, err := m.cache.Get(ctx, userID)
	if err != nil {
		m.logger.WarnContext(ctx, "Session cache read failed", "error", err, "user_id", userID)
	} else if state != nil {
		return state, nil
	}

	record, err := m.store.GetSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	state, err = fromRecord(record)
	if err != nil {
		return nil, err
	}
	if err := m.cache.Set(ctx, userID, state); err != nil {
		m.logger.WarnContext(ctx, "Session cache re-prime failed", "error", err, "user_id", userID)
	}
	m.logger.DebugContext(ctx, "Session recovered from database", "user_id", userID)
	return state, nil
}

// Delete removes the session from both tiers. Idempotent.
func (m *Manager) Delete(ctx context.Context, userID int64) error {
	if err := m.cache.Delete(ctx, userID); err != nil {
		m.logger.WarnContext(ctx, "Session cache delete failed", "error", err, "user_id", userID)
	}
	return m.store.DeleteSession(ctx, userID)
}

func toRecord(userID int64, state *State) (*database.Session, error) {
	questions, err := json.Marshal(state.Questions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session questions: %w", err)
	}
	return &database.Session{
		UserID:          userID,
		Level:           string(state.Level),
		Mode:            string(state.Mode),
		QuestionsJSON:   string(questions),
		CurrentQuestion: state.CurrentQuestion,
		CorrectAnswers:  state.CorrectAnswers,
		TotalQuestions:  state.TotalQuestions,
		StartedAt:       state.StartedAt,
	}, nil
}

func fromRecord(record *database.Session) (*State, error) {
	level, err := quiz.ParseLevel(record.Level)
	if err != nil {
		return nil, fmt.Errorf("corrupt session for user %d: %w", record.UserID, err)
	}
	mode, err := quiz.ParseMode(record.Mode)
	if err != nil {
		return nil, fmt.Errorf("corrupt session for user %d: %w", record.UserID, err)
	}

	var questions []quiz.Question
	if err := json.Unmarshal([]byte(record.QuestionsJSON), &questions); err != nil {
		return nil, fmt.Errorf("corrupt session for user %d: %w", record.UserID, err)
	}

	return &State{
		Level:           level,
		Mode:            mode,
		Questions:       questions,
		CurrentQuestion: record.CurrentQuestion,
		CorrectAnswers:  record.CorrectAnswers,
		TotalQuestions:  record.TotalQuestions,
		StartedAt:       record.StartedAt,
	}, nil
}
