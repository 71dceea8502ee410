package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// recentResultsLimit caps how many recent test results GetUserStats fetches.
const recentResultsLimit = 5

// Store defines the interface for database operations.
// Methods accept context.Context for cancellation and timeouts.
// Lookups return nil, nil when the row does not exist.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveUser inserts a user record, keeping the existing row on conflict.
	SaveUser(ctx context.Context, user *User) error

	// SaveTestResult inserts a completed quiz result.
	SaveTestResult(ctx context.Context, result *TestResult) error

	// GetUserStats aggregates a user's quiz history: overall totals,
	// per-level breakdown, and the most recent results.
	GetUserStats(ctx context.Context, userID int64) (*UserStats, error)

	// SaveSession inserts or replaces the user's in-progress quiz session.
	SaveSession(ctx context.Context, session *Session) error

	// GetSession retrieves the user's session. Returns nil, nil if not found.
	GetSession(ctx context.Context, userID int64) (*Session, error)

	// DeleteSession removes the user's session, if any.
	DeleteSession(ctx context.Context, userID int64) error

	// DeleteSessionsBefore removes sessions not touched since the cutoff.
	// Returns the number of rows deleted.
	DeleteSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveUser inserts a user record. An existing row wins: the original
// registration timestamp and name are kept (INSERT OR IGNORE).
func (s *sqlxStore) SaveUser(ctx context.Context, user *User) error {
	if user == nil {
		return fmt.Errorf("cannot save nil user")
	}
	if user.UserID == 0 {
		return fmt.Errorf("user must have a non-zero user_id")
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query := `
        INSERT OR IGNORE INTO users (user_id, username, first_name, created_at)
        VALUES (:user_id, :username, :first_name, :created_at);
    `

	if _, err := s.db.NamedExecContext(ctx, query, user); err != nil {
		s.logger.ErrorContext(ctx, "Error saving user", "user_id", user.UserID, "error", err)
		return fmt.Errorf("failed to save user %d: %w", user.UserID, err)
	}

	s.logger.DebugContext(ctx, "User saved", "user_id", user.UserID)
	return nil
}

// SaveTestResult inserts a completed quiz result inside a transaction and
// backfills the generated row ID.
func (s *sqlxStore) SaveTestResult(ctx context.Context, result *TestResult) error {
	if result == nil {
		return fmt.Errorf("cannot save nil test result")
	}
	if result.UserID == 0 {
		return fmt.Errorf("test result must have a non-zero user_id")
	}
	if result.TotalQuestions <= 0 {
		return fmt.Errorf("test result must have a positive total_questions")
	}

	if result.CompletedAt.IsZero() {
		result.CompletedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for saving test result",
			"user_id", result.UserID, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				if !errors.Is(rollbackErr, sql.ErrTxDone) {
					s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
				}
			}
		}
	}()

	query := `
        INSERT INTO test_results (user_id, level, mode, correct_answers, total_questions, percentage, completed_at)
        VALUES (:user_id, :level, :mode, :correct_answers, :total_questions, :percentage, :completed_at);
    `

	res, err := tx.NamedExecContext(ctx, query, result)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving test result", "user_id", result.UserID, "error", err)
		return fmt.Errorf("failed to save test result for user %d: %w", result.UserID, err)
	}

	id, err := res.LastInsertId()
	if err == nil {
		//nolint:gosec // integer overflow conversion is acceptable here
		result.ID = uint(id)
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving test result",
			"user_id", result.UserID, "error", err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction",
			"user_id", result.UserID, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Test result saved",
		"user_id", result.UserID, "level", result.Level, "percentage", result.Percentage)
	return nil
}

// GetUserStats aggregates a user's quiz history. The three queries run on
// the single SQLite connection, so they see a consistent snapshot.
func (s *sqlxStore) GetUserStats(ctx context.Context, userID int64) (*UserStats, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user_id cannot be zero")
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	stats := &UserStats{}

	overallQuery := `
        SELECT COUNT(*)                        AS tests_taken,
               COALESCE(AVG(percentage), 0)    AS avg_percentage,
               COALESCE(MAX(percentage), 0)    AS best_percentage,
               COALESCE(SUM(correct_answers), 0) AS total_correct,
               COALESCE(SUM(total_questions), 0) AS total_questions
        FROM test_results
        WHERE user_id = ?;
    `
	if err := s.db.GetContext(ctx, &stats.Overall, overallQuery, userID); err != nil {
		s.logger.ErrorContext(ctx, "Error getting overall stats", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get overall stats for user %d: %w", userID, err)
	}

	byLevelQuery := `
        SELECT level,
               COUNT(*)                     AS tests_taken,
               COALESCE(AVG(percentage), 0) AS avg_percentage,
               COALESCE(MAX(percentage), 0) AS best_percentage
        FROM test_results
        WHERE user_id = ?
        GROUP BY level;
    `
	if err := s.db.SelectContext(ctx, &stats.ByLevel, byLevelQuery, userID); err != nil {
		s.logger.ErrorContext(ctx, "Error getting per-level stats", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get per-level stats for user %d: %w", userID, err)
	}

	recentQuery := `
        SELECT id, user_id, level, mode, correct_answers, total_questions, percentage, completed_at
        FROM test_results
        WHERE user_id = ?
        ORDER BY completed_at DESC
        LIMIT ?;
    `
	if err := s.db.SelectContext(ctx, &stats.Recent, recentQuery, userID, recentResultsLimit); err != nil {
		s.logger.ErrorContext(ctx, "Error getting recent results", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get recent results for user %d: %w", userID, err)
	}

	s.logger.DebugContext(ctx, "Fetched user stats",
		"user_id", userID, "tests_taken", stats.Overall.TestsTaken)
	return stats, nil
}

// SaveSession inserts or replaces the user's in-progress quiz session.
func (s *sqlxStore) SaveSession(ctx context.Context, session *Session) error {
	if session == nil {
		return fmt.Errorf("cannot save nil session")
	}
	if session.UserID == 0 {
		return fmt.Errorf("session must have a non-zero user_id")
	}

	session.UpdatedAt = time.Now().UTC()
	if session.StartedAt.IsZero() {
		session.StartedAt = session.UpdatedAt
	}

	query := `
        INSERT OR REPLACE INTO sessions
            (user_id, level, mode, questions_json, current_question, correct_answers, total_questions, started_at, updated_at)
        VALUES
            (:user_id, :level, :mode, :questions_json, :current_question, :correct_answers, :total_questions, :started_at, :updated_at);
    `

	if _, err := s.db.NamedExecContext(ctx, query, session); err != nil {
		s.logger.ErrorContext(ctx, "Error saving session", "user_id", session.UserID, "error", err)
		return fmt.Errorf("failed to save session for user %d: %w", session.UserID, err)
	}

	s.logger.DebugContext(ctx, "Session saved",
		"user_id", session.UserID, "current_question", session.CurrentQuestion)
	return nil
}

// GetSession retrieves the user's session. Returns nil, nil if not found.
func (s *sqlxStore) GetSession(ctx context.Context, userID int64) (*Session, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user_id cannot be zero")
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var session Session
	query := `
        SELECT user_id, level, mode, questions_json, current_question, correct_answers, total_questions, started_at, updated_at
        FROM sessions
        WHERE user_id = ?;
    `

	err := s.db.GetContext(ctx, &session, query, userID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No session found", "user_id", userID)
		return nil, nil

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching session",
			"user_id", userID, "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting session", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get session for user %d: %w", userID, err)
	}

	return &session, nil
}

// DeleteSession removes the user's session. Deleting a missing session is
// not an error.
func (s *sqlxStore) DeleteSession(ctx context.Context, userID int64) error {
	if userID == 0 {
		return fmt.Errorf("user_id cannot be zero")
	}

	query := `DELETE FROM sessions WHERE user_id = ?;`
	if _, err := s.db.ExecContext(ctx, query, userID); err != nil {
		s.logger.ErrorContext(ctx, "Error deleting session", "user_id", userID, "error", err)
		return fmt.Errorf("failed to delete session for user %d: %w", userID, err)
	}

	s.logger.DebugContext(ctx, "Session deleted", "user_id", userID)
	return nil
}

// DeleteSessionsBefore removes sessions not touched since the cutoff.
func (s *sqlxStore) DeleteSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	query := `DELETE FROM sessions WHERE updated_at < ?;`
	result, err := s.db.ExecContext(ctx, query, cutoff.UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting expired sessions", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to delete sessions before %s: %w", cutoff.Format(time.RFC3339), err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not get affected row count for session cleanup", "error", err)
		return 0, nil
	}

	if count > 0 {
		s.logger.InfoContext(ctx, "Deleted expired sessions", "count", count, "cutoff", cutoff)
	}
	return count, nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite.
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)

	default:
		s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	}

	return nil
}
