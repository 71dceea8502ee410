package tasks

import (
	"context"
	"fmt"
	"time"
)

// newSessionCleanupTask creates the scheduled task function that deletes
// quiz sessions abandoned for longer than the configured session TTL.
func newSessionCleanupTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "session_cleanup")

	return func(ctx context.Context) error {
		ttl := deps.Config.Session.TTL
		cutoff := time.Now().UTC().Add(-ttl)
		log.InfoContext(ctx, "Starting scheduled session cleanup task...", "cutoff", cutoff)
		startTime := time.Now()

		deleted, err := deps.Store.DeleteSessionsBefore(ctx, cutoff)

		duration := time.Since(startTime)

		if err != nil {
			log.ErrorContext(ctx, "Session cleanup task failed", "error", err, "duration", duration)
			return fmt.Errorf("session cleanup failed: %w", err)
		}

		log.InfoContext(ctx, "Scheduled session cleanup task completed successfully",
			"deleted", deleted, "ttl", ttl, "duration", duration)
		return nil
	}
}
