package tasks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// newKeepalivePingTask creates the scheduled task function that requests the
// service's own public URL. Free hosting tiers suspend services that get no
// inbound traffic; the ping counts as traffic and keeps the bot awake.
func newKeepalivePingTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "keepalive_ping")

	return func(ctx context.Context) error {
		pingURL := deps.Config.Keepalive.PingURL
		if pingURL == "" {
			log.WarnContext(ctx, "Keep-alive ping is scheduled but keepalive.ping_url is not set")
			return nil
		}

		log.InfoContext(ctx, "Starting scheduled keep-alive ping...", "url", pingURL)
		startTime := time.Now()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pingURL, nil)
		if err != nil {
			return fmt.Errorf("keep-alive ping request: %w", err)
		}

		client := deps.HTTPClient
		if client == nil {
			client = http.DefaultClient
		}

		resp, err := client.Do(req)
		duration := time.Since(startTime)
		if err != nil {
			log.ErrorContext(ctx, "Keep-alive ping failed", "error", err, "duration", duration)
			return fmt.Errorf("keep-alive ping: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()
		_, _ = io.Copy(io.Discard, resp.Body)

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			log.WarnContext(ctx, "Keep-alive ping returned non-success status", "status", resp.StatusCode, "duration", duration)
			return fmt.Errorf("keep-alive ping returned status %d", resp.StatusCode)
		}

		log.InfoContext(ctx, "Scheduled keep-alive ping completed successfully", "status", resp.StatusCode, "duration", duration)
		return nil
	}
}
