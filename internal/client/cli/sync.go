package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/homekeeper/internal/client/sync"
)

func (c *Cli) runSync(ctx context.Context) error {
	c.io.Println("=== Synchronization ===")

	// пакет, прерванный прошлым запуском, уходит первым с теми же ключами
	if err := c.syncer.Start(ctx); err != nil && !errors.Is(err, sync.ErrAuthRequired) {
		c.io.Printf("⚠️  Failed to resend interrupted batch: %v\n", err)
	}

	result, err := c.syncer.RunOnce(ctx)
	if errors.Is(err, sync.ErrAuthRequired) {
		return fmt.Errorf("%w: run 'homekeeper login'", err)
	}
	if err != nil {
		return fmt.Errorf("synchronization failed: %w", err)
	}

	c.io.Println()
	if result.RequestID == "" {
		c.io.Println("Nothing to send.")
	} else {
		if result.Recovered {
			c.io.Println("Resent the batch interrupted by the previous run.")
		}
		c.io.Printf("Sent:      %d\n", result.Sent)
		c.io.Printf("Succeeded: %d\n", result.Succeeded)
		if result.Resolved+result.Requeued > 0 {
			c.io.Printf("Conflicts: %d resolved, %d resent\n", result.Resolved, result.Requeued)
		}
		if result.Failed > 0 {
			c.io.Printf("⚠️  Failed:  %d\n", result.Failed)
		}
		if result.Untouched > 0 {
			c.io.Printf("Left in queue: %d\n", result.Untouched)
		}
	}
	if result.Pulled {
		c.io.Println("✓ Local data refreshed from server")
	}

	st, err := c.syncer.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get sync status: %w", err)
	}
	if st.PendingCount > 0 {
		c.io.Printf("Pending writes: %d\n", st.PendingCount)
	}
	if st.LastError != "" {
		c.io.Printf("Last error: %s\n", st.LastError)
	}
	return nil
}

// runDaemon синхронизирует в фоне до отмены контекста
func (c *Cli) runDaemon(ctx context.Context) error {
	c.io.Println("Background sync started, press Ctrl+C to stop.")
	if err := c.syncer.Run(ctx); err != nil {
		return fmt.Errorf("background sync stopped: %w", err)
	}
	c.io.Println("Background sync stopped.")
	return nil
}
