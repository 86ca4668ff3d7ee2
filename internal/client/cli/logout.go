package cli

import (
	"context"
	"fmt"
)

// runLogout удаляет токен. Очередь не трогаем: изменения уйдут после
// следующего входа
func (c *Cli) runLogout(ctx context.Context) error {
	if err := c.session.Logout(ctx); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	c.io.Println("✓ Signed out.")

	st, err := c.syncer.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get sync status: %w", err)
	}
	if pending := st.PendingCount + st.FailedCount; pending > 0 {
		c.io.Printf("%d queued change(s) kept on this device, they will be sent after the next login.\n", pending)
	}
	return nil
}
