package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/homekeeper/internal/client/auth"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Status ===")
	c.io.Println()

	session, err := c.session.Session(ctx)
	switch {
	case errors.Is(err, auth.ErrNotSignedIn):
		c.io.Println("Account: not signed in")
	case err != nil:
		return fmt.Errorf("failed to read session: %w", err)
	default:
		c.printSession(session)
	}

	st, err := c.syncer.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get sync status: %w", err)
	}

	c.io.Println()
	if st.PendingCount > 0 {
		c.io.Printf("Pending writes: %d\n", st.PendingCount)
	} else {
		c.io.Println("Pending writes: none")
	}
	if st.FailedCount > 0 {
		c.io.Printf("⚠️  Failed writes: %d (see 'homekeeper queue ls', retry with 'homekeeper queue retry')\n", st.FailedCount)
	}
	c.io.Printf("Last synced at: %s\n", formatTime(st.LastSyncedAt))
	c.io.Printf("Sync state: %s\n", st.State)
	if st.LastError != "" {
		c.io.Printf("Last error: %s\n", st.LastError)
	}
	if st.AuthRequired {
		c.io.Println("⚠️  Authentication required. Run 'homekeeper login'.")
	}
	return nil
}

func (c *Cli) printSession(session *auth.Session) {
	name := session.Username
	if name == "" {
		name = session.UserID
	}
	c.io.Printf("Account: %s\n", name)

	if session.ExpiresAt.IsZero() {
		return
	}
	remaining := session.ExpiresAt.Sub(c.now())
	if remaining > 0 {
		c.io.Printf("Token expires: %s (in %s)\n", session.ExpiresAt.Local().Format(time.RFC3339), remaining.Round(time.Second))
	} else {
		c.io.Println("⚠️  Token has expired. Please login again.")
	}
}
