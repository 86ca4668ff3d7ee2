package cli

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// runLogin сохраняет выданный сервером bearer-токен.
// Если токен не передан аргументом, он запрашивается без эха.
func (c *Cli) runLogin(ctx context.Context, token string) error {
	c.io.Println("=== Login ===")

	if token == "" {
		var err error
		token, err = c.io.ReadSecret("Access token: ")
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}

	session, err := c.session.Login(ctx, token)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	// новый токен снимает остановку синхронизации
	c.syncer.ResetAuth()

	c.io.Println()
	c.io.Println("✓ Login successful!")
	if session.Username != "" {
		c.io.Printf("Username: %s\n", session.Username)
	}
	if session.ExpiresAt.IsZero() {
		c.io.Println("Token expires: never")
	} else {
		c.io.Printf("Token expires: %s\n", session.ExpiresAt.Local().Format(time.RFC3339))
	}
	return nil
}
