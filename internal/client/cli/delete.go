package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/iudanet/homekeeper/internal/models"
)

func (c *Cli) runDelete(ctx context.Context, typeArg, key string, confirmed bool) error {
	entityType, err := models.ParseEntityType(typeArg)
	if err != nil {
		return fmt.Errorf("%w: %s", err, typeArg)
	}

	rec, err := c.data.Get(ctx, entityType, key)
	if err != nil {
		return err
	}

	if !confirmed {
		c.io.Printf("About to delete %s %q (%s)\n", entityType, rec["name"], rec.Key())
		answer, err := c.io.ReadInput("Are you sure? (yes/no): ")
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "yes" && answer != "y" {
			c.io.Println("Deletion cancelled.")
			return nil
		}
	}

	if err := c.data.Delete(ctx, entityType, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", entityType, err)
	}

	c.io.Printf("✓ Deleted %s %s\n", entityType, rec.Key())
	return nil
}
