package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iudanet/homekeeper/internal/models"
)

// runGet печатает запись целиком в JSON
func (c *Cli) runGet(ctx context.Context, typeArg, key string) error {
	entityType, err := models.ParseEntityType(typeArg)
	if err != nil {
		return fmt.Errorf("%w: %s", err, typeArg)
	}

	rec, err := c.data.Get(ctx, entityType, key)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", entityType, err)
	}
	c.io.Println(string(data))
	return nil
}
