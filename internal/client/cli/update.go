package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/iudanet/homekeeper/internal/models"
)

// runUpdate применяет присваивания вида key=value к записи
func (c *Cli) runUpdate(ctx context.Context, typeArg, key string, assignments []string) error {
	entityType, err := models.ParseEntityType(typeArg)
	if err != nil {
		return fmt.Errorf("%w: %s", err, typeArg)
	}

	changes, err := parseAssignments(assignments)
	if err != nil {
		return err
	}

	rec, err := c.data.Update(ctx, entityType, key, changes)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", entityType, err)
	}

	c.io.Printf("✓ Updated %s %s\n", entityType, rec.Key())
	return nil
}

// parseAssignments разбирает key=value. Значения true/false и целые числа
// сохраняются с типом, остальное строкой; пустое значение очищает поле.
func parseAssignments(assignments []string) (map[string]any, error) {
	if len(assignments) == 0 {
		return nil, ErrNothingToUpdate
	}

	changes := make(map[string]any, len(assignments))
	for _, a := range assignments {
		k, v, ok := strings.Cut(a, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAssignment, a)
		}
		changes[k] = parseValue(v)
	}
	return changes, nil
}

func parseValue(v string) any {
	switch v {
	case "":
		return nil
	case "true", "false":
		return v == "true"
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return v
}
