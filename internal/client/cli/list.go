package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/iudanet/homekeeper/internal/client/cache"
	"github.com/iudanet/homekeeper/internal/models"
)

// columns поля, которые показывает list для каждого типа
var columns = map[models.EntityType][]string{
	models.EntityTypeList:   {"name", "store"},
	models.EntityTypeItem:   {"name", "quantity", "checked", "listId"},
	models.EntityTypeRecipe: {"name", "servings"},
	models.EntityTypeChore:  {"name", "assignedTo", "recurrence", "done"},
}

func (c *Cli) runList(ctx context.Context, typeArg string, asJSON bool) error {
	entityType, err := models.ParseEntityType(typeArg)
	if err != nil {
		return fmt.Errorf("%w: %s", err, typeArg)
	}

	result, err := c.data.List(ctx, entityType)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", entityType.Plural(), err)
	}

	live := make([]models.Record, 0, len(result.Entities))
	for _, rec := range result.Entities {
		if !models.IsDeleted(rec) {
			live = append(live, rec)
		}
	}

	if asJSON {
		data, err := json.MarshalIndent(live, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", entityType.Plural(), err)
		}
		c.io.Println(string(data))
		return nil
	}

	if banner := stalenessBanner(result); banner != "" {
		c.io.Println(banner)
		c.io.Println()
	}

	if len(live) == 0 {
		c.io.Printf("No %s found.\n", entityType.Plural())
		return nil
	}

	cols := columns[entityType]
	w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "ID")
	for _, col := range cols {
		fmt.Fprintf(w, "\t%s", col)
	}
	fmt.Fprintln(w)
	for _, rec := range live {
		fmt.Fprint(w, rec.Key())
		for _, col := range cols {
			fmt.Fprintf(w, "\t%s", cell(rec[col]))
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to print %s: %w", entityType.Plural(), err)
	}
	return nil
}

// stalenessBanner предупреждение о свежести показанных данных
func stalenessBanner(result *cache.ReadResult) string {
	switch result.Status {
	case models.ReadStatusCorrupt:
		return "⚠️  Local copy was damaged and has been reset."
	case models.ReadStatusFutureVersion:
		return "⚠️  Local copy was written by a newer version of homekeeper and is shown read-only."
	}
	if result.Source == cache.SourceNetwork {
		return ""
	}

	switch result.Staleness {
	case models.StalenessStale:
		return fmt.Sprintf("Data may be out of date (last synced %s).", formatTime(result.LastSyncedAt))
	case models.StalenessExpired, models.StalenessMissing:
		return fmt.Sprintf("⚠️  Offline: showing local data (last synced %s).", formatTime(result.LastSyncedAt))
	}
	return ""
}

func cell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case bool:
		if val {
			return "✓"
		}
		return ""
	case float64:
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprint(val)
	}
}
