package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
)

func (c *Cli) runQueueList(ctx context.Context) error {
	writes, err := c.queue.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to read queue: %w", err)
	}

	if len(writes) == 0 {
		c.io.Println("Queue is empty.")
	} else {
		w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "OPERATION\tTYPE\tACTION\tENTITY\tSTATUS\tATTEMPTS\tLAST ERROR")
		for _, qw := range writes {
			entity := qw.Target.ID
			if entity == "" {
				entity = qw.Target.LocalID
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
				qw.OperationID, qw.EntityType, qw.Action, entity, qw.Status, qw.Attempts, qw.LastError)
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("failed to print queue: %w", err)
		}
	}

	quarantined, err := c.queue.Quarantined(ctx)
	if err != nil {
		return fmt.Errorf("failed to read quarantine: %w", err)
	}
	if len(quarantined) > 0 {
		c.io.Println()
		c.io.Printf("⚠️  %d damaged entries were set aside and will not be sent.\n", len(quarantined))
	}
	return nil
}

// runQueueRetry возвращает failed_permanent записи в очередь.
// Без аргументов повторяются все.
func (c *Cli) runQueueRetry(ctx context.Context, operationIDs []string) error {
	n, err := c.queue.Retry(ctx, operationIDs...)
	if err != nil {
		return err
	}
	if n == 0 {
		c.io.Println("No failed writes to retry.")
		return nil
	}
	c.io.Printf("✓ %d write(s) returned to the queue. Run 'homekeeper sync' to send them.\n", n)
	return nil
}
