package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/homekeeper/internal/models"
)

func (c *Cli) runAddList(ctx context.Context, list *models.ShoppingList) error {
	rec, err := c.data.AddList(ctx, list)
	if err != nil {
		return fmt.Errorf("failed to add list: %w", err)
	}
	c.printAdded(models.EntityTypeList, rec)
	return nil
}

func (c *Cli) runAddItem(ctx context.Context, item *models.ShoppingItem) error {
	rec, err := c.data.AddItem(ctx, item)
	if err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}
	c.printAdded(models.EntityTypeItem, rec)
	return nil
}

func (c *Cli) runAddRecipe(ctx context.Context, recipe *models.Recipe) error {
	rec, err := c.data.AddRecipe(ctx, recipe)
	if err != nil {
		return fmt.Errorf("failed to add recipe: %w", err)
	}
	c.printAdded(models.EntityTypeRecipe, rec)
	return nil
}

func (c *Cli) runAddChore(ctx context.Context, chore *models.Chore) error {
	rec, err := c.data.AddChore(ctx, chore)
	if err != nil {
		return fmt.Errorf("failed to add chore: %w", err)
	}
	c.printAdded(models.EntityTypeChore, rec)
	return nil
}

func (c *Cli) printAdded(entityType models.EntityType, rec models.Record) {
	c.io.Printf("✓ Added %s %q\n", entityType, rec["name"])
	c.io.Printf("ID: %s\n", rec.Key())
	c.io.Println("The change is saved locally and will be sent on the next sync.")
}
