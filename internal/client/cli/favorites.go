package cli

import (
	"context"
	"fmt"

	"storeclient/internal/client/state"
)

func (c *Cli) runFavorites(ctx context.Context, args []string) error {
	sess, err := c.requireSession(ctx)
	if err != nil {
		return err
	}

	engine := state.NewFavoritesEngine(c.apiClient, sess.UserID, c.logger)
	if err := engine.Refresh(ctx); err != nil {
		return err
	}

	if len(args) == 0 {
		return c.favoritesList(ctx, engine)
	}

	switch args[0] {
	case "toggle":
		if len(args) < 2 {
			return fmt.Errorf("missing product id. Usage: storeclient fav toggle <id>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		if err := engine.Toggle(ctx, id); err != nil {
			return err
		}
		if engine.IsFavorite(id) {
			c.io.Printf("Product %d added to favorites.\n", id)
		} else {
			c.io.Printf("Product %d removed from favorites.\n", id)
		}
		return nil
	default:
		return fmt.Errorf("unknown fav subcommand: %s. Use: toggle", args[0])
	}
}

func (c *Cli) favoritesList(ctx context.Context, engine *state.FavoritesEngine) error {
	ids := engine.IDs()
	if len(ids) == 0 {
		c.io.Println("No favorites yet.")
		return nil
	}

	c.io.Printf("Favorites (%d):\n", engine.Count())
	for _, id := range ids {
		product, err := c.apiClient.GetProduct(ctx, id)
		if err != nil {
			c.io.Printf("  [%d] (failed to load: %v)\n", id, err)
			continue
		}
		c.io.Printf("  [%d] %s  %s\n", product.ID, product.Name, product.UnitPrice.StringFixed(2))
	}
	return nil
}
