package cli

import (
	"context"
	"fmt"

	"storeclient/internal/client/state"
	"storeclient/internal/models"
	"storeclient/pkg/api"
)

func (c *Cli) runCart(ctx context.Context, args []string) error {
	sess, err := c.requireSession(ctx)
	if err != nil {
		return err
	}

	engine := state.NewCartEngine(c.apiClient, sess.UserID, c.logger)
	if err := engine.Refresh(ctx); err != nil {
		return err
	}

	if len(args) == 0 {
		c.printCart(engine.Lines())
		return nil
	}

	switch args[0] {
	case "add":
		err = c.cartAdd(ctx, engine, args[1:])
	case "inc":
		err = c.cartMutate(ctx, args[1:], engine.Increase)
	case "dec":
		err = c.cartMutate(ctx, args[1:], engine.Decrease)
	case "rm":
		err = c.cartMutate(ctx, args[1:], engine.Remove)
	default:
		return fmt.Errorf("unknown cart subcommand: %s. Use: add, inc, dec, or rm", args[0])
	}
	if err != nil {
		return err
	}

	c.printCart(engine.Lines())
	return nil
}

// cartAdd загружает карточку товара и добавляет его в корзину.
// Метаданные товара нужны движку для оптимистичной отрисовки позиции.
func (c *Cli) cartAdd(ctx context.Context, engine *state.CartEngine, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing product id. Usage: storeclient cart add <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	product, err := c.apiClient.GetProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load product %d: %w", id, err)
	}

	return engine.AddOrIncrease(ctx, productFromAPI(product))
}

func (c *Cli) cartMutate(ctx context.Context, args []string, op func(context.Context, int64) error) error {
	if len(args) == 0 {
		return fmt.Errorf("missing product id")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return op(ctx, id)
}

func productFromAPI(p *api.Product) models.Product {
	return models.Product{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		UnitPrice:     p.UnitPrice,
		DiscountPrice: p.DiscountPrice,
		IsOnSale:      p.IsOnSale,
		ImageURL:      p.ImageURL,
		SupplierID:    p.SupplierID,
	}
}
