package cli

import (
	"context"
	"fmt"
	"time"

	"storeclient/internal/client/state"
	"storeclient/pkg/api"
)

func (c *Cli) runProduct(ctx context.Context, args []string) error {
	return runDetail(ctx, c, args, c.apiClient.GetProduct, func(p *api.Product) {
		c.io.Printf("Product [%d] %s\n", p.ID, p.Name)
		if p.Category != "" {
			c.io.Printf("Category: %s\n", p.Category)
		}
		if p.IsOnSale && p.DiscountPrice.IsPositive() {
			c.io.Printf("Price: %s (was %s)\n", p.DiscountPrice.StringFixed(2), p.UnitPrice.StringFixed(2))
		} else {
			c.io.Printf("Price: %s\n", p.UnitPrice.StringFixed(2))
		}
		if p.Description != "" {
			c.io.Println(p.Description)
		}
	})
}

func (c *Cli) runDeal(ctx context.Context, args []string) error {
	return runDetail(ctx, c, args, c.apiClient.GetDeal, func(d *api.Deal) {
		c.io.Printf("Deal [%d] %s\n", d.ID, d.Title)
		c.io.Printf("Price: %s (was %s)\n", d.DiscountPrice.StringFixed(2), d.Price.StringFixed(2))
		c.io.Printf("Expires: %s\n", d.ExpiresAt.Format(time.RFC3339))
		if d.Description != "" {
			c.io.Println(d.Description)
		}
	})
}

func (c *Cli) runSupplier(ctx context.Context, args []string) error {
	return runDetail(ctx, c, args, c.apiClient.GetSupplier, func(s *api.Supplier) {
		c.io.Printf("Supplier [%d] %s\n", s.ID, s.Name)
		if s.Location != "" {
			c.io.Printf("Location: %s\n", s.Location)
		}
		c.io.Printf("Rating: %d/5\n", s.Rating)
		if s.Description != "" {
			c.io.Println(s.Description)
		}
	})
}

// runDetail открывает слот деталей, дожидается загрузки и печатает
// результат через print. Один механизм на все три вида карточек.
func runDetail[T any](ctx context.Context, c *Cli, args []string, fetch state.FetchFunc[T], print func(*T)) error {
	if _, err := c.requireSession(ctx); err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("missing id")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	fetcher := state.NewDetailFetcher(fetch, c.logger)

	done := make(chan state.DetailSnapshot[T], 1)
	fetcher.SetOnUpdate(func(snap state.DetailSnapshot[T]) {
		if snap.Status == state.DetailLoaded || snap.Status == state.DetailError {
			select {
			case done <- snap:
			default:
			}
		}
	})

	fetcher.Open(ctx, id)

	select {
	case snap := <-done:
		if snap.Status == state.DetailError {
			return fmt.Errorf("%s", snap.Err)
		}
		print(snap.Payload)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
