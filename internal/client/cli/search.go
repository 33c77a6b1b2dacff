package cli

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"storeclient/internal/client/state"
)

func (c *Cli) runSearch(ctx context.Context, args []string) error {
	if _, err := c.requireSession(ctx); err != nil {
		return err
	}

	if len(args) > 0 {
		return c.searchOnce(ctx, strings.Join(args, " "))
	}
	return c.searchInteractive(ctx)
}

// searchOnce выполняет один поисковый запрос и печатает результаты
func (c *Cli) searchOnce(ctx context.Context, term string) error {
	if utf8.RuneCountInString(state.NormalizeTerm(term)) < state.MinTermLength {
		return fmt.Errorf("search term must be at least %d characters", state.MinTermLength)
	}

	orchestrator := state.NewSearchOrchestrator(c.apiClient, 0, c.logger)

	done := make(chan state.SearchSnapshot, 1)
	orchestrator.SetOnUpdate(func(snap state.SearchSnapshot) {
		if snap.State == state.SearchSettled {
			select {
			case done <- snap:
			default:
			}
		}
	})

	orchestrator.Submit(ctx, term)

	select {
	case snap := <-done:
		c.printSearchResults(snap)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// searchInteractive гоняет цикл ввода: каждая строка становится новым
// запросом, пустая строка завершает сеанс. Результаты печатаются
// асинхронно по мере прихода ответов.
func (c *Cli) searchInteractive(ctx context.Context) error {
	orchestrator := state.NewSearchOrchestrator(c.apiClient, 0, c.logger)
	orchestrator.SetOnUpdate(func(snap state.SearchSnapshot) {
		if snap.State == state.SearchSettled {
			c.printSearchResults(snap)
		}
	})

	c.io.Println("Interactive search. Empty line exits.")
	for {
		input, err := c.io.ReadInput("search> ")
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if input == "" {
			orchestrator.Clear(ctx)
			return nil
		}
		orchestrator.SetTerm(ctx, input)
	}
}

func (c *Cli) printSearchResults(snap state.SearchSnapshot) {
	if snap.Err != "" {
		c.io.Printf("Search error: %s\n", snap.Err)
		return
	}
	if snap.Results == nil {
		c.io.Println("No results.")
		return
	}

	products := snap.Results.Products
	c.io.Printf("Products (%d total, page %d/%d):\n",
		products.TotalItems, products.Page, products.TotalPages)
	if len(products.Items) == 0 {
		c.io.Println("  none")
	}
	for _, p := range products.Items {
		price := p.UnitPrice
		label := ""
		if p.IsOnSale && p.DiscountPrice.IsPositive() {
			price = p.DiscountPrice
			label = " (sale)"
		}
		c.io.Printf("  [%d] %s  %s%s\n", p.ID, p.Name, price.StringFixed(2), label)
	}

	if len(snap.Results.Deals) > 0 {
		c.io.Println("Deals:")
		for _, d := range snap.Results.Deals {
			c.io.Printf("  [%d] %s\n", d.ID, d.Title)
		}
	}

	if len(snap.Results.Suppliers) > 0 {
		c.io.Println("Suppliers:")
		for _, s := range snap.Results.Suppliers {
			c.io.Printf("  [%d] %s\n", s.ID, s.Name)
		}
	}
}
