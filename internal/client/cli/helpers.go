package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	clientstorage "storeclient/internal/client/storage"
	"storeclient/internal/models"
)

// requireSession загружает сохраненную сессию и устанавливает токен
// на API клиенте. Все команды, требующие авторизации, начинаются с нее.
func (c *Cli) requireSession(ctx context.Context) (*clientstorage.SessionData, error) {
	sess, err := c.sessions.Current(ctx)
	if err != nil {
		if errors.Is(err, clientstorage.ErrSessionNotFound) {
			return nil, fmt.Errorf("not authenticated. Please run 'storeclient login' first")
		}
		return nil, fmt.Errorf("session check failed: %w", err)
	}

	c.apiClient.SetToken(sess.AccessToken)
	return sess, nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %q", arg)
	}
	return id, nil
}

// printCart печатает позиции корзины и итог
func (c *Cli) printCart(lines models.CartLines) {
	if len(lines) == 0 {
		c.io.Println("Cart is empty.")
		return
	}

	c.io.Printf("%-6s %-30s %10s %6s %12s\n", "ID", "Name", "Price", "Qty", "Subtotal")
	for _, l := range lines {
		name := l.Name
		if l.IsOnSale {
			name += " (sale)"
		}
		c.io.Printf("%-6d %-30s %10s %6d %12s\n",
			l.ProductID, name, l.EffectivePrice().StringFixed(2), l.Quantity, l.Subtotal().StringFixed(2))
	}
	c.io.Printf("%54s %12s\n", "Total:", lines.Total().StringFixed(2))
}
