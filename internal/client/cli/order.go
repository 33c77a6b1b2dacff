package cli

import (
	"context"
	"fmt"
	"time"

	"storeclient/internal/client/api"
)

func (c *Cli) runOrder(ctx context.Context) error {
	sess, err := c.requireSession(ctx)
	if err != nil {
		return err
	}

	resp, err := c.apiClient.CreateOrder(ctx, sess.UserID)
	if err != nil {
		if api.IsServerRejected(err) {
			return fmt.Errorf("order was not created: %w", err)
		}
		return err
	}

	c.io.Println("Order created!")
	c.io.Printf("Order ID: %s\n", resp.OrderID)
	c.io.Printf("Items: %d\n", resp.ItemCount)
	c.io.Printf("Total: %s\n", resp.Total.StringFixed(2))
	c.io.Printf("Created: %s\n", resp.CreatedAt.Format(time.RFC3339))

	return nil
}
