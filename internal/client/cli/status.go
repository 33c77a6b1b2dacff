package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storeclient/internal/client/session"
	clientstorage "storeclient/internal/client/storage"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Session Status ===")
	c.io.Println()

	sess, err := c.sessions.Current(ctx)
	if err != nil {
		switch {
		case errors.Is(err, clientstorage.ErrSessionNotFound):
			c.io.Println("Status: Not authenticated")
			c.io.Println()
			c.io.Println("Run 'storeclient login' to authenticate.")
			return nil
		case errors.Is(err, session.ErrSessionExpired):
			c.io.Println("Status: Session expired")
			c.io.Println()
			c.io.Println("Run 'storeclient login' to authenticate again.")
			return nil
		default:
			return fmt.Errorf("failed to check session: %w", err)
		}
	}

	c.io.Println("Status: Authenticated")
	c.io.Printf("Username: %s\n", sess.Username)
	c.io.Printf("Token expires: %s\n", sess.ExpiresAt.Format(time.RFC3339))
	c.io.Printf("Time remaining: %s\n", time.Until(sess.ExpiresAt).Round(time.Second))

	return nil
}
