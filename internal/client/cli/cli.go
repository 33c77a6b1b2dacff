package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"storeclient/internal/client/api"
	"storeclient/internal/client/iocli"
	"storeclient/internal/client/session"
)

type Cli struct {
	apiClient *api.Client
	sessions  *session.Service
	io        iocli.IO
	logger    *slog.Logger
}

func New(apiClient *api.Client, sessions *session.Service, io iocli.IO, logger *slog.Logger) *Cli {
	return &Cli{
		apiClient: apiClient,
		sessions:  sessions,
		io:        io,
		logger:    logger,
	}
}

func (c *Cli) Run(ctx context.Context, command string, args []string) {
	switch command {
	case "register":
		c.exitOnError(c.runRegister(ctx))
	case "login":
		c.exitOnError(c.runLogin(ctx))
	case "logout":
		c.exitOnError(c.runLogout(ctx))
	case "status":
		c.exitOnError(c.runStatus(ctx))
	case "search":
		c.exitOnError(c.runSearch(ctx, args))
	case "cart":
		c.exitOnError(c.runCart(ctx, args))
	case "fav":
		c.exitOnError(c.runFavorites(ctx, args))
	case "product":
		c.exitOnError(c.runProduct(ctx, args))
	case "deal":
		c.exitOnError(c.runDeal(ctx, args))
	case "supplier":
		c.exitOnError(c.runSupplier(ctx, args))
	case "order":
		c.exitOnError(c.runOrder(ctx))
	case "help", "":
		PrintUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		PrintUsage()
		os.Exit(1)
	}
}

func (c *Cli) exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func PrintUsage() {
	fmt.Println(`storeclient - storefront client

Usage:
  storeclient [flags] <command> [arguments]

Auth commands:
  register              Register a new account
  login                 Log in and save the session
  logout                Remove the saved session
  status                Show session status

Catalog commands:
  search [term]         Search the catalog (interactive without term)
  product <id>          Show product details
  deal <id>             Show deal details
  supplier <id>         Show supplier details

Cart commands:
  cart                  Show the cart
  cart add <id>         Add a product to the cart
  cart inc <id>         Increase line quantity
  cart dec <id>         Decrease line quantity
  cart rm <id>          Remove a line from the cart
  order                 Create an order from the cart

Favorites commands:
  fav                   List favorite products
  fav toggle <id>       Toggle product favorite status

Flags:
  -server <url>         Server base URL (default http://localhost:8080)
  -db <path>            Local database path (default ~/.storeclient/client.db)`)
}
