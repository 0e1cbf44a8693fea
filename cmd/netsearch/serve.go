package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/usestring/netsearch/internal/config"
	"github.com/usestring/netsearch/pkg/client"
	"github.com/usestring/netsearch/pkg/mcpsrv"
)

// ServeCommand runs the MCP server on stdio.
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the network search tools over MCP on stdio",
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer cancel()

			cfg := config.Load()
			powClient := client.New(
				client.WithBaseURL(cfg.PowHTTPBaseURL),
				client.WithTimeout(cfg.HTTPClientTimeout),
			)

			var opts []mcpsrv.Option
			if level := c.String("log-level"); level != "" {
				opts = append(opts, mcpsrv.WithLogLevel(level))
			}
			server, err := mcpsrv.NewServer(powClient, opts...)
			if err != nil {
				return err
			}
			defer server.Close()

			slog.Info("starting netsearch MCP server on stdio",
				slog.String("powhttp_base_url", powClient.BaseURL()),
			)
			if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			slog.Info("server stopped")
			return nil
		},
	}
}
