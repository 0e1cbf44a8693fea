package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/usestring/netsearch/internal/cache"
	"github.com/usestring/netsearch/internal/config"
	"github.com/usestring/netsearch/internal/logging"
	"github.com/usestring/netsearch/internal/netlog"
	"github.com/usestring/netsearch/internal/netsearch"
	"github.com/usestring/netsearch/pkg/client"
)

// SearchCommand runs one search against a session and prints the results.
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the requests of a capture session",
		ArgsUsage: "QUERY...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "session",
				Aliases: []string{"s"},
				Usage:   "Session ID",
				Value:   "active",
			},
			&cli.BoolFlag{
				Name:    "ignore-case",
				Aliases: []string{"i"},
				Usage:   "Match case-insensitively",
			},
			&cli.BoolFlag{
				Name:    "regex",
				Aliases: []string{"r"},
				Usage:   "Treat tokens as regular expressions",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Only search requests to this host ('*.example.com' includes subdomains)",
			},
			&cli.BoolFlag{
				Name:  "selected",
				Usage: "Only search entries selected in powhttp",
			},
			&cli.BoolFlag{
				Name:  "bookmarked",
				Usage: "Only search bookmarked entries",
			},
			&cli.StringSliceFlag{
				Name:  "highlighted",
				Usage: "Only search entries highlighted in these colors",
			},
			&cli.IntFlag{
				Name:  "max-matches",
				Usage: "Matches printed per request (0 prints all)",
				Value: 5,
			},
			&cli.StringFlag{
				Name:  "locale",
				Usage: "Locale for sorting and messages (overrides SEARCH_LOCALE)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(query) == "" {
				return fmt.Errorf("a query is required")
			}

			cfg := config.Load()
			if level := c.String("log-level"); level != "" {
				cfg.LogLevel = level
			}
			if locale := c.String("locale"); locale != "" {
				cfg.SearchLocale = locale
			}

			cleanup, err := logging.Setup(logging.Config{
				Level:      cfg.LogLevel,
				Format:     cfg.LogFormat,
				FilePath:   cfg.LogFile,
				MaxSizeMB:  cfg.LogMaxSizeMB,
				MaxBackups: cfg.LogMaxBackups,
				MaxAgeDays: cfg.LogMaxAgeDays,
				Compress:   cfg.LogCompress,
			})
			if err != nil {
				return fmt.Errorf("failed to setup logging: %w", err)
			}
			defer cleanup()

			ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
			defer cancel()

			contentCache, err := cache.NewContentCache(cfg.ContentCacheMaxItems)
			if err != nil {
				return fmt.Errorf("failed to create content cache: %w", err)
			}
			powClient := client.New(
				client.WithBaseURL(cfg.PowHTTPBaseURL),
				client.WithTimeout(cfg.HTTPClientTimeout),
			)

			log, err := loadLog(ctx, c, powClient, contentCache, cfg)
			if err != nil {
				return err
			}
			var source netsearch.RequestSource = log
			if host := c.String("host"); host != "" {
				source = log.ForHost(host)
			}

			scope := netsearch.NewScope(source,
				netsearch.WithMaxWorkers(cfg.SearchMaxWorkers),
				netsearch.WithLocale(netsearch.ParseLocale(cfg.SearchLocale)),
			)
			r := newRenderer(os.Stdout, scope.Locale(), c.Int("max-matches"))
			q := netsearch.NewConfig(query, c.Bool("ignore-case"), c.Bool("regex"))

			scope.PerformSearch(ctx, q, netsearch.NewTracker(ctx), r.result, r.finished)
			return nil
		},
	}
}

// loadLog loads the requests to search. Selection flags list the matching
// entries in one call; otherwise the whole session is synced.
func loadLog(ctx context.Context, c *cli.Command, powClient *client.Client, contentCache *cache.ContentCache, cfg *config.Config) (*netlog.Log, error) {
	sessionID := c.String("session")

	opts := &client.ListEntriesOptions{
		Selected:    c.Bool("selected"),
		Bookmarked:  c.Bool("bookmarked"),
		Highlighted: c.StringSlice("highlighted"),
	}
	if !opts.Selected && !opts.Bookmarked && len(opts.Highlighted) == 0 {
		syncer := netlog.NewSyncer(powClient, contentCache, cfg)
		if err := syncer.RefreshSession(ctx, sessionID); err != nil {
			return nil, fmt.Errorf("loading session %s: %w", sessionID, err)
		}
		return syncer.Log(sessionID), nil
	}

	entries, err := powClient.ListEntries(ctx, sessionID, opts)
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", sessionID, err)
	}
	log := netlog.NewLog(contentCache)
	for i := range entries {
		log.Add(&entries[i])
	}
	return log, nil
}
