package mcpsrv

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/netsearch/internal/cache"
	"github.com/usestring/netsearch/internal/config"
	"github.com/usestring/netsearch/internal/logging"
	"github.com/usestring/netsearch/internal/mcp"
	"github.com/usestring/netsearch/internal/mcp/tools"
	"github.com/usestring/netsearch/internal/netlog"
	"github.com/usestring/netsearch/internal/netsearch"
	"github.com/usestring/netsearch/pkg/client"
)

// Server is the network search MCP server.
// It wraps the internal implementation and provides extension points.
type Server struct {
	internal   *mcp.Server
	syncer     *netlog.Syncer
	deps       *Deps
	logCleanup func() error
}

// NewServer creates a new MCP server with the builtin search tools.
//
// The client parameter is required and provides access to the powhttp API.
// Use functional options to configure logging, add custom tools, etc.
func NewServer(c *client.Client, opts ...Option) (*Server, error) {
	if c == nil {
		return nil, fmt.Errorf("client is required")
	}

	cfg := &serverConfig{
		config: config.Load(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.locale != "" {
		cfg.config.SearchLocale = cfg.locale
	}
	if cfg.maxWorkers != 0 {
		cfg.config.SearchMaxWorkers = cfg.maxWorkers
	}

	logCfg := logging.Config{
		Level:      cfg.config.LogLevel,
		Format:     cfg.config.LogFormat,
		FilePath:   cfg.config.LogFile,
		MaxSizeMB:  cfg.config.LogMaxSizeMB,
		MaxBackups: cfg.config.LogMaxBackups,
		MaxAgeDays: cfg.config.LogMaxAgeDays,
		Compress:   cfg.config.LogCompress,
	}
	if cfg.logLevel != "" {
		logCfg.Level = cfg.logLevel
	}
	if cfg.logFile != "" {
		logCfg.FilePath = cfg.logFile
	}
	logCleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	contentCache, err := cache.NewContentCache(cfg.config.ContentCacheMaxItems)
	if err != nil {
		return nil, fmt.Errorf("failed to create content cache: %w", err)
	}
	syncer := netlog.NewSyncer(c, contentCache, cfg.config)
	locale := netsearch.ParseLocale(cfg.config.SearchLocale)

	toolDeps := &tools.Deps{
		Syncer: syncer,
		Cache:  contentCache,
		Config: cfg.config,
		Locale: locale,
	}
	deps := &Deps{
		Client: c,
		Syncer: syncer,
		Cache:  contentCache,
		Config: cfg.config,
		Locale: locale,
	}

	var internalOpts []mcp.ServerOption
	if !cfg.disableBuiltinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}
	for _, fn := range cfg.toolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.deferredToolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			fn(srv, deps)
		}))
	}

	internal, err := mcp.NewServer(toolDeps, internalOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Server{
		internal:   internal,
		syncer:     syncer,
		deps:       deps,
		logCleanup: logCleanup,
	}, nil
}

// Run starts the MCP server with stdio transport.
// It also starts background refresh for all sessions.
// The server runs until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.syncer.StartBackgroundRefresh(ctx)
	return s.internal.Run(ctx)
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.logCleanup != nil {
		return s.logCleanup()
	}
	return nil
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}
