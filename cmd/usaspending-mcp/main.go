// Command usaspending-mcp starts the USAspending MCP server, either on
// stdio (the default) or as an HTTP service.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"usaspending-mcp/internal/config"
	"usaspending-mcp/internal/protocol"
	"usaspending-mcp/internal/server"
	"usaspending-mcp/internal/tools"
	"usaspending-mcp/internal/usaspending"
	"usaspending-mcp/internal/warm"
)

const version = "0.1.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "usaspending-mcp",
	Short: "MCP server for USAspending.gov government-spending data",
	Long: "usaspending-mcp exposes USAspending.gov spending lookups as MCP tools, " +
		"over stdio for assistant clients or over HTTP behind a proxy.",
	RunE: runStdio,
}

var stdioCmd = &cobra.Command{
	Use:   "stdio",
	Short: "Serve the MCP protocol over stdin/stdout",
	RunE:  runStdio,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tool surface over HTTP",
	RunE:  runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")
	rootCmd.AddCommand(stdioCmd)
	rootCmd.AddCommand(serveCmd)
}

// setup loads config, builds the logger, and wires the tool registry.
func setup() (*config.Config, zerolog.Logger, *tools.Registry, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	// Logs go to stderr: stdout belongs to the protocol in stdio mode.
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()

	client := usaspending.New(cfg.BaseURL, cfg.UpstreamTimeout, log)
	registry := tools.NewRegistry(log)
	if err := tools.RegisterAll(registry, client); err != nil {
		return nil, log, nil, fmt.Errorf("register tools: %w", err)
	}
	return cfg, log, registry, nil
}

func runStdio(_ *cobra.Command, _ []string) error {
	_, log, registry, err := setup()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("version", version).Msg("serving MCP over stdio")
	srv := protocol.NewServer(registry, protocol.ServerInfo{Name: "usaspending-mcp", Version: version}, log)
	return srv.Run(ctx, os.Stdin, os.Stdout)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, log, registry, err := setup()
	if err != nil {
		return err
	}
	if cfg.Token == "" {
		log.Warn().Msg("token not set; /mcp endpoints are open")
	}

	srv := server.New(server.Config{
		Port:     cfg.Port,
		Token:    cfg.Token,
		CacheTTL: cfg.CacheTTL,
	}, registry, log)

	if cfg.WarmSchedule != "" {
		warmer, err := warm.New(cfg.WarmSchedule, srv.WarmReferenceCache, log)
		if err != nil {
			return err
		}
		warmer.Start()
		defer warmer.Stop()
		log.Info().Str("schedule", cfg.WarmSchedule).Msg("reference cache warmer enabled")
	}

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("version", version).Msg("serving MCP over HTTP")
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		return http.ListenAndServeTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile, srv.Router())
	}
	return http.ListenAndServe(addr, srv.Router())
}
