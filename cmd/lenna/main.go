// Package main is the entry point for the lenna CLI
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/lenna/internal/config"
	"github.com/KirkDiggler/lenna/internal/errors"
)

var (
	configPath   string
	cacheBackend string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:               "lenna",
	Short:             "GFL2 wiki lookups",
	Long:              `Lenna looks up GFL2 dolls, weapons and status effects on the IOP wiki, keeping a local page cache.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&cacheBackend, "cache-backend", "",
		"page cache backend: fs, redis, sqlite or object (overrides config)")

	rootCmd.AddCommand(characterCmd)
	rootCmd.AddCommand(weaponCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
}

func loadConfig(_ *cobra.Command, _ []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cacheBackend != "" {
		c.Cache.Backend = cacheBackend
		if err := c.Validate(); err != nil {
			return errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid cache backend")
		}
	}

	slog.SetDefault(newLogger(os.Stderr, &c.Log))
	cfg = c
	return nil
}

// newLogger writes to w, never stdout, so the MCP stdio transport stays clean.
func newLogger(w io.Writer, c *config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
