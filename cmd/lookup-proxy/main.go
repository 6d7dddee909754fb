// Command lookup-proxy serves bulk user lookups over HTTP and resolves
// one-off lookups from the command line.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/social-lookup/internal/config"
	"github.com/Sternrassler/social-lookup/pkg/client"
	"github.com/Sternrassler/social-lookup/pkg/logging"
	"github.com/Sternrassler/social-lookup/pkg/lookup"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "lookup-proxy",
		Short:         "Batched, cached bulk user lookups",
		Long:          "Resolves large sets of user ids through a shared cache and concurrent 100-id calls to the users API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (env LOOKUP_* overrides it)")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		logging.Setup(cfg.LoggerConfig())
		return cfg, nil
	}

	rootCmd.AddCommand(
		serveCmd(load),
		lookupCmd(load),
	)
	return rootCmd
}

// app holds the collaborators shared by every subcommand.
type app struct {
	config     *config.Config
	api        *client.Client
	engine     *lookup.Engine
	closeStore func() error
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	store, closeStore, err := config.OpenStore(ctx, cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	api, err := client.New(cfg.ClientConfig())
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("create api client: %w", err)
	}

	engine, err := lookup.NewEngine(store, api, cfg.EngineConfig())
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("create lookup engine: %w", err)
	}

	return &app{
		config:     cfg,
		api:        api,
		engine:     engine,
		closeStore: closeStore,
	}, nil
}

// Close releases the cache backend.
func (a *app) Close() error {
	return a.closeStore()
}
