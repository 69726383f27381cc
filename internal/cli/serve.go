package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phindler/fpdviz/pkg/pipeline"
	"github.com/phindler/fpdviz/pkg/server"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		host       string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server.

The server exposes the parse, layout, and export pipeline for editor
frontends: POST /api/parse, POST /api/import, POST /api/export/{format},
GET and DELETE /api/session/{id}, and GET /api/health.

Configuration is read from a TOML file (--config); command-line flags
override the listener address. Without a config file the server uses an
in-memory session store and listens on 127.0.0.1:8000.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if port != 0 {
				cfg.Server.Port = port
			}
			return c.runServe(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML configuration file")
	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config)")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, cfg server.Config) error {
	ctx := cmd.Context()

	store, err := cfg.OpenStore(ctx)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	cacheImpl, err := cfg.OpenCache()
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}

	runner := pipeline.NewRunner(cacheImpl, nil, c.Logger)
	defer runner.Close()

	printInfo("Serving on http://%s", cfg.Addr())
	printDetail("Session backend: %s", cfg.Session.Backend)

	srv := server.New(cfg, runner, store, c.Logger)
	return srv.ListenAndServe(ctx)
}
