package main

import (
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/server"
)

func newServeCmd(opts *options) *cobra.Command {
	var (
		port       string
		host       string
		translator string
		catalog    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if translator != "" {
				cfg.Translator.Mode = translator
			}
			if catalog != "" {
				cfg.Catalog.Path = catalog
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			srv, err := server.NewServer(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer srv.Close()

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Server port (default from PORT)")
	cmd.Flags().StringVar(&host, "host", "", "Server host (default from HOST)")
	cmd.Flags().StringVar(&translator, "translator", "", "Translator mode: keyword or remote (default from TRANSLATOR_MODE)")
	cmd.Flags().StringVar(&catalog, "catalog", "", "App catalog file, YAML or TOML (default from CATALOG_PATH)")
	return cmd
}
