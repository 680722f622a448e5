package cli

import (
	"github.com/spf13/cobra"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/internal/server"
)

// serveCommand creates the serve command for the REST API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the store and layout pipeline over HTTP",
		Long: `Serve the store and layout pipeline over HTTP.

Exposes a JSON REST API under /api: chart layout, kinship classification,
the integrity audit, and CRUD for people, houses, and records. The server
runs until interrupted and shuts down gracefully.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if port != 0 {
				cfg.Server.Port = port
			}

			st, err := c.openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			return server.New(cfg, st, c.Logger).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "bind address (overrides config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")

	return cmd
}
