package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/depstatus/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr   string
		assets string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve dependency status badges over HTTP",
		Long: `Serve starts the badge server.

Badges are served at /{owner}/{name}/status.svg, dev-status.svg and
build-status.svg (PNG variants too). Add ?branch= or ?path= to select the
manifest.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("assets") {
				cfg.Assets = assets
			}

			ctx := cmd.Context()
			eng, closeFn, err := c.newEngine(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			c.Logger.Info("starting badge server",
				"resolver", eng.ResolverName(),
				"cache", cfg.Cache,
				"branch", cfg.Branch)

			srv := server.New(server.Config{
				Checker: eng,
				Assets:  server.AssetsWithOverrides(cfg.Assets),
				Logger:  c.Logger,
			})
			return srv.ListenAndServe(ctx, cfg.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&assets, "assets", "", "directory with badge images overriding the built-in ones")

	return cmd
}
