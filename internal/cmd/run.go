package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tagmill/tagmill/internal/assetfs"
	"github.com/tagmill/tagmill/internal/server"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Serve the asset tree, rewriting documents on the way out",
	Long: `Serves the configured asset roots over HTTP. HTML documents are
rewritten per request; everything else is served verbatim. With
assets.watch enabled, file changes under the roots invalidate the glob
cache so the next request sees the new tree.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p, err := newPipeline()
		if err != nil {
			return err
		}

		if p.cfg.Assets.Watch {
			w, err := assetfs.NewWatcher(p.assets, p.resolver.Purge, p.log)
			if err != nil {
				return err
			}
			go w.Run(ctx)
		}

		srv := server.New().
			WithConfig(p.cfg).
			WithAssets(p.assets).
			WithRewriter(p.rewriter).
			WithLogger(p.log)
		if err := srv.Init(); err != nil {
			return err
		}
		return srv.Run(ctx)
	},
}

func init() {
	RootCommand.AddCommand(runCmd)
}
