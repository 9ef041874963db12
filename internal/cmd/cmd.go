// Package cmd implements the tagmill command line interface.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/thediveo/enumflag/v2"

	"github.com/tagmill/tagmill/internal/assetfs"
	"github.com/tagmill/tagmill/internal/config"
	"github.com/tagmill/tagmill/internal/htmlrewrite"
	"github.com/tagmill/tagmill/internal/logging"
	"github.com/tagmill/tagmill/internal/scripttag"
	"github.com/tagmill/tagmill/internal/urlglob"
)

var (
	configFiles []string
	logLevel    = logging.LevelInfo
	logFormat   = logging.FormatPretty
)

// RootCommand is the base tagmill command.
var RootCommand = &cobra.Command{
	Use:   "tagmill",
	Short: "Rewrite annotated script tags in HTML documents",
	Long: `Tagmill expands declarative script tag annotations into plain markup.

A script tag carrying asp-src-include glob patterns becomes one tag per
matched asset; a tag carrying asp-fallback-src and asp-fallback-test
gains a client-side block that loads fallback scripts when the test
expression is falsy. Documents without annotations pass through
byte-identical.

Run "tagmill run" to serve an asset tree with rewriting applied on the
way out, or "tagmill process" to rewrite documents on disk.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	RootCommand.PersistentFlags().StringArrayVarP(&configFiles, "config", "c", nil,
		"Config file or directory (repeatable, merged in order)")
	RootCommand.PersistentFlags().Var(
		enumflag.New(&logLevel, "level", logging.LevelIDs, enumflag.EnumCaseInsensitive),
		"log-level", "Log level (debug, info, warn, error)")
	RootCommand.PersistentFlags().Var(
		enumflag.New(&logFormat, "format", logging.FormatIDs, enumflag.EnumCaseInsensitive),
		"log-format", "Log format (json, pretty)")
}

func newLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{Level: logLevel, Format: logFormat})
}

// loadConfig merges and parses the config files named on the command
// line. Without -c the zero configuration applies: serve the current
// directory with defaults.
func loadConfig() (*config.Root, error) {
	if len(configFiles) == 0 {
		return &config.Root{}, nil
	}
	bs, err := config.Merge(configFiles, false)
	if err != nil {
		return nil, err
	}
	return config.Parse(bs)
}

// pipeline bundles what every subcommand builds from the configuration:
// the merged asset tree and the rewriter resolving against it.
type pipeline struct {
	cfg      *config.Root
	assets   *assetfs.Assets
	resolver *urlglob.Resolver
	rewriter *htmlrewrite.Rewriter
	log      *logging.Logger
}

func newPipeline() (*pipeline, error) {
	log := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	roots := make([]assetfs.Root, 0, len(cfg.Assets.Roots))
	for _, r := range cfg.Assets.Roots {
		roots = append(roots, assetfs.Root{Path: r.Path, Mount: r.Mount})
	}
	if len(roots) == 0 {
		roots = []assetfs.Root{{Path: "."}}
	}
	assets, err := assetfs.New(roots...)
	if err != nil {
		return nil, err
	}

	resolver := urlglob.NewResolver(assets).
		WithBasePath(cfg.Assets.BasePath).
		WithCacheSize(cfg.Cache.Size).
		WithLogger(log)
	helper := scripttag.NewHelper(resolver).WithLogger(log)

	return &pipeline{
		cfg:      cfg,
		assets:   assets,
		resolver: resolver,
		rewriter: htmlrewrite.New(helper).WithLogger(log),
		log:      log,
	}, nil
}
