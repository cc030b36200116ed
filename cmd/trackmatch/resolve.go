package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trackmatch/internal/adjudicate"
	"github.com/pdiddy/trackmatch/internal/audit"
	"github.com/pdiddy/trackmatch/internal/cache"
	"github.com/pdiddy/trackmatch/internal/export"
	"github.com/pdiddy/trackmatch/internal/playlist"
	"github.com/pdiddy/trackmatch/internal/search"
	"github.com/pdiddy/trackmatch/internal/secrets"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <playlist.csv>",
	Short: "Resolve a playlist against the catalog",
	Long: `Resolve reads a playlist CSV, adjudicates every track through the
search-and-scoring pipeline, prints a summary table, and writes the four
audit streams (dispositions, candidates, queries, flagged) to the output
directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		tracks, err := playlist.ReadFile(args[0])
		if err != nil {
			return err
		}
		if len(tracks) == 0 {
			return fmt.Errorf("playlist %s contains no tracks", args[0])
		}

		// Cache storage failure degrades to bypass mode, never fatal.
		var store cache.Cache
		if cfg.Cache.Path != "" {
			sqlite, err := cache.NewSQLite(cfg.Cache.Path, cfg.Cache.TTL)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: cache unavailable, running without: %v\n", err)
				store = cache.Disabled{}
			} else {
				store = sqlite
			}
		} else {
			store = cache.NewMemory(cfg.Cache.TTL)
		}
		defer store.Close()

		cookie, _ := cmd.Flags().GetString("session-cookie")
		cookie = secrets.Default(loadedSecrets, "catalog-session-cookie", cookie)

		strategies := search.New(cfg.Retrieval, nil, cookie, os.Stderr)

		trail := audit.New()
		adj := adjudicate.New(cfg, strategies, store, trail, os.Stderr)

		// Ctrl-C cancels cooperatively: in-flight tracks finish as
		// unmatched, completed tracks keep their dispositions.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		dispositions := adj.ResolveAll(ctx, tracks)

		export.FormatSummary(dispositions, os.Stdout)

		outDir, _ := cmd.Flags().GetString("out")
		format := export.FormatYAML
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			format = export.FormatJSON
		}
		if err := export.WriteStreams(trail, outDir, format); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "audit streams written to %s/\n", outDir)
		return nil
	},
}

func init() {
	resolveCmd.Flags().String("out", "out", "directory for the exported audit streams")
	resolveCmd.Flags().Bool("json", false, "export audit streams as JSON instead of YAML")
	resolveCmd.Flags().String("session-cookie", "", "catalog session cookie (overrides .secrets/catalog-session-cookie)")

	rootCmd.AddCommand(resolveCmd)
}
