package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trackmatch/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or prune the persistent response cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry count",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPersistentCache()
		if err != nil {
			return err
		}
		defer store.Close()

		fmt.Printf("%d cached responses\n", store.Len())
		return nil
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete cached responses older than the configured TTL",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPersistentCache()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Purge()
		if err != nil {
			return err
		}
		fmt.Printf("purged %d expired responses\n", n)
		return nil
	},
}

func openPersistentCache() (*cache.SQLite, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Cache.Path == "" {
		return nil, fmt.Errorf("no persistent cache configured (set cache.path)")
	}
	return cache.NewSQLite(cfg.Cache.Path, cfg.Cache.TTL)
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}
