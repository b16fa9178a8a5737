package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finbrief/finbrief/internal/cache"
)

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the result cache",
}

// CacheInfoResponse is the response for the cache info command.
type CacheInfoResponse struct {
	Path    string `json:"path"`
	Entries int    `json:"entries"`
}

// CacheClearResponse is the response for the cache clear command.
type CacheClearResponse struct {
	Removed int `json:"removed"`
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache location and entry count",
	Args:  cobra.NoArgs,
	RunE:  runCacheInfo,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached reports and indices",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

// mustOpenCacheDB opens the SQLite cache store, exiting on failure. Unlike
// report generation, cache management has nothing to fall back to.
func mustOpenCacheDB() (*cache.SQLiteStore, string) {
	cfg := mustLoadConfig()

	path := cfg.CacheDBPath()
	if path == "" {
		exitWithError(ExitConfigError, "cannot determine cache path")
	}

	store, err := cache.OpenSQLiteStore(path)
	if err != nil {
		exitWithError(ExitError, "opening cache: %v", err)
	}
	return store, path
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	store, path := mustOpenCacheDB()
	defer store.Close()

	count, err := store.Count()
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Cache: %s (%d entries)\n", path, count)
		return nil
	}

	return outputJSON(CacheInfoResponse{Path: path, Entries: count})
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	store, _ := mustOpenCacheDB()
	defer store.Close()

	removed, err := store.Clear()
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Removed %d cache entries\n", removed)
		return nil
	}

	return outputJSON(CacheClearResponse{Removed: removed})
}
