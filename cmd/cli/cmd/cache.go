// Package cmd - cache command
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"freight-rate/core/zone"
)

var cacheLanesFile string

// cacheCmd groups cache operations
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and warm the resolution caches",
}

// cacheStatsCmd prints per-domain cache statistics
var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print cache statistics",
	Long: `Print hit/miss/eviction statistics for each cache domain.

When --lanes names a JSON file of lanes, those lanes are resolved and
cached first, so the stats reflect the warmed state.

Example:
  freight-rate cache stats --lanes lanes.json`,
	RunE: runCacheStats,
}

func init() {
	cacheStatsCmd.Flags().StringVar(&cacheLanesFile, "lanes", "", "JSON file of lanes to prewarm before reporting")
	cacheCmd.AddCommand(cacheStatsCmd)
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	engine, err := buildEngine()
	if err != nil {
		return err
	}

	if cacheLanesFile != "" {
		raw, err := os.ReadFile(cacheLanesFile)
		if err != nil {
			return err
		}
		var lanes []zone.Lane
		if err := json.Unmarshal(raw, &lanes); err != nil {
			return fmt.Errorf("invalid lanes file %s: %w", cacheLanesFile, err)
		}

		warmed, errs := engine.PrewarmLanes(context.Background(), lanes)
		fmt.Printf("Warmed %d of %d lanes\n", warmed, len(lanes))
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  %v\n", e)
		}
		fmt.Println()
	}

	for _, s := range engine.CacheStats() {
		fmt.Printf("%s: %d/%d entries, %d hits, %d misses, %d evictions, %.1f%% hit rate, ~%d bytes\n",
			s.Name, s.Size, s.MaxSize, s.Hits, s.Misses, s.Evictions, s.HitRatePct, s.EstimatedMemoryBytes)
	}
	return nil
}
