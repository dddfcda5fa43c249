// Package cmd provides the CLI commands for freight-rate.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"freight-rate/core/cache"
	"freight-rate/core/nmfc"
	"freight-rate/core/rating"
	"freight-rate/core/types"
	"freight-rate/core/zone"
	"freight-rate/db/loader"
	"freight-rate/internal/config"
	"freight-rate/internal/logging"
)

var (
	cfgFile     string
	verbose     bool
	documentDir string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "freight-rate",
	Short: "Rate LTL freight shipments",
	Long: `freight-rate resolves carrier zones and calculates LTL freight charges
from carrier rate documents.

Examples:
  freight-rate rate --carrier fastfreight --origin "M5V 1J1" --dest "V6B 3K9" --weight 500
  freight-rate zone --carrier fastfreight --origin M5V --dest V6B
  freight-rate validate ./documents`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./freight-rate.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&documentDir, "documents", "", "directory holding carrier rate documents")

	rootCmd.AddCommand(rateCmd)
	rootCmd.AddCommand(zoneCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// buildEngine loads the document directory and assembles a rating engine
// from the active configuration.
func buildEngine() (*rating.Engine, error) {
	cfg := config.Get()

	dir := documentDir
	if dir == "" {
		dir = cfg.Rating.DocumentDir
	}
	store, err := loader.LoadDir(dir)
	if err != nil {
		return nil, err
	}

	zones := cache.New("zones", cfg.Cache.Zones.MaxSize,
		time.Duration(cfg.Cache.Zones.TTLSeconds)*time.Second)
	rates := cache.New("rates", cfg.Cache.Rates.MaxSize,
		time.Duration(cfg.Cache.Rates.TTLSeconds)*time.Second)
	carriers := cache.New("carrier_configs", cfg.Cache.CarrierConfigs.MaxSize,
		time.Duration(cfg.Cache.CarrierConfigs.TTLSeconds)*time.Second)

	registry := rating.DefaultRegistry(store, nmfc.NewResolver(store), cfg.Rating.SkidFootprintSqIn)

	return rating.NewEngine(rating.EngineParams{
		Store:           store,
		Registry:        registry,
		Zones:           zone.NewResolver(store, zones),
		RateCache:       rates,
		CarrierCache:    carriers,
		DefaultCurrency: types.Currency(cfg.Rating.DefaultCurrency),
	}), nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("freight-rate version 0.1.0")
	},
}
