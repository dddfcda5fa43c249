// Package cmd - zone command
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	zoneCarrier string
	zoneService string
	zoneOrigin  string
	zoneDest    string
	zoneDate    string
	zoneJSON    bool
)

// zoneCmd represents the zone command
var zoneCmd = &cobra.Command{
	Use:   "zone",
	Short: "Resolve the price zone for a lane",
	Long: `Resolve the price zone a carrier applies to an origin/destination lane.

Examples:
  freight-rate zone --carrier fastfreight --origin "M5V 1J1" --dest "V6B 3K9"
  freight-rate zone --carrier acme --service express --origin M5V --dest K1A --json`,
	RunE: runZone,
}

func init() {
	zoneCmd.Flags().StringVar(&zoneCarrier, "carrier", "", "carrier id (required)")
	zoneCmd.Flags().StringVar(&zoneService, "service", "", "carrier service level")
	zoneCmd.Flags().StringVar(&zoneOrigin, "origin", "", "origin postal code (required)")
	zoneCmd.Flags().StringVar(&zoneDest, "dest", "", "destination postal code (required)")
	zoneCmd.Flags().StringVar(&zoneDate, "date", "", "ship date (YYYY-MM-DD, default today)")
	zoneCmd.Flags().BoolVar(&zoneJSON, "json", false, "emit the result as JSON")

	_ = zoneCmd.MarkFlagRequired("carrier")
	_ = zoneCmd.MarkFlagRequired("origin")
	_ = zoneCmd.MarkFlagRequired("dest")
}

func runZone(cmd *cobra.Command, args []string) error {
	engine, err := buildEngine()
	if err != nil {
		return err
	}

	shipDate := time.Now()
	if zoneDate != "" {
		shipDate, err = time.Parse("2006-01-02", zoneDate)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", zoneDate, err)
		}
	}

	result, err := engine.ResolveZone(context.Background(), zoneCarrier, zoneService, zoneOrigin, zoneDest, shipDate)
	if err != nil {
		return err
	}

	if zoneJSON {
		return json.NewEncoder(os.Stdout).Encode(result)
	}

	fmt.Printf("Zone:   %s\n", result.ZoneCode)
	fmt.Printf("Source: %s\n", result.Source)
	fmt.Printf("Lane:   %s -> %s\n", result.OriginRegion, result.DestRegion)
	if result.ZoneSetID != "" {
		fmt.Printf("Set:    %s\n", result.ZoneSetID)
	}
	return nil
}
