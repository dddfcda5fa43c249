// Package cmd - rate command
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"freight-rate/core/types"
)

var (
	rateCarrier   string
	rateService   string
	rateCustomer  string
	rateOrigin    string
	rateDest      string
	rateWeight    float64
	rateCube      float64
	rateFootprint float64
	rateClass     string
	rateDate      string
	rateCity      []string
	rateJSON      bool
)

// rateCmd represents the rate command
var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Calculate the charge for a shipment",
	Long: `Calculate the freight charge for a shipment against a carrier's
rate documents.

Examples:
  freight-rate rate --carrier fastfreight --origin "M5V 1J1" --dest "V6B 3K9" --weight 500
  freight-rate rate --carrier acme --origin M5V --dest V6B --weight 1200 --cube 96 --class 70
  freight-rate rate --carrier acme --origin M5V --dest V6B --weight 800 --json`,
	RunE: runRate,
}

func init() {
	rateCmd.Flags().StringVar(&rateCarrier, "carrier", "", "carrier id (required)")
	rateCmd.Flags().StringVar(&rateService, "service", "", "carrier service level")
	rateCmd.Flags().StringVar(&rateCustomer, "customer", "", "customer id for customer-scoped class exceptions")
	rateCmd.Flags().StringVar(&rateOrigin, "origin", "", "origin postal code (required)")
	rateCmd.Flags().StringVar(&rateDest, "dest", "", "destination postal code (required)")
	rateCmd.Flags().Float64Var(&rateWeight, "weight", 0, "total weight in pounds (required)")
	rateCmd.Flags().Float64Var(&rateCube, "cube", 0, "total volume in cubic feet")
	rateCmd.Flags().Float64Var(&rateFootprint, "footprint", 0, "floor footprint in square inches")
	rateCmd.Flags().StringVar(&rateClass, "class", "", "declared freight class")
	rateCmd.Flags().StringVar(&rateDate, "date", "", "ship date (YYYY-MM-DD, default today)")
	rateCmd.Flags().StringSliceVar(&rateCity, "lane", nil, "origin and destination as city,province,city,province for terminal rating")
	rateCmd.Flags().BoolVar(&rateJSON, "json", false, "emit the result as JSON")

	_ = rateCmd.MarkFlagRequired("carrier")
	_ = rateCmd.MarkFlagRequired("origin")
	_ = rateCmd.MarkFlagRequired("dest")
	_ = rateCmd.MarkFlagRequired("weight")
}

func runRate(cmd *cobra.Command, args []string) error {
	engine, err := buildEngine()
	if err != nil {
		return err
	}

	shipDate := time.Now()
	if rateDate != "" {
		shipDate, err = time.Parse("2006-01-02", rateDate)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", rateDate, err)
		}
	}

	shipment := types.Shipment{
		CarrierID:      rateCarrier,
		ServiceID:      rateService,
		CustomerID:     rateCustomer,
		OriginPostal:   rateOrigin,
		DestPostal:     rateDest,
		TotalWeightLbs: rateWeight,
		TotalCubeFt:    rateCube,
		FootprintSqIn:  rateFootprint,
		DeclaredClass:  rateClass,
		ShipDate:       shipDate,
	}
	if len(rateCity) == 4 {
		shipment.OriginCity = rateCity[0]
		shipment.OriginProvince = rateCity[1]
		shipment.DestCity = rateCity[2]
		shipment.DestProvince = rateCity[3]
	}

	result, err := engine.CalculateRate(context.Background(), shipment)
	if err != nil {
		return err
	}

	if rateJSON {
		return json.NewEncoder(os.Stdout).Encode(result)
	}

	fmt.Printf("Carrier:  %s (%s)\n", result.CarrierID, result.Format)
	if result.Routing.ZoneCode != "" {
		fmt.Printf("Zone:     %s (%s)\n", result.Routing.ZoneCode, result.Routing.ZoneSource)
	}
	if result.Routing.OriginTerminal != "" {
		fmt.Printf("Route:    %s -> %s\n", result.Routing.OriginTerminal, result.Routing.DestTerminal)
	}
	if result.Routing.PriceClass != "" {
		fmt.Printf("Class:    %s\n", result.Routing.PriceClass)
	}
	fmt.Println()
	for _, item := range result.Breakdown {
		fmt.Printf("  %-16s %10s\n", item.Label, item.Amount.StringFixed(2))
	}
	fmt.Printf("  %-16s %10s %s\n", "Total", result.FinalTotal.StringFixed(2), result.Currency)
	return nil
}
