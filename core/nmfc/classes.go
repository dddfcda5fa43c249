// Package nmfc resolves a shipment's freight class: the actual class
// (declared or density-derived) and the price class after FAK remapping.
package nmfc

import "freight-rate/core/types"

// DefaultClass is assumed when density cannot be computed (zero cube)
const DefaultClass = "70"

// StandardClasses is the 18-class NMFC density table, ordered by
// descending minimum density. Denser freight takes a lower class.
var StandardClasses = []types.FreightClass{
	{Code: "50", MinDensityPCF: 50},
	{Code: "55", MinDensityPCF: 35},
	{Code: "60", MinDensityPCF: 30},
	{Code: "65", MinDensityPCF: 22.5},
	{Code: "70", MinDensityPCF: 15},
	{Code: "77.5", MinDensityPCF: 13.5},
	{Code: "85", MinDensityPCF: 12},
	{Code: "92.5", MinDensityPCF: 10.5},
	{Code: "100", MinDensityPCF: 9},
	{Code: "110", MinDensityPCF: 8},
	{Code: "125", MinDensityPCF: 6},
	{Code: "150", MinDensityPCF: 5},
	{Code: "175", MinDensityPCF: 4},
	{Code: "200", MinDensityPCF: 3},
	{Code: "250", MinDensityPCF: 2},
	{Code: "300", MinDensityPCF: 1},
	{Code: "400", MinDensityPCF: 0.5},
	{Code: "500", MinDensityPCF: 0},
}

// ClassForDensity maps a density in pounds per cubic foot to an NMFC class
func ClassForDensity(pcf float64) string {
	for _, fc := range StandardClasses {
		if pcf >= fc.MinDensityPCF {
			return fc.Code
		}
	}
	return "500"
}
