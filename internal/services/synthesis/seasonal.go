package synthesis

import (
	"time"

	"LaunchCast/internal/services/catalog"
)

// seasonality is indexed by calendar month, January first. Consumer electronics
// peak around back-to-school and the year-end holidays.
var seasonality = map[string][12]float64{
	catalog.CategoryWearables:   {0.85, 0.85, 0.90, 0.95, 1.00, 0.95, 0.95, 1.05, 1.05, 1.00, 1.20, 1.35},
	catalog.CategorySmartphones: {0.90, 0.85, 0.90, 0.95, 0.95, 0.95, 0.95, 1.00, 1.15, 1.10, 1.15, 1.25},
	catalog.CategoryTablets:     {0.90, 0.85, 0.90, 0.90, 0.95, 0.95, 1.05, 1.15, 1.10, 1.00, 1.10, 1.30},
	catalog.CategoryLaptops:     {0.95, 0.90, 0.95, 0.90, 0.90, 0.95, 1.10, 1.25, 1.15, 0.95, 1.05, 1.15},
	catalog.CategoryAudio:       {0.90, 0.85, 0.90, 0.95, 1.00, 1.00, 0.95, 1.00, 1.00, 1.00, 1.15, 1.40},
	catalog.CategoryDefault:     {0.90, 0.90, 0.95, 0.95, 1.00, 1.00, 1.00, 1.05, 1.05, 1.00, 1.10, 1.20},
}

// SeasonalFactor returns the category multiplier for a calendar month.
func SeasonalFactor(category string, month time.Month) float64 {
	table, ok := seasonality[catalog.NormalizeCategory(category)]
	if !ok {
		table = seasonality[catalog.CategoryDefault]
	}
	return table[int(month)-1]
}
