package catalog

import (
	"strings"

	"LaunchCast/internal/domain/models"
)

// Canonical categories. Anything unrecognised falls into CategoryDefault.
const (
	CategoryWearables   = "wearables"
	CategorySmartphones = "smartphones"
	CategoryTablets     = "tablets"
	CategoryLaptops     = "laptops"
	CategoryAudio       = "audio"
	CategoryDefault     = "default"
)

var categoryAliases = map[string]string{
	"wearable":     CategoryWearables,
	"wearables":    CategoryWearables,
	"smartwatch":   CategoryWearables,
	"smartwatches": CategoryWearables,
	"fitness":      CategoryWearables,
	"phone":        CategorySmartphones,
	"phones":       CategorySmartphones,
	"smartphone":   CategorySmartphones,
	"smartphones":  CategorySmartphones,
	"mobile":       CategorySmartphones,
	"tablet":       CategoryTablets,
	"tablets":      CategoryTablets,
	"laptop":       CategoryLaptops,
	"laptops":      CategoryLaptops,
	"notebook":     CategoryLaptops,
	"notebooks":    CategoryLaptops,
	"pc":           CategoryLaptops,
	"audio":        CategoryAudio,
	"earbuds":      CategoryAudio,
	"headphones":   CategoryAudio,
}

// NormalizeCategory folds user supplied categories onto the canonical set.
func NormalizeCategory(category string) string {
	key := strings.ToLower(strings.TrimSpace(category))
	if c, ok := categoryAliases[key]; ok {
		return c
	}
	return CategoryDefault
}

var tierOrder = []string{models.TierBudget, models.TierMid, models.TierPremium, models.TierFlagship}

// TierRank orders tiers from 0 (budget) to 3 (flagship); unknown tiers rank as mid.
func TierRank(tier string) int {
	for i, t := range tierOrder {
		if t == tier {
			return i
		}
	}
	return 1
}

// tierPrices holds the typical retail price per category and tier, in tierOrder.
var tierPrices = map[string][4]float64{
	CategoryWearables:   {80, 250, 400, 800},
	CategorySmartphones: {300, 800, 1000, 1300},
	CategoryTablets:     {250, 500, 800, 1100},
	CategoryLaptops:     {600, 1000, 1500, 2200},
	CategoryAudio:       {60, 150, 250, 500},
	CategoryDefault:     {100, 300, 600, 1000},
}

func pricesFor(category string) [4]float64 {
	if p, ok := tierPrices[NormalizeCategory(category)]; ok {
		return p
	}
	return tierPrices[CategoryDefault]
}

// TierPrice returns the table price for a naming tier within a category.
func TierPrice(category, tier string) float64 {
	return pricesFor(category)[TierRank(tier)]
}

// CategoryDefaultPrice is the mid-tier price of the category.
func CategoryDefaultPrice(category string) float64 {
	return pricesFor(category)[1]
}

// PriceTier buckets a price into a tier using the midpoints between the category's table prices.
func PriceTier(category string, price float64) string {
	p := pricesFor(category)
	for i := 0; i < len(p)-1; i++ {
		if price < (p[i]+p[i+1])/2 {
			return tierOrder[i]
		}
	}
	return models.TierFlagship
}

// Qualifiers that imply a naming tier. Checked flagship first.
var (
	flagshipWords = []string{"ultra", "max", "fold"}
	premiumWords  = []string{"pro", "plus", "+", "classic", "edge"}
	budgetWords   = []string{"fe", "lite", "se", "mini", "go"}
)

// NamingTier detects the tier implied by a canonical name. explicit is false
// when no qualifier or line rule fired and the mid tier is only a default.
func NamingTier(name string) (tier string, explicit bool) {
	words := make(map[string]struct{})
	for _, tok := range tokenize(name) {
		words[strings.TrimRight(tok, "0123456789")] = struct{}{}
		if strings.HasSuffix(tok, "+") {
			words["+"] = struct{}{}
		}
	}
	has := func(list []string) bool {
		for _, w := range list {
			if _, ok := words[w]; ok {
				return true
			}
		}
		return false
	}
	switch {
	case has(flagshipWords):
		return models.TierFlagship, true
	case has(premiumWords):
		return models.TierPremium, true
	case has(budgetWords):
		return models.TierBudget, true
	case has([]string{"fit", "band", "inspire", "luxe", "a"}):
		return models.TierBudget, true
	}
	return models.TierMid, false
}
