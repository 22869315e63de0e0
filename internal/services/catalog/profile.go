package catalog

import (
	"strings"

	"LaunchCast/internal/domain/models"
	"LaunchCast/pkg/util"
)

// Profile runs the target through the same naming, tier and family rules as
// candidates so the scorer compares like with like. When the name gives no
// family, the category decides.
func Profile(t models.TargetProduct) models.TargetProfile {
	parts := DescribeName(t.Name)
	tier, _ := NamingTier(parts.Canonical)
	category := NormalizeCategory(t.Category)

	family := NewClassifier().Classify(parts.Canonical)
	if family == models.FamilyOther {
		family = CategoryFamily(category)
	}

	return models.TargetProfile{
		Name:           t.Name,
		NormalizedName: parts.Canonical,
		Category:       category,
		Brand:          parts.Brand,
		LineKey:        parts.LineKey,
		Generation:     parts.Generation,
		Price:          t.Price,
		PriceTier:      PriceTier(category, t.Price),
		NamingTier:     tier,
		FamilyTag:      family,
		Upcoming:       t.Upcoming,
		LaunchMonth:    launchMonthKey(t.LaunchMonth),
	}
}

// launchMonthKey canonicalises a "YYYY-MM" month and drops anything unparsable.
func launchMonthKey(s string) string {
	t, ok := util.ParseMonthKey(strings.TrimSpace(s))
	if !ok {
		return ""
	}
	return util.MonthKey(t)
}
