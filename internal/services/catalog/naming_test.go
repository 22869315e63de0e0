package catalog

import (
	"testing"

	"LaunchCast/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNameConventions(t *testing.T) {
	cases := []struct {
		text       string
		canonical  string
		lineKey    string
		generation int
	}{
		{"Samsung galaxy fit 4 review", "Galaxy Fit4", "galaxy fit", 4},
		{"Galaxy Watch7 Classic hands-on", "Galaxy Watch7 Classic", "galaxy watch", 7},
		{"New Galaxy Watch Ultra announced", "Galaxy Watch Ultra", "galaxy watch", 0},
		{"Apple Watch Series 9 hands-on", "Apple Watch Series 9", "apple watch series", 9},
		{"apple watch ultra 2 price", "Apple Watch Ultra 2", "apple watch ultra", 2},
		{"iphone 15 pro max deals", "iPhone 15 Pro Max", "iphone", 15},
		{"AirPods Pro 2 vs Buds", "AirPods Pro 2", "airpods", 2},
		{"Galaxy S24+ vs Pixel 8", "Galaxy S24+", "galaxy s", 24},
		{"galaxy tab s9 fe", "Galaxy Tab S9 FE", "galaxy tab s", 9},
		{"Pixel 8a long term", "Pixel 8a", "pixel", 8},
	}
	for _, tc := range cases {
		got, ok := ParseName(tc.text)
		require.True(t, ok, tc.text)
		assert.Equal(t, tc.canonical, got.Canonical, tc.text)
		assert.Equal(t, tc.lineKey, got.LineKey, tc.text)
		assert.Equal(t, tc.generation, got.Generation, tc.text)
	}
}

func TestParseNameEarliestMentionWins(t *testing.T) {
	got, ok := ParseName("Pixel Watch 2 compared with the Galaxy Watch6")
	require.True(t, ok)
	assert.Equal(t, "Pixel Watch 2", got.Canonical)
	assert.Equal(t, "google", got.Brand)
}

func TestParseNameRejectsUnknownText(t *testing.T) {
	_, ok := ParseName("best running shoes of the year")
	assert.False(t, ok)

	// A year must not be read as a generation.
	got, ok := ParseName("Galaxy Fit 2024 edition")
	require.True(t, ok)
	assert.Equal(t, "Galaxy Fit", got.Canonical)
}

func TestFallbackNameParts(t *testing.T) {
	got := FallbackNameParts("  Nothing   Phone 3 Pro ")
	assert.Equal(t, "Nothing Phone 3 Pro", got.Canonical)
	assert.Equal(t, "nothing", got.Brand)
	assert.Equal(t, "nothing phone", got.LineKey)
	assert.Equal(t, 3, got.Generation)
}

func TestNamingTier(t *testing.T) {
	cases := []struct {
		name     string
		tier     string
		explicit bool
	}{
		{"Galaxy S24 Ultra", models.TierFlagship, true},
		{"iPhone 15 Pro Max", models.TierFlagship, true},
		{"Galaxy Z Fold6", models.TierFlagship, true},
		{"Galaxy S24+", models.TierPremium, true},
		{"Galaxy Watch7 Classic", models.TierPremium, true},
		{"Galaxy Fit4", models.TierBudget, true},
		{"Galaxy A55", models.TierBudget, true},
		{"Apple Watch SE", models.TierBudget, true},
		{"Pixel 8", models.TierMid, false},
	}
	for _, tc := range cases {
		tier, explicit := NamingTier(tc.name)
		assert.Equal(t, tc.tier, tier, tc.name)
		assert.Equal(t, tc.explicit, explicit, tc.name)
	}
}

func TestPriceTier(t *testing.T) {
	assert.Equal(t, models.TierBudget, PriceTier("wearables", 90))
	assert.Equal(t, models.TierBudget, PriceTier("wearables", 100))
	assert.Equal(t, models.TierMid, PriceTier("wearables", 250))
	assert.Equal(t, models.TierPremium, PriceTier("wearables", 400))
	assert.Equal(t, models.TierFlagship, PriceTier("smartphones", 1400))
	assert.Equal(t, models.TierMid, PriceTier("unknown", 300))
}

func TestTierPriceTable(t *testing.T) {
	assert.Equal(t, 1300.0, TierPrice("smartphones", models.TierFlagship))
	assert.Equal(t, 80.0, TierPrice("Wearable", models.TierBudget))
	assert.Equal(t, 250.0, CategoryDefaultPrice("wearables"))
	assert.Equal(t, 300.0, CategoryDefaultPrice("garden tools"))
}

func TestSnippetTextKeepsTitleSentence(t *testing.T) {
	cases := []struct {
		in   models.RawCandidateSnippet
		want string
	}{
		{models.RawCandidateSnippet{Title: "Galaxy Watch7", Description: "Classic edition returns"}, "Galaxy Watch7. Classic edition returns"},
		{models.RawCandidateSnippet{Title: "Galaxy Watch7 review!", Description: "Solid."}, "Galaxy Watch7 review! Solid."},
		{models.RawCandidateSnippet{Title: " Galaxy Fit4 "}, "Galaxy Fit4"},
		{models.RawCandidateSnippet{Description: "Galaxy Fit4 leaked"}, "Galaxy Fit4 leaked"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.in.Text())
	}

	parts, ok := ParseName(cases[0].in.Text())
	require.True(t, ok)
	assert.Equal(t, "Galaxy Watch7", parts.Canonical)
}
