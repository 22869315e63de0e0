package models

import "strings"

// Family tags form the closed set the classifier may emit.
const (
	FamilyPrimaryPhone   = "primary-phone-line"
	FamilyFitnessTracker = "fitness-tracker"
	FamilySmartwatch     = "smartwatch"
	FamilyAudioWearable  = "audio-wearable"
	FamilyTablet         = "tablet"
	FamilyLaptop         = "laptop"
	FamilyOther          = "other"
)

// Naming/price tiers, ordered from cheapest to most expensive.
const (
	TierBudget   = "budget"
	TierMid      = "mid"
	TierPremium  = "premium"
	TierFlagship = "flagship"
)

// Price provenance recorded on every candidate.
const (
	PriceSourceExplicit        = "explicit"
	PriceSourceTierTable       = "tier_table"
	PriceSourceCategoryDefault = "category_default"
)

// TargetProduct is the not-yet-released product a plan is built for.
type TargetProduct struct {
	Name        string  `json:"name" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	Price       float64 `json:"price" validate:"gt=0"`
	LaunchMonth string  `json:"launch_month,omitempty" validate:"omitempty,datetime=2006-01"`
	Upcoming    bool    `json:"upcoming"`
}

// RawCandidateSnippet is one unparsed search result handed over by a lookup source.
type RawCandidateSnippet struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PublishedAt string `json:"published_at,omitempty"`
	Source      string `json:"source"`
}

// Text joins title and description into the string the normalizer scans. The
// title ends its own sentence so it never shares a clause with the description.
func (s RawCandidateSnippet) Text() string {
	title := strings.TrimSpace(s.Title)
	desc := strings.TrimSpace(s.Description)
	switch {
	case desc == "":
		return title
	case title == "":
		return desc
	case strings.ContainsAny(title[len(title)-1:], ".!?;:"):
		return title + " " + desc
	default:
		return title + ". " + desc
	}
}

// ScoreBreakdown keeps the sub-scores and weights that produced a similarity score.
type ScoreBreakdown struct {
	Price        float64 `json:"price"`
	Family       float64 `json:"family"`
	NameSeries   float64 `json:"name_series"`
	TierBonus    float64 `json:"tier_bonus"`
	PriceWeight  float64 `json:"price_weight"`
	FamilyWeight float64 `json:"family_weight"`
	Relation     string  `json:"relation"`
}

// CandidateProduct is a previously launched product proposed as an analogue of the target.
type CandidateProduct struct {
	NormalizedName      string         `json:"normalized_name"`
	Brand               string         `json:"brand"`
	LineKey             string         `json:"line_key"`
	Generation          int            `json:"generation"`
	EstimatedPrice      float64        `json:"estimated_price"`
	PriceSource         string         `json:"price_source"`
	EstimatedLaunchYear int            `json:"estimated_launch_year"`
	LaunchMonth         int            `json:"launch_month"`
	NamingTier          string         `json:"naming_tier"`
	FamilyTag           string         `json:"family_tag"`
	SourceLabels        []string       `json:"source_labels"`
	SimilarityScore     float64        `json:"similarity_score"`
	Breakdown           ScoreBreakdown `json:"score_breakdown"`
	FutureProduct       bool           `json:"future_product"`
}

// TargetProfile is the target product after it went through the same naming rules as candidates.
type TargetProfile struct {
	Name           string  `json:"name"`
	NormalizedName string  `json:"normalized_name"`
	Category       string  `json:"category"`
	Brand          string  `json:"brand"`
	LineKey        string  `json:"line_key"`
	Generation     int     `json:"generation"`
	Price          float64 `json:"price"`
	PriceTier      string  `json:"price_tier"`
	NamingTier     string  `json:"naming_tier"`
	FamilyTag      string  `json:"family_tag"`
	Upcoming       bool    `json:"upcoming"`
	// LaunchMonth is the planned release month as "YYYY-MM", empty when unknown.
	LaunchMonth string `json:"launch_month,omitempty"`
}

// RankedCandidateSet is ordered by similarity descending and truncated to top-N.
type RankedCandidateSet struct {
	Candidates   []CandidateProduct `json:"candidates"`
	Considered   int                `json:"considered"`
	Duplicates   int                `json:"duplicates"`
	SelfExcluded int                `json:"self_excluded"`
	Truncated    int                `json:"truncated"`
}

// Len returns the number of ranked candidates.
func (s RankedCandidateSet) Len() int { return len(s.Candidates) }
