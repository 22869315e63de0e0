package catalog

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"LaunchCast/internal/domain/models"
	domsvc "LaunchCast/internal/domain/service"
	xlogger "LaunchCast/pkg/logger"
	xutil "LaunchCast/pkg/util"
)

const (
	minPlausiblePrice = 10
	maxPlausiblePrice = 10000
	launchYearWindow  = 10
)

var (
	// $199, US$199.99, USD 1,299, €249, £99
	pricePrefixRe = regexp.MustCompile(`(?i)(?:us\$|\$|usd\s?|€|eur\s?|£|gbp\s?)\s?(\d{1,3}(?:,\d{3})+|\d+)(?:\.(\d{1,2}))?`)
	// 199 USD, 249.99 dollars, 99 euros
	priceSuffixRe = regexp.MustCompile(`(?i)\b(\d{1,3}(?:,\d{3})+|\d+)(?:\.(\d{1,2}))?\s?(?:usd|dollars?|eur|euros?|gbp)\b`)
	yearRe        = regexp.MustCompile(`\b(20\d{2})\b`)
	monthYearRe   = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)\.?\s+(?:\d{1,2}(?:st|nd|rd|th)?,?\s+)?(20\d{2})\b`)
	// sentence and clause breaks; a period counts only before whitespace or the end
	clauseBreakRe = regexp.MustCompile(`[;!?\n]|\.(?:\s|$)|\s-\s|\s\|\s`)
	unreleasedRe  = regexp.MustCompile(`(?i)\b(upcoming|unreleased|rumou?red|leaked|leaks|coming soon|pre-?orders?|expected to (?:launch|arrive|debut)|set to launch|will launch|not yet (?:released|available))\b`)
)

var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// Normalizer extracts canonical candidates from raw lookup snippets. It holds no
// per-run state; everything run specific arrives through the RunContext.
type Normalizer struct{}

func NewNormalizer() *Normalizer { return &Normalizer{} }

// Normalize parses every snippet independently. Snippets without a recognisable
// product name are skipped and counted; they never fail the batch.
func (n *Normalizer) Normalize(rc domsvc.RunContext, target models.TargetProfile, snippets []models.RawCandidateSnippet) domsvc.NormalizeResult {
	log := rc.Log()
	future := newFutureRegistry(rc.Options.FutureProducts)
	if target.Upcoming {
		future.add(target.NormalizedName)
		future.add(target.Name)
	}

	res := domsvc.NormalizeResult{Candidates: make([]models.CandidateProduct, 0, len(snippets))}
	for i, s := range snippets {
		c, ok := n.normalizeOne(rc.Now, target.Category, future, s)
		if !ok {
			res.Skipped++
			log.Debug("snippet skipped",
				xlogger.Int("index", i),
				xlogger.String("source", s.Source),
				xlogger.Error(models.ErrMalformedSnippet),
			)
			continue
		}
		res.Candidates = append(res.Candidates, c)
	}
	return res
}

func (n *Normalizer) normalizeOne(now time.Time, category string, future futureRegistry, s models.RawCandidateSnippet) (c models.CandidateProduct, ok bool) {
	defer func() {
		// A single bad snippet must not take the batch down.
		if r := recover(); r != nil {
			ok = false
		}
	}()

	text := strings.TrimSpace(s.Text())
	if text == "" {
		return c, false
	}
	parts, start, end, found := parseName(text)
	if !found {
		return c, false
	}

	tier, explicitTier := NamingTier(parts.Canonical)
	price, priceSource := estimatePrice(text, category, tier, explicitTier)
	year, month := estimateLaunch(text, s.PublishedAt, now)

	isFuture := future.contains(parts.Canonical) || markedUnreleased(nameClause(text, start, end), now)
	if isFuture {
		year = now.Year() + 1
	}

	return models.CandidateProduct{
		NormalizedName:      parts.Canonical,
		Brand:               parts.Brand,
		LineKey:             parts.LineKey,
		Generation:          parts.Generation,
		EstimatedPrice:      price,
		PriceSource:         priceSource,
		EstimatedLaunchYear: year,
		LaunchMonth:         month,
		NamingTier:          tier,
		SourceLabels:        []string{sourceLabel(s.Source)},
		FutureProduct:       isFuture,
	}, true
}

func estimatePrice(text, category, tier string, explicitTier bool) (float64, string) {
	if p, ok := explicitPrice(text); ok {
		return p, models.PriceSourceExplicit
	}
	if explicitTier {
		return TierPrice(category, tier), models.PriceSourceTierTable
	}
	return CategoryDefaultPrice(category), models.PriceSourceCategoryDefault
}

// explicitPrice returns the first currency amount within the plausible range.
func explicitPrice(text string) (float64, bool) {
	type hit struct {
		pos   int
		value float64
	}
	var hits []hit
	for _, re := range []*regexp.Regexp{pricePrefixRe, priceSuffixRe} {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			whole := strings.ReplaceAll(text[m[2]:m[3]], ",", "")
			if m[4] >= 0 {
				whole += "." + text[m[4]:m[5]]
			}
			v, err := strconv.ParseFloat(whole, 64)
			if err != nil || v < minPlausiblePrice || v > maxPlausiblePrice {
				continue
			}
			hits = append(hits, hit{pos: m[0], value: v})
		}
	}
	if len(hits) == 0 {
		return 0, false
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	return hits[0].value, true
}

// estimateLaunch picks the earliest plausible year mentioned in the text, then
// the publication date, then the current year. The month comes from a
// "Month [day,] Year" phrase for the chosen year and defaults to January.
func estimateLaunch(text, publishedAt string, now time.Time) (year, month int) {
	lo, hi := now.Year()-launchYearWindow, now.Year()+1

	year = 0
	for _, m := range yearRe.FindAllStringSubmatch(text, -1) {
		y, err := strconv.Atoi(m[1])
		if err != nil || y < lo || y > hi {
			continue
		}
		if year == 0 || y < year {
			year = y
		}
	}

	if year == 0 {
		if t, ok := xutil.ParseTime(publishedAt); ok {
			year = clampInt(t.Year(), lo, hi)
			if year == t.Year() {
				month = int(t.Month())
			}
		}
	}
	if year == 0 {
		year = now.Year()
	}

	for _, m := range monthYearRe.FindAllStringSubmatch(text, -1) {
		y, _ := strconv.Atoi(m[2])
		if y != year {
			continue
		}
		if mm, ok := monthNumbers[strings.ToLower(m[1])[:3]]; ok {
			month = mm
			break
		}
	}
	if month == 0 {
		month = 1
	}
	return year, month
}

// nameClause is the sentence or clause of text that contains the span [start,end).
func nameClause(text string, start, end int) string {
	lo, hi := 0, len(text)
	for _, m := range clauseBreakRe.FindAllStringIndex(text, -1) {
		if m[1] <= start {
			lo = m[1]
			continue
		}
		if m[0] >= end {
			hi = m[0]
			break
		}
	}
	return text[lo:hi]
}

// markedUnreleased reports an unreleased marker in the clause, unless the clause
// also dates the product to a year before now.
func markedUnreleased(clause string, now time.Time) bool {
	if !unreleasedRe.MatchString(clause) {
		return false
	}
	for _, m := range yearRe.FindAllStringSubmatch(clause, -1) {
		if y, err := strconv.Atoi(m[1]); err == nil && y < now.Year() {
			return false
		}
	}
	return true
}

func sourceLabel(source string) string {
	label := strings.ToLower(strings.TrimSpace(source))
	if label == "" {
		return "unknown"
	}
	return label
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// futureRegistry holds names known to be unreleased, keyed by models.NameKey.
type futureRegistry map[string]struct{}

func newFutureRegistry(names []string) futureRegistry {
	r := make(futureRegistry, len(names))
	for _, name := range names {
		r.add(name)
	}
	return r
}

func (r futureRegistry) add(name string) {
	if k := models.NameKey(name); k != "" {
		r[k] = struct{}{}
	}
}

func (r futureRegistry) contains(name string) bool {
	_, ok := r[models.NameKey(name)]
	return ok
}

var _ domsvc.CandidateNormalizer = (*Normalizer)(nil)
