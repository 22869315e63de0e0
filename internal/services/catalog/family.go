package catalog

import (
	"regexp"
	"strings"

	"LaunchCast/internal/domain/models"
	domsvc "LaunchCast/internal/domain/service"
)

// familyRule matches a name when a token's stem (the token without its trailing
// generation digits) equals one of the words, a token fully matches pattern, or
// the space-joined token string matches phrase.
type familyRule struct {
	tag     string
	words   []string
	pattern *regexp.Regexp
	phrase  *regexp.Regexp
}

// familyRules is evaluated top to bottom and the first match wins. The order is
// the contract: smartwatch lines outrank tracker words so "Galaxy Watch Fit" and
// "Fitbit Sense 2" are smartwatches, and tablets/laptops outrank the phone series
// tokens they share ("Tab S9").
var familyRules = []familyRule{
	{tag: models.FamilySmartwatch, words: []string{"watch", "smartwatch", "versa", "sense", "venu", "forerunner"}},
	{tag: models.FamilyFitnessTracker, words: []string{"fit", "band", "tracker", "charge", "inspire", "luxe", "ring"}},
	{tag: models.FamilyAudioWearable, words: []string{"buds", "airpods", "earbuds", "headphones", "earphones", "headset"}},
	{tag: models.FamilyTablet, words: []string{"tab", "tablet", "ipad"}},
	{tag: models.FamilyLaptop, words: []string{"book", "macbook", "laptop", "notebook", "chromebook"}},
	{
		tag:     models.FamilyPrimaryPhone,
		words:   []string{"iphone", "pixel", "phone", "smartphone", "fold", "flip", "note"},
		pattern: regexp.MustCompile(`^[sa]\d{1,2}\+?$`),
		phrase:  regexp.MustCompile(`\boneplus \d{1,2}r?\b`),
	},
}

var tokenSplit = regexp.MustCompile(`[^a-z0-9+]+`)

// Classifier implements the keyword rule table.
type Classifier struct{}

func NewClassifier() *Classifier { return &Classifier{} }

// Classify maps a name to a family tag. Same name always yields the same tag.
func (Classifier) Classify(name string) string {
	tokens := tokenize(name)
	if len(tokens) == 0 {
		return models.FamilyOther
	}
	for _, rule := range familyRules {
		if rule.matches(tokens) {
			return rule.tag
		}
	}
	return models.FamilyOther
}

func (r familyRule) matches(tokens []string) bool {
	for _, tok := range tokens {
		stem := tokenStem(tok)
		for _, w := range r.words {
			if stem == w {
				return true
			}
		}
		if r.pattern != nil && r.pattern.MatchString(tok) {
			return true
		}
	}
	return r.phrase != nil && r.phrase.MatchString(strings.Join(tokens, " "))
}

// tokenStem drops trailing generation digits: "watch7" becomes "watch". Tokens
// that are all digits come back unchanged.
func tokenStem(tok string) string {
	stem := strings.TrimRight(tok, "0123456789+")
	if stem == "" {
		return tok
	}
	return stem
}

func tokenize(s string) []string {
	parts := tokenSplit.Split(strings.ToLower(s), -1)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CategoryFamily is the family implied by a category when the name alone says nothing.
func CategoryFamily(category string) string {
	switch NormalizeCategory(category) {
	case CategorySmartphones:
		return models.FamilyPrimaryPhone
	case CategoryTablets:
		return models.FamilyTablet
	case CategoryLaptops:
		return models.FamilyLaptop
	case CategoryAudio:
		return models.FamilyAudioWearable
	default:
		return models.FamilyOther
	}
}

var _ domsvc.FamilyClassifier = (*Classifier)(nil)
