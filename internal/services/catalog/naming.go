package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

// NameParts is a product name split along "line + number + qualifier".
type NameParts struct {
	Canonical  string
	Brand      string
	LineKey    string
	Generation int
}

type productLine struct {
	brand   string
	display string
	joined  bool // "Galaxy Fit4" rather than "iPhone 15"
	needNum bool
	re      *regexp.Regexp
}

func line(brand, display, words string, joined, needNum bool) productLine {
	num := `(?:\s*(\d{1,3}a?))?`
	if needNum {
		num = `\s*(\d{1,3}a?)`
	}
	return productLine{
		brand:   brand,
		display: display,
		joined:  joined,
		needNum: needNum,
		re:      regexp.MustCompile(`(?i)\b` + words + num + `\b`),
	}
}

// productLines is ordered most specific first; ties on match position go to the earlier entry.
var productLines = []productLine{
	line("samsung", "Galaxy Watch", `galaxy\s+watch`, true, false),
	line("samsung", "Galaxy Fit", `galaxy\s+fit`, true, false),
	line("samsung", "Galaxy Ring", `galaxy\s+ring`, false, false),
	line("samsung", "Galaxy Buds", `galaxy\s+buds`, true, false),
	line("samsung", "Galaxy Tab S", `galaxy\s+tab\s+s`, true, true),
	line("samsung", "Galaxy Tab A", `galaxy\s+tab\s+a`, true, true),
	line("samsung", "Galaxy Book", `galaxy\s+book`, true, false),
	line("samsung", "Galaxy Z Fold", `galaxy\s+z\s*fold`, true, false),
	line("samsung", "Galaxy Z Flip", `galaxy\s+z\s*flip`, true, false),
	line("samsung", "Galaxy Note", `galaxy\s+note`, true, false),
	line("samsung", "Galaxy S", `galaxy\s+s`, true, true),
	line("samsung", "Galaxy A", `galaxy\s+a`, true, true),
	line("apple", "Apple Watch Ultra", `apple\s+watch\s+ultra`, false, false),
	line("apple", "Apple Watch SE", `apple\s+watch\s+se`, false, false),
	line("apple", "Apple Watch Series", `apple\s+watch(?:\s+series)?`, false, true),
	line("apple", "Apple Watch", `apple\s+watch`, false, false),
	line("apple", "iPhone", `iphone`, false, false),
	line("apple", "iPad", `ipad`, false, false),
	line("apple", "AirPods", `airpods`, false, false),
	line("apple", "MacBook", `macbook`, false, false),
	line("google", "Pixel Watch", `pixel\s+watch`, false, false),
	line("google", "Pixel Buds", `pixel\s+buds`, false, false),
	line("google", "Pixel Tablet", `pixel\s+tablet`, false, false),
	line("google", "Pixel Fold", `pixel\s+fold`, false, false),
	line("google", "Pixel", `pixel`, false, true),
	line("fitbit", "Fitbit Charge", `fitbit\s+charge`, false, false),
	line("fitbit", "Fitbit Inspire", `fitbit\s+inspire`, false, false),
	line("fitbit", "Fitbit Luxe", `fitbit\s+luxe`, false, false),
	line("fitbit", "Fitbit Versa", `fitbit\s+versa`, false, false),
	line("fitbit", "Fitbit Sense", `fitbit\s+sense`, false, false),
	line("xiaomi", "Xiaomi Smart Band", `(?:xiaomi\s+(?:smart\s+|mi\s+)?|mi\s+)band`, false, false),
	line("garmin", "Garmin Forerunner", `garmin\s+forerunner`, false, true),
	line("garmin", "Garmin Venu", `garmin\s+venu`, false, false),
	line("oneplus", "OnePlus Watch", `oneplus\s+watch`, false, false),
	line("oneplus", "OnePlus Buds", `oneplus\s+buds`, false, false),
	line("oneplus", "OnePlus", `oneplus`, false, true),
}

var qualifierRe = regexp.MustCompile(`(?i)^(?:\s*(\+)|\s+(pro\s+max|pro|ultra|classic|plus|fe|lite|se|mini|max|edge|active|air)\b)(?:\s*(\d{1,2})\b)?`)

var qualifierDisplay = map[string]string{
	"pro max": "Pro Max",
	"pro":     "Pro",
	"ultra":   "Ultra",
	"classic": "Classic",
	"plus":    "Plus",
	"fe":      "FE",
	"lite":    "Lite",
	"se":      "SE",
	"mini":    "mini",
	"max":     "Max",
	"edge":    "Edge",
	"active":  "Active",
	"air":     "Air",
}

var spaceRe = regexp.MustCompile(`\s+`)

// ParseName finds the earliest product name in text that follows a known naming convention.
func ParseName(text string) (NameParts, bool) {
	parts, _, _, ok := parseName(text)
	return parts, ok
}

// parseName also returns the byte span of the line match in text.
func parseName(text string) (parts NameParts, start, end int, ok bool) {
	bestPos, bestEnd := -1, -1
	var best NameParts
	for _, pl := range productLines {
		loc := pl.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		if bestPos >= 0 && loc[0] >= bestPos {
			continue
		}
		num := ""
		if loc[2] >= 0 {
			num = strings.ToLower(text[loc[2]:loc[3]])
		}
		bestPos, bestEnd = loc[0], loc[1]
		best = pl.build(num, text[loc[1]:])
	}
	return best, bestPos, bestEnd, bestPos >= 0
}

func (pl productLine) build(num, rest string) NameParts {
	var b strings.Builder
	b.WriteString(pl.display)
	if num != "" {
		if !pl.joined {
			b.WriteByte(' ')
		}
		b.WriteString(num)
	}

	generation := leadingInt(num)
	if m := qualifierRe.FindStringSubmatch(rest); m != nil {
		switch {
		case m[1] != "":
			b.WriteString("+")
		case m[2] != "":
			q := strings.ToLower(spaceRe.ReplaceAllString(m[2], " "))
			b.WriteString(" " + qualifierDisplay[q])
		}
		if m[3] != "" {
			b.WriteString(" " + m[3])
			if generation == 0 {
				generation = leadingInt(m[3])
			}
		}
	}

	return NameParts{
		Canonical:  b.String(),
		Brand:      pl.brand,
		LineKey:    strings.ToLower(pl.display),
		Generation: generation,
	}
}

// FallbackNameParts describes a name that matched no convention, e.g. a target
// product from a brand the tables do not cover.
func FallbackNameParts(name string) NameParts {
	canonical := strings.Join(strings.Fields(name), " ")
	tokens := tokenize(canonical)
	var lineTokens []string
	generation := 0
	for _, tok := range tokens {
		trimmed := strings.TrimRight(tok, "0123456789+")
		if generation == 0 && trimmed != tok {
			generation = leadingInt(tok[len(trimmed):])
		}
		if trimmed == "" || isQualifier(trimmed) {
			continue
		}
		lineTokens = append(lineTokens, trimmed)
	}
	brand := ""
	if len(lineTokens) > 0 {
		brand = lineTokens[0]
	}
	return NameParts{
		Canonical:  canonical,
		Brand:      brand,
		LineKey:    strings.Join(lineTokens, " "),
		Generation: generation,
	}
}

// DescribeName parses a bare product name, falling back when no convention applies.
func DescribeName(name string) NameParts {
	if parts, ok := ParseName(name); ok {
		return parts
	}
	return FallbackNameParts(name)
}

func isQualifier(word string) bool {
	_, ok := qualifierDisplay[word]
	return ok
}

func leadingInt(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
