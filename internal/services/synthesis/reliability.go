package synthesis

import "strings"

const defaultReliability = 0.75

// reliabilityRules are matched as substrings of the provenance label, first hit wins.
var reliabilityRules = []struct {
	keyword string
	factor  float64
}{
	{"official", 1.0},
	{"manufacturer", 1.0},
	{"first-party", 1.0},
	{"retail", 0.9},
	{"news", 0.85},
	{"review", 0.8},
	{"search", 0.7},
	{"aggregat", 0.7},
	{"forum", 0.6},
	{"social", 0.6},
}

// SourceReliability is the best factor across a candidate's provenance labels.
func SourceReliability(labels []string) float64 {
	if len(labels) == 0 {
		return defaultReliability
	}
	best := 0.0
	for _, l := range labels {
		if f := labelReliability(l); f > best {
			best = f
		}
	}
	return best
}

func labelReliability(label string) float64 {
	label = strings.ToLower(label)
	for _, r := range reliabilityRules {
		if strings.Contains(label, r.keyword) {
			return r.factor
		}
	}
	return defaultReliability
}
