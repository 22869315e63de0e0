package similarity

import (
	"sort"

	"LaunchCast/internal/domain/models"
	domsvc "LaunchCast/internal/domain/service"
	xlogger "LaunchCast/pkg/logger"
)

// Ranker turns scored candidates into a RankedCandidateSet.
type Ranker struct{}

func NewRanker() *Ranker { return &Ranker{} }

// Rank deduplicates by normalized name, drops the target itself, sorts by
// similarity (stable, so discovery order breaks ties) and keeps the top N.
func (r *Ranker) Rank(rc domsvc.RunContext, target models.TargetProfile, scored []models.CandidateProduct) models.RankedCandidateSet {
	set := models.RankedCandidateSet{Considered: len(scored)}

	deduped := Deduplicate(scored)
	set.Duplicates = len(scored) - len(deduped)

	selfKeys := map[string]struct{}{
		models.NameKey(target.Name):           {},
		models.NameKey(target.NormalizedName): {},
	}
	kept := deduped[:0]
	for _, c := range deduped {
		if _, self := selfKeys[models.NameKey(c.NormalizedName)]; self {
			set.SelfExcluded++
			continue
		}
		kept = append(kept, c)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].SimilarityScore > kept[j].SimilarityScore
	})

	topN := rc.Options.TopN
	if topN <= 0 {
		topN = models.DefaultTopN
	}
	if len(kept) > topN {
		set.Truncated = len(kept) - topN
		kept = kept[:topN]
	}
	set.Candidates = kept

	rc.Log().Debug("candidates ranked",
		xlogger.Int("considered", set.Considered),
		xlogger.Int("duplicates", set.Duplicates),
		xlogger.Int("self_excluded", set.SelfExcluded),
		xlogger.Int("ranked", len(kept)),
	)
	return set
}

// Deduplicate groups candidates by normalized name. Each group keeps the
// position of its first occurrence and the fields of its highest score, and
// carries the sorted union of every member's source labels.
func Deduplicate(candidates []models.CandidateProduct) []models.CandidateProduct {
	out := make([]models.CandidateProduct, 0, len(candidates))
	index := make(map[string]int, len(candidates))
	labels := make([]map[string]struct{}, 0, len(candidates))

	for _, c := range candidates {
		key := models.NameKey(c.NormalizedName)
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, c)
			labels = append(labels, labelSet(c.SourceLabels))
			continue
		}
		for _, l := range c.SourceLabels {
			labels[i][l] = struct{}{}
		}
		if c.SimilarityScore > out[i].SimilarityScore {
			out[i] = c
		}
	}

	for i := range out {
		merged := make([]string, 0, len(labels[i]))
		for l := range labels[i] {
			merged = append(merged, l)
		}
		sort.Strings(merged)
		out[i].SourceLabels = merged
	}
	return out
}

func labelSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return set
}

var _ domsvc.CandidateRanker = (*Ranker)(nil)
