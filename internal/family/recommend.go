package family

import (
	"fmt"
	"sort"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/hierarchy"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
)

func groupFamilies(forest *hierarchy.Forest) []Family {
	byKey := make(map[string]*Family)
	for _, n := range forest.Nodes() {
		if n.Malformed {
			continue
		}
		f, ok := byKey[n.Family]
		if !ok {
			f = &Family{Key: n.Family, Members: make(map[int][]string)}
			byKey[n.Family] = f
		}
		f.Members[n.Level] = append(f.Members[n.Level], n.Code)
	}

	families := make([]Family, 0, len(byKey))
	for _, f := range byKey {
		families = append(families, *f)
	}
	sort.Slice(families, func(i, j int) bool { return families[i].Key < families[j].Key })
	return families
}

// recommend suggests a classification approach per family. Families without
// level-3 or level-4 accounts have nothing to decide and are skipped.
func (v *Validator) recommend(families []Family, states *stateTable) []models.FamilyRecommendation {
	var out []models.FamilyRecommendation
	for _, f := range families {
		details, parents := f.Members[4], f.Members[3]
		if len(details) == 0 && len(parents) == 0 {
			continue
		}

		rec := models.FamilyRecommendation{
			Family:           f.Key,
			DetailTotal:      len(details),
			DetailClassified: countClassified(details, states),
			ParentTotal:      len(parents),
			ParentClassified: countClassified(parents, states),
		}
		detailShare := share(rec.DetailClassified, rec.DetailTotal)
		parentShare := share(rec.ParentClassified, rec.ParentTotal)
		if rec.DetailTotal > 0 {
			rec.CompletenessPct = detailShare
		} else {
			rec.CompletenessPct = parentShare
		}

		switch {
		case rec.DetailClassified == 0 && rec.ParentClassified == 0:
			if rec.DetailTotal > v.opts.SummaryThreshold {
				rec.Strategy = models.RecommendStartSummary
				rec.Message = fmt.Sprintf(
					"Nothing classified yet and %d detail accounts; classify the %d sub-account(s) at summary level",
					rec.DetailTotal, rec.ParentTotal)
			} else {
				rec.Strategy = models.RecommendStartDetail
				rec.Message = fmt.Sprintf("Nothing classified yet; classify the %d detail account(s) individually",
					rec.DetailTotal)
			}
		case rec.DetailClassified > 0 && detailShare >= parentShare:
			rec.Strategy = models.RecommendContinueDetail
			rec.Message = fmt.Sprintf("Detail classification is %.0f%% complete; classify the remaining %d detail account(s)",
				detailShare, rec.DetailTotal-rec.DetailClassified)
		default:
			rec.Strategy = models.RecommendContinueSummary
			rec.Message = fmt.Sprintf("Summary classification is %.0f%% complete; classify the remaining %d sub-account(s)",
				parentShare, rec.ParentTotal-rec.ParentClassified)
		}
		out = append(out, rec)
	}
	return out
}

func countClassified(codes []string, states *stateTable) int {
	n := 0
	for _, c := range codes {
		if states.of(c) == models.StatusClassified {
			n++
		}
	}
	return n
}

func share(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
