package family

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/rules"
)

func recommendationFor(t *testing.T, result *Result, family string) models.FamilyRecommendation {
	t.Helper()
	for _, r := range result.Recommendations {
		if r.Family == family {
			return r
		}
	}
	require.Failf(t, "missing recommendation", "family %s", family)
	return models.FamilyRecommendation{}
}

func TestRecommend(t *testing.T) {
	t.Run("start detail for small untouched family", func(t *testing.T) {
		result := validate(t, subAccountFamily(t), rules.MapLookup{})
		rec := recommendationFor(t, result, "5000-1000")
		assert.Equal(t, models.RecommendStartDetail, rec.Strategy)
		assert.Equal(t, 2, rec.DetailTotal)
		assert.Equal(t, 1, rec.ParentTotal)
		assert.Zero(t, rec.CompletenessPct)
	})

	t.Run("start summary for large untouched family", func(t *testing.T) {
		rows := []row{{"5000-1000-001-000", 0}}
		for i := 1; i <= 16; i++ {
			rows = append(rows, row{fmt.Sprintf("5000-1000-001-%03d", 100+i), 1})
		}
		result := validate(t, buildForest(t, rows...), rules.MapLookup{})
		rec := recommendationFor(t, result, "5000-1000")
		assert.Equal(t, models.RecommendStartSummary, rec.Strategy)
		assert.Equal(t, 16, rec.DetailTotal)
	})

	t.Run("continue detail", func(t *testing.T) {
		result := validate(t, subAccountFamily(t), rules.MapLookup{"5000-1000-001-101": materiales})
		rec := recommendationFor(t, result, "5000-1000")
		assert.Equal(t, models.RecommendContinueDetail, rec.Strategy)
		assert.InDelta(t, 50.0, rec.CompletenessPct, 0.001)
	})

	t.Run("continue summary", func(t *testing.T) {
		forest := buildForest(t,
			row{"5000-1000-001-000", 0},
			row{"5000-1000-001-101", 1},
			row{"5000-1000-002-000", 0},
			row{"5000-1000-002-101", 1},
		)
		result := validate(t, forest, rules.MapLookup{"5000-1000-001-000": materiales, "5000-1000-002-000": materiales})
		rec := recommendationFor(t, result, "5000-1000")
		assert.Equal(t, models.RecommendContinueSummary, rec.Strategy)
		assert.Equal(t, 2, rec.ParentClassified)
		assert.Zero(t, rec.CompletenessPct)
	})

	t.Run("families without detail or sub-accounts are skipped", func(t *testing.T) {
		forest := buildForest(t, row{"5000-0000-000-000", 0}, row{"5000-1000-001-101", 1})
		result := validate(t, forest, rules.MapLookup{})
		for _, r := range result.Recommendations {
			assert.NotEqual(t, "5000-0000", r.Family)
		}
	})
}
