package service

import (
	"testing"

	"insightx/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankFixture() *models.DimensionTable {
	table := models.NewDimensionTable()
	table.Set("A", models.Aggregate{Count: 10, Avg: 50, FraudRatePct: 0.2})
	table.Set("B", models.Aggregate{Count: 30, Avg: 20, FraudRatePct: 0.5})
	table.Set("C", models.Aggregate{Count: 30, Avg: 90, FraudRatePct: 0.1})
	table.Set("D", models.Aggregate{Count: 5, Avg: 70, FraudRatePct: 0.5})
	return table
}

func names(ranked []Ranked) []string {
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Name
	}
	return out
}

func TestRank_OrdersAndLimits(t *testing.T) {
	table := rankFixture()

	assert.Equal(t, []string{"B", "C", "A", "D"}, names(Rank(table, models.MetricCount, -1, true)), "ties keep table order")
	assert.Equal(t, []string{"D", "A"}, names(Rank(table, models.MetricCount, 2, false)))
	assert.Equal(t, []string{"B", "D", "A"}, names(Rank(table, models.MetricFraudRatePct, 3, true)))
	assert.Empty(t, Rank(table, models.MetricAvg, 0, true))
}

func TestRank_MissingMetricFallsBackToAvg(t *testing.T) {
	ranked := Rank(rankFixture(), models.MetricMedian, 1, true)
	require.Len(t, ranked, 1)
	assert.Equal(t, "C", ranked[0].Name)
	assert.Equal(t, 90.0, ranked[0].Value)
}

func TestRank_EmptyTable(t *testing.T) {
	assert.Empty(t, Rank(nil, models.MetricCount, 5, true))
	_, _, ok := extremes(nil, models.MetricCount)
	assert.False(t, ok)
}

func TestExtremes(t *testing.T) {
	high, low, ok := extremes(rankFixture(), models.MetricFraudRatePct)
	require.True(t, ok)
	assert.Equal(t, "B", high.Name)
	assert.Equal(t, "C", low.Name)
}
