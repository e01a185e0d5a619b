package service

import (
	"sort"

	"insightx/internal/models"
)

// Ranked is one entry of a dimension leaderboard.
type Ranked struct {
	Name  string
	Value float64
	Agg   models.Aggregate
}

// Rank orders a dimension table by metric and keeps at most n entries.
// Ties keep table insertion order. Records without the metric fall back to avg.
func Rank(table *models.DimensionTable, metric string, n int, desc bool) []Ranked {
	entries := make([]Ranked, 0, table.Len())
	table.Each(func(key string, agg models.Aggregate) {
		v, ok := agg.Metric(metric)
		if !ok {
			v = agg.Avg
		}
		entries = append(entries, Ranked{Name: key, Value: v, Agg: agg})
	})

	sort.SliceStable(entries, func(i, j int) bool {
		if desc {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Value < entries[j].Value
	})

	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// extremes returns the highest and lowest entries by metric; ok is false for an empty table.
func extremes(table *models.DimensionTable, metric string) (high, low Ranked, ok bool) {
	ranked := Rank(table, metric, -1, true)
	if len(ranked) == 0 {
		return Ranked{}, Ranked{}, false
	}
	high = ranked[0]
	// Lowest is the first key in table order among those sharing the minimum.
	low = Rank(table, metric, 1, false)[0]
	return high, low, true
}
