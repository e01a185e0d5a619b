package service

import (
	"fmt"
	"strings"

	"insightx/internal/models"
)

func (g *ResponseGenerator) rank(r *request) models.Response {
	// "top 10 transactions" ranks payments, not a dimension.
	if r.cue(cueTop10) && !hasDimensionCue(r.text) && len(r.kb.Top10) > 0 {
		return g.topTransactions(r)
	}

	dim := dimensionCue(r.text, models.DimCategory)
	table := r.kb.Table(dim)
	if table.Len() == 0 {
		return g.overview(r)
	}

	spec, _ := models.SpecFor(dim)
	metric := rankMetricCue(r.text)
	desc := !r.cue(cueAscending)
	ranked := Rank(table, metric, spec.TopN, desc)

	order := "Top"
	if !desc {
		order = "Bottom"
	}
	var leaders []string
	for i, e := range ranked {
		if i == 3 {
			break
		}
		leaders = append(leaders, fmt.Sprintf("%d. %s (%s)", i+1, e.Name, formatMetric(metric, e.Value)))
	}
	answer := fmt.Sprintf("%s %d %s by %s: %s.", order, len(ranked), spec.Plural, metricLabel(metric), strings.Join(leaders, ", "))

	stats := make(models.Stats, 0, len(ranked))
	for i, e := range ranked {
		stats = append(stats, stat(fmt.Sprintf("%d. %s", i+1, e.Name), formatMetric(metric, e.Value)))
	}

	first, last := ranked[0], ranked[len(ranked)-1]
	pattern := fmt.Sprintf("%s and %s sit at opposite ends of this list.", first.Name, last.Name)
	hi, lo := first, last
	if !desc {
		hi, lo = last, first
	}
	if lo.Value > 0 && len(ranked) > 1 {
		pattern = fmt.Sprintf("%s is %.2fx %s on %s.", hi.Name, hi.Value/lo.Value, lo.Name, metricLabel(metric))
	}

	var recommendation string
	switch {
	case metric == models.MetricFraudRatePct && desc:
		recommendation = fmt.Sprintf("Prioritise fraud reviews for %s.", first.Name)
	case metric == models.MetricFraudRatePct:
		recommendation = fmt.Sprintf("Use %s as the reference for fraud controls across %s.", first.Name, spec.Plural)
	case desc:
		recommendation = fmt.Sprintf("Protect and grow %s, which leads on %s.", first.Name, metricLabel(metric))
	default:
		recommendation = fmt.Sprintf("Investigate why %s trails on %s and target it with campaigns.", first.Name, metricLabel(metric))
	}

	return models.Response{
		Intent:         RouteRank,
		Answer:         answer,
		Stats:          stats,
		Pattern:        pattern,
		Recommendation: recommendation,
		Confidence:     93,
	}
}
