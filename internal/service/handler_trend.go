package service

import (
	"fmt"

	"insightx/internal/models"
)

var timeDimensions = []models.Dimension{models.DimMonth, models.DimHour, models.DimDay}

func (g *ResponseGenerator) trend(r *request) models.Response {
	dim := timeDimensionCue(r.text)
	if r.kb.Table(dim).Len() == 0 {
		dim = ""
		for _, d := range timeDimensions {
			if r.kb.Table(d).Len() > 0 {
				dim = d
				break
			}
		}
	}
	if dim == "" {
		return g.overview(r)
	}

	spec, _ := models.SpecFor(dim)
	table := r.kb.Table(dim)
	busiest, quietest, _ := extremes(table, models.MetricCount)
	riskiest, _, _ := extremes(table, models.MetricFraudRatePct)
	label := titleLabel(spec.Label)

	answer := fmt.Sprintf("Activity peaks %s with %s transactions and is quietest %s with %s.",
		timePhrase(dim, busiest.Name), FormatCount(busiest.Agg.Count),
		timePhrase(dim, quietest.Name), FormatCount(quietest.Agg.Count))

	stats := models.Stats{
		stat("Peak "+label, fmt.Sprintf("%s (%s txns)", valueLabel(dim, busiest.Name), FormatCount(busiest.Agg.Count))),
		stat("Quietest "+label, fmt.Sprintf("%s (%s txns)", valueLabel(dim, quietest.Name), FormatCount(quietest.Agg.Count))),
		stat("Riskiest "+label, fmt.Sprintf("%s (%s fraud)", valueLabel(dim, riskiest.Name), formatPct(riskiest.Value))),
	}
	table.Each(func(key string, agg models.Aggregate) {
		stats = append(stats, stat(valueLabel(dim, key),
			fmt.Sprintf("%s txns | %s", FormatCount(agg.Count), FormatCurrency(agg.TotalVolume))))
	})

	ratio := 0.0
	if quietest.Agg.Count > 0 {
		ratio = float64(busiest.Agg.Count) / float64(quietest.Agg.Count)
	}
	pattern := fmt.Sprintf("The busiest %s carries %.1fx the volume of the quietest. Fraud is most concentrated in %s at %s.",
		spec.Label, ratio, valueLabel(dim, riskiest.Name), formatPct(riskiest.Value))
	if dim == models.DimDay {
		pattern += " " + weekendPattern(r.kb)
	}

	recommendation := fmt.Sprintf("Scale capacity ahead of the %s peak and schedule maintenance %s.",
		valueLabel(dim, busiest.Name), timePhrase(dim, quietest.Name))

	return models.Response{
		Intent:         RouteTrend,
		Answer:         answer,
		Stats:          stats,
		Pattern:        pattern,
		Recommendation: recommendation,
		Confidence:     90,
	}
}

func weekendPattern(kb *models.KnowledgeBase) string {
	total := kb.WeekendCount + kb.WeekdayCount
	if total == 0 {
		return ""
	}
	// Two weekend days against five weekdays.
	weekendDaily := float64(kb.WeekendCount) / 2
	weekdayDaily := float64(kb.WeekdayCount) / 5
	return fmt.Sprintf("An average weekend day sees %.0f transactions against %.0f on a weekday (%s).",
		weekendDaily, weekdayDaily, formatSignedPct(relativeDiff(weekendDaily, weekdayDaily)))
}

// timePhrase renders "at 7 PM", "on Friday" or "in March".
func timePhrase(d models.Dimension, key string) string {
	switch d {
	case models.DimHour:
		return "at " + valueLabel(d, key)
	case models.DimDay:
		return "on " + key
	}
	return "in " + key
}
