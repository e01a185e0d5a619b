package service

import (
	"fmt"

	"insightx/internal/models"
)

func (g *ResponseGenerator) deepDive(r *request) models.Response {
	named := r.lookups()
	if len(named) == 0 {
		return g.overview(r)
	}

	// Categories win over states; anything else gets the plain record report.
	target := named[0]
	for _, d := range []models.Dimension{models.DimCategory, models.DimState} {
		if f, ok := firstOf(named, d); ok {
			target = f
			break
		}
	}

	kb := r.kb
	agg := target.Agg
	label := valueLabel(target.Dimension, target.Value)
	volumeShare := share100(agg.TotalVolume, kb.TotalVolume)

	answer := fmt.Sprintf("%s accounts for %s transactions (%.1f%% of the total) worth %s, averaging ₹%.2f with a %s fraud rate.",
		label, FormatCount(agg.Count), share(agg.Count, kb.TotalTransactions), FormatCurrency(agg.TotalVolume), agg.Avg, formatPct(agg.FraudRatePct))

	stats := recordStats(agg)
	stats = append(stats, stat("Share of Volume", fmt.Sprintf("%.1f%%", volumeShare)))

	avgDiff := relativeDiff(agg.Avg, kb.AvgAmount)
	fraudDiff := relativeDiff(agg.FraudRatePct, kb.FraudRatePct)
	pattern := fmt.Sprintf("Tickets are %.1f%% %s the dataset average and the fraud rate is %.1f%% %s it.",
		abs(avgDiff), direction(avgDiff), abs(fraudDiff), direction(fraudDiff))
	recommendation := fmt.Sprintf("Track %s against these figures each month.", label)

	switch target.Dimension {
	case models.DimCategory:
		// The knowledge base has no category by device cross-tab, so device
		// averages are dataset-wide.
		r.kb.Table(models.DimDevice).Each(func(key string, d models.Aggregate) {
			stats = append(stats, stat(key+" Avg (all categories)", fmt.Sprintf("₹%.2f", d.Avg)))
		})
		if avgDiff > 0 {
			recommendation = fmt.Sprintf("Bundle %s with EMI or cashback offers; its tickets run above average.", label)
		} else {
			recommendation = fmt.Sprintf("Grow %s through frequency rewards; its tickets are small but common.", label)
		}
	case models.DimState:
		stats = append(stats,
			stat("National Avg", fmt.Sprintf("₹%.2f", kb.AvgAmount)),
			stat("vs National", formatSignedPct(avgDiff)),
			stat("National Fraud Rate", formatPct(kb.FraudRatePct)),
		)
		if fraudDiff > 10 {
			recommendation = fmt.Sprintf("Tighten fraud rules for senders in %s, which runs above the national rate.", label)
		} else {
			recommendation = fmt.Sprintf("Expand merchant acquisition in %s; risk is at or below the national level.", label)
		}
	}

	return models.Response{
		Intent:         RouteDeepDive,
		Answer:         answer,
		Stats:          stats,
		Pattern:        pattern,
		Recommendation: recommendation,
		Confidence:     88,
		EntitiesUsed:   []string{target.Value},
	}
}

func firstOf(named []found, d models.Dimension) (found, bool) {
	for _, f := range named {
		if f.Dimension == d {
			return f, true
		}
	}
	return found{}, false
}

func recordStats(agg models.Aggregate) models.Stats {
	stats := models.Stats{
		stat("Transactions", FormatCount(agg.Count)),
		stat("Total Volume", FormatCurrency(agg.TotalVolume)),
		stat("Average", fmt.Sprintf("₹%.2f", agg.Avg)),
	}
	if agg.Median != nil {
		stats = append(stats, stat("Median", fmt.Sprintf("₹%.2f", *agg.Median)))
	}
	if agg.Max != nil {
		stats = append(stats, stat("Max", FormatCurrency(*agg.Max)))
	}
	if agg.Min != nil {
		stats = append(stats, stat("Min", FormatCurrency(*agg.Min)))
	}
	return append(stats,
		stat("Fraud Cases", fmt.Sprintf("%d", agg.FraudCount)),
		stat("Fraud Rate", formatPct(agg.FraudRatePct)),
		stat("Failure Rate", formatPct(agg.FailRatePct)),
	)
}
