package service

import (
	"fmt"

	"insightx/internal/models"
)

func (g *ResponseGenerator) compare(r *request) models.Response {
	var dim models.Dimension
	switch {
	case r.cue(cueCompareDevice):
		dim = models.DimDevice
	case r.cue(cueCompareType):
		dim = models.DimTxType
	case r.cue(cueCompareNetwork):
		dim = models.DimNetwork
	default:
		return g.rank(r)
	}

	table := r.kb.Table(dim)
	if table.Len() == 0 {
		return g.rank(r)
	}

	stats := models.Stats{}
	table.Each(func(key string, agg models.Aggregate) {
		stats = append(stats, stat(key, fmt.Sprintf("%s txns | avg ₹%.2f | fraud %s | fail %s",
			FormatCount(agg.Count), agg.Avg, formatPct(agg.FraudRatePct), formatPct(agg.FailRatePct))))
	})

	largest, _, _ := extremes(table, models.MetricCount)
	riskiest, safest, _ := extremes(table, models.MetricFraudRatePct)
	pricey, cheap, _ := extremes(table, models.MetricAvg)
	failing, _, _ := extremes(table, models.MetricFailRatePct)
	volumeShare := share(largest.Agg.Count, r.kb.TotalTransactions)

	var answer, recommendation string
	switch dim {
	case models.DimDevice:
		answer = fmt.Sprintf("%s dominates with %.1f%% of transactions. %s is the safest platform at %s fraud while %s is the riskiest at %s.",
			largest.Name, volumeShare, safest.Name, formatPct(safest.Value), riskiest.Name, formatPct(riskiest.Value))
		recommendation = fmt.Sprintf("Add device fingerprinting and step-up checks on %s; keep %s as the reference flow.", riskiest.Name, safest.Name)
	case models.DimTxType:
		answer = fmt.Sprintf("%s is the most common transaction type with %.1f%% share, while %s carries the highest average ticket at ₹%.2f. %s has the highest fraud rate at %s.",
			largest.Name, volumeShare, pricey.Name, pricey.Value, riskiest.Name, formatPct(riskiest.Value))
		recommendation = fmt.Sprintf("Tune limits for %s payments and promote %s for merchant growth.", riskiest.Name, pricey.Name)
	default:
		answer = fmt.Sprintf("%s carries %.1f%% of traffic. %s shows the highest fraud rate (%s) and %s the highest failure rate (%s).",
			largest.Name, volumeShare, riskiest.Name, formatPct(riskiest.Value), failing.Name, formatPct(failing.Agg.FailRatePct))
		recommendation = fmt.Sprintf("Harden session checks on %s and add retry logic for %s connections.", riskiest.Name, failing.Name)
	}

	pattern := fmt.Sprintf("Average ticket sizes differ by %.1f%% between %s and %s.",
		abs(relativeDiff(pricey.Value, cheap.Value)), pricey.Name, cheap.Name)

	return models.Response{
		Intent:         RouteCompare,
		Answer:         answer,
		Stats:          stats,
		Pattern:        pattern,
		Recommendation: recommendation,
		Confidence:     94,
	}
}
