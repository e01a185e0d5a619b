package service

import (
	"fmt"
	"strings"

	"insightx/internal/models"
	"insightx/internal/nlp"
)

func (g *ResponseGenerator) amount(r *request) models.Response {
	if named := r.lookups(); len(named) > 0 {
		return g.entityAmount(r, named[0])
	}
	switch {
	case r.cue(cueTop10) && len(r.kb.Top10) > 0:
		return g.topTransactions(r)
	case r.cue(cueDistribution):
		return g.amountDistribution(r)
	}
	return g.globalAmounts(r)
}

func (g *ResponseGenerator) entityAmount(r *request, f found) models.Response {
	kb := r.kb
	label := valueLabel(f.Dimension, f.Value)

	metric := r.entities.Metric
	value, ok := f.Agg.Metric(metric)
	if metric == "" || !ok {
		metric = models.MetricAvg
		value = f.Agg.Avg
	}

	var comparison string
	var diff float64
	switch metric {
	case models.MetricTotalVolume:
		comparison = fmt.Sprintf("%.1f%% of the overall %s.", share100(value, kb.TotalVolume), FormatCurrency(kb.TotalVolume))
	case models.MetricCount:
		comparison = fmt.Sprintf("%.1f%% of all %s transactions.", share(f.Agg.Count, kb.TotalTransactions), FormatCount(kb.TotalTransactions))
	case models.MetricFraudRatePct:
		diff = relativeDiff(value, kb.FraudRatePct)
		comparison = fmt.Sprintf("%.1f%% %s the overall %s.", abs(diff), direction(diff), formatPct(kb.FraudRatePct))
	case models.MetricFailRatePct:
		diff = relativeDiff(value, kb.FailRatePct)
		comparison = fmt.Sprintf("%.1f%% %s the overall %s.", abs(diff), direction(diff), formatPct(kb.FailRatePct))
	default:
		diff = relativeDiff(value, kb.AvgAmount)
		comparison = fmt.Sprintf("%.1f%% %s the overall average of ₹%.2f.", abs(diff), direction(diff), kb.AvgAmount)
	}

	answer := fmt.Sprintf("The %s for %s is %s, %s", metricLabel(metric), label, formatExact(metric, value), comparison)

	stats := models.Stats{
		stat(fmt.Sprintf("%s %s", label, titleLabel(metricLabel(metric))), formatExact(metric, value)),
		stat("Overall Average", fmt.Sprintf("₹%.2f", kb.AvgAmount)),
	}
	if diff != 0 {
		stats = append(stats, stat("Difference", formatSignedPct(diff)))
	}
	stats = append(stats,
		stat("Transactions", FormatCount(f.Agg.Count)),
		stat("Total Volume", FormatCurrency(f.Agg.TotalVolume)),
		stat("Fraud Rate", formatPct(f.Agg.FraudRatePct)),
	)
	if f.Agg.Median != nil && metric != models.MetricMedian {
		stats = append(stats, stat("Median", fmt.Sprintf("₹%.2f", *f.Agg.Median)))
	}

	pattern := fmt.Sprintf("%s tickets run %s the dataset average.", label, direction(relativeDiff(f.Agg.Avg, kb.AvgAmount)))
	if f.Agg.Median != nil && *f.Agg.Median > 0 {
		pattern = fmt.Sprintf("%s's mean is %.1fx its median, so a few large payments lift the average.", label, f.Agg.Avg / *f.Agg.Median)
	}
	recommendation := fmt.Sprintf("Use %s's ₹%.2f average as the baseline for limits and offers.", label, f.Agg.Avg)
	if f.Agg.Avg > kb.AvgAmount {
		recommendation = fmt.Sprintf("Target premium offers at %s, where tickets are above average.", label)
	}

	return models.Response{
		Intent:         RouteAmount,
		Answer:         answer,
		Stats:          stats,
		Pattern:        pattern,
		Recommendation: recommendation,
		Confidence:     95,
		EntitiesUsed:   []string{f.Value, "metric:" + metric},
	}
}

func (g *ResponseGenerator) topTransactions(r *request) models.Response {
	top := r.kb.Top10
	first := top[0]

	stats := make(models.Stats, 0, len(top))
	var fraud int
	for i, tx := range top {
		if tx.Fraud {
			fraud++
		}
		stats = append(stats, stat(fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("₹%.2f | %s | %s | %s | %s", tx.Amount, tx.Category, tx.State, tx.Device, tx.Status)))
	}

	answer := fmt.Sprintf("The largest transaction is ₹%.2f, a %s %s payment from %s via %s.",
		first.Amount, first.Category, first.TxType, first.State, first.Device)

	return models.Response{
		Intent:         RouteAmount,
		Answer:         answer,
		Stats:          stats,
		Pattern:        fmt.Sprintf("%d of the top %d transactions are flagged as fraud.", fraud, len(top)),
		Recommendation: "Route payments above the 99th percentile through manual review.",
		Confidence:     95,
	}
}

func (g *ResponseGenerator) amountDistribution(r *request) models.Response {
	kb := r.kb
	total := 0
	for _, b := range kb.AmountDistribution {
		total += b.Count
	}

	stats := make(models.Stats, 0, len(kb.AmountDistribution))
	var modal models.Bucket
	for _, b := range kb.AmountDistribution {
		if b.Count > modal.Count {
			modal = b
		}
		stats = append(stats, stat(b.Label, fmt.Sprintf("%s (%.1f%%)", FormatCount(b.Count), share(b.Count, total))))
	}

	high := kb.AmountDistribution[len(kb.AmountDistribution)-1]
	return models.Response{
		Intent:         RouteAmount,
		Answer:         fmt.Sprintf("Most transactions (%.1f%%) fall in the %s range.", share(modal.Count, total), modal.Label),
		Stats:          stats,
		Pattern:        fmt.Sprintf("Only %.2f%% of payments are %s, but they drive a disproportionate share of value.", share(high.Count, total), high.Label),
		Recommendation: "Design offers around the dominant ticket range and watch the high-value tail for risk.",
		Confidence:     93,
	}
}

func (g *ResponseGenerator) globalAmounts(r *request) models.Response {
	kb := r.kb
	p := kb.Percentiles

	var lead string
	switch {
	case r.has(nlp.IntentCount) && !r.has(nlp.IntentAmount):
		lead = fmt.Sprintf("There are %s transactions in the dataset (%d exactly).", FormatCount(kb.TotalTransactions), kb.TotalTransactions)
	case r.has(nlp.IntentVolume) && !r.has(nlp.IntentAmount):
		lead = fmt.Sprintf("Total transaction volume is %s (₹%.2f).", FormatCurrency(kb.TotalVolume), kb.TotalVolume)
	default:
		lead = fmt.Sprintf("The average transaction is ₹%.2f with a median of ₹%.2f.", kb.AvgAmount, kb.MedianAmount)
	}
	answer := strings.Join([]string{lead, fmt.Sprintf("Amounts range from ₹%.2f to ₹%.2f across %s transactions.",
		kb.MinAmount, kb.MaxAmount, FormatCount(kb.TotalTransactions))}, " ")

	stats := models.Stats{
		stat("Total Transactions", FormatCount(kb.TotalTransactions)),
		stat("Total Volume", FormatCurrency(kb.TotalVolume)),
		stat("Average", fmt.Sprintf("₹%.2f", kb.AvgAmount)),
		stat("Median", fmt.Sprintf("₹%.2f", kb.MedianAmount)),
		stat("Std Dev", FormatCurrency(kb.StdAmount)),
		stat("Min", FormatCurrency(kb.MinAmount)),
		stat("Max", FormatCurrency(kb.MaxAmount)),
		stat("P90", FormatCurrency(p.P90)),
		stat("P95", FormatCurrency(p.P95)),
		stat("P99", FormatCurrency(p.P99)),
	}

	skew := 0.0
	if kb.MedianAmount > 0 {
		skew = kb.AvgAmount / kb.MedianAmount
	}
	return models.Response{
		Intent:         RouteAmount,
		Answer:         answer,
		Stats:          stats,
		Pattern:        fmt.Sprintf("The mean is %.1fx the median: most payments are small and a long tail of large ones lifts the average.", skew),
		Recommendation: fmt.Sprintf("Set review thresholds near the 99th percentile (%s) rather than the mean.", FormatCurrency(p.P99)),
		Confidence:     90,
	}
}

func share100(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}
