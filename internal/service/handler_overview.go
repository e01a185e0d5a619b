package service

import (
	"fmt"
	"strings"

	"insightx/internal/models"
)

func (g *ResponseGenerator) overview(r *request) models.Response {
	kb := r.kb
	stats := models.Stats{
		stat("Total Transactions", FormatCount(kb.TotalTransactions)),
		stat("Total Volume", FormatCurrency(kb.TotalVolume)),
		stat("Average Amount", FormatCurrency(kb.AvgAmount)),
		stat("Median Amount", FormatCurrency(kb.MedianAmount)),
		stat("Success Rate", formatPct(kb.SuccessRatePct)),
		stat("Fraud Rate", formatPct(kb.FraudRatePct)),
	}

	answer := []string{fmt.Sprintf(
		"The dataset holds %s transactions worth %s, with a %s success rate and a %s fraud rate.",
		FormatCount(kb.TotalTransactions), FormatCurrency(kb.TotalVolume),
		formatPct(kb.SuccessRatePct), formatPct(kb.FraudRatePct),
	)}

	var leaders []string
	if top, _, ok := extremes(kb.Table(models.DimCategory), models.MetricTotalVolume); ok {
		stats = append(stats, stat("Top Category", fmt.Sprintf("%s (%s)", top.Name, FormatCurrency(top.Value))))
		leaders = append(leaders, fmt.Sprintf("%s leads categories with %s", top.Name, FormatCurrency(top.Value)))
	}
	if top, _, ok := extremes(kb.Table(models.DimState), models.MetricTotalVolume); ok {
		stats = append(stats, stat("Top State", fmt.Sprintf("%s (%s)", top.Name, FormatCurrency(top.Value))))
		leaders = append(leaders, fmt.Sprintf("%s leads states with %s", top.Name, FormatCurrency(top.Value)))
	}
	if len(leaders) > 0 {
		answer = append(answer, strings.Join(leaders, " and ")+".")
	}

	riskiest := ""
	if high, _, ok := extremes(kb.Table(models.DimState), models.MetricFraudRatePct); ok {
		riskiest = high.Name
		stats = append(stats, stat("Highest Fraud State", fmt.Sprintf("%s (%s)", high.Name, formatPct(high.Value))))
		answer = append(answer, fmt.Sprintf("%s has the highest state fraud rate at %s.", high.Name, formatPct(high.Value)))
	}

	pattern := fmt.Sprintf("Weekend transactions make up %.1f%% of activity.", share(kb.WeekendCount, kb.WeekendCount+kb.WeekdayCount))
	if kb.PeakHour >= 0 {
		stats = append(stats, stat("Peak Hour", hourLabel(kb.PeakHour)))
		pattern = fmt.Sprintf("Activity peaks at %s and is quietest at %s. %s",
			hourLabel(kb.PeakHour), hourLabel(kb.LowestHour), pattern)
	}

	recommendation := "Track success and fraud rates weekly against these baselines."
	if riskiest != "" {
		recommendation = fmt.Sprintf("Prioritise fraud monitoring in %s and keep success rates above %s.",
			riskiest, formatPct(kb.SuccessRatePct))
	}

	return models.Response{
		Intent:         RouteOverview,
		Answer:         strings.Join(answer, " "),
		Stats:          stats,
		Pattern:        pattern,
		Recommendation: recommendation,
		Confidence:     95,
	}
}
