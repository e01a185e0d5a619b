package service

import (
	"fmt"
	"strconv"
	"strings"

	"insightx/internal/models"
)

// rateView parameterizes the fraud and failure handlers, which differ only in
// the rate they read.
type rateView struct {
	route   string
	noun    string
	metric  string
	overall float64
}

func (g *ResponseGenerator) fraud(r *request) models.Response {
	return g.rates(r, rateView{
		route:   RouteFraud,
		noun:    "fraud",
		metric:  models.MetricFraudRatePct,
		overall: r.kb.FraudRatePct,
	})
}

func (g *ResponseGenerator) failure(r *request) models.Response {
	return g.rates(r, rateView{
		route:   RouteFailure,
		noun:    "failure",
		metric:  models.MetricFailRatePct,
		overall: r.kb.FailRatePct,
	})
}

func (g *ResponseGenerator) rates(r *request, v rateView) models.Response {
	if named := r.lookups(); len(named) > 0 {
		return g.entityRate(r, v, named)
	}
	return g.rateLeaderboard(r, v)
}

func (g *ResponseGenerator) entityRate(r *request, v rateView, named []found) models.Response {
	noun := titleLabel(v.noun)
	lead := named[0]
	rate, _ := lead.Agg.Metric(v.metric)
	diff := relativeDiff(rate, v.overall)

	answer := fmt.Sprintf("%s has a %s rate of %s, %.1f%% %s the overall %s.",
		valueLabel(lead.Dimension, lead.Value), v.noun, formatPct(rate), abs(diff), direction(diff), formatPct(v.overall))

	stats := models.Stats{}
	for _, f := range named {
		fr, _ := f.Agg.Metric(v.metric)
		stats = append(stats, stat(fmt.Sprintf("%s %s Rate", valueLabel(f.Dimension, f.Value), noun), formatPct(fr)))
	}
	stats = append(stats,
		stat(fmt.Sprintf("Overall %s Rate", noun), formatPct(v.overall)),
		stat("Difference", formatSignedPct(diff)),
		stat("Transactions", FormatCount(lead.Agg.Count)),
	)
	if v.metric == models.MetricFraudRatePct {
		stats = append(stats, stat("Fraud Cases", fmt.Sprintf("%d", lead.Agg.FraudCount)))
	}

	var others []string
	for _, f := range named[1:] {
		fr, _ := f.Agg.Metric(v.metric)
		others = append(others, fmt.Sprintf("%s is at %s", valueLabel(f.Dimension, f.Value), formatPct(fr)))
	}
	if len(others) > 0 {
		answer += " " + strings.Join(others, "; ") + "."
	}

	label := valueLabel(lead.Dimension, lead.Value)
	var pattern, recommendation string
	switch {
	case diff > 10:
		pattern = fmt.Sprintf("%s is a %s hotspot relative to the rest of the dataset.", label, v.noun)
		recommendation = fmt.Sprintf("Review %s controls for %s transactions first.", v.noun, label)
	case diff < -10:
		pattern = fmt.Sprintf("%s runs below the dataset's %s rate.", label, v.noun)
		recommendation = fmt.Sprintf("Use %s as a benchmark when tuning %s controls elsewhere.", label, v.noun)
	default:
		pattern = fmt.Sprintf("%s tracks the dataset's %s rate closely.", label, v.noun)
		recommendation = fmt.Sprintf("Keep current %s controls for %s and watch for drift.", v.noun, label)
	}

	return models.Response{
		Intent:         v.route,
		Answer:         answer,
		Stats:          stats,
		Pattern:        pattern,
		Recommendation: recommendation,
		Confidence:     92,
	}
}

func (g *ResponseGenerator) rateLeaderboard(r *request, v rateView) models.Response {
	noun := titleLabel(v.noun)
	desc := !r.cue(cueAscending)

	dim := rateDimensionCue(r.text, models.DimCategory)
	if r.kb.Table(dim) == nil {
		dim = ""
		for _, d := range leaderboardDimensions {
			if r.kb.Table(d) != nil {
				dim = d
				break
			}
		}
	}
	if dim == "" {
		return g.overview(r)
	}

	spec, _ := models.SpecFor(dim)
	ranked := Rank(r.kb.Table(dim), v.metric, spec.TopN, desc)
	if len(ranked) == 0 {
		return g.overview(r)
	}
	lead := ranked[0]
	leadLabel := valueLabel(dim, lead.Name)
	extreme := "highest"
	if !desc {
		extreme = "lowest"
	}

	answer := fmt.Sprintf("%s has the %s %s rate among %s at %s, against %s overall.",
		leadLabel, extreme, v.noun, spec.Plural, formatPct(lead.Value), formatPct(v.overall))

	stats := models.Stats{stat(fmt.Sprintf("Overall %s Rate", noun), formatPct(v.overall))}
	for i, e := range ranked {
		if i == 5 {
			break
		}
		stats = append(stats, stat(fmt.Sprintf("#%d %s", i+1, valueLabel(dim, e.Name)), formatPct(e.Value)))
	}
	for _, d := range leaderboardDimensions {
		if d == dim {
			continue
		}
		high, low, ok := extremes(r.kb.Table(d), v.metric)
		if !ok {
			continue
		}
		s, _ := models.SpecFor(d)
		stats = append(stats,
			stat("Highest "+titleLabel(s.Label), fmt.Sprintf("%s (%s)", valueLabel(d, high.Name), formatPct(high.Value))),
			stat("Lowest "+titleLabel(s.Label), fmt.Sprintf("%s (%s)", valueLabel(d, low.Name), formatPct(low.Value))),
		)
	}

	var pattern, recommendation string
	if v.metric == models.MetricFraudRatePct {
		fa := r.kb.FraudAnalysis
		stats = append(stats,
			stat("Fraud Cases", fmt.Sprintf("%d", fa.Count)),
			stat("Avg Fraud Amount", FormatCurrency(fa.AvgAmount)),
		)
		pattern = fraudProfile(fa)
		recommendation = fmt.Sprintf("Add step-up verification for high-value %s transactions in %s and review rules for %s.",
			valueOr(fa.TopDevice, "all-device"), leadLabel, valueOr(fa.TopCategory, "the riskiest categories"))
		if !desc {
			recommendation = fmt.Sprintf("Study the controls behind %s's low fraud rate and apply them to the riskiest %s.", leadLabel, spec.Plural)
		}
	} else {
		high, low, _ := extremes(r.kb.Table(dim), v.metric)
		pattern = fmt.Sprintf("Failure rates across %s range from %s (%s) to %s (%s).",
			spec.Plural, formatPct(low.Value), valueLabel(dim, low.Name), formatPct(high.Value), valueLabel(dim, high.Name))
		recommendation = fmt.Sprintf("Audit retry, timeout and bank-side declines for %s, where failures are most frequent.", valueLabel(dim, high.Name))
	}

	return models.Response{
		Intent:         v.route,
		Answer:         answer,
		Stats:          stats,
		Pattern:        pattern,
		Recommendation: recommendation,
		Confidence:     90,
	}
}

func fraudProfile(fa models.FraudAnalysis) string {
	if fa.Count == 0 {
		return "No transactions are flagged as fraud."
	}
	var parts []string
	if fa.TopCategory != "" {
		parts = append(parts, fa.TopCategory+" purchases")
	}
	if fa.TopState != "" {
		parts = append(parts, "senders in "+fa.TopState)
	}
	if fa.TopDevice != "" {
		parts = append(parts, fa.TopDevice+" devices")
	}
	profile := fmt.Sprintf("Flagged transactions average %s.", FormatCurrency(fa.AvgAmount))
	if len(parts) > 0 {
		profile = fmt.Sprintf("Fraud cases cluster in %s.", strings.Join(parts, ", ")) + " " + profile
	}
	if h, err := strconv.Atoi(fa.TopHour); err == nil {
		profile += fmt.Sprintf(" The most frequent fraud hour is %s.", hourLabel(h))
	}
	return profile
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
