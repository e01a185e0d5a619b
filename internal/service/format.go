package service

import (
	"fmt"
	"strconv"

	"insightx/internal/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FormatCurrency renders rupee amounts in crore, lakh and thousand units.
func FormatCurrency(v float64) string {
	switch {
	case v >= 1e7:
		return fmt.Sprintf("₹%.2f Cr", v/1e7)
	case v >= 1e5:
		return fmt.Sprintf("₹%.2f L", v/1e5)
	case v >= 1e3:
		return fmt.Sprintf("₹%.1fK", v/1e3)
	default:
		return fmt.Sprintf("₹%d", int(v))
	}
}

// FormatCount renders transaction counts in millions and thousands.
func FormatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1e6)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1e3)
	default:
		return strconv.Itoa(n)
	}
}

func formatPct(v float64) string {
	return fmt.Sprintf("%.3f%%", v)
}

func formatSignedPct(v float64) string {
	return fmt.Sprintf("%+.1f%%", v)
}

// formatExact keeps full precision; used where an answer must quote the stored value.
func formatExact(metric string, v float64) string {
	switch metric {
	case models.MetricCount, models.MetricFraudCount:
		return strconv.Itoa(int(v))
	case models.MetricFraudRatePct, models.MetricFailRatePct:
		return formatPct(v)
	default:
		return fmt.Sprintf("₹%.2f", v)
	}
}

// formatMetric is the compact display form of a metric value.
func formatMetric(metric string, v float64) string {
	switch metric {
	case models.MetricCount, models.MetricFraudCount:
		return FormatCount(int(v))
	case models.MetricFraudRatePct, models.MetricFailRatePct:
		return formatPct(v)
	default:
		return FormatCurrency(v)
	}
}

var metricLabels = map[string]string{
	models.MetricCount:        "transaction count",
	models.MetricTotalVolume:  "total volume",
	models.MetricAvg:          "average amount",
	models.MetricMedian:       "median amount",
	models.MetricMax:          "largest transaction",
	models.MetricMin:          "smallest transaction",
	models.MetricFraudCount:   "fraud cases",
	models.MetricFraudRatePct: "fraud rate",
	models.MetricFailRatePct:  "failure rate",
}

// titleLabel renders "transaction type" as "Transaction Type".
func titleLabel(s string) string {
	// A Caser is stateful, so each call gets its own.
	return cases.Title(language.English).String(s)
}

func metricLabel(metric string) string {
	if label, ok := metricLabels[metric]; ok {
		return label
	}
	return metric
}

// hourLabel renders a 24-hour value as "7 PM".
func hourLabel(h int) string {
	switch {
	case h < 0:
		return "n/a"
	case h == 0:
		return "12 AM"
	case h < 12:
		return fmt.Sprintf("%d AM", h)
	case h == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", h-12)
	}
}

// valueLabel presents a dimension key; hour keys become clock labels.
func valueLabel(d models.Dimension, key string) string {
	if d == models.DimHour {
		if h, err := strconv.Atoi(key); err == nil {
			return hourLabel(h)
		}
	}
	return key
}

// relativeDiff is (value-base)/base*100, or 0 when base is 0.
func relativeDiff(value, base float64) float64 {
	if base == 0 {
		return 0
	}
	return (value - base) / base * 100
}

func share(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func direction(diff float64) string {
	if diff >= 0 {
		return "above"
	}
	return "below"
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
