package service

import "strings"

var chartRules = []struct {
	chart    string
	keywords []string
}{
	{"amountdist", []string{"highest", "largest", "maximum", "biggest", "top 10", "distribution", "bucket", "range"}},
	{"hourly", []string{"hour", "peak", "time of day"}},
	{"state", []string{"state", "region", "maharashtra", "karnataka"}},
	{"category", []string{"categor", "merchant", "grocery", "food", "shopping"}},
	{"device_compare", []string{"device", "ios", "android", "web browser", "compare device"}},
	{"network", []string{"network", "4g", "5g", "wifi", "3g"}},
	{"bank", []string{"bank", "sbi", "hdfc", "icici", "kotak"}},
	{"daily", []string{"day", "week", "monday", "weekend"}},
	{"age", []string{"age", "young", "senior", "26-35"}},
	{"txtype", []string{"type", "p2p", "p2m", "recharge", "bill"}},
	{"fraud_overview", []string{"fraud"}},
	{"category", []string{"volume", "summary", "overview"}},
}

// DetectChartType suggests which dashboard chart illustrates a question.
// It returns "" when no chart applies.
func DetectChartType(query string) string {
	q := strings.ToLower(query)
	for _, rule := range chartRules {
		for _, kw := range rule.keywords {
			if strings.Contains(q, kw) {
				return rule.chart
			}
		}
	}
	return ""
}
