package nlp

import (
	"regexp"
	"strconv"
	"strings"

	"insightx/internal/models"
)

// Entities holds the dimension values and metric mentioned in a question.
// Every list keeps vocabulary declaration order.
type Entities struct {
	Categories []string `json:"categories"`
	States     []string `json:"states"`
	Banks      []string `json:"banks"`
	Devices    []string `json:"devices"`
	Networks   []string `json:"networks"`
	TxTypes    []string `json:"tx_types"`
	AgeGroups  []string `json:"age_groups"`
	Months     []string `json:"months"`
	Days       []string `json:"days"`
	Hours      []string `json:"hours"`
	Metric     string   `json:"metric,omitempty"`
}

// Values returns the mentions for a dimension.
func (e Entities) Values(d models.Dimension) []string {
	switch d {
	case models.DimCategory:
		return e.Categories
	case models.DimState:
		return e.States
	case models.DimBank:
		return e.Banks
	case models.DimDevice:
		return e.Devices
	case models.DimNetwork:
		return e.Networks
	case models.DimTxType:
		return e.TxTypes
	case models.DimAge:
		return e.AgeGroups
	case models.DimMonth:
		return e.Months
	case models.DimDay:
		return e.Days
	case models.DimHour:
		return e.Hours
	}
	return nil
}

// MentionOrder is the order in which named values are considered by handlers.
var MentionOrder = []models.Dimension{
	models.DimCategory, models.DimState, models.DimBank, models.DimDevice, models.DimNetwork,
	models.DimTxType, models.DimAge, models.DimMonth, models.DimDay, models.DimHour,
}

// Mention is one named dimension value.
type Mention struct {
	Dimension models.Dimension
	Value     string
}

// Mentions flattens the named values in MentionOrder.
func (e Entities) Mentions() []Mention {
	var out []Mention
	for _, d := range MentionOrder {
		for _, v := range e.Values(d) {
			out = append(out, Mention{Dimension: d, Value: v})
		}
	}
	return out
}

// Empty reports whether no dimension value was named. The metric does not count.
func (e Entities) Empty() bool {
	return len(e.Mentions()) == 0
}

// Used lists the named values followed by the metric, for response reporting.
func (e Entities) Used() []string {
	out := []string{}
	for _, m := range e.Mentions() {
		out = append(out, m.Value)
	}
	if e.Metric != "" {
		out = append(out, "metric:"+e.Metric)
	}
	return out
}

type term struct {
	value    string
	patterns []*regexp.Regexp
}

type metricRule struct {
	metric  string
	pattern *regexp.Regexp
}

// EntityExtractor finds vocabulary values, hours and the requested metric in a question.
type EntityExtractor struct {
	vocab   map[models.Dimension][]term
	hours   *regexp.Regexp
	metrics []metricRule
}

// phrase matches s case-insensitively, not as part of a longer word or number.
func phrase(s string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(^|[^a-z0-9])` + regexp.QuoteMeta(s) + `($|[^a-z0-9])`)
}

// exact matches s only in its capitalized form; used for words that are
// also common English ("May", "Other").
func exact(s string) *regexp.Regexp {
	return regexp.MustCompile(`(^|[^A-Za-z0-9])` + regexp.QuoteMeta(s) + `($|[^A-Za-z0-9])`)
}

var (
	aliases = map[string][]string{
		"WiFi":         {"wi-fi", "wi fi"},
		"Bill Payment": {"bill", "bills"},
		"Recharge":     {"recharges"},
		"18-25":        {"young", "youth", "teen", "teens", "teenagers"},
		"56+":          {"senior", "seniors", "elder", "elderly", "old"},
	}
	capitalizedOnly = map[string]bool{"May": true, "Other": true}
)

func NewEntityExtractor() *EntityExtractor {
	e := &EntityExtractor{
		vocab: make(map[models.Dimension][]term),
		hours: regexp.MustCompile(`(?i)\b(?:(\d{1,2})\s*(am|pm)\b|(\d{1,2}):00\b|hour\s+(\d{1,2})\b)`),
	}

	for _, d := range MentionOrder {
		if d == models.DimHour {
			continue
		}
		spec, _ := models.SpecFor(d)
		terms := make([]term, 0, len(spec.Vocabulary))
		for _, value := range spec.Vocabulary {
			t := term{value: value}
			if capitalizedOnly[value] {
				t.patterns = append(t.patterns, exact(value))
			} else {
				t.patterns = append(t.patterns, phrase(value))
			}
			for _, alias := range aliases[value] {
				t.patterns = append(t.patterns, phrase(alias))
			}
			terms = append(terms, t)
		}
		e.vocab[d] = terms
	}

	for _, r := range []struct{ metric, pattern string }{
		{models.MetricAvg, `(?i)\b(avg|average|mean)\b`},
		{models.MetricMedian, `(?i)\bmedian\b`},
		{models.MetricMax, `(?i)\b(max|maximum|highest|largest)\b`},
		{models.MetricMin, `(?i)\b(min|minimum|lowest|smallest)\b`},
		{models.MetricTotalVolume, `(?i)\b(total|sum|volume)\b`},
		{models.MetricCount, `(?i)\b(count|how many|number)\b`},
		{models.MetricFraudRatePct, `(?i)fraud`},
		{models.MetricFailRatePct, `(?i)fail`},
	} {
		e.metrics = append(e.metrics, metricRule{metric: r.metric, pattern: regexp.MustCompile(r.pattern)})
	}
	return e
}

// Extract is a pure function of the query text.
func (e *EntityExtractor) Extract(query string) Entities {
	ent := Entities{
		Categories: e.match(models.DimCategory, query),
		States:     e.match(models.DimState, query),
		Banks:      e.match(models.DimBank, query),
		Devices:    e.match(models.DimDevice, query),
		Networks:   e.match(models.DimNetwork, query),
		TxTypes:    e.match(models.DimTxType, query),
		AgeGroups:  e.match(models.DimAge, query),
		Months:     e.match(models.DimMonth, query),
		Days:       e.match(models.DimDay, query),
		Hours:      e.extractHours(query),
	}
	for _, rule := range e.metrics {
		if rule.pattern.MatchString(query) {
			ent.Metric = rule.metric
			break
		}
	}
	return ent
}

func (e *EntityExtractor) match(d models.Dimension, query string) []string {
	out := []string{}
	for _, t := range e.vocab[d] {
		for _, p := range t.patterns {
			if p.MatchString(query) {
				out = append(out, t.value)
				break
			}
		}
	}
	return out
}

// extractHours normalizes hour mentions to 24-hour keys in order of appearance.
// "12 am" is 0 and "12 pm" is 12; am/pm forms accept 1-12, the others 0-23.
func (e *EntityExtractor) extractHours(query string) []string {
	out := []string{}
	seen := make(map[int]bool)
	for _, m := range e.hours.FindAllStringSubmatch(query, -1) {
		hour, ok := -1, false
		switch {
		case m[1] != "":
			hour, ok = twelveHour(m[1], strings.ToLower(m[2]))
		case m[3] != "":
			hour, ok = dayHour(m[3])
		case m[4] != "":
			hour, ok = dayHour(m[4])
		}
		if !ok || seen[hour] {
			continue
		}
		seen[hour] = true
		out = append(out, strconv.Itoa(hour))
	}
	return out
}

func twelveHour(digits, meridiem string) (int, bool) {
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > 12 {
		return 0, false
	}
	if meridiem == "am" {
		if n == 12 {
			return 0, true
		}
		return n, true
	}
	if n == 12 {
		return 12, true
	}
	return n + 12, true
}

func dayHour(digits string) (int, bool) {
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 || n > 23 {
		return 0, false
	}
	return n, true
}
