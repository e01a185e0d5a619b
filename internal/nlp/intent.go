package nlp

import "regexp"

// Intent is a semantic category of question.
type Intent string

const (
	IntentFraud    Intent = "FRAUD"
	IntentFailure  Intent = "FAILURE"
	IntentAmount   Intent = "AMOUNT"
	IntentVolume   Intent = "VOLUME"
	IntentCount    Intent = "COUNT"
	IntentRank     Intent = "RANK"
	IntentCompare  Intent = "COMPARE"
	IntentTrend    Intent = "TREND"
	IntentOverview Intent = "OVERVIEW"
	IntentAnomaly  Intent = "ANOMALY"
)

type intentRule struct {
	intent   Intent
	patterns []*regexp.Regexp
}

// IntentClassifier matches questions against a fixed, ordered intent catalog.
type IntentClassifier struct {
	catalog []intentRule
}

func NewIntentClassifier() *IntentClassifier {
	rule := func(intent Intent, patterns ...string) intentRule {
		r := intentRule{intent: intent}
		for _, p := range patterns {
			r.patterns = append(r.patterns, regexp.MustCompile(`(?i)`+p))
		}
		return r
	}

	return &IntentClassifier{
		catalog: []intentRule{
			rule(IntentFraud, `fraud`, `scam`, `suspicious`, `\brisk`, `flagged`),
			rule(IntentFailure, `fail`, `declin`, `unsuccessful`, `success rate`, `error rate`),
			rule(IntentAmount, `amount`, `\baverage\b`, `\bavg\b`, `\bmean\b`, `\bmedian\b`, `\bspend`, `\bvalue\b`, `how much`, `biggest`),
			rule(IntentVolume, `volume`, `\btotal\b`, `revenue`, `\bsum\b`, `\bgmv\b`),
			rule(IntentCount, `how many`, `\bcount\b`, `number of`),
			rule(IntentRank, `\btop\b`, `highest`, `lowest`, `\bmost\b`, `\bleast\b`, `\bbest\b`, `\bworst\b`, `\bsafest\b`, `\brank`, `leading`),
			rule(IntentCompare, `compar`, `\bvs\.?\b`, `versus`, `difference between`),
			rule(IntentTrend, `trend`, `over time`, `\bmonth(ly|s)?\b`, `\bhour(ly|s)?\b`, `\bpeak\b`, `\bdaily\b`,
				`\bweekday`, `\bweekend`, `time of day`, `busiest`, `quietest`, `season`),
			rule(IntentOverview, `overview`, `summary`, `summari[sz]e`, `dashboard`, `headline`, `overall`),
			rule(IntentAnomaly, `anomal`, `outlier`, `unusual`, `\bspike`, `abnormal`),
		},
	}
}

// Classify returns every matching intent in catalog order, or OVERVIEW when
// nothing matches.
func (c *IntentClassifier) Classify(query string) []Intent {
	var intents []Intent
	for _, rule := range c.catalog {
		for _, p := range rule.patterns {
			if p.MatchString(query) {
				intents = append(intents, rule.intent)
				break
			}
		}
	}
	if len(intents) == 0 {
		return []Intent{IntentOverview}
	}
	return intents
}

// Catalog lists intents in priority order.
func (c *IntentClassifier) Catalog() []Intent {
	out := make([]Intent, len(c.catalog))
	for i, rule := range c.catalog {
		out[i] = rule.intent
	}
	return out
}

// HasIntent reports whether target is among intents.
func HasIntent(intents []Intent, target Intent) bool {
	for _, intent := range intents {
		if intent == target {
			return true
		}
	}
	return false
}

// Names converts intents to strings.
func Names(intents []Intent) []string {
	out := make([]string, len(intents))
	for i, intent := range intents {
		out[i] = string(intent)
	}
	return out
}
