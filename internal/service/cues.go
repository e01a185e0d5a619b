package service

import (
	"regexp"

	"insightx/internal/models"
)

// Keyword cues read from the raw question text by handlers.
var (
	cueState    = regexp.MustCompile(`(?i)\bstates?\b|region`)
	cueCategory = regexp.MustCompile(`(?i)categor|merchant`)
	cueBank     = regexp.MustCompile(`(?i)\bbanks?\b`)
	cueDevice   = regexp.MustCompile(`(?i)device|platform|android|\bios\b|\bweb\b`)
	cueNetwork  = regexp.MustCompile(`(?i)network|\b[345]g\b|wi-?fi`)
	cueAge      = regexp.MustCompile(`(?i)\bages?\b|age group`)
	cueType     = regexp.MustCompile(`(?i)\btypes?\b|p2p|p2m`)

	cueAscending = regexp.MustCompile(`(?i)lowest|safest|\bleast\b|worst performance|minimum`)

	cueMonth = regexp.MustCompile(`(?i)\bmonth|season|quarter|january|february|march|april|june|july|august|september|october|november|december|(?-i:\bMay\b)`)
	cueHour  = regexp.MustCompile(`(?i)\bhour|time of day|\d\s*(am|pm)\b|\bnight|morning|afternoon|evening`)
	cueDay   = regexp.MustCompile(`(?i)\bdays?\b|daily|week|monday|tuesday|wednesday|thursday|friday|saturday|sunday`)

	cueTop10        = regexp.MustCompile(`(?i)top\s*(10|ten)|largest transaction|biggest|highest[- ]value|top transactions`)
	cueDistribution = regexp.MustCompile(`(?i)distribution|bucket|\brange|histogram|breakdown|spread`)

	cueRankFraud  = regexp.MustCompile(`(?i)safe`)
	cueRankVolume = regexp.MustCompile(`(?i)volume|revenue|total`)
	cueRankCount  = regexp.MustCompile(`(?i)count|number|how many|popular|busiest`)
	cueRankAvg    = regexp.MustCompile(`(?i)average|\bavg\b|\bmean\b|value`)

	cueCompareDevice  = regexp.MustCompile(`(?i)android|\bios\b|\bweb\b|device|platform`)
	cueCompareType    = regexp.MustCompile(`(?i)p2p|p2m|\bbill|recharge|\btypes?\b`)
	cueCompareNetwork = regexp.MustCompile(`(?i)\b[345]g\b|wi-?fi|network`)
)

var dimensionCues = []struct {
	dim models.Dimension
	re  *regexp.Regexp
}{
	{models.DimState, cueState},
	{models.DimCategory, cueCategory},
	{models.DimBank, cueBank},
	{models.DimDevice, cueDevice},
	{models.DimNetwork, cueNetwork},
	{models.DimAge, cueAge},
	{models.DimTxType, cueType},
}

// leaderboardDimensions are compared by rate leaderboards, categorical first.
var leaderboardDimensions = []models.Dimension{
	models.DimCategory, models.DimState, models.DimBank, models.DimDevice,
	models.DimNetwork, models.DimTxType, models.DimAge,
	models.DimHour, models.DimDay, models.DimMonth,
}

// dimensionCue picks the dimension a ranking question is about.
func dimensionCue(text string, fallback models.Dimension) models.Dimension {
	for _, c := range dimensionCues {
		if c.re.MatchString(text) {
			return c.dim
		}
	}
	return fallback
}

// rateDimensionCue picks the dimension of a rate leaderboard: a categorical cue
// wins, then a time cue, then fallback.
func rateDimensionCue(text string, fallback models.Dimension) models.Dimension {
	if d := dimensionCue(text, ""); d != "" {
		return d
	}
	if d, ok := timeCue(text); ok {
		return d
	}
	return fallback
}

// hasDimensionCue reports whether the question names any categorical dimension.
func hasDimensionCue(text string) bool {
	return dimensionCue(text, "") != ""
}

func timeCue(text string) (models.Dimension, bool) {
	switch {
	case cueMonth.MatchString(text):
		return models.DimMonth, true
	case cueHour.MatchString(text):
		return models.DimHour, true
	case cueDay.MatchString(text):
		return models.DimDay, true
	}
	return "", false
}

// timeDimensionCue checks months, then hours, then days; hours by default.
func timeDimensionCue(text string) models.Dimension {
	if d, ok := timeCue(text); ok {
		return d
	}
	return models.DimHour
}

func rankMetricCue(text string) string {
	switch {
	case cueRankFraud.MatchString(text):
		return models.MetricFraudRatePct
	case cueRankVolume.MatchString(text):
		return models.MetricTotalVolume
	case cueRankCount.MatchString(text):
		return models.MetricCount
	case cueRankAvg.MatchString(text):
		return models.MetricAvg
	}
	return models.MetricTotalVolume
}
