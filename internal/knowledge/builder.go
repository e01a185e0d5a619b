package knowledge

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"insightx/internal/models"
)

var (
	ErrMissingField = errors.New("required field missing")
	ErrNoRecords    = errors.New("record set is empty")
)

// DataError reports a record set that cannot produce a knowledge base.
type DataError struct {
	Source string
	Field  models.Field
	Err    error
}

func (e *DataError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("data error in %q: %v: %s", e.Source, e.Err, e.Field)
	}
	return fmt.Sprintf("data error in %q: %v", e.Source, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// unknownValue groups records whose dimension field is empty.
const unknownValue = "Unknown"

const topTransactions = 10

// Build aggregates a record set into a new knowledge base.
// It either returns a fully populated value or a *DataError, never a partial one.
func Build(set models.RecordSet) (*models.KnowledgeBase, error) {
	for _, field := range models.RequiredFields {
		if !set.Has(field) {
			return nil, &DataError{Source: set.Name, Field: field, Err: ErrMissingField}
		}
	}
	if len(set.Records) == 0 {
		return nil, &DataError{Source: set.Name, Err: ErrNoRecords}
	}

	records := set.Records
	kb := &models.KnowledgeBase{
		Meta: models.Meta{
			Name:    set.Name,
			Rows:    len(records),
			Columns: len(set.Fields),
		},
		Dimensions:         make(map[models.Dimension]*models.DimensionTable),
		AmountDistribution: models.NewAmountDistribution(),
		PeakHour:           -1,
		LowestHour:         -1,
	}

	buildGlobals(kb, set)

	for _, spec := range models.DimensionSpecs() {
		if !set.Has(spec.Field) {
			kb.Skipped = append(kb.Skipped, models.SkippedDimension{
				Dimension: spec.Dimension,
				Reason:    fmt.Sprintf("field %q not present in record set", spec.Field),
			})
			continue
		}
		kb.Dimensions[spec.Dimension] = aggregateDimension(spec, records)
	}

	if hours := kb.Table(models.DimHour); hours.Len() > 0 {
		kb.PeakHour, kb.LowestHour = hourExtremes(hours)
	}

	for _, tx := range records {
		kb.AmountDistribution[models.BucketIndex(tx.Amount)].Count++
	}

	kb.Top10 = topByAmount(records, topTransactions)
	kb.FraudAnalysis = analyzeFraud(kb, records)

	return kb, nil
}

func buildGlobals(kb *models.KnowledgeBase, set models.RecordSet) {
	records := set.Records
	n := len(records)
	amounts := make([]float64, n)

	var volume float64
	for i, tx := range records {
		amounts[i] = tx.Amount
		volume += tx.Amount
		if tx.Fraud {
			kb.FraudCount++
		}
		if tx.Failed() {
			kb.FailedCount++
		} else {
			kb.SuccessCount++
		}
		switch {
		case set.Has(models.FieldWeekend):
			if tx.Weekend {
				kb.WeekendCount++
			} else {
				kb.WeekdayCount++
			}
		case set.Has(models.FieldDay):
			if tx.Day == "Saturday" || tx.Day == "Sunday" {
				kb.WeekendCount++
			} else {
				kb.WeekdayCount++
			}
		}
	}
	sort.Float64s(amounts)

	mean := volume / float64(n)
	kb.TotalTransactions = n
	kb.TotalVolume = round2(volume)
	kb.AvgAmount = round2(mean)
	kb.MedianAmount = round2(percentile(amounts, 0.5))
	kb.StdAmount = round2(stddev(amounts, mean))
	kb.MinAmount = round2(amounts[0])
	kb.MaxAmount = round2(amounts[n-1])
	kb.Percentiles = models.Percentiles{
		P10: round2(percentile(amounts, 0.10)),
		P25: round2(percentile(amounts, 0.25)),
		P50: round2(percentile(amounts, 0.50)),
		P75: round2(percentile(amounts, 0.75)),
		P90: round2(percentile(amounts, 0.90)),
		P95: round2(percentile(amounts, 0.95)),
		P99: round2(percentile(amounts, 0.99)),
	}
	kb.FraudRatePct = ratePct(kb.FraudCount, n)
	kb.SuccessRatePct = ratePct(kb.SuccessCount, n)
	kb.FailRatePct = ratePct(kb.FailedCount, n)
}

type group struct {
	amounts []float64
	volume  float64
	fraud   int
	failed  int
}

func aggregateDimension(spec models.DimensionSpec, records []models.Transaction) *models.DimensionTable {
	groups := make(map[string]*group)
	var seen []string
	for _, tx := range records {
		key := spec.Value(tx)
		if key == "" {
			key = unknownValue
		}
		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
			seen = append(seen, key)
		}
		g.amounts = append(g.amounts, tx.Amount)
		g.volume += tx.Amount
		if tx.Fraud {
			g.fraud++
		}
		if tx.Failed() {
			g.failed++
		}
	}

	table := models.NewDimensionTable()
	for _, key := range orderKeys(spec.Vocabulary, seen) {
		g := groups[key]
		count := len(g.amounts)
		agg := models.Aggregate{
			Count:        count,
			TotalVolume:  round2(g.volume),
			Avg:          round2(g.volume / float64(count)),
			FraudCount:   g.fraud,
			FraudRatePct: ratePct(g.fraud, count),
			FailRatePct:  ratePct(g.failed, count),
		}
		if spec.Spread {
			sort.Float64s(g.amounts)
			median := round2(percentile(g.amounts, 0.5))
			maxAmount := round2(g.amounts[count-1])
			minAmount := round2(g.amounts[0])
			agg.Median, agg.Max, agg.Min = &median, &maxAmount, &minAmount
		}
		table.Set(key, agg)
	}
	return table
}

// orderKeys puts vocabulary values first, in declaration order, followed by
// any other observed values in first-seen order.
func orderKeys(vocabulary, seen []string) []string {
	present := make(map[string]bool, len(seen))
	for _, key := range seen {
		present[key] = true
	}
	ordered := make([]string, 0, len(seen))
	known := make(map[string]bool, len(vocabulary))
	for _, key := range vocabulary {
		known[key] = true
		if present[key] {
			ordered = append(ordered, key)
		}
	}
	for _, key := range seen {
		if !known[key] {
			ordered = append(ordered, key)
		}
	}
	return ordered
}

func hourExtremes(hours *models.DimensionTable) (peak, lowest int) {
	peakCount, lowCount := -1, math.MaxInt
	var peakKey, lowKey string
	hours.Each(func(key string, agg models.Aggregate) {
		if agg.Count > peakCount {
			peakCount, peakKey = agg.Count, key
		}
		if agg.Count < lowCount {
			lowCount, lowKey = agg.Count, key
		}
	})
	return atoiOr(peakKey, -1), atoiOr(lowKey, -1)
}

func topByAmount(records []models.Transaction, n int) []models.Transaction {
	sorted := make([]models.Transaction, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount > sorted[j].Amount
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func analyzeFraud(kb *models.KnowledgeBase, records []models.Transaction) models.FraudAnalysis {
	var fraud []models.Transaction
	for _, tx := range records {
		if tx.Fraud {
			fraud = append(fraud, tx)
		}
	}
	analysis := models.FraudAnalysis{Count: len(fraud)}
	if len(fraud) == 0 {
		return analysis
	}

	var sum float64
	analysis.MinAmount = fraud[0].Amount
	for _, tx := range fraud {
		sum += tx.Amount
		analysis.MaxAmount = math.Max(analysis.MaxAmount, tx.Amount)
		analysis.MinAmount = math.Min(analysis.MinAmount, tx.Amount)
	}
	analysis.AvgAmount = round2(sum / float64(len(fraud)))
	analysis.MaxAmount = round2(analysis.MaxAmount)
	analysis.MinAmount = round2(analysis.MinAmount)

	top := func(d models.Dimension) string {
		spec, ok := models.SpecFor(d)
		if !ok || kb.IsSkipped(d) {
			return ""
		}
		return modeOf(spec, fraud)
	}
	analysis.TopCategory = top(models.DimCategory)
	analysis.TopState = top(models.DimState)
	analysis.TopBank = top(models.DimBank)
	analysis.TopDevice = top(models.DimDevice)
	analysis.TopHour = top(models.DimHour)
	return analysis
}

// modeOf returns the most frequent value; ties go to the earlier key in table order.
func modeOf(spec models.DimensionSpec, records []models.Transaction) string {
	counts := make(map[string]int)
	var seen []string
	for _, tx := range records {
		key := spec.Value(tx)
		if key == "" {
			key = unknownValue
		}
		if _, ok := counts[key]; !ok {
			seen = append(seen, key)
		}
		counts[key]++
	}
	best, bestCount := "", 0
	for _, key := range orderKeys(spec.Vocabulary, seen) {
		if counts[key] > bestCount {
			best, bestCount = key, counts[key]
		}
	}
	return best
}
