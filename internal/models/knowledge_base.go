package models

import (
	"encoding/json"
	"math"
)

// Metric names accepted by Aggregate.Metric.
const (
	MetricCount        = "count"
	MetricTotalVolume  = "total_volume"
	MetricAvg          = "avg"
	MetricMedian       = "median"
	MetricMax          = "max"
	MetricMin          = "min"
	MetricFraudCount   = "fraud_count"
	MetricFraudRatePct = "fraud_rate_pct"
	MetricFailRatePct  = "fail_rate_pct"
)

// Aggregate holds the precomputed statistics of one dimension value.
// Median, Max and Min are nil for time dimensions.
type Aggregate struct {
	Count        int      `json:"count"`
	TotalVolume  float64  `json:"total_volume"`
	Avg          float64  `json:"avg"`
	Median       *float64 `json:"median,omitempty"`
	Max          *float64 `json:"max,omitempty"`
	Min          *float64 `json:"min,omitempty"`
	FraudCount   int      `json:"fraud_count"`
	FraudRatePct float64  `json:"fraud_rate_pct"`
	FailRatePct  float64  `json:"fail_rate_pct"`
}

// Metric returns the named statistic; ok is false for unknown or absent metrics.
func (a Aggregate) Metric(name string) (float64, bool) {
	switch name {
	case MetricCount:
		return float64(a.Count), true
	case MetricTotalVolume:
		return a.TotalVolume, true
	case MetricAvg:
		return a.Avg, true
	case MetricMedian:
		return deref(a.Median)
	case MetricMax:
		return deref(a.Max)
	case MetricMin:
		return deref(a.Min)
	case MetricFraudCount:
		return float64(a.FraudCount), true
	case MetricFraudRatePct:
		return a.FraudRatePct, true
	case MetricFailRatePct:
		return a.FailRatePct, true
	}
	return 0, false
}

func deref(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

// DimensionTable maps dimension values to aggregates and remembers insertion order.
type DimensionTable struct {
	keys   []string
	values map[string]Aggregate
}

func NewDimensionTable() *DimensionTable {
	return &DimensionTable{values: make(map[string]Aggregate)}
}

// Set stores an aggregate. Only used while a knowledge base is being built.
func (t *DimensionTable) Set(key string, agg Aggregate) {
	if _, exists := t.values[key]; !exists {
		t.keys = append(t.keys, key)
	}
	t.values[key] = agg
}

func (t *DimensionTable) Get(key string) (Aggregate, bool) {
	if t == nil {
		return Aggregate{}, false
	}
	agg, ok := t.values[key]
	return agg, ok
}

// Keys returns the dimension values in insertion order.
func (t *DimensionTable) Keys() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

func (t *DimensionTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Each visits entries in insertion order.
func (t *DimensionTable) Each(fn func(key string, agg Aggregate)) {
	if t == nil {
		return
	}
	for _, key := range t.keys {
		fn(key, t.values[key])
	}
}

func (t *DimensionTable) MarshalJSON() ([]byte, error) {
	return encodeOrderedObject(len(t.keys), func(i int) (string, any) {
		return t.keys[i], t.values[t.keys[i]]
	})
}

func (t *DimensionTable) UnmarshalJSON(data []byte) error {
	*t = DimensionTable{values: make(map[string]Aggregate)}
	return decodeOrderedObject(data, func(key string, dec *json.Decoder) error {
		var agg Aggregate
		if err := dec.Decode(&agg); err != nil {
			return err
		}
		t.Set(key, agg)
		return nil
	})
}

type Meta struct {
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

type Percentiles struct {
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

// Bucket is one half-open amount range [Min, Max); Max of +Inf is unbounded.
type Bucket struct {
	Label string
	Min   float64
	Max   float64
	Count int
}

// AmountBuckets are the fixed histogram ranges, in ascending order.
var AmountBuckets = []Bucket{
	{Label: "Under ₹100", Min: 0, Max: 100},
	{Label: "₹100-500", Min: 100, Max: 500},
	{Label: "₹500-1K", Min: 500, Max: 1000},
	{Label: "₹1K-5K", Min: 1000, Max: 5000},
	{Label: "₹5K-10K", Min: 5000, Max: 10000},
	{Label: "Above ₹10K", Min: 10000, Max: math.Inf(1)},
}

// BucketIndex returns the histogram slot for an amount.
func BucketIndex(amount float64) int {
	for i, b := range AmountBuckets {
		if amount < b.Max {
			return i
		}
	}
	return len(AmountBuckets) - 1
}

// AmountDistribution is serialized as an ordered label→count object.
type AmountDistribution []Bucket

func NewAmountDistribution() AmountDistribution {
	dist := make(AmountDistribution, len(AmountBuckets))
	copy(dist, AmountBuckets)
	return dist
}

func (d AmountDistribution) MarshalJSON() ([]byte, error) {
	return encodeOrderedObject(len(d), func(i int) (string, any) {
		return d[i].Label, d[i].Count
	})
}

func (d *AmountDistribution) UnmarshalJSON(data []byte) error {
	dist := NewAmountDistribution()
	err := decodeOrderedObject(data, func(key string, dec *json.Decoder) error {
		var count int
		if err := dec.Decode(&count); err != nil {
			return err
		}
		for i := range dist {
			if dist[i].Label == key {
				dist[i].Count = count
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	*d = dist
	return nil
}

// FraudAnalysis summarizes the fraud-flagged subset.
type FraudAnalysis struct {
	Count       int     `json:"count"`
	AvgAmount   float64 `json:"avg_amount"`
	MaxAmount   float64 `json:"max_amount"`
	MinAmount   float64 `json:"min_amount"`
	TopCategory string  `json:"top_category"`
	TopState    string  `json:"top_state"`
	TopBank     string  `json:"top_bank"`
	TopDevice   string  `json:"top_device"`
	TopHour     string  `json:"top_hour"`
}

// SkippedDimension records a dimension that could not be aggregated.
type SkippedDimension struct {
	Dimension Dimension `json:"dimension"`
	Reason    string    `json:"reason"`
}

// KnowledgeBase is one complete, immutable aggregate snapshot.
// The serialized document form lives in the knowledge package.
type KnowledgeBase struct {
	Meta Meta

	TotalTransactions int
	TotalVolume       float64
	AvgAmount         float64
	MedianAmount      float64
	StdAmount         float64
	MinAmount         float64
	MaxAmount         float64
	Percentiles       Percentiles

	FraudCount     int
	FraudRatePct   float64
	SuccessCount   int
	FailedCount    int
	SuccessRatePct float64
	FailRatePct    float64

	// PeakHour and LowestHour are -1 when the hour dimension was skipped.
	PeakHour     int
	LowestHour   int
	WeekendCount int
	WeekdayCount int

	Dimensions         map[Dimension]*DimensionTable
	AmountDistribution AmountDistribution
	Top10              []Transaction
	FraudAnalysis      FraudAnalysis
	Skipped            []SkippedDimension
}

// Table returns the aggregate table of a dimension, or nil when it was skipped.
func (kb *KnowledgeBase) Table(d Dimension) *DimensionTable {
	if kb == nil || kb.Dimensions == nil {
		return nil
	}
	return kb.Dimensions[d]
}

// Lookup is a pure read of one aggregate record.
func (kb *KnowledgeBase) Lookup(d Dimension, value string) (Aggregate, bool) {
	return kb.Table(d).Get(value)
}

// IsSkipped reports whether the dimension was omitted at build time.
func (kb *KnowledgeBase) IsSkipped(d Dimension) bool {
	for _, s := range kb.Skipped {
		if s.Dimension == d {
			return true
		}
	}
	return false
}
