package knowledge

import (
	"errors"
	"fmt"
	"testing"

	"insightx/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uniformSet returns n successful transactions of amount 100 in Shopping/Delhi.
func uniformSet(n int) models.RecordSet {
	records := make([]models.Transaction, n)
	for i := range records {
		records[i] = models.Transaction{
			ID:       fmt.Sprintf("tx-%d", i),
			Amount:   100,
			Category: "Shopping",
			State:    "Delhi",
			Bank:     "SBI",
			Device:   "Android",
			Network:  "4G",
			TxType:   "P2P",
			AgeGroup: "26-35",
			Status:   models.StatusSuccess,
			Hour:     i % 24,
			Day:      "Monday",
			Month:    "January",
		}
	}
	return models.RecordSet{Name: "fixture.csv", Fields: models.AllFields(), Records: records}
}

func TestBuild_FraudRateIsPercentOfRows(t *testing.T) {
	set := uniformSet(1000)
	for i := 0; i < 10; i++ {
		set.Records[i*50].Fraud = true
	}

	kb, err := Build(set)
	require.NoError(t, err)

	assert.Equal(t, 1000, kb.TotalTransactions)
	assert.Equal(t, 10, kb.FraudCount)
	assert.Equal(t, 1.0, kb.FraudRatePct)
	assert.Equal(t, 100000.0, kb.TotalVolume)
	assert.Equal(t, 100.0, kb.AvgAmount)
	assert.Equal(t, 100.0, kb.SuccessRatePct)
	assert.Equal(t, 0.0, kb.FailRatePct)
	assert.Equal(t, 1000, kb.WeekdayCount)
}

func TestBuild_DimensionAggregates(t *testing.T) {
	set := models.RecordSet{
		Name:   "small.csv",
		Fields: models.AllFields(),
		Records: []models.Transaction{
			{Amount: 100, Category: "Food", State: "Delhi", Status: models.StatusSuccess, Hour: 9, Day: "Saturday", Weekend: true},
			{Amount: 300, Category: "Food", State: "Delhi", Status: models.StatusFailed, Fraud: true, Hour: 9, Day: "Sunday", Weekend: true},
			{Amount: 50, Category: "Grocery", State: "Karnataka", Status: models.StatusSuccess, Hour: 20, Day: "Monday"},
			{Amount: 1000, Category: "", State: "Goa", Status: models.StatusSuccess, Hour: 20, Day: "Monday"},
		},
	}

	kb, err := Build(set)
	require.NoError(t, err)

	food, ok := kb.Lookup(models.DimCategory, "Food")
	require.True(t, ok)
	assert.Equal(t, 2, food.Count)
	assert.Equal(t, 400.0, food.TotalVolume)
	assert.Equal(t, 200.0, food.Avg)
	assert.Equal(t, 50.0, food.FraudRatePct)
	assert.Equal(t, 50.0, food.FailRatePct)
	require.NotNil(t, food.Median)
	assert.Equal(t, 200.0, *food.Median)
	assert.Equal(t, 300.0, *food.Max)
	assert.Equal(t, 100.0, *food.Min)

	// Vocabulary order first, then unseen values, then empty values as Unknown.
	assert.Equal(t, []string{"Grocery", "Food", "Unknown"}, kb.Table(models.DimCategory).Keys())
	assert.Equal(t, []string{"Karnataka", "Delhi", "Goa"}, kb.Table(models.DimState).Keys())

	hour, ok := kb.Lookup(models.DimHour, "9")
	require.True(t, ok)
	assert.Nil(t, hour.Median, "time dimensions carry no spread")
	assert.Equal(t, 9, kb.PeakHour)

	assert.Equal(t, 2, kb.WeekendCount)
	assert.Equal(t, 2, kb.WeekdayCount)
	assert.Equal(t, 362.5, kb.AvgAmount)
	assert.Equal(t, 200.0, kb.MedianAmount)
	assert.Equal(t, 50.0, kb.MinAmount)
	assert.Equal(t, 1000.0, kb.MaxAmount)

	assert.Equal(t, 1, kb.FraudAnalysis.Count)
	assert.Equal(t, "Food", kb.FraudAnalysis.TopCategory)
	assert.Equal(t, "Delhi", kb.FraudAnalysis.TopState)
	assert.Equal(t, "9", kb.FraudAnalysis.TopHour)
}

func TestBuild_CountsSumToTotal(t *testing.T) {
	kb, err := Build(uniformSet(240))
	require.NoError(t, err)

	for _, spec := range models.DimensionSpecs() {
		total := 0
		kb.Table(spec.Dimension).Each(func(_ string, agg models.Aggregate) {
			total += agg.Count
		})
		assert.Equal(t, kb.TotalTransactions, total, spec.Dimension)
	}

	buckets := 0
	for _, b := range kb.AmountDistribution {
		buckets += b.Count
	}
	assert.Equal(t, kb.TotalTransactions, buckets)
	assert.Len(t, kb.Top10, 10)
}

func TestBuild_MissingRequiredField(t *testing.T) {
	set := uniformSet(5)
	set.Fields = []models.Field{models.FieldAmount, models.FieldStatus}

	kb, err := Build(set)
	assert.Nil(t, kb)

	var dataErr *DataError
	require.True(t, errors.As(err, &dataErr))
	assert.Equal(t, models.FieldFraud, dataErr.Field)
	assert.Equal(t, "fixture.csv", dataErr.Source)
	assert.True(t, errors.Is(err, ErrMissingField))
}

func TestBuild_EmptyRecordSet(t *testing.T) {
	_, err := Build(models.RecordSet{Name: "empty.csv", Fields: models.AllFields()})
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestBuild_SkipsAbsentDimensions(t *testing.T) {
	set := uniformSet(20)
	set.Fields = []models.Field{models.FieldAmount, models.FieldStatus, models.FieldFraud, models.FieldCategory}

	kb, err := Build(set)
	require.NoError(t, err)

	assert.NotNil(t, kb.Table(models.DimCategory))
	assert.Nil(t, kb.Table(models.DimState))
	assert.True(t, kb.IsSkipped(models.DimHour))
	assert.Len(t, kb.Skipped, 9)
	assert.Equal(t, -1, kb.PeakHour)
	assert.Equal(t, -1, kb.LowestHour)
	assert.Equal(t, "", kb.FraudAnalysis.TopState)
}

func TestBuild_Deterministic(t *testing.T) {
	set := uniformSet(100)
	set.Records[3].Fraud = true
	set.Records[7].Amount = 5000

	first, err := Build(set)
	require.NoError(t, err)
	second, err := Build(set)
	require.NoError(t, err)

	a, err := Encode(first)
	require.NoError(t, err)
	b, err := Encode(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
	assert.Equal(t, string(a), string(b))
}

func TestPercentile(t *testing.T) {
	values := []float64{10, 20, 30, 40}
	assert.Equal(t, 10.0, percentile(values, 0))
	assert.Equal(t, 25.0, percentile(values, 0.5))
	assert.Equal(t, 40.0, percentile(values, 1))
	assert.Equal(t, 0.0, percentile(nil, 0.5))
}

func TestRatePct(t *testing.T) {
	assert.Equal(t, 0.0, ratePct(5, 0))
	assert.Equal(t, 33.333, ratePct(1, 3))
}
