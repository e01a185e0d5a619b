package nlp

import (
	"testing"

	"insightx/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	c := NewIntentClassifier()

	tests := []struct {
		query string
		want  []Intent
	}{
		{"", []Intent{IntentOverview}},
		{"hello there", []Intent{IntentOverview}},
		{"Which state has the highest fraud rate?", []Intent{IntentFraud, IntentRank}},
		{"What is the average transaction amount for Shopping?", []Intent{IntentAmount}},
		{"Compare Android vs iOS", []Intent{IntentCompare}},
		{"What are the peak hours?", []Intent{IntentTrend}},
		{"How many failed transactions on weekends?", []Intent{IntentFailure, IntentCount, IntentTrend}},
		{"Give me a summary", []Intent{IntentOverview}},
		{"Any unusual spikes?", []Intent{IntentAnomaly}},
		{"Which state is the safest?", []Intent{IntentRank}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.query))
		})
	}
}

func TestClassify_CatalogOrder(t *testing.T) {
	c := NewIntentClassifier()
	got := c.Classify("top fraud failures compared by total amount trend overview anomaly count")

	order := map[Intent]int{}
	for i, intent := range c.Catalog() {
		order[intent] = i
	}
	for i := 1; i < len(got); i++ {
		assert.Less(t, order[got[i-1]], order[got[i]])
	}
	assert.Len(t, c.Catalog(), 10)
}

func TestHasIntentAndNames(t *testing.T) {
	intents := []Intent{IntentFraud, IntentRank}
	assert.True(t, HasIntent(intents, IntentRank))
	assert.False(t, HasIntent(intents, IntentTrend))
	assert.Equal(t, []string{"FRAUD", "RANK"}, Names(intents))
}

func TestExtract_VocabularyValues(t *testing.T) {
	e := NewEntityExtractor()

	ent := e.Extract("Compare HDFC and SBI fraud in Tamil Nadu and Delhi on android")
	assert.Equal(t, []string{"SBI", "HDFC"}, ent.Banks, "vocabulary order, not text order")
	assert.Equal(t, []string{"Tamil Nadu", "Delhi"}, ent.States)
	assert.Equal(t, []string{"Android"}, ent.Devices)
	assert.Equal(t, models.MetricFraudRatePct, ent.Metric)
	assert.Empty(t, ent.Categories)
}

func TestExtract_WordBoundaries(t *testing.T) {
	e := NewEntityExtractor()

	ent := e.Extract("Is 45G a network? What about 5G?")
	assert.Equal(t, []string{"5G"}, ent.Networks)

	ent = e.Extract("what about other payments in may")
	assert.Empty(t, ent.Categories)
	assert.Empty(t, ent.Months)

	ent = e.Extract("Other category spending in May")
	assert.Equal(t, []string{"Other"}, ent.Categories)
	assert.Equal(t, []string{"May"}, ent.Months)
}

func TestExtract_Aliases(t *testing.T) {
	e := NewEntityExtractor()

	ent := e.Extract("Do seniors on wi-fi pay bills more than young users?")
	assert.Equal(t, []string{"WiFi"}, ent.Networks)
	assert.Equal(t, []string{"Bill Payment"}, ent.TxTypes)
	assert.Equal(t, []string{"18-25", "56+"}, ent.AgeGroups)
}

func TestExtract_Hours(t *testing.T) {
	e := NewEntityExtractor()

	tests := []struct {
		query string
		want  []string
	}{
		{"volume at 9 pm", []string{"21"}},
		{"between 12 am and 12 pm", []string{"0", "12"}},
		{"at 18:00 and hour 7", []string{"18", "7"}},
		{"at 13 pm or 25:00", []string{}},
		{"9pm and 21:00", []string{"21"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Extract(tt.query).Hours)
		})
	}
}

func TestExtract_MetricPriority(t *testing.T) {
	e := NewEntityExtractor()

	assert.Equal(t, models.MetricAvg, e.Extract("average and highest amount").Metric)
	assert.Equal(t, models.MetricMax, e.Extract("largest payment").Metric)
	assert.Equal(t, models.MetricCount, e.Extract("how many payments").Metric)
	assert.Equal(t, "", e.Extract("tell me about Delhi").Metric)
}

func TestExtract_IsPure(t *testing.T) {
	e := NewEntityExtractor()
	q := "Average spend on Shopping in Maharashtra at 7 pm via 4G"
	assert.Equal(t, e.Extract(q), e.Extract(q))
}

func TestEntities_EmptyAndUsed(t *testing.T) {
	e := NewEntityExtractor()

	ent := e.Extract("what is the average amount?")
	assert.True(t, ent.Empty(), "metric alone is not a named value")
	assert.Equal(t, []string{"metric:avg"}, ent.Used())

	ent = e.Extract("Shopping in Delhi at 8 pm")
	assert.False(t, ent.Empty())
	assert.Equal(t, []string{"Shopping", "Delhi", "20"}, ent.Used())
	assert.Equal(t, []Mention{
		{Dimension: models.DimCategory, Value: "Shopping"},
		{Dimension: models.DimState, Value: "Delhi"},
		{Dimension: models.DimHour, Value: "20"},
	}, ent.Mentions())
}
