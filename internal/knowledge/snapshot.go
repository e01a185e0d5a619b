package knowledge

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"insightx/internal/models"
)

//go:embed data/snapshot.json
var embeddedSnapshot []byte

// EmbeddedSource names the knowledge base compiled into the binary.
const EmbeddedSource = "embedded"

// Document is the serialized knowledge base. Key names are stable and shared
// with dashboards and prompt builders.
type Document struct {
	Meta models.Meta `json:"meta"`

	TotalTransactions int                `json:"total_transactions"`
	TotalVolume       float64            `json:"total_volume"`
	AvgAmount         float64            `json:"avg_amount"`
	MedianAmount      float64            `json:"median_amount"`
	StdAmount         float64            `json:"std_amount"`
	MinAmount         float64            `json:"min_amount"`
	MaxAmount         float64            `json:"max_amount"`
	Percentiles       models.Percentiles `json:"percentiles"`
	FraudCount        int                `json:"fraud_count"`
	FraudRatePct      float64            `json:"fraud_rate_pct"`
	SuccessCount      int                `json:"success_count"`
	FailedCount       int                `json:"failed_count"`
	SuccessRatePct    float64            `json:"success_rate_pct"`
	FailRatePct       float64            `json:"fail_rate_pct"`
	PeakHour          int                `json:"peak_hour"`
	LowestHour        int                `json:"lowest_hour"`
	WeekendCount      int                `json:"weekend_count"`
	WeekdayCount      int                `json:"weekday_count"`

	ByCategory *models.DimensionTable `json:"by_category,omitempty"`
	ByState    *models.DimensionTable `json:"by_state,omitempty"`
	ByBank     *models.DimensionTable `json:"by_bank,omitempty"`
	ByDevice   *models.DimensionTable `json:"by_device,omitempty"`
	ByNetwork  *models.DimensionTable `json:"by_network,omitempty"`
	ByTxType   *models.DimensionTable `json:"by_tx_type,omitempty"`
	ByAge      *models.DimensionTable `json:"by_age,omitempty"`
	ByHour     *models.DimensionTable `json:"by_hour,omitempty"`
	ByDay      *models.DimensionTable `json:"by_day,omitempty"`
	ByMonth    *models.DimensionTable `json:"by_month,omitempty"`

	AmountDistribution models.AmountDistribution `json:"amount_distribution"`
	Top10              []models.Transaction      `json:"top10_transactions"`
	FraudAnalysis      models.FraudAnalysis      `json:"fraud_analysis"`
	Skipped            []models.SkippedDimension `json:"skipped_dimensions,omitempty"`
}

func (d *Document) tables() map[models.Dimension]**models.DimensionTable {
	return map[models.Dimension]**models.DimensionTable{
		models.DimCategory: &d.ByCategory,
		models.DimState:    &d.ByState,
		models.DimBank:     &d.ByBank,
		models.DimDevice:   &d.ByDevice,
		models.DimNetwork:  &d.ByNetwork,
		models.DimTxType:   &d.ByTxType,
		models.DimAge:      &d.ByAge,
		models.DimHour:     &d.ByHour,
		models.DimDay:      &d.ByDay,
		models.DimMonth:    &d.ByMonth,
	}
}

// NewDocument converts a knowledge base into its serialized form.
func NewDocument(kb *models.KnowledgeBase) *Document {
	doc := &Document{
		Meta:               kb.Meta,
		TotalTransactions:  kb.TotalTransactions,
		TotalVolume:        kb.TotalVolume,
		AvgAmount:          kb.AvgAmount,
		MedianAmount:       kb.MedianAmount,
		StdAmount:          kb.StdAmount,
		MinAmount:          kb.MinAmount,
		MaxAmount:          kb.MaxAmount,
		Percentiles:        kb.Percentiles,
		FraudCount:         kb.FraudCount,
		FraudRatePct:       kb.FraudRatePct,
		SuccessCount:       kb.SuccessCount,
		FailedCount:        kb.FailedCount,
		SuccessRatePct:     kb.SuccessRatePct,
		FailRatePct:        kb.FailRatePct,
		PeakHour:           kb.PeakHour,
		LowestHour:         kb.LowestHour,
		WeekendCount:       kb.WeekendCount,
		WeekdayCount:       kb.WeekdayCount,
		AmountDistribution: kb.AmountDistribution,
		Top10:              kb.Top10,
		FraudAnalysis:      kb.FraudAnalysis,
		Skipped:            kb.Skipped,
	}
	for dim, slot := range doc.tables() {
		*slot = kb.Table(dim)
	}
	if doc.Top10 == nil {
		doc.Top10 = []models.Transaction{}
	}
	return doc
}

// KnowledgeBase converts the document back into a knowledge base. Dimension
// tables missing from the document are reported as skipped.
func (d *Document) KnowledgeBase() *models.KnowledgeBase {
	kb := &models.KnowledgeBase{
		Meta:               d.Meta,
		TotalTransactions:  d.TotalTransactions,
		TotalVolume:        d.TotalVolume,
		AvgAmount:          d.AvgAmount,
		MedianAmount:       d.MedianAmount,
		StdAmount:          d.StdAmount,
		MinAmount:          d.MinAmount,
		MaxAmount:          d.MaxAmount,
		Percentiles:        d.Percentiles,
		FraudCount:         d.FraudCount,
		FraudRatePct:       d.FraudRatePct,
		SuccessCount:       d.SuccessCount,
		FailedCount:        d.FailedCount,
		SuccessRatePct:     d.SuccessRatePct,
		FailRatePct:        d.FailRatePct,
		PeakHour:           d.PeakHour,
		LowestHour:         d.LowestHour,
		WeekendCount:       d.WeekendCount,
		WeekdayCount:       d.WeekdayCount,
		Dimensions:         make(map[models.Dimension]*models.DimensionTable),
		AmountDistribution: d.AmountDistribution,
		Top10:              d.Top10,
		FraudAnalysis:      d.FraudAnalysis,
		Skipped:            append([]models.SkippedDimension(nil), d.Skipped...),
	}
	if kb.AmountDistribution == nil {
		kb.AmountDistribution = models.NewAmountDistribution()
	}

	slots := d.tables()
	for _, spec := range models.DimensionSpecs() {
		table := *slots[spec.Dimension]
		if table != nil {
			kb.Dimensions[spec.Dimension] = table
			continue
		}
		if !kb.IsSkipped(spec.Dimension) {
			kb.Skipped = append(kb.Skipped, models.SkippedDimension{
				Dimension: spec.Dimension,
				Reason:    fmt.Sprintf("%s absent from snapshot", spec.Dimension.Key()),
			})
		}
	}
	return kb
}

// Encode serializes a knowledge base.
func Encode(kb *models.KnowledgeBase) ([]byte, error) {
	data, err := json.Marshal(NewDocument(kb))
	if err != nil {
		return nil, fmt.Errorf("failed to encode knowledge base: %w", err)
	}
	return data, nil
}

// Decode parses a serialized knowledge base.
func Decode(data []byte) (*models.KnowledgeBase, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode knowledge base: %w", err)
	}
	if doc.TotalTransactions <= 0 {
		return nil, fmt.Errorf("failed to decode knowledge base: %w", ErrNoRecords)
	}
	return doc.KnowledgeBase(), nil
}

// LoadFile reads a snapshot document from disk.
func LoadFile(path string) (*models.KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return Decode(data)
}

// Embedded returns the knowledge base compiled into the binary.
func Embedded() (*models.KnowledgeBase, error) {
	return Decode(embeddedSnapshot)
}
