package models

import "strconv"

// Dimension names one categorical grouping of the knowledge base.
type Dimension string

const (
	DimCategory Dimension = "category"
	DimState    Dimension = "state"
	DimBank     Dimension = "bank"
	DimDevice   Dimension = "device"
	DimNetwork  Dimension = "network"
	DimTxType   Dimension = "tx_type"
	DimAge      Dimension = "age"
	DimHour     Dimension = "hour"
	DimDay      Dimension = "day"
	DimMonth    Dimension = "month"
)

// Key is the snapshot document key holding the dimension table, e.g. "by_state".
func (d Dimension) Key() string {
	return "by_" + string(d)
}

// DimensionSpec describes how a dimension is read from a record and presented.
type DimensionSpec struct {
	Dimension  Dimension
	Field      Field
	Label      string
	Plural     string
	Vocabulary []string
	// Spread dimensions carry median/max/min in their aggregates.
	Spread bool
	TopN   int
	Value  func(Transaction) string
}

var (
	Categories = []string{"Grocery", "Food", "Shopping", "Fuel", "Other", "Utilities", "Transport", "Entertainment", "Healthcare", "Education"}
	States     = []string{"Maharashtra", "Uttar Pradesh", "Karnataka", "Tamil Nadu", "Delhi", "Telangana", "Gujarat", "Rajasthan", "Andhra Pradesh", "West Bengal"}
	Banks      = []string{"SBI", "HDFC", "ICICI", "Axis", "PNB", "Kotak", "IndusInd", "Yes Bank"}
	Devices    = []string{"Android", "iOS", "Web"}
	Networks   = []string{"4G", "5G", "WiFi", "3G"}
	TxTypes    = []string{"P2P", "P2M", "Bill Payment", "Recharge"}
	AgeGroups  = []string{"18-25", "26-35", "36-45", "46-55", "56+"}
	Days       = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	Months     = []string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}
	Hours      = hourKeys()
)

var dimensionSpecs = []DimensionSpec{
	{DimCategory, FieldCategory, "category", "categories", Categories, true, 10, func(t Transaction) string { return t.Category }},
	{DimState, FieldState, "state", "states", States, true, 10, func(t Transaction) string { return t.State }},
	{DimBank, FieldBank, "bank", "banks", Banks, true, 8, func(t Transaction) string { return t.Bank }},
	{DimDevice, FieldDevice, "device", "devices", Devices, true, 3, func(t Transaction) string { return t.Device }},
	{DimNetwork, FieldNetwork, "network", "networks", Networks, true, 4, func(t Transaction) string { return t.Network }},
	{DimTxType, FieldTxType, "transaction type", "transaction types", TxTypes, true, 4, func(t Transaction) string { return t.TxType }},
	{DimAge, FieldAgeGroup, "age group", "age groups", AgeGroups, true, 5, func(t Transaction) string { return t.AgeGroup }},
	{DimHour, FieldHour, "hour", "hours", Hours, false, 24, func(t Transaction) string { return strconv.Itoa(t.Hour) }},
	{DimDay, FieldDay, "day", "days", Days, false, 7, func(t Transaction) string { return t.Day }},
	{DimMonth, FieldMonth, "month", "months", Months, false, 12, func(t Transaction) string { return t.Month }},
}

// DimensionSpecs returns every dimension in declaration order.
func DimensionSpecs() []DimensionSpec {
	out := make([]DimensionSpec, len(dimensionSpecs))
	copy(out, dimensionSpecs)
	return out
}

// SpecFor returns the spec of a dimension.
func SpecFor(d Dimension) (DimensionSpec, bool) {
	for _, spec := range dimensionSpecs {
		if spec.Dimension == d {
			return spec, true
		}
	}
	return DimensionSpec{}, false
}

// ParseDimension accepts either the bare name ("state") or the document key ("by_state").
func ParseDimension(s string) (Dimension, bool) {
	for _, spec := range dimensionSpecs {
		if s == string(spec.Dimension) || s == spec.Dimension.Key() {
			return spec.Dimension, true
		}
	}
	return "", false
}

func hourKeys() []string {
	keys := make([]string, 24)
	for h := range keys {
		keys[h] = strconv.Itoa(h)
	}
	return keys
}
