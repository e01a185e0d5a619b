package models

// Field is a column of the raw transaction schema.
type Field string

const (
	FieldAmount   Field = "amount (INR)"
	FieldCategory Field = "merchant_category"
	FieldState    Field = "sender_state"
	FieldBank     Field = "sender_bank"
	FieldDevice   Field = "device_type"
	FieldNetwork  Field = "network_type"
	FieldTxType   Field = "transaction type"
	FieldAgeGroup Field = "sender_age_group"
	FieldStatus   Field = "transaction_status"
	FieldFraud    Field = "fraud_flag"
	FieldHour     Field = "hour_of_day"
	FieldDay      Field = "day_of_week"
	FieldMonth    Field = "month"
	FieldWeekend  Field = "is_weekend"
)

// RequiredFields must be present in every record set used to build a knowledge base.
var RequiredFields = []Field{FieldAmount, FieldStatus, FieldFraud}

const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

type Transaction struct {
	ID       string  `json:"id,omitempty"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	State    string  `json:"state"`
	Bank     string  `json:"bank"`
	Device   string  `json:"device"`
	Network  string  `json:"network"`
	TxType   string  `json:"tx_type"`
	AgeGroup string  `json:"age_group"`
	Status   string  `json:"status"`
	Fraud    bool    `json:"fraud"`
	Hour     int     `json:"hour"`
	Day      string  `json:"day"`
	Month    string  `json:"month"`
	Weekend  bool    `json:"weekend"`
}

// Failed reports whether the transaction did not complete.
func (t Transaction) Failed() bool {
	return t.Status == StatusFailed
}

// RecordSet is a batch of transactions together with the schema they were read from.
type RecordSet struct {
	Name    string
	Fields  []Field
	Records []Transaction
	// Rejected counts source rows that could not be parsed.
	Rejected int
}

// Has reports whether the source schema carried the field.
func (s RecordSet) Has(f Field) bool {
	for _, field := range s.Fields {
		if field == f {
			return true
		}
	}
	return false
}

// AllFields is the full schema of the UPI transaction export.
func AllFields() []Field {
	return []Field{
		FieldAmount, FieldCategory, FieldState, FieldBank, FieldDevice, FieldNetwork,
		FieldTxType, FieldAgeGroup, FieldStatus, FieldFraud, FieldHour, FieldDay,
		FieldMonth, FieldWeekend,
	}
}
