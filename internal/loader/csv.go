package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"insightx/internal/models"

	"golang.org/x/text/encoding/charmap"
)

var ErrNoHeader = errors.New("csv has no header row")

// fieldTimestamp is decomposed into hour, day, month and weekend when those
// columns are missing.
const fieldTimestamp models.Field = "timestamp"

const fieldID models.Field = "transaction id"

// headerAliases maps normalized header spellings onto schema fields.
var headerAliases = map[string]models.Field{
	"amount":           models.FieldAmount,
	"amount_inr":       models.FieldAmount,
	"transaction_type": models.FieldTxType,
	"category":         models.FieldCategory,
	"state":            models.FieldState,
	"bank":             models.FieldBank,
	"device":           models.FieldDevice,
	"network":          models.FieldNetwork,
	"age_group":        models.FieldAgeGroup,
	"status":           models.FieldStatus,
	"is_fraud":         models.FieldFraud,
	"hour":             models.FieldHour,
	"day":              models.FieldDay,
	"weekend":          models.FieldWeekend,
	"transaction_id":   fieldID,
	"id":               fieldID,
	"transaction_time": fieldTimestamp,
	"transaction_date": fieldTimestamp,
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"02-01-2006 15:04",
	"02/01/2006 15:04",
}

// LoadFile reads and parses a CSV export.
func LoadFile(path string) (models.RecordSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.RecordSet{}, fmt.Errorf("failed to read csv: %w", err)
	}
	return ParseCSV(filepath.Base(path), data)
}

// ParseCSV converts a UPI transaction export into a record set. Input that is
// not valid UTF-8 is decoded as Windows-1252. Rows with an unparseable amount
// are counted in Rejected.
func ParseCSV(name string, data []byte) (models.RecordSet, error) {
	set := models.RecordSet{Name: name}

	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return set, fmt.Errorf("failed to decode csv: %w", err)
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return set, ErrNoHeader
	}
	if err != nil {
		return set, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	columns := make(map[models.Field]int)
	for i, h := range headers {
		if field, ok := resolveHeader(h); ok {
			if _, dup := columns[field]; !dup {
				columns[field] = i
			}
		}
	}

	for _, field := range models.AllFields() {
		if _, ok := columns[field]; ok {
			set.Fields = append(set.Fields, field)
		}
	}
	_, hasTimestamp := columns[fieldTimestamp]
	if hasTimestamp {
		for _, derived := range []models.Field{models.FieldHour, models.FieldDay, models.FieldMonth, models.FieldWeekend} {
			if !set.Has(derived) {
				set.Fields = append(set.Fields, derived)
			}
		}
	}

	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			set.Rejected++
			continue
		}

		tx, ok := parseRow(row, columns, hasTimestamp)
		if !ok {
			set.Rejected++
			continue
		}
		if tx.ID == "" {
			tx.ID = fmt.Sprintf("%s#%d", name, line)
		}
		set.Records = append(set.Records, tx)
	}

	return set, nil
}

func resolveHeader(h string) (models.Field, bool) {
	norm := strings.ToLower(strings.TrimSpace(h))
	for _, field := range append(models.AllFields(), fieldID, fieldTimestamp) {
		if norm == strings.ToLower(string(field)) {
			return field, true
		}
	}
	key := strings.NewReplacer(" ", "_", "(", "", ")", "").Replace(norm)
	field, ok := headerAliases[key]
	return field, ok
}

func parseRow(row []string, columns map[models.Field]int, hasTimestamp bool) (models.Transaction, bool) {
	get := func(f models.Field) (string, bool) {
		i, ok := columns[f]
		if !ok || i >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}

	var tx models.Transaction
	raw, _ := get(models.FieldAmount)
	amount, err := strconv.ParseFloat(strings.NewReplacer("₹", "", ",", "").Replace(raw), 64)
	if err != nil || amount < 0 {
		return tx, false
	}
	tx.Amount = amount

	tx.ID, _ = get(fieldID)
	tx.Category, _ = get(models.FieldCategory)
	tx.State, _ = get(models.FieldState)
	tx.Bank, _ = get(models.FieldBank)
	tx.Device, _ = get(models.FieldDevice)
	tx.Network, _ = get(models.FieldNetwork)
	tx.TxType, _ = get(models.FieldTxType)
	tx.AgeGroup, _ = get(models.FieldAgeGroup)

	status, _ := get(models.FieldStatus)
	tx.Status = strings.ToUpper(status)
	fraud, _ := get(models.FieldFraud)
	tx.Fraud = parseBool(fraud)

	if hasTimestamp {
		if ts, ok := get(fieldTimestamp); ok {
			if t, ok := parseTimestamp(ts); ok {
				tx.Hour = t.Hour()
				tx.Day = t.Weekday().String()
				tx.Month = t.Month().String()
				tx.Weekend = t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
			}
		}
	}
	if v, ok := get(models.FieldHour); ok {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h < 24 {
			tx.Hour = h
		}
	}
	if v, ok := get(models.FieldDay); ok && v != "" {
		tx.Day = v
	}
	if v, ok := get(models.FieldMonth); ok && v != "" {
		tx.Month = monthName(v)
	}
	if v, ok := get(models.FieldWeekend); ok && v != "" {
		tx.Weekend = parseBool(v)
	}
	return tx, true
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "t":
		return true
	}
	return false
}

func parseTimestamp(v string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// monthName accepts "3", "03" or a month name.
func monthName(v string) string {
	if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 12 {
		return time.Month(n).String()
	}
	return v
}
