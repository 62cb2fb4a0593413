package normalizer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("log")

// RawRow is a single input row: column name to scalar value. Column
// casing and whitespace are left exactly as they arrived.
type RawRow map[string]interface{}

// Record is a cleaned transaction row in the canonical schema.
type Record struct {
	TransactionID string
	ItemName      string
	Quantity      float64
	Category      string
	DayOfWeek     string
	BasketValue   float64
	Extra         map[string]interface{}
}

// Canonical field names produced by the column mapping.
const (
	FieldTransactionID = "transaction_id"
	FieldItemName      = "item_name"
	FieldQuantity      = "quantity"
	FieldCategory      = "category"
	FieldDayOfWeek     = "day_of_week"
	FieldBasketValue   = "basket_value"
)

// columnRule maps header tokens to a canonical field. Rules are checked
// in order against the trimmed, lowercased header; the first rule whose
// every token appears in the header wins.
type columnRule struct {
	tokens []string
	field  string
}

var columnRules = []columnRule{
	{[]string{"total", "value"}, FieldBasketValue},
	{[]string{"product", "name"}, FieldItemName},
	{[]string{"transaction", "id"}, FieldTransactionID},
	{[]string{"quantity"}, FieldQuantity},
	{[]string{"category"}, FieldCategory},
	{[]string{"day", "week"}, FieldDayOfWeek},
}

// SchemaError reports that a required canonical column could not be
// matched against the input headers.
type SchemaError struct {
	Missing string
	Columns []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf(
		"no column matches %s (columns seen: %s)",
		e.Missing, strings.Join(e.Columns, ", "),
	)
}

// MapColumns resolves every observed header to a canonical field name.
// Headers that match no rule are absent from the result and pass
// through unchanged later. An input without a transaction-id or
// item-name column is unusable and yields a SchemaError.
func MapColumns(headers []string) (map[string]string, error) {
	mapped := make(map[string]string)
	for _, header := range headers {
		clean := strings.ToLower(strings.TrimSpace(header))
		for _, rule := range columnRules {
			if matchesAll(clean, rule.tokens) {
				if _, taken := mapped[header]; !taken {
					mapped[header] = rule.field
				}
				break
			}
		}
	}

	for _, required := range []string{FieldTransactionID, FieldItemName} {
		if !containsField(mapped, required) {
			return nil, &SchemaError{Missing: required, Columns: headers}
		}
	}
	return mapped, nil
}

// Normalize turns raw rows into canonical records. Rows missing a
// transaction id or item name after mapping are silently dropped; this
// is documented behavior, not an error. The result is deterministic for
// a given input.
func Normalize(rows []RawRow) ([]Record, error) {
	if len(rows) == 0 {
		return []Record{}, nil
	}

	mapping, err := MapColumns(collectHeaders(rows))
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		record, ok := buildRecord(row, mapping)
		if !ok {
			dropped++
			continue
		}
		records = append(records, record)
	}
	if dropped > 0 {
		log.Debugf("Dropped %d rows missing transaction id or item name", dropped)
	}
	return records, nil
}

func buildRecord(row RawRow, mapping map[string]string) (Record, bool) {
	record := Record{Quantity: 1}
	quantitySeen := false

	for column, value := range row {
		field, recognized := mapping[column]
		if !recognized {
			if record.Extra == nil {
				record.Extra = make(map[string]interface{})
			}
			record.Extra[column] = value
			continue
		}

		switch field {
		case FieldTransactionID:
			record.TransactionID = scalarString(value)
		case FieldItemName:
			record.ItemName = scalarString(value)
		case FieldQuantity:
			record.Quantity = scalarFloat(value)
			quantitySeen = true
		case FieldCategory:
			record.Category = scalarString(value)
		case FieldDayOfWeek:
			record.DayOfWeek = scalarString(value)
		case FieldBasketValue:
			record.BasketValue = scalarFloat(value)
		}
	}

	// A mapped quantity column with a null cell means quantity 0, not
	// the default presence of 1.
	if !quantitySeen {
		for column, field := range mapping {
			if field == FieldQuantity {
				if _, present := row[column]; !present {
					record.Quantity = 0
				}
			}
		}
	}

	if record.TransactionID == "" || record.ItemName == "" {
		return Record{}, false
	}
	return record, true
}

func collectHeaders(rows []RawRow) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for column := range row {
			seen[column] = struct{}{}
		}
	}
	headers := make([]string, 0, len(seen))
	for column := range seen {
		headers = append(headers, column)
	}
	sort.Strings(headers)
	return headers
}

func matchesAll(header string, tokens []string) bool {
	for _, token := range tokens {
		if !strings.Contains(header, token) {
			return false
		}
	}
	return true
}

func containsField(mapping map[string]string, field string) bool {
	for _, mapped := range mapping {
		if mapped == field {
			return true
		}
	}
	return false
}

func scalarString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

func scalarFloat(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
