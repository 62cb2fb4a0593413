package normalizer

import (
	"errors"
	"reflect"
	"testing"
)

func TestMapColumnsRecognizesMessyHeaders(t *testing.T) {
	headers := []string{
		" Transaction_ID ",
		"product name",
		"QUANTITY",
		"Product_Category",
		"Day_of_Week",
		"Total_Basket_Value",
		"store_code",
	}
	mapping, err := MapColumns(headers)
	if err != nil {
		t.Fatalf("MapColumns returned error: %v", err)
	}

	want := map[string]string{
		" Transaction_ID ":   FieldTransactionID,
		"product name":       FieldItemName,
		"QUANTITY":           FieldQuantity,
		"Product_Category":   FieldCategory,
		"Day_of_Week":        FieldDayOfWeek,
		"Total_Basket_Value": FieldBasketValue,
	}
	if !reflect.DeepEqual(mapping, want) {
		t.Fatalf("MapColumns: got %v, want %v", mapping, want)
	}
}

func TestMapColumnsMissingTransactionID(t *testing.T) {
	_, err := MapColumns([]string{"product name", "quantity"})
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if schemaErr.Missing != FieldTransactionID {
		t.Fatalf("expected missing %s, got %s", FieldTransactionID, schemaErr.Missing)
	}
}

func TestNormalizeDropsIncompleteRows(t *testing.T) {
	rows := []RawRow{
		{"Transaction_ID": "T1", "Product_Name": "Bread", "Quantity": 2.0},
		{"Transaction_ID": nil, "Product_Name": "Milk", "Quantity": 1.0},
		{"Transaction_ID": "T2", "Product_Name": "", "Quantity": 1.0},
		{"Transaction_ID": "T2", "Product_Name": "Milk", "Quantity": 1.0},
	}
	records, err := Normalize(rows)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].TransactionID != "T1" || records[0].ItemName != "Bread" {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[1].TransactionID != "T2" || records[1].ItemName != "Milk" {
		t.Fatalf("unexpected second record: %+v", records[1])
	}
}

func TestNormalizePassesUnrecognizedColumnsThrough(t *testing.T) {
	rows := []RawRow{
		{"Transaction_ID": "T1", "Product_Name": "Bread", "store_code": "S-7"},
	}
	records, err := Normalize(rows)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if got := records[0].Extra["store_code"]; got != "S-7" {
		t.Fatalf("expected store_code passthrough, got %v", got)
	}
}

func TestNormalizeNumericTransactionID(t *testing.T) {
	rows := []RawRow{
		{"transaction id": 1042.0, "product name": "Milk"},
	}
	records, err := Normalize(rows)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if records[0].TransactionID != "1042" {
		t.Fatalf("expected id 1042, got %q", records[0].TransactionID)
	}
}

func TestNormalizeQuantityDefaultsToPresence(t *testing.T) {
	rows := []RawRow{
		{"Transaction_ID": "T1", "Product_Name": "Bread"},
	}
	records, err := Normalize(rows)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if records[0].Quantity != 1 {
		t.Fatalf("expected quantity 1 without a quantity column, got %v", records[0].Quantity)
	}
}

func TestNormalizeNullQuantityIsZero(t *testing.T) {
	rows := []RawRow{
		{"Transaction_ID": "T1", "Product_Name": "Bread", "Quantity": nil},
	}
	records, err := Normalize(rows)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if records[0].Quantity != 0 {
		t.Fatalf("expected quantity 0 for null cell, got %v", records[0].Quantity)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	records, err := Normalize(nil)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	rows := []RawRow{
		{"Transaction_ID": "T1", "Product_Name": "Bread", "Quantity": 2.0},
		{"Transaction_ID": "T2", "Product_Name": "Milk", "Quantity": 1.0},
	}
	first, err := Normalize(rows)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	second, err := Normalize(rows)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Normalize is not deterministic: %v vs %v", first, second)
	}
}
