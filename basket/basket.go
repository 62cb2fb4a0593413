package basket

import (
	"sort"

	roaring "github.com/RoaringBitmap/roaring/roaring64"

	"github.com/Malavika77/swiftcart/normalizer"
)

// Matrix is the transaction x item presence encoding. Rows are
// transactions in first-seen order, columns are the full item universe
// in sorted order. Each column is a bitmap over row indices, so an
// unset bit is an explicit absence rather than a missing cell.
type Matrix struct {
	txIDs   []string
	txIndex map[string]uint64
	items   []string
	columns map[string]*roaring.Bitmap
}

// Build pivots cleaned records into a presence matrix. Quantities are
// summed per (transaction, item) pair and collapsed to presence when
// the sum is positive.
func Build(records []normalizer.Record) *Matrix {
	m := &Matrix{
		txIndex: make(map[string]uint64),
		columns: make(map[string]*roaring.Bitmap),
	}

	quantities := make(map[string]map[string]float64)
	itemSet := make(map[string]struct{})

	for _, record := range records {
		if _, seen := m.txIndex[record.TransactionID]; !seen {
			m.txIndex[record.TransactionID] = uint64(len(m.txIDs))
			m.txIDs = append(m.txIDs, record.TransactionID)
		}
		itemSet[record.ItemName] = struct{}{}

		perItem, ok := quantities[record.TransactionID]
		if !ok {
			perItem = make(map[string]float64)
			quantities[record.TransactionID] = perItem
		}
		perItem[record.ItemName] += record.Quantity
	}

	m.items = make([]string, 0, len(itemSet))
	for item := range itemSet {
		m.items = append(m.items, item)
	}
	sort.Strings(m.items)

	for _, item := range m.items {
		m.columns[item] = roaring.New()
	}
	for txID, perItem := range quantities {
		row := m.txIndex[txID]
		for item, quantity := range perItem {
			if quantity > 0 {
				m.columns[item].Add(row)
			}
		}
	}
	return m
}

// TransactionCount returns the number of matrix rows.
func (m *Matrix) TransactionCount() int {
	return len(m.txIDs)
}

// Transactions returns the transaction ids in row order.
func (m *Matrix) Transactions() []string {
	out := make([]string, len(m.txIDs))
	copy(out, m.txIDs)
	return out
}

// Items returns the sorted item universe.
func (m *Matrix) Items() []string {
	out := make([]string, len(m.items))
	copy(out, m.items)
	return out
}

// ItemBits returns the bitmap of row indices containing the item, or an
// empty bitmap for an unknown item. Callers must not mutate the result.
func (m *Matrix) ItemBits(item string) *roaring.Bitmap {
	bits, ok := m.columns[item]
	if !ok {
		return roaring.New()
	}
	return bits
}

// Contains reports whether the transaction contains the item.
func (m *Matrix) Contains(txID, item string) bool {
	row, ok := m.txIndex[txID]
	if !ok {
		return false
	}
	bits, ok := m.columns[item]
	if !ok {
		return false
	}
	return bits.Contains(row)
}

// Row returns the sorted items present in the transaction.
func (m *Matrix) Row(txID string) []string {
	row, ok := m.txIndex[txID]
	if !ok {
		return nil
	}
	var present []string
	for _, item := range m.items {
		if m.columns[item].Contains(row) {
			present = append(present, item)
		}
	}
	return present
}

// SupportCount returns how many transactions contain every given item.
func (m *Matrix) SupportCount(items ...string) uint64 {
	if len(items) == 0 {
		return 0
	}
	acc := m.ItemBits(items[0]).Clone()
	for _, item := range items[1:] {
		acc.And(m.ItemBits(item))
	}
	return acc.GetCardinality()
}
