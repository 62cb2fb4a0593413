package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Malavika77/swiftcart/normalizer"
)

const defaultBatchSize = 500

// Reader loads a headered CSV file into raw rows. Column names are
// taken from the header untouched; the normalizer infers the schema
// downstream.
type Reader struct {
	FilePath  string
	BatchSize int
}

// ReadAll drains the whole file, reading in BatchSize chunks.
func (r *Reader) ReadAll() ([]normalizer.RawRow, error) {
	file, err := os.Open(r.FilePath)
	if err != nil {
		return nil, fmt.Errorf("could not open dataset: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err == io.EOF {
		return []normalizer.RawRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read header: %w", err)
	}

	batchSize := r.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	var rows []normalizer.RawRow
	for {
		batch, eof, err := readBatch(reader, header, batchSize)
		if err != nil {
			return nil, err
		}
		rows = append(rows, batch...)
		if eof {
			break
		}
	}
	return rows, nil
}

func readBatch(reader *csv.Reader, header []string, batchSize int) ([]normalizer.RawRow, bool, error) {
	rows := make([]normalizer.RawRow, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		record, err := reader.Read()
		if err == io.EOF {
			return rows, true, nil
		}
		if err != nil {
			return nil, false, fmt.Errorf("could not read row: %w", err)
		}
		rows = append(rows, rowFromRecord(header, record))
	}
	return rows, false, nil
}

func rowFromRecord(header, record []string) normalizer.RawRow {
	row := make(normalizer.RawRow, len(header))
	for i, column := range header {
		if i >= len(record) {
			row[column] = nil
			continue
		}
		row[column] = parseCell(record[i])
	}
	return row
}

// parseCell keeps cells as strings unless they look numeric; empty
// cells become nil so the normalizer treats them as missing.
func parseCell(cell string) interface{} {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil
	}
	if parsed, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return parsed
	}
	return trimmed
}
