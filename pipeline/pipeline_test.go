package pipeline_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Malavika77/swiftcart/mining"
	"github.com/Malavika77/swiftcart/normalizer"
	"github.com/Malavika77/swiftcart/pipeline"
	"github.com/Malavika77/swiftcart/rules"
)

func scenarioRows() []normalizer.RawRow {
	return []normalizer.RawRow{
		{"Transaction_ID": "T1", "Product_Name": "bread", "Quantity": 1.0},
		{"Transaction_ID": "T1", "Product_Name": "milk", "Quantity": 1.0},
		{"Transaction_ID": "T2", "Product_Name": "bread", "Quantity": 1.0},
		{"Transaction_ID": "T2", "Product_Name": "milk", "Quantity": 1.0},
		{"Transaction_ID": "T3", "Product_Name": "bread", "Quantity": 1.0},
	}
}

func TestRunFullPipeline(t *testing.T) {
	runner := pipeline.NewRunner()
	ds := pipeline.NewDataset(scenarioRows())

	result, err := runner.Run(context.Background(), ds, pipeline.Params{MinSupport: 0.5, MinLift: 1.0})
	assert.NoError(t, err)
	assert.Len(t, result.Records, 5)
	assert.Equal(t, 3, result.Matrix.TransactionCount())
	assert.Equal(t, 3, result.Itemsets.Len())

	found := false
	for _, r := range result.Rules {
		if reflect.DeepEqual(r.Antecedent, []string{"milk"}) && reflect.DeepEqual(r.Consequent, []string{"bread"}) {
			found = true
			assert.InDelta(t, 1.0, r.Confidence, 1e-9)
			assert.InDelta(t, 1.0, r.Lift, 1e-9)
		}
	}
	assert.True(t, found, "rule {milk}->{bread} missing")
}

func TestRunMemoizesPerSnapshotAndParams(t *testing.T) {
	runner := pipeline.NewRunner()
	ds := pipeline.NewDataset(scenarioRows())
	params := pipeline.Params{MinSupport: 0.5, MinLift: 1.0}

	first, err := runner.Run(context.Background(), ds, params)
	assert.NoError(t, err)
	second, err := runner.Run(context.Background(), ds, params)
	assert.NoError(t, err)
	assert.Same(t, first, second, "identical call should hit the cache")

	// Different thresholds must not share a cache entry.
	other, err := runner.Run(context.Background(), ds, pipeline.Params{MinSupport: 0.9, MinLift: 1.0})
	assert.NoError(t, err)
	assert.NotSame(t, first, other)

	// A new snapshot of the same rows recomputes.
	fresh, err := runner.Run(context.Background(), pipeline.NewDataset(scenarioRows()), params)
	assert.NoError(t, err)
	assert.NotSame(t, first, fresh)
	assert.Equal(t, first.Rules, fresh.Rules, "recomputation must be identical")
}

func TestRunInvalidate(t *testing.T) {
	runner := pipeline.NewRunner()
	ds := pipeline.NewDataset(scenarioRows())
	params := pipeline.Params{MinSupport: 0.5, MinLift: 1.0}

	first, err := runner.Run(context.Background(), ds, params)
	assert.NoError(t, err)

	runner.Invalidate(ds.ID)
	second, err := runner.Run(context.Background(), ds, params)
	assert.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestRunValidatesThresholdsEagerly(t *testing.T) {
	runner := pipeline.NewRunner()
	// Rows with no usable columns: the threshold error must surface
	// before the normalizer ever sees them.
	ds := pipeline.NewDataset([]normalizer.RawRow{{"bogus": "x"}})

	_, err := runner.Run(context.Background(), ds, pipeline.Params{MinSupport: 0, MinLift: 1.0})
	assert.ErrorIs(t, err, mining.ErrInvalidSupport)

	_, err = runner.Run(context.Background(), ds, pipeline.Params{MinSupport: 0.5, MinLift: -1})
	assert.ErrorIs(t, err, rules.ErrInvalidLift)
}

func TestRunSchemaErrorAbortsPipeline(t *testing.T) {
	runner := pipeline.NewRunner()
	ds := pipeline.NewDataset([]normalizer.RawRow{
		{"some_column": "x", "another": 1.0},
	})

	result, err := runner.Run(context.Background(), ds, pipeline.Params{MinSupport: 0.5, MinLift: 1.0})
	assert.Nil(t, result, "no partial result on schema error")
	var schemaErr *normalizer.SchemaError
	assert.True(t, errors.As(err, &schemaErr), "expected SchemaError, got %v", err)
}

func TestRunEmptyInput(t *testing.T) {
	runner := pipeline.NewRunner()
	ds := pipeline.NewDataset(nil)

	result, err := runner.Run(context.Background(), ds, pipeline.Params{MinSupport: 0.5, MinLift: 1.0})
	assert.NoError(t, err, "empty input is a valid terminal state, not an error")
	assert.Empty(t, result.Records)
	assert.Equal(t, 0, result.Matrix.TransactionCount())
	assert.Equal(t, 0, result.Itemsets.Len())
	assert.Empty(t, result.Rules)
}

func TestRunDroppedRowsContributeNothing(t *testing.T) {
	rows := append(scenarioRows(), normalizer.RawRow{
		"Transaction_ID": nil, "Product_Name": "bread", "Quantity": 1.0,
	})
	runner := pipeline.NewRunner()
	ds := pipeline.NewDataset(rows)

	result, err := runner.Run(context.Background(), ds, pipeline.Params{MinSupport: 0.5, MinLift: 1.0})
	assert.NoError(t, err)
	// The dropped row must not inflate any support: bread stays 3/3.
	support, ok := result.Itemsets.Support([]string{"bread"})
	assert.True(t, ok)
	assert.InDelta(t, 1.0, support, 1e-9)
	assert.Equal(t, 3, result.Matrix.TransactionCount())
}
