package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/op/go-logging"

	"github.com/Malavika77/swiftcart/basket"
	"github.com/Malavika77/swiftcart/mining"
	"github.com/Malavika77/swiftcart/normalizer"
	"github.com/Malavika77/swiftcart/rules"
)

var log = logging.MustGetLogger("log")

// Dataset is an immutable snapshot of raw input rows. Every snapshot
// gets a fresh ID; cached results are keyed by it, so results for stale
// data become unreachable as soon as a new snapshot is taken.
type Dataset struct {
	ID   uuid.UUID
	Rows []normalizer.RawRow
}

// NewDataset wraps raw rows in a snapshot with a fresh identity.
func NewDataset(rows []normalizer.RawRow) *Dataset {
	return &Dataset{ID: uuid.New(), Rows: rows}
}

// Params are the tunable thresholds of a run.
type Params struct {
	MinSupport float64
	MinLift    float64
	MaxLen     int
	Workers    int
}

// DefaultParams returns the deployment defaults.
func DefaultParams() Params {
	return Params{MinSupport: 0.01, MinLift: 1.0}
}

// Result is the complete, immutable output of one run: cleaned records
// and the basket matrix for reporting, the frequent itemsets, and the
// final rule set. An empty rule set is a valid terminal state.
type Result struct {
	Records  []normalizer.Record
	Matrix   *basket.Matrix
	Itemsets *mining.Itemsets
	Rules    []rules.Rule
}

type cacheKey struct {
	id         uuid.UUID
	minSupport float64
	minLift    float64
	maxLen     int
}

// Runner executes the batch pipeline and memoizes results per
// (snapshot, thresholds). The computation is pure, so a cache hit is
// exactly the value a recomputation would produce.
type Runner struct {
	mu    sync.Mutex
	cache map[cacheKey]*Result
}

func NewRunner() *Runner {
	return &Runner{cache: make(map[cacheKey]*Result)}
}

// Run executes Normalizer -> Encoder -> Miner -> Rule Generator in
// strict sequence. Thresholds are validated before any stage runs.
// Errors in the normalizer abort the run with no partial result.
func (r *Runner) Run(ctx context.Context, ds *Dataset, params Params) (*Result, error) {
	if err := mining.ValidateSupport(params.MinSupport); err != nil {
		return nil, err
	}
	if err := rules.ValidateLift(params.MinLift); err != nil {
		return nil, err
	}

	key := cacheKey{
		id:         ds.ID,
		minSupport: params.MinSupport,
		minLift:    params.MinLift,
		maxLen:     params.MaxLen,
	}
	r.mu.Lock()
	cached, hit := r.cache[key]
	r.mu.Unlock()
	if hit {
		log.Debugf("Cache hit for snapshot %s", ds.ID)
		return cached, nil
	}

	records, err := normalizer.Normalize(ds.Rows)
	if err != nil {
		return nil, err
	}

	matrix := basket.Build(records)
	log.Debugf(
		"Encoded %d records into %d transactions x %d items",
		len(records), matrix.TransactionCount(), len(matrix.Items()),
	)

	itemsets, err := mining.Mine(ctx, matrix, mining.Config{
		MinSupport: params.MinSupport,
		MaxLen:     params.MaxLen,
		Workers:    params.Workers,
	})
	if err != nil {
		return nil, err
	}

	ruleSet, err := rules.Generate(itemsets, params.MinLift)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Records:  records,
		Matrix:   matrix,
		Itemsets: itemsets,
		Rules:    ruleSet,
	}
	log.Infof(
		"Snapshot %s: %d frequent itemsets, %d rules (min support %.4f, min lift %.2f)",
		ds.ID, itemsets.Len(), len(ruleSet), params.MinSupport, params.MinLift,
	)

	r.mu.Lock()
	r.cache[key] = result
	r.mu.Unlock()
	return result, nil
}

// Invalidate drops every cached result for the snapshot.
func (r *Runner) Invalidate(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.cache {
		if key.id == id {
			delete(r.cache, key)
		}
	}
}
