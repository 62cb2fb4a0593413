package mining

import (
	"context"
	"errors"

	roaring "github.com/RoaringBitmap/roaring/roaring64"
	"golang.org/x/sync/errgroup"

	"github.com/Malavika77/swiftcart/basket"
)

// ErrInvalidSupport is returned when the minimum support threshold is
// outside (0, 1].
var ErrInvalidSupport = errors.New("min support must be in (0, 1]")

// Config tunes a mining run.
type Config struct {
	// MinSupport is the minimum fraction of transactions an itemset
	// must appear in. Must be in (0, 1].
	MinSupport float64
	// MaxLen bounds the itemset size as a safety valve against
	// combinatorial blowup. Zero means unbounded.
	MaxLen int
	// Workers is the number of goroutines counting candidate supports
	// within a level. Values below 2 run sequentially.
	Workers int
}

// ValidateSupport checks the threshold without running the miner.
func ValidateSupport(minSupport float64) error {
	if minSupport <= 0 || minSupport > 1 {
		return ErrInvalidSupport
	}
	return nil
}

// candidate is a live itemset during level-wise search. The bitmap
// holds the rows containing every item, so the next level's counts are
// a single intersection with a singleton column.
type candidate struct {
	items []string
	bits  *roaring.Bitmap
}

// Mine computes every itemset whose support meets cfg.MinSupport using
// level-wise Apriori search: candidates of size k are joined from
// frequent itemsets of size k-1 sharing a (k-2)-item prefix, candidates
// with any infrequent (k-1)-subset are pruned before counting, and the
// search stops at the first empty level. An empty matrix yields an
// empty result, not an error.
func Mine(ctx context.Context, m *basket.Matrix, cfg Config) (*Itemsets, error) {
	if err := ValidateSupport(cfg.MinSupport); err != nil {
		return nil, err
	}

	result := newItemsets()
	total := m.TransactionCount()
	if total == 0 {
		return result, nil
	}

	singles := make(map[string]*roaring.Bitmap)
	var level []candidate
	for _, item := range m.Items() {
		bits := m.ItemBits(item)
		support := float64(bits.GetCardinality()) / float64(total)
		if support >= cfg.MinSupport {
			singles[item] = bits
			level = append(level, candidate{items: []string{item}, bits: bits})
			result.add(Itemset{Items: []string{item}, Support: support})
		}
	}

	for size := 2; len(level) > 0; size++ {
		if cfg.MaxLen > 0 && size > cfg.MaxLen {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frequentKeys := make(map[string]struct{}, len(level))
		for _, c := range level {
			frequentKeys[Key(c.items)] = struct{}{}
		}

		candidates := joinLevel(level, frequentKeys)
		counts := countSupports(candidates, singles, cfg.Workers)

		var next []candidate
		for i, c := range candidates {
			support := float64(counts[i].GetCardinality()) / float64(total)
			if support >= cfg.MinSupport {
				next = append(next, candidate{items: c.items, bits: counts[i]})
				result.add(Itemset{Items: c.items, Support: support})
			}
		}
		level = next
	}

	return result, nil
}

// joinLevel generates size-(k+1) candidates from the size-k frequent
// set. The level is lexicographically ordered, so joining pairs that
// share everything but their last item enumerates each candidate
// exactly once. Candidates with a pruned subset are discarded here,
// before any counting.
func joinLevel(level []candidate, frequentKeys map[string]struct{}) []candidate {
	var out []candidate
	for i := 0; i < len(level); i++ {
		for j := i + 1; j < len(level); j++ {
			left, right := level[i].items, level[j].items
			if !samePrefix(left, right) {
				break
			}
			joined := make([]string, len(left)+1)
			copy(joined, left)
			joined[len(left)] = right[len(right)-1]

			if hasInfrequentSubset(joined, frequentKeys) {
				continue
			}
			out = append(out, candidate{items: joined, bits: level[i].bits})
		}
	}
	return out
}

// samePrefix reports whether two equal-length sorted itemsets agree on
// every item but the last.
func samePrefix(left, right []string) bool {
	for i := 0; i < len(left)-1; i++ {
		if left[i] != right[i] {
			return false
		}
	}
	return true
}

// hasInfrequentSubset applies the Apriori property: a candidate with
// any size-(k-1) subset missing from the frequent set cannot itself be
// frequent.
func hasInfrequentSubset(items []string, frequentKeys map[string]struct{}) bool {
	subset := make([]string, 0, len(items)-1)
	for drop := 0; drop < len(items); drop++ {
		subset = subset[:0]
		for i, item := range items {
			if i != drop {
				subset = append(subset, item)
			}
		}
		if _, ok := frequentKeys[Key(subset)]; !ok {
			return true
		}
	}
	return false
}

// countSupports intersects each candidate's prefix rows with its last
// item's column. Counting is an independent reduction per candidate, so
// it is split across workers and merged by slice position; no ordering
// between workers matters.
func countSupports(candidates []candidate, singles map[string]*roaring.Bitmap, workers int) []*roaring.Bitmap {
	counts := make([]*roaring.Bitmap, len(candidates))
	count := func(i int) {
		c := candidates[i]
		last := c.items[len(c.items)-1]
		rows := c.bits.Clone()
		rows.And(singles[last])
		counts[i] = rows
	}

	if workers < 2 || len(candidates) < 2 {
		for i := range candidates {
			count(i)
		}
		return counts
	}

	var g errgroup.Group
	chunk := (len(candidates) + workers - 1) / workers
	for start := 0; start < len(candidates); start += chunk {
		end := start + chunk
		if end > len(candidates) {
			end = len(candidates)
		}
		start, end := start, end
		g.Go(func() error {
			for i := start; i < end; i++ {
				count(i)
			}
			return nil
		})
	}
	// Workers cannot fail; Wait only synchronizes the merge.
	_ = g.Wait()
	return counts
}
