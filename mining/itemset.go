package mining

import "strings"

// keySeparator joins sorted item names into a lookup key. A control
// character is used so product names containing ordinary punctuation
// cannot collide.
const keySeparator = "\x1f"

// Itemset is an order-irrelevant set of item names annotated with its
// support, the fraction of transactions containing every item.
type Itemset struct {
	Items   []string
	Support float64
}

// Key returns the canonical lookup key for a sorted item slice.
func Key(items []string) string {
	return strings.Join(items, keySeparator)
}

// Itemsets holds all frequent itemsets of a mining run, in level order
// and lexicographic order within a level, with a support index keyed by
// the sorted item names.
type Itemsets struct {
	sets    []Itemset
	support map[string]float64
}

func newItemsets() *Itemsets {
	return &Itemsets{support: make(map[string]float64)}
}

func (s *Itemsets) add(set Itemset) {
	s.sets = append(s.sets, set)
	s.support[Key(set.Items)] = set.Support
}

// All returns every frequent itemset. Callers must not mutate the
// result.
func (s *Itemsets) All() []Itemset {
	return s.sets
}

// Len returns the number of frequent itemsets.
func (s *Itemsets) Len() int {
	return len(s.sets)
}

// Support looks up the support of a sorted item slice. The second
// return is false when the itemset was not frequent.
func (s *Itemsets) Support(items []string) (float64, bool) {
	support, ok := s.support[Key(items)]
	return support, ok
}
