package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Malavika77/swiftcart/mining"
)

// ErrInvalidLift is returned when the minimum lift threshold is
// negative.
var ErrInvalidLift = errors.New("min lift must not be negative")

// Rule is a directed association between two disjoint non-empty
// itemsets whose union is frequent. Antecedent and consequent are
// sorted item slices; matching against them must use exact membership,
// never substring search on a display string.
type Rule struct {
	Antecedent []string `json:"antecedents"`
	Consequent []string `json:"consequents"`
	Support    float64  `json:"support"`
	Confidence float64  `json:"confidence"`
	Lift       float64  `json:"lift"`
}

// ValidateLift checks the threshold without generating rules.
func ValidateLift(minLift float64) error {
	if minLift < 0 {
		return ErrInvalidLift
	}
	return nil
}

// Generate derives association rules from the mined itemsets. For every
// frequent itemset of size >= 2, every non-empty proper subset becomes
// a candidate antecedent with the remainder as consequent. Confidence
// and lift come from supports the miner already computed; a rule is
// kept when its lift meets minLift. The output order is deterministic
// for a given input.
func Generate(itemsets *mining.Itemsets, minLift float64) ([]Rule, error) {
	if err := ValidateLift(minLift); err != nil {
		return nil, err
	}

	out := []Rule{}
	for _, set := range itemsets.All() {
		size := len(set.Items)
		if size < 2 {
			continue
		}

		// Masks enumerate the antecedent; the complement is never
		// empty because the full mask is excluded.
		for mask := 1; mask < (1<<size)-1; mask++ {
			antecedent, consequent := split(set.Items, mask)

			antSupport, err := subsetSupport(itemsets, antecedent)
			if err != nil {
				return nil, err
			}
			conSupport, err := subsetSupport(itemsets, consequent)
			if err != nil {
				return nil, err
			}

			confidence := set.Support / antSupport
			lift := confidence / conSupport
			if lift >= minLift {
				out = append(out, Rule{
					Antecedent: antecedent,
					Consequent: consequent,
					Support:    set.Support,
					Confidence: confidence,
					Lift:       lift,
				})
			}
		}
	}
	return out, nil
}

// subsetSupport asserts the miner's invariant at the component
// boundary: every subset of a frequent itemset must itself be frequent
// with positive support, so a miss or a zero here is a bug upstream,
// not a degenerate rule.
func subsetSupport(itemsets *mining.Itemsets, items []string) (float64, error) {
	support, ok := itemsets.Support(items)
	if !ok {
		return 0, fmt.Errorf("subset %v of a frequent itemset is missing from the mined set", items)
	}
	if support <= 0 {
		return 0, fmt.Errorf("subset %v has non-positive support %v", items, support)
	}
	return support, nil
}

// split partitions sorted items by mask bits, preserving order on both
// sides.
func split(items []string, mask int) (antecedent, consequent []string) {
	for i, item := range items {
		if mask&(1<<i) != 0 {
			antecedent = append(antecedent, item)
		} else {
			consequent = append(consequent, item)
		}
	}
	return antecedent, consequent
}

// AntecedentContains reports whether the antecedent holds the exact
// item name.
func (r Rule) AntecedentContains(item string) bool {
	return containsItem(r.Antecedent, item)
}

// ConsequentContains reports whether the consequent holds the exact
// item name.
func (r Rule) ConsequentContains(item string) bool {
	return containsItem(r.Consequent, item)
}

func containsItem(items []string, item string) bool {
	for _, candidate := range items {
		if candidate == item {
			return true
		}
	}
	return false
}

// AntecedentString renders the antecedent for display. It is derived
// output only; see AntecedentContains for matching.
func (r Rule) AntecedentString() string {
	return strings.Join(r.Antecedent, ", ")
}

// ConsequentString renders the consequent for display.
func (r Rule) ConsequentString() string {
	return strings.Join(r.Consequent, ", ")
}
