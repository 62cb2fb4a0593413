package report

import (
	"github.com/Malavika77/swiftcart/normalizer"
	"github.com/Malavika77/swiftcart/rules"
	"github.com/Malavika77/swiftcart/topn"
)

// Summary holds the headline numbers of an analysis run.
type Summary struct {
	TotalTransactions int
	UniqueProducts    int
	AvgBasketValue    float64
	RulesFound        int
}

// ItemCount is an item name with the number of cleaned records
// mentioning it.
type ItemCount struct {
	Item  string
	Count int
}

// Summarize computes the headline numbers from cleaned records and the
// final rule set.
func Summarize(records []normalizer.Record, rs []rules.Rule) Summary {
	transactions := make(map[string]struct{})
	products := make(map[string]struct{})
	var valueSum float64
	valueCount := 0

	for _, record := range records {
		transactions[record.TransactionID] = struct{}{}
		products[record.ItemName] = struct{}{}
		if record.BasketValue > 0 {
			valueSum += record.BasketValue
			valueCount++
		}
	}

	summary := Summary{
		TotalTransactions: len(transactions),
		UniqueProducts:    len(products),
		RulesFound:        len(rs),
	}
	if valueCount > 0 {
		summary.AvgBasketValue = valueSum / float64(valueCount)
	}
	return summary
}

// CategoryCounts returns record counts per category. Records without a
// category are skipped.
func CategoryCounts(records []normalizer.Record) map[string]int {
	counts := make(map[string]int)
	for _, record := range records {
		if record.Category != "" {
			counts[record.Category]++
		}
	}
	return counts
}

// DayOfWeekCounts returns record counts per day of week. Records
// without one are skipped.
func DayOfWeekCounts(records []normalizer.Record) map[string]int {
	counts := make(map[string]int)
	for _, record := range records {
		if record.DayOfWeek != "" {
			counts[record.DayOfWeek]++
		}
	}
	return counts
}

// TopItems returns the n most frequently occurring items by record
// count, largest first.
func TopItems(records []normalizer.Record, n int) []ItemCount {
	counts := make(map[string]int)
	for _, record := range records {
		counts[record.ItemName]++
	}

	top := topn.New[string, int](n, true)
	for item, count := range counts {
		top.Insert(topn.Entry[string, int]{Payload: item, Value: count})
	}

	out := make([]ItemCount, 0, n)
	for _, entry := range top.Values() {
		out = append(out, ItemCount{Item: entry.Payload, Count: entry.Value})
	}
	return out
}

// TopRulesByLift returns the n rules with the highest lift, best first.
func TopRulesByLift(rs []rules.Rule, n int) []rules.Rule {
	top := topn.New[rules.Rule, float64](n, true)
	for _, r := range rs {
		top.Insert(topn.Entry[rules.Rule, float64]{Payload: r, Value: r.Lift})
	}

	out := make([]rules.Rule, 0, n)
	for _, entry := range top.Values() {
		out = append(out, entry.Payload)
	}
	return out
}

// Recommendations returns up to n cross-sell rules for an item on the
// shelf: rules whose antecedent contains the exact item name, ranked by
// lift. Substring matches against display strings are deliberately not
// used, so "Milk" never matches a rule about "Milkshake".
func Recommendations(rs []rules.Rule, item string, n int) []rules.Rule {
	top := topn.New[rules.Rule, float64](n, true)
	for _, r := range rs {
		if r.AntecedentContains(item) {
			top.Insert(topn.Entry[rules.Rule, float64]{Payload: r, Value: r.Lift})
		}
	}

	out := make([]rules.Rule, 0, n)
	for _, entry := range top.Values() {
		out = append(out, entry.Payload)
	}
	return out
}
