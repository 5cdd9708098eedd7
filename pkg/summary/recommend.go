package summary

import (
	"math"
	"sort"
)

// DefaultTargetSavings is suggested when a month has no income at all.
const DefaultTargetSavings int64 = 50000 // $500

// Budget is the slice of a stored budget the recommendation math needs.
type Budget struct {
	Category string
	Amount   int64 // smallest currency unit
}

// BudgetCut is a recommended reduction for one category.
type BudgetCut struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

// HighestExpenseCategory returns the category with the largest total, or ""
// for an empty map. Ties go to the alphabetically smaller name so the result
// does not depend on map iteration order.
func HighestExpenseCategory(totals map[string]int64) string {
	best := ""
	var bestTotal int64
	for category, total := range totals {
		if best == "" || total > bestTotal || (total == bestTotal && category < best) {
			best = category
			bestTotal = total
		}
	}
	return best
}

// BudgetOverruns flags every budget whose category spend exceeds 90% of its
// amount; the cut floors at 0 when the threshold is crossed but the budget
// itself is not (spending 95 against a budget of 100 yields a 0 cut).
// Zero- and negative-amount budgets are skipped. When no budget is flagged
// and a highest-expense category exists, a single synthetic cut of 10% of
// that category's spend is suggested. Output is sorted by category.
func BudgetOverruns(budgets []Budget, totals map[string]int64) []BudgetCut {
	var cuts []BudgetCut
	for _, b := range budgets {
		if b.Amount <= 0 {
			continue
		}
		spent := totals[NormalizeCategory(b.Category)]
		if float64(spent) > 0.9*float64(b.Amount) {
			over := spent - b.Amount
			if over < 0 {
				over = 0
			}
			cuts = append(cuts, BudgetCut{Category: NormalizeCategory(b.Category), Amount: over})
		}
	}
	if len(cuts) == 0 {
		if highest := HighestExpenseCategory(totals); highest != "" {
			cuts = append(cuts, BudgetCut{Category: highest, Amount: totals[highest] / 10})
		}
	}
	sort.Slice(cuts, func(i, j int) bool { return cuts[i].Category < cuts[j].Category })
	return cuts
}

// TargetSavings suggests a monthly savings amount: the lower of 15% of income
// and 110% of the current balance, or a fixed default when there is no
// income. A negative balance yields a negative target, matching the source
// arithmetic.
func TargetSavings(income, expenses int64) int64 {
	if income <= 0 {
		return DefaultTargetSavings
	}
	byIncome := 0.15 * float64(income)
	byBalance := 1.1 * float64(income-expenses)
	return int64(math.Round(math.Min(byIncome, byBalance)))
}
