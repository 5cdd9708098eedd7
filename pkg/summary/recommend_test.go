package summary

import (
	"testing"
)

func TestHighestExpenseCategory(t *testing.T) {
	totals := map[string]int64{"food": 300, "rent": 900, "fun": 150}
	if got := HighestExpenseCategory(totals); got != "rent" {
		t.Fatalf("highest = %q, want rent", got)
	}
}

func TestHighestExpenseCategoryEmpty(t *testing.T) {
	if got := HighestExpenseCategory(nil); got != "" {
		t.Fatalf("highest of empty = %q, want empty", got)
	}
}

func TestHighestExpenseCategoryTieBreak(t *testing.T) {
	totals := map[string]int64{"travel": 500, "food": 500, "rent": 500}
	// equal totals resolve alphabetically, independent of iteration order
	for i := 0; i < 20; i++ {
		if got := HighestExpenseCategory(totals); got != "food" {
			t.Fatalf("tie-break = %q, want food", got)
		}
	}
}

func TestBudgetOverrunsThreshold(t *testing.T) {
	budgets := []Budget{
		{Category: "food", Amount: 10000},
		{Category: "rent", Amount: 10000},
	}
	totals := map[string]int64{"food": 9500, "rent": 9000}
	cuts := BudgetOverruns(budgets, totals)
	// 9500 > 9000 crosses the 90% line, cut floors at 0; rent at exactly 90% does not
	if len(cuts) != 1 {
		t.Fatalf("cuts = %v, want exactly one", cuts)
	}
	if cuts[0].Category != "food" || cuts[0].Amount != 0 {
		t.Fatalf("cut = %+v, want {food 0}", cuts[0])
	}
}

func TestBudgetOverrunsAmount(t *testing.T) {
	budgets := []Budget{{Category: "food", Amount: 10000}}
	totals := map[string]int64{"food": 12500}
	cuts := BudgetOverruns(budgets, totals)
	if len(cuts) != 1 || cuts[0].Amount != 2500 {
		t.Fatalf("cuts = %v, want one cut of 2500", cuts)
	}
}

func TestBudgetOverrunsSkipsZeroAmountBudget(t *testing.T) {
	budgets := []Budget{{Category: "food", Amount: 0}}
	totals := map[string]int64{"food": 500}
	cuts := BudgetOverruns(budgets, totals)
	// budget is skipped; the fallback takes over instead of a bogus overrun
	if len(cuts) != 1 || cuts[0].Category != "food" || cuts[0].Amount != 50 {
		t.Fatalf("cuts = %v, want fallback {food 50}", cuts)
	}
}

func TestBudgetOverrunsFallback(t *testing.T) {
	budgets := []Budget{{Category: "rent", Amount: 100000}}
	totals := map[string]int64{"rent": 20000, "food": 30000}
	cuts := BudgetOverruns(budgets, totals)
	if len(cuts) != 1 {
		t.Fatalf("cuts = %v, want single fallback entry", cuts)
	}
	if cuts[0].Category != "food" || cuts[0].Amount != 3000 {
		t.Fatalf("fallback = %+v, want {food 3000} (10%% of spend)", cuts[0])
	}
}

func TestBudgetOverrunsNoExpensesNoCuts(t *testing.T) {
	budgets := []Budget{{Category: "rent", Amount: 100000}}
	if cuts := BudgetOverruns(budgets, map[string]int64{}); len(cuts) != 0 {
		t.Fatalf("cuts = %v, want none without any expense category", cuts)
	}
}

func TestBudgetOverrunsMixedCaseBudgetCategory(t *testing.T) {
	budgets := []Budget{{Category: "Food", Amount: 10000}}
	totals := map[string]int64{"food": 12000}
	cuts := BudgetOverruns(budgets, totals)
	if len(cuts) != 1 || cuts[0].Category != "food" || cuts[0].Amount != 2000 {
		t.Fatalf("cuts = %v, want {food 2000}", cuts)
	}
}

func TestBudgetOverrunsSorted(t *testing.T) {
	budgets := []Budget{
		{Category: "travel", Amount: 100},
		{Category: "food", Amount: 100},
	}
	totals := map[string]int64{"travel": 500, "food": 500}
	cuts := BudgetOverruns(budgets, totals)
	if len(cuts) != 2 || cuts[0].Category != "food" || cuts[1].Category != "travel" {
		t.Fatalf("cuts = %v, want food before travel", cuts)
	}
}

func TestTargetSavings(t *testing.T) {
	// 15% of income is the cap when the balance is comfortable
	if got := TargetSavings(100000, 40000); got != 15000 {
		t.Fatalf("target = %d, want 15000", got)
	}
	// tight balance: 110% of it undercuts the 15% rule
	if got := TargetSavings(100000, 95000); got != 5500 {
		t.Fatalf("target = %d, want 5500", got)
	}
	// no income falls back to the fixed default
	if got := TargetSavings(0, 20000); got != DefaultTargetSavings {
		t.Fatalf("target = %d, want default %d", got, DefaultTargetSavings)
	}
}

func TestGoalProgress(t *testing.T) {
	if p := GoalProgress(5000, 10000); p != 50 {
		t.Fatalf("progress = %v, want 50", p)
	}
	if p := GoalProgress(10000, 10000); p != 100 {
		t.Fatalf("progress = %v, want 100", p)
	}
	if p := GoalProgress(25000, 10000); p != 100 {
		t.Fatalf("progress past target = %v, want clamp at 100", p)
	}
	if p := GoalProgress(0, 10000); p != 0 {
		t.Fatalf("progress = %v, want 0", p)
	}
}

func TestGoalProgressMonotonic(t *testing.T) {
	prev := -1.0
	for current := int64(0); current <= 20000; current += 500 {
		p := GoalProgress(current, 10000)
		if p < prev {
			t.Fatalf("progress decreased at current=%d: %v < %v", current, p, prev)
		}
		prev = p
	}
}

func TestGoalProgressDegenerateTarget(t *testing.T) {
	if p := GoalProgress(0, 0); p != 0 {
		t.Fatalf("progress(0,0) = %v, want 0", p)
	}
	if p := GoalProgress(100, 0); p != 100 {
		t.Fatalf("progress(100,0) = %v, want 100", p)
	}
}

func TestGoalCompletable(t *testing.T) {
	if GoalCompletable(5000, 10000) {
		t.Fatalf("half-funded goal must not be completable")
	}
	if !GoalCompletable(10000, 10000) {
		t.Fatalf("fully-funded goal must be completable regardless of the stored flag")
	}
	if !GoalCompletable(15000, 10000) {
		t.Fatalf("over-funded goal must be completable")
	}
}
