// Package metrics derives dashboard numbers from already-loaded transactions and goals.
// Every function here is pure: no I/O, no clock reads, no mutation of its inputs.
package metrics

import (
	"sort"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FilterByMonth returns the transactions dated in month (YYYY-MM), preserving input order.
// An empty month returns the input unchanged.
func FilterByMonth(txns []domain.Transaction, month string) []domain.Transaction {
	if month == "" {
		return txns
	}
	out := make([]domain.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.Month() == month {
			out = append(out, t)
		}
	}
	return out
}

// Totals sums income and expense over txns restricted to month.
func Totals(txns []domain.Transaction, month string) domain.Summary {
	income, expense := decimal.Zero, decimal.Zero
	for _, t := range FilterByMonth(txns, month) {
		switch t.Type {
		case domain.Income:
			income = income.Add(t.Amount)
		case domain.Expense:
			expense = expense.Add(t.Amount)
		}
	}
	return domain.Summary{Income: income, Expense: expense, Net: income.Sub(expense)}
}

// CategoryBreakdown groups expenses by category and adds total income as the synthetic
// "Income" entry. Zero-valued entries are dropped. Entries are sorted by name.
func CategoryBreakdown(txns []domain.Transaction, month string) []domain.CategoryAmount {
	byCategory := make(map[string]decimal.Decimal)
	income := decimal.Zero
	for _, t := range FilterByMonth(txns, month) {
		switch t.Type {
		case domain.Expense:
			byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
		case domain.Income:
			income = income.Add(t.Amount)
		}
	}

	out := make([]domain.CategoryAmount, 0, len(byCategory)+1)
	for name, value := range byCategory {
		if value.IsZero() {
			continue
		}
		out = append(out, domain.CategoryAmount{Name: name, Value: value})
	}
	if !income.IsZero() {
		out = append(out, domain.CategoryAmount{Name: domain.IncomeCategoryName, Value: income})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RunningBalance sorts txns by date, then by creation time, and emits the cumulative
// income minus expense after each one. Rows equal on both keys keep input order.
func RunningBalance(txns []domain.Transaction, month string) []domain.BalancePoint {
	filtered := FilterByMonth(txns, month)
	sorted := make([]domain.Transaction, len(filtered))
	copy(sorted, filtered)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	points := make([]domain.BalancePoint, 0, len(sorted))
	balance := decimal.Zero
	for _, t := range sorted {
		switch t.Type {
		case domain.Income:
			balance = balance.Add(t.Amount)
		case domain.Expense:
			balance = balance.Sub(t.Amount)
		}
		points = append(points, domain.BalancePoint{Date: t.Date, Balance: balance})
	}
	return points
}

// MonthlyTotals aggregates income and expense per month, oldest month first.
func MonthlyTotals(txns []domain.Transaction) []domain.MonthlyTotal {
	index := make(map[string]int)
	var out []domain.MonthlyTotal
	for _, t := range txns {
		m := t.Month()
		i, ok := index[m]
		if !ok {
			i = len(out)
			index[m] = i
			out = append(out, domain.MonthlyTotal{Month: m, Income: decimal.Zero, Expense: decimal.Zero})
		}
		switch t.Type {
		case domain.Income:
			out[i].Income = out[i].Income.Add(t.Amount)
		case domain.Expense:
			out[i].Expense = out[i].Expense.Add(t.Amount)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// GoalProgress returns saved/target as a percentage clamped to [0, 100], rounded to 2 places.
func GoalProgress(g domain.Goal) decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		if g.SavedAmount.GreaterThanOrEqual(g.TargetAmount) {
			return hundred
		}
		return decimal.Zero
	}
	p := g.SavedAmount.Div(g.TargetAmount).Mul(hundred).Round(2)
	if p.GreaterThan(hundred) {
		return hundred
	}
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

// GoalsProgress pairs each goal with its progress. Completed is recomputed from the amounts.
func GoalsProgress(goals []domain.Goal) []domain.GoalProgress {
	out := make([]domain.GoalProgress, 0, len(goals))
	for _, g := range goals {
		g.RecomputeCompleted()
		out = append(out, domain.GoalProgress{Goal: g, Progress: GoalProgress(g)})
	}
	return out
}

// BudgetUsage classifies a budget against its alert threshold.
func BudgetUsage(b domain.Budget) domain.BudgetUsage {
	usage := domain.BudgetUsage{
		Status:    domain.BudgetOK,
		Remaining: b.BudgetAmount.Sub(b.SpentAmount),
	}

	switch {
	case b.BudgetAmount.IsPositive():
		usage.PercentUsed = b.SpentAmount.Div(b.BudgetAmount).Mul(hundred).Round(2)
	case b.SpentAmount.IsPositive():
		usage.PercentUsed = hundred
	default:
		usage.PercentUsed = decimal.Zero
	}

	threshold := b.BudgetAmount.Mul(decimal.NewFromInt(int64(b.AlertThreshold))).Div(hundred)
	switch {
	case b.SpentAmount.GreaterThan(b.BudgetAmount):
		usage.Status = domain.BudgetOverspent
	case b.SpentAmount.IsPositive() && b.SpentAmount.GreaterThanOrEqual(threshold):
		usage.Status = domain.BudgetNearLimit
	}
	return usage
}
