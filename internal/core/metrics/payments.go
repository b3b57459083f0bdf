package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// DefaultDueSoonDays is the inclusive window, in days, for a payment to count as due soon.
const DefaultDueSoonDays = 7

// PaymentClassifier decides how an expense relates to its due date.
type PaymentClassifier interface {
	Classify(t domain.Transaction, now time.Time) domain.ClassifiedPayment
}

// DueWindowClassifier flags payments as overdue when the due date has passed and as due soon
// when it falls within Days days of now.
type DueWindowClassifier struct {
	Days int
}

// Classify implements PaymentClassifier.
func (c DueWindowClassifier) Classify(t domain.Transaction, now time.Time) domain.ClassifiedPayment {
	diff := DueDiffDays(t.Date, now)
	return domain.ClassifiedPayment{
		Transaction: t,
		DiffDays:    diff,
		Overdue:     diff < 0,
		DueSoon:     diff >= 0 && diff <= c.Days,
	}
}

// DueDiffDays returns ceil((due - now) / 24h). A payment due today at midnight is 0 days away
// for the rest of that day.
func DueDiffDays(due, now time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

// ClassifyPayments classifies every expense in txns against a single reference time and
// returns them ordered by due date. Income is ignored.
func ClassifyPayments(txns []domain.Transaction, now time.Time, classifier PaymentClassifier) []domain.ClassifiedPayment {
	if classifier == nil {
		classifier = DueWindowClassifier{Days: DefaultDueSoonDays}
	}
	out := make([]domain.ClassifiedPayment, 0)
	for _, t := range txns {
		if !t.IsExpense() {
			continue
		}
		out = append(out, classifier.Classify(t, now))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Transaction.Date.Before(out[j].Transaction.Date)
	})
	return out
}
