package dto

import (
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DashboardParams defines query parameters for the dashboard.
type DashboardParams struct {
	Month string `form:"month" binding:"omitempty,month"`
}

// BalancePointResponse is one point of the running balance chart.
type BalancePointResponse struct {
	Date    string          `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// PaymentResponse is an expense classified by its due date.
type PaymentResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	DiffDays    int                 `json:"diffDays"`
	Overdue     bool                `json:"overdue"`
	DueSoon     bool                `json:"dueSoon"`
}

// DashboardResponse represents the dashboard overview.
type DashboardResponse struct {
	Month     string                  `json:"month,omitempty"`
	Summary   domain.Summary          `json:"summary"`
	Breakdown []domain.CategoryAmount `json:"breakdown"`
	Balance   []BalancePointResponse  `json:"balance"`
	Monthly   []domain.MonthlyTotal   `json:"monthly"`
	Payments  []PaymentResponse       `json:"payments"`
	Goals     []GoalResponse          `json:"goals"`
}

// ToDashboardResponse converts a domain.Dashboard to its DTO.
func ToDashboardResponse(d *domain.Dashboard) DashboardResponse {
	res := DashboardResponse{
		Month:     d.Month,
		Summary:   d.Summary,
		Breakdown: d.Breakdown,
		Monthly:   d.Monthly,
		Balance:   make([]BalancePointResponse, len(d.Balance)),
		Payments:  make([]PaymentResponse, len(d.Payments)),
		Goals:     make([]GoalResponse, len(d.Goals)),
	}
	for i, p := range d.Balance {
		res.Balance[i] = BalancePointResponse{Date: p.Date.Format(domain.DateLayout), Balance: p.Balance}
	}
	for i := range d.Payments {
		p := d.Payments[i]
		res.Payments[i] = PaymentResponse{
			Transaction: ToTransactionResponse(&p.Transaction),
			DiffDays:    p.DiffDays,
			Overdue:     p.Overdue,
			DueSoon:     p.DueSoon,
		}
	}
	for i := range d.Goals {
		g := d.Goals[i]
		res.Goals[i] = ToGoalResponse(&g.Goal)
		res.Goals[i].Progress = g.Progress
	}
	return res
}
