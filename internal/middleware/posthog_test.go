package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventName(t *testing.T) {
	tests := []struct {
		method string
		route  string
		want   string
	}{
		{method: "POST", route: "/api/v1/transactions", want: "transactions_post"},
		{method: "POST", route: "/api/v1/budgets/:id/reconcile", want: "budgets_:id_reconcile_post"},
		{method: "GET", route: "/api/v1/dashboard", want: "dashboard_get"},
		{method: "DELETE", route: "/api/v1/goals/:id", want: "goals_:id_delete"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, eventName(tt.method, tt.route))
		})
	}
}
