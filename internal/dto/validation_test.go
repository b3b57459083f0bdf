package dto_test

import (
	"testing"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, dto.RegisterValidators(v))
	return v
}

func TestMonthTag(t *testing.T) {
	v := newValidator(t)
	assert.NoError(t, v.Struct(dto.ListBudgetsParams{Month: "2024-12"}))
	assert.NoError(t, v.Struct(dto.ListBudgetsParams{}))
	assert.Error(t, v.Struct(dto.ListBudgetsParams{Month: "2024-13"}))
	assert.Error(t, v.Struct(dto.ListBudgetsParams{Month: "12-2024"}))
}

func TestCreateTransactionRequestCategory(t *testing.T) {
	v := newValidator(t)
	base := dto.CreateTransactionRequest{
		Type:     domain.Expense,
		Amount:   decimal.NewFromInt(10),
		Category: "Food",
		Date:     "2024-03-01",
	}
	assert.NoError(t, v.Struct(base))

	wrong := base
	wrong.Category = "Freelance"
	assert.Error(t, v.Struct(wrong))

	income := base
	income.Type = domain.Income
	income.Category = "Freelance"
	assert.NoError(t, v.Struct(income))
}
