package dto

import (
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the custom binding tags used by request DTOs.
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("month", validateMonth); err != nil {
		return err
	}
	v.RegisterStructValidation(validateTransactionCategory, CreateTransactionRequest{})
	return nil
}

func validateMonth(fl validator.FieldLevel) bool {
	_, err := time.Parse(domain.MonthLayout, fl.Field().String())
	return err == nil
}

// validateTransactionCategory rejects categories that do not belong to the transaction type.
func validateTransactionCategory(sl validator.StructLevel) {
	req := sl.Current().Interface().(CreateTransactionRequest)
	if req.Type.IsValid() && !domain.IsValidCategory(req.Type, req.Category) {
		sl.ReportError(req.Category, "category", "Category", "category", string(req.Type))
	}
}
