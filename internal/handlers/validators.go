package handlers

import (
	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// registerCustomValidators installs the domain enum validators used by the
// binding tags on request DTOs.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("companyrole", func(fl validator.FieldLevel) bool {
		return domain.CompanyRole(fl.Field().String()).IsValid()
	})

	_ = v.RegisterValidation("sourcetype", func(fl validator.FieldLevel) bool {
		return domain.MatchSourceType(fl.Field().String()).IsValid()
	})

	_ = v.RegisterValidation("adjustmenttype", func(fl validator.FieldLevel) bool {
		return domain.AdjustmentType(fl.Field().String()).IsValid()
	})
}
