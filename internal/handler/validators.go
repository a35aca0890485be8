package handler

import (
	"hyvai/internal/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators wires the closed status enumerations into gin's
// request binding so free-form strings never reach the core.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("tranchestatus", func(fl validator.FieldLevel) bool {
		return domain.ValidTrancheStatus(fl.Field().String())
	})
	_ = v.RegisterValidation("installmentstatus", func(fl validator.FieldLevel) bool {
		return domain.ValidInstallmentStatus(fl.Field().String())
	})
	_ = v.RegisterValidation("contactmethod", func(fl validator.FieldLevel) bool {
		return domain.ValidContactMethod(fl.Field().String())
	})
	_ = v.RegisterValidation("riskcategory", func(fl validator.FieldLevel) bool {
		return domain.ValidRiskCategory(fl.Field().String())
	})
}
