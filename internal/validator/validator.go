// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hex_color", validateHexColor)
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("account_type", validateAccountType)
		_ = v.RegisterValidation("debt_type", validateDebtType)
		_ = v.RegisterValidation("payoff_strategy", validatePayoffStrategy)
		_ = v.RegisterValidation("frequency", validateFrequency)
		_ = v.RegisterValidation("analytics_period", validateAnalyticsPeriod)
	}
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateAccountType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "checking", "savings", "credit", "cash", "investment":
		return true
	}
	return false
}

func validateDebtType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "credit-card", "personal-loan", "student-loan", "mortgage", "other":
		return true
	}
	return false
}

func validatePayoffStrategy(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "snowball", "avalanche":
		return true
	}
	return false
}

func validateFrequency(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "daily", "weekly", "monthly", "yearly":
		return true
	}
	return false
}

func validateAnalyticsPeriod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "7d", "30d", "90d", "1y":
		return true
	}
	return false
}
