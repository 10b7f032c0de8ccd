// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"troskovi/internal/models"
	"troskovi/internal/report"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hex_color", validateHexColor)
		_ = v.RegisterValidation("month_key", validateMonthKey)
		_ = v.RegisterValidation("export_format", validateExportFormat)
	}
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateMonthKey(fl validator.FieldLevel) bool {
	_, err := models.ParseMonth(fl.Field().String())
	return err == nil
}

func validateExportFormat(fl validator.FieldLevel) bool {
	_, err := report.ParseFormat(fl.Field().String())
	return err == nil
}
