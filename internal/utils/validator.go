// internal/utils/validator.go
package utils

import (
	"github.com/go-playground/validator/v10"

	"github.com/pricetrack/backend/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("platform", validatePlatform)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validatePlatform(fl validator.FieldLevel) bool {
	_, ok := models.ParsePlatform(fl.Field().String())
	return ok
}
