package utils

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs validator tags on a request DTO and returns the first
// violation as an error suitable for a 400 response.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
