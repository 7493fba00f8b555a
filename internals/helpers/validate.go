package helper

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// ValidateStruct runs the `validate` tags on a request DTO. Pinned legacy
// messages ("Name is required", ...) stay with explicit checks in the
// controllers; this covers format tags like email.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
