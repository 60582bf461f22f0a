package validator

import (
	"time"

	"github.com/go-playground/validator/v10"
)

func validDuration(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}

	d, err := time.ParseDuration(s)

	return err == nil && d > 0
}
