package utils

import (
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	registerOnce sync.Once
)

// IsValidPhone reports whether phone is exactly 10 digits.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// RegisterValidators adds the custom binding rules used by request structs:
//
//	phone10  - exactly 10 digits
//	notblank - non-empty after trimming whitespace
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
			return IsValidPhone(fl.Field().String())
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
}
