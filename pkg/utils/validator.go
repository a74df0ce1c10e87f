package utils

import (
	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()

	v.RegisterValidation("hhmm", validateClockTime)

	return &Validator{
		validate: v,
	}
}

func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

// validateClockTime accepts 24h "HH:MM" strings.
func validateClockTime(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	hh := (int(s[0]-'0') * 10) + int(s[1]-'0')
	mm := (int(s[3]-'0') * 10) + int(s[4]-'0')
	for _, c := range []byte{s[0], s[1], s[3], s[4]} {
		if c < '0' || c > '9' {
			return false
		}
	}
	return hh >= 0 && hh <= 23 && mm >= 0 && mm <= 59
}
