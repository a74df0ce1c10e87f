package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type clockField struct {
	Start string `validate:"required,hhmm"`
}

func TestClockTimeValidation(t *testing.T) {
	v := NewValidator()

	valid := []string{"00:00", "07:30", "18:00", "23:59"}
	for _, s := range valid {
		assert.NoError(t, v.Struct(clockField{Start: s}), s)
	}

	invalid := []string{"24:00", "12:60", "9:00", "09:0", "0900", "ab:cd", "12-30", ""}
	for _, s := range invalid {
		assert.Error(t, v.Struct(clockField{Start: s}), s)
	}
}
