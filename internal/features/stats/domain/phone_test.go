package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidatePhone_Valid verifies every operator digit is accepted.
func TestValidatePhone_Valid(t *testing.T) {
	for _, number := range []string{
		"01312345678", "01412345678", "01512345678", "01612345678",
		"01712345678", "01812345678", "01912345678", "01786161430",
	} {
		t.Run(number, func(t *testing.T) {
			assert.NoError(t, ValidatePhone(number))
			assert.True(t, IsValidPhone(number))
			assert.Equal(t, number, SanitizePhone(number))
			assert.Empty(t, PhoneValidationMessage(number))
		})
	}
}

// TestValidatePhone_Invalid verifies wrong length, operator digit and retained country code are rejected.
func TestValidatePhone_Invalid(t *testing.T) {
	cases := map[string]string{
		"operator digit 2":     "01212345678",
		"operator digit 1":     "01112345678",
		"too short":            "0171234567",
		"too long":             "017123456789",
		"country code kept":    "8801712345678",
		"plus country code":    "+8801712345678",
		"letters":              "0171234567a",
		"separators":           "01712-345678",
		"missing leading zero": "1712345678",
	}

	for name, number := range cases {
		t.Run(name, func(t *testing.T) {
			err := ValidatePhone(number)
			require.Error(t, err)
			assert.False(t, IsValidPhone(number))

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, number, vErr.Number)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), "invalid Bangladeshi phone number")
		})
	}
}

func TestValidatePhone_Empty(t *testing.T) {
	err := ValidatePhone("")
	require.Error(t, err)
	assert.Equal(t, "phone number is required", err.Error())
	assert.Equal(t, "phone number is required", PhoneValidationMessage(""))
}

// TestSanitizePhone verifies separator and country code stripping.
func TestSanitizePhone(t *testing.T) {
	cases := []struct{ input, expected string }{
		{"017 1234 5678", "01712345678"},
		{"0171-234-5678", "01712345678"},
		{"(017) 1234.5678", "01712345678"},
		{"+8801712345678", "01712345678"},
		{"+88 01712-345678", "01712345678"},
		{"8801712345678", "01712345678"},
		{"88 017 1234 5678", "01712345678"},
		{"8817123456789", "8817123456789"},
		{"+880212345678", "0212345678"},
		{"abc", "abc"},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, SanitizePhone(tc.input), "input %q", tc.input)
	}
}

// TestSanitizePhone_DoesNotValidate verifies an invalid sanitized number is returned as-is.
func TestSanitizePhone_DoesNotValidate(t *testing.T) {
	sanitized := SanitizePhone("+88 01212345678")
	assert.Equal(t, "01212345678", sanitized)
	assert.False(t, IsValidPhone(sanitized))
}

func TestFormatPhone(t *testing.T) {
	formatted, err := FormatPhone("+88 017-8616-1430")
	require.NoError(t, err)
	assert.Equal(t, "01786161430", formatted)

	_, err = FormatPhone("+88 012-1234-5678")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = FormatPhone("88 1712345678")
	assert.Error(t, err, "country code without local prefix is retained and must fail")
}

func TestPhoneWithCountryCode(t *testing.T) {
	for _, input := range []string{"01786161430", "8801786161430", "+8801786161430", "+88 01786-161430"} {
		got, err := PhoneWithCountryCode(input)
		require.NoError(t, err)
		assert.Equal(t, "+8801786161430", got)

		again, err := PhoneWithCountryCode(got)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}

	_, err := PhoneWithCountryCode("12345")
	assert.ErrorIs(t, err, ErrValidation)
}
