package domain

import (
	"regexp"
	"strings"
)

const (
	// CountryCode is the Bangladesh dialing prefix without the plus sign.
	CountryCode = "88"

	msgPhoneRequired = "phone number is required"
	msgPhoneInvalid  = "invalid Bangladeshi phone number: use the local format (e.g., 01712345678) without the +88 prefix"
)

var (
	localPhonePattern = regexp.MustCompile(`^01[3-9][0-9]{8}$`)
	separatorPattern  = regexp.MustCompile(`[\s\v\-().]+`)
	countryPrefix     = regexp.MustCompile(`^88(01)`)
)

// ValidatePhone checks that number is a local mobile number: 01, an operator digit 3-9, then 8 digits.
func ValidatePhone(number string) error {
	if number == "" {
		return &ValidationError{Number: number, Message: msgPhoneRequired}
	}
	if !localPhonePattern.MatchString(number) {
		return &ValidationError{Number: number, Message: msgPhoneInvalid}
	}
	return nil
}

// IsValidPhone is ValidatePhone without the error.
func IsValidPhone(number string) bool {
	return ValidatePhone(number) == nil
}

// PhoneValidationMessage returns the validation failure message, or "" for a valid number.
func PhoneValidationMessage(number string) string {
	if err := ValidatePhone(number); err != nil {
		return err.Error()
	}
	return ""
}

// SanitizePhone removes separators and a redundant country code. It does not validate.
func SanitizePhone(number string) string {
	cleaned := separatorPattern.ReplaceAllString(number, "")
	cleaned = strings.TrimPrefix(cleaned, "+"+CountryCode)
	return countryPrefix.ReplaceAllString(cleaned, "$1")
}

// FormatPhone sanitizes and validates number, returning the local form.
func FormatPhone(number string) (string, error) {
	sanitized := SanitizePhone(number)
	if err := ValidatePhone(sanitized); err != nil {
		return "", err
	}
	return sanitized, nil
}

// PhoneWithCountryCode returns the formatted number prefixed with +88.
func PhoneWithCountryCode(number string) (string, error) {
	formatted, err := FormatPhone(number)
	if err != nil {
		return "", err
	}
	return "+" + CountryCode + formatted, nil
}
