package adapters

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

// decimalPattern restricts numeric strings to base 10. cast alone would read
// "010" as octal and "0x10" as hex.
var decimalPattern = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// decodeNumber reads a JSON number, a decimal string, an empty string or null.
// Booleans, objects and arrays are rejected.
func decodeNumber(b []byte) (float64, error) {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return 0, err
	}

	switch v := raw.(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, nil
		}
		if !decimalPattern.MatchString(s) {
			return 0, fmt.Errorf("expected decimal number, got %s", b)
		}
		return cast.ToFloat64E(s)
	default:
		return 0, fmt.Errorf("expected number, got %s", b)
	}
}

// flexInt decodes a JSON number, decimal string or null into an int.
// Fractions are truncated.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	f, err := decodeNumber(b)
	if err != nil {
		return err
	}
	v, err := cast.ToIntE(f)
	if err != nil {
		return fmt.Errorf("expected integer, got %s", b)
	}
	*n = flexInt(v)
	return nil
}

// flexFloat decodes a JSON number, decimal string or null into a float64.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	v, err := decodeNumber(b)
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}
