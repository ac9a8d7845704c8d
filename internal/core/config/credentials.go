package config

import (
	"fmt"
	"strings"
)

// Credential keys as exposed by CourierCredentials.Map.
const (
	KeyPathaoUser        = "pathao_user"
	KeyPathaoPassword    = "pathao_password"
	KeySteadfastUser     = "steadfast_user"
	KeySteadfastPassword = "steadfast_password"
	KeyRedXUser          = "redx_user"
	KeyRedXPassword      = "redx_password"
)

// CourierCredentials holds the merchant logins for every courier.
type CourierCredentials struct {
	PathaoUser        string `mapstructure:"PATHAO_USER"`
	PathaoPassword    string `mapstructure:"PATHAO_PASSWORD"`
	SteadfastUser     string `mapstructure:"STEADFAST_USER"`
	SteadfastPassword string `mapstructure:"STEADFAST_PASSWORD"`
	RedXUser          string `mapstructure:"REDX_USER"`
	RedXPassword      string `mapstructure:"REDX_PASSWORD"`
}

// Merge returns a copy of c where every non-empty field of override wins.
func (c CourierCredentials) Merge(override CourierCredentials) CourierCredentials {
	pick := func(base, over string) string {
		if over != "" {
			return over
		}
		return base
	}

	return CourierCredentials{
		PathaoUser:        pick(c.PathaoUser, override.PathaoUser),
		PathaoPassword:    pick(c.PathaoPassword, override.PathaoPassword),
		SteadfastUser:     pick(c.SteadfastUser, override.SteadfastUser),
		SteadfastPassword: pick(c.SteadfastPassword, override.SteadfastPassword),
		RedXUser:          pick(c.RedXUser, override.RedXUser),
		RedXPassword:      pick(c.RedXPassword, override.RedXPassword),
	}
}

// Map returns the credentials keyed by their snake_case names.
func (c CourierCredentials) Map() map[string]string {
	return map[string]string{
		KeyPathaoUser:        c.PathaoUser,
		KeyPathaoPassword:    c.PathaoPassword,
		KeySteadfastUser:     c.SteadfastUser,
		KeySteadfastPassword: c.SteadfastPassword,
		KeyRedXUser:          c.RedXUser,
		KeyRedXPassword:      c.RedXPassword,
	}
}

// CredentialsFromMap builds credentials from snake_case keys. Unknown keys are rejected.
func CredentialsFromMap(values map[string]string) (CourierCredentials, error) {
	var c CourierCredentials
	for key, value := range values {
		switch key {
		case KeyPathaoUser:
			c.PathaoUser = value
		case KeyPathaoPassword:
			c.PathaoPassword = value
		case KeySteadfastUser:
			c.SteadfastUser = value
		case KeySteadfastPassword:
			c.SteadfastPassword = value
		case KeyRedXUser:
			c.RedXUser = value
		case KeyRedXPassword:
			c.RedXPassword = value
		default:
			return CourierCredentials{}, fmt.Errorf("unknown credential key: %s", key)
		}
	}
	return c, nil
}

// Missing reports which of the given keys have no value, in the order given.
func (c CourierCredentials) Missing(keys ...string) []string {
	values := c.Map()
	var missing []string
	for _, key := range keys {
		if strings.TrimSpace(values[key]) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}
