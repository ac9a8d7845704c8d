package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourierCredentials_Merge(t *testing.T) {
	env := CourierCredentials{
		PathaoUser:     "env-user",
		PathaoPassword: "env-pass",
		RedXUser:       "01700000000",
	}
	explicit := CourierCredentials{
		PathaoUser:    "explicit-user",
		SteadfastUser: "shop@example.com",
	}

	merged := env.Merge(explicit)

	assert.Equal(t, "explicit-user", merged.PathaoUser)
	assert.Equal(t, "env-pass", merged.PathaoPassword)
	assert.Equal(t, "shop@example.com", merged.SteadfastUser)
	assert.Equal(t, "01700000000", merged.RedXUser)
	assert.Empty(t, merged.RedXPassword)
}

func TestCredentialsFromMap(t *testing.T) {
	creds, err := CredentialsFromMap(map[string]string{
		KeyRedXUser:     "01711111111",
		KeyRedXPassword: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "01711111111", creds.RedXUser)
	assert.Equal(t, "pw", creds.RedXPassword)
	assert.Equal(t, "pw", creds.Map()[KeyRedXPassword])

	_, err = CredentialsFromMap(map[string]string{"ecourier_user": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown credential key")
}

func TestCourierCredentials_Missing(t *testing.T) {
	creds := CourierCredentials{PathaoUser: "user", PathaoPassword: "  "}

	assert.Equal(t, []string{KeyPathaoPassword}, creds.Missing(KeyPathaoUser, KeyPathaoPassword))
	assert.Equal(t, []string{KeyRedXUser, KeyRedXPassword}, creds.Missing(KeyRedXUser, KeyRedXPassword))
	assert.Empty(t, creds.Missing(KeyPathaoUser))
}
