package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"courier-stats/internal/core/config"
	"courier-stats/internal/core/httpclient"
	"courier-stats/internal/features/stats/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var redxCreds = config.CourierCredentials{RedXUser: "01711111111", RedXPassword: "pw"}

// newRedXServers returns fake RedX auth and API hosts. A nil login handler uses a happy-path default.
func newRedXServers(t *testing.T, login, stats http.HandlerFunc) (authURL, apiURL string) {
	t.Helper()

	if login == nil {
		login = func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, redxLoginPath, r.URL.Path)
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "8801711111111", body["phone"])
			assert.Equal(t, "pw", body["password"])
			w.Write([]byte(`{"data":{"accessToken":"redx-tok"}}`))
		}
	}

	auth := httptest.NewServer(login)
	t.Cleanup(auth.Close)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, redxStatsPath, r.URL.Path)
		stats(w, r)
	}))
	t.Cleanup(api.Close)

	return auth.URL, api.URL
}

func newTestRedX(t *testing.T, authURL, apiURL string) *RedXAdapter {
	t.Helper()
	a, err := NewRedXAdapter(authURL, apiURL, redxCreds, httpclient.New(httpclient.Options{Timeout: 2 * time.Second}))
	require.NoError(t, err)
	return a
}

// TestRedXAdapter_Check_Success verifies cancel is estimated from the return percentage.
func TestRedXAdapter_Check_Success(t *testing.T) {
	authURL, apiURL := newRedXServers(t, nil, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer redx-tok", r.Header.Get("Authorization"))
		assert.Equal(t, "8801786161430", r.URL.Query().Get("phoneNumber"))
		w.Write([]byte(`{"code":200,"data":{"deliveredParcels":9,"totalParcels":10,"returnPercentage":10}}`))
	})

	stats, err := newTestRedX(t, authURL, apiURL).Check(context.Background(), "01786161430")

	require.NoError(t, err)
	assert.Equal(t, &domain.DeliveryStats{Success: 9, Cancel: 1, Total: 10}, stats)
}

// TestRedXAdapter_Check_Rounding verifies the estimate rounds half away from zero and may not sum to total.
func TestRedXAdapter_Check_Rounding(t *testing.T) {
	authURL, apiURL := newRedXServers(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"data":{"deliveredParcels":"5","totalParcels":"7","returnPercentage":"35.71"}}`))
	})

	stats, err := newTestRedX(t, authURL, apiURL).Check(context.Background(), "01786161430")

	require.NoError(t, err)
	assert.Equal(t, 5, stats.Success)
	assert.Equal(t, 7, stats.Total)
	assert.Equal(t, 2, stats.Cancel, "7 * 35.71% = 2.4997 rounds to 2")

	authURL, apiURL = newRedXServers(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"data":{"deliveredParcels":2,"totalParcels":3,"returnPercentage":50}}`))
	})

	stats, err = newTestRedX(t, authURL, apiURL).Check(context.Background(), "01786161430")

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Cancel, "1.5 rounds away from zero")
	assert.NotEqual(t, stats.Total, stats.Success+stats.Cancel)
}

// TestRedXAdapter_Check_Failures verifies every failure surfaces as a typed error and never as stats.
func TestRedXAdapter_Check_Failures(t *testing.T) {
	okStats := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"data":{"deliveredParcels":9,"totalParcels":10,"returnPercentage":10}}`))
	}

	cases := []struct {
		name    string
		login   http.HandlerFunc
		stats   http.HandlerFunc
		kind    error
		message string
	}{
		{
			name: "login rejected with message",
			login: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"Invalid phone or password"}`))
			},
			stats:   okStats,
			kind:    domain.ErrAuth,
			message: "authentication failed: Invalid phone or password",
		},
		{
			name:    "login without token",
			login:   func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"data":{}}`)) },
			stats:   okStats,
			kind:    domain.ErrAuth,
			message: "no access token received",
		},
		{
			name:    "login empty body",
			login:   func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) },
			stats:   okStats,
			kind:    domain.ErrAuth,
			message: "no response received",
		},
		{
			name: "stats error code",
			stats: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"code":401,"message":"Unauthorized"}`))
			},
			kind:    domain.ErrAPI,
			message: "API returned error: Unauthorized",
		},
		{
			name:    "stats missing code",
			stats:   func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"data":{"totalParcels":1}}`)) },
			kind:    domain.ErrAPI,
			message: "API returned error: unknown error",
		},
		{
			name:    "stats code as string",
			stats:   func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"code":"200","data":{"totalParcels":1}}`)) },
			kind:    domain.ErrAPI,
			message: "API returned error: unknown error",
		},
		{
			name:    "stats code as float",
			stats:   func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"code":200.0,"data":{"totalParcels":1}}`)) },
			kind:    domain.ErrAPI,
			message: "API returned error: unknown error",
		},
		{
			name:    "stats code as bool",
			stats:   func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"code":true,"data":{"totalParcels":1}}`)) },
			kind:    domain.ErrAPI,
			message: "API returned error: unknown error",
		},
		{
			name:    "stats missing data",
			stats:   func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"code":200}`)) },
			kind:    domain.ErrAPI,
			message: "missing data",
		},
		{
			name:    "stats malformed body",
			stats:   func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"code":`)) },
			kind:    domain.ErrAPI,
			message: "invalid response format",
		},
		{
			name:    "stats empty body",
			stats:   func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) },
			kind:    domain.ErrAPI,
			message: "no response received",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			authURL, apiURL := newRedXServers(t, tc.login, tc.stats)

			stats, err := newTestRedX(t, authURL, apiURL).Check(context.Background(), "01786161430")

			assert.Nil(t, stats)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.kind)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestRedXPhone(t *testing.T) {
	assert.Equal(t, "8801711111111", redxPhone("01711111111"))
	assert.Equal(t, "8801711111111", redxPhone("8801711111111"))
	assert.Equal(t, "8801711111111", redxPhone("+88 01711-111111"))
	assert.Equal(t, "881711111111", redxPhone("881711111111"))
}

func TestNewRedXAdapter_MissingCredentials(t *testing.T) {
	_, err := NewRedXAdapter("http://unused", "http://unused", config.CourierCredentials{RedXPassword: "pw"}, http.DefaultClient)

	var cfgErr *domain.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, domain.ProviderRedX, cfgErr.Provider)
	assert.Equal(t, []string{config.KeyRedXUser}, cfgErr.Missing)
}
