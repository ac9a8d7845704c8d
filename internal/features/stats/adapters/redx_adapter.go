package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"

	"courier-stats/internal/core/config"
	"courier-stats/internal/core/httpclient"
	"courier-stats/internal/core/logger"
	"courier-stats/internal/features/stats/domain"

	"go.uber.org/zap"
)

const (
	redxLoginPath = "/v4/auth/login"
	redxStatsPath = "/api/redx_se/admin/parcel/customer-success-return-rate"

	redxSuccessCode = "200"
)

// RedXAdapter fetches customer stats from RedX using a session access token.
type RedXAdapter struct {
	authURL  string
	apiURL   string
	phone    string
	password string
	client   *http.Client
	logger   *zap.Logger
}

// NewRedXAdapter creates a RedXAdapter. Credentials are checked here, not at call time.
func NewRedXAdapter(authURL, apiURL string, creds config.CourierCredentials, client *http.Client) (*RedXAdapter, error) {
	if missing := creds.Missing(config.KeyRedXUser, config.KeyRedXPassword); len(missing) > 0 {
		return nil, &domain.ConfigError{Provider: domain.ProviderRedX, Missing: missing}
	}

	return &RedXAdapter{
		authURL:  strings.TrimRight(authURL, "/"),
		apiURL:   strings.TrimRight(apiURL, "/"),
		phone:    creds.RedXUser,
		password: creds.RedXPassword,
		client:   client,
		logger:   logger.ForProvider(string(domain.ProviderRedX)),
	}, nil
}

type redxLoginResponse struct {
	Message string `json:"message"`
	Data    *struct {
		AccessToken string `json:"accessToken"`
	} `json:"data"`
}

type redxStatsResponse struct {
	// Code is kept raw so that only a bare integer 200 marks success.
	Code    json.RawMessage `json:"code"`
	Message string          `json:"message"`
	Data    *struct {
		TotalParcels     flexInt   `json:"totalParcels"`
		DeliveredParcels flexInt   `json:"deliveredParcels"`
		ReturnPercentage flexFloat `json:"returnPercentage"`
	} `json:"data"`
}

// Name implements ports.StatsProvider.
func (a *RedXAdapter) Name() domain.Provider {
	return domain.ProviderRedX
}

// Check logs in and fetches the customer's stats. A fresh token is obtained on every call.
func (a *RedXAdapter) Check(ctx context.Context, phone string) (*domain.DeliveryStats, error) {
	if err := domain.ValidatePhone(phone); err != nil {
		return nil, err
	}

	token, err := a.login(ctx)
	if err != nil {
		return nil, err
	}

	return a.fetchStats(ctx, phone, token)
}

// redxPhone converts a number to the 88-prefixed form the RedX API expects.
func redxPhone(number string) string {
	cleaned := domain.SanitizePhone(number)
	cleaned = strings.TrimPrefix(cleaned, domain.CountryCode)
	return domain.CountryCode + cleaned
}

// login exchanges phone and password for an access token.
func (a *RedXAdapter) login(ctx context.Context) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"phone":    redxPhone(a.phone),
		"password": a.password,
	})
	if err != nil {
		return "", domain.NewAuthError(domain.ProviderRedX, err, "failed to encode login request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.authURL+redxLoginPath, bytes.NewReader(payload))
	if err != nil {
		return "", domain.NewAuthError(domain.ProviderRedX, err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	status, raw, err := a.do(req)
	if err != nil {
		return "", domain.NewAuthError(domain.ProviderRedX, err, "login request failed: no response received")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", domain.NewAuthError(domain.ProviderRedX, nil, "login request failed: no response received (HTTP %d)", status)
	}

	var body redxLoginResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", domain.NewAuthError(domain.ProviderRedX, err, "authentication failed: invalid response (HTTP %d)", status)
	}

	if body.Data == nil || strings.TrimSpace(body.Data.AccessToken) == "" {
		msg := body.Message
		if msg == "" {
			msg = "no access token received"
		}
		return "", domain.NewAuthError(domain.ProviderRedX, nil, "authentication failed: %s", msg)
	}

	a.logger.Debug("Login succeeded", zap.Int("status_code", status))
	return strings.TrimSpace(body.Data.AccessToken), nil
}

// fetchStats queries the success/return rate endpoint.
// Cancel is estimated from the return percentage, so it may not equal Total-Success.
func (a *RedXAdapter) fetchStats(ctx context.Context, phone, token string) (*domain.DeliveryStats, error) {
	query := url.Values{"phoneNumber": {redxPhone(phone)}}
	endpoint := a.apiURL + redxStatsPath + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, domain.NewAPIError(domain.ProviderRedX, 0, err, "failed to create request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	status, raw, err := a.do(req)
	if err != nil {
		return nil, domain.NewAPIError(domain.ProviderRedX, 0, err, "customer stats request failed: no response received")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, domain.NewAPIError(domain.ProviderRedX, status, nil, "customer stats request failed: no response received")
	}

	var body redxStatsResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, domain.NewAPIError(domain.ProviderRedX, status, err, "invalid response format")
	}

	if string(bytes.TrimSpace(body.Code)) != redxSuccessCode {
		msg := body.Message
		if msg == "" {
			msg = "unknown error"
		}
		return nil, domain.NewAPIError(domain.ProviderRedX, status, nil, "API returned error: %s", msg)
	}
	if body.Data == nil {
		return nil, domain.NewAPIError(domain.ProviderRedX, status, nil, "invalid response format: missing data")
	}

	total := int(body.Data.TotalParcels)
	pct := float64(body.Data.ReturnPercentage)

	return &domain.DeliveryStats{
		Success: int(body.Data.DeliveredParcels),
		Cancel:  int(math.Round(float64(total) * pct / 100)),
		Total:   total,
	}, nil
}

// do executes req and returns the status and the full body.
func (a *RedXAdapter) do(req *http.Request) (int, []byte, error) {
	resp, err := a.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	if !httpclient.IsSuccess(resp.StatusCode) {
		a.logger.Debug("Non-success status", zap.Int("status_code", resp.StatusCode))
	}
	return resp.StatusCode, raw, nil
}
