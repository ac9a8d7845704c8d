package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"courier-stats/internal/core/config"
	"courier-stats/internal/core/httpclient"
	"courier-stats/internal/core/logger"
	"courier-stats/internal/features/stats/domain"

	"go.uber.org/zap"
)

const (
	pathaoLoginPath = "/api/v1/login"
	pathaoStatsPath = "/api/v1/user/success"
)

// PathaoAdapter fetches customer stats from the Pathao merchant API using a bearer token login.
type PathaoAdapter struct {
	baseURL  string
	username string
	password string
	client   *http.Client
	logger   *zap.Logger
}

// NewPathaoAdapter creates a PathaoAdapter. Credentials are checked here, not at call time.
func NewPathaoAdapter(baseURL string, creds config.CourierCredentials, client *http.Client) (*PathaoAdapter, error) {
	if missing := creds.Missing(config.KeyPathaoUser, config.KeyPathaoPassword); len(missing) > 0 {
		return nil, &domain.ConfigError{Provider: domain.ProviderPathao, Missing: missing}
	}

	return &PathaoAdapter{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: creds.PathaoUser,
		password: creds.PathaoPassword,
		client:   client,
		logger:   logger.ForProvider(string(domain.ProviderPathao)),
	}, nil
}

type pathaoLoginResponse struct {
	AccessToken string `json:"access_token"`
}

type pathaoStatsResponse struct {
	Data struct {
		Customer *struct {
			SuccessfulDelivery flexInt `json:"successful_delivery"`
			TotalDelivery      flexInt `json:"total_delivery"`
		} `json:"customer"`
	} `json:"data"`
}

// Name implements ports.StatsProvider.
func (a *PathaoAdapter) Name() domain.Provider {
	return domain.ProviderPathao
}

// Check logs in and fetches the customer's stats. A fresh token is obtained on every call.
func (a *PathaoAdapter) Check(ctx context.Context, phone string) (*domain.DeliveryStats, error) {
	if err := domain.ValidatePhone(phone); err != nil {
		return nil, err
	}

	token, err := a.login(ctx)
	if err != nil {
		return nil, err
	}

	return a.fetchStats(ctx, phone, token)
}

// login exchanges the merchant credentials for an access token.
func (a *PathaoAdapter) login(ctx context.Context) (string, error) {
	resp, err := a.postJSON(ctx, a.baseURL+pathaoLoginPath, map[string]string{
		"username": a.username,
		"password": a.password,
	}, "")
	if err != nil {
		return "", domain.NewAuthError(domain.ProviderPathao, err, "login request failed")
	}
	defer resp.Body.Close()

	if !httpclient.IsSuccess(resp.StatusCode) {
		return "", domain.NewAuthError(domain.ProviderPathao, nil, "login failed: HTTP %d", resp.StatusCode)
	}

	var body pathaoLoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", domain.NewAuthError(domain.ProviderPathao, err, "login failed: invalid response")
	}

	token := strings.TrimSpace(body.AccessToken)
	if token == "" {
		return "", domain.NewAuthError(domain.ProviderPathao, nil, "login failed: no access token received")
	}

	a.logger.Debug("Login succeeded")
	return token, nil
}

// fetchStats queries the success endpoint. Cancel is derived as total minus successful.
func (a *PathaoAdapter) fetchStats(ctx context.Context, phone, token string) (*domain.DeliveryStats, error) {
	resp, err := a.postJSON(ctx, a.baseURL+pathaoStatsPath, map[string]string{"phone": phone}, token)
	if err != nil {
		return nil, domain.NewAPIError(domain.ProviderPathao, 0, err, "customer stats request failed")
	}
	defer resp.Body.Close()

	if !httpclient.IsSuccess(resp.StatusCode) {
		return nil, domain.NewAPIError(domain.ProviderPathao, resp.StatusCode, nil,
			"customer stats request failed: HTTP %d", resp.StatusCode)
	}

	var body pathaoStatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, domain.NewAPIError(domain.ProviderPathao, resp.StatusCode, err, "invalid response format")
	}

	customer := body.Data.Customer
	if customer == nil {
		return nil, domain.NewAPIError(domain.ProviderPathao, resp.StatusCode, nil, "invalid response format: missing customer")
	}

	success := int(customer.SuccessfulDelivery)
	total := int(customer.TotalDelivery)

	return &domain.DeliveryStats{
		Success: success,
		Cancel:  total - success,
		Total:   total,
	}, nil
}

func (a *PathaoAdapter) postJSON(ctx context.Context, url string, payload any, token string) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	return resp, nil
}
