package adapters

import (
	"context"
	"encoding/json"
	"io"
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
	steadfastLoginPath = "/login"
	steadfastFraudPath = "/user/frauds/check/"

	// maxLoginPageBytes caps how much of the login page is read while looking for the token.
	maxLoginPageBytes = 2 << 20
)

// SteadfastHeaders are the browser-like defaults the merchant panel expects.
var SteadfastHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":          "application/json, text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
}

// SteadfastAdapter fetches customer stats from the Steadfast merchant panel using a cookie session.
type SteadfastAdapter struct {
	baseURL  string
	email    string
	password string
	client   *http.Client
	tokens   TokenExtractor
	logger   *zap.Logger
}

// NewSteadfastAdapter creates a SteadfastAdapter. Credentials are checked here, not at call time.
func NewSteadfastAdapter(baseURL string, creds config.CourierCredentials, client *http.Client, tokens TokenExtractor) (*SteadfastAdapter, error) {
	if missing := creds.Missing(config.KeySteadfastUser, config.KeySteadfastPassword); len(missing) > 0 {
		return nil, &domain.ConfigError{Provider: domain.ProviderSteadfast, Missing: missing}
	}
	if tokens == nil {
		tokens = HTMLTokenExtractor{}
	}

	return &SteadfastAdapter{
		baseURL:  strings.TrimRight(baseURL, "/"),
		email:    creds.SteadfastUser,
		password: creds.SteadfastPassword,
		client:   client,
		tokens:   tokens,
		logger:   logger.ForProvider(string(domain.ProviderSteadfast)),
	}, nil
}

type steadfastStatsResponse struct {
	TotalDelivered flexInt `json:"total_delivered"`
	TotalCancelled flexInt `json:"total_cancelled"`
}

// Name implements ports.StatsProvider.
func (a *SteadfastAdapter) Name() domain.Provider {
	return domain.ProviderSteadfast
}

// Check establishes a new session and fetches the customer's stats.
func (a *SteadfastAdapter) Check(ctx context.Context, phone string) (*domain.DeliveryStats, error) {
	if err := domain.ValidatePhone(phone); err != nil {
		return nil, err
	}

	session, err := a.login(ctx)
	if err != nil {
		return nil, err
	}

	return a.fetchStats(ctx, phone, session)
}

// login scrapes the CSRF token and posts the login form.
// The returned client carries the merged cookies of both responses.
func (a *SteadfastAdapter) login(ctx context.Context) (*http.Client, error) {
	session, err := httpclient.NewSession(a.client)
	if err != nil {
		return nil, domain.NewAuthError(domain.ProviderSteadfast, err, "failed to start session")
	}

	loginURL := a.baseURL + steadfastLoginPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loginURL, nil)
	if err != nil {
		return nil, domain.NewAuthError(domain.ProviderSteadfast, err, "failed to create request")
	}

	resp, err := session.Do(req)
	if err != nil {
		return nil, domain.NewAuthError(domain.ProviderSteadfast, err, "login page request failed")
	}
	page, readErr := io.ReadAll(io.LimitReader(resp.Body, maxLoginPageBytes))
	resp.Body.Close()

	if !httpclient.IsSuccess(resp.StatusCode) {
		return nil, domain.NewAuthError(domain.ProviderSteadfast, nil, "login page request failed: HTTP %d", resp.StatusCode)
	}
	if readErr != nil {
		return nil, domain.NewAuthError(domain.ProviderSteadfast, readErr, "failed to read login page")
	}

	token, err := a.tokens.ExtractToken(string(page))
	if err != nil {
		return nil, domain.NewAuthError(domain.ProviderSteadfast, err, "no CSRF token on login page")
	}

	form := url.Values{
		"_token":   {token},
		"email":    {a.email},
		"password": {a.password},
	}

	req, err = http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, domain.NewAuthError(domain.ProviderSteadfast, err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err = session.Do(req)
	if err != nil {
		return nil, domain.NewAuthError(domain.ProviderSteadfast, err, "login request failed")
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if !httpclient.IsSuccess(resp.StatusCode) && !httpclient.IsRedirect(resp.StatusCode) {
		return nil, domain.NewAuthError(domain.ProviderSteadfast, nil, "login failed: HTTP %d", resp.StatusCode)
	}

	a.logger.Debug("Session established", zap.Int("status_code", resp.StatusCode))
	return session, nil
}

// fetchStats queries the fraud-check endpoint. Total is derived as delivered plus cancelled.
func (a *SteadfastAdapter) fetchStats(ctx context.Context, phone string, session *http.Client) (*domain.DeliveryStats, error) {
	endpoint := a.baseURL + steadfastFraudPath + url.PathEscape(phone)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, domain.NewAPIError(domain.ProviderSteadfast, 0, err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := session.Do(req)
	if err != nil {
		return nil, domain.NewAPIError(domain.ProviderSteadfast, 0, err, "fraud check request failed")
	}
	defer resp.Body.Close()

	if !httpclient.IsSuccess(resp.StatusCode) {
		return nil, domain.NewAPIError(domain.ProviderSteadfast, resp.StatusCode, nil,
			"fraud check request failed: HTTP %d", resp.StatusCode)
	}

	var body *steadfastStatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, domain.NewAPIError(domain.ProviderSteadfast, resp.StatusCode, err, "invalid JSON response")
	}
	if body == nil {
		return nil, domain.NewAPIError(domain.ProviderSteadfast, resp.StatusCode, nil, "invalid JSON response: not an object")
	}

	success := int(body.TotalDelivered)
	cancel := int(body.TotalCancelled)

	return &domain.DeliveryStats{
		Success: success,
		Cancel:  cancel,
		Total:   success + cancel,
	}, nil
}

