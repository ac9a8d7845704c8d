package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"courier-stats/internal/core/config"
	"courier-stats/internal/core/httpclient"
	"courier-stats/internal/core/logger"
	"courier-stats/internal/features/stats/domain"
	"courier-stats/internal/features/stats/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrProviderNotSupported is returned when no factory is registered for the requested provider.
var ErrProviderNotSupported = errors.New("provider not supported")

// StatsService aggregates customer delivery stats across courier providers.
// Provider clients are built lazily on first use and reused until the credentials change.
type StatsService struct {
	factories map[domain.Provider]ports.ProviderFactory
	logger    *zap.Logger

	mu      sync.Mutex
	creds   config.CourierCredentials
	clients map[domain.Provider]ports.StatsProvider
}

// NewStatsService creates a new StatsService with the given credentials and provider factories.
func NewStatsService(creds config.CourierCredentials, factories map[domain.Provider]ports.ProviderFactory) *StatsService {
	return &StatsService{
		factories: factories,
		logger:    logger.Get(),
		creds:     creds,
		clients:   make(map[domain.Provider]ports.StatsProvider),
	}
}

// CheckAll queries every provider concurrently. It never fails: a provider that
// errors is reported as a zeroed result carrying the error message.
func (s *StatsService) CheckAll(ctx context.Context, phone string) domain.AggregateResult {
	providers := domain.Providers()
	result := make(domain.AggregateResult, len(providers))

	if err := domain.ValidatePhone(phone); err != nil {
		for _, p := range providers {
			result[p] = domain.FailureResult(err)
		}
		return result
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)

	for _, p := range providers {
		p := p
		g.Go(func() error {
			entry := s.checkIsolated(ctx, p, phone)

			mu.Lock()
			result[p] = entry
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return result
}

// checkIsolated runs one provider and converts any failure, including a panic, into a result.
func (s *StatsService) checkIsolated(ctx context.Context, p domain.Provider, phone string) (entry domain.ProviderResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Provider panicked", zap.String("provider", string(p)), zap.Any("panic", r))
			entry = domain.FailureResult(fmt.Errorf("%s: internal error: %v", p, r))
		}
	}()

	stats, err := s.CheckOne(ctx, p, phone)
	if err != nil {
		s.logger.Warn("Provider lookup failed",
			zap.String("provider", string(p)),
			zap.Bool("timeout", httpclient.IsTimeout(err)),
			zap.Error(err),
		)
		return domain.FailureResult(err)
	}

	s.logger.Info("Provider lookup completed",
		zap.String("provider", string(p)),
		zap.Int("success", stats.Success),
		zap.Int("cancel", stats.Cancel),
		zap.Int("total", stats.Total),
	)
	return domain.SuccessResult(*stats)
}

// CheckOne queries a single provider and returns its error unchanged.
func (s *StatsService) CheckOne(ctx context.Context, p domain.Provider, phone string) (*domain.DeliveryStats, error) {
	client, err := s.provider(p)
	if err != nil {
		return nil, err
	}
	return client.Check(ctx, phone)
}

// CheckPathao queries Pathao only.
func (s *StatsService) CheckPathao(ctx context.Context, phone string) (*domain.DeliveryStats, error) {
	return s.CheckOne(ctx, domain.ProviderPathao, phone)
}

// CheckSteadfast queries Steadfast only.
func (s *StatsService) CheckSteadfast(ctx context.Context, phone string) (*domain.DeliveryStats, error) {
	return s.CheckOne(ctx, domain.ProviderSteadfast, phone)
}

// CheckRedX queries RedX only.
func (s *StatsService) CheckRedX(ctx context.Context, phone string) (*domain.DeliveryStats, error) {
	return s.CheckOne(ctx, domain.ProviderRedX, phone)
}

// SetConfig merges the non-empty values of creds over the current credentials.
// Cached clients are dropped so the next lookup rebuilds them.
func (s *StatsService) SetConfig(creds config.CourierCredentials) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = s.creds.Merge(creds)
	s.clients = make(map[domain.Provider]ports.StatsProvider)
}

// SetConfigMap is SetConfig for snake_case keys as returned by GetConfig.
// An unknown key rejects the whole map and leaves the credentials unchanged.
func (s *StatsService) SetConfigMap(values map[string]string) error {
	creds, err := config.CredentialsFromMap(values)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConfig, err)
	}

	s.SetConfig(creds)
	return nil
}

// GetConfig returns the current credentials keyed by their snake_case names.
func (s *StatsService) GetConfig() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.creds.Map()
}

// provider returns the memoized client for p, building it on first use.
// A failed construction is not cached.
func (s *StatsService) provider(p domain.Provider) (ports.StatsProvider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if client, ok := s.clients[p]; ok {
		return client, nil
	}

	factory, ok := s.factories[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotSupported, p)
	}

	client, err := factory(s.creds)
	if err != nil {
		return nil, err
	}

	s.clients[p] = client
	return client, nil
}
