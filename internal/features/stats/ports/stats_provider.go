package ports

import (
	"context"

	"courier-stats/internal/core/config"
	"courier-stats/internal/features/stats/domain"
)

// StatsProvider defines the interface for courier customer-stats implementations.
type StatsProvider interface {
	// Name returns the provider this client talks to.
	Name() domain.Provider
	// Check authenticates and returns the customer's delivery stats for a local phone number.
	Check(ctx context.Context, phone string) (*domain.DeliveryStats, error)
}

// ProviderFactory builds a StatsProvider from credentials.
// It fails with *domain.ConfigError when the provider's credentials are missing.
type ProviderFactory func(creds config.CourierCredentials) (StatsProvider, error)
