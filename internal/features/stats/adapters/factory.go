package adapters

import (
	"courier-stats/internal/core/config"
	"courier-stats/internal/core/httpclient"
	"courier-stats/internal/features/stats/domain"
	"courier-stats/internal/features/stats/ports"
)

// NewFactories returns one factory per provider. HTTP clients are built once here
// and shared by every adapter the factories create.
func NewFactories(couriers config.CouriersConfig, opts httpclient.Options) map[domain.Provider]ports.ProviderFactory {
	apiClient := httpclient.New(opts)

	browserOpts := opts
	browserOpts.Headers = make(map[string]string, len(opts.Headers)+len(SteadfastHeaders))
	for k, v := range SteadfastHeaders {
		browserOpts.Headers[k] = v
	}
	for k, v := range opts.Headers {
		browserOpts.Headers[k] = v
	}
	browserClient := httpclient.New(browserOpts)

	return map[domain.Provider]ports.ProviderFactory{
		domain.ProviderPathao: func(creds config.CourierCredentials) (ports.StatsProvider, error) {
			a, err := NewPathaoAdapter(couriers.PathaoURL, creds, apiClient)
			if err != nil {
				return nil, err
			}
			return a, nil
		},
		domain.ProviderSteadfast: func(creds config.CourierCredentials) (ports.StatsProvider, error) {
			a, err := NewSteadfastAdapter(couriers.SteadfastURL, creds, browserClient, HTMLTokenExtractor{})
			if err != nil {
				return nil, err
			}
			return a, nil
		},
		domain.ProviderRedX: func(creds config.CourierCredentials) (ports.StatsProvider, error) {
			a, err := NewRedXAdapter(couriers.RedXAuthURL, couriers.RedXURL, creds, apiClient)
			if err != nil {
				return nil, err
			}
			return a, nil
		},
	}
}
