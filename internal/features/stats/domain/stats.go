package domain

// Provider identifies a courier service.
type Provider string

const (
	// ProviderPathao is the Pathao courier.
	ProviderPathao Provider = "pathao"
	// ProviderSteadfast is the Steadfast courier.
	ProviderSteadfast Provider = "steadfast"
	// ProviderRedX is the RedX courier.
	ProviderRedX Provider = "redx"
)

// Providers returns every supported provider in a stable order.
func Providers() []Provider {
	return []Provider{ProviderPathao, ProviderSteadfast, ProviderRedX}
}

// ParseProvider resolves a provider name. The second value is false for unknown names.
func ParseProvider(name string) (Provider, bool) {
	for _, p := range Providers() {
		if string(p) == name {
			return p, true
		}
	}
	return "", false
}

// DeliveryStats is a customer's delivery record with one courier.
// Each courier derives the numbers differently, so Total is not guaranteed
// to equal Success+Cancel.
type DeliveryStats struct {
	// Success is the number of delivered parcels.
	Success int `json:"success"`
	// Cancel is the number of cancelled or returned parcels.
	Cancel int `json:"cancel"`
	// Total is the number of parcels as reported or derived by the courier.
	Total int `json:"total"`
}

// ProviderResult is the per-courier entry of an aggregate lookup.
// On failure the stats are zero and Error carries the message.
type ProviderResult struct {
	DeliveryStats
	Error string `json:"error,omitempty"`
}

// Failed reports whether the lookup failed.
func (r ProviderResult) Failed() bool {
	return r.Error != ""
}

// SuccessResult wraps stats as a successful result.
func SuccessResult(stats DeliveryStats) ProviderResult {
	return ProviderResult{DeliveryStats: stats}
}

// FailureResult builds a zeroed result annotated with err's message.
func FailureResult(err error) ProviderResult {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return ProviderResult{Error: msg}
}

// AggregateResult maps each provider to its result. Every provider is always present.
type AggregateResult map[Provider]ProviderResult
