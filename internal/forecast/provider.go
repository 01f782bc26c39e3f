package forecast

import "context"

// Provider abstracts an hourly forecast source keyed by resort name.
type Provider interface {
	Name() string
	FetchForecast(ctx context.Context, name string) (Series, error)
}
