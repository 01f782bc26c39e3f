package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/snowdesk/internal/forecast"
	"github.com/i474232898/snowdesk/internal/resort"
)

// CoordinateLookup resolves a resort name to a point on the map.
type CoordinateLookup interface {
	Lookup(ctx context.Context, name string) (resort.Coordinates, error)
}

// OpenMeteoProvider implements forecast.Provider on top of the Open-Meteo hourly API.
type OpenMeteoProvider struct {
	name     string
	baseURL  string
	timezone string
	catalog  CoordinateLookup
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
}

// NewOpenMeteoProvider creates a provider that places resorts with catalog and
// asks for three days of hourly data in the given timezone.
func NewOpenMeteoProvider(client *http.Client, catalog CoordinateLookup, timezone string) *OpenMeteoProvider {
	if timezone == "" {
		timezone = "auto"
	}
	return &OpenMeteoProvider{
		name:     "openmeteo",
		baseURL:  "https://api.open-meteo.com/v1/forecast",
		timezone: timezone,
		catalog:  catalog,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: DefaultBackoff,
		},
		circuit: newCircuitBreaker("openmeteo"),
	}
}

// WithBaseURL points the provider at a different endpoint.
func (p *OpenMeteoProvider) WithBaseURL(u string) *OpenMeteoProvider {
	p.baseURL = u
	return p
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, name string) (forecast.Series, error) {
	coords, err := p.catalog.Lookup(ctx, name)
	if err != nil {
		return forecast.Series{}, fmt.Errorf("%w: %w", forecast.ErrForecastUnavailable, err)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", coords.Lat))
		values.Set("longitude", fmt.Sprintf("%f", coords.Lon))
		values.Set("hourly", strings.Join([]string{
			"snowfall",
			"temperature_2m",
			"wind_speed_10m",
			"precipitation_probability",
			"weathercode",
		}, ","))
		values.Set("forecast_days", "3")
		values.Set("timezone", p.timezone)

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return forecast.Series{}, fmt.Errorf("openmeteo request for %s: %w", name, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Hourly struct {
			Snowfall                 []float64 `json:"snowfall"`
			Temperature2m            []float64 `json:"temperature_2m"`
			WindSpeed10m             []float64 `json:"wind_speed_10m"`
			PrecipitationProbability []float64 `json:"precipitation_probability"`
		} `json:"hourly"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return forecast.Series{}, fmt.Errorf("openmeteo decode for %s: %w", name, err)
	}

	return forecast.Series{
		Name:              name,
		Snowfall:          payload.Hourly.Snowfall,
		Temperature:       payload.Hourly.Temperature2m,
		WindSpeed:         payload.Hourly.WindSpeed10m,
		PrecipProbability: payload.Hourly.PrecipitationProbability,
	}, nil
}
