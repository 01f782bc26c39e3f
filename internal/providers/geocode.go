package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/kelvins/geocoder"
	"go.uber.org/zap"

	"github.com/i474232898/snowdesk/internal/forecast"
	"github.com/i474232898/snowdesk/internal/resort"
)

// Geocoder turns a resort name into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, name string) (resort.Coordinates, error)
}

// GoogleGeocoder resolves names through the Google Geocoding API.
type GoogleGeocoder struct{}

// NewGoogleGeocoder configures the geocoding client with apiKey.
// The underlying client keeps the key in package state.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{}
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, name string) (resort.Coordinates, error) {
	type result struct {
		loc geocoder.Location
		err error
	}
	done := make(chan result, 1)
	go func() {
		loc, err := geocoder.Geocoding(geocoder.Address{Street: name})
		done <- result{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return resort.Coordinates{}, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return resort.Coordinates{}, r.err
		}
		return resort.Coordinates{Lat: r.loc.Latitude, Lon: r.loc.Longitude}, nil
	}
}

// Catalog maps resort names to coordinates: a static table first, then an
// optional geocoder whose successful answers are remembered.
type Catalog struct {
	mu       sync.RWMutex
	known    map[string]resort.Coordinates
	geocoder Geocoder
	logger   *zap.SugaredLogger
}

// NewCatalog copies static and uses g (may be nil) for names it does not know.
func NewCatalog(static map[string]resort.Coordinates, g Geocoder, logger *zap.SugaredLogger) *Catalog {
	known := make(map[string]resort.Coordinates, len(static))
	for k, v := range static {
		known[k] = v
	}
	return &Catalog{
		known:    known,
		geocoder: g,
		logger:   logger.With("component", "catalog"),
	}
}

// Lookup returns coordinates for name or an error wrapping forecast.ErrNoCoordinates.
func (c *Catalog) Lookup(ctx context.Context, name string) (resort.Coordinates, error) {
	c.mu.RLock()
	coords, ok := c.known[name]
	c.mu.RUnlock()
	if ok {
		return coords, nil
	}

	if c.geocoder == nil {
		return resort.Coordinates{}, fmt.Errorf("%w for %q", forecast.ErrNoCoordinates, name)
	}

	coords, err := c.geocoder.Geocode(ctx, name)
	if err != nil {
		return resort.Coordinates{}, fmt.Errorf("%w for %q: %v", forecast.ErrNoCoordinates, name, err)
	}
	if coords.Lat == 0 && coords.Lon == 0 {
		return resort.Coordinates{}, fmt.Errorf("%w for %q: empty geocoding result", forecast.ErrNoCoordinates, name)
	}

	c.logger.Infow("geocoded resort", "resort", name, "lat", coords.Lat, "lon", coords.Lon)

	c.mu.Lock()
	c.known[name] = coords
	c.mu.Unlock()
	return coords, nil
}
