package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/i474232898/snowdesk/internal/common"
	"github.com/i474232898/snowdesk/internal/resort"
)

// closedMarkers in a conditions line mean the resort is not operating,
// whatever the feed says about isOpen.
var closedMarkers = []string{"closed for the season", "closed today", "temporarily closed"}

// FeedSource reads one resort's record from a JSON endpoint that already
// speaks the record shape (name, snow, lifts, trails, ...).
type FeedSource struct {
	name    string
	url     string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	logger  *zap.SugaredLogger
}

// NewFeedSource creates a source for the resort called name. The configured
// name is authoritative and overrides whatever the feed reports.
func NewFeedSource(name, url string, client *http.Client, logger *zap.SugaredLogger) *FeedSource {
	return &FeedSource{
		name: name,
		url:  url,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: DefaultBackoff,
		},
		circuit: newCircuitBreaker("feed:" + name),
		logger:  logger.With("component", "feed", "resort", name),
	}
}

func (s *FeedSource) Name() string {
	return s.name
}

func (s *FeedSource) Fetch(ctx context.Context) (resort.Record, error) {
	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, s.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, s.httpCfg, s.circuit, buildRequest)
	if err != nil {
		return resort.Record{}, fmt.Errorf("feed request: %w", err)
	}
	defer resp.Body.Close()

	var rec resort.Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return resort.Record{}, fmt.Errorf("feed decode: %w", err)
	}

	if rec.Name != "" && rec.Name != s.name {
		s.logger.Debugw("feed reports a different resort name", "feed_name", rec.Name)
	}
	rec.Name = s.name

	if rec.IsOpen && common.HasAny(rec.Snow.Conditions, closedMarkers...) {
		rec.IsOpen = false
	}
	return rec, nil
}
