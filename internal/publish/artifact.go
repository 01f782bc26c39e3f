// Package publish writes published snapshots to external sinks.
package publish

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/i474232898/snowdesk/internal/scoring"
	"github.com/i474232898/snowdesk/internal/store"
)

// document is the persisted artifact shape shared by every sink.
type document struct {
	Resorts     []scoring.Ranked `json:"resorts"`
	LastUpdated time.Time        `json:"lastUpdated"`
	Count       int              `json:"count"`
}

func encode(snap *store.Snapshot) ([]byte, error) {
	resorts := snap.Resorts
	if resorts == nil {
		resorts = []scoring.Ranked{}
	}
	data, err := json.MarshalIndent(document{
		Resorts:     resorts,
		LastUpdated: snap.LastUpdated,
		Count:       snap.Count,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}
