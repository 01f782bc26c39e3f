package resort

// Coordinates locate a resort for forecast lookups.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DefaultCoordinates are mid-mountain points for the resorts tracked out of the box.
var DefaultCoordinates = map[string]Coordinates{
	"Whistler Blackcomb": {Lat: 50.1163, Lon: -122.9574},
	"Cypress Mountain":   {Lat: 49.3965, Lon: -123.2046},
	"Grouse Mountain":    {Lat: 49.3805, Lon: -123.0826},
	"Mt. Seymour":        {Lat: 49.3688, Lon: -123.0139},
	"Sun Peaks":          {Lat: 50.8839, Lon: -119.8863},
	"Blue Mountain":      {Lat: 44.5015, Lon: -80.3161},
}
