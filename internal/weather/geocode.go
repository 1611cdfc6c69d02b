package weather

import (
	"errors"
	"fmt"
	"sync"

	"github.com/kelvins/geocoder"
)

var ErrNoGeocoderKey = errors.New("location has no coordinates and no geocoder api key is configured")

var (
	geocodeMu sync.Mutex
	geocode   = geocoder.Geocoding
)

// ResolveLocation fills in coordinates for a city/country location using
// the Google geocoding API. Locations that already have coordinates are
// returned unchanged.
func ResolveLocation(loc Location, apiKey string) (Location, error) {
	if loc.HasCoordinates() {
		return loc, nil
	}
	if loc.City == "" {
		return loc, fmt.Errorf("location needs coordinates or a city")
	}
	if apiKey == "" {
		return loc, ErrNoGeocoderKey
	}

	// geocoder keeps its key in a package variable.
	geocodeMu.Lock()
	geocoder.ApiKey = apiKey
	found, err := geocode(geocoder.Address{City: loc.City, Country: loc.Country})
	geocodeMu.Unlock()
	if err != nil {
		return loc, fmt.Errorf("geocode %s: %w", loc.Key(), err)
	}

	lat, lon := found.Latitude, found.Longitude
	loc.Lat = &lat
	loc.Lon = &lon
	return loc, nil
}
