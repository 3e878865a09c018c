package location

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"
)

// GoogleGeolocationProvider uses the Google Maps API to get location data.
type GoogleGeolocationProvider struct {
	client     *maps.Client // Maps API client for making geolocation requests
	modemIndex int          // ModemManager index queried for cell tower data
}

// NewGoogleGeolocationProvider creates a new GoogleGeolocationProvider instance.
func NewGoogleGeolocationProvider(apiKey string, modemIndex int) (*GoogleGeolocationProvider, error) {
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &GoogleGeolocationProvider{
		client:     c,
		modemIndex: modemIndex,
	}, nil
}

// GetLocation retrieves the device's location using Google Maps Geolocation API.
// Missing WiFi or cell data is tolerated; the API then falls back to the IP address.
func (g *GoogleGeolocationProvider) GetLocation(ctx context.Context) (Location, error) {
	wifiAPs, _ := getWiFiAccessPoints(ctx)
	cellTowers, _ := getCellTowers(ctx, g.modemIndex)

	// Prepare the geolocation request with available data
	req := &maps.GeolocationRequest{
		ConsiderIP:       true,
		WiFiAccessPoints: wifiAPs,
		CellTowers:       cellTowers,
	}

	resp, err := g.client.Geolocate(ctx, req) // Send the geolocation request
	if err != nil {
		if ctx.Err() != nil {
			return Location{}, ctx.Err()
		}
		if isDenied(err) {
			return Location{}, fmt.Errorf("%w: %v", ErrLocationDenied, err)
		}
		return Location{}, fmt.Errorf("%w: %v", ErrLocationUnavailable, err)
	}

	// Return the location data obtained from the response
	return Location{
		Latitude:  resp.Location.Lat,
		Longitude: resp.Location.Lng,
		Accuracy:  resp.Accuracy,
	}, nil
}

// Close releases provider resources.
func (g *GoogleGeolocationProvider) Close() error {
	return nil
}

// isDenied recognizes the Geolocation API reasons for a refused request.
func isDenied(err error) bool {
	msg := err.Error()
	for _, reason := range []string{"keyInvalid", "accessNotConfigured", "REQUEST_DENIED", "dailyLimitExceeded", "userRateLimitExceeded"} {
		if strings.Contains(msg, reason) {
			return true
		}
	}
	return false
}
