// Package geo resolves the user's current position.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"example.com/workoutmap/internal/domain"
)

// StaticProvider always reports a configured position.
type StaticProvider struct {
	At domain.Coordinates
}

// CurrentPosition implements domain.Locator.
func (p StaticProvider) CurrentPosition(context.Context) (domain.Coordinates, error) {
	return p.At, nil
}

// UnavailableProvider models a device without geolocation.
type UnavailableProvider struct{}

// CurrentPosition always fails.
func (UnavailableProvider) CurrentPosition(context.Context) (domain.Coordinates, error) {
	return domain.Coordinates{}, domain.ErrGeolocationUnavailable
}

// HTTPProvider asks an upstream lookup endpoint for the caller's position.
// The endpoint answers with {"latitude": .., "longitude": ..}.
type HTTPProvider struct {
	client *http.Client
	url    string
}

// NewHTTPProvider constructs an HTTPProvider.
func NewHTTPProvider(endpoint string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		client: &http.Client{Timeout: timeout},
		url:    strings.TrimRight(endpoint, "/"),
	}
}

type positionResponse struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// CurrentPosition implements domain.Locator. Every failure is reported as
// domain.ErrGeolocationUnavailable.
func (p *HTTPProvider) CurrentPosition(ctx context.Context) (domain.Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return domain.Coordinates{}, unavailable(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return domain.Coordinates{}, unavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return domain.Coordinates{}, unavailable(&LookupError{Status: resp.StatusCode})
	}

	var body positionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Coordinates{}, unavailable(err)
	}
	if body.Latitude == nil || body.Longitude == nil {
		return domain.Coordinates{}, unavailable(fmt.Errorf("response without coordinates"))
	}
	return domain.Coordinates{Latitude: *body.Latitude, Longitude: *body.Longitude}, nil
}

// LookupError represents a non-successful lookup response.
type LookupError struct {
	Status int
}

func (e *LookupError) Error() string {
	return "position lookup failed with status " + http.StatusText(e.Status)
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrGeolocationUnavailable, err)
}
