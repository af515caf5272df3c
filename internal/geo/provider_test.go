package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/workoutmap/internal/domain"
)

func TestStaticProvider(t *testing.T) {
	at := domain.Coordinates{Latitude: 38.72, Longitude: -9.14}
	got, err := StaticProvider{At: at}.CurrentPosition(context.Background())
	require.NoError(t, err)
	require.Equal(t, at, got)

	_, err = UnavailableProvider{}.CurrentPosition(context.Background())
	require.ErrorIs(t, err, domain.ErrGeolocationUnavailable)
}

func TestHTTPProviderDecodesPosition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"latitude":52.52,"longitude":13.405}`))
	}))
	t.Cleanup(srv.Close)

	got, err := NewHTTPProvider(srv.URL+"/", time.Second).CurrentPosition(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.Coordinates{Latitude: 52.52, Longitude: 13.405}, got)
}

func TestHTTPProviderFailuresAreUnavailable(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		},
		"malformed": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"latitude":`))
		},
		"missing longitude": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"latitude":1}`))
		},
	}
	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			t.Cleanup(srv.Close)

			_, err := NewHTTPProvider(srv.URL, time.Second).CurrentPosition(context.Background())
			require.ErrorIs(t, err, domain.ErrGeolocationUnavailable)
		})
	}
}

func TestHTTPProviderReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	_, err := NewHTTPProvider(srv.URL, time.Second).CurrentPosition(context.Background())
	var lookupErr *LookupError
	require.True(t, errors.As(err, &lookupErr))
	require.Equal(t, http.StatusForbidden, lookupErr.Status)
}
