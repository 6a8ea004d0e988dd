package httpclient

import "time"

// Options configures the upstream HTTP client
type Options struct {
	ConnectionTimeout time.Duration // Timeout for establishing connection
	RequestTimeout    time.Duration // Total request timeout including reading response
	// AuthHeader receives the key value, prefixed with AuthScheme when set
	AuthHeader string
	AuthScheme string
}

// DefaultOptions returns default client options
func DefaultOptions() Options {
	return Options{
		ConnectionTimeout: 10 * time.Second,
		RequestTimeout:    30 * time.Second,
		AuthHeader:        "Authorization",
		AuthScheme:        "Bearer",
	}
}
