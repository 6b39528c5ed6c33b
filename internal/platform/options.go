package platform

import (
	"errors"
	"log/slog"
	"net/http"
	"time"
)

type options struct {
	client         *http.Client
	logger         *slog.Logger
	decoder        ImageDecoder
	timeout        time.Duration
	maxIdlePerHost int
}

// Option configures a NativeService at construction time.
type Option func(*options) error

// WithHTTPClient makes the service use client instead of building its own.
// The client must not be reconfigured after it is handed over.
// WithTimeout and WithMaxIdleConnsPerHost are ignored when this is set.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) error {
		if client == nil {
			return errors.New("http client must not be nil")
		}
		o.client = client
		return nil
	}
}

// WithLogger sets the sink for the diagnostic emitted on failed responses.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		o.logger = logger
		return nil
	}
}

// WithDecoder replaces the default imaging decoder.
func WithDecoder(decoder ImageDecoder) Option {
	return func(o *options) error {
		if decoder == nil {
			return errors.New("decoder must not be nil")
		}
		o.decoder = decoder
		return nil
	}
}

// WithTimeout sets an overall per-request timeout on the built client.
// Zero, the default, means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		o.timeout = d
		return nil
	}
}

// WithMaxIdleConnsPerHost sets the idle pool size per host on the built
// client. Zero keeps the net/http default.
func WithMaxIdleConnsPerHost(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return errors.New("max idle conns per host must not be negative")
		}
		o.maxIdlePerHost = n
		return nil
	}
}
