package platform

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/ironsheep/galileo-platform/internal/imaging"
)

var _ Service = (*NativeService)(nil)

// NativeService implements Service for processes with direct network access.
//
// All fields are set once by NewNativeService and never written again, so a
// single instance can serve any number of concurrent calls. Copying the
// struct shares the same *http.Client and therefore the same connection pool.
type NativeService struct {
	client  *http.Client
	logger  *slog.Logger
	decoder ImageDecoder
}

// NewNativeService builds a service with its own HTTP client.
//
// Unlike hosts where client setup can abort the process, construction
// reports problems as an error. The only failure source is an invalid
// Option; with no options it always succeeds.
func NewNativeService(opts ...Option) (*NativeService, error) {
	o := options{
		logger:  slog.Default(),
		decoder: imaging.NewDecoder(),
	}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, fmt.Errorf("failed to configure native platform service: %w", err)
		}
	}

	client := o.client
	if client == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if o.maxIdlePerHost > 0 {
			transport.MaxIdleConnsPerHost = o.maxIdlePerHost
		}
		client = &http.Client{
			Transport: transport,
			Timeout:   o.timeout,
		}
	}

	return &NativeService{
		client:  client,
		logger:  o.logger,
		decoder: o.decoder,
	}, nil
}

// LoadImageURL fetches url and decodes the body.
func (s *NativeService) LoadImageURL(ctx context.Context, url string) (*imaging.DecodedImage, error) {
	data, err := s.loadFromWeb(ctx, url)
	if err != nil {
		return nil, err
	}
	return s.decoder.Decode(data)
}

// LoadBytesFromURL fetches url and returns the response body.
func (s *NativeService) LoadBytesFromURL(ctx context.Context, url string) ([]byte, error) {
	return s.loadFromWeb(ctx, url)
}

// DecodeImage hands data to the decoder and returns its result untouched.
func (s *NativeService) DecodeImage(_ context.Context, data []byte) (*imaging.DecodedImage, error) {
	return s.decoder.Decode(data)
}

func (s *NativeService) loadFromWeb(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: KindRequest, URL: url, Err: err}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logFailedResponse(ctx, url, resp)
		return nil, &Error{
			Kind:       KindIO,
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, URL: url, Err: err}
	}
	return data, nil
}

// logFailedResponse emits the single diagnostic for a non-2xx response. A
// body that cannot be read is noted, not escalated.
func (s *NativeService) logFailedResponse(ctx context.Context, url string, resp *http.Response) {
	attrs := []any{
		slog.String("url", url),
		slog.Int("status_code", resp.StatusCode),
		slog.String("status", resp.Status),
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		attrs = append(attrs, slog.String("body_error", err.Error()))
	} else {
		attrs = append(attrs, slog.String("body", string(body)))
	}

	s.logger.InfoContext(ctx, "Failed to load image source", attrs...)
}
