package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ironsheep/galileo-platform/internal/platform"
)

const (
	protocolVersion = "2024-11-05"
	serverName      = "galileo-mcp"

	// DefaultBatchConcurrency bounds image_load_batch fan-out.
	DefaultBatchConcurrency = 4

	maxRequestBytes = 16 * 1024 * 1024
)

// DefaultVersion is reported in the initialize handshake unless
// WithVersion overrides it.
const DefaultVersion = "0.1.0"

// Server handles MCP protocol communication
type Server struct {
	platform         platform.Service
	logger           *slog.Logger
	batchConcurrency int
	version          string
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Option configures a Server.
type Option func(*Server)

// WithBatchConcurrency caps how many URLs image_load_batch fetches at once.
// Values below 1 are ignored.
func WithBatchConcurrency(n int) Option {
	return func(s *Server) {
		if n >= 1 {
			s.batchConcurrency = n
		}
	}
}

// WithVersion sets the version reported in the initialize handshake.
// An empty string is ignored.
func WithVersion(v string) Option {
	return func(s *Server) {
		if v != "" {
			s.version = v
		}
	}
}

// New creates a server backed by svc. logger receives protocol-level
// problems such as unparsable lines.
func New(svc platform.Service, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		platform:         svc,
		logger:           logger,
		batchConcurrency: DefaultBatchConcurrency,
		version:          DefaultVersion,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run serves requests read from in until EOF or until ctx is done, writing
// responses to out. Requests are handled one at a time in arrival order.
//
// Reading happens on a separate goroutine so that cancellation is noticed
// while in is idle. If ctx ends first, that goroutine stays blocked until in
// yields data or is closed.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	lines, scanErr := scanLines(ctx, in)
	encoder := json.NewEncoder(out)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var line []byte
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil && !errors.Is(err, io.EOF) {
						return fmt.Errorf("scanner error: %w", err)
					}
					return nil
				default:
					return ctx.Err()
				}
			}
			line = l
		}

		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.WarnContext(ctx, "Failed to parse request", "error", err)
			if err := encoder.Encode(s.errorResponse(nil, -32700, "Parse error", err.Error())); err != nil {
				return fmt.Errorf("failed to write response: %w", err)
			}
			continue
		}

		resp := s.handleRequest(ctx, &req)
		if resp == nil {
			continue
		}
		if err := encoder.Encode(resp); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}
}

// scanLines feeds newline-delimited lines from in to the returned channel.
// The channel is closed when in is exhausted or ctx ends; the scanner's
// final error is sent first, only in the exhausted case.
func scanLines(ctx context.Context, in io.Reader) (<-chan []byte, <-chan error) {
	lines := make(chan []byte)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxRequestBytes)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	return lines, scanErr
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return s.errorResponse(req.ID, -32601, fmt.Sprintf("Method not found: %s", req.Method), "")
	}
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    serverName,
				"version": s.version,
			},
		},
	}
}

// errorResponse builds a JSON-RPC error. data may be a string or a structured
// value; an empty string is omitted.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	if str, ok := data.(string); ok && str == "" {
		data = nil
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}
