// Package server exposes a platform.Service over line-delimited JSON-RPC 2.0
// on stdio, in the shape MCP clients expect.
//
// # Protocol
//
// One request per input line, one response per output line. Supported
// methods:
//   - initialize: Protocol handshake
//   - notifications/initialized: Acknowledged without a response
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Tools
//
// Acquisition:
//   - image_load_url: Fetch and decode an image, return its metadata
//   - image_fetch_bytes: Fetch raw bytes without decoding
//   - image_decode: Decode base64 bytes supplied by the client
//   - image_load_batch: Load several URLs concurrently
//
// Analysis (each fetches its URL fresh):
//   - image_sample_color, image_sample_colors_multi
//   - image_dominant_colors
//   - image_crop
//   - image_edge_detect
//
// Nothing is cached between calls. Every URL tool goes through the injected
// platform.Service, so the server never knows which host implementation it
// is talking to.
//
// # Error Handling
//
// Tool failures are JSON-RPC errors with code -32000. The data member carries
// the error text and a kind: "io" for non-2xx responses, "transport" for
// network failures, "request" for unusable URLs, "decode" for undecodable
// bytes, and "invalid_argument" for everything else.
package server
