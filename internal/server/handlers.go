package server

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/galileo-platform/internal/imaging"
	"github.com/ironsheep/galileo-platform/internal/platform"
)

var errInvalidArgument = errors.New("invalid argument")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load_url", "image_crop").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// ToolErrorData is the data member of a failed tools/call response.
type ToolErrorData struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

func newToolErrorData(err error) *ToolErrorData {
	return &ToolErrorData{Message: err.Error(), Kind: errorKind(err)}
}

// errorKind maps an error to the kind reported to clients.
func errorKind(err error) string {
	if k := platform.KindOf(err); k != platform.KindUnknown {
		return k.String()
	}
	var de *imaging.DecodeError
	if errors.As(err, &de) {
		return "decode"
	}
	return "invalid_argument"
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", newToolErrorData(err))
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load_url":
		return s.handleImageLoadURL(ctx, args)
	case "image_fetch_bytes":
		return s.handleImageFetchBytes(ctx, args)
	case "image_decode":
		return s.handleImageDecode(ctx, args)
	case "image_load_batch":
		return s.handleImageLoadBatch(ctx, args)

	case "image_sample_color":
		return s.handleImageSampleColor(ctx, args)
	case "image_sample_colors_multi":
		return s.handleImageSampleColorsMulti(ctx, args)
	case "image_dominant_colors":
		return s.handleImageDominantColors(ctx, args)

	case "image_crop":
		return s.handleImageCrop(ctx, args)
	case "image_edge_detect":
		return s.handleImageEdgeDetect(ctx, args)

	default:
		return nil, fmt.Errorf("%w: unknown tool: %s", errInvalidArgument, name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing arguments", errInvalidArgument)
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArgument, err)
	}
	return nil
}

func (s *Server) loadImage(ctx context.Context, url string) (*imaging.DecodedImage, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: url is required", errInvalidArgument)
	}
	return s.platform.LoadImageURL(ctx, url)
}

// === Acquisition Handlers ===

type urlArgs struct {
	URL string `json:"url"`
}

func (s *Server) handleImageLoadURL(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a urlArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadImage(ctx, a.URL)
	if err != nil {
		return nil, err
	}
	return imaging.Describe(img, 0), nil
}

type fetchBytesArgs struct {
	URL         string `json:"url"`
	IncludeData bool   `json:"include_data"`
}

// FetchBytesResult describes an undecoded response body.
type FetchBytesResult struct {
	URL         string `json:"url"`
	SizeBytes   int    `json:"size_bytes"`
	SHA256      string `json:"sha256"`
	ContentType string `json:"content_type"`
	DataBase64  string `json:"data_base64,omitempty"`
}

func (s *Server) handleImageFetchBytes(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a fetchBytesArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.URL == "" {
		return nil, fmt.Errorf("%w: url is required", errInvalidArgument)
	}

	data, err := s.platform.LoadBytesFromURL(ctx, a.URL)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	result := &FetchBytesResult{
		URL:         a.URL,
		SizeBytes:   len(data),
		SHA256:      hex.EncodeToString(sum[:]),
		ContentType: http.DetectContentType(data),
	}
	if a.IncludeData {
		result.DataBase64 = base64.StdEncoding.EncodeToString(data)
	}
	return result, nil
}

type decodeArgsPayload struct {
	DataBase64 string `json:"data_base64"`
}

func (s *Server) handleImageDecode(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a decodeArgsPayload
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(a.DataBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: data_base64: %v", errInvalidArgument, err)
	}

	img, err := s.platform.DecodeImage(ctx, data)
	if err != nil {
		return nil, err
	}
	return imaging.Describe(img, len(data)), nil
}

type loadBatchArgs struct {
	URLs []string `json:"urls"`
}

// BatchItem is the outcome for one URL of image_load_batch. Exactly one of
// Info and Error is set.
type BatchItem struct {
	URL   string             `json:"url"`
	Info  *imaging.ImageInfo `json:"info,omitempty"`
	Error *ToolErrorData     `json:"error,omitempty"`
}

// BatchResult lists items in request order.
type BatchResult struct {
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

func (s *Server) handleImageLoadBatch(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a loadBatchArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.URLs) == 0 {
		return nil, fmt.Errorf("%w: urls must not be empty", errInvalidArgument)
	}

	items := make([]BatchItem, len(a.URLs))

	var g errgroup.Group
	g.SetLimit(s.batchConcurrency)
	for i, url := range a.URLs {
		g.Go(func() error {
			img, err := s.loadImage(ctx, url)
			if err != nil {
				items[i] = BatchItem{URL: url, Error: newToolErrorData(err)}
				return nil
			}
			items[i] = BatchItem{URL: url, Info: imaging.Describe(img, 0)}
			return nil
		})
	}
	_ = g.Wait()

	result := &BatchResult{Items: items}
	for _, item := range items {
		if item.Error != nil {
			result.Failed++
		} else {
			result.Succeeded++
		}
	}
	return result, nil
}

// === Color Operation Handlers ===

type sampleColorArgs struct {
	URL string `json:"url"`
	X   int    `json:"x"`
	Y   int    `json:"y"`
}

func (s *Server) handleImageSampleColor(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a sampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadImage(ctx, a.URL)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img.Pixels, a.X, a.Y)
}

type pointArg struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Label string `json:"label"`
}

type sampleColorsMultiArgs struct {
	URL    string     `json:"url"`
	Points []pointArg `json:"points"`
}

func (s *Server) handleImageSampleColorsMulti(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a sampleColorsMultiArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadImage(ctx, a.URL)
	if err != nil {
		return nil, err
	}

	points := make([]imaging.LabeledPoint, len(a.Points))
	for i, p := range a.Points {
		points[i] = imaging.LabeledPoint{X: p.X, Y: p.Y, Label: p.Label}
	}
	return imaging.SampleColorsMulti(img.Pixels, points)
}

type regionArg struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

type dominantColorsArgs struct {
	URL    string     `json:"url"`
	Count  int        `json:"count"`
	Region *regionArg `json:"region"`
}

func (s *Server) handleImageDominantColors(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a dominantColorsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	img, err := s.loadImage(ctx, a.URL)
	if err != nil {
		return nil, err
	}

	var region *imaging.Region
	if a.Region != nil {
		region = &imaging.Region{X1: a.Region.X1, Y1: a.Region.Y1, X2: a.Region.X2, Y2: a.Region.Y2}
	}
	return imaging.DominantColors(img.Pixels, a.Count, region)
}

// === Region Operation Handlers ===

type cropArgs struct {
	URL   string  `json:"url"`
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleImageCrop(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a cropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.loadImage(ctx, a.URL)
	if err != nil {
		return nil, err
	}
	return imaging.Crop(img.Pixels, imaging.Region{X1: a.X1, Y1: a.Y1, X2: a.X2, Y2: a.Y2}, a.Scale)
}

type edgeDetectArgs struct {
	URL    string  `json:"url"`
	Radius float64 `json:"radius"`
}

func (s *Server) handleImageEdgeDetect(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a edgeDetectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadImage(ctx, a.URL)
	if err != nil {
		return nil, err
	}
	return imaging.EdgeDetect(img.Pixels, a.Radius)
}
