package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func urlProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "http or https URL of the image",
	}
}

func intProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Acquisition
		{
			Name:        "image_load_url",
			Description: "Fetch an image over HTTP, decode it, and return its dimensions, format, bit depth and alpha information. size_bytes is not reported; use image_fetch_bytes for the encoded size.",
			InputSchema: objectSchema(map[string]interface{}{
				"url": urlProperty(),
			}, "url"),
		},
		{
			Name:        "image_fetch_bytes",
			Description: "Fetch a URL and report the size, SHA-256 and sniffed content type of the body without decoding it. Optionally returns the body as base64.",
			InputSchema: objectSchema(map[string]interface{}{
				"url": urlProperty(),
				"include_data": map[string]interface{}{
					"type":        "boolean",
					"description": "Include the body as base64 in the result. Default false",
					"default":     false,
				},
			}, "url"),
		},
		{
			Name:        "image_decode",
			Description: "Decode base64-encoded image bytes supplied by the caller and return the same information as image_load_url plus size_bytes. No network access.",
			InputSchema: objectSchema(map[string]interface{}{
				"data_base64": map[string]interface{}{
					"type":        "string",
					"description": "Standard base64 encoding of a PNG, JPEG, GIF, BMP, TIFF or WebP file",
				},
			}, "data_base64"),
		},
		{
			Name:        "image_load_batch",
			Description: "Fetch and decode several images concurrently. Each URL succeeds or fails on its own; results keep the input order. Per-image info has the same shape as image_load_url.",
			InputSchema: objectSchema(map[string]interface{}{
				"urls": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "URLs to load",
				},
			}, "urls"),
		},

		// Color Operations
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a specific pixel coordinate of the image at a URL.",
			InputSchema: objectSchema(map[string]interface{}{
				"url": urlProperty(),
				"x":   intProperty("X coordinate (0-based, from left)"),
				"y":   intProperty("Y coordinate (0-based, from top)"),
			}, "url", "x", "y"),
		},
		{
			Name:        "image_sample_colors_multi",
			Description: "Sample colors at multiple labeled points in one call.",
			InputSchema: objectSchema(map[string]interface{}{
				"url": urlProperty(),
				"points": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x":     intProperty("X coordinate"),
							"y":     intProperty("Y coordinate"),
							"label": map[string]interface{}{"type": "string", "description": "Optional label"},
						},
						"required": []string{"x", "y"},
					},
					"description": "Points to sample",
				},
			}, "url", "points"),
		},
		{
			Name:        "image_dominant_colors",
			Description: "Extract the most common colors in the image or in a region of it.",
			InputSchema: objectSchema(map[string]interface{}{
				"url": urlProperty(),
				"count": map[string]interface{}{
					"type":        "integer",
					"description": "Number of colors to return. Default 5",
					"default":     5,
				},
				"region": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"x1": intProperty("Left edge (inclusive)"),
						"y1": intProperty("Top edge (inclusive)"),
						"x2": intProperty("Right edge (exclusive)"),
						"y2": intProperty("Bottom edge (exclusive)"),
					},
					"description": "Optional region to analyze",
				},
			}, "url"),
		},

		// Region Operations
		{
			Name:        "image_crop",
			Description: "Crop a rectangular region and return it as base64-encoded PNG.",
			InputSchema: objectSchema(map[string]interface{}{
				"url": urlProperty(),
				"x1":  intProperty("Left edge X coordinate (0-based)"),
				"y1":  intProperty("Top edge Y coordinate (0-based)"),
				"x2":  intProperty("Right edge X coordinate (exclusive)"),
				"y2":  intProperty("Bottom edge Y coordinate (exclusive)"),
				"scale": map[string]interface{}{
					"type":        "number",
					"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
					"default":     1.0,
				},
			}, "url", "x1", "y1", "x2", "y2"),
		},
		{
			Name:        "image_edge_detect",
			Description: "Return an edge map of the image as base64-encoded grayscale PNG, edges in white.",
			InputSchema: objectSchema(map[string]interface{}{
				"url": urlProperty(),
				"radius": map[string]interface{}{
					"type":        "number",
					"description": "Kernel radius. Default 1.0",
					"default":     1.0,
				},
			}, "url"),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
