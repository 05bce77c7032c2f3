package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the schema shared by every tool's "path" argument.
func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Upload inspection
		{
			Name:        "image_load",
			Description: "Load an uploaded image and return its dimensions, detected format, alpha and file size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a specific pixel coordinate.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "image_dominant_colors",
			Description: "Estimate the most common colors from a downsampled preview. For display only; use spot_color_classify for the print decision.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to return. Default 5",
						"default":     5,
					},
					"preview_size": map[string]interface{}{
						"type":        "integer",
						"description": "Longest preview side in pixels. Default 256",
						"default":     256,
					},
				},
				"required": []string{"path"},
			},
		},

		// Spot color
		{
			Name:        "spot_color_classify",
			Description: "Decide whether artwork can be printed with at most two spot inks. Returns the image type (spot-color, gradient, full-color), ink count, palette and background handling.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"pre_simplified": map[string]interface{}{
						"type":        "boolean",
						"description": "Set when the image is the output of spot_color_simplify. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "spot_color_simplify",
			Description: "Reduce artwork to at most max_colors flat colors. Returns the chosen colors and the image as base64, or writes it to output_path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"max_colors": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of output colors. Default 2",
						"default":     2,
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"png", "bmp"},
						"description": "Lossless output format. Default png",
						"default":     "png",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file to write instead of returning base64 data",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "spot_color_prepare",
			Description: "Classify artwork and, if it is not spot color, simplify it and confirm the result classifies as spot color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"max_colors": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of inks for the simplified image. Default 2",
						"default":     2,
					},
				},
				"required": []string{"path"},
			},
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
