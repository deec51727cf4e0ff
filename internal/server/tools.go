package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the screenshot",
	}
}

func outputProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Optional path for a copy of the screenshot with detections outlined and labelled",
	}
}

func captionsProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": "Read the text inside every detected region with OCR. Default false",
		"default":     false,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name: "ui_detect",
			Description: "Find UI elements (buttons, icons, panels) in a screenshot using the configured " +
				"template catalogue and shape detector catalogue. Returns every accepted region per element class " +
				"plus diagnostics explaining rejected or missing classes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"templates": map[string]interface{}{
						"type":        "boolean",
						"description": "Run template matching. Default true",
						"default":     true,
					},
					"cascades": map[string]interface{}{
						"type":        "boolean",
						"description": "Run the shape detectors. Default true",
						"default":     true,
					},
					"output_path": outputProperty(),
					"captions":    captionsProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "ui_detect_templates",
			Description: "Find UI elements by correlating the screenshot with the template images listed in the template catalogue.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty(),
					"output_path": outputProperty(),
					"captions":    captionsProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "ui_detect_cascades",
			Description: "Find UI elements with the pretrained shape detectors listed in the cascade catalogue.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty(),
					"output_path": outputProperty(),
					"captions":    captionsProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "ui_image_info",
			Description: "Get the width, height, format and file size of a screenshot.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "ui_crop_region",
			Description: "Crop a detected region from a screenshot and return it as base64-encoded PNG for closer inspection.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
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
