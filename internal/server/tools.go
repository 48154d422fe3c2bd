package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the comic page image (jpg, jpeg, png or gif)",
}

var rowsProperty = map[string]interface{}{
	"type":        "integer",
	"description": "Number of horizontal rows to split the page into. Omit or use 1 to decide from the aspect ratio.",
	"minimum":     1,
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "comic_plan_regions",
			Description: "Load a comic page and return its dimensions, aspect ratio and the ordered regions of interest it would be OCR'd in. Regions are normalized with a bottom-left origin; the first region is the top of the page.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"rows": rowsProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "comic_ocr_page",
			Description: "Recognize the text of a comic page region by region and return it with a blank line after every sentence-ending line. Set write to also save it as a .txt file next to the image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"rows": rowsProperty,
					"write": map[string]interface{}{
						"type":        "boolean",
						"description": "Write the text to <image name>.txt (default: false)",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "comic_ocr_info",
			Description: "Report whether the OCR backend is available and which version is installed.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}
