package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// objectSchema builds a JSON schema for an object with string properties.
// Every tool takes "path"; extra maps property names to descriptions.
func objectSchema(extra map[string]string) map[string]interface{} {
	props := map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file",
		},
	}
	for name, desc := range extra {
		props[name] = map[string]interface{}{
			"type":        "string",
			"description": desc,
		}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   []string{"path"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and file size. The decoded image is cached for subsequent document tools.",
			InputSchema: objectSchema(nil),
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: objectSchema(nil),
		},

		// Document operations
		{
			Name:        "document_detect",
			Description: "Locate the document in a photograph. Returns the four corners (top-left, top-right, bottom-left, bottom-right) in image pixels, the detected border lines, and whether any corner is degenerate.",
			InputSchema: objectSchema(nil),
		},
		{
			Name:        "document_rectify",
			Description: "Detect the document in a photograph, correct its perspective onto an upright A4 page (1654x2339 pixels by default), and save the page.",
			InputSchema: objectSchema(map[string]string{
				"output_path": "Where to save the page; the format follows the extension. Default: input name with a suffix, next to the input",
			}),
		},
		{
			Name:        "document_edges",
			Description: "Return the working-resolution edge map the document detector sees, as a base64-encoded PNG. Useful to understand why a detection failed.",
			InputSchema: objectSchema(nil),
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
