package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/doc-scanner/internal/detection"
	"github.com/ironsheep/doc-scanner/internal/imaging"
	"github.com/ironsheep/doc-scanner/internal/scanner"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "document_rectify").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Debug("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
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

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Document Operations
	case "document_detect":
		return s.handleDocumentDetect(args)
	case "document_rectify":
		return s.handleDocumentRectify(args)
	case "document_edges":
		return s.handleDocumentEdges(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
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

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type pathArgs struct {
	Path string `json:"path"`
}

func parsePathArgs(args json.RawMessage) (pathArgs, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return a, err
	}
	if a.Path == "" {
		return a, errors.New("path is required")
	}
	return a, nil
}

// === Basic Image Information Handlers ===

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	a, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	a, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Document Handlers ===

// DocumentDetectResult is the document_detect tool result.
type DocumentDetectResult struct {
	// Width and Height are the photograph dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Valid is false when a corner is degenerate.
	Valid bool `json:"valid"`

	*scanner.Detection
}

func (s *Server) handleDocumentDetect(args json.RawMessage) (interface{}, error) {
	a, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	det, err := s.scanner.Detect(img)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &DocumentDetectResult{
		Width:     b.Dx(),
		Height:    b.Dy(),
		Valid:     det.Corners.Valid(),
		Detection: det,
	}, nil
}

type documentRectifyArgs struct {
	Path       string `json:"path"`
	OutputPath string `json:"output_path"`
}

// DocumentRectifyResult is the document_rectify tool result.
type DocumentRectifyResult struct {
	OutputPath string              `json:"output_path"`
	Width      int                 `json:"width"`
	Height     int                 `json:"height"`
	Corners    [4]detection.PointF `json:"corners"`
	Degenerate [4]bool             `json:"degenerate"`
	Synthetic  map[string]int      `json:"synthetic_borders"`
}

func (s *Server) handleDocumentRectify(args json.RawMessage) (interface{}, error) {
	var a documentRectifyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	if a.OutputPath == "" {
		a.OutputPath = scanner.OutputPath(a.Path, "", s.suffix, "")
	}
	if err := scanner.CheckOutput(a.Path, a.OutputPath); err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	res, err := s.scanner.Scan(img)
	if err != nil {
		return nil, err
	}
	if err := imaging.Save(res.Page, a.OutputPath); err != nil {
		return nil, err
	}
	// A stale decode of a previous output at this path must not be served.
	s.cache.Evict(a.OutputPath)

	b := res.Page.Bounds()
	det := res.Detection
	return &DocumentRectifyResult{
		OutputPath: a.OutputPath,
		Width:      b.Dx(),
		Height:     b.Dy(),
		Corners:    det.Corners.Points,
		Degenerate: det.Corners.Degenerate,
		Synthetic: map[string]int{
			"horizontal": det.Groups.SyntheticHorizontal,
			"vertical":   det.Groups.SyntheticVertical,
		},
	}, nil
}

func (s *Server) handleDocumentEdges(args json.RawMessage) (interface{}, error) {
	a, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	opts := s.scanner.Options()
	work, err := imaging.Preprocess(img, opts.MinWorkingWidth, opts.MaxScale)
	if err != nil {
		return nil, err
	}
	return imaging.EncodeEdgeMap(work)
}
