package server

import (
	"encoding/json"
	"image"
	"image/color"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/ironsheep/doc-scanner/internal/imaging"
	"github.com/ironsheep/doc-scanner/internal/scanner"
)

// newTestServer returns a server with a silent logger and a small page size.
func newTestServer() *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := scanner.DefaultOptions()
	opts.PageWidth, opts.PageHeight = 165, 234
	opts.Logger = logger
	return New(WithScanner(scanner.New(opts)), WithLogger(logger))
}

// createTestImageFile writes a photo of a light page on a dark background
// (or a flat image when page is empty) and returns its path.
func createTestImageFile(t *testing.T, width, height int, page image.Rectangle) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBA{40, 40, 40, 255}
			if image.Pt(x, y).In(page) {
				c = color.RGBA{230, 230, 225, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "photo.png")
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}
	return path
}

// callTool runs a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeToolResult unmarshals the text content of a successful tool call.
func decodeToolResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content should hold one item, got %v", result["content"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("failed to decode tool result %q: %v", text, err)
	}
}
