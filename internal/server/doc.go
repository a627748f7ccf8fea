// Package server implements the MCP (Model Context Protocol) server for the
// document scanner.
//
// This package provides a JSON-RPC 2.0 server that exposes document detection
// and rectification through the MCP protocol, so that AI assistants and other
// MCP-compatible clients can straighten photographed pages.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Document Operations:
//   - document_detect: Find the document corners and border lines
//   - document_rectify: Straighten the document and save it as a page
//   - document_edges: Show the edge map used for detection
//
// # Image Caching
//
// Images are cached by absolute path and reused across tool calls, so
// detecting and then rectifying the same photograph decodes it once. A page
// written by document_rectify evicts any cached image at its output path.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(server.WithScanner(sc), server.WithLogger(logger))
//	if err := srv.Serve(ctx, os.Stdin, os.Stdout); err != nil {
//	    return err
//	}
package server
