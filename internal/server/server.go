package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/ironsheep/doc-scanner/internal/imaging"
	"github.com/ironsheep/doc-scanner/internal/scanner"
)

// Version is reported in the initialize response.
var Version = "dev"

// Server handles MCP protocol communication
type Server struct {
	cache   *imaging.ImageCache
	scanner *scanner.Scanner
	log     *slog.Logger
	suffix  string
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Option configures a Server.
type Option func(*Server)

// WithScanner sets the scanner used by the document tools.
func WithScanner(sc *scanner.Scanner) Option {
	return func(s *Server) { s.scanner = sc }
}

// WithLogger sets the logger for protocol errors.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithOutputSuffix sets the suffix used for rectified pages when a tool call
// gives no output path.
func WithOutputSuffix(suffix string) Option {
	return func(s *Server) { s.suffix = suffix }
}

// New creates a new MCP server instance. Without options it uses a scanner
// with default settings and slog.Default().
func New(opts ...Option) *Server {
	s := &Server{
		cache:  imaging.NewImageCache(),
		suffix: "_rectified",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.scanner == nil {
		o := scanner.DefaultOptions()
		o.Logger = s.log
		s.scanner = scanner.New(o)
	}
	return s
}

// Serve reads one JSON-RPC request per line from r and writes responses to w.
// It returns nil at end of input, or ctx.Err() as soon as ctx is done, even
// while a read from r is still blocked.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		readErr <- readLines(ctx, r, lines)
	}()

	encoder := json.NewEncoder(w)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil && ctx.Err() == nil {
					return fmt.Errorf("scanner error: %w", err)
				}
				return ctx.Err()
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			s.handleLine(line, encoder)
		}
	}
}

// readLines sends each non-empty line of r on out until r is exhausted or
// ctx is done.
func readLines(ctx context.Context, r io.Reader, out chan<- []byte) error {
	sc := bufio.NewScanner(r)
	// Increase buffer size for large requests
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		line := append([]byte(nil), sc.Bytes()...)
		select {
		case out <- line:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return sc.Err()
}

func (s *Server) handleLine(line []byte, encoder *json.Encoder) {
	var req MCPRequest
	if err := json.Unmarshal(line, &req); err != nil {
		s.log.Warn("failed to parse request", "error", err)
		return
	}

	resp := s.handleRequest(&req)
	if resp == nil {
		return
	}
	if err := encoder.Encode(resp); err != nil {
		s.log.Error("failed to encode response", "error", err)
	}
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "doc-scanner",
				"version": Version,
			},
		},
	}
}
