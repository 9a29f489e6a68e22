// Package mcpserver implements a small MCP (Model Context Protocol)
// server: JSON-RPC 2.0 over stdio or HTTP/SSE, session management,
// middleware chains, and a clean tool registration interface.
//
// Quick Start:
//
//	server := mcpserver.New("my-server", "1.0.0")
//	server.RegisterTool(&MyTool{})
//	server.RunStdio(ctx) // or server.RunHTTP(":8080", "")
package mcpserver

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Server is the core MCP server that manages tools and handles JSON-RPC requests.
type Server struct {
	name            string
	version         string
	protocolVersion string
	tools           map[string]ToolHandler
	toolOrder       []string
	sessions        map[string]time.Time
	sessionMu       sync.RWMutex
	middleware      []Middleware
	logger          *slog.Logger
}

// New creates a new MCP server with the given name and version.
func New(name, version string) *Server {
	return &Server{
		name:            name,
		version:         version,
		protocolVersion: "2024-11-05",
		tools:           make(map[string]ToolHandler),
		sessions:        make(map[string]time.Time),
		logger:          slog.Default(),
	}
}

// SetLogger replaces the server's logger. On stdio transports stdout is
// the wire, so callers typically point this at a file.
func (s *Server) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// RegisterTool adds a tool to the server.
func (s *Server) RegisterTool(tool ToolHandler) {
	if _, exists := s.tools[tool.Name()]; !exists {
		s.toolOrder = append(s.toolOrder, tool.Name())
	}
	s.tools[tool.Name()] = tool
	s.logger.Info("registered tool", "name", tool.Name())
}

// RegisterTools adds multiple tools to the server.
func (s *Server) RegisterTools(tools ...ToolHandler) {
	for _, tool := range tools {
		s.RegisterTool(tool)
	}
}

// Use adds middleware to the server's processing chain.
func (s *Server) Use(mw Middleware) {
	s.middleware = append(s.middleware, mw)
}

// RunStdio starts the server using stdin/stdout (stdio transport).
func (s *Server) RunStdio(ctx context.Context) error {
	s.logger.Info("starting MCP server (stdio)", "name", s.name, "version", s.version, "tools", len(s.tools))

	decoder := json.NewDecoder(os.Stdin)
	encoder := json.NewEncoder(os.Stdout)

	for {
		var req JSONRPCRequest
		if err := decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decode request: %w", err)
		}

		resp := s.HandleRequest(ctx, &req)
		if resp == nil {
			continue // notification, no response
		}
		if err := encoder.Encode(resp); err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
	}
}

// HandleRequest processes a single JSON-RPC request and returns a response.
func (s *Server) HandleRequest(ctx context.Context, req *JSONRPCRequest) *JSONRPCResponse {
	// Apply middleware chain
	handler := s.coreHandler
	for i := len(s.middleware) - 1; i >= 0; i-- {
		handler = s.middleware[i](handler)
	}
	return handler(ctx, req)
}

func (s *Server) coreHandler(ctx context.Context, req *JSONRPCRequest) *JSONRPCResponse {
	resp := &JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
	}

	switch req.Method {
	case "initialize":
		resp.Result = s.handleInitialize()
	case "notifications/initialized":
		s.logger.Info("client initialized")
		return nil
	case "tools/list":
		resp.Result = s.handleToolsList()
	case "tools/call":
		result, rpcErr := s.handleToolCall(ctx, req.Params)
		if rpcErr != nil {
			resp.Error = rpcErr
		} else {
			resp.Result = result
		}
	default:
		resp.Error = &RPCError{
			Code:    CodeMethodNotFound,
			Message: fmt.Sprintf("Method not found: %s", req.Method),
		}
	}

	return resp
}

func (s *Server) handleInitialize() *InitializeResult {
	return &InitializeResult{
		ProtocolVersion: s.protocolVersion,
		Capabilities: ServerCapabilities{
			Tools: ToolsCapability{ListChanged: false},
		},
		ServerInfo: ServerInfo{
			Name:    s.name,
			Version: s.version,
		},
		SessionID: s.createSession(),
	}
}

func (s *Server) handleToolsList() *ToolsListResult {
	tools := make([]ToolDef, 0, len(s.tools))
	for _, name := range s.toolOrder {
		h := s.tools[name]
		tools = append(tools, ToolDef{
			Name:        h.Name(),
			Description: h.Description(),
			InputSchema: h.InputSchema(),
		})
	}
	return &ToolsListResult{Tools: tools}
}

func (s *Server) handleToolCall(ctx context.Context, params any) (any, *RPCError) {
	paramsBytes, err := json.Marshal(params)
	if err != nil {
		return ErrorResult(fmt.Errorf("parse params: %w", err)), nil
	}

	var callParams struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := json.Unmarshal(paramsBytes, &callParams); err != nil {
		return ErrorResult(fmt.Errorf("unmarshal params: %w", err)), nil
	}

	tool, ok := s.tools[callParams.Name]
	if !ok {
		return ErrorResult(fmt.Errorf("tool not found: %s", callParams.Name)), nil
	}

	result, err := tool.Execute(ctx, callParams.Arguments)
	if err != nil {
		var argErr *ArgumentError
		if errors.As(err, &argErr) {
			return nil, &RPCError{
				Code:    CodeInvalidParams,
				Message: "Invalid params",
				Data:    argErr.Error(),
			}
		}
		return ErrorResult(err), nil
	}
	return result, nil
}

// Session management

func (s *Server) createSession() string {
	id := generateSessionID()
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	s.sessions[id] = time.Now()
	return id
}

// CheckSession verifies if a session ID is valid.
func (s *Server) CheckSession(id string) bool {
	s.sessionMu.RLock()
	defer s.sessionMu.RUnlock()
	_, ok := s.sessions[id]
	return ok
}

func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("sess-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
