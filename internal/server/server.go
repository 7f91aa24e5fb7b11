// Package server exposes the registry and operation library over the MCP
// tool-calling protocol on stdio. Handlers translate between protocol
// payloads and typed operations; no analytic logic lives here.
package server

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/KaramelBytes/dataloom/internal/analytics"
	"github.com/KaramelBytes/dataloom/internal/config"
	"github.com/KaramelBytes/dataloom/internal/registry"
	"github.com/KaramelBytes/dataloom/internal/sandbox"
	"github.com/KaramelBytes/dataloom/internal/schema"
)

// Server wires the dataset registry, the operation library and the sandbox
// runner behind one MCP endpoint.
type Server struct {
	cfg     *config.Global
	log     *slog.Logger
	reg     *registry.Registry
	ops     *analytics.Operations
	suggest *analytics.Suggester
	runner  *sandbox.Runner
	mcp     *server.MCPServer
	version string
}

// New builds a fully wired server. The registry starts empty; datasets enter
// only through the load tools.
func New(cfg *config.Global, log *slog.Logger, version string) *Server {
	engine := schema.NewEngine(cfg.SchemaOptions())
	reg := registry.New(engine, log)
	ops := analytics.NewOperations(reg, cfg.Analytics)

	s := &Server{
		cfg:     cfg,
		log:     log,
		reg:     reg,
		ops:     ops,
		suggest: analytics.NewSuggester(ops),
		runner:  sandbox.New(cfg.SandboxCommand, time.Duration(cfg.SandboxTimeoutSec)*time.Second),
		version: version,
	}
	s.mcp = server.NewMCPServer(
		cfg.ServerName,
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
	)
	s.registerTools()
	s.registerResources()
	s.registerPrompts()
	return s
}

// Registry exposes the backing registry for the one-shot CLI path, which
// loads a file and runs operations without the protocol layer.
func (s *Server) Registry() *registry.Registry { return s.reg }

// Operations exposes the operation library for the one-shot CLI path.
func (s *Server) Operations() *analytics.Operations { return s.ops }

// Serve blocks on the stdio transport until the client disconnects. Stdout
// carries protocol frames only; all logging goes to stderr.
func (s *Server) Serve() error {
	s.log.Info("serving on stdio", "server", s.cfg.ServerName, "version", s.version)
	return server.ServeStdio(s.mcp)
}

// jsonResult marshals a typed operation result into a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("encode result: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// toolError reports an operation failure as a tool-level error so the client
// sees the message instead of a protocol fault.
func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
