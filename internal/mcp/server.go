// Package mcp exposes the tool registry as an MCP server over stdio.
//
// The protocol itself (framing, initialize, tools/list, worker pool) is
// handled by mark3labs/mcp-go. This package only converts between its types
// and tools.ToolResult, and wires logging.
package mcp

import (
	"context"
	"fmt"
	"io"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"vibemcp/internal/logging"
	"vibemcp/internal/tools"
)

const (
	DefaultName    = "vibe-tools-mcp-server"
	DefaultVersion = "1.1.0"
)

// Options configures the MCP server.
type Options struct {
	Name         string
	Version      string
	Instructions string

	// Workers and QueueSize size the stdio tool-call pool. Zero keeps the
	// library defaults.
	Workers   int
	QueueSize int

	Logger *zap.Logger
}

// Server serves a tool registry over MCP.
type Server struct {
	registry *tools.Registry
	mcp      *server.MCPServer
	opts     Options
	logger   *zap.Logger
}

// NewServer builds an MCP server advertising every tool in registry.
func NewServer(registry *tools.Registry, opts Options) (*Server, error) {
	if opts.Name == "" {
		opts.Name = DefaultName
	}
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}

	s := &Server{
		registry: registry,
		opts:     opts,
		logger:   logging.Named(opts.Logger, logging.CategoryServer),
	}

	serverOpts := []server.ServerOption{
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithHooks(s.hooks()),
	}
	if opts.Instructions != "" {
		serverOpts = append(serverOpts, server.WithInstructions(opts.Instructions))
	}
	s.mcp = server.NewMCPServer(opts.Name, opts.Version, serverOpts...)

	serverTools, err := ServerTools(registry, s.logger)
	if err != nil {
		return nil, err
	}
	s.mcp.AddTools(serverTools...)
	for _, st := range serverTools {
		s.logger.Info("Registered tool", zap.String("tool", st.Tool.Name))
	}
	return s, nil
}

// Serve reads JSON-RPC messages from in and writes responses to out until ctx
// is cancelled or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger.Named("stdio")))
	if s.opts.Workers > 0 {
		server.WithWorkerPoolSize(s.opts.Workers)(stdio)
	}
	if s.opts.QueueSize > 0 {
		server.WithQueueSize(s.opts.QueueSize)(stdio)
	}

	s.logger.Info("vibe-tools MCP server running on stdio",
		zap.String("name", s.opts.Name),
		zap.String("version", s.opts.Version),
		zap.Int("tools", s.registry.Count()))

	err := stdio.Listen(ctx, in, out)
	if err != nil && ctx.Err() != nil {
		// Shutdown, not a failure.
		return nil
	}
	return err
}

// ServerTools converts every registry tool into an mcp-go tool whose handler
// dispatches through registry.Call.
func ServerTools(registry *tools.Registry, logger *zap.Logger) ([]server.ServerTool, error) {
	logger = logging.OrNop(logger)

	all := registry.All()
	out := make([]server.ServerTool, 0, len(all))
	for _, tool := range all {
		schema, err := tool.Schema.JSON()
		if err != nil {
			return nil, fmt.Errorf("schema for %s: %w", tool.Name, err)
		}
		out = append(out, server.ServerTool{
			Tool:    mcplib.NewToolWithRawSchema(tool.Name, tool.Description, schema),
			Handler: handler(registry, logger),
		})
	}
	return out, nil
}

func handler(registry *tools.Registry, logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		requestID := tools.NewRequestID()
		ctx = tools.WithRequestID(ctx, requestID)
		start := time.Now()

		result := registry.Call(ctx, req.Params.Name, tools.Args(req.GetArguments()))

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("tool", req.Params.Name),
			zap.Duration("duration", time.Since(start)),
		}
		if result.Error != nil {
			logger.Info("Tool call failed", append(fields,
				zap.String("error_type", result.Error.Type),
				zap.String("error", result.Error.Message))...)
		} else {
			logger.Debug("Tool call completed", fields...)
		}
		return ToCallToolResult(result), nil
	}
}

// ToCallToolResult converts a tool result to its MCP form. A structured error
// sets IsError and is also carried as structured content.
func ToCallToolResult(result tools.ToolResult) *mcplib.CallToolResult {
	content := make([]mcplib.Content, 0, len(result.Content))
	for _, block := range result.Content {
		content = append(content, mcplib.NewTextContent(block.Text))
	}

	out := &mcplib.CallToolResult{Content: content}
	if result.Error != nil {
		out.IsError = true
		out.StructuredContent = map[string]any{
			"error": map[string]any{
				"type":    result.Error.Type,
				"message": result.Error.Message,
			},
		}
	}
	return out
}
