package mcp

import (
	"context"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// hooks logs session and protocol-level events that never reach a tool
// handler, such as calls to unknown tools.
func (s *Server) hooks() *server.Hooks {
	hooks := &server.Hooks{}

	hooks.AddAfterInitialize(func(ctx context.Context, id any, req *mcplib.InitializeRequest, _ *mcplib.InitializeResult) {
		s.logger.Info("Client initialized",
			zap.String("client", req.Params.ClientInfo.Name),
			zap.String("client_version", req.Params.ClientInfo.Version),
			zap.String("protocol", req.Params.ProtocolVersion))
	})

	hooks.AddOnError(func(ctx context.Context, id any, method mcplib.MCPMethod, _ any, err error) {
		s.logger.Warn("Request failed",
			zap.Any("id", id),
			zap.String("method", string(method)),
			zap.Error(err))
	})

	return hooks
}
