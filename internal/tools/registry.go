package tools

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"vibemcp/internal/logging"
)

// Registry holds all available tools and dispatches calls to them.
// It is thread-safe; tools are listed in registration order.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Tool
	order []*Tool

	// byCategory provides fast lookup by category.
	byCategory map[ToolCategory][]*Tool

	logger *zap.Logger
	audit  *logging.AuditLogger
}

// NewRegistry creates a new empty tool registry. A nil logger is a no-op.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		tools:      make(map[string]*Tool),
		byCategory: make(map[ToolCategory][]*Tool),
		logger:     logging.Named(logger, logging.CategoryTools),
	}
}

// SetAudit records one audit entry per Call.
func (r *Registry) SetAudit(audit *logging.AuditLogger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audit = audit
}

// Register adds a tool to the registry.
// Returns an error if a tool with the same name already exists.
func (r *Registry) Register(tool *Tool) error {
	if err := tool.Validate(); err != nil {
		return fmt.Errorf("invalid tool: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("%w: %s", ErrToolAlreadyRegistered, tool.Name)
	}

	// Set default priority if not specified
	if tool.Priority == 0 {
		tool.Priority = 50
	}

	r.tools[tool.Name] = tool
	r.order = append(r.order, tool)
	r.byCategory[tool.Category] = append(r.byCategory[tool.Category], tool)

	r.logger.Debug("Registered tool",
		zap.String("tool", tool.Name),
		zap.String("category", string(tool.Category)),
		zap.Int("priority", tool.Priority))
	return nil
}

// MustRegister registers a tool and panics on error.
// Use this for static tool registration at startup.
func (r *Registry) MustRegister(tool *Tool) {
	if err := r.Register(tool); err != nil {
		panic(fmt.Sprintf("failed to register tool %s: %v", tool.Name, err))
	}
}

// Get returns a tool by name, or nil if not found.
func (r *Registry) Get(name string) *Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// Has returns true if a tool with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// GetByCategory returns all tools in a category, sorted by priority (descending).
func (r *Registry) GetByCategory(category ToolCategory) []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]*Tool, len(r.byCategory[category]))
	copy(tools, r.byCategory[category])

	sort.SliceStable(tools, func(i, j int) bool {
		return tools[i].Priority > tools[j].Priority
	})

	return tools
}

// All returns all registered tools in registration order.
func (r *Registry) All() []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Tool, len(r.order))
	copy(result, r.order)
	return result
}

// Names returns all registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Call runs a tool by name. It always returns a result: an unknown name or
// invalid arguments become invalid_request results, and a panicking handler
// becomes a tool_execution_error.
func (r *Registry) Call(ctx context.Context, name string, args Args) ToolResult {
	requestID := RequestIDFrom(ctx)
	if requestID == "" {
		requestID = NewRequestID()
		ctx = WithRequestID(ctx, requestID)
	}
	ctx = WithToolName(ctx, name)

	log := r.logger.With(zap.String("request_id", requestID), zap.String("tool", name))
	start := time.Now()

	tool := r.Get(name)
	if tool == nil {
		log.Warn("Unknown tool requested")
		result := InvalidRequest("Unknown tool: " + name).Result()
		r.record(name, requestID, time.Since(start), result)
		return result
	}

	if args == nil {
		args = Args{}
	}
	if err := tool.Schema.Validate(args); err != nil {
		log.Info("Rejected invalid arguments", zap.Error(err))
		result := InvalidRequest(err.Error()).Result()
		r.record(name, requestID, time.Since(start), result)
		return result
	}

	log.Debug("Executing tool")
	result := r.invoke(ctx, log, tool, args)
	duration := time.Since(start)

	log.Debug("Tool completed",
		zap.Duration("duration", duration),
		zap.Bool("success", result.IsSuccess()))
	r.record(name, requestID, duration, result)
	return result
}

func (r *Registry) invoke(ctx context.Context, log *zap.Logger, tool *Tool, args Args) (result ToolResult) {
	defer func() {
		if p := recover(); p != nil {
			log.Error("Tool handler panicked",
				zap.Any("panic", p),
				zap.ByteString("stack", debug.Stack()))
			result = ErrorResult(ErrorTypeToolExecution,
				fmt.Sprintf("Execution failed: internal error in %s", tool.Name),
				fmt.Sprintf("Error: internal error in %s: %v", tool.Name, p))
		}
	}()
	return tool.Execute(ctx, args)
}

func (r *Registry) record(name, requestID string, duration time.Duration, result ToolResult) {
	r.mu.RLock()
	audit := r.audit
	r.mu.RUnlock()

	errMsg := ""
	if result.Error != nil {
		errMsg = result.Error.Message
	}
	audit.ToolExec(name, requestID, duration, result.IsSuccess(), errMsg)
}
