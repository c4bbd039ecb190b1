package tools

import (
	"errors"
	"strings"
)

// Error types carried in ToolError.Type.
const (
	ErrorTypeInvalidRequest = "invalid_request"
	ErrorTypeToolExecution  = "tool_execution_error"
)

// ContentBlock is one piece of result content. Only text is produced.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolError is the structured error a client can branch on.
type ToolError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ToolResult is the envelope every tool call returns.
type ToolResult struct {
	Content []ContentBlock `json:"content"`
	Error   *ToolError     `json:"error,omitempty"`
}

// TextResult returns a successful result with a single text block.
func TextResult(text string) ToolResult {
	return ToolResult{Content: []ContentBlock{{Type: "text", Text: text}}}
}

// ErrorResult returns a result with a text block and a structured error.
func ErrorResult(errType, message, text string) ToolResult {
	return ToolResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
		Error:   &ToolError{Type: errType, Message: message},
	}
}

// IsSuccess returns true if the result carries no structured error.
func (r ToolResult) IsSuccess() bool {
	return r.Error == nil
}

// Text joins all text blocks with newlines.
func (r ToolResult) Text() string {
	parts := make([]string, 0, len(r.Content))
	for _, block := range r.Content {
		parts = append(parts, block.Text)
	}
	return strings.Join(parts, "\n")
}

// RequestError is a rejection detected before anything is executed. Text is
// what the caller reads; Message goes into the structured error.
type RequestError struct {
	Type    string
	Message string
	Text    string
}

func (e *RequestError) Error() string {
	return e.Message
}

// Result converts the rejection into a ToolResult.
func (e *RequestError) Result() ToolResult {
	text := e.Text
	if text == "" {
		text = "Error: " + e.Message
	}
	return ErrorResult(e.Type, e.Message, text)
}

// InvalidRequest builds an invalid_request rejection.
func InvalidRequest(message string) *RequestError {
	return &RequestError{Type: ErrorTypeInvalidRequest, Message: message}
}

// ResultFromError converts any error into a result. RequestErrors keep their
// type and text; anything else becomes a tool_execution_error.
func ResultFromError(err error) ToolResult {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Result()
	}
	return ErrorResult(ErrorTypeToolExecution, "Execution failed: "+err.Error(), "Error: "+err.Error())
}
