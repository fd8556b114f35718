package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

const listFailedMessage = "Failed to fetch alerts"

// FormatJSON renders v as 2-space indented JSON without HTML escaping
func FormatJSON(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// textResult wraps v in the single text content item a tool returns
func textResult(v interface{}) (*mcp.CallToolResult, error) {
	text, err := FormatJSON(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(text), nil
}

func failureResult(message string) *mcp.CallToolResult {
	return mcp.NewToolResultText(message)
}
