package mcp

import (
	"bytes"
	"encoding/json"
)

// The MCP server wraps tool output in one of several envelope shapes.
// Extraction is an ordered rule list: the first rule that matches wins.
type extractRule func(raw json.RawMessage) (string, bool)

var extractRules = []extractRule{
	extractStructuredResult, // result.structuredContent.result
	extractContentText,      // result.content[0].text
	stringifyResult,         // whole result object
}

type resultEnvelope struct {
	StructuredContent *structuredContent `json:"structuredContent"`
	Content           []contentItem      `json:"content"`
}

type structuredContent struct {
	Result json.RawMessage `json:"result"`
}

type contentItem struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text"`
}

// ExtractText pulls a human-readable string out of a tool result payload.
// It returns false only when there is no result payload at all.
func ExtractText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	for _, rule := range extractRules {
		if text, ok := rule(raw); ok {
			return text, true
		}
	}
	return "", false
}

func extractStructuredResult(raw json.RawMessage) (string, bool) {
	var env resultEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", false
	}
	if env.StructuredContent == nil || env.StructuredContent.Result == nil {
		return "", false
	}
	return stringify(env.StructuredContent.Result), true
}

func extractContentText(raw json.RawMessage) (string, bool) {
	var env resultEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", false
	}
	if len(env.Content) == 0 || env.Content[0].Text == "" {
		return "", false
	}
	return env.Content[0].Text, true
}

func stringifyResult(raw json.RawMessage) (string, bool) {
	return stringify(raw), true
}

// stringify renders JSON strings as their value and everything else as
// compact JSON.
func stringify(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
