package contract

import "context"

// Classifier assigns an intent verdict to a customer message. It never
// fails: classification errors degrade to the OTHER fallback internally.
type Classifier interface {
	Classify(ctx context.Context, message, customerID string) ClassificationResult
}

// Router decides which tool call (if any) a classified turn should issue.
type Router interface {
	Route(ctx context.Context, verdict ClassificationResult, message, customerID string) Decision
}

// ToolGateway executes tool calls against the MCP server. CallTool returns
// a fully normalized outcome; Invoke exposes the raw envelope and HTTP
// status for flows that sequence a dependent call on the payload.
type ToolGateway interface {
	CallTool(ctx context.Context, req ToolRequest) ToolOutcome
	Invoke(ctx context.Context, req ToolRequest) (*ToolEnvelope, error)
}
