package contract

import "encoding/json"

type Intent string

const (
	IntentSearchProducts  Intent = "SEARCH_PRODUCTS"
	IntentOrderStatus     Intent = "ORDER_STATUS"
	IntentPlaceOrder      Intent = "PLACE_ORDER"
	IntentWarrantySupport Intent = "WARRANTY_SUPPORT"
	IntentTechSupport     Intent = "TECH_SUPPORT"
	IntentGreeting        Intent = "GREETING"
	IntentAccountInfo     Intent = "ACCOUNT_INFO"
	IntentOther           Intent = "OTHER"
)

// Intents returns the closed set of categories the classifier may emit,
// in prompt order.
func Intents() []Intent {
	return []Intent{
		IntentSearchProducts,
		IntentOrderStatus,
		IntentPlaceOrder,
		IntentWarrantySupport,
		IntentTechSupport,
		IntentGreeting,
		IntentAccountInfo,
		IntentOther,
	}
}

func (i Intent) Valid() bool {
	switch i {
	case IntentSearchProducts, IntentOrderStatus, IntentPlaceOrder,
		IntentWarrantySupport, IntentTechSupport, IntentGreeting,
		IntentAccountInfo, IntentOther:
		return true
	}
	return false
}

// Qualifying reports whether the intent may trigger a tool call at all.
// TECH_SUPPORT, GREETING and OTHER never reach the router.
func (i Intent) Qualifying() bool {
	switch i {
	case IntentSearchProducts, IntentOrderStatus, IntentPlaceOrder,
		IntentWarrantySupport, IntentAccountInfo:
		return true
	}
	return false
}

// ClassificationResult is the verdict for a single message. It is built
// once per turn and discarded afterwards.
type ClassificationResult struct {
	Intent     Intent   `json:"intent"`
	Confidence float64  `json:"confidence"`
	Entities   []string `json:"entities"`
	Reasoning  string   `json:"reasoning"`
}

// ToolRequest is a single tools/call invocation against the MCP server.
type ToolRequest struct {
	Tool          string         `json:"tool"`
	Args          map[string]any `json:"args,omitempty"`
	CorrelationID int            `json:"correlation_id"`
}

// ToolOutcome is the normalized result of a tool invocation. Exactly one
// of Content and Failure is set; Failure already reads as a customer-facing
// sentence.
type ToolOutcome struct {
	Content string `json:"content,omitempty"`
	Failure string `json:"failure,omitempty"`
}

func (o ToolOutcome) Failed() bool {
	return o.Failure != ""
}

func (o ToolOutcome) Text() string {
	if o.Failed() {
		return o.Failure
	}
	return o.Content
}

// Decision is the router's verdict for one turn. Request carries a pending
// tool call for the caller to execute; Direct short-circuits the turn with
// a finished response. Preamble is advisory framing set alongside a Request
// and is replaced by the tool result downstream.
type Decision struct {
	Request  *ToolRequest
	Direct   string
	Preamble string
}

// ToolEnvelope is the raw JSON-RPC response shape, exposed for two-step
// flows that need to inspect the verification payload before deciding on
// a dependent call.
type ToolEnvelope struct {
	Status int             `json:"-"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *ToolError      `json:"error,omitempty"`
}

type ToolError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
}

// HasResult reports whether the envelope carries a usable result payload.
func (e *ToolEnvelope) HasResult() bool {
	if e == nil || len(e.Result) == 0 {
		return false
	}
	return string(e.Result) != "null"
}
