package turnnode

import (
	"context"
	"errors"
	"testing"

	contractx "github.com/techmart/support-chat/agent/contract"
)

type fakeRouter struct {
	decision contractx.Decision
	calls    int
}

func (f *fakeRouter) Route(ctx context.Context, verdict contractx.ClassificationResult, message, customerID string) contractx.Decision {
	f.calls++
	return f.decision
}

type fakeGateway struct {
	outcome contractx.ToolOutcome
	calls   []contractx.ToolRequest
}

func (f *fakeGateway) CallTool(ctx context.Context, req contractx.ToolRequest) contractx.ToolOutcome {
	f.calls = append(f.calls, req)
	return f.outcome
}

func (f *fakeGateway) Invoke(ctx context.Context, req contractx.ToolRequest) (*contractx.ToolEnvelope, error) {
	return nil, errors.New("not used")
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	st, err := ValidateRequest(GraphInput{CustomerID: "  glee@example.net ", Message: " hello "})
	if err != nil {
		t.Fatalf("ValidateRequest() error = %v", err)
	}
	if st.CustomerID != "glee@example.net" || st.Message != "hello" {
		t.Errorf("state = %+v, want trimmed fields", st)
	}

	if _, err := ValidateRequest(GraphInput{CustomerID: "x", Message: "   "}); !errors.Is(err, ErrInvalidMessage) {
		t.Errorf("blank message error = %v, want ErrInvalidMessage", err)
	}
	if _, err := ValidateRequest(GraphInput{CustomerID: " ", Message: "hello"}); !errors.Is(err, ErrInvalidCustomer) {
		t.Errorf("blank customer error = %v, want ErrInvalidCustomer", err)
	}
}

func TestRouteIntentGate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		verdict    contractx.ClassificationResult
		wantRouted bool
	}{
		{
			name:       "qualifying above threshold",
			verdict:    contractx.ClassificationResult{Intent: contractx.IntentSearchProducts, Confidence: 0.71},
			wantRouted: true,
		},
		{
			name:       "qualifying at threshold",
			verdict:    contractx.ClassificationResult{Intent: contractx.IntentSearchProducts, Confidence: 0.7},
			wantRouted: false,
		},
		{
			name:       "non qualifying above threshold",
			verdict:    contractx.ClassificationResult{Intent: contractx.IntentGreeting, Confidence: 0.99},
			wantRouted: false,
		},
		{
			name:       "fallback verdict",
			verdict:    contractx.ClassificationResult{Intent: contractx.IntentOther, Confidence: 0.5},
			wantRouted: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := &fakeRouter{decision: contractx.Decision{Direct: "routed"}}
			st := &GraphState{CustomerID: "glee@example.net", Message: "hello", Verdict: tt.verdict}

			st, err := RouteIntent(context.Background(), st, router, 0.7)
			if err != nil {
				t.Fatalf("RouteIntent() error = %v", err)
			}
			if st.Routed != tt.wantRouted {
				t.Errorf("Routed = %v, want %v", st.Routed, tt.wantRouted)
			}
			wantCalls := 0
			if tt.wantRouted {
				wantCalls = 1
			}
			if router.calls != wantCalls {
				t.Errorf("router calls = %d, want %d", router.calls, wantCalls)
			}
		})
	}
}

func TestRouteIntentSkippedKeepsFallback(t *testing.T) {
	t.Parallel()

	st := &GraphState{
		CustomerID: "glee@example.net",
		Message:    "hello there",
		Verdict:    contractx.ClassificationResult{Intent: contractx.IntentGreeting, Confidence: 0.95},
	}

	st, err := RouteIntent(context.Background(), st, &fakeRouter{}, 0.7)
	if err != nil {
		t.Fatalf("RouteIntent() error = %v", err)
	}
	want := "Hello glee@example.net! How can I help with your computer products today?"
	if st.Response != want {
		t.Errorf("Response = %q, want %q", st.Response, want)
	}
}

func TestRouteIntentDirectOverridesFallback(t *testing.T) {
	t.Parallel()

	router := &fakeRouter{decision: contractx.Decision{Direct: "Your account information:\n..."}}
	st := &GraphState{
		CustomerID: "glee@example.net",
		Message:    "show my account",
		Verdict:    contractx.ClassificationResult{Intent: contractx.IntentAccountInfo, Confidence: 0.9},
	}

	st, err := RouteIntent(context.Background(), st, router, 0.7)
	if err != nil {
		t.Fatalf("RouteIntent() error = %v", err)
	}
	if st.Response != "Your account information:\n..." {
		t.Errorf("Response = %q, want direct response", st.Response)
	}
}

func TestRouteIntentPreambleSeedsResponse(t *testing.T) {
	t.Parallel()

	router := &fakeRouter{decision: contractx.Decision{
		Request:  &contractx.ToolRequest{Tool: "search_products"},
		Preamble: "Let me find 'monitor' for you so you can place an order...",
	}}
	st := &GraphState{
		CustomerID: "glee@example.net",
		Message:    "I want to buy a monitor",
		Verdict:    contractx.ClassificationResult{Intent: contractx.IntentPlaceOrder, Confidence: 0.9},
	}

	st, err := RouteIntent(context.Background(), st, router, 0.7)
	if err != nil {
		t.Fatalf("RouteIntent() error = %v", err)
	}
	if st.Response != router.decision.Preamble {
		t.Errorf("Response = %q, want preamble", st.Response)
	}
}

func TestExecuteTool(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{outcome: contractx.ToolOutcome{Content: "Found 3 products"}}
	req := &contractx.ToolRequest{Tool: "search_products", CorrelationID: 2}
	st := &GraphState{Routed: true, Decision: contractx.Decision{Request: req}, Response: "preamble"}

	st, err := ExecuteTool(context.Background(), st, gateway)
	if err != nil {
		t.Fatalf("ExecuteTool() error = %v", err)
	}
	if len(gateway.calls) != 1 || gateway.calls[0].Tool != "search_products" {
		t.Errorf("gateway calls = %v, want one search_products call", gateway.calls)
	}
	if st.Response != "Found 3 products" {
		t.Errorf("Response = %q, want tool content", st.Response)
	}
}

func TestExecuteToolFailureReplacesResponse(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{outcome: contractx.ToolOutcome{Failure: "Request timed out. Please try again with a shorter query."}}
	st := &GraphState{
		Routed:   true,
		Decision: contractx.Decision{Request: &contractx.ToolRequest{Tool: "list_products"}},
		Response: "seed",
	}

	st, err := ExecuteTool(context.Background(), st, gateway)
	if err != nil {
		t.Fatalf("ExecuteTool() error = %v", err)
	}
	if st.Response != gateway.outcome.Failure {
		t.Errorf("Response = %q, want failure text", st.Response)
	}
}

func TestExecuteToolPassthrough(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{}

	st := &GraphState{Routed: false, Response: "fallback"}
	st, err := ExecuteTool(context.Background(), st, gateway)
	if err != nil {
		t.Fatalf("ExecuteTool() error = %v", err)
	}
	if st.Response != "fallback" {
		t.Errorf("Response = %q, want untouched fallback", st.Response)
	}

	st = &GraphState{Routed: true, Decision: contractx.Decision{Direct: "done"}, Response: "done"}
	st, err = ExecuteTool(context.Background(), st, gateway)
	if err != nil {
		t.Fatalf("ExecuteTool() error = %v", err)
	}
	if len(gateway.calls) != 0 {
		t.Errorf("gateway calls = %d, want 0", len(gateway.calls))
	}
	if st.Response != "done" {
		t.Errorf("Response = %q, want direct response", st.Response)
	}
}

func TestFinalizeResponse(t *testing.T) {
	t.Parallel()

	out, err := FinalizeResponse(&GraphState{
		Response: "  all good  ",
		Verdict:  contractx.ClassificationResult{Intent: contractx.IntentGreeting},
	})
	if err != nil {
		t.Fatalf("FinalizeResponse() error = %v", err)
	}
	if out.Text != "all good" {
		t.Errorf("Text = %q, want trimmed response", out.Text)
	}
	if out.Intent != contractx.IntentGreeting {
		t.Errorf("Intent = %q, want GREETING", out.Intent)
	}

	if _, err := FinalizeResponse(&GraphState{Response: "   "}); !errors.Is(err, contractx.ErrValidation) {
		t.Errorf("empty response error = %v, want ErrValidation", err)
	}
}
