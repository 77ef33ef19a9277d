package turnnode

import (
	"errors"
	"strings"

	contractx "github.com/techmart/support-chat/agent/contract"
)

var (
	ErrInvalidMessage  = errors.New("message is empty")
	ErrInvalidCustomer = errors.New("customer id is empty")
)

type GraphInput struct {
	CustomerID string
	Message    string
}

type GraphOutput struct {
	Text   string
	Intent contractx.Intent
}

// GraphState is the per-turn working set threaded through the pipeline.
// Nothing in it outlives the turn.
type GraphState struct {
	CustomerID string
	Message    string

	Verdict  contractx.ClassificationResult
	Routed   bool
	Decision contractx.Decision

	Response string
}

func ValidateRequest(in GraphInput) (*GraphState, error) {
	customerID := strings.TrimSpace(in.CustomerID)
	if customerID == "" {
		return nil, ErrInvalidCustomer
	}

	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		CustomerID: customerID,
		Message:    message,
	}, nil
}
