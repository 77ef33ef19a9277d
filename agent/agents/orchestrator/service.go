// Package orchestrator wires the per-turn pipeline: validate, classify,
// route, execute the pending tool call, finalize. One turn is one graph
// invocation; no state survives between turns.
package orchestrator

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/techmart/support-chat/agent/contract"
	nodex "github.com/techmart/support-chat/agent/nodes"
)

var (
	ErrInvalidMessage  = nodex.ErrInvalidMessage
	ErrInvalidCustomer = nodex.ErrInvalidCustomer
)

// technicalDifficulties replaces the response whenever the turn fails in a
// way no stage already translated. The stream stays well-formed either way.
const technicalDifficulties = "I'm experiencing technical difficulties. Please try again."

type Config struct {
	ConfidenceThreshold float64 `envconfig:"CONFIDENCE_THRESHOLD" split_words:"true" default:"0.7"`
}

type Orchestrator struct {
	classifier contractx.Classifier
	router     contractx.Router
	tools      contractx.ToolGateway
	threshold  float64

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]
}

func New(
	classifier contractx.Classifier,
	router contractx.Router,
	tools contractx.ToolGateway,
	cfg Config,
) (*Orchestrator, error) {
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}
	if router == nil {
		return nil, errors.New("router is required")
	}
	if tools == nil {
		return nil, errors.New("tool gateway is required")
	}

	threshold := cfg.ConfidenceThreshold
	if threshold <= 0 {
		threshold = 0.7
	}

	o := &Orchestrator{
		classifier: classifier,
		router:     router,
		tools:      tools,
		threshold:  threshold,
	}

	graphRunner, err := o.compileHandleTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// HandleTurn runs one chat turn. It never returns an error: anything the
// pipeline could not translate itself becomes the generic failure text so
// the customer always receives a complete stream.
func (o *Orchestrator) HandleTurn(ctx context.Context, customerID, message string) nodex.GraphOutput {
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		CustomerID: customerID,
		Message:    message,
	})
	if err != nil {
		log.Error().Err(err).Str("customer", customerID).Msg("turn failed")
		return nodex.GraphOutput{
			Text:   technicalDifficulties,
			Intent: contractx.IntentOther,
		}
	}
	return out
}
