package turnnode

import (
	"context"
	"fmt"

	contractx "github.com/techmart/support-chat/agent/contract"
)

// ExecuteTool runs the pending tool call, if the router produced one, and
// replaces the response with the normalized outcome. At most one call
// happens here; any verification call already ran inside routing.
func ExecuteTool(ctx context.Context, in *GraphState, tools contractx.ToolGateway) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	if !in.Routed || in.Decision.Request == nil {
		return in, nil
	}

	outcome := tools.CallTool(ctx, *in.Decision.Request)
	in.Response = outcome.Text()
	return in, nil
}
