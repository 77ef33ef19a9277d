package turnnode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/techmart/support-chat/agent/contract"
	routerx "github.com/techmart/support-chat/agent/router"
)

// RouteIntent seeds the response with the pattern fallback, then consults
// the router only when the verdict clears the confidence gate and names a
// qualifying category.
func RouteIntent(ctx context.Context, in *GraphState, router contractx.Router, threshold float64) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.Response = routerx.SimpleResponse(in.Message, in.CustomerID)

	if !in.Verdict.Intent.Qualifying() || in.Verdict.Confidence <= threshold {
		log.Debug().
			Str("intent", string(in.Verdict.Intent)).
			Float64("confidence", in.Verdict.Confidence).
			Msg("routing skipped, using pattern fallback")
		return in, nil
	}

	in.Decision = router.Route(ctx, in.Verdict, in.Message, in.CustomerID)
	in.Routed = true

	if in.Decision.Direct != "" {
		in.Response = in.Decision.Direct
	} else if in.Decision.Preamble != "" {
		// Advisory framing only: the tool result replaces it downstream.
		in.Response = in.Decision.Preamble
	}
	return in, nil
}
