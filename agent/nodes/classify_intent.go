package turnnode

import (
	"context"
	"fmt"

	contractx "github.com/techmart/support-chat/agent/contract"
)

// ClassifyIntent records the classifier verdict. The classifier absorbs
// its own failures, so this node only fails on wiring mistakes.
func ClassifyIntent(ctx context.Context, in *GraphState, classifier contractx.Classifier) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.Verdict = classifier.Classify(ctx, in.Message, in.CustomerID)
	return in, nil
}
