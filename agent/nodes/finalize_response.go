package turnnode

import (
	"fmt"
	"strings"

	contractx "github.com/techmart/support-chat/agent/contract"
)

func FinalizeResponse(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	text := strings.TrimSpace(in.Response)
	if text == "" {
		return GraphOutput{}, fmt.Errorf("%w: turn produced an empty response", contractx.ErrValidation)
	}
	return GraphOutput{Text: text, Intent: in.Verdict.Intent}, nil
}
