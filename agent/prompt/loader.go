package prompt

import (
	_ "embed"
	"strings"
)

//go:embed template/intent.txt
var intentRaw string

// IntentClassifier returns the system instruction for the intent
// classification call.
func IntentClassifier() string {
	return strings.TrimSpace(intentRaw)
}
