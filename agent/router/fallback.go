package router

import (
	"fmt"
	"strings"
)

// SimpleResponse is the canned fallback used whenever tool routing is
// skipped. Matching is substring-based on the lowercased message.
func SimpleResponse(message, customerID string) string {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "hello") || strings.Contains(msg, "hi") || strings.Contains(msg, "hey"):
		return fmt.Sprintf("Hello %s! How can I help with your computer products today?", customerID)
	case strings.Contains(msg, "thank"):
		return "You're welcome! Is there anything else I can help you with?"
	case strings.Contains(msg, "bye"):
		return "Goodbye! Have a great day, and feel free to reach out if you need any help."
	default:
		return "I can help with orders, products, warranties, and technical issues. What do you need?"
	}
}
