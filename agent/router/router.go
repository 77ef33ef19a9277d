// Package router maps a classified intent to the tool call (or direct
// response) that answers it, including the two-step verify-then-fetch flow
// for order history.
package router

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/techmart/support-chat/agent/contract"
	customersx "github.com/techmart/support-chat/agent/customers"
	mcpx "github.com/techmart/support-chat/agent/mcp"
)

// Correlation ids mirror the MCP server's expectations: verification and
// first-shot calls use 2, the dependent order lookup uses 3.
const (
	primaryCallID  = 2
	followupCallID = 3

	verifyTimeout = 10 * time.Second
)

// Customer record ids appear in verification text as "ID: <hex-with-dashes>".
var customerIDPattern = regexp.MustCompile(`ID: ([a-f0-9-]+)`)

type Router struct {
	customers *customersx.Store
	tools     contractx.ToolGateway
}

var _ contractx.Router = (*Router)(nil)

func New(customers *customersx.Store, tools contractx.ToolGateway) (*Router, error) {
	if customers == nil {
		return nil, fmt.Errorf("%w: customer store is required", contractx.ErrValidation)
	}
	if tools == nil {
		return nil, fmt.Errorf("%w: tool gateway is required", contractx.ErrValidation)
	}
	return &Router{customers: customers, tools: tools}, nil
}

// Route evaluates the routing table in precedence order. Intents that need
// verification fall through to the default product listing when the
// customer is unknown.
func (r *Router) Route(ctx context.Context, verdict contractx.ClassificationResult, message, customerID string) contractx.Decision {
	switch {
	case verdict.Intent == contractx.IntentSearchProducts:
		return searchDecision(verdict.Entities, message)
	case verdict.Intent == contractx.IntentOrderStatus && r.customers.Known(customerID):
		return r.orderStatusDecision(ctx, customerID)
	case verdict.Intent == contractx.IntentAccountInfo && r.customers.Known(customerID):
		return r.accountInfoDecision(ctx, customerID)
	case verdict.Intent == contractx.IntentPlaceOrder && r.customers.Known(customerID):
		return placeOrderDecision(verdict.Entities)
	case verdict.Intent == contractx.IntentWarrantySupport:
		return contractx.Decision{Request: listProductsRequest(nil)}
	default:
		return defaultProductsDecision(verdict.Entities)
	}
}

func searchDecision(entities []string, message string) contractx.Decision {
	query := strings.Join(entities, " ")
	if query == "" {
		query = strings.ReplaceAll(message, "search", "")
		query = strings.ReplaceAll(query, "find", "")
		query = strings.TrimSpace(query)
	}
	if query == "" {
		query = "monitor"
	}
	return contractx.Decision{Request: searchProductsRequest(query)}
}

// orderStatusDecision runs the verification call synchronously, then hands
// back the dependent list_orders request for the caller to execute.
func (r *Router) orderStatusDecision(ctx context.Context, customerID string) contractx.Decision {
	env, err := r.verify(ctx, customerID)
	if err != nil {
		log.Warn().Err(err).Str("customer", customerID).Msg("customer verification failed")
		return contractx.Decision{Direct: "Unable to verify customer at this time. Please try again later."}
	}
	if env.Status != 200 {
		return contractx.Decision{Direct: fmt.Sprintf(
			"Customer verification failed (status %d). Please check your email and PIN.", env.Status)}
	}
	if !env.HasResult() {
		return contractx.Decision{Direct: "Unable to verify customer information. Please check your credentials."}
	}

	info, _ := mcpx.ExtractText(env.Result)
	if m := customerIDPattern.FindStringSubmatch(info); m != nil {
		log.Debug().Str("customer_id", m[1]).Msg("customer record id found")
		return contractx.Decision{Request: &contractx.ToolRequest{
			Tool:          mcpx.ToolListOrders,
			Args:          map[string]any{"customer_id": m[1]},
			CorrelationID: followupCallID,
		}}
	}

	return contractx.Decision{Direct: "Customer verified: " + clip(info, 200) + "..."}
}

func (r *Router) accountInfoDecision(ctx context.Context, customerID string) contractx.Decision {
	env, err := r.verify(ctx, customerID)
	if err != nil {
		log.Warn().Err(err).Str("customer", customerID).Msg("account info lookup failed")
		return contractx.Decision{Direct: "Unable to retrieve account information at this time."}
	}
	if env.Status != 200 {
		return contractx.Decision{Direct: "Unable to access account information. Please check your credentials."}
	}
	if !env.HasResult() {
		return contractx.Decision{Direct: "Unable to retrieve account information. Please contact support."}
	}

	info, _ := mcpx.ExtractText(env.Result)
	return contractx.Decision{Direct: "Your account information:\n" + info}
}

func placeOrderDecision(entities []string) contractx.Decision {
	if len(entities) > 0 {
		terms := strings.Join(entities, " ")
		return contractx.Decision{
			Request:  searchProductsRequest(terms),
			Preamble: fmt.Sprintf("Let me find '%s' for you so you can place an order...", terms),
		}
	}
	return contractx.Decision{
		Request:  listProductsRequest("Monitors"),
		Preamble: "I can help you place an order! Here are some popular products:",
	}
}

// defaultProductsDecision lists the catalog, inferring a category from the
// extracted terms. The first matching term wins.
func defaultProductsDecision(entities []string) contractx.Decision {
	var category any
	for _, entity := range entities {
		lower := strings.ToLower(entity)
		if strings.Contains(lower, "monitor") {
			category = "Monitors"
			break
		}
		if strings.Contains(lower, "computer") || strings.Contains(lower, "laptop") {
			category = "Computers"
			break
		}
	}
	return contractx.Decision{Request: listProductsRequest(category)}
}

func (r *Router) verify(ctx context.Context, customerID string) (*contractx.ToolEnvelope, error) {
	pin, _ := r.customers.PIN(customerID)

	ctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()

	return r.tools.Invoke(ctx, contractx.ToolRequest{
		Tool:          mcpx.ToolVerifyCustomerPIN,
		Args:          map[string]any{"email": customerID, "pin": pin},
		CorrelationID: primaryCallID,
	})
}

func searchProductsRequest(query string) *contractx.ToolRequest {
	return &contractx.ToolRequest{
		Tool:          mcpx.ToolSearchProducts,
		Args:          map[string]any{"query": query},
		CorrelationID: primaryCallID,
	}
}

// listProductsRequest always sends the category key; a nil category means
// no filter on the server side.
func listProductsRequest(category any) *contractx.ToolRequest {
	return &contractx.ToolRequest{
		Tool:          mcpx.ToolListProducts,
		Args:          map[string]any{"category": category},
		CorrelationID: primaryCallID,
	}
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
