package mcp

// Tool names accepted by the MCP server.
const (
	ToolVerifyCustomerPIN = "verify_customer_pin"
	ToolGetCustomer       = "get_customer"
	ToolListProducts      = "list_products"
	ToolSearchProducts    = "search_products"
	ToolGetProduct        = "get_product"
	ToolListOrders        = "list_orders"
	ToolGetOrder          = "get_order"
	ToolCreateOrder       = "create_order"
)

// ToolInfo describes one MCP tool for documentation and validation.
type ToolInfo struct {
	Name        string
	Description string
	Params      []string
}

// Registry lists every tool the MCP server exposes. Routing only issues a
// subset of these; the rest are kept for completeness.
func Registry() []ToolInfo {
	return []ToolInfo{
		{Name: ToolVerifyCustomerPIN, Description: "Verify customer email/PIN and get customer ID", Params: []string{"email", "pin"}},
		{Name: ToolGetCustomer, Description: "Get detailed customer information", Params: []string{"customer_id"}},
		{Name: ToolListProducts, Description: "Browse product catalog", Params: []string{"category"}},
		{Name: ToolSearchProducts, Description: "Search products by query", Params: []string{"query"}},
		{Name: ToolGetProduct, Description: "Get specific product details", Params: []string{"product_id"}},
		{Name: ToolListOrders, Description: "Get customer's order history", Params: []string{"customer_id"}},
		{Name: ToolGetOrder, Description: "Get specific order details", Params: []string{"order_id"}},
		{Name: ToolCreateOrder, Description: "Place new order", Params: []string{"customer_id", "product_id", "quantity"}},
	}
}

// Known reports whether name is a registered tool.
func Known(name string) bool {
	for _, info := range Registry() {
		if info.Name == name {
			return true
		}
	}
	return false
}
