package models

// UnitPrice is the flat per-item price used for cart totals. The upstream
// food database carries no pricing data, so every product is priced at the
// same constant rather than inventing a per-product price field.
const UnitPrice = 1.99

// CartItem pairs a product with a positive quantity. A cart holds at most
// one CartItem per product ID.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// CartSummary is the cart state handed to subscribers and API clients.
// Totals are derived from the item list on every read.
type CartSummary struct {
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"totalItems"`
	TotalPrice float64    `json:"totalPrice"`
}
