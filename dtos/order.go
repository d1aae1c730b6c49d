package dtos

// Address is the billing/shipping shape shared by the checkout API and the
// upstream order endpoint. Field names follow the upstream REST contract.
type Address struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Address1  string `json:"address_1" binding:"required"`
	Address2  string `json:"address_2"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state"`
	Postcode  string `json:"postcode" binding:"required"`
	Country   string `json:"country" binding:"required"`
}

// CheckoutRequest is the payload for POST /api/checkout. Line items are not
// part of it: the order is always placed from the session's authoritative
// cart.
type CheckoutRequest struct {
	PaymentMethod      string   `json:"payment_method"`
	PaymentMethodTitle string   `json:"payment_method_title"`
	Billing            Address  `json:"billing" binding:"required"`
	Shipping           *Address `json:"shipping"`
}

// OrderLineItem is one purchased line as the upstream order endpoint wants it.
type OrderLineItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name,omitempty"`
	Quantity  int    `json:"quantity"`
	Total     string `json:"total,omitempty"`
}

// OrderSummary is the subset of the upstream order record the confirmation
// page needs.
type OrderSummary struct {
	ID          int64           `json:"id"`
	Status      string          `json:"status"`
	Currency    string          `json:"currency"`
	Total       string          `json:"total"`
	DateCreated string          `json:"date_created"`
	Billing     Address         `json:"billing"`
	LineItems   []OrderLineItem `json:"line_items"`
}
