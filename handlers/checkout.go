package handlers

import (
	"encoding/json"
	"net/http"

	"storefront-backend/cart"
	"storefront-backend/commerce"
	"storefront-backend/dtos"
	"storefront-backend/utils"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	Sessions *cart.Manager
	Store    *commerce.StoreClient
}

// Checkout places an order upstream from the session's authoritative cart.
// The cart is the only source of line items: clients never submit them, so a
// stale client view cannot order something that is no longer in the cart.
// The cart is cleared only after the upstream confirms the order.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req dtos.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	sess := resolveSession(c, h.Sessions)
	snapshot := sess.Snapshot()
	if len(snapshot) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	lineItems := make([]dtos.OrderLineItem, 0, len(snapshot))
	for _, line := range snapshot {
		lineItems = append(lineItems, dtos.OrderLineItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}

	orderReq := commerce.OrderRequest{
		PaymentMethod:      req.PaymentMethod,
		PaymentMethodTitle: req.PaymentMethodTitle,
		Billing:            req.Billing,
		LineItems:          lineItems,
	}
	if req.Shipping != nil {
		orderReq.Shipping = *req.Shipping
	}
	// Preserve the client cart on the order for support and reconciliation.
	if clientCart, err := json.Marshal(snapshot); err == nil {
		orderReq.MetaData = []commerce.MetaData{{Key: "_client_cart", Value: string(clientCart)}}
	}

	order, err := h.Store.CreateOrder(c.Request.Context(), orderReq)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Order could not be placed", "detail": err.Error()})
		return
	}

	sess.Clear()

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"id":      order.ID,
		"order":   order,
	})
}

// GetOrder serves the order-confirmation page's lookup.
func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	order, err := h.Store.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}
