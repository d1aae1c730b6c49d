package handlers

import (
	"net/http"
	"strconv"

	"storefront-backend/cart"
	"storefront-backend/middleware"
	"storefront-backend/utils"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	Sessions *cart.Manager
}

// resolveSession picks the request's cart session and points it at the
// request's identity. The identity comes from the optional Bearer token, so
// a login or logout is observed here as an identity change on the next
// request, which triggers the reload/merge sequence inside the session.
func resolveSession(c *gin.Context, sessions *cart.Manager) *cart.Session {
	sessionID := c.GetString(middleware.SessionKey)
	sess := sessions.Get(sessionID)
	sess.SetIdentity(cart.Identity{
		SessionID: sessionID,
		UserKey:   c.GetString(middleware.UserKeyKey),
	})
	return sess
}

func cartResponse(items cart.Items) gin.H {
	if items == nil {
		items = cart.Items{}
	}
	return gin.H{"items": items, "total": cart.Total(items)}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	sess := resolveSession(c, h.Sessions)
	c.JSON(http.StatusOK, cartResponse(sess.Snapshot()))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req struct {
		ProductID int64   `json:"product_id" binding:"required"`
		Name      string  `json:"name" binding:"required"`
		Price     float64 `json:"price" binding:"gte=0"`
		Image     string  `json:"image"`
		Quantity  int     `json:"quantity" binding:"required,min=1"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	sess := resolveSession(c, h.Sessions)
	items := sess.Add(cart.Line{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		Image:     req.Image,
		Quantity:  req.Quantity,
	})

	c.JSON(http.StatusOK, cartResponse(items))
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req struct {
		Quantity int `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	sess := resolveSession(c, h.Sessions)
	items, found := sess.SetQuantity(productID, req.Quantity)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(items))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	// Removing an absent product is a no-op, not an error.
	sess := resolveSession(c, h.Sessions)
	items := sess.Remove(productID)

	resp := cartResponse(items)
	resp["message"] = "Item removed from cart"
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	sess := resolveSession(c, h.Sessions)
	sess.Clear()

	resp := cartResponse(nil)
	resp["message"] = "Cart cleared"
	c.JSON(http.StatusOK, resp)
}
