package handlers

import (
	"net/http"

	"storefront-backend/commerce"
	"storefront-backend/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Store *commerce.StoreClient
}

// Login exchanges credentials with the upstream commerce backend and issues
// our own session token for the identity it confirms. The upstream token is
// discarded: everything this server does on the user's behalf goes through
// the consumer key pair, not the user's upstream session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	result, err := h.Store.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateToken(result.Email, result.DisplayName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"email":        result.Email,
			"username":     result.Username,
			"display_name": result.DisplayName,
		},
	})
}

// Register creates the account upstream, then logs the new user straight in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if err := h.Store.Register(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Registration failed", "detail": err.Error()})
		return
	}

	result, err := h.Store.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// The account exists; the client can sign in manually.
		c.JSON(http.StatusCreated, gin.H{"message": "Account created"})
		return
	}

	token, err := utils.GenerateToken(result.Email, result.DisplayName)
	if err != nil {
		c.JSON(http.StatusCreated, gin.H{"message": "Account created"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user": gin.H{
			"email":        result.Email,
			"username":     result.Username,
			"display_name": result.DisplayName,
		},
	})
}
