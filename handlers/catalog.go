package handlers

import (
	"net/http"

	"storefront-backend/commerce"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	Catalog *commerce.CatalogClient
	Store   *commerce.StoreClient
}

// GetShop returns the initial shop bundle: categories, brands and the first
// page of products in one response.
func (h *CatalogHandler) GetShop(c *gin.Context) {
	data, err := h.Catalog.ShopInit(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load catalog"})
		return
	}
	c.JSON(http.StatusOK, data)
}

// GetProducts lists products, optionally filtered by ?category= or ?brand=
// slug. Brand wins when both are present.
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	var (
		products []commerce.Product
		err      error
	)
	if brand := c.Query("brand"); brand != "" {
		products, err = h.Catalog.ProductsByBrand(c.Request.Context(), brand)
	} else {
		products, err = h.Catalog.ProductsByCategory(c.Request.Context(), c.Query("category"))
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load products"})
		return
	}
	if products == nil {
		products = []commerce.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.Catalog.ProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load product"})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories, err := h.Catalog.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load categories"})
		return
	}
	if categories == nil {
		categories = []commerce.Term{}
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *CatalogHandler) GetBrands(c *gin.Context) {
	brands, err := h.Catalog.Brands(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load brands"})
		return
	}
	if brands == nil {
		brands = []commerce.Term{}
	}
	c.JSON(http.StatusOK, gin.H{"brands": brands})
}

// GetStoreSettings returns store-wide display settings, primarily the
// currency the storefront formats prices with.
func (h *CatalogHandler) GetStoreSettings(c *gin.Context) {
	settings, err := h.Store.Settings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load store settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}
