// internal/interfaces/http/handlers/product.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/music-storefront/internal/domain/product"
	"github.com/your-org/music-storefront/internal/interfaces/http/middleware"
)

// ProductHandler handles catalog browsing, categories and reviews
type ProductHandler struct {
	productService *product.Service
	logger         *logrus.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *product.Service, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// GetProducts handles GET /products?q=&category=&min_price=&max_price=&in_stock=&sort=
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var filters product.Filters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	switch filters.PriceSort {
	case "", product.SortLowToHigh, product.SortHighToLow:
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid sort order. Use lowToHigh or highToLow.",
		})
		return
	}

	var ok bool
	if filters.MinPrice, ok = priceParam(c, "min_price"); !ok {
		return
	}
	if filters.MaxPrice, ok = priceParam(c, "max_price"); !ok {
		return
	}

	page, err := h.productService.Browse(c.Request.Context(), filters)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    page.Products,
		"meta": gin.H{
			"total":     page.Total,
			"max_price": page.MaxPrice,
		},
	})
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, ok := parseID(c, "id", "product ID")
	if !ok {
		return
	}

	p, err := h.productService.GetProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    p,
	})
}

// GetCategories handles GET /categories
func (h *ProductHandler) GetCategories(c *gin.Context) {
	categories, err := h.productService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Categories retrieved successfully",
		"data":    categories,
	})
}

// GetProductReviews handles GET /products/:id/reviews
func (h *ProductHandler) GetProductReviews(c *gin.Context) {
	productID, ok := parseID(c, "id", "product ID")
	if !ok {
		return
	}

	reviews, err := h.productService.ListReviews(c.Request.Context(), productID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reviews retrieved successfully",
		"data":    reviews,
	})
}

// CreateReview handles POST /products/:id/reviews
func (h *ProductHandler) CreateReview(c *gin.Context) {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	productID, ok := parseID(c, "id", "product ID")
	if !ok {
		return
	}

	var req product.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	req.Product = productID

	review, err := h.productService.SubmitReview(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review submitted for approval",
		"data":    review,
	})
}

// priceParam reads an optional decimal query parameter
func priceParam(c *gin.Context, name string) (*decimal.Decimal, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	value, err := decimal.NewFromString(raw)
	if err != nil || value.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name,
		})
		return nil, false
	}
	return &value, true
}
