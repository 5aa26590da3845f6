package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saarock/sopy-ecommerce/internal/domain"
	"github.com/saarock/sopy-ecommerce/internal/service"
)

type ProductHandler struct {
	inv *service.InventorySvc
}

func NewProductHandler(inv *service.InventorySvc) *ProductHandler {
	return &ProductHandler{inv: inv}
}

// POST /v1/products (ADMIN)
func (h *ProductHandler) Create(c *gin.Context) {
	var in struct {
		Name              string `json:"name" binding:"required"`
		UnitPrice         int64  `json:"unit_price"`
		Stock             int    `json:"stock"`
		LowStockThreshold int    `json:"low_stock_threshold"`
		IsAvailable       *bool  `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}
	p, err := h.inv.CreateProduct(c.Request.Context(), domain.Product{
		Name:              in.Name,
		UnitPrice:         in.UnitPrice,
		Stock:             in.Stock,
		LowStockThreshold: in.LowStockThreshold,
		IsAvailable:       available,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// GET /v1/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.inv.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /v1/products?page=1&page_size=20
func (h *ProductHandler) List(c *gin.Context) {
	page, size := pageParams(c)
	items, err := h.inv.Products(c.Request.Context(), page-1, size)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
