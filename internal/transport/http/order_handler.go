package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saarock/sopy-ecommerce/internal/domain"
	"github.com/saarock/sopy-ecommerce/internal/service"
)

type OrderHandler struct {
	orders *service.OrderSvc
}

func NewOrderHandler(orders *service.OrderSvc) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// POST /v1/orders
func (h *OrderHandler) Create(c *gin.Context) {
	var in struct {
		ProductID     string `json:"product_id" binding:"required"`
		Quantity      int    `json:"quantity" binding:"required"`
		PaymentMethod string `json:"payment_method" binding:"required"`
		CardToken     string `json:"card_token"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.orders.CreateBooking(c.Request.Context(), principalID(c), in.ProductID, in.Quantity, domain.PaymentMethod(in.PaymentMethod), in.CardToken)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GET /v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	b, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	// buyers may only see their own orders
	if v, _ := c.Get("role"); v != string(domain.RoleAdmin) && b.BuyerID != principalID(c) {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GET /v1/orders?page=1&page_size=20
func (h *OrderHandler) ListMine(c *gin.Context) {
	page, size := pageParams(c)
	items, total, err := h.orders.ListForBuyer(c.Request.Context(), principalID(c), page-1, size)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

// PUT /v1/orders/:id/status (ADMIN)
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	var in struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.orders.ChangeStatus(c.Request.Context(), c.Param("id"), domain.BookingStatus(in.Status), principalID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// POST /v1/orders/:id/cancel (owner, window-gated)
func (h *OrderHandler) CancelOwn(c *gin.Context) {
	b, err := h.orders.CancelByOwner(c.Request.Context(), c.Param("id"), principalID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
