package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saarock/sopy-ecommerce/internal/domain"
	"github.com/saarock/sopy-ecommerce/internal/service"
)

type AuthHandler struct {
	auth *service.AuthSvc
}

func NewAuthHandler(auth *service.AuthSvc) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// POST /v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// self-registration is always a buyer; admins are provisioned out of band
	u, err := h.auth.Register(c.Request.Context(), in.Email, in.Password, in.Name, domain.RoleUser)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": u.ID, "email": u.Email, "role": u.Role})
}

// POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, token, err := h.auth.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "bad credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token, "user": gin.H{"id": u.ID, "email": u.Email, "role": u.Role}})
}
