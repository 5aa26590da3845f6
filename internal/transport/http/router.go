package http

import (
	"github.com/gin-gonic/gin"

	"github.com/saarock/sopy-ecommerce/internal/domain"
	"github.com/saarock/sopy-ecommerce/internal/service"
	"github.com/saarock/sopy-ecommerce/pkg/auth"
)

type Services struct {
	Auth      *service.AuthSvc
	Inventory *service.InventorySvc
	Orders    *service.OrderSvc
	Notes     *service.NotificationSvc
	Registry  service.SessionRegistry
	Tokens    *auth.Tokens
}

func NewRouter(s Services) *gin.Engine {
	r := gin.Default()

	ah := NewAuthHandler(s.Auth)
	ph := NewProductHandler(s.Inventory)
	oh := NewOrderHandler(s.Orders)
	nh := NewNotificationHandler(s.Notes)
	rh := NewRealtimeHandler(s.Registry)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/register", ah.Register)
		v1.POST("/auth/login", ah.Login)

		v1.GET("/products", ph.List)
		v1.GET("/products/:id", ph.Get)
		v1.POST("/products", JWTAuth(s.Tokens), RequireRole(string(domain.RoleAdmin)), ph.Create)

		secured := v1.Group("")
		secured.Use(JWTAuth(s.Tokens))
		{
			secured.POST("/orders", oh.Create)
			secured.GET("/orders", oh.ListMine)
			secured.GET("/orders/:id", oh.Get)
			secured.POST("/orders/:id/cancel", oh.CancelOwn)

			admin := secured.Group("")
			admin.Use(RequireRole(string(domain.RoleAdmin)))
			admin.PUT("/orders/:id/status", oh.ChangeStatus)

			secured.GET("/notifications", nh.List)
			secured.PUT("/notifications/:id/read", nh.MarkRead)

			secured.POST("/realtime/connect", rh.Connect)
			secured.POST("/realtime/disconnect", rh.Disconnect)
		}
	}
	return r
}
