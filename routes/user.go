package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/Tedorikk/warung-hmsi-2/controllers/cart"
	orderControllers "github.com/Tedorikk/warung-hmsi-2/controllers/order"
	"github.com/Tedorikk/warung-hmsi-2/middleware"
)

// SetupUserRoutes registers the authenticated shopper endpoints.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	userGroup := r.Group("/")
	userGroup.Use(middleware.RequireUser(d.JWT))
	{
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetCart(d.DB, d.Store))
			cartGroup.POST("", cartControllers.AddToCartHandler(d.DB))
			cartGroup.PATCH("/:id", cartControllers.UpdateCartItemHandler(d.DB))
			cartGroup.DELETE("/:id", cartControllers.RemoveCartItemHandler(d.DB))
			cartGroup.POST("/clear", cartControllers.ClearCartHandler(d.DB))
		}

		userGroup.POST("/checkout", orderControllers.CheckoutHandler(d.DB, d.Checkout))

		userGroup.GET("/history", orderControllers.ListMyOrdersHandler(d.DB))
		userGroup.GET("/history/:id", orderControllers.ShowMyOrderHandler(d.DB))
	}
}
