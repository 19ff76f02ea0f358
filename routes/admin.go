package routes

import (
	"github.com/gin-gonic/gin"

	categoryControllers "github.com/Tedorikk/warung-hmsi-2/controllers/category"
	dashboardControllers "github.com/Tedorikk/warung-hmsi-2/controllers/dashboard"
	orderControllers "github.com/Tedorikk/warung-hmsi-2/controllers/order"
	productControllers "github.com/Tedorikk/warung-hmsi-2/controllers/product"
	"github.com/Tedorikk/warung-hmsi-2/middleware"
)

// SetupAdminRoutes registers the back-office endpoints, gated on the
// admin role.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	adminGroup := r.Group("/")
	adminGroup.Use(middleware.RequireUser(d.JWT), middleware.RequireAdmin())
	{
		adminGroup.GET("/dashboard", dashboardControllers.DashboardHandler(d.DB))

		orders := adminGroup.Group("/orders")
		{
			orders.GET("", orderControllers.ListAllOrdersHandler(d.DB))
			orders.GET("/export", orderControllers.ExportOrdersHandler(d.DB))
			orders.GET("/ws", orderControllers.OrderWebSocketHandler)
			orders.GET("/:id", orderControllers.ShowOrderHandler(d.DB))
			orders.PATCH("/:id", orderControllers.UpdateOrderHandler(d.DB))
		}

		categories := adminGroup.Group("/product-categories")
		{
			categories.GET("", categoryControllers.ListCategories(d.DB))
			categories.POST("", categoryControllers.CreateCategory(d.DB))
			categories.PATCH("/:id", categoryControllers.UpdateCategory(d.DB))
			categories.DELETE("/:id", categoryControllers.DeleteCategory(d.DB))
		}

		products := adminGroup.Group("/products")
		{
			products.GET("", productControllers.ListProducts(d.DB, d.Store))
			products.GET("/:id", productControllers.ShowProduct(d.DB, d.Store))
			products.POST("", productControllers.CreateProduct(d.DB, d.Store))
			products.PATCH("/:id", productControllers.UpdateProduct(d.DB, d.Store))
			products.DELETE("/:id", productControllers.DeleteProduct(d.DB, d.Store))
		}
	}
}
