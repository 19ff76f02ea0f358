package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Tedorikk/warung-hmsi-2/auth"
	homeControllers "github.com/Tedorikk/warung-hmsi-2/controllers/home"
)

// SetupAuthRoutes registers the public endpoints (no middleware).
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	r.GET("/", homeControllers.HomeHandler(d.DB, d.Store))

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", auth.RegisterHandler(d.DB))
		authGroup.POST("/login", auth.LoginHandler(d.DB, d.JWT))
	}
}
