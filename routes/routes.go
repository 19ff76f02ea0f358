package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Tedorikk/warung-hmsi-2/auth"
	orderControllers "github.com/Tedorikk/warung-hmsi-2/controllers/order"
	"github.com/Tedorikk/warung-hmsi-2/storage"
)

// Deps carries the shared collaborators handlers close over.
type Deps struct {
	DB       *gorm.DB
	JWT      *auth.JWTManager
	Store    *storage.Store
	Checkout orderControllers.CheckoutOptions
}

// SetupRoutes wires up the public, user and admin route groups.
func SetupRoutes(r *gin.Engine, d Deps) {
	SetupAuthRoutes(r, d)
	SetupUserRoutes(r, d)
	SetupAdminRoutes(r, d)
}
