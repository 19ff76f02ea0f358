package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Tedorikk/warung-hmsi-2/auth"
	"github.com/Tedorikk/warung-hmsi-2/config"
	orderControllers "github.com/Tedorikk/warung-hmsi-2/controllers/order"
	"github.com/Tedorikk/warung-hmsi-2/models"
	"github.com/Tedorikk/warung-hmsi-2/routes"
	"github.com/Tedorikk/warung-hmsi-2/storage"
)

func main() {
	log.Println("Starting application...")

	_ = godotenv.Load()
	cfg := config.Load()

	db := initDatabase(cfg)

	if err := db.AutoMigrate(
		&models.User{},
		&models.ProductCategory{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	store := storage.New(cfg.UploadDir, cfg.PublicPath)
	r.Static(cfg.PublicPath, cfg.UploadDir)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer,
		time.Duration(cfg.AccessTTLHours)*time.Hour)

	routes.SetupRoutes(r, routes.Deps{
		DB:       db,
		JWT:      jwtManager,
		Store:    store,
		Checkout: orderControllers.CheckoutOptions{AllowEmptyCart: cfg.CheckoutAllowEmpty},
	})

	log.Printf("Server running on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection.
func initDatabase(cfg config.Config) *gorm.DB {
	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect DB: %v", err)
	}
	return db
}
