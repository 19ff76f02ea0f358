package homeControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Tedorikk/warung-hmsi-2/models"
	"github.com/Tedorikk/warung-hmsi-2/storage"
)

type categoryWithProducts struct {
	models.ProductCategory
	ProductsCount int64            `json:"products_count"`
	Products      []models.Product `json:"products"`
}

// GET /: storefront landing payload. Featured picks are the four
// newest active products; each category carries up to eight of its
// active products.
func HomeHandler(db *gorm.DB, store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var featured []models.Product
		if err := db.
			Preload("Category").
			Preload("Variants").
			Where("is_active = ?", true).
			Order("created_at DESC").
			Limit(4).
			Find(&featured).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch featured products"})
			return
		}
		for i := range featured {
			featured[i].ImageURL = store.URL(featured[i].Image)
		}

		var categories []models.ProductCategory
		if err := db.Order("id").Find(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}

		byCategory := make([]categoryWithProducts, 0, len(categories))
		for _, cat := range categories {
			entry := categoryWithProducts{ProductCategory: cat}
			if err := db.Model(&models.Product{}).
				Where("category_id = ?", cat.ID).
				Count(&entry.ProductsCount).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count products"})
				return
			}
			if err := db.
				Preload("Variants").
				Where("category_id = ? AND is_active = ?", cat.ID, true).
				Order("created_at DESC").
				Limit(8).
				Find(&entry.Products).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch category products"})
				return
			}
			for i := range entry.Products {
				entry.Products[i].ImageURL = store.URL(entry.Products[i].Image)
			}
			byCategory = append(byCategory, entry)
		}

		c.JSON(http.StatusOK, gin.H{
			"featuredProducts":   featured,
			"productsByCategory": byCategory,
		})
	}
}
