package categoryControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Tedorikk/warung-hmsi-2/models"
	"github.com/Tedorikk/warung-hmsi-2/pagination"
	"github.com/Tedorikk/warung-hmsi-2/util"
)

type CategoryInput struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type categoryRow struct {
	models.ProductCategory
	ProductsCount int64 `json:"products_count"`
}

// GET /product-categories (admin)
func ListCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := c.Query("search")
		f := db.Model(&models.ProductCategory{}).
			Select("product_categories.*, (SELECT COUNT(*) FROM products WHERE products.category_id = product_categories.id) AS products_count").
			Order("product_categories.created_at DESC")
		if search != "" {
			p := "%" + strings.ToLower(search) + "%"
			f = f.Where("LOWER(name) LIKE ? OR LOWER(slug) LIKE ?", p, p)
		}

		page, perPage := pagination.QueryParams(c)
		var categories []categoryRow
		meta, err := pagination.Paginate(f, page, perPage, &categories)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories, "meta": meta})
	}
}

// POST /product-categories (admin)
func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		slug := input.Slug
		if slug == "" {
			slug = util.Slugify(input.Name)
		}

		category := models.ProductCategory{
			Name:        input.Name,
			Slug:        slug,
			Description: input.Description,
		}
		if err := db.Create(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"slug": "slug already in use"}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

// PATCH /product-categories/:id (admin)
func UpdateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.ProductCategory
		if err := db.First(&category, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}

		var input CategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		category.Name = input.Name
		if input.Slug != "" {
			category.Slug = input.Slug
		}
		category.Description = input.Description

		if err := db.Save(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"slug": "slug already in use"}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// DELETE /product-categories/:id (admin)
//
// Deleting a category that still has products is allowed; the response
// carries a warning so the admin knows what was orphaned.
func DeleteCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.ProductCategory
		if err := db.First(&category, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}

		var productCount int64
		if err := db.Model(&models.Product{}).Where("category_id = ?", category.ID).Count(&productCount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check category products"})
			return
		}

		if err := db.Delete(&category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
			return
		}

		resp := gin.H{"message": "Category deleted successfully"}
		if productCount > 0 {
			resp["warning"] = fmt.Sprintf("category still had %d products", productCount)
		}
		c.JSON(http.StatusOK, resp)
	}
}
