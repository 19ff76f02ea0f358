package productControllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Tedorikk/warung-hmsi-2/models"
	"github.com/Tedorikk/warung-hmsi-2/pagination"
	"github.com/Tedorikk/warung-hmsi-2/storage"
	"github.com/Tedorikk/warung-hmsi-2/util"
)

// GET /products (admin): search by name, filter by category and active
// state, newest first.
func ListProducts(db *gorm.DB, store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Model(&models.Product{}).
			Preload("Category").
			Preload("Variants").
			Order("products.created_at DESC")

		if search := c.Query("search"); search != "" {
			q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
		}
		if categoryID := c.Query("category_id"); categoryID != "" {
			q = q.Where("category_id = ?", categoryID)
		}
		if isActive := c.Query("is_active"); isActive != "" {
			active, err := strconv.ParseBool(isActive)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid is_active"})
				return
			}
			q = q.Where("is_active = ?", active)
		}

		page, perPage := pagination.QueryParams(c)
		var products []models.Product
		meta, err := pagination.Paginate(q, page, perPage, &products)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		for i := range products {
			products[i].ImageURL = store.URL(products[i].Image)
		}
		c.JSON(http.StatusOK, gin.H{"products": products, "meta": meta})
	}
}

// GET /products/:id (admin)
func ShowProduct(db *gorm.DB, store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		err := db.Preload("Category").Preload("Variants").First(&product, c.Param("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			return
		}
		product.ImageURL = store.URL(product.Image)
		c.JSON(http.StatusOK, product)
	}
}

// productForm pulls the shared multipart fields for create/update.
// Variants arrive as a JSON array in the "variants" form field.
func productForm(c *gin.Context) (categoryID uint, name, slug, description string, isActive bool, variants []VariantInput, errs map[string]string) {
	errs = map[string]string{}

	name = c.PostForm("name")
	if strings.TrimSpace(name) == "" {
		errs["name"] = "name is required"
	}

	cid, err := strconv.ParseUint(c.PostForm("category_id"), 10, 64)
	if err != nil {
		errs["category_id"] = "category_id is required"
	}
	categoryID = uint(cid)

	slug = c.PostForm("slug")
	if slug == "" {
		slug = util.Slugify(name)
	}

	description = c.PostForm("description")

	isActive = true
	if v := c.PostForm("is_active"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			isActive = b
		} else {
			errs["is_active"] = "is_active must be a boolean"
		}
	}

	if raw := c.PostForm("variants"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &variants); err != nil {
			errs["variants"] = "variants must be a JSON array"
		} else {
			for k, v := range ValidateVariants(variants) {
				errs[k] = v
			}
		}
	}
	return
}

// POST /products (admin)
func CreateProduct(db *gorm.DB, store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID, name, slug, description, isActive, variants, errs := productForm(c)
		if len(errs) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
			return
		}

		var category models.ProductCategory
		if err := db.First(&category, categoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"category_id": "category does not exist"}})
			return
		}

		imagePath := ""
		if file, err := c.FormFile("image"); err == nil {
			imagePath, err = store.Save(file, "products")
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
				return
			}
		}

		product := models.Product{
			CategoryID:  categoryID,
			Name:        name,
			Slug:        slug,
			Description: description,
			IsActive:    isActive,
			Image:       imagePath,
		}
		for _, v := range variants {
			product.Variants = append(product.Variants, models.ProductVariant{
				Name:  v.Name,
				Price: v.Price,
				Stock: v.Stock,
			})
		}

		if err := db.Create(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"slug": "slug already in use"}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		product.ImageURL = store.URL(product.Image)
		c.JSON(http.StatusCreated, product)
	}
}

// PATCH /products/:id (admin)
//
// Variant reconciliation and the product row update share one
// transaction. A replaced image file is removed only after the new one
// is stored and the row committed.
func UpdateProduct(db *gorm.DB, store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.Preload("Variants").First(&product, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		categoryID, name, slug, description, isActive, variants, errs := productForm(c)
		if len(errs) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
			return
		}

		var category models.ProductCategory
		if err := db.First(&category, categoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"category_id": "category does not exist"}})
			return
		}

		oldImage := ""
		if file, err := c.FormFile("image"); err == nil {
			newPath, err := store.Save(file, "products")
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
				return
			}
			oldImage = product.Image
			product.Image = newPath
		}

		product.CategoryID = categoryID
		product.Name = name
		product.Slug = slug
		product.Description = description
		product.IsActive = isActive

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(&product).Error; err != nil {
				return err
			}
			return ReconcileVariants(tx, product.ID, variants)
		})
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"slug": "slug already in use"}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}

		// Old file goes last so a failed update never orphans the row.
		if oldImage != "" && oldImage != product.Image {
			_ = store.Remove(oldImage)
		}

		if err := db.Preload("Category").Preload("Variants").First(&product, product.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload product"})
			return
		}
		product.ImageURL = store.URL(product.Image)
		c.JSON(http.StatusOK, product)
	}
}

// DELETE /products/:id (admin)
func DeleteProduct(db *gorm.DB, store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductVariant{}).Error; err != nil {
				return err
			}
			return tx.Delete(&product).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}

		if product.Image != "" {
			_ = store.Remove(product.Image)
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
