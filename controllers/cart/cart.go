package cartControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Tedorikk/warung-hmsi-2/middleware"
	"github.com/Tedorikk/warung-hmsi-2/models"
	"github.com/Tedorikk/warung-hmsi-2/storage"
)

var (
	ErrUnauthorized    = errors.New("cart item does not belong to this user")
	ErrVariantNotFound = errors.New("product variant does not exist")
	ErrItemNotFound    = errors.New("cart item not found")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

type AddItemInput struct {
	ProductVariantID uint `json:"product_variant_id" binding:"required"`
	Quantity         int  `json:"quantity" binding:"required,min=1"`
}

type UpdateItemInput struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// -------- Core Logic --------

// AddToCart finds-or-creates the user's cart and merges the variant
// into it: an existing line gets its quantity bumped with an atomic
// UPDATE, a new line captures the variant's current price.
func AddToCart(db *gorm.DB, userID, variantID uint, qty int) (*models.CartItem, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}

	var variant models.ProductVariant
	if err := db.First(&variant, variantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}

	var cart models.Cart
	if err := db.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error; err != nil {
		return nil, err
	}

	var item models.CartItem
	err := db.Where("cart_id = ? AND product_variant_id = ?", cart.ID, variant.ID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		item = models.CartItem{
			CartID:           cart.ID,
			ProductVariantID: variant.ID,
			Quantity:         qty,
			Price:            variant.Price, // snapshot, never refreshed
		}
		if err := db.Create(&item).Error; err != nil {
			return nil, err
		}
		return &item, nil
	}
	if err != nil {
		return nil, err
	}

	if err := db.Model(&item).Update("quantity", gorm.Expr("quantity + ?", qty)).Error; err != nil {
		return nil, err
	}
	if err := db.First(&item, item.ID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ownedItem loads a cart item and verifies the owning cart belongs to
// the user. The ownership failure is reported the same way whether or
// not the item exists for someone else.
func ownedItem(db *gorm.DB, userID, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	var cart models.Cart
	if err := db.First(&cart, item.CartID).Error; err != nil {
		return nil, err
	}
	if cart.UserID != userID {
		return nil, ErrUnauthorized
	}
	return &item, nil
}

// UpdateItemQuantity overwrites the quantity of an owned cart item.
// Stock is not consulted; it is informational only.
func UpdateItemQuantity(db *gorm.DB, userID, itemID uint, qty int) (*models.CartItem, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}
	item, err := ownedItem(db, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := db.Model(item).Update("quantity", qty).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem deletes an owned cart item.
func RemoveItem(db *gorm.DB, userID, itemID uint) error {
	item, err := ownedItem(db, userID, itemID)
	if err != nil {
		return err
	}
	return db.Delete(item).Error
}

// ClearCart deletes every item in the user's cart. No cart is a no-op.
func ClearCart(db *gorm.DB, userID uint) error {
	var cart models.Cart
	err := db.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
}

// -------- Handlers --------

// GET /cart
func GetCart(db *gorm.DB, store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var cart models.Cart
		err := db.Preload("Items.ProductVariant.Product").Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"items": []models.CartItem{}})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		for i := range cart.Items {
			if v := cart.Items[i].ProductVariant; v != nil && v.Product != nil {
				v.Product.ImageURL = store.URL(v.Product.Image)
			}
		}
		c.JSON(http.StatusOK, gin.H{"items": cart.Items})
	}
}

// POST /cart
func AddToCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := AddToCart(db, userID, input.ProductVariantID, input.Quantity)
		if err != nil {
			writeCartError(c, err, "Failed to add item to cart")
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// PATCH /cart/:id
func UpdateCartItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		itemID, ok := idParam(c)
		if !ok {
			return
		}

		var input UpdateItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := UpdateItemQuantity(db, userID, itemID, input.Quantity)
		if err != nil {
			writeCartError(c, err, "Failed to update cart item")
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /cart/:id
func RemoveCartItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		itemID, ok := idParam(c)
		if !ok {
			return
		}

		if err := RemoveItem(db, userID, itemID); err != nil {
			writeCartError(c, err, "Failed to delete cart item")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// POST /cart/clear
func ClearCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if err := ClearCart(db, userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

func writeCartError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"quantity": err.Error()}})
	case errors.Is(err, ErrVariantNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"product_variant_id": err.Error()}})
	case errors.Is(err, ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
	case errors.Is(err, ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
