package orderControllers

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Tedorikk/warung-hmsi-2/middleware"
	"github.com/Tedorikk/warung-hmsi-2/models"
)

type CheckoutInput struct {
	ShippingAddress string `json:"shipping_address"`
	ShippingMethod  string `json:"shipping_method"`
	PaymentMethod   string `json:"payment_method"`
	Notes           string `json:"notes"`
}

// FieldErrors reports validation failures per field. No mutation has
// happened when one is returned.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

type CheckoutOptions struct {
	// AllowEmptyCart keeps the source behavior: an empty cart still
	// produces a zero-item, zero-total order.
	AllowEmptyCart bool
}

func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// Checkout turns the user's cart into an order. Order, order items and
// cart deletion run in one transaction: a failure partway leaves no
// order behind and the cart untouched.
func Checkout(db *gorm.DB, userID uint, in CheckoutInput, opts CheckoutOptions) (*models.Order, error) {
	fieldErrs := FieldErrors{}
	if strings.TrimSpace(in.ShippingAddress) == "" {
		fieldErrs["shipping_address"] = "shipping address is required"
	}
	if strings.TrimSpace(in.ShippingMethod) == "" {
		fieldErrs["shipping_method"] = "shipping method is required"
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		fieldErrs["payment_method"] = "payment method is required"
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	var cartItems []models.CartItem
	if err := db.
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("carts.user_id = ?", userID).
		Find(&cartItems).Error; err != nil {
		return nil, err
	}

	if len(cartItems) == 0 && !opts.AllowEmptyCart {
		return nil, FieldErrors{"cart": "cart is empty"}
	}

	var total float64
	orderItems := make([]models.OrderItem, 0, len(cartItems))
	for _, item := range cartItems {
		subtotal := item.Price * float64(item.Quantity)
		total += subtotal
		orderItems = append(orderItems, models.OrderItem{
			ProductVariantID: item.ProductVariantID,
			Quantity:         item.Quantity,
			Price:            item.Price, // cart snapshot, not re-read from the variant
			Subtotal:         subtotal,
		})
	}

	order := models.Order{
		UserID:          userID,
		Items:           orderItems,
		TotalAmount:     total,
		Status:          string(models.OrderStatusPending),
		PaymentStatus:   string(models.PaymentStatusPending),
		PaymentMethod:   in.PaymentMethod,
		ShippingAddress: in.ShippingAddress,
		ShippingMethod:  in.ShippingMethod,
		OrderRef:        generateOrderRef(),
		CreatedAt:       time.Now(),
	}
	if notes := strings.TrimSpace(in.Notes); notes != "" {
		order.Notes = &notes
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil // empty-cart checkout without a cart row
			}
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&cart).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// POST /checkout
func CheckoutHandler(db *gorm.DB, opts CheckoutOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input CheckoutInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		order, err := Checkout(db, userID, input, opts)
		if err != nil {
			var fieldErrs FieldErrors
			if errors.As(err, &fieldErrs) {
				c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
			return
		}

		broadcastNewOrder(db, order.ID)
		c.JSON(http.StatusCreated, gin.H{"message": "Checkout successful", "order": order})
	}
}
