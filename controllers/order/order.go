package orderControllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Tedorikk/warung-hmsi-2/middleware"
	"github.com/Tedorikk/warung-hmsi-2/models"
	"github.com/Tedorikk/warung-hmsi-2/pagination"
)

// Filters is the shared filter shape for both "my orders" and the
// admin order list.
type Filters struct {
	Search        string
	Status        string
	PaymentStatus string
	Page          int
	PerPage       int
}

func FiltersFromQuery(c *gin.Context) Filters {
	f := Filters{
		Search:        c.Query("search"),
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
	}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "10"))
	return f
}

// ordersQuery builds the filtered order query. userID scopes the list
// to one user; adminSearch extends search to the owning user's name
// and email. The literal status "all" means no filter.
func ordersQuery(db *gorm.DB, userID *uint, f Filters, adminSearch bool) *gorm.DB {
	q := db.Model(&models.Order{}).Preload("User")

	if userID != nil {
		q = q.Where("orders.user_id = ?", *userID)
	}

	if f.Search != "" {
		p := "%" + strings.ToLower(f.Search) + "%"
		cond := db.
			Where("CAST(orders.id AS TEXT) LIKE ?", p).
			Or("LOWER(COALESCE(orders.transaction_id, '')) LIKE ?", p)
		if adminSearch {
			users := db.Model(&models.User{}).Select("id").
				Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", p, p)
			cond = cond.Or("orders.user_id IN (?)", users)
		}
		q = q.Where(cond)
	}

	if f.Status != "" && f.Status != "all" {
		q = q.Where("orders.status = ?", f.Status)
	}
	if f.PaymentStatus != "" && f.PaymentStatus != "all" {
		q = q.Where("orders.payment_status = ?", f.PaymentStatus)
	}

	return q.Order("orders.created_at DESC")
}

// ListOrders runs the filtered, paginated query. A stale page number
// falls back to page 1 via the pagination helper.
func ListOrders(db *gorm.DB, userID *uint, f Filters, adminSearch bool) ([]models.Order, pagination.Page, error) {
	var orders []models.Order
	page, err := pagination.Paginate(ordersQuery(db, userID, f, adminSearch), f.Page, f.PerPage, &orders)
	if err != nil {
		return nil, pagination.Page{}, err
	}
	return orders, page, nil
}

// UpdateOrder overwrites status, payment_status and notes on an
// existing order. Totals and items are never touched. Statuses are
// accepted as arbitrary non-empty strings.
func UpdateOrder(db *gorm.DB, orderID uint, status, paymentStatus string, notes *string) (*models.Order, error) {
	fieldErrs := FieldErrors{}
	if strings.TrimSpace(status) == "" {
		fieldErrs["status"] = "status is required"
	}
	if strings.TrimSpace(paymentStatus) == "" {
		fieldErrs["payment_status"] = "payment status is required"
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&order).Updates(map[string]interface{}{
		"status":         status,
		"payment_status": paymentStatus,
		"notes":          notes,
	}).Error; err != nil {
		return nil, err
	}

	order.Status = status
	order.PaymentStatus = paymentStatus
	order.Notes = notes
	return &order, nil
}

// -------- Handlers --------

// GET /history
func ListMyOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		f := FiltersFromQuery(c)
		orders, page, err := ListOrders(db, &userID, f, false)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders, "meta": page})
	}
}

// GET /history/:id
func ShowMyOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var order models.Order
		err := db.
			Preload("User").
			Preload("Items.ProductVariant.Product").
			Where("user_id = ?", userID).
			First(&order, c.Param("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /orders (admin)
func ListAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := FiltersFromQuery(c)
		orders, page, err := ListOrders(db, nil, f, true)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders, "meta": page})
	}
}

// GET /orders/:id (admin)
func ShowOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var order models.Order
		err := db.
			Preload("User").
			Preload("Items.ProductVariant.Product").
			First(&order, c.Param("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

type UpdateOrderInput struct {
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
	Notes         *string `json:"notes"`
}

// PATCH /orders/:id (admin)
func UpdateOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
			return
		}

		var input UpdateOrderInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		order, err := UpdateOrder(db, uint(orderID), input.Status, input.PaymentStatus, input.Notes)
		if err != nil {
			var fieldErrs FieldErrors
			switch {
			case errors.As(err, &fieldErrs):
				c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
			case errors.Is(err, gorm.ErrRecordNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order updated successfully", "order": order})
	}
}
