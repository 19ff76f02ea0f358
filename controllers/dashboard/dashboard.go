package dashboardControllers

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Tedorikk/warung-hmsi-2/models"
)

const lowStockThreshold = 10

type SalesStats struct {
	Total   float64 `json:"total"`
	Monthly float64 `json:"monthly"`
	Growth  float64 `json:"growth"`
}

type OrderStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
}

type ProductStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
	LowStock int64 `json:"lowStock"`
}

type UserStats struct {
	Total int64 `json:"total"`
	New   int64 `json:"new"`
}

type CategoryCount struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	ProductsCount int64  `json:"products_count"`
}

type SalesSeries struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

type TopProduct struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Image         string  `json:"image"`
	TotalQuantity int64   `json:"total_quantity"`
	TotalSales    float64 `json:"total_sales"`
}

type Analytics struct {
	Sales              SalesStats      `json:"sales"`
	Orders             OrderStats      `json:"orders"`
	Products           ProductStats    `json:"products"`
	Users              UserStats       `json:"users"`
	Categories         []CategoryCount `json:"categories"`
	SalesOverTime      SalesSeries     `json:"salesOverTime"`
	TopSellingProducts []TopProduct    `json:"topSellingProducts"`
	RecentOrders       []models.Order  `json:"recentOrders"`
}

// monthRange returns the half-open window [first of month, first of
// next month) around t.
func monthRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

// completedSales sums total_amount over completed, paid orders.
func completedSales(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Order{}).
		Where("status = ? AND payment_status = ?",
			string(models.OrderStatusCompleted), string(models.PaymentStatusPaid))
}

func sumTotal(q *gorm.DB) (float64, error) {
	var total float64
	err := q.Select("COALESCE(SUM(total_amount), 0)").Row().Scan(&total)
	return total, err
}

// Build computes the dashboard view model from current data. Pure
// read; everything is recomputed on each call. now anchors the
// calendar-month windows.
func Build(db *gorm.DB, now time.Time) (*Analytics, error) {
	a := &Analytics{}

	monthStart, monthEnd := monthRange(now)
	lastStart, lastEnd := monthRange(monthStart.AddDate(0, -1, 0))

	// Sales
	var err error
	if a.Sales.Total, err = sumTotal(completedSales(db)); err != nil {
		return nil, err
	}
	if a.Sales.Monthly, err = sumTotal(completedSales(db).
		Where("created_at >= ? AND created_at < ?", monthStart, monthEnd)); err != nil {
		return nil, err
	}
	lastMonth, err := sumTotal(completedSales(db).
		Where("created_at >= ? AND created_at < ?", lastStart, lastEnd))
	if err != nil {
		return nil, err
	}
	a.Sales.Growth = growthPercent(a.Sales.Monthly, lastMonth)

	// Orders
	orderCount := func(status models.OrderStatus, dest *int64) error {
		return db.Model(&models.Order{}).Where("status = ?", string(status)).Count(dest).Error
	}
	if err := db.Model(&models.Order{}).Count(&a.Orders.Total).Error; err != nil {
		return nil, err
	}
	if err := orderCount(models.OrderStatusPending, &a.Orders.Pending); err != nil {
		return nil, err
	}
	if err := orderCount(models.OrderStatusCompleted, &a.Orders.Completed); err != nil {
		return nil, err
	}
	if err := orderCount(models.OrderStatusCancelled, &a.Orders.Cancelled); err != nil {
		return nil, err
	}

	// Products
	if err := db.Model(&models.Product{}).Count(&a.Products.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Product{}).Where("is_active = ?", true).Count(&a.Products.Active).Error; err != nil {
		return nil, err
	}
	a.Products.Inactive = a.Products.Total - a.Products.Active
	lowStock := db.Model(&models.ProductVariant{}).
		Select("product_id").Where("stock < ?", lowStockThreshold)
	if err := db.Model(&models.Product{}).Where("id IN (?)", lowStock).Count(&a.Products.LowStock).Error; err != nil {
		return nil, err
	}

	// Users
	if err := db.Model(&models.User{}).Count(&a.Users.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", monthStart, monthEnd).
		Count(&a.Users.New).Error; err != nil {
		return nil, err
	}

	// Categories with product counts
	if err := db.Table("product_categories").
		Select("product_categories.id, product_categories.name, product_categories.slug, COUNT(products.id) AS products_count").
		Joins("LEFT JOIN products ON products.category_id = product_categories.id").
		Group("product_categories.id, product_categories.name, product_categories.slug").
		Order("product_categories.id").
		Scan(&a.Categories).Error; err != nil {
		return nil, err
	}

	if a.SalesOverTime, err = salesOverTime(db, now); err != nil {
		return nil, err
	}
	if a.TopSellingProducts, err = topSellingProducts(db); err != nil {
		return nil, err
	}

	// Recent orders
	if err := db.
		Preload("User").
		Preload("Items.ProductVariant.Product").
		Order("created_at DESC").
		Limit(5).
		Find(&a.RecentOrders).Error; err != nil {
		return nil, err
	}

	return a, nil
}

// growthPercent is fixed at exactly 100 when the previous month had no
// sales; the source app defines it that way rather than leaving it
// undefined.
func growthPercent(monthly, lastMonth float64) float64 {
	if lastMonth <= 0 {
		return 100
	}
	g := (monthly - lastMonth) / lastMonth * 100
	return math.Round(g*100) / 100
}

// salesOverTime returns the trailing six calendar months, oldest
// first, the current month last. Months without sales are zero-filled
// so there are always exactly six points.
func salesOverTime(db *gorm.DB, now time.Time) (SalesSeries, error) {
	series := SalesSeries{
		Labels: make([]string, 0, 6),
		Data:   make([]float64, 0, 6),
	}
	// Anchor on the first of the month so subtracting months never
	// normalizes across a short month.
	base := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := 5; i >= 0; i-- {
		month := base.AddDate(0, -i, 0)
		start, end := monthRange(month)

		total, err := sumTotal(completedSales(db).
			Where("created_at >= ? AND created_at < ?", start, end))
		if err != nil {
			return SalesSeries{}, err
		}
		series.Labels = append(series.Labels, month.Format("Jan"))
		series.Data = append(series.Data, total)
	}
	return series, nil
}

// topSellingProducts groups completed-order items by product, summing
// quantity and subtotal. Ties on quantity break by product id
// ascending so the result is deterministic.
func topSellingProducts(db *gorm.DB) ([]TopProduct, error) {
	var top []TopProduct
	err := db.Table("order_items").
		Select("products.id AS id, products.name AS name, products.image AS image, "+
			"SUM(order_items.quantity) AS total_quantity, SUM(order_items.subtotal) AS total_sales").
		Joins("JOIN product_variants ON order_items.product_variant_id = product_variants.id").
		Joins("JOIN products ON product_variants.product_id = products.id").
		Joins("JOIN orders ON order_items.order_id = orders.id").
		Where("orders.status = ?", string(models.OrderStatusCompleted)).
		Group("products.id, products.name, products.image").
		Order("total_quantity DESC, products.id ASC").
		Limit(5).
		Scan(&top).Error
	return top, err
}

// GET /dashboard (admin)
func DashboardHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		analytics, err := Build(db, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"analytics": analytics})
	}
}
