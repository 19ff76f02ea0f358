package dashboardControllers

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Tedorikk/warung-hmsi-2/models"
	"github.com/Tedorikk/warung-hmsi-2/testutil"
)

var orderRefSeq int64

func seedPaidOrder(t *testing.T, db *gorm.DB, userID uint, amount float64, createdAt time.Time) models.Order {
	t.Helper()
	return seedOrderWith(t, db, userID, amount, "completed", "paid", createdAt)
}

func seedOrderWith(t *testing.T, db *gorm.DB, userID uint, amount float64, status, paymentStatus string, createdAt time.Time) models.Order {
	t.Helper()
	order := models.Order{
		UserID:        userID,
		TotalAmount:   amount,
		Status:        status,
		PaymentStatus: paymentStatus,
		OrderRef:      fmt.Sprintf("ref-%d-%d", userID, atomic.AddInt64(&orderRefSeq, 1)),
		CreatedAt:     createdAt,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestGrowthPercent(t *testing.T) {
	// Zero last-month sales pin growth at exactly 100.
	assert.Equal(t, 100.0, growthPercent(500, 0))
	assert.Equal(t, 100.0, growthPercent(0, 0))

	assert.Equal(t, 50.0, growthPercent(150, 100))
	assert.Equal(t, -25.0, growthPercent(75, 100))
	assert.Equal(t, 33.33, growthPercent(400, 300))
}

func TestSalesTotalsCountOnlyCompletedPaid(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "alice", "alice@example.com")
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

	seedPaidOrder(t, db, user.ID, 100, now)
	seedOrderWith(t, db, user.ID, 40, "completed", "pending", now) // unpaid
	seedOrderWith(t, db, user.ID, 60, "pending", "paid", now)     // not completed
	seedPaidOrder(t, db, user.ID, 30, now.AddDate(0, -1, 0))      // last month

	a, err := Build(db, now)
	require.NoError(t, err)

	assert.Equal(t, 130.0, a.Sales.Total)
	assert.Equal(t, 100.0, a.Sales.Monthly)
	// (100-30)/30*100 rounded to 2 decimals.
	assert.Equal(t, 233.33, a.Sales.Growth)

	assert.EqualValues(t, 4, a.Orders.Total)
	assert.EqualValues(t, 1, a.Orders.Pending)
	assert.EqualValues(t, 2, a.Orders.Completed)
	assert.EqualValues(t, 0, a.Orders.Cancelled)
}

func TestGrowthIsExactly100WithNoLastMonthSales(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "alice", "alice@example.com")
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	seedPaidOrder(t, db, user.ID, 500, now)

	a, err := Build(db, now)
	require.NoError(t, err)
	assert.Equal(t, 100.0, a.Sales.Growth)
}

func TestSalesOverTimeAlwaysSixZeroFilledPoints(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "alice", "alice@example.com")
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

	seedPaidOrder(t, db, user.ID, 100, now)                  // Jun
	seedPaidOrder(t, db, user.ID, 50, now.AddDate(0, -3, 0)) // Mar

	series, err := salesOverTime(db, now)
	require.NoError(t, err)

	assert.Equal(t, []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}, series.Labels)
	assert.Equal(t, []float64{0, 0, 50, 0, 0, 100}, series.Data)
}

func TestTopSellingProductsOrderAndTieBreak(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "alice", "alice@example.com")
	now := time.Now()

	variants := make([]models.ProductVariant, 0, 7)
	for i := 0; i < 7; i++ {
		variants = append(variants, testutil.SeedVariant(t, db, fmt.Sprintf("product-%d", i), 10, 50))
	}

	completed := seedOrderWith(t, db, user.ID, 0, "completed", "paid", now)
	pending := seedOrderWith(t, db, user.ID, 0, "pending", "pending", now)

	addItem := func(orderID uint, v models.ProductVariant, qty int) {
		item := models.OrderItem{
			OrderID:          orderID,
			ProductVariantID: v.ID,
			Quantity:         qty,
			Price:            v.Price,
			Subtotal:         v.Price * float64(qty),
		}
		require.NoError(t, db.Create(&item).Error)
	}

	// products 0 and 1 tie on quantity; 2..6 trail behind.
	addItem(completed.ID, variants[0], 5)
	addItem(completed.ID, variants[1], 5)
	for i := 2; i < 7; i++ {
		addItem(completed.ID, variants[i], 7-i)
	}
	// Items on a non-completed order must not count.
	addItem(pending.ID, variants[6], 100)

	top, err := topSellingProducts(db)
	require.NoError(t, err)
	require.Len(t, top, 5, "top list is capped at five entries")

	assert.EqualValues(t, 5, top[0].TotalQuantity)
	assert.EqualValues(t, 5, top[1].TotalQuantity)
	assert.Less(t, top[0].ID, top[1].ID, "ties break by product id ascending")
	assert.Equal(t, 50.0, top[0].TotalSales)

	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].TotalQuantity, top[i].TotalQuantity)
	}
}

func TestProductAndUserCounts(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

	newUser := testutil.SeedUser(t, db, "alice", "alice@example.com")
	oldUser := testutil.SeedUser(t, db, "bob", "bob@example.com")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", newUser.ID).
		Update("created_at", now).Error)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", oldUser.ID).
		Update("created_at", now.AddDate(0, -2, 0)).Error)

	lowStock := testutil.SeedVariant(t, db, "scarce", 10, 3)
	testutil.SeedVariant(t, db, "plenty", 10, 100)
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", lowStock.ProductID).Update("is_active", false).Error)

	a, err := Build(db, now)
	require.NoError(t, err)

	assert.EqualValues(t, 2, a.Products.Total)
	assert.EqualValues(t, 1, a.Products.Active)
	assert.EqualValues(t, 1, a.Products.Inactive)
	assert.EqualValues(t, 1, a.Products.LowStock)

	assert.EqualValues(t, 2, a.Users.Total)
	assert.EqualValues(t, 1, a.Users.New)

	require.Len(t, a.Categories, 2)
	assert.EqualValues(t, 1, a.Categories[0].ProductsCount)
}

func TestRecentOrdersCappedAtFive(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "alice", "alice@example.com")
	now := time.Now()
	for i := 0; i < 7; i++ {
		seedPaidOrder(t, db, user.ID, float64(i), now.Add(-time.Duration(i)*time.Hour))
	}

	a, err := Build(db, now)
	require.NoError(t, err)
	require.Len(t, a.RecentOrders, 5)
	assert.Equal(t, 0.0, a.RecentOrders[0].TotalAmount, "newest order first")
}
