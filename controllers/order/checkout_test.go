package orderControllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	cartControllers "github.com/Tedorikk/warung-hmsi-2/controllers/cart"
	"github.com/Tedorikk/warung-hmsi-2/models"
	"github.com/Tedorikk/warung-hmsi-2/testutil"
)

var validCheckout = CheckoutInput{
	ShippingAddress: "Jl. Sudirman 1",
	ShippingMethod:  "courier",
	PaymentMethod:   "transfer",
}

func seedCart(t *testing.T, db *gorm.DB, userID uint) (models.ProductVariant, models.ProductVariant) {
	t.Helper()
	v1 := testutil.SeedVariant(t, db, "coffee", 12.5, 20)
	v2 := testutil.SeedVariant(t, db, "tea", 8.0, 20)
	_, err := cartControllers.AddToCart(db, userID, v1.ID, 2)
	require.NoError(t, err)
	_, err = cartControllers.AddToCart(db, userID, v2.ID, 3)
	require.NoError(t, err)
	return v1, v2
}

func TestCheckoutTotalsAndItems(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "alice", "alice@example.com")
	seedCart(t, db, user.ID)

	order, err := Checkout(db, user.ID, validCheckout, CheckoutOptions{AllowEmptyCart: true})
	require.NoError(t, err)

	assert.Equal(t, 12.5*2+8.0*3, order.TotalAmount)
	assert.Equal(t, string(models.OrderStatusPending), order.Status)
	assert.Equal(t, string(models.PaymentStatusPending), order.PaymentStatus)
	assert.NotEmpty(t, order.OrderRef)

	var items []models.OrderItem
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&items).Error)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, item.Price*float64(item.Quantity), item.Subtotal)
	}

	// The cart is gone after a successful checkout.
	var cartCount, itemCount int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&cartCount).Error)
	require.NoError(t, db.Model(&models.CartItem{}).Count(&itemCount).Error)
	assert.EqualValues(t, 0, cartCount)
	assert.EqualValues(t, 0, itemCount)
}

func TestCheckoutUsesSnapshotPrices(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "alice", "alice@example.com")
	v1, _ := seedCart(t, db, user.ID)

	// A later price change must not leak into the order.
	require.NoError(t, db.Model(&models.ProductVariant{}).
		Where("id = ?", v1.ID).Update("price", 999.0).Error)

	order, err := Checkout(db, user.ID, validCheckout, CheckoutOptions{AllowEmptyCart: true})
	require.NoError(t, err)
	assert.Equal(t, 12.5*2+8.0*3, order.TotalAmount)
}

func TestCheckoutValidation(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "alice", "alice@example.com")
	seedCart(t, db, user.ID)

	_, err := Checkout(db, user.ID, CheckoutInput{}, CheckoutOptions{AllowEmptyCart: true})
	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "shipping_address")
	assert.Contains(t, fieldErrs, "shipping_method")
	assert.Contains(t, fieldErrs, "payment_method")

	// Nothing was written and the cart is untouched.
	var orders, items int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.CartItem{}).Count(&items).Error)
	assert.EqualValues(t, 0, orders)
	assert.EqualValues(t, 2, items)
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "alice", "alice@example.com")

	// Source behavior: a zero-item, zero-total order.
	order, err := Checkout(db, user.ID, validCheckout, CheckoutOptions{AllowEmptyCart: true})
	require.NoError(t, err)
	assert.Equal(t, 0.0, order.TotalAmount)
	assert.Empty(t, order.Items)

	// Hardened configuration rejects it with a field error.
	_, err = Checkout(db, user.ID, validCheckout, CheckoutOptions{AllowEmptyCart: false})
	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "cart")
}

func TestCheckoutRollsBackOnFailure(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "alice", "alice@example.com")
	seedCart(t, db, user.ID)

	// Force the order item insert to fail mid-transaction.
	require.NoError(t, db.Migrator().DropTable(&models.OrderItem{}))

	_, err := Checkout(db, user.ID, validCheckout, CheckoutOptions{AllowEmptyCart: true})
	require.Error(t, err)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.EqualValues(t, 0, orders, "no orphan order may survive the rollback")

	var items int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&items).Error)
	assert.EqualValues(t, 2, items, "the cart must remain intact")
}
