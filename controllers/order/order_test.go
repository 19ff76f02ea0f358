package orderControllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Tedorikk/warung-hmsi-2/models"
	"github.com/Tedorikk/warung-hmsi-2/testutil"
)

func seedOrder(t *testing.T, db *gorm.DB, userID uint, status, paymentStatus string, createdAt time.Time, txnID string) models.Order {
	t.Helper()
	order := models.Order{
		UserID:        userID,
		TotalAmount:   100,
		Status:        status,
		PaymentStatus: paymentStatus,
		PaymentMethod: "transfer",
		OrderRef:      generateOrderRef(),
		CreatedAt:     createdAt,
	}
	if txnID != "" {
		order.TransactionID = &txnID
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestListOrdersStatusAllMeansNoFilter(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "alice", "alice@example.com")
	now := time.Now()
	seedOrder(t, db, user.ID, "pending", "pending", now, "")
	seedOrder(t, db, user.ID, "completed", "paid", now.Add(-time.Hour), "")
	seedOrder(t, db, user.ID, "cancelled", "refunded", now.Add(-2*time.Hour), "")

	all, _, err := ListOrders(db, &user.ID, Filters{Status: "all"}, false)
	require.NoError(t, err)
	unfiltered, _, err := ListOrders(db, &user.ID, Filters{}, false)
	require.NoError(t, err)
	assert.Len(t, all, len(unfiltered))
	assert.Len(t, all, 3)

	pending, _, err := ListOrders(db, &user.ID, Filters{Status: "pending"}, false)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestListOrdersNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "alice", "alice@example.com")
	now := time.Now()
	old := seedOrder(t, db, user.ID, "pending", "pending", now.Add(-time.Hour), "")
	newest := seedOrder(t, db, user.ID, "pending", "pending", now, "")

	orders, _, err := ListOrders(db, &user.ID, Filters{}, false)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newest.ID, orders[0].ID)
	assert.Equal(t, old.ID, orders[1].ID)
}

func TestListOrdersStalePageFallsBackToFirst(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "alice", "alice@example.com")
	now := time.Now()
	for i := 0; i < 3; i++ {
		seedOrder(t, db, user.ID, "pending", "pending", now.Add(-time.Duration(i)*time.Hour), "")
	}

	orders, page, err := ListOrders(db, &user.ID, Filters{Page: 5, PerPage: 2}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Len(t, orders, 2)

	firstPage, _, err := ListOrders(db, &user.ID, Filters{Page: 1, PerPage: 2}, false)
	require.NoError(t, err)
	assert.Equal(t, firstPage[0].ID, orders[0].ID)
}

func TestListOrdersScopedToUser(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.SeedUser(t, db, "alice", "alice@example.com")
	bob := testutil.SeedUser(t, db, "bob", "bob@example.com")
	now := time.Now()
	seedOrder(t, db, alice.ID, "pending", "pending", now, "")
	seedOrder(t, db, bob.ID, "pending", "pending", now, "")

	mine, _, err := ListOrders(db, &alice.ID, Filters{}, false)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, alice.ID, mine[0].UserID)

	everyone, _, err := ListOrders(db, nil, Filters{}, true)
	require.NoError(t, err)
	assert.Len(t, everyone, 2)
}

func TestListOrdersSearch(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.SeedUser(t, db, "alice", "alice@example.com")
	bob := testutil.SeedUser(t, db, "bob", "bob@wonder.land")
	now := time.Now()
	seedOrder(t, db, alice.ID, "pending", "pending", now, "TXN-ABC-123")
	seedOrder(t, db, bob.ID, "pending", "pending", now, "TXN-XYZ-999")

	byTxn, _, err := ListOrders(db, nil, Filters{Search: "abc"}, true)
	require.NoError(t, err)
	require.Len(t, byTxn, 1)
	assert.Equal(t, alice.ID, byTxn[0].UserID)

	// Admin search also matches the owning user's name/email.
	byEmail, _, err := ListOrders(db, nil, Filters{Search: "wonder.land"}, true)
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, bob.ID, byEmail[0].UserID)

	// The user-scoped view does not search user fields.
	none, _, err := ListOrders(db, &alice.ID, Filters{Search: "wonder.land"}, false)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateOrderOverwritesStatusFieldsOnly(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "alice", "alice@example.com")
	order := seedOrder(t, db, user.ID, "pending", "pending", time.Now(), "")

	notes := "leave at the door"
	updated, err := UpdateOrder(db, order.ID, "shipped", "paid", &notes)
	require.NoError(t, err)
	assert.Equal(t, "shipped", updated.Status)
	assert.Equal(t, "paid", updated.PaymentStatus)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, notes, *updated.Notes)

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, order.TotalAmount, stored.TotalAmount)
	assert.Equal(t, order.OrderRef, stored.OrderRef)
}

func TestUpdateOrderValidation(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "alice", "alice@example.com")
	order := seedOrder(t, db, user.ID, "pending", "pending", time.Now(), "")

	_, err := UpdateOrder(db, order.ID, "", "", nil)
	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "status")
	assert.Contains(t, fieldErrs, "payment_status")

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, "pending", stored.Status)

	_, err = UpdateOrder(db, order.ID+999, "shipped", "paid", nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
