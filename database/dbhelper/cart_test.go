package dbhelper

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickplate/quickplate/models"
)

func TestAddCartItemUpserts(t *testing.T) {
	mock := setupMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `Cart` (`customer_id`, `menu_item_id`, `quantity`) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE `quantity` = VALUES(`quantity`)")).
		WithArgs(int64(7), int64(11), 3).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, AddCartItem(7, 11, 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCartQuantityZeroRemovesLine(t *testing.T) {
	mock := setupMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `Cart` WHERE `customer_id` = ? AND `menu_item_id` = ?")).
		WithArgs(int64(7), int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, UpdateCartQuantity(7, 11, 0))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCartQuantityMissingLine(t *testing.T) {
	mock := setupMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE `Cart` SET `quantity` = ?")).
		WithArgs(2, int64(7), int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM `Cart`")).
		WithArgs(int64(7), int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := UpdateCartQuantity(7, 11, 2)
	assert.ErrorIs(t, err, models.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveCartItemMissing(t *testing.T) {
	mock := setupMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `Cart`")).
		WithArgs(int64(7), int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, RemoveCartItem(7, 11), models.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCartAnnotatesLines(t *testing.T) {
	mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM `Cart` c")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "customer_id", "menu_item_id", "quantity",
			"item_name", "price", "restaurant_id", "restaurant_name",
		}).AddRow(1, 7, 11, 2, "Paneer Tikka", "150.00", 3, "NomNom House"))

	lines, err := GetCart(7)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Paneer Tikka", lines[0].ItemName)
	assert.Equal(t, int64(3), lines[0].RestaurantID)
	assert.True(t, lines[0].Price.Equal(decimal.RequireFromString("150.00")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCartTotalEmptyCartIsZero(t *testing.T) {
	mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(c.`quantity` * mi.`price`), 0)")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("0"))

	total, err := CartTotal(7)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}
