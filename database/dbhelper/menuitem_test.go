package dbhelper

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickplate/quickplate/models"
)

func menuItemRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "restaurant_id", "name", "description", "price", "category",
		"is_vegetarian", "preparation_time", "is_available", "restaurant_name", "created_at",
	})
}

func TestListAvailableMenuItemsByRestaurant(t *testing.T) {
	mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE mi.`restaurant_id` = ? AND mi.`is_available` = TRUE")).
		WithArgs(int64(3)).
		WillReturnRows(menuItemRows().
			AddRow(11, 3, "Paneer Tikka", nil, "150.00", "starters", true, 20, true, "NomNom House", time.Now()))

	items, err := ListAvailableMenuItemsByRestaurant(3)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsAvailable)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("150.00")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMenuItemPriceAndAvailability(t *testing.T) {
	mock := setupMock(t)

	price := decimal.RequireFromString("175.00")
	available := false
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `MenuItems` SET `price` = ?, `is_available` = ? WHERE `id` = ?")).
		WithArgs(price, available, int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, UpdateMenuItem(11, models.MenuItemUpdate{Price: &price, IsAvailable: &available}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMenuItemInOrders(t *testing.T) {
	mock := setupMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `MenuItems` WHERE `id` = ?")).
		WithArgs(int64(11)).
		WillReturnError(&mysqlConstraintErr)

	assert.ErrorIs(t, DeleteMenuItem(11), models.ErrConstraint)
	require.NoError(t, mock.ExpectationsWereMet())
}
