package dbhelper

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickplate/quickplate/models"
)

func restaurantRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "address", "phone", "email", "cuisine_type", "opening_hours",
		"admin_id", "admin_username", "rating", "is_active", "created_at",
	})
}

func TestGetRestaurantComputesRating(t *testing.T) {
	mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(rr.`avg_rating`, 0) AS rating")).
		WithArgs(int64(3)).
		WillReturnRows(restaurantRows().AddRow(
			3, "NomNom House", "12 Curry Lane", nil, nil, "north indian", "9-21",
			5, "resto_admin", 4.2, true, time.Now()))

	r, err := GetRestaurantByID(3)
	require.NoError(t, err)
	assert.InDelta(t, 4.2, r.Rating, 0.0001)
	assert.Equal(t, "resto_admin", *r.AdminUsername)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRestaurantNotFound(t *testing.T) {
	mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM `Restaurants` r")).
		WithArgs(int64(404)).
		WillReturnRows(restaurantRows())

	_, err := GetRestaurantByID(404)
	assert.ErrorIs(t, err, models.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRestaurantBuildsPartialSet(t *testing.T) {
	mock := setupMock(t)

	name := "NomNom Palace"
	active := false
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `Restaurants` SET `name` = ?, `is_active` = ? WHERE `id` = ?")).
		WithArgs(name, active, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, UpdateRestaurant(3, models.RestaurantUpdate{Name: &name, IsActive: &active}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRestaurantWithOrders(t *testing.T) {
	mock := setupMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `Restaurants` WHERE `id` = ?")).
		WithArgs(int64(3)).
		WillReturnError(&mysqlConstraintErr)

	assert.ErrorIs(t, DeleteRestaurant(3), models.ErrConstraint)
	require.NoError(t, mock.ExpectationsWereMet())
}
