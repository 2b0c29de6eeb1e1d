package handlers_test

import (
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickplate/quickplate/models"
)

func restaurantAPIRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "address", "phone", "email", "cuisine_type", "opening_hours",
		"admin_id", "admin_username", "rating", "is_active", "created_at",
	})
}

func nomNomRow(adminID int64) *sqlmock.Rows {
	return restaurantAPIRows().AddRow(
		1, "NomNom House", "12 Curry Lane", nil, nil, "north indian", "9-21",
		adminID, "resto_admin", 4.2, true, time.Now())
}

func TestUpdateRestaurantRejectsForeignAdmin(t *testing.T) {
	mock, router := setupAPI(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM `Restaurants` r")).
		WithArgs(int64(1)).
		WillReturnRows(nomNomRow(7))

	rec := doJSON(t, router, http.MethodPut, "/api/restaurant/restaurants/1",
		map[string]string{"name": "hijacked"}, 999, models.RoleRestaurantAdmin)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRestaurantOwner(t *testing.T) {
	mock, router := setupAPI(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM `Restaurants` r")).
		WithArgs(int64(1)).
		WillReturnRows(nomNomRow(7))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `Restaurants` SET `name` = ? WHERE `id` = ?")).
		WithArgs("NomNom Palace", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := doJSON(t, router, http.MethodPut, "/api/restaurant/restaurants/1",
		map[string]string{"name": "NomNom Palace"}, 7, models.RoleRestaurantAdmin)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRestaurantReassignmentNeedsSystemAdmin(t *testing.T) {
	mock, router := setupAPI(t)

	rec := doJSON(t, router, http.MethodPut, "/api/restaurant/restaurants/1",
		map[string]interface{}{"admin_id": 999}, 999, models.RoleRestaurantAdmin)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRestaurantSystemAdminReassigns(t *testing.T) {
	mock, router := setupAPI(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE `Restaurants` SET `admin_id` = ? WHERE `id` = ?")).
		WithArgs(int64(12), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := doJSON(t, router, http.MethodPut, "/api/restaurant/restaurants/1",
		map[string]interface{}{"admin_id": 12}, 1, models.RoleSystemAdmin)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRestaurantRejectsForeignAdmin(t *testing.T) {
	mock, router := setupAPI(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM `Restaurants` r")).
		WithArgs(int64(1)).
		WillReturnRows(nomNomRow(7))

	rec := doJSON(t, router, http.MethodDelete, "/api/restaurant/restaurants/1",
		nil, 999, models.RoleRestaurantAdmin)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRestaurantOwner(t *testing.T) {
	mock, router := setupAPI(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM `Restaurants` r")).
		WithArgs(int64(1)).
		WillReturnRows(nomNomRow(7))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `Restaurants` WHERE `id` = ?")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := doJSON(t, router, http.MethodDelete, "/api/restaurant/restaurants/1",
		nil, 7, models.RoleRestaurantAdmin)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
