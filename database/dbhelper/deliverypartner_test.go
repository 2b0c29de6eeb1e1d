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

func partnerRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "vehicle_type", "vehicle_number", "license_number",
		"is_online", "rating", "total_deliveries", "current_latitude", "current_longitude", "created_at",
		"username", "phone",
	})
}

func TestCreateDeliveryPartnerSecondProfile(t *testing.T) {
	mock := setupMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `DeliveryPartners`")).
		WithArgs(int64(6), models.VehicleBike, "KA-01-1234", nil).
		WillReturnError(&mysqlDuplicateErr)

	_, err := CreateDeliveryPartner(6, models.VehicleBike, "KA-01-1234", nil)
	assert.ErrorIs(t, err, models.ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDeliveryPartnerByUserID(t *testing.T) {
	mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE dp.`user_id` = ?")).
		WithArgs(int64(6)).
		WillReturnRows(partnerRows().AddRow(
			5, 6, "bike", "KA-01-1234", nil,
			true, 4.8, 120, 12.9716, 77.5946, time.Now(),
			"speedy", "9999999999"))

	p, err := GetDeliveryPartnerByUserID(6)
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.ID)
	assert.True(t, p.IsOnline)
	assert.Equal(t, 120, p.TotalDeliveries)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetPartnerOnlineMissingProfile(t *testing.T) {
	mock := setupMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE `DeliveryPartners` SET `is_online` = ? WHERE `id` = ?")).
		WithArgs(true, int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM `DeliveryPartners` WHERE `id` = ?)")).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	assert.ErrorIs(t, SetPartnerOnline(404, true), models.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePartnerLocation(t *testing.T) {
	mock := setupMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE `DeliveryPartners` SET `current_latitude` = ?, `current_longitude` = ? WHERE `id` = ?")).
		WithArgs(12.9716, 77.5946, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, UpdatePartnerLocation(5, 12.9716, 77.5946))
	require.NoError(t, mock.ExpectationsWereMet())
}
