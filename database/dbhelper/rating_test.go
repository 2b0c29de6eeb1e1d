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

func TestRateRestaurantOverwritesOnResubmit(t *testing.T) {
	mock := setupMock(t)

	review := "great thali"
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `RestaurantRatings` (`restaurant_id`, `customer_id`, `rating`, `review`) VALUES (?, ?, ?, ?) ON DUPLICATE KEY UPDATE `rating` = VALUES(`rating`), `review` = VALUES(`review`)")).
		WithArgs(int64(3), int64(7), 5, &review).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, RateRestaurant(3, 7, 5, &review))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRateMenuItemUnknownItem(t *testing.T) {
	mock := setupMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `ItemRatings`")).
		WithArgs(int64(404), int64(7), 4, nil).
		WillReturnError(&mysqlFKErr)

	assert.ErrorIs(t, RateMenuItem(404, 7, 4, nil), models.ErrConstraint)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRestaurantAverageRatingNoRatings(t *testing.T) {
	mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(AVG(`rating`), 0) FROM `RestaurantRatings`")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(0.0))

	avg, err := RestaurantAverageRating(3)
	require.NoError(t, err)
	assert.Zero(t, avg)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMenuItemAverageRating(t *testing.T) {
	mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(AVG(`rating`), 0) FROM `ItemRatings`")).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(4.5))

	avg, err := MenuItemAverageRating(11)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, avg, 0.0001)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListRestaurantRatings(t *testing.T) {
	mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM `RestaurantRatings` rr")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "restaurant_id", "customer_id", "rating", "review", "created_at", "customer_username"}).
			AddRow(1, 3, 7, 5, "great thali", time.Now(), "alice").
			AddRow(2, 3, 8, 3, nil, time.Now(), "bob"))

	ratings, err := ListRestaurantRatings(3)
	require.NoError(t, err)
	require.Len(t, ratings, 2)
	assert.Equal(t, "alice", *ratings[0].CustomerUsername)
	assert.Nil(t, ratings[1].Review)
	require.NoError(t, mock.ExpectationsWereMet())
}
