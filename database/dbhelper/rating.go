package dbhelper

import (
	"github.com/pkg/errors"

	"github.com/quickplate/quickplate/database"
	"github.com/quickplate/quickplate/models"
)

// Ratings are keyed by (subject, customer): submitting again overwrites the
// stored rating and review, no history is kept.

func RateRestaurant(restaurantID, customerID int64, rating int, review *string) error {
	_, err := database.QuickPlate.Exec(
		"INSERT INTO `RestaurantRatings` (`restaurant_id`, `customer_id`, `rating`, `review`) VALUES (?, ?, ?, ?) "+
			"ON DUPLICATE KEY UPDATE `rating` = VALUES(`rating`), `review` = VALUES(`review`)",
		restaurantID, customerID, rating, review)
	if err != nil {
		if database.IsConstraintErr(err) {
			return errors.Wrap(models.ErrConstraint, "restaurant or customer does not exist")
		}
		return errors.Wrap(err, "failed to rate restaurant")
	}
	return nil
}

func RateMenuItem(menuItemID, customerID int64, rating int, review *string) error {
	_, err := database.QuickPlate.Exec(
		"INSERT INTO `ItemRatings` (`menu_item_id`, `customer_id`, `rating`, `review`) VALUES (?, ?, ?, ?) "+
			"ON DUPLICATE KEY UPDATE `rating` = VALUES(`rating`), `review` = VALUES(`review`)",
		menuItemID, customerID, rating, review)
	if err != nil {
		if database.IsConstraintErr(err) {
			return errors.Wrap(models.ErrConstraint, "menu item or customer does not exist")
		}
		return errors.Wrap(err, "failed to rate menu item")
	}
	return nil
}

// RestaurantAverageRating is the arithmetic mean over all stored ratings,
// 0 when there are none.
func RestaurantAverageRating(restaurantID int64) (float64, error) {
	var avg float64
	err := database.QuickPlate.QueryRow(
		"SELECT COALESCE(AVG(`rating`), 0) FROM `RestaurantRatings` WHERE `restaurant_id` = ?",
		restaurantID).Scan(&avg)
	return avg, errors.Wrap(err, "failed to average restaurant ratings")
}

func MenuItemAverageRating(menuItemID int64) (float64, error) {
	var avg float64
	err := database.QuickPlate.QueryRow(
		"SELECT COALESCE(AVG(`rating`), 0) FROM `ItemRatings` WHERE `menu_item_id` = ?",
		menuItemID).Scan(&avg)
	return avg, errors.Wrap(err, "failed to average menu item ratings")
}

func ListRestaurantRatings(restaurantID int64) ([]models.Rating, error) {
	return queryRatings(
		"SELECT rr.`id`, rr.`restaurant_id`, rr.`customer_id`, rr.`rating`, rr.`review`, rr.`created_at`, u.`username` AS customer_username "+
			"FROM `RestaurantRatings` rr LEFT JOIN `Users` u ON rr.`customer_id` = u.`id` "+
			"WHERE rr.`restaurant_id` = ? ORDER BY rr.`created_at` DESC",
		restaurantID)
}

func ListItemRatings(menuItemID int64) ([]models.Rating, error) {
	return queryRatings(
		"SELECT ir.`id`, ir.`menu_item_id`, ir.`customer_id`, ir.`rating`, ir.`review`, ir.`created_at`, u.`username` AS customer_username "+
			"FROM `ItemRatings` ir LEFT JOIN `Users` u ON ir.`customer_id` = u.`id` "+
			"WHERE ir.`menu_item_id` = ? ORDER BY ir.`created_at` DESC",
		menuItemID)
}

func queryRatings(query string, args ...interface{}) ([]models.Rating, error) {
	rows, err := database.QuickPlate.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query ratings")
	}
	defer rows.Close()

	var ratings []models.Rating
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.ID, &r.SubjectID, &r.CustomerID, &r.Rating, &r.Review, &r.CreatedAt, &r.CustomerUsername); err != nil {
			return nil, errors.Wrap(err, "failed to scan rating")
		}
		ratings = append(ratings, r)
	}
	return ratings, errors.Wrap(rows.Err(), "failed to iterate ratings")
}
