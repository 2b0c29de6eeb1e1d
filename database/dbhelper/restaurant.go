package dbhelper

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/quickplate/quickplate/database"
	"github.com/quickplate/quickplate/models"
)

// Restaurant reads join in the admin's username for display and compute the
// rating from RestaurantRatings at read time; the stored rating column is
// never treated as authoritative.
const restaurantSelect = "SELECT r.`id`, r.`name`, r.`address`, r.`phone`, r.`email`, r.`cuisine_type`, r.`opening_hours`, " +
	"r.`admin_id`, a.`username` AS admin_username, COALESCE(rr.`avg_rating`, 0) AS rating, r.`is_active`, r.`created_at` " +
	"FROM `Restaurants` r " +
	"LEFT JOIN `Users` a ON r.`admin_id` = a.`id` " +
	"LEFT JOIN (SELECT `restaurant_id`, AVG(`rating`) AS avg_rating FROM `RestaurantRatings` GROUP BY `restaurant_id`) rr ON rr.`restaurant_id` = r.`id`"

func scanRestaurant(row interface{ Scan(...interface{}) error }) (models.Restaurant, error) {
	var r models.Restaurant
	err := row.Scan(&r.ID, &r.Name, &r.Address, &r.Phone, &r.Email, &r.CuisineType, &r.OpeningHours,
		&r.AdminID, &r.AdminUsername, &r.Rating, &r.IsActive, &r.CreatedAt)
	return r, err
}

func CreateRestaurant(name string, address, phone, email, cuisineType, openingHours *string, adminID *int64) (int64, error) {
	res, err := database.QuickPlate.Exec(
		"INSERT INTO `Restaurants` (`name`, `address`, `phone`, `email`, `cuisine_type`, `opening_hours`, `admin_id`) VALUES (?, ?, ?, ?, ?, ?, ?)",
		name, address, phone, email, cuisineType, openingHours, adminID)
	if err != nil {
		if database.IsConstraintErr(err) {
			return 0, errors.Wrap(models.ErrConstraint, "admin does not exist")
		}
		return 0, errors.Wrap(err, "failed to create restaurant")
	}
	id, err := res.LastInsertId()
	return id, errors.Wrap(err, "failed to read new restaurant id")
}

func ListRestaurants() ([]models.Restaurant, error) {
	return queryRestaurants(restaurantSelect + " ORDER BY r.`id`")
}

func ListRestaurantsByAdmin(adminID int64) ([]models.Restaurant, error) {
	return queryRestaurants(restaurantSelect+" WHERE r.`admin_id` = ? ORDER BY r.`id`", adminID)
}

func queryRestaurants(query string, args ...interface{}) ([]models.Restaurant, error) {
	rows, err := database.QuickPlate.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query restaurants")
	}
	defer rows.Close()

	var restaurants []models.Restaurant
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan restaurant")
		}
		restaurants = append(restaurants, r)
	}
	return restaurants, errors.Wrap(rows.Err(), "failed to iterate restaurants")
}

func GetRestaurantByID(id int64) (models.Restaurant, error) {
	r, err := scanRestaurant(database.QuickPlate.QueryRow(restaurantSelect+" WHERE r.`id` = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Restaurant{}, models.ErrNotFound
	}
	return r, errors.Wrap(err, "failed to get restaurant")
}

func UpdateRestaurant(id int64, upd models.RestaurantUpdate) error {
	var set []string
	var args []interface{}
	appendSet(&set, &args, "`name` = ?", upd.Name)
	appendSet(&set, &args, "`address` = ?", upd.Address)
	appendSet(&set, &args, "`phone` = ?", upd.Phone)
	appendSet(&set, &args, "`email` = ?", upd.Email)
	appendSet(&set, &args, "`cuisine_type` = ?", upd.CuisineType)
	appendSet(&set, &args, "`opening_hours` = ?", upd.OpeningHours)
	appendSet(&set, &args, "`admin_id` = ?", upd.AdminID)
	appendSet(&set, &args, "`is_active` = ?", upd.IsActive)
	return execUpdate("Restaurants", id, set, args, "restaurant")
}

func DeleteRestaurant(id int64) error {
	res, err := database.QuickPlate.Exec("DELETE FROM `Restaurants` WHERE `id` = ?", id)
	if err != nil {
		if database.IsConstraintErr(err) {
			return errors.Wrap(models.ErrConstraint, "restaurant has existing orders")
		}
		return errors.Wrap(err, "failed to delete restaurant")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}
