package dbhelper

import (
	"database/sql"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/quickplate/quickplate/database"
	"github.com/quickplate/quickplate/models"
)

const menuItemSelect = "SELECT mi.`id`, mi.`restaurant_id`, mi.`name`, mi.`description`, mi.`price`, mi.`category`, " +
	"mi.`is_vegetarian`, mi.`preparation_time`, mi.`is_available`, r.`name` AS restaurant_name, mi.`created_at` " +
	"FROM `MenuItems` mi " +
	"LEFT JOIN `Restaurants` r ON mi.`restaurant_id` = r.`id`"

func scanMenuItem(row interface{ Scan(...interface{}) error }) (models.MenuItem, error) {
	var m models.MenuItem
	err := row.Scan(&m.ID, &m.RestaurantID, &m.Name, &m.Description, &m.Price, &m.Category,
		&m.IsVegetarian, &m.PreparationTime, &m.IsAvailable, &m.RestaurantName, &m.CreatedAt)
	return m, err
}

func CreateMenuItem(restaurantID int64, name string, description *string, price decimal.Decimal,
	category *string, isVegetarian bool, preparationTime int) (int64, error) {
	res, err := database.QuickPlate.Exec(
		"INSERT INTO `MenuItems` (`restaurant_id`, `name`, `description`, `price`, `category`, `is_vegetarian`, `preparation_time`) VALUES (?, ?, ?, ?, ?, ?, ?)",
		restaurantID, name, description, price, category, isVegetarian, preparationTime)
	if err != nil {
		if database.IsConstraintErr(err) {
			return 0, errors.Wrap(models.ErrConstraint, "restaurant does not exist")
		}
		return 0, errors.Wrap(err, "failed to create menu item")
	}
	id, err := res.LastInsertId()
	return id, errors.Wrap(err, "failed to read new menu item id")
}

func ListMenuItems() ([]models.MenuItem, error) {
	return queryMenuItems(menuItemSelect + " ORDER BY mi.`id`")
}

func ListMenuItemsByRestaurant(restaurantID int64) ([]models.MenuItem, error) {
	return queryMenuItems(menuItemSelect+" WHERE mi.`restaurant_id` = ? ORDER BY mi.`id`", restaurantID)
}

// ListAvailableMenuItemsByRestaurant is the browsing read: only items the
// restaurant currently offers.
func ListAvailableMenuItemsByRestaurant(restaurantID int64) ([]models.MenuItem, error) {
	return queryMenuItems(menuItemSelect+" WHERE mi.`restaurant_id` = ? AND mi.`is_available` = TRUE ORDER BY mi.`id`", restaurantID)
}

func queryMenuItems(query string, args ...interface{}) ([]models.MenuItem, error) {
	rows, err := database.QuickPlate.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query menu items")
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan menu item")
		}
		items = append(items, m)
	}
	return items, errors.Wrap(rows.Err(), "failed to iterate menu items")
}

func GetMenuItemByID(id int64) (models.MenuItem, error) {
	m, err := scanMenuItem(database.QuickPlate.QueryRow(menuItemSelect+" WHERE mi.`id` = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.MenuItem{}, models.ErrNotFound
	}
	return m, errors.Wrap(err, "failed to get menu item")
}

func UpdateMenuItem(id int64, upd models.MenuItemUpdate) error {
	var set []string
	var args []interface{}
	appendSet(&set, &args, "`name` = ?", upd.Name)
	appendSet(&set, &args, "`description` = ?", upd.Description)
	appendSet(&set, &args, "`price` = ?", upd.Price)
	appendSet(&set, &args, "`category` = ?", upd.Category)
	appendSet(&set, &args, "`is_vegetarian` = ?", upd.IsVegetarian)
	appendSet(&set, &args, "`preparation_time` = ?", upd.PreparationTime)
	appendSet(&set, &args, "`is_available` = ?", upd.IsAvailable)
	return execUpdate("MenuItems", id, set, args, "menu item")
}

// DeleteMenuItem removes the item; cart lines referencing it cascade away,
// order item snapshots are protected by the FK and keep history intact.
func DeleteMenuItem(id int64) error {
	res, err := database.QuickPlate.Exec("DELETE FROM `MenuItems` WHERE `id` = ?", id)
	if err != nil {
		if database.IsConstraintErr(err) {
			return errors.Wrap(models.ErrConstraint, "menu item appears in existing orders")
		}
		return errors.Wrap(err, "failed to delete menu item")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}
