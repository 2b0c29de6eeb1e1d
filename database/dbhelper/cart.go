package dbhelper

import (
	"database/sql"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/quickplate/quickplate/database"
	"github.com/quickplate/quickplate/models"
)

// cartSelect annotates each line with the item's current price and owning
// restaurant, which checkout and the cart view both need.
const cartSelect = "SELECT c.`id`, c.`customer_id`, c.`menu_item_id`, c.`quantity`, " +
	"mi.`name` AS item_name, mi.`price`, mi.`restaurant_id`, r.`name` AS restaurant_name " +
	"FROM `Cart` c " +
	"JOIN `MenuItems` mi ON c.`menu_item_id` = mi.`id` " +
	"JOIN `Restaurants` r ON mi.`restaurant_id` = r.`id` " +
	"WHERE c.`customer_id` = ? ORDER BY c.`id`"

// AddCartItem inserts a line or overwrites the quantity of an existing one;
// (customer, item) is unique so re-adding never duplicates.
func AddCartItem(customerID, menuItemID int64, quantity int) error {
	_, err := database.QuickPlate.Exec(
		"INSERT INTO `Cart` (`customer_id`, `menu_item_id`, `quantity`) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE `quantity` = VALUES(`quantity`)",
		customerID, menuItemID, quantity)
	if err != nil {
		if database.IsConstraintErr(err) {
			return errors.Wrap(models.ErrConstraint, "menu item does not exist")
		}
		return errors.Wrap(err, "failed to add cart item")
	}
	return nil
}

// UpdateCartQuantity sets the quantity of an existing line; zero removes it.
func UpdateCartQuantity(customerID, menuItemID int64, quantity int) error {
	if quantity <= 0 {
		return RemoveCartItem(customerID, menuItemID)
	}
	res, err := database.QuickPlate.Exec(
		"UPDATE `Cart` SET `quantity` = ? WHERE `customer_id` = ? AND `menu_item_id` = ?",
		quantity, customerID, menuItemID)
	if err != nil {
		return errors.Wrap(err, "failed to update cart quantity")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either the line is missing or the quantity already matches;
		// only the former is an error.
		var exists bool
		err := database.QuickPlate.QueryRow(
			"SELECT EXISTS (SELECT 1 FROM `Cart` WHERE `customer_id` = ? AND `menu_item_id` = ?)",
			customerID, menuItemID).Scan(&exists)
		if err != nil {
			return errors.Wrap(err, "failed to check cart line")
		}
		if !exists {
			return models.ErrNotFound
		}
	}
	return nil
}

func RemoveCartItem(customerID, menuItemID int64) error {
	res, err := database.QuickPlate.Exec(
		"DELETE FROM `Cart` WHERE `customer_id` = ? AND `menu_item_id` = ?", customerID, menuItemID)
	if err != nil {
		return errors.Wrap(err, "failed to remove cart item")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func ClearCart(customerID int64) error {
	_, err := database.QuickPlate.Exec("DELETE FROM `Cart` WHERE `customer_id` = ?", customerID)
	return errors.Wrap(err, "failed to clear cart")
}

func GetCart(customerID int64) ([]models.CartLine, error) {
	rows, err := database.QuickPlate.Query(cartSelect, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query cart")
	}
	defer rows.Close()
	return scanCartLines(rows)
}

func scanCartLines(rows *sql.Rows) ([]models.CartLine, error) {
	var lines []models.CartLine
	for rows.Next() {
		var l models.CartLine
		if err := rows.Scan(&l.ID, &l.CustomerID, &l.MenuItemID, &l.Quantity,
			&l.ItemName, &l.Price, &l.RestaurantID, &l.RestaurantName); err != nil {
			return nil, errors.Wrap(err, "failed to scan cart line")
		}
		lines = append(lines, l)
	}
	return lines, errors.Wrap(rows.Err(), "failed to iterate cart lines")
}

// CartTotal sums quantity x current price over the customer's lines.
func CartTotal(customerID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := database.QuickPlate.QueryRow(
		"SELECT COALESCE(SUM(c.`quantity` * mi.`price`), 0) FROM `Cart` c JOIN `MenuItems` mi ON c.`menu_item_id` = mi.`id` WHERE c.`customer_id` = ?",
		customerID).Scan(&total)
	return total, errors.Wrap(err, "failed to total cart")
}
