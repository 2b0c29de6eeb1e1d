package dbhelper

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/quickplate/quickplate/database"
	"github.com/quickplate/quickplate/models"
)

const orderSelect = "SELECT o.`id`, o.`customer_id`, o.`restaurant_id`, o.`delivery_address`, o.`total_amount`, " +
	"o.`status`, o.`payment_status`, o.`payment_method`, o.`delivery_partner_id`, " +
	"o.`estimated_delivery_time`, o.`actual_delivery_time`, o.`created_at`, " +
	"c.`username` AS customer_username, r.`name` AS restaurant_name " +
	"FROM `Orders` o " +
	"LEFT JOIN `Users` c ON o.`customer_id` = c.`id` " +
	"LEFT JOIN `Restaurants` r ON o.`restaurant_id` = r.`id`"

func scanOrder(row interface{ Scan(...interface{}) error }) (models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.RestaurantID, &o.DeliveryAddress, &o.TotalAmount,
		&o.Status, &o.PaymentStatus, &o.PaymentMethod, &o.DeliveryPartnerID,
		&o.EstimatedDelivery, &o.ActualDelivery, &o.CreatedAt,
		&o.CustomerUsername, &o.RestaurantName)
	return o, err
}

// Checkout converts the customer's cart into an order inside a single
// transaction: no partial order is ever visible. The cart lines are locked
// for the duration so a concurrent checkout of the same cart cannot double
// charge. Item prices are snapshotted into the order items, so later menu
// edits never change this order's totals.
func Checkout(customerID int64, deliveryAddress, paymentMethod string) (int64, error) {
	var orderID int64
	err := database.Tx(func(tx *sql.Tx) error {
		rows, err := tx.Query(
			"SELECT c.`menu_item_id`, c.`quantity`, mi.`price`, mi.`restaurant_id` "+
				"FROM `Cart` c JOIN `MenuItems` mi ON c.`menu_item_id` = mi.`id` "+
				"WHERE c.`customer_id` = ? ORDER BY c.`id` FOR UPDATE",
			customerID)
		if err != nil {
			return errors.Wrap(err, "failed to read cart for checkout")
		}

		type line struct {
			menuItemID   int64
			quantity     int
			price        decimal.Decimal
			restaurantID int64
		}
		var lines []line
		for rows.Next() {
			var l line
			if err := rows.Scan(&l.menuItemID, &l.quantity, &l.price, &l.restaurantID); err != nil {
				rows.Close()
				return errors.Wrap(err, "failed to scan cart line")
			}
			lines = append(lines, l)
		}
		if err := rows.Close(); err != nil {
			return errors.Wrap(err, "failed to read cart for checkout")
		}

		if len(lines) == 0 {
			return models.ErrEmptyCart
		}

		restaurantID := lines[0].restaurantID
		total := decimal.Zero
		for _, l := range lines {
			if l.restaurantID != restaurantID {
				return models.ErrCartMultipleRestaurants
			}
			total = total.Add(l.price.Mul(decimal.NewFromInt(int64(l.quantity))))
		}

		estimated := time.Now().Add(models.EstimatedDeliveryOffset)
		res, err := tx.Exec(
			"INSERT INTO `Orders` (`customer_id`, `restaurant_id`, `delivery_address`, `total_amount`, `status`, `payment_status`, `payment_method`, `estimated_delivery_time`) "+
				"VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			customerID, restaurantID, deliveryAddress, total,
			models.StatusPending, models.PaymentPending, paymentMethod, estimated)
		if err != nil {
			return errors.Wrap(err, "failed to create order")
		}
		orderID, err = res.LastInsertId()
		if err != nil {
			return errors.Wrap(err, "failed to read new order id")
		}

		for _, l := range lines {
			subtotal := l.price.Mul(decimal.NewFromInt(int64(l.quantity)))
			if _, err := tx.Exec(
				"INSERT INTO `OrderItems` (`order_id`, `menu_item_id`, `quantity`, `price_per_item`, `subtotal`) VALUES (?, ?, ?, ?, ?)",
				orderID, l.menuItemID, l.quantity, l.price, subtotal); err != nil {
				return errors.Wrap(err, "failed to copy cart line into order")
			}
		}

		if _, err := tx.Exec("DELETE FROM `Cart` WHERE `customer_id` = ?", customerID); err != nil {
			return errors.Wrap(err, "failed to clear cart after checkout")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return orderID, nil
}

func ListOrders() ([]models.Order, error) {
	return queryOrders(orderSelect + " ORDER BY o.`created_at` DESC")
}

func ListOrdersByCustomer(customerID int64) ([]models.Order, error) {
	return queryOrders(orderSelect+" WHERE o.`customer_id` = ? ORDER BY o.`created_at` DESC", customerID)
}

func ListOrdersByRestaurant(restaurantID int64) ([]models.Order, error) {
	return queryOrders(orderSelect+" WHERE o.`restaurant_id` = ? ORDER BY o.`created_at` DESC", restaurantID)
}

func ListOrdersByDeliveryPartner(partnerID int64) ([]models.Order, error) {
	return queryOrders(orderSelect+" WHERE o.`delivery_partner_id` = ? ORDER BY o.`created_at` DESC", partnerID)
}

// ListAvailableOrders returns orders a delivery partner may accept:
// confirmed and not yet assigned.
func ListAvailableOrders() ([]models.Order, error) {
	return queryOrders(orderSelect + " WHERE o.`status` = 'confirmed' AND o.`delivery_partner_id` IS NULL ORDER BY o.`created_at` DESC")
}

func queryOrders(query string, args ...interface{}) ([]models.Order, error) {
	rows, err := database.QuickPlate.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query orders")
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan order")
		}
		orders = append(orders, o)
	}
	return orders, errors.Wrap(rows.Err(), "failed to iterate orders")
}

func GetOrderByID(id int64) (models.Order, error) {
	o, err := scanOrder(database.QuickPlate.QueryRow(orderSelect+" WHERE o.`id` = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, models.ErrNotFound
	}
	return o, errors.Wrap(err, "failed to get order")
}

func GetOrderItems(orderID int64) ([]models.OrderItem, error) {
	rows, err := database.QuickPlate.Query(
		"SELECT oi.`order_id`, oi.`menu_item_id`, oi.`quantity`, oi.`price_per_item`, oi.`subtotal`, mi.`name` AS item_name "+
			"FROM `OrderItems` oi LEFT JOIN `MenuItems` mi ON oi.`menu_item_id` = mi.`id` "+
			"WHERE oi.`order_id` = ? ORDER BY oi.`menu_item_id`",
		orderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query order items")
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.OrderID, &it.MenuItemID, &it.Quantity, &it.PricePerItem, &it.Subtotal, &it.ItemName); err != nil {
			return nil, errors.Wrap(err, "failed to scan order item")
		}
		items = append(items, it)
	}
	return items, errors.Wrap(rows.Err(), "failed to iterate order items")
}

// UpdateOrderStatus moves an order from one status to another. The UPDATE
// is guarded on the expected current status, so a transition raced by
// another actor affects zero rows and surfaces as ErrStatusConflict rather
// than silently applying out of order.
func UpdateOrderStatus(orderID int64, from, to models.OrderStatus) error {
	res, err := database.QuickPlate.Exec(
		"UPDATE `Orders` SET `status` = ? WHERE `id` = ? AND `status` = ?",
		to, orderID, from)
	if err != nil {
		return errors.Wrap(err, "failed to update order status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return orderMissOrConflict(orderID)
	}
	return nil
}

// AssignDeliveryPartner claims an order for a partner. The conditional
// update makes acceptance exclusive: of two concurrent claims exactly one
// affects a row, the other gets ErrOrderAlreadyAssigned. Status stays
// confirmed, so re-running the winner is idempotent at the state level.
func AssignDeliveryPartner(orderID, partnerID int64) error {
	res, err := database.QuickPlate.Exec(
		"UPDATE `Orders` SET `delivery_partner_id` = ? WHERE `id` = ? AND `status` = 'confirmed' AND `delivery_partner_id` IS NULL",
		partnerID, orderID)
	if err != nil {
		return errors.Wrap(err, "failed to assign delivery partner")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := GetOrderByID(orderID); err != nil {
			return err
		}
		return models.ErrOrderAlreadyAssigned
	}
	return nil
}

// PickupOrder transitions an assigned order to picked_up. Only the assigned
// partner may do it, from confirmed, preparing or ready.
func PickupOrder(orderID, partnerID int64) error {
	res, err := database.QuickPlate.Exec(
		"UPDATE `Orders` SET `status` = 'picked_up' WHERE `id` = ? AND `delivery_partner_id` = ? AND `status` IN ('confirmed', 'preparing', 'ready')",
		orderID, partnerID)
	if err != nil {
		return errors.Wrap(err, "failed to mark order picked up")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return orderMissOrConflict(orderID)
	}
	return nil
}

// MarkOrderDelivered completes the delivery: the guarded status update,
// the actual delivery time and the partner's delivery counter all move in
// one transaction.
func MarkOrderDelivered(orderID, partnerID int64) error {
	return database.Tx(func(tx *sql.Tx) error {
		res, err := tx.Exec(
			"UPDATE `Orders` SET `status` = 'delivered', `actual_delivery_time` = ? WHERE `id` = ? AND `delivery_partner_id` = ? AND `status` = 'picked_up'",
			time.Now(), orderID, partnerID)
		if err != nil {
			return errors.Wrap(err, "failed to mark order delivered")
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return orderMissOrConflict(orderID)
		}

		if _, err := tx.Exec(
			"UPDATE `DeliveryPartners` SET `total_deliveries` = `total_deliveries` + 1 WHERE `id` = ?",
			partnerID); err != nil {
			return errors.Wrap(err, "failed to increment partner deliveries")
		}
		return nil
	})
}

// UpdatePaymentStatus flips the independent payment axis.
func UpdatePaymentStatus(orderID int64, status models.PaymentStatus) error {
	res, err := database.QuickPlate.Exec(
		"UPDATE `Orders` SET `payment_status` = ? WHERE `id` = ?", status, orderID)
	if err != nil {
		return errors.Wrap(err, "failed to update payment status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := database.QuickPlate.QueryRow("SELECT EXISTS (SELECT 1 FROM `Orders` WHERE `id` = ?)", orderID).Scan(&exists); err != nil {
			return errors.Wrap(err, "failed to check order existence")
		}
		if !exists {
			return models.ErrNotFound
		}
	}
	return nil
}

// orderMissOrConflict distinguishes a missing order from a guard that no
// longer holds.
func orderMissOrConflict(orderID int64) error {
	var exists bool
	if err := database.QuickPlate.QueryRow("SELECT EXISTS (SELECT 1 FROM `Orders` WHERE `id` = ?)", orderID).Scan(&exists); err != nil {
		return errors.Wrap(err, "failed to check order existence")
	}
	if !exists {
		return models.ErrNotFound
	}
	return models.ErrStatusConflict
}
