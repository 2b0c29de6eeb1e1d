package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusPickedUp  OrderStatus = "picked_up"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusPickedUp, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// PaymentStatus is an independent axis; it never gates status transitions.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// EstimatedDeliveryOffset is the fixed offset added to the creation time
// when an order is placed.
const EstimatedDeliveryOffset = 45 * time.Minute

type Order struct {
	ID                int64           `db:"id" json:"id"`
	CustomerID        int64           `db:"customer_id" json:"customer_id"`
	RestaurantID      int64           `db:"restaurant_id" json:"restaurant_id"`
	DeliveryAddress   string          `db:"delivery_address" json:"delivery_address"`
	TotalAmount       decimal.Decimal `db:"total_amount" json:"total_amount"`
	Status            OrderStatus     `db:"status" json:"status"`
	PaymentStatus     PaymentStatus   `db:"payment_status" json:"payment_status"`
	PaymentMethod     *string         `db:"payment_method" json:"payment_method,omitempty"`
	DeliveryPartnerID *int64          `db:"delivery_partner_id" json:"delivery_partner_id,omitempty"`
	EstimatedDelivery *time.Time      `db:"estimated_delivery_time" json:"estimated_delivery_time,omitempty"`
	ActualDelivery    *time.Time      `db:"actual_delivery_time" json:"actual_delivery_time,omitempty"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`

	// Display-only join fields.
	CustomerUsername *string `db:"customer_username" json:"customer_username,omitempty"`
	RestaurantName   *string `db:"restaurant_name" json:"restaurant_name,omitempty"`
}

type OrderItem struct {
	OrderID    int64 `db:"order_id" json:"order_id"`
	MenuItemID int64 `db:"menu_item_id" json:"menu_item_id"`
	Quantity   int   `db:"quantity" json:"quantity"`
	// PricePerItem is snapshot at order time; later menu price changes
	// must never alter it.
	PricePerItem decimal.Decimal `db:"price_per_item" json:"price_per_item"`
	Subtotal     decimal.Decimal `db:"subtotal" json:"subtotal"`
	ItemName     *string         `db:"item_name" json:"item_name,omitempty"`
}

// CartLine is a pending selection prior to checkout, annotated with the
// item's current price and owning restaurant.
type CartLine struct {
	ID             int64           `db:"id" json:"id"`
	CustomerID     int64           `db:"customer_id" json:"customer_id"`
	MenuItemID     int64           `db:"menu_item_id" json:"menu_item_id"`
	Quantity       int             `db:"quantity" json:"quantity"`
	ItemName       string          `db:"item_name" json:"item_name"`
	Price          decimal.Decimal `db:"price" json:"price"`
	RestaurantID   int64           `db:"restaurant_id" json:"restaurant_id"`
	RestaurantName string          `db:"restaurant_name" json:"restaurant_name"`
}
