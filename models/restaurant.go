package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Restaurant struct {
	ID           int64   `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	Address      *string `db:"address" json:"address,omitempty"`
	Phone        *string `db:"phone" json:"phone,omitempty"`
	Email        *string `db:"email" json:"email,omitempty"`
	CuisineType  *string `db:"cuisine_type" json:"cuisine_type,omitempty"`
	OpeningHours *string `db:"opening_hours" json:"opening_hours,omitempty"`
	AdminID      *int64  `db:"admin_id" json:"admin_id,omitempty"`
	// AdminUsername is joined in for display only, never written back.
	AdminUsername *string   `db:"admin_username" json:"admin_username,omitempty"`
	Rating        float64   `db:"rating" json:"rating"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type RestaurantUpdate struct {
	Name         *string
	Address      *string
	Phone        *string
	Email        *string
	CuisineType  *string
	OpeningHours *string
	AdminID      *int64
	IsActive     *bool
}

type MenuItem struct {
	ID           int64           `db:"id" json:"id"`
	RestaurantID int64           `db:"restaurant_id" json:"restaurant_id"`
	Name         string          `db:"name" json:"name"`
	Description  *string         `db:"description" json:"description,omitempty"`
	Price        decimal.Decimal `db:"price" json:"price"`
	Category     *string         `db:"category" json:"category,omitempty"`
	IsVegetarian bool            `db:"is_vegetarian" json:"is_vegetarian"`
	// PreparationTime is in minutes.
	PreparationTime int       `db:"preparation_time" json:"preparation_time"`
	IsAvailable     bool      `db:"is_available" json:"is_available"`
	RestaurantName  *string   `db:"restaurant_name" json:"restaurant_name,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type MenuItemUpdate struct {
	Name            *string
	Description     *string
	Price           *decimal.Decimal
	Category        *string
	IsVegetarian    *bool
	PreparationTime *int
	IsAvailable     *bool
}
