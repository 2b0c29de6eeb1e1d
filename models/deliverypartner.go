package models

import (
	"time"
)

type VehicleType string

const (
	VehicleBike    VehicleType = "bike"
	VehicleCar     VehicleType = "car"
	VehicleBicycle VehicleType = "bicycle"
)

func (v VehicleType) IsValid() bool {
	switch v {
	case VehicleBike, VehicleCar, VehicleBicycle:
		return true
	}
	return false
}

type DeliveryPartner struct {
	ID              int64       `db:"id" json:"id"`
	UserID          int64       `db:"user_id" json:"user_id"`
	VehicleType     VehicleType `db:"vehicle_type" json:"vehicle_type"`
	VehicleNumber   string      `db:"vehicle_number" json:"vehicle_number"`
	LicenseNumber   *string     `db:"license_number" json:"license_number,omitempty"`
	IsOnline        bool        `db:"is_online" json:"is_online"`
	Rating          float64     `db:"rating" json:"rating"`
	TotalDeliveries int         `db:"total_deliveries" json:"total_deliveries"`
	Latitude        *float64    `db:"current_latitude" json:"current_latitude,omitempty"`
	Longitude       *float64    `db:"current_longitude" json:"current_longitude,omitempty"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`

	// Joined from Users for display.
	Username *string `db:"username" json:"username,omitempty"`
	Phone    *string `db:"phone" json:"phone,omitempty"`
}

type DeliveryPartnerUpdate struct {
	VehicleType   *VehicleType
	VehicleNumber *string
	LicenseNumber *string
}
