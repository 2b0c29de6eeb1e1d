package models

import (
	"time"
)

type Role string

const (
	RoleSystemAdmin     Role = "system_admin"
	RoleRestaurantAdmin Role = "restaurant_admin"
	RoleCustomer        Role = "customer"
	RoleDeliveryPartner Role = "delivery_partner"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleSystemAdmin, RoleRestaurantAdmin, RoleCustomer, RoleDeliveryPartner:
		return true
	}
	return false
}

type User struct {
	ID        int64     `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Password  string    `db:"password" json:"-"`
	Email     string    `db:"email" json:"email"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Address   *string   `db:"address" json:"address,omitempty"`
	Role      Role      `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// UserUpdate carries a partial update. A nil field keeps the stored value;
// a non-nil field overwrites it, even when it points at an empty string.
type UserUpdate struct {
	Username *string
	Password *string
	Email    *string
	Phone    *string
	Address  *string
	Role     *Role
}
