package models

import (
	"errors"
)

// Sentinel errors surfaced by the dbhelper layer. Handlers translate them
// to HTTP statuses; everything else is a storage failure.
var (
	ErrNotFound                = errors.New("record not found")
	ErrDuplicate               = errors.New("duplicate record")
	ErrConstraint              = errors.New("constraint violation")
	ErrEmptyCart               = errors.New("cart is empty")
	ErrCartMultipleRestaurants = errors.New("cart spans multiple restaurants")
	ErrOrderAlreadyAssigned    = errors.New("order already assigned to a delivery partner")
	ErrStatusConflict          = errors.New("order status changed concurrently")
	ErrPartnerOffline          = errors.New("delivery partner is offline")
)
