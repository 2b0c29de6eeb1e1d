// Package statemachine defines the order lifecycle: which actor may move an
// order from one status to another. Payment status is an independent axis
// and never gates a transition.
package statemachine

import (
	"github.com/pkg/errors"

	"github.com/quickplate/quickplate/models"
)

type Actor string

const (
	ActorSystemAdmin     Actor = "system_admin"
	ActorRestaurantAdmin Actor = "restaurant_admin"
	ActorCustomer        Actor = "customer"
	ActorDeliveryPartner Actor = "delivery_partner"
)

// ErrInvalidTransition is wrapped by every CanTransition failure.
var ErrInvalidTransition = errors.New("invalid order status transition")

type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

var validTransitions = []Transition{
	// Restaurant admin drives the kitchen side.
	{From: models.StatusPending, To: models.StatusConfirmed, Actor: ActorRestaurantAdmin},
	{From: models.StatusConfirmed, To: models.StatusPreparing, Actor: ActorRestaurantAdmin},
	{From: models.StatusPreparing, To: models.StatusReady, Actor: ActorRestaurantAdmin},

	// Delivery partner picks up once assigned; assignment itself is a
	// conditional update on the order row, not a status transition.
	{From: models.StatusConfirmed, To: models.StatusPickedUp, Actor: ActorDeliveryPartner},
	{From: models.StatusPreparing, To: models.StatusPickedUp, Actor: ActorDeliveryPartner},
	{From: models.StatusReady, To: models.StatusPickedUp, Actor: ActorDeliveryPartner},
	{From: models.StatusPickedUp, To: models.StatusDelivered, Actor: ActorDeliveryPartner},

	// Customer and restaurant admin may cancel until pickup.
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusPreparing, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusReady, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorRestaurantAdmin},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: ActorRestaurantAdmin},
	{From: models.StatusPreparing, To: models.StatusCancelled, Actor: ActorRestaurantAdmin},
	{From: models.StatusReady, To: models.StatusCancelled, Actor: ActorRestaurantAdmin},

	// System admin can drive any forward step and cancel anything not
	// yet delivered.
	{From: models.StatusPending, To: models.StatusConfirmed, Actor: ActorSystemAdmin},
	{From: models.StatusConfirmed, To: models.StatusPreparing, Actor: ActorSystemAdmin},
	{From: models.StatusPreparing, To: models.StatusReady, Actor: ActorSystemAdmin},
	{From: models.StatusReady, To: models.StatusPickedUp, Actor: ActorSystemAdmin},
	{From: models.StatusPickedUp, To: models.StatusDelivered, Actor: ActorSystemAdmin},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorSystemAdmin},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: ActorSystemAdmin},
	{From: models.StatusPreparing, To: models.StatusCancelled, Actor: ActorSystemAdmin},
	{From: models.StatusReady, To: models.StatusCancelled, Actor: ActorSystemAdmin},
	{From: models.StatusPickedUp, To: models.StatusCancelled, Actor: ActorSystemAdmin},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool, len(validTransitions))
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ActorForRole maps a user role onto its state machine actor.
func ActorForRole(role models.Role) Actor {
	return Actor(role)
}

// CanTransition reports whether actor may move an order from one status to
// another. The returned error wraps ErrInvalidTransition and names the
// valid next states.
func CanTransition(from, to models.OrderStatus, actor Actor) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return errors.Wrapf(ErrInvalidTransition, "%s -> %s is not allowed for %s; valid next states from %s: %s",
		from, to, actor, from, describeNextStates(from, actor))
}

// ValidTransitionsFrom returns all states reachable from a status by actor.
func ValidTransitionsFrom(from models.OrderStatus, actor Actor) []models.OrderStatus {
	var next []models.OrderStatus
	for _, t := range validTransitions {
		if t.From == from && t.Actor == actor {
			next = append(next, t.To)
		}
	}
	return next
}

// IsTerminal reports whether no actor can leave the status.
func IsTerminal(status models.OrderStatus) bool {
	for _, t := range validTransitions {
		if t.From == status {
			return false
		}
	}
	return true
}

func describeNextStates(from models.OrderStatus, actor Actor) string {
	next := ValidTransitionsFrom(from, actor)
	if len(next) == 0 {
		return "none"
	}
	out := ""
	for i, s := range next {
		if i > 0 {
			out += ", "
		}
		out += string(s)
	}
	return out
}

// CancellableBy reports whether actor may cancel an order in its current
// status, used by the uniform cancellation endpoints.
func CancellableBy(status models.OrderStatus, actor Actor) bool {
	return transitionMap[transitionKey{From: status, To: models.StatusCancelled, Actor: actor}]
}
