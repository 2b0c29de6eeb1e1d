package statemachine

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickplate/quickplate/models"
)

func TestCanTransitionForwardFlow(t *testing.T) {
	steps := []struct {
		from  models.OrderStatus
		to    models.OrderStatus
		actor Actor
	}{
		{models.StatusPending, models.StatusConfirmed, ActorRestaurantAdmin},
		{models.StatusConfirmed, models.StatusPreparing, ActorRestaurantAdmin},
		{models.StatusPreparing, models.StatusReady, ActorRestaurantAdmin},
		{models.StatusReady, models.StatusPickedUp, ActorDeliveryPartner},
		{models.StatusPickedUp, models.StatusDelivered, ActorDeliveryPartner},
	}
	for _, s := range steps {
		assert.NoErrorf(t, CanTransition(s.from, s.to, s.actor),
			"%s -> %s by %s", s.from, s.to, s.actor)
	}
}

func TestCanTransitionRejectsBackwards(t *testing.T) {
	backwards := []struct {
		from models.OrderStatus
		to   models.OrderStatus
	}{
		{models.StatusConfirmed, models.StatusPending},
		{models.StatusPreparing, models.StatusConfirmed},
		{models.StatusReady, models.StatusPreparing},
		{models.StatusPickedUp, models.StatusReady},
		{models.StatusDelivered, models.StatusPickedUp},
	}
	actors := []Actor{ActorSystemAdmin, ActorRestaurantAdmin, ActorCustomer, ActorDeliveryPartner}
	for _, b := range backwards {
		for _, a := range actors {
			err := CanTransition(b.from, b.to, a)
			require.Errorf(t, err, "%s -> %s by %s", b.from, b.to, a)
			assert.True(t, errors.Is(err, ErrInvalidTransition))
		}
	}
}

func TestCanTransitionActorScoping(t *testing.T) {
	// The kitchen side belongs to the restaurant admin, not the partner
	// or the customer.
	assert.Error(t, CanTransition(models.StatusPending, models.StatusConfirmed, ActorDeliveryPartner))
	assert.Error(t, CanTransition(models.StatusPending, models.StatusConfirmed, ActorCustomer))

	// Delivery steps belong to the partner, not the restaurant admin.
	assert.Error(t, CanTransition(models.StatusReady, models.StatusPickedUp, ActorRestaurantAdmin))
	assert.Error(t, CanTransition(models.StatusPickedUp, models.StatusDelivered, ActorRestaurantAdmin))

	// System admin may drive any forward step.
	assert.NoError(t, CanTransition(models.StatusPending, models.StatusConfirmed, ActorSystemAdmin))
	assert.NoError(t, CanTransition(models.StatusPickedUp, models.StatusDelivered, ActorSystemAdmin))
}

func TestCancellationRules(t *testing.T) {
	for _, status := range []models.OrderStatus{
		models.StatusPending, models.StatusConfirmed, models.StatusPreparing, models.StatusReady,
	} {
		assert.Truef(t, CancellableBy(status, ActorCustomer), "customer cancel from %s", status)
		assert.Truef(t, CancellableBy(status, ActorRestaurantAdmin), "restaurant admin cancel from %s", status)
	}

	// No cancellation after pickup, except by the system admin.
	assert.False(t, CancellableBy(models.StatusPickedUp, ActorCustomer))
	assert.False(t, CancellableBy(models.StatusPickedUp, ActorRestaurantAdmin))
	assert.True(t, CancellableBy(models.StatusPickedUp, ActorSystemAdmin))

	// Terminal states cannot be cancelled by anyone.
	for _, a := range []Actor{ActorSystemAdmin, ActorRestaurantAdmin, ActorCustomer, ActorDeliveryPartner} {
		assert.False(t, CancellableBy(models.StatusDelivered, a))
		assert.False(t, CancellableBy(models.StatusCancelled, a))
	}

	// The delivery partner never cancels, they pick up or walk away.
	for _, status := range []models.OrderStatus{
		models.StatusPending, models.StatusConfirmed, models.StatusPreparing,
		models.StatusReady, models.StatusPickedUp,
	} {
		assert.Falsef(t, CancellableBy(status, ActorDeliveryPartner), "partner cancel from %s", status)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(models.StatusDelivered))
	assert.True(t, IsTerminal(models.StatusCancelled))

	for _, status := range []models.OrderStatus{
		models.StatusPending, models.StatusConfirmed, models.StatusPreparing,
		models.StatusReady, models.StatusPickedUp,
	} {
		assert.Falsef(t, IsTerminal(status), "%s must not be terminal", status)
	}
}

func TestValidTransitionsFrom(t *testing.T) {
	next := ValidTransitionsFrom(models.StatusPending, ActorRestaurantAdmin)
	assert.ElementsMatch(t, []models.OrderStatus{models.StatusConfirmed, models.StatusCancelled}, next)

	assert.Empty(t, ValidTransitionsFrom(models.StatusDelivered, ActorSystemAdmin))
	assert.Empty(t, ValidTransitionsFrom(models.StatusPickedUp, ActorCustomer))
}

func TestCanTransitionErrorNamesNextStates(t *testing.T) {
	err := CanTransition(models.StatusPending, models.StatusDelivered, ActorRestaurantAdmin)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "confirmed")
	assert.Contains(t, err.Error(), "cancelled")
}

func TestActorForRole(t *testing.T) {
	assert.Equal(t, ActorSystemAdmin, ActorForRole(models.RoleSystemAdmin))
	assert.Equal(t, ActorCustomer, ActorForRole(models.RoleCustomer))
}
