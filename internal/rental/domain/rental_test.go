package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from RentalStatus
		to   RentalStatus
		want bool
	}{
		{RentalPending, RentalActive, true},
		{RentalPending, RentalCancelled, true},
		{RentalActive, RentalCompleted, true},

		{RentalPending, RentalCompleted, false},
		{RentalActive, RentalCancelled, false},
		{RentalActive, RentalPending, false},
		{RentalCompleted, RentalActive, false},
		{RentalCompleted, RentalCancelled, false},
		{RentalCancelled, RentalPending, false},
		{RentalCancelled, RentalCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTransitionTo_InvalidKeepsStatus(t *testing.T) {
	r := &Rental{ID: uuid.New(), Status: RentalCompleted}

	err := r.TransitionTo(RentalActive)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, RentalCompleted, r.Status)
}

func TestTransitionTo_Valid(t *testing.T) {
	r := &Rental{ID: uuid.New(), Status: RentalPending}

	assert.NoError(t, r.TransitionTo(RentalActive))
	assert.Equal(t, RentalActive, r.Status)

	assert.NoError(t, r.TransitionTo(RentalCompleted))
	assert.Equal(t, RentalCompleted, r.Status)
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, RentalPending.IsTerminal())
	assert.False(t, RentalActive.IsTerminal())
	assert.True(t, RentalCompleted.IsTerminal())
	assert.True(t, RentalCancelled.IsTerminal())
}

func TestHoldsSlot(t *testing.T) {
	assert.True(t, (&Rental{Status: RentalPending}).HoldsSlot())
	assert.True(t, (&Rental{Status: RentalActive}).HoldsSlot())
	assert.False(t, (&Rental{Status: RentalCompleted}).HoldsSlot())
	assert.False(t, (&Rental{Status: RentalCancelled}).HoldsSlot())
}

func TestNumberOfDays(t *testing.T) {
	r := &Rental{
		StartDate:  day(1),
		EndDate:    day(4),
		TotalPrice: decimal.NewFromInt(3600),
	}
	assert.Equal(t, 3, r.NumberOfDays())
}

func TestPartitionKey_IsCartID(t *testing.T) {
	cartID := uuid.New()
	r := &Rental{ID: uuid.New(), CartID: cartID}
	assert.Equal(t, cartID.String(), r.PartitionKey())
}
