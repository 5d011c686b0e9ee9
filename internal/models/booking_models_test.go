package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanReservationTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{ReservationPending, ReservationConfirmed, true},
		{ReservationPending, ReservationCancelled, true},
		{ReservationPending, ReservationNoShow, true},
		{ReservationConfirmed, ReservationCompleted, true},
		{ReservationConfirmed, ReservationCancelled, true},
		{ReservationConfirmed, ReservationNoShow, true},
		{ReservationPending, ReservationCompleted, false},
		{ReservationCancelled, ReservationConfirmed, false},
		{ReservationCompleted, ReservationCancelled, false},
		{ReservationNoShow, ReservationPending, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanReservationTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestIsActiveReservationStatus(t *testing.T) {
	assert.True(t, IsActiveReservationStatus(ReservationPending))
	assert.True(t, IsActiveReservationStatus(ReservationConfirmed))
	assert.False(t, IsActiveReservationStatus(ReservationCancelled))
	assert.False(t, IsActiveReservationStatus(ReservationNoShow))
	assert.False(t, IsActiveReservationStatus(ReservationCompleted))
}

func TestIsValidTimeSlot(t *testing.T) {
	assert.True(t, IsValidTimeSlot("12:30"))
	assert.True(t, IsValidTimeSlot("19:00"))
	assert.False(t, IsValidTimeSlot("15:00"))
	assert.False(t, IsValidTimeSlot("12:15"))
	assert.False(t, IsValidTimeSlot(""))
}

func TestTimeSlotAvailabilitySpots(t *testing.T) {
	a := &TimeSlotAvailability{MaxReservations: 10}

	assert.Equal(t, 10, a.AvailableSpots(0))
	assert.Equal(t, 3, a.AvailableSpots(7))
	assert.False(t, a.IsFullyBooked(9))
	assert.True(t, a.IsFullyBooked(10))
	assert.True(t, a.IsFullyBooked(11))
}
