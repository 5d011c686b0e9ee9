package models

import "time"

// Reservation statuses. PENDING and CONFIRMED count as active against
// table and slot capacity.
const (
	ReservationPending   = "PENDING"
	ReservationConfirmed = "CONFIRMED"
	ReservationCancelled = "CANCELLED"
	ReservationNoShow    = "NO_SHOW"
	ReservationCompleted = "COMPLETED"
)

// reservationTransitions is the allowed-transition table.
var reservationTransitions = map[string][]string{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled, ReservationNoShow},
	ReservationConfirmed: {ReservationCompleted, ReservationCancelled, ReservationNoShow},
	ReservationCancelled: {},
	ReservationNoShow:    {},
	ReservationCompleted: {},
}

// CanReservationTransition reports whether a reservation may move from
// one status to another.
func CanReservationTransition(from, to string) bool {
	for _, s := range reservationTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsActiveReservationStatus reports whether a status counts against
// capacity.
func IsActiveReservationStatus(status string) bool {
	return status == ReservationPending || status == ReservationConfirmed
}

// TimeSlots is the fixed grid of bookable service slots.
var TimeSlots = []string{
	"11:30", "12:00", "12:30", "13:00", "13:30", "14:00",
	"19:00", "19:30", "20:00", "20:30", "21:00", "21:30", "22:00",
}

// IsValidTimeSlot checks if the provided string is a bookable slot.
func IsValidTimeSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// TableLocation is a zone of the dining room.
type TableLocation struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	Description *string   `json:"description,omitempty" db:"description"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Table is a seating unit.
type Table struct {
	ID          int64     `json:"id" db:"id"`
	TableNumber string    `json:"table_number" db:"table_number" binding:"required"`
	LocationID  *int64    `json:"location_id,omitempty" db:"location_id"`
	Capacity    int       `json:"capacity" db:"capacity" binding:"required,gte=1,lte=20"`
	Description *string   `json:"description,omitempty" db:"description"`
	IsAvailable bool      `json:"is_available" db:"is_available"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	Location *TableLocation `json:"location,omitempty"`
}

// Reservation is a booking of a table for a date and time slot. The
// schema carries a partial unique index over active reservations on
// (table_id, reservation_date, time_slot); the advisory availability
// check in the service is not the guard, the index is.
type Reservation struct {
	ID                int64      `json:"id" db:"id"`
	ReservationNumber string     `json:"reservation_number" db:"reservation_number"`
	CustomerName      string     `json:"customer_name" db:"customer_name" binding:"required"`
	CustomerPhone     string     `json:"customer_phone" db:"customer_phone" binding:"required"`
	CustomerEmail     *string    `json:"customer_email,omitempty" db:"customer_email"`
	ReservationDate   time.Time  `json:"reservation_date" db:"reservation_date"`
	TimeSlot          string     `json:"time_slot" db:"time_slot"`
	NumberOfGuests    int        `json:"number_of_guests" db:"number_of_guests" binding:"required,gte=1,lte=50"`
	TableID           *int64     `json:"table_id,omitempty" db:"table_id"`
	Status            string     `json:"status" db:"status"`
	SpecialRequests   *string    `json:"special_requests,omitempty" db:"special_requests"`
	Notes             *string    `json:"notes,omitempty" db:"notes"`
	CreatedBy         *int64     `json:"created_by,omitempty" db:"created_by"`
	ConfirmedBy       *int64     `json:"confirmed_by,omitempty" db:"confirmed_by"`
	ConfirmedAt       *time.Time `json:"confirmed_at,omitempty" db:"confirmed_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`

	Table *Table `json:"table,omitempty"`
}

// Reservation history actions.
const (
	ReservationActionCreated   = "CREATED"
	ReservationActionConfirmed = "CONFIRMED"
	ReservationActionCancelled = "CANCELLED"
	ReservationActionModified  = "MODIFIED"
	ReservationActionCompleted = "COMPLETED"
	ReservationActionNoShow    = "NO_SHOW"
)

// ReservationHistory is an immutable audit record of a lifecycle action.
type ReservationHistory struct {
	ID            int64     `json:"id" db:"id"`
	ReservationID int64     `json:"reservation_id" db:"reservation_id"`
	Action        string    `json:"action" db:"action"`
	Description   string    `json:"description" db:"description"`
	PerformedBy   *int64    `json:"performed_by,omitempty" db:"performed_by"`
	PerformedAt   time.Time `json:"performed_at" db:"performed_at"`
}

// TimeSlotAvailability is the capacity ceiling for a date and slot.
type TimeSlotAvailability struct {
	ID              int64     `json:"id" db:"id"`
	Date            time.Time `json:"date" db:"date"`
	TimeSlot        string    `json:"time_slot" db:"time_slot" binding:"required"`
	MaxReservations int       `json:"max_reservations" db:"max_reservations" binding:"required,gte=1"`
	IsAvailable     bool      `json:"is_available" db:"is_available"`
	Notes           *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// AvailableSpots is max reservations minus the active count.
func (a *TimeSlotAvailability) AvailableSpots(activeCount int) int {
	return a.MaxReservations - activeCount
}

// IsFullyBooked reports whether no spots remain for the slot.
func (a *TimeSlotAvailability) IsFullyBooked(activeCount int) bool {
	return a.AvailableSpots(activeCount) <= 0
}

// ReservationFilters defines the available filters for querying
// reservations.
type ReservationFilters struct {
	TableID  *int64  `form:"table_id"`
	Status   *string `form:"status"`
	Date     *string `form:"date"` // Expected format YYYY-MM-DD
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}
