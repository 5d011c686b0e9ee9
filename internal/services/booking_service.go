package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"resto_backend/internal/models"
	"resto_backend/internal/repositories"
	"resto_backend/pkg/utils"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrTableNotFound       = errors.New("table not found")
	ErrLocationNotFound    = errors.New("table location not found")
	ErrTableTaken          = errors.New("table already reserved for this slot")
	ErrSlotFull            = errors.New("time slot is fully booked")
	ErrSlotClosed          = errors.New("time slot is not open for booking")
	ErrInvalidSlot         = errors.New("unknown time slot")
	ErrTableTooSmall       = errors.New("table capacity is below the party size")
	ErrPastReservation     = errors.New("reservation date is in the past")
)

// CreateReservationRequest books a table (or the room, when no table is
// picked) for a date and slot.
type CreateReservationRequest struct {
	CustomerName    string  `json:"customer_name" binding:"required"`
	CustomerPhone   string  `json:"customer_phone" binding:"required"`
	CustomerEmail   *string `json:"customer_email,omitempty"`
	ReservationDate string  `json:"reservation_date" binding:"required"` // YYYY-MM-DD
	TimeSlot        string  `json:"time_slot" binding:"required"`
	NumberOfGuests  int     `json:"number_of_guests" binding:"required,gte=1,lte=50"`
	TableID         *int64  `json:"table_id,omitempty"`
	SpecialRequests *string `json:"special_requests,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// defaultSlotCapacity caps active reservations per slot when no explicit
// availability row exists for the date.
const defaultSlotCapacity = 20

// --- BookingService Interface ---
type BookingService interface {
	CreateLocation(loc *models.TableLocation) error
	GetLocations() ([]models.TableLocation, error)
	UpdateLocation(loc *models.TableLocation) error
	DeleteLocation(id int64) error

	CreateTable(table *models.Table) error
	GetTables(availableOnly bool) ([]models.Table, error)
	GetTableByID(id int64) (*models.Table, error)
	UpdateTable(table *models.Table) error
	DeleteTable(id int64) error
	GetAvailableTables(date string, timeSlot string, minCapacity int) ([]models.Table, error)

	CreateReservation(req CreateReservationRequest, userID *int64) (*models.Reservation, error)
	GetReservations(filters models.ReservationFilters) ([]models.Reservation, int64, error)
	GetReservationByID(id int64) (*models.Reservation, error)
	UpdateReservation(id int64, req CreateReservationRequest, userID *int64) (*models.Reservation, error)
	UpdateReservationStatus(id int64, status string, userID *int64) (*models.Reservation, error)
	GetReservationHistory(id int64) ([]models.ReservationHistory, error)

	SetSlotAvailability(a *models.TimeSlotAvailability) error
	GetDayAvailability(date string) ([]SlotAvailabilityView, error)
}

// SlotAvailabilityView is the per-slot capacity picture for one day.
type SlotAvailabilityView struct {
	TimeSlot        string `json:"time_slot"`
	MaxReservations int    `json:"max_reservations"`
	ActiveCount     int    `json:"active_count"`
	AvailableSpots  int    `json:"available_spots"`
	IsAvailable     bool   `json:"is_available"`
}

// --- bookingService Implementation ---
type bookingService struct {
	bookingRepo repositories.BookingRepository
	db          *sql.DB
}

// NewBookingService creates a new instance of BookingService.
func NewBookingService(br repositories.BookingRepository, db *sql.DB) BookingService {
	return &bookingService{bookingRepo: br, db: db}
}

func (s *bookingService) CreateLocation(loc *models.TableLocation) error {
	loc.IsActive = true
	if _, err := s.bookingRepo.CreateLocation(s.db, loc); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return fmt.Errorf("%w: location name", ErrConflict)
		}
		return fmt.Errorf("failed to create location: %w", err)
	}
	return nil
}

func (s *bookingService) GetLocations() ([]models.TableLocation, error) {
	return s.bookingRepo.GetLocations()
}

func (s *bookingService) UpdateLocation(loc *models.TableLocation) error {
	if err := s.bookingRepo.UpdateLocation(s.db, loc); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrLocationNotFound
		}
		return fmt.Errorf("failed to update location: %w", err)
	}
	return nil
}

func (s *bookingService) DeleteLocation(id int64) error {
	if err := s.bookingRepo.DeleteLocation(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrLocationNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return fmt.Errorf("%w: location has tables", ErrConflict)
		}
		return fmt.Errorf("failed to delete location: %w", err)
	}
	return nil
}

func (s *bookingService) CreateTable(table *models.Table) error {
	table.IsAvailable = true
	if _, err := s.bookingRepo.CreateTable(s.db, table); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return fmt.Errorf("%w: table number", ErrConflict)
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return ErrLocationNotFound
		}
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

func (s *bookingService) GetTables(availableOnly bool) ([]models.Table, error) {
	return s.bookingRepo.GetTables(availableOnly)
}

func (s *bookingService) GetTableByID(id int64) (*models.Table, error) {
	table, err := s.bookingRepo.GetTableByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to get table: %w", err)
	}
	return table, nil
}

func (s *bookingService) UpdateTable(table *models.Table) error {
	if err := s.bookingRepo.UpdateTable(s.db, table); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTableNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return fmt.Errorf("%w: table number", ErrConflict)
		}
		return fmt.Errorf("failed to update table: %w", err)
	}
	return nil
}

func (s *bookingService) DeleteTable(id int64) error {
	if err := s.bookingRepo.DeleteTable(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTableNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return fmt.Errorf("%w: table has reservations or orders", ErrConflict)
		}
		return fmt.Errorf("failed to delete table: %w", err)
	}
	return nil
}

func (s *bookingService) GetAvailableTables(date string, timeSlot string, minCapacity int) ([]models.Table, error) {
	day, err := parseDay(date)
	if err != nil {
		return nil, err
	}
	if !models.IsValidTimeSlot(timeSlot) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSlot, timeSlot)
	}
	if minCapacity < 1 {
		minCapacity = 1
	}
	return s.bookingRepo.GetAvailableTables(day, timeSlot, minCapacity)
}

// CreateReservation books a slot. The table-level double booking guard is
// the partial unique index over active reservations; the checks here give
// friendly errors for the common case, and the index catches the race.
func (s *bookingService) CreateReservation(req CreateReservationRequest, userID *int64) (*models.Reservation, error) {
	day, err := parseDay(req.ReservationDate)
	if err != nil {
		return nil, err
	}
	if !models.IsValidTimeSlot(req.TimeSlot) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSlot, req.TimeSlot)
	}
	if day.Before(time.Now().Truncate(24 * time.Hour)) {
		return nil, ErrPastReservation
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	reservation, err := s.createReservationTx(tx, day, req, userID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reservation transaction: %w", err)
	}
	return reservation, nil
}

func (s *bookingService) createReservationTx(exec repositories.SQLExecutor, day time.Time, req CreateReservationRequest, userID *int64) (*models.Reservation, error) {
	slot, err := s.bookingRepo.GetSlotAvailability(day, req.TimeSlot)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check slot availability: %w", err)
	}
	if slot != nil && !slot.IsAvailable {
		return nil, ErrSlotClosed
	}

	// The slot ceiling only gates table-less quick-creates; a booking
	// pinned to a table is guarded by the table checks below.
	if req.TableID == nil {
		maxReservations := defaultSlotCapacity
		if slot != nil {
			maxReservations = slot.MaxReservations
		}
		activeCount, err := s.bookingRepo.CountActiveReservations(exec, day, req.TimeSlot)
		if err != nil {
			return nil, fmt.Errorf("failed to count active reservations: %w", err)
		}
		if activeCount >= maxReservations {
			return nil, ErrSlotFull
		}
	}

	if req.TableID != nil {
		table, err := s.bookingRepo.GetTableByID(*req.TableID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrTableNotFound
			}
			return nil, fmt.Errorf("failed to fetch table: %w", err)
		}
		if table.Capacity < req.NumberOfGuests {
			return nil, fmt.Errorf("%w: table seats %d, party of %d", ErrTableTooSmall, table.Capacity, req.NumberOfGuests)
		}
		taken, err := s.bookingRepo.TableHasActiveReservation(exec, *req.TableID, day, req.TimeSlot)
		if err != nil {
			return nil, fmt.Errorf("failed to check table availability: %w", err)
		}
		if taken {
			return nil, ErrTableTaken
		}
	}

	reservation := &models.Reservation{
		ReservationNumber: utils.NewDocumentNumber("RES"),
		CustomerName:      req.CustomerName,
		CustomerPhone:     req.CustomerPhone,
		CustomerEmail:     req.CustomerEmail,
		ReservationDate:   day,
		TimeSlot:          req.TimeSlot,
		NumberOfGuests:    req.NumberOfGuests,
		TableID:           req.TableID,
		Status:            models.ReservationPending,
		SpecialRequests:   req.SpecialRequests,
		Notes:             req.Notes,
		CreatedBy:         userID,
	}
	if _, err := s.bookingRepo.CreateReservation(exec, reservation); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrTableTaken
		}
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	history := &models.ReservationHistory{
		ReservationID: reservation.ID,
		Action:        models.ReservationActionCreated,
		Description:   fmt.Sprintf("Reservation %s created for %s %s", reservation.ReservationNumber, req.ReservationDate, req.TimeSlot),
		PerformedBy:   userID,
	}
	if err := s.bookingRepo.AppendHistory(exec, history); err != nil {
		return nil, fmt.Errorf("failed to append reservation history: %w", err)
	}
	return reservation, nil
}

func (s *bookingService) GetReservations(filters models.ReservationFilters) ([]models.Reservation, int64, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 200 {
		filters.PageSize = 50
	}
	return s.bookingRepo.GetReservations(filters)
}

func (s *bookingService) GetReservationByID(id int64) (*models.Reservation, error) {
	res, err := s.bookingRepo.GetReservationByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return res, nil
}

// UpdateReservation reschedules or amends a pending or confirmed
// reservation. The new slot goes through the same availability checks as
// creation.
func (s *bookingService) UpdateReservation(id int64, req CreateReservationRequest, userID *int64) (*models.Reservation, error) {
	day, err := parseDay(req.ReservationDate)
	if err != nil {
		return nil, err
	}
	if !models.IsValidTimeSlot(req.TimeSlot) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSlot, req.TimeSlot)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := s.bookingRepo.GetReservationByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to fetch reservation: %w", err)
	}
	if !models.IsActiveReservationStatus(res.Status) {
		return nil, fmt.Errorf("%w: reservation is %s", ErrInvalidTransition, res.Status)
	}

	slotChanged := !res.ReservationDate.Equal(day) || res.TimeSlot != req.TimeSlot
	tableChanged := !int64PtrEqual(res.TableID, req.TableID)
	if req.TableID != nil && (slotChanged || tableChanged) {
		table, err := s.bookingRepo.GetTableByID(*req.TableID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrTableNotFound
			}
			return nil, fmt.Errorf("failed to fetch table: %w", err)
		}
		if table.Capacity < req.NumberOfGuests {
			return nil, fmt.Errorf("%w: table seats %d, party of %d", ErrTableTooSmall, table.Capacity, req.NumberOfGuests)
		}
		taken, err := s.bookingRepo.TableHasActiveReservation(tx, *req.TableID, day, req.TimeSlot)
		if err != nil {
			return nil, fmt.Errorf("failed to check table availability: %w", err)
		}
		if taken {
			return nil, ErrTableTaken
		}
	}

	res.CustomerName = req.CustomerName
	res.CustomerPhone = req.CustomerPhone
	res.CustomerEmail = req.CustomerEmail
	res.ReservationDate = day
	res.TimeSlot = req.TimeSlot
	res.NumberOfGuests = req.NumberOfGuests
	res.TableID = req.TableID
	res.SpecialRequests = req.SpecialRequests
	res.Notes = req.Notes
	if err := s.bookingRepo.UpdateReservation(tx, res); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrTableTaken
		}
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	history := &models.ReservationHistory{
		ReservationID: id,
		Action:        models.ReservationActionModified,
		Description:   fmt.Sprintf("Reservation updated to %s %s", req.ReservationDate, req.TimeSlot),
		PerformedBy:   userID,
	}
	if err := s.bookingRepo.AppendHistory(tx, history); err != nil {
		return nil, fmt.Errorf("failed to append reservation history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reservation transaction: %w", err)
	}
	return s.GetReservationByID(id)
}

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// UpdateReservationStatus moves the reservation through its state machine
// and appends the matching history record in the same transaction.
func (s *bookingService) UpdateReservationStatus(id int64, status string, userID *int64) (*models.Reservation, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.updateReservationStatusTx(tx, id, status, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit status transaction: %w", err)
	}
	return s.GetReservationByID(id)
}

func (s *bookingService) updateReservationStatusTx(exec repositories.SQLExecutor, id int64, status string, userID *int64) error {
	res, err := s.bookingRepo.GetReservationByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrReservationNotFound
		}
		return fmt.Errorf("failed to fetch reservation: %w", err)
	}
	if !models.CanReservationTransition(res.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, res.Status, status)
	}

	var confirmedBy *int64
	if status == models.ReservationConfirmed {
		confirmedBy = userID
	}
	if err := s.bookingRepo.UpdateReservationStatus(exec, id, status, confirmedBy); err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}

	action := map[string]string{
		models.ReservationConfirmed: models.ReservationActionConfirmed,
		models.ReservationCancelled: models.ReservationActionCancelled,
		models.ReservationCompleted: models.ReservationActionCompleted,
		models.ReservationNoShow:    models.ReservationActionNoShow,
	}[status]

	history := &models.ReservationHistory{
		ReservationID: id,
		Action:        action,
		Description:   fmt.Sprintf("Status changed from %s to %s", res.Status, status),
		PerformedBy:   userID,
	}
	if err := s.bookingRepo.AppendHistory(exec, history); err != nil {
		return fmt.Errorf("failed to append reservation history: %w", err)
	}
	return nil
}

func (s *bookingService) GetReservationHistory(id int64) ([]models.ReservationHistory, error) {
	if _, err := s.GetReservationByID(id); err != nil {
		return nil, err
	}
	return s.bookingRepo.GetHistory(id)
}

func (s *bookingService) SetSlotAvailability(a *models.TimeSlotAvailability) error {
	if !models.IsValidTimeSlot(a.TimeSlot) {
		return fmt.Errorf("%w: %s", ErrInvalidSlot, a.TimeSlot)
	}
	if err := s.bookingRepo.UpsertSlotAvailability(s.db, a); err != nil {
		return fmt.Errorf("failed to set slot availability: %w", err)
	}
	return nil
}

// GetDayAvailability reports every slot of the grid for a date, merging
// explicit availability rows with the default capacity.
func (s *bookingService) GetDayAvailability(date string) ([]SlotAvailabilityView, error) {
	day, err := parseDay(date)
	if err != nil {
		return nil, err
	}

	overrides, err := s.bookingRepo.GetSlotAvailabilities(day)
	if err != nil {
		return nil, fmt.Errorf("failed to load slot availability: %w", err)
	}
	bySlot := make(map[string]*models.TimeSlotAvailability, len(overrides))
	for i := range overrides {
		bySlot[overrides[i].TimeSlot] = &overrides[i]
	}

	views := make([]SlotAvailabilityView, 0, len(models.TimeSlots))
	for _, slot := range models.TimeSlots {
		activeCount, err := s.bookingRepo.CountActiveReservations(s.db, day, slot)
		if err != nil {
			return nil, fmt.Errorf("failed to count reservations for %s: %w", slot, err)
		}

		view := SlotAvailabilityView{
			TimeSlot:        slot,
			MaxReservations: defaultSlotCapacity,
			ActiveCount:     activeCount,
			IsAvailable:     true,
		}
		if override, ok := bySlot[slot]; ok {
			view.MaxReservations = override.MaxReservations
			view.IsAvailable = override.IsAvailable
		}
		view.AvailableSpots = view.MaxReservations - activeCount
		if view.AvailableSpots < 0 {
			view.AvailableSpots = 0
		}
		views = append(views, view)
	}
	return views, nil
}

func parseDay(date string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrValidation, date)
	}
	return day, nil
}
