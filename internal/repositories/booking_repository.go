package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"resto_backend/internal/models"
)

// BookingRepository defines the interface for table and reservation
// database operations.
type BookingRepository interface {
	CreateLocation(executor SQLExecutor, loc *models.TableLocation) (int64, error)
	GetLocations() ([]models.TableLocation, error)
	UpdateLocation(executor SQLExecutor, loc *models.TableLocation) error
	DeleteLocation(executor SQLExecutor, id int64) error

	CreateTable(executor SQLExecutor, table *models.Table) (int64, error)
	GetTables(availableOnly bool) ([]models.Table, error)
	GetTableByID(id int64) (*models.Table, error)
	UpdateTable(executor SQLExecutor, table *models.Table) error
	DeleteTable(executor SQLExecutor, id int64) error
	GetAvailableTables(date time.Time, timeSlot string, minCapacity int) ([]models.Table, error)

	CreateReservation(executor SQLExecutor, res *models.Reservation) (int64, error)
	GetReservations(filters models.ReservationFilters) ([]models.Reservation, int64, error)
	GetReservationByID(id int64) (*models.Reservation, error)
	UpdateReservation(executor SQLExecutor, res *models.Reservation) error
	UpdateReservationStatus(executor SQLExecutor, id int64, status string, confirmedBy *int64) error
	CountActiveReservations(executor SQLExecutor, date time.Time, timeSlot string) (int, error)
	TableHasActiveReservation(executor SQLExecutor, tableID int64, date time.Time, timeSlot string) (bool, error)

	AppendHistory(executor SQLExecutor, h *models.ReservationHistory) error
	GetHistory(reservationID int64) ([]models.ReservationHistory, error)

	UpsertSlotAvailability(executor SQLExecutor, a *models.TimeSlotAvailability) error
	GetSlotAvailability(date time.Time, timeSlot string) (*models.TimeSlotAvailability, error)
	GetSlotAvailabilities(date time.Time) ([]models.TimeSlotAvailability, error)
}

type bookingRepository struct {
	db *sql.DB
}

// NewBookingRepository creates a new instance of BookingRepository.
func NewBookingRepository(db *sql.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) CreateLocation(executor SQLExecutor, loc *models.TableLocation) (int64, error) {
	query := `INSERT INTO table_locations (name, description, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query, loc.Name, loc.Description, loc.IsActive, now, now).Scan(&loc.ID)
	if err != nil {
		return 0, translateError(err, "creating table location")
	}
	return loc.ID, nil
}

func (r *bookingRepository) GetLocations() ([]models.TableLocation, error) {
	rows, err := r.db.Query(
		`SELECT id, name, description, is_active, created_at, updated_at
		 FROM table_locations ORDER BY name`)
	if err != nil {
		return nil, translateError(err, "listing table locations")
	}
	defer rows.Close()

	locations := []models.TableLocation{}
	for rows.Next() {
		var l models.TableLocation
		if err := rows.Scan(&l.ID, &l.Name, &l.Description, &l.IsActive, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, translateError(err, "scanning table location")
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (r *bookingRepository) UpdateLocation(executor SQLExecutor, loc *models.TableLocation) error {
	res, err := executor.Exec(
		`UPDATE table_locations SET name = $1, description = $2, is_active = $3, updated_at = $4 WHERE id = $5`,
		loc.Name, loc.Description, loc.IsActive, time.Now(), loc.ID)
	if err != nil {
		return translateError(err, "updating table location")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bookingRepository) DeleteLocation(executor SQLExecutor, id int64) error {
	res, err := executor.Exec(`DELETE FROM table_locations WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "deleting table location")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bookingRepository) CreateTable(executor SQLExecutor, table *models.Table) (int64, error) {
	query := `INSERT INTO restaurant_tables (table_number, location_id, capacity, description,
	            is_available, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query, table.TableNumber, table.LocationID, table.Capacity,
		table.Description, table.IsAvailable, now, now).Scan(&table.ID)
	if err != nil {
		return 0, translateError(err, "creating table")
	}
	return table.ID, nil
}

func (r *bookingRepository) GetTables(availableOnly bool) ([]models.Table, error) {
	query := `SELECT id, table_number, location_id, capacity, description, is_available,
	            created_at, updated_at
	          FROM restaurant_tables
	          WHERE ($1::boolean = false OR is_available = true)
	          ORDER BY table_number`
	rows, err := r.db.Query(query, availableOnly)
	if err != nil {
		return nil, translateError(err, "listing tables")
	}
	defer rows.Close()

	tables := []models.Table{}
	for rows.Next() {
		var t models.Table
		if err := rows.Scan(&t.ID, &t.TableNumber, &t.LocationID, &t.Capacity, &t.Description,
			&t.IsAvailable, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, translateError(err, "scanning table")
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (r *bookingRepository) GetTableByID(id int64) (*models.Table, error) {
	t := &models.Table{}
	query := `SELECT id, table_number, location_id, capacity, description, is_available,
	            created_at, updated_at
	          FROM restaurant_tables WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&t.ID, &t.TableNumber, &t.LocationID, &t.Capacity,
		&t.Description, &t.IsAvailable, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "getting table")
	}
	return t, nil
}

func (r *bookingRepository) UpdateTable(executor SQLExecutor, table *models.Table) error {
	query := `UPDATE restaurant_tables
	          SET table_number = $1, location_id = $2, capacity = $3, description = $4,
	              is_available = $5, updated_at = $6
	          WHERE id = $7`
	res, err := executor.Exec(query, table.TableNumber, table.LocationID, table.Capacity,
		table.Description, table.IsAvailable, time.Now(), table.ID)
	if err != nil {
		return translateError(err, "updating table")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bookingRepository) DeleteTable(executor SQLExecutor, id int64) error {
	res, err := executor.Exec(`DELETE FROM restaurant_tables WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "deleting table")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetAvailableTables returns available tables of sufficient capacity with
// no active reservation on the given date and slot.
func (r *bookingRepository) GetAvailableTables(date time.Time, timeSlot string, minCapacity int) ([]models.Table, error) {
	query := `SELECT t.id, t.table_number, t.location_id, t.capacity, t.description, t.is_available,
	            t.created_at, t.updated_at
	          FROM restaurant_tables t
	          WHERE t.is_available = true
	            AND t.capacity >= $1
	            AND NOT EXISTS (
	              SELECT 1 FROM reservations res
	              WHERE res.table_id = t.id
	                AND res.reservation_date = $2
	                AND res.time_slot = $3
	                AND res.status IN ('PENDING', 'CONFIRMED'))
	          ORDER BY t.capacity, t.table_number`
	rows, err := r.db.Query(query, minCapacity, date, timeSlot)
	if err != nil {
		return nil, translateError(err, "listing available tables")
	}
	defer rows.Close()

	tables := []models.Table{}
	for rows.Next() {
		var t models.Table
		if err := rows.Scan(&t.ID, &t.TableNumber, &t.LocationID, &t.Capacity, &t.Description,
			&t.IsAvailable, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, translateError(err, "scanning available table")
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

const reservationColumns = `id, reservation_number, customer_name, customer_phone, customer_email,
	reservation_date, time_slot, number_of_guests, table_id, status, special_requests, notes,
	created_by, confirmed_by, confirmed_at, created_at, updated_at`

func scanReservation(row interface{ Scan(...interface{}) error }, res *models.Reservation) error {
	return row.Scan(&res.ID, &res.ReservationNumber, &res.CustomerName, &res.CustomerPhone,
		&res.CustomerEmail, &res.ReservationDate, &res.TimeSlot, &res.NumberOfGuests, &res.TableID,
		&res.Status, &res.SpecialRequests, &res.Notes, &res.CreatedBy, &res.ConfirmedBy,
		&res.ConfirmedAt, &res.CreatedAt, &res.UpdatedAt)
}

func (r *bookingRepository) CreateReservation(executor SQLExecutor, res *models.Reservation) (int64, error) {
	query := `INSERT INTO reservations (reservation_number, customer_name, customer_phone,
	            customer_email, reservation_date, time_slot, number_of_guests, table_id, status,
	            special_requests, notes, created_by, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query, res.ReservationNumber, res.CustomerName, res.CustomerPhone,
		res.CustomerEmail, res.ReservationDate, res.TimeSlot, res.NumberOfGuests, res.TableID,
		res.Status, res.SpecialRequests, res.Notes, res.CreatedBy, now, now).Scan(&res.ID)
	if err != nil {
		return 0, translateError(err, "creating reservation")
	}
	return res.ID, nil
}

func (r *bookingRepository) GetReservations(filters models.ReservationFilters) ([]models.Reservation, int64, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + reservationColumns + `, COUNT(*) OVER() AS total_count FROM reservations WHERE 1=1`)

	args := []interface{}{}
	argID := 1
	if filters.TableID != nil {
		sb.WriteString(fmt.Sprintf(" AND table_id = $%d", argID))
		args = append(args, *filters.TableID)
		argID++
	}
	if filters.Status != nil {
		sb.WriteString(fmt.Sprintf(" AND status = $%d", argID))
		args = append(args, *filters.Status)
		argID++
	}
	if filters.Date != nil {
		sb.WriteString(fmt.Sprintf(" AND reservation_date = $%d", argID))
		args = append(args, *filters.Date)
		argID++
	}

	sb.WriteString(" ORDER BY reservation_date DESC, time_slot")
	if filters.PageSize > 0 {
		offset := (filters.Page - 1) * filters.PageSize
		if offset < 0 {
			offset = 0
		}
		sb.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
		args = append(args, filters.PageSize, offset)
	}

	rows, err := r.db.Query(sb.String(), args...)
	if err != nil {
		return nil, 0, translateError(err, "listing reservations")
	}
	defer rows.Close()

	reservations := []models.Reservation{}
	var total int64
	for rows.Next() {
		var res models.Reservation
		if err := rows.Scan(&res.ID, &res.ReservationNumber, &res.CustomerName, &res.CustomerPhone,
			&res.CustomerEmail, &res.ReservationDate, &res.TimeSlot, &res.NumberOfGuests,
			&res.TableID, &res.Status, &res.SpecialRequests, &res.Notes, &res.CreatedBy,
			&res.ConfirmedBy, &res.ConfirmedAt, &res.CreatedAt, &res.UpdatedAt, &total); err != nil {
			return nil, 0, translateError(err, "scanning reservation")
		}
		reservations = append(reservations, res)
	}
	return reservations, total, rows.Err()
}

func (r *bookingRepository) GetReservationByID(id int64) (*models.Reservation, error) {
	res := &models.Reservation{}
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	if err := scanReservation(r.db.QueryRow(query, id), res); err != nil {
		return nil, translateError(err, "getting reservation")
	}
	return res, nil
}

func (r *bookingRepository) UpdateReservation(executor SQLExecutor, res *models.Reservation) error {
	query := `UPDATE reservations
	          SET customer_name = $1, customer_phone = $2, customer_email = $3,
	              reservation_date = $4, time_slot = $5, number_of_guests = $6, table_id = $7,
	              special_requests = $8, notes = $9, updated_at = $10
	          WHERE id = $11`
	result, err := executor.Exec(query, res.CustomerName, res.CustomerPhone, res.CustomerEmail,
		res.ReservationDate, res.TimeSlot, res.NumberOfGuests, res.TableID, res.SpecialRequests,
		res.Notes, time.Now(), res.ID)
	if err != nil {
		return translateError(err, "updating reservation")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bookingRepository) UpdateReservationStatus(executor SQLExecutor, id int64, status string, confirmedBy *int64) error {
	now := time.Now()
	var result sql.Result
	var err error
	if status == models.ReservationConfirmed {
		result, err = executor.Exec(
			`UPDATE reservations SET status = $1, confirmed_by = $2, confirmed_at = $3, updated_at = $3 WHERE id = $4`,
			status, confirmedBy, now, id)
	} else {
		result, err = executor.Exec(
			`UPDATE reservations SET status = $1, updated_at = $2 WHERE id = $3`, status, now, id)
	}
	if err != nil {
		return translateError(err, "updating reservation status")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bookingRepository) CountActiveReservations(executor SQLExecutor, date time.Time, timeSlot string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM reservations
	          WHERE reservation_date = $1 AND time_slot = $2 AND status IN ('PENDING', 'CONFIRMED')`
	if err := executor.QueryRow(query, date, timeSlot).Scan(&count); err != nil {
		return 0, translateError(err, "counting active reservations")
	}
	return count, nil
}

func (r *bookingRepository) TableHasActiveReservation(executor SQLExecutor, tableID int64, date time.Time, timeSlot string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
	            SELECT 1 FROM reservations
	            WHERE table_id = $1 AND reservation_date = $2 AND time_slot = $3
	              AND status IN ('PENDING', 'CONFIRMED'))`
	if err := executor.QueryRow(query, tableID, date, timeSlot).Scan(&exists); err != nil {
		return false, translateError(err, "checking table reservation")
	}
	return exists, nil
}

func (r *bookingRepository) AppendHistory(executor SQLExecutor, h *models.ReservationHistory) error {
	query := `INSERT INTO reservation_history (reservation_id, action, description, performed_by, performed_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	err := executor.QueryRow(query, h.ReservationID, h.Action, h.Description, h.PerformedBy,
		time.Now()).Scan(&h.ID)
	if err != nil {
		return translateError(err, "appending reservation history")
	}
	return nil
}

func (r *bookingRepository) GetHistory(reservationID int64) ([]models.ReservationHistory, error) {
	query := `SELECT id, reservation_id, action, description, performed_by, performed_at
	          FROM reservation_history WHERE reservation_id = $1 ORDER BY performed_at`
	rows, err := r.db.Query(query, reservationID)
	if err != nil {
		return nil, translateError(err, "listing reservation history")
	}
	defer rows.Close()

	history := []models.ReservationHistory{}
	for rows.Next() {
		var h models.ReservationHistory
		if err := rows.Scan(&h.ID, &h.ReservationID, &h.Action, &h.Description, &h.PerformedBy,
			&h.PerformedAt); err != nil {
			return nil, translateError(err, "scanning reservation history")
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

func (r *bookingRepository) UpsertSlotAvailability(executor SQLExecutor, a *models.TimeSlotAvailability) error {
	query := `INSERT INTO time_slot_availability (date, time_slot, max_reservations, is_available,
	            notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $6)
	          ON CONFLICT (date, time_slot) DO UPDATE
	          SET max_reservations = EXCLUDED.max_reservations,
	              is_available = EXCLUDED.is_available,
	              notes = EXCLUDED.notes,
	              updated_at = EXCLUDED.updated_at
	          RETURNING id`
	err := executor.QueryRow(query, a.Date, a.TimeSlot, a.MaxReservations, a.IsAvailable, a.Notes,
		time.Now()).Scan(&a.ID)
	if err != nil {
		return translateError(err, "upserting slot availability")
	}
	return nil
}

func (r *bookingRepository) GetSlotAvailability(date time.Time, timeSlot string) (*models.TimeSlotAvailability, error) {
	a := &models.TimeSlotAvailability{}
	query := `SELECT id, date, time_slot, max_reservations, is_available, notes, created_at, updated_at
	          FROM time_slot_availability WHERE date = $1 AND time_slot = $2`
	err := r.db.QueryRow(query, date, timeSlot).Scan(&a.ID, &a.Date, &a.TimeSlot,
		&a.MaxReservations, &a.IsAvailable, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "getting slot availability")
	}
	return a, nil
}

func (r *bookingRepository) GetSlotAvailabilities(date time.Time) ([]models.TimeSlotAvailability, error) {
	query := `SELECT id, date, time_slot, max_reservations, is_available, notes, created_at, updated_at
	          FROM time_slot_availability WHERE date = $1 ORDER BY time_slot`
	rows, err := r.db.Query(query, date)
	if err != nil {
		return nil, translateError(err, "listing slot availability")
	}
	defer rows.Close()

	slots := []models.TimeSlotAvailability{}
	for rows.Next() {
		var a models.TimeSlotAvailability
		if err := rows.Scan(&a.ID, &a.Date, &a.TimeSlot, &a.MaxReservations, &a.IsAvailable,
			&a.Notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, translateError(err, "scanning slot availability")
		}
		slots = append(slots, a)
	}
	return slots, rows.Err()
}
