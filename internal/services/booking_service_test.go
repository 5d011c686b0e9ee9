package services

import (
	"testing"
	"time"

	"resto_backend/internal/models"
	"resto_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingRepo struct {
	repositories.BookingRepository
	slot          *models.TimeSlotAvailability
	activeCount   int
	tables        map[int64]*models.Table
	tableTaken    bool
	reservations  map[int64]*models.Reservation
	createErr     error
	created       []*models.Reservation
	history       []*models.ReservationHistory
	statusUpdates []string
	confirmedBy   *int64
}

func (r *fakeBookingRepo) GetSlotAvailability(_ time.Time, _ string) (*models.TimeSlotAvailability, error) {
	if r.slot == nil {
		return nil, repositories.ErrNotFound
	}
	return r.slot, nil
}

func (r *fakeBookingRepo) CountActiveReservations(_ repositories.SQLExecutor, _ time.Time, _ string) (int, error) {
	return r.activeCount, nil
}

func (r *fakeBookingRepo) GetTableByID(id int64) (*models.Table, error) {
	table, ok := r.tables[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return table, nil
}

func (r *fakeBookingRepo) TableHasActiveReservation(_ repositories.SQLExecutor, _ int64, _ time.Time, _ string) (bool, error) {
	return r.tableTaken, nil
}

func (r *fakeBookingRepo) CreateReservation(_ repositories.SQLExecutor, res *models.Reservation) (int64, error) {
	if r.createErr != nil {
		return 0, r.createErr
	}
	res.ID = int64(len(r.created) + 1)
	r.created = append(r.created, res)
	return res.ID, nil
}

func (r *fakeBookingRepo) GetReservationByID(id int64) (*models.Reservation, error) {
	res, ok := r.reservations[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return res, nil
}

func (r *fakeBookingRepo) UpdateReservationStatus(_ repositories.SQLExecutor, _ int64, status string, confirmedBy *int64) error {
	r.statusUpdates = append(r.statusUpdates, status)
	r.confirmedBy = confirmedBy
	return nil
}

func (r *fakeBookingRepo) AppendHistory(_ repositories.SQLExecutor, h *models.ReservationHistory) error {
	r.history = append(r.history, h)
	return nil
}

func bookingRequest(tableID *int64) CreateReservationRequest {
	return CreateReservationRequest{
		CustomerName:    "Claire Dubois",
		CustomerPhone:   "+33600000000",
		ReservationDate: "2026-09-10",
		TimeSlot:        "19:30",
		NumberOfGuests:  4,
		TableID:         tableID,
	}
}

func TestCreateReservationHappyPath(t *testing.T) {
	repo := &fakeBookingRepo{}
	svc := &bookingService{bookingRepo: repo}
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	res, err := svc.createReservationTx(nil, day, bookingRequest(nil), nil)

	require.NoError(t, err)
	assert.Equal(t, models.ReservationPending, res.Status)
	assert.NotEmpty(t, res.ReservationNumber)
	require.Len(t, repo.history, 1)
	assert.Equal(t, models.ReservationActionCreated, repo.history[0].Action)
}

func TestCreateReservationSlotClosed(t *testing.T) {
	repo := &fakeBookingRepo{
		slot: &models.TimeSlotAvailability{TimeSlot: "19:30", MaxReservations: 10, IsAvailable: false},
	}
	svc := &bookingService{bookingRepo: repo}
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	_, err := svc.createReservationTx(nil, day, bookingRequest(nil), nil)
	assert.ErrorIs(t, err, ErrSlotClosed)
	assert.Empty(t, repo.created)
}

func TestCreateReservationSlotFull(t *testing.T) {
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	// Explicit ceiling.
	repo := &fakeBookingRepo{
		slot:        &models.TimeSlotAvailability{TimeSlot: "19:30", MaxReservations: 3, IsAvailable: true},
		activeCount: 3,
	}
	svc := &bookingService{bookingRepo: repo}
	_, err := svc.createReservationTx(nil, day, bookingRequest(nil), nil)
	assert.ErrorIs(t, err, ErrSlotFull)

	// Default ceiling when no availability row exists.
	repo = &fakeBookingRepo{activeCount: defaultSlotCapacity}
	svc = &bookingService{bookingRepo: repo}
	_, err = svc.createReservationTx(nil, day, bookingRequest(nil), nil)
	assert.ErrorIs(t, err, ErrSlotFull)
}

func TestCreateReservationTableIgnoresSlotCeiling(t *testing.T) {
	// The ceiling only gates table-less creates; a free table stays
	// bookable however busy the slot is.
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	tableID := int64(5)
	repo := &fakeBookingRepo{
		tables:      map[int64]*models.Table{5: {ID: 5, Capacity: 6}},
		activeCount: defaultSlotCapacity,
	}
	svc := &bookingService{bookingRepo: repo}

	res, err := svc.createReservationTx(nil, day, bookingRequest(&tableID), nil)

	require.NoError(t, err)
	require.NotNil(t, res.TableID)
	assert.Equal(t, tableID, *res.TableID)
	require.Len(t, repo.created, 1)
}

func TestCreateReservationClosedSlotBlocksTableBooking(t *testing.T) {
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	tableID := int64(5)
	repo := &fakeBookingRepo{
		slot:   &models.TimeSlotAvailability{TimeSlot: "19:30", MaxReservations: 10, IsAvailable: false},
		tables: map[int64]*models.Table{5: {ID: 5, Capacity: 6}},
	}
	svc := &bookingService{bookingRepo: repo}

	_, err := svc.createReservationTx(nil, day, bookingRequest(&tableID), nil)
	assert.ErrorIs(t, err, ErrSlotClosed)
	assert.Empty(t, repo.created)
}

func TestCreateReservationTableChecks(t *testing.T) {
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	tableID := int64(5)

	repo := &fakeBookingRepo{}
	svc := &bookingService{bookingRepo: repo}
	_, err := svc.createReservationTx(nil, day, bookingRequest(&tableID), nil)
	assert.ErrorIs(t, err, ErrTableNotFound)

	repo = &fakeBookingRepo{
		tables: map[int64]*models.Table{5: {ID: 5, Capacity: 2}},
	}
	svc = &bookingService{bookingRepo: repo}
	_, err = svc.createReservationTx(nil, day, bookingRequest(&tableID), nil)
	assert.ErrorIs(t, err, ErrTableTooSmall)

	repo = &fakeBookingRepo{
		tables:     map[int64]*models.Table{5: {ID: 5, Capacity: 6}},
		tableTaken: true,
	}
	svc = &bookingService{bookingRepo: repo}
	_, err = svc.createReservationTx(nil, day, bookingRequest(&tableID), nil)
	assert.ErrorIs(t, err, ErrTableTaken)
}

func TestCreateReservationDuplicateKeyMeansTableTaken(t *testing.T) {
	// The partial unique index is the real guard; a duplicate-key error
	// from the insert surfaces as a table conflict.
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	tableID := int64(5)
	repo := &fakeBookingRepo{
		tables:    map[int64]*models.Table{5: {ID: 5, Capacity: 6}},
		createErr: repositories.ErrDuplicateKey,
	}
	svc := &bookingService{bookingRepo: repo}

	_, err := svc.createReservationTx(nil, day, bookingRequest(&tableID), nil)
	assert.ErrorIs(t, err, ErrTableTaken)
}

func TestUpdateReservationStatusTransitions(t *testing.T) {
	userID := int64(42)

	repo := &fakeBookingRepo{
		reservations: map[int64]*models.Reservation{
			1: {ID: 1, Status: models.ReservationPending},
		},
	}
	svc := &bookingService{bookingRepo: repo}

	err := svc.updateReservationStatusTx(nil, 1, models.ReservationConfirmed, &userID)
	require.NoError(t, err)
	assert.Equal(t, []string{models.ReservationConfirmed}, repo.statusUpdates)
	require.NotNil(t, repo.confirmedBy)
	assert.Equal(t, userID, *repo.confirmedBy)
	require.Len(t, repo.history, 1)
	assert.Equal(t, models.ReservationActionConfirmed, repo.history[0].Action)
}

func TestUpdateReservationStatusRejectsInvalidTransition(t *testing.T) {
	repo := &fakeBookingRepo{
		reservations: map[int64]*models.Reservation{
			1: {ID: 1, Status: models.ReservationCancelled},
		},
	}
	svc := &bookingService{bookingRepo: repo}

	err := svc.updateReservationStatusTx(nil, 1, models.ReservationConfirmed, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, repo.statusUpdates)
}

func TestUpdateReservationStatusCancelKeepsConfirmedByEmpty(t *testing.T) {
	userID := int64(42)
	repo := &fakeBookingRepo{
		reservations: map[int64]*models.Reservation{
			1: {ID: 1, Status: models.ReservationPending},
		},
	}
	svc := &bookingService{bookingRepo: repo}

	err := svc.updateReservationStatusTx(nil, 1, models.ReservationCancelled, &userID)
	require.NoError(t, err)
	assert.Nil(t, repo.confirmedBy)
	require.Len(t, repo.history, 1)
	assert.Equal(t, models.ReservationActionCancelled, repo.history[0].Action)
}
