package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"huddle/internal/reservations/conflict"
	reservationserrors "huddle/internal/reservations/errors"
	"huddle/internal/reservations/events"
	"huddle/internal/reservations/repository"
	"huddle/internal/reservations/validator"
	roomserrors "huddle/internal/rooms/errors"
	"huddle/pkg/config"
	"huddle/pkg/contracts"
	apperrors "huddle/pkg/errors"
	"huddle/pkg/model"
	"huddle/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// RoomResolver is the slice of the rooms repository this service needs:
// resolving a reservation's target room. The rooms repository satisfies
// it.
type RoomResolver interface {
	FindByID(ctx context.Context, id string) (*model.Room, error)
}

type ReservationService interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, int64, error)
	GetByRoom(ctx context.Context, roomID string, limit int, offset int64) ([]*model.Reservation, int64, error)
	GetByDateRange(ctx context.Context, start, end time.Time, limit int, offset int64) ([]*model.Reservation, error)
	GetAvailability(ctx context.Context, roomID string, date time.Time) (*model.RoomAvailability, error)
	Update(ctx context.Context, id string, updates *model.ReservationUpdate) (*model.Reservation, error)
	Delete(ctx context.Context, id string) error
}

type reservationService struct {
	repo      repository.ReservationRepository
	lockRepo  repository.ReservationLockRepository
	rooms     RoomResolver
	checker   *conflict.Checker
	validator *validator.ReservationValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	lockRepo repository.ReservationLockRepository,
	rooms RoomResolver,
	checker *conflict.Checker,
	validator *validator.ReservationValidator,
	publisher events.Publisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		lockRepo:  lockRepo,
		rooms:     rooms,
		checker:   checker,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *reservationService) Create(ctx context.Context, reservation *model.Reservation) error {
	// Identity is assigned on insert. A client-supplied id would be
	// stored as a string _id that the ObjectID lookups can never match.
	reservation.ID = ""
	s.sanitize(reservation)
	if err := s.validate(reservation); err != nil {
		return err
	}

	// Inactive rooms stay bookable; hiding them from new-booking flows is
	// the caller's policy, not enforced here.
	room, err := s.resolveRoom(ctx, reservation.RoomID)
	if err != nil {
		return err
	}

	// Acquire advisory lock to prevent race conditions
	lockID, err := s.acquireRoomLock(ctx, reservation.RoomID)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseRoomLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release reservation lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.checker.EnsureNoConflict(sessCtx, room.ID, room.Name, reservation.Range(), ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, reservation); err != nil {
			return apperrors.Internal("Failed to create reservation", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create reservation", "room_id", reservation.RoomID, "error", err)
		return err
	}

	s.cfg.Log.Info("Reservation created successfully",
		"id", reservation.ID,
		"room_id", reservation.RoomID,
		"reserved_by", reservation.ReservedBy,
		"start_time", reservation.StartTime,
	)

	s.publishCreated(reservation, room)
	return nil
}

// publishCreated emits the created event after commit. Publishing is
// best-effort: the reservation is already persisted, so a broker outage
// logs a warning instead of failing the request.
func (s *reservationService) publishCreated(reservation *model.Reservation, room *model.Room) {
	if s.publisher == nil {
		return
	}

	event := &contracts.ReservationCreatedEvent{
		ReservationID: reservation.ID,
		RoomID:        room.ID,
		RoomName:      room.Name,
		ReservedBy:    reservation.ReservedBy,
		StartTime:     reservation.StartTime,
		EndTime:       reservation.EndTime,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.EventPublishTimeout)
		defer cancel()

		if err := s.publisher.ReservationCreated(ctx, event); err != nil {
			s.cfg.Log.Warn("Failed to publish reservation created event",
				"reservation_id", event.ReservationID,
				"error", err,
			)
		}
	}()
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, reservationserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}

	return reservation, nil
}

func (s *reservationService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, int64, error) {
	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations", "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reservations", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

func (s *reservationService) GetByRoom(ctx context.Context, roomID string, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if roomID == "" {
		return nil, 0, apperrors.InvalidInput("Room ID cannot be empty")
	}

	if _, err := s.resolveRoom(ctx, roomID); err != nil {
		return nil, 0, err
	}

	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByRoom(ctx, roomID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations by room", "room_id", roomID, "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.FindByRoom(ctx, roomID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reservations by room", "room_id", roomID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

// GetByDateRange returns reservations fully contained in [start, end].
// This is a reporting window, not an availability check; overlap
// detection stays with the conflict checker.
func (s *reservationService) GetByDateRange(ctx context.Context, start, end time.Time, limit int, offset int64) ([]*model.Reservation, error) {
	if !end.After(start) {
		return nil, apperrors.InvalidInput("end_time must be after start_time")
	}

	reservations, err := s.repo.FindByDateRange(ctx, start, end, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to search reservations by date range", "error", err)
		return nil, apperrors.Internal("Failed to search reservations", err)
	}

	return reservations, nil
}

// GetAvailability returns the room's reservations touching the calendar
// day of date (UTC), earliest first. The day window is half-open, so a
// reservation ending exactly at midnight belongs to the previous day.
func (s *reservationService) GetAvailability(ctx context.Context, roomID string, date time.Time) (*model.RoomAvailability, error) {
	room, err := s.resolveRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	reservations, err := s.repo.FindOverlapping(ctx, room.ID, dayStart, dayEnd, "")
	if err != nil {
		s.cfg.Log.Error("Failed to load room availability", "room_id", room.ID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve room availability", err)
	}
	if reservations == nil {
		reservations = []*model.Reservation{}
	}

	return &model.RoomAvailability{
		Date:         dayStart.Format("2006-01-02"),
		RoomID:       room.ID,
		RoomName:     room.Name,
		Reservations: reservations,
		Total:        len(reservations),
	}, nil
}

func (s *reservationService) Update(ctx context.Context, id string, updates *model.ReservationUpdate) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, reservationserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		return nil, apperrors.Internal("Failed to check reservation existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Reservation update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeReservationUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	// A purely descriptive update (title, notes, holder) cannot create an
	// overlap, so it skips the lock and the conflict check entirely.
	if !updates.TouchesTime() {
		if _, err := s.repo.Update(ctx, id, merged); err != nil {
			if errors.Is(err, reservationserrors.ErrNotFound) {
				return nil, apperrors.NotFoundWithID("Reservation", id)
			}
			s.cfg.Log.Error("Failed to update reservation", "id", id, "error", err)
			return nil, apperrors.Internal("Failed to update reservation", err)
		}
		s.cfg.Log.Info("Reservation updated successfully", "id", id)
		return merged, nil
	}

	room, err := s.resolveRoom(ctx, merged.RoomID)
	if err != nil {
		return nil, err
	}

	lockID, err := s.acquireRoomLock(ctx, merged.RoomID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseRoomLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release reservation lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// Exclude the reservation itself so shrinking or shifting within
		// its own slot is not reported as a conflict.
		if err := s.checker.EnsureNoConflict(sessCtx, room.ID, room.Name, merged.Range(), id); err != nil {
			return err
		}
		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			return apperrors.Internal("Failed to update reservation", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update reservation", "id", id, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Reservation updated successfully", "id", id)
	return merged, nil
}

func (s *reservationService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, reservationserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Reservation", id)
			}
			if errors.Is(err, reservationserrors.ErrInvalidID) {
				return apperrors.InvalidInput("Invalid reservation ID format")
			}
			return apperrors.Internal("Failed to delete reservation", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("Reservation deleted successfully", "id", id)
	return nil
}

// --- Helpers ---

func (s *reservationService) sanitize(r *model.Reservation) {
	r.ReservedBy = sanitizer.NormalizeName(r.ReservedBy)
	r.Title = sanitizer.TrimAndNormalize(r.Title)
	r.Notes = sanitizer.NormalizeNotes(r.Notes)
}

func (s *reservationService) mergeReservationUpdates(existing *model.Reservation, updates *model.ReservationUpdate) *model.Reservation {
	merged := *existing

	if updates.ReservedBy != nil {
		merged.ReservedBy = *updates.ReservedBy
	}
	if updates.Title != nil {
		merged.Title = *updates.Title
	}
	if updates.StartTime != nil {
		merged.StartTime = *updates.StartTime
	}
	if updates.EndTime != nil {
		merged.EndTime = *updates.EndTime
	}
	if updates.Notes != nil {
		merged.Notes = *updates.Notes
	}

	return &merged
}

func (s *reservationService) validate(reservation *model.Reservation) error {
	if err := s.validator.Validate(reservation); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *reservationService) resolveRoom(ctx context.Context, roomID string) (*model.Room, error) {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", roomID)
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid room ID format")
		}
		return nil, apperrors.Internal("Failed to resolve room", err)
	}
	return room, nil
}

// acquireRoomLock creates an advisory lock keyed on the room id so
// concurrent reservation writes for the same room serialize. Returns the
// lock ID if successful, or a conflict error if the lock is held.
func (s *reservationService) acquireRoomLock(ctx context.Context, roomID string) (string, error) {
	lockID := fmt.Sprintf("reservation_lock_%s", roomID)

	lock := &model.ReservationLock{
		ID:        lockID,
		RoomID:    roomID,
		ExpiresAt: time.Now().Add(s.cfg.LockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This room is currently being reserved by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire reservation lock", err)
	}

	return lockID, nil
}

// releaseRoomLock removes the advisory lock
func (s *reservationService) releaseRoomLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
