package service

import (
	"context"
	"errors"
	"sync"

	roomserrors "huddle/internal/rooms/errors"
	"huddle/internal/rooms/repository"
	"huddle/internal/rooms/validator"
	"huddle/pkg/config"
	apperrors "huddle/pkg/errors"
	"huddle/pkg/model"
	"huddle/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// ReservationPurger removes every reservation held against a room. The
// reservations repository satisfies it; the indirection keeps this
// package from importing the reservations tree.
type ReservationPurger interface {
	DeleteByRoom(ctx context.Context, roomID string) (int64, error)
}

type RoomService interface {
	Create(ctx context.Context, create *model.RoomCreate) (*model.Room, error)
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Room, int64, error)
	GetActive(ctx context.Context, limit int, offset int64) ([]*model.Room, error)
	Update(ctx context.Context, id string, updates *model.RoomUpdate) (*model.Room, error)
	Delete(ctx context.Context, id string) error
}

type roomService struct {
	repo      repository.RoomRepository
	purger    ReservationPurger
	validator *validator.RoomValidator
	cfg       *config.Config
}

func NewRoomService(
	repo repository.RoomRepository,
	purger ReservationPurger,
	validator *validator.RoomValidator,
	cfg *config.Config,
) RoomService {
	return &roomService{
		repo:      repo,
		purger:    purger,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *roomService) Create(ctx context.Context, create *model.RoomCreate) (*model.Room, error) {
	room := s.applyDefaults(create)
	s.sanitize(room)
	if err := s.validate(room); err != nil {
		return nil, err
	}

	if existing, err := s.repo.FindByName(ctx, room.Name); err == nil && existing != nil {
		return nil, apperrors.Conflict("A room with this name already exists")
	} else if err != nil && !errors.Is(err, roomserrors.ErrNotFound) {
		return nil, apperrors.Internal("Failed to check room name", err)
	}

	if err := s.repo.Create(ctx, room); err != nil {
		s.cfg.Log.Error("Failed to create room", "name", room.Name, "error", err)
		return nil, apperrors.Internal("Failed to create room", err)
	}

	s.cfg.Log.Info("Room created successfully",
		"id", room.ID,
		"name", room.Name,
		"capacity", room.Capacity,
		"active", room.Active,
	)
	return room, nil
}

func (s *roomService) GetByID(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", id)
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid room ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}

	return room, nil
}

func (s *roomService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Room, int64, error) {
	var count int64
	var rooms []*model.Room
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count rooms", "error", errCount)
			errCount = apperrors.Internal("Failed to count rooms", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		rooms, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list rooms", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve rooms", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return rooms, count, nil
}

func (s *roomService) GetActive(ctx context.Context, limit int, offset int64) ([]*model.Room, error) {
	rooms, err := s.repo.FindActive(ctx, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list active rooms", "error", err)
		return nil, apperrors.Internal("Failed to retrieve active rooms", err)
	}
	return rooms, nil
}

func (s *roomService) Update(ctx context.Context, id string, updates *model.RoomUpdate) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", id)
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid room ID format")
		}
		return nil, apperrors.Internal("Failed to check room existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Room update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeRoomUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	if updates.Name != nil && merged.Name != existing.Name {
		if other, err := s.repo.FindByName(ctx, merged.Name); err == nil && other != nil && other.ID != id {
			return nil, apperrors.Conflict("A room with this name already exists")
		} else if err != nil && !errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.Internal("Failed to check room name", err)
		}
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", id)
		}
		s.cfg.Log.Error("Failed to update room", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update room", err)
	}

	s.cfg.Log.Info("Room updated successfully", "id", id)
	return merged, nil
}

// Delete removes the room and every reservation held against it in one
// transaction, so a failure partway leaves both collections untouched.
func (s *roomService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Room ID cannot be empty")
	}

	var purged int64
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		var err error
		purged, err = s.purger.DeleteByRoom(sessCtx, id)
		if err != nil {
			return apperrors.Internal("Failed to delete room reservations", err)
		}
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, roomserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Room", id)
			}
			if errors.Is(err, roomserrors.ErrInvalidID) {
				return apperrors.InvalidInput("Invalid room ID format")
			}
			return apperrors.Internal("Failed to delete room", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("Room deleted successfully", "id", id, "reservations_removed", purged)
	return nil
}

// --- Helpers ---

func (s *roomService) sanitize(room *model.Room) {
	room.Name = sanitizer.NormalizeName(room.Name)
	room.Floor = sanitizer.TrimAndNormalize(room.Floor)
	room.Description = sanitizer.NormalizeNotes(room.Description)
	room.Amenities = sanitizer.NormalizeAmenities(room.Amenities)
}

// applyDefaults builds the room from the create payload. An unsupplied
// active flag defaults to true; an explicit false creates the room
// inactive.
func (s *roomService) applyDefaults(create *model.RoomCreate) *model.Room {
	room := &model.Room{
		Name:        create.Name,
		Capacity:    create.Capacity,
		Floor:       create.Floor,
		Description: create.Description,
		Amenities:   create.Amenities,
		Active:      true,
	}
	if create.Active != nil {
		room.Active = *create.Active
	}
	if room.Amenities == nil {
		room.Amenities = []string{}
	}
	return room
}

func (s *roomService) mergeRoomUpdates(existing *model.Room, updates *model.RoomUpdate) *model.Room {
	merged := *existing

	if updates.Name != nil {
		merged.Name = *updates.Name
	}
	if updates.Capacity != nil {
		merged.Capacity = *updates.Capacity
	}
	if updates.Floor != nil {
		merged.Floor = *updates.Floor
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.Amenities != nil {
		merged.Amenities = *updates.Amenities
	}
	if updates.Active != nil {
		merged.Active = *updates.Active
	}

	return &merged
}

func (s *roomService) validate(room *model.Room) error {
	if err := s.validator.Validate(room); err != nil {
		s.cfg.Log.Warn("Room validation failed", "error", err)
		return apperrors.Validation("Room validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}
