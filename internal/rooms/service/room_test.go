package service

import (
	"context"
	"testing"

	roomserrors "huddle/internal/rooms/errors"
	"huddle/internal/rooms/validator"
	"huddle/pkg/config"
	mongotx "huddle/pkg/db/mongo"
	apperrors "huddle/pkg/errors"
	"huddle/pkg/logger"
	"huddle/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const testRoomID = "507f1f77bcf86cd799439011"

type mockRoomRepository struct {
	createFunc     func(ctx context.Context, room *model.Room) error
	findByIDFunc   func(ctx context.Context, id string) (*model.Room, error)
	findByNameFunc func(ctx context.Context, name string) (*model.Room, error)
	deleteFunc     func(ctx context.Context, id string) error

	capturedCreate *model.Room
	capturedUpdate *model.Room
}

func (m *mockRoomRepository) Create(ctx context.Context, room *model.Room) error {
	m.capturedCreate = room
	if m.createFunc != nil {
		return m.createFunc(ctx, room)
	}
	room.ID = testRoomID
	return nil
}

func (m *mockRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, roomserrors.ErrNotFound
}

func (m *mockRoomRepository) FindByName(ctx context.Context, name string) (*model.Room, error) {
	if m.findByNameFunc != nil {
		return m.findByNameFunc(ctx, name)
	}
	return nil, roomserrors.ErrNotFound
}

func (m *mockRoomRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Room, error) {
	return []*model.Room{}, nil
}

func (m *mockRoomRepository) FindActive(ctx context.Context, limit int, offset int64) ([]*model.Room, error) {
	return []*model.Room{}, nil
}

func (m *mockRoomRepository) Update(ctx context.Context, id string, room *model.Room) (*mongo.UpdateResult, error) {
	m.capturedUpdate = room
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockRoomRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockRoomRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockRoomRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	sessCtx := mongo.NewSessionContext(ctx, nil)
	return fn(sessCtx)
}

type mockPurger struct {
	deleteByRoomFunc func(ctx context.Context, roomID string) (int64, error)
	purgedRooms      []string
}

func (m *mockPurger) DeleteByRoom(ctx context.Context, roomID string) (int64, error) {
	m.purgedRooms = append(m.purgedRooms, roomID)
	if m.deleteByRoomFunc != nil {
		return m.deleteByRoomFunc(ctx, roomID)
	}
	return 0, nil
}

func newTestService(repo *mockRoomRepository, purger *mockPurger) RoomService {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	cfg := &config.Config{Log: log}
	v := validator.NewRoomValidator(log)
	return NewRoomService(repo, purger, v, cfg)
}

func TestCreate_DefaultsAndSanitization(t *testing.T) {
	repo := &mockRoomRepository{}
	svc := newTestService(repo, &mockPurger{})

	room, err := svc.Create(context.Background(), &model.RoomCreate{
		Name:      "  Board   Room ",
		Capacity:  8,
		Amenities: []string{"Video Conf.", "video-conf", "  Whiteboard "},
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if room.Name != "Board Room" {
		t.Errorf("expected normalized name, got %q", room.Name)
	}
	if !room.Active {
		t.Error("rooms must default to active when the flag is absent")
	}
	// Duplicate amenities collapse after normalization.
	if len(room.Amenities) != 2 {
		t.Errorf("expected deduplicated amenities, got %v", room.Amenities)
	}
	if room.Amenities[0] != "video_conf" {
		t.Errorf("expected normalized amenity token, got %q", room.Amenities[0])
	}
}

func TestCreate_ExplicitlyInactive(t *testing.T) {
	repo := &mockRoomRepository{}
	svc := newTestService(repo, &mockPurger{})

	inactive := false
	room, err := svc.Create(context.Background(), &model.RoomCreate{
		Name:     "Storage Annex",
		Capacity: 4,
		Active:   &inactive,
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if room.Active {
		t.Error("explicit active=false must survive the create defaults")
	}
	if repo.capturedCreate == nil || repo.capturedCreate.Active {
		t.Error("inactive flag must reach the repository")
	}
}

func TestCreate_MissingName(t *testing.T) {
	repo := &mockRoomRepository{}
	svc := newTestService(repo, &mockPurger{})

	_, err := svc.Create(context.Background(), &model.RoomCreate{Capacity: 4})
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected validation error, got %v", err)
	}
	if repo.capturedCreate != nil {
		t.Error("invalid room must not reach the repository")
	}
}

func TestCreate_ZeroCapacity(t *testing.T) {
	svc := newTestService(&mockRoomRepository{}, &mockPurger{})

	_, err := svc.Create(context.Background(), &model.RoomCreate{Name: "Lab", Capacity: 0})
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected validation error for zero capacity, got %v", err)
	}
}

func TestCreate_DuplicateName(t *testing.T) {
	repo := &mockRoomRepository{
		findByNameFunc: func(ctx context.Context, name string) (*model.Room, error) {
			return &model.Room{ID: testRoomID, Name: name}, nil
		},
	}
	svc := newTestService(repo, &mockPurger{})

	_, err := svc.Create(context.Background(), &model.RoomCreate{Name: "Boardroom", Capacity: 8})
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != 409 {
		t.Errorf("expected 409 for duplicate name, got %v", err)
	}
}

func TestUpdate_PartialMerge(t *testing.T) {
	existing := &model.Room{
		ID:        testRoomID,
		Name:      "Boardroom",
		Capacity:  8,
		Floor:     "3",
		Amenities: []string{"tv"},
		Active:    true,
	}
	repo := &mockRoomRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Room, error) {
			return existing, nil
		},
	}
	svc := newTestService(repo, &mockPurger{})

	capacity := 12
	active := false
	updated, err := svc.Update(context.Background(), testRoomID, &model.RoomUpdate{
		Capacity: &capacity,
		Active:   &active,
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if updated.Capacity != 12 {
		t.Errorf("expected capacity 12, got %d", updated.Capacity)
	}
	if updated.Active {
		t.Error("expected room to be deactivated")
	}
	if updated.Name != "Boardroom" || updated.Floor != "3" {
		t.Error("unsupplied fields must be preserved")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := newTestService(&mockRoomRepository{}, &mockPurger{})

	name := "x"
	_, err := svc.Update(context.Background(), testRoomID, &model.RoomUpdate{Name: &name})
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != 404 {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestDelete_CascadesReservations(t *testing.T) {
	repo := &mockRoomRepository{}
	purger := &mockPurger{
		deleteByRoomFunc: func(ctx context.Context, roomID string) (int64, error) {
			return 3, nil
		},
	}
	svc := newTestService(repo, purger)

	if err := svc.Delete(context.Background(), testRoomID); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(purger.purgedRooms) != 1 || purger.purgedRooms[0] != testRoomID {
		t.Errorf("expected reservations purged for room, got %v", purger.purgedRooms)
	}
}

func TestDelete_NotFoundLeavesNothingBehind(t *testing.T) {
	repo := &mockRoomRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			return roomserrors.ErrNotFound
		},
	}
	svc := newTestService(repo, &mockPurger{})

	err := svc.Delete(context.Background(), testRoomID)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != 404 {
		t.Errorf("expected 404, got %v", err)
	}
}
