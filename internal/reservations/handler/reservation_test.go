package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "huddle/pkg/errors"
	"huddle/pkg/logger"
	"huddle/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// Mock service for testing
type mockReservationService struct {
	createFunc          func(ctx context.Context, reservation *model.Reservation) error
	getByDateRangeFunc  func(ctx context.Context, start, end time.Time, limit int, offset int64) ([]*model.Reservation, error)
	getAvailabilityFunc func(ctx context.Context, roomID string, date time.Time) (*model.RoomAvailability, error)
}

func (m *mockReservationService) Create(ctx context.Context, reservation *model.Reservation) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, reservation)
	}
	return nil
}

func (m *mockReservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	return nil, nil
}

func (m *mockReservationService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, int64, error) {
	return []*model.Reservation{}, 0, nil
}

func (m *mockReservationService) GetByRoom(ctx context.Context, roomID string, limit int, offset int64) ([]*model.Reservation, int64, error) {
	return []*model.Reservation{}, 0, nil
}

func (m *mockReservationService) GetByDateRange(ctx context.Context, start, end time.Time, limit int, offset int64) ([]*model.Reservation, error) {
	if m.getByDateRangeFunc != nil {
		return m.getByDateRangeFunc(ctx, start, end, limit, offset)
	}
	return []*model.Reservation{}, nil
}

func (m *mockReservationService) GetAvailability(ctx context.Context, roomID string, date time.Time) (*model.RoomAvailability, error) {
	if m.getAvailabilityFunc != nil {
		return m.getAvailabilityFunc(ctx, roomID, date)
	}
	return &model.RoomAvailability{Reservations: []*model.Reservation{}}, nil
}

func (m *mockReservationService) Update(ctx context.Context, id string, updates *model.ReservationUpdate) (*model.Reservation, error) {
	return nil, nil
}

func (m *mockReservationService) Delete(ctx context.Context, id string) error {
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func newRouter(svc *mockReservationService) *httprouter.Router {
	h := NewReservationHandler(svc, testLogger())
	router := httprouter.New()
	h.RegisterRoutes(router)
	return router
}

func TestCreate_ConflictStatusPassthrough(t *testing.T) {
	svc := &mockReservationService{
		createFunc: func(ctx context.Context, reservation *model.Reservation) error {
			return apperrors.Conflict("Room \"Boardroom\" is already reserved by Alice")
		},
	}
	router := newRouter(svc)

	body := `{"room_id":"507f1f77bcf86cd799439011","reserved_by":"Bob","start_time":"2026-01-15T09:00:00Z","end_time":"2026-01-15T10:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if msg, _ := resp["error"].(string); !strings.Contains(msg, "Alice") {
		t.Errorf("expected conflict message to name the holder, got %v", resp)
	}
}

func TestCreate_InvalidBody(t *testing.T) {
	router := newRouter(&mockReservationService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCreate_Success(t *testing.T) {
	svc := &mockReservationService{
		createFunc: func(ctx context.Context, reservation *model.Reservation) error {
			reservation.ID = "507f1f77bcf86cd799439022"
			return nil
		},
	}
	router := newRouter(svc)

	body := `{"room_id":"507f1f77bcf86cd799439011","reserved_by":"Bob","start_time":"2026-01-15T09:00:00Z","end_time":"2026-01-15T10:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestSearch_RequiresTimeWindow(t *testing.T) {
	router := newRouter(&mockReservationService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/search?start_time=2026-01-15T09:00:00Z", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing end_time, got %d", rec.Code)
	}
}

func TestAvailability_PassesRoomAndDate(t *testing.T) {
	var gotRoomID string
	var gotDate time.Time
	svc := &mockReservationService{
		getAvailabilityFunc: func(ctx context.Context, roomID string, date time.Time) (*model.RoomAvailability, error) {
			gotRoomID, gotDate = roomID, date
			return &model.RoomAvailability{
				Date:         "2026-01-15",
				RoomID:       roomID,
				RoomName:     "Boardroom",
				Reservations: []*model.Reservation{},
			}, nil
		},
	}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/id/507f1f77bcf86cd799439011/availability?date=2026-01-15", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotRoomID != "507f1f77bcf86cd799439011" {
		t.Errorf("expected room id from path, got %q", gotRoomID)
	}
	want, _ := time.Parse("2006-01-02", "2026-01-15")
	if !gotDate.Equal(want) {
		t.Errorf("expected date %v, got %v", want, gotDate)
	}
}

func TestAvailability_MalformedDate(t *testing.T) {
	router := newRouter(&mockReservationService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/id/507f1f77bcf86cd799439011/availability?date=15-01-2026", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed date, got %d", rec.Code)
	}
}

func TestSearch_PassesWindowToService(t *testing.T) {
	var gotStart, gotEnd time.Time
	svc := &mockReservationService{
		getByDateRangeFunc: func(ctx context.Context, start, end time.Time, limit int, offset int64) ([]*model.Reservation, error) {
			gotStart, gotEnd = start, end
			return []*model.Reservation{}, nil
		},
	}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/search?start_time=2026-01-01T00:00:00Z&end_time=2026-02-01T00:00:00Z", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	wantStart, _ := time.Parse(time.RFC3339, "2026-01-01T00:00:00Z")
	wantEnd, _ := time.Parse(time.RFC3339, "2026-02-01T00:00:00Z")
	if !gotStart.Equal(wantStart) || !gotEnd.Equal(wantEnd) {
		t.Errorf("expected window [%v, %v], got [%v, %v]", wantStart, wantEnd, gotStart, gotEnd)
	}
}
