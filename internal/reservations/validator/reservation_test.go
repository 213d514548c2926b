package validator

import (
	"strings"
	"testing"
	"time"

	"huddle/pkg/logger"
	"huddle/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func validReservation() *model.Reservation {
	start := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	return &model.Reservation{
		RoomID:     "507f1f77bcf86cd799439011",
		ReservedBy: "Alice Smith",
		Title:      "Sprint planning",
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
	}
}

func TestValidate_ValidReservation(t *testing.T) {
	v := NewReservationValidator(testLogger())

	if err := v.Validate(validReservation()); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestValidate_MissingFields(t *testing.T) {
	v := NewReservationValidator(testLogger())

	err := v.Validate(&model.Reservation{})
	if err == nil {
		t.Fatal("expected validation error for empty reservation")
	}

	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}

	fields := make(map[string]bool)
	for _, ve := range verrs {
		fields[ve.Field] = true
	}
	for _, want := range []string{"RoomID", "ReservedBy", "StartTime", "EndTime"} {
		if !fields[want] {
			t.Errorf("expected error for field %s, got %v", want, verrs)
		}
	}
}

func TestValidate_MalformedRoomID(t *testing.T) {
	v := NewReservationValidator(testLogger())

	reservation := validReservation()
	reservation.RoomID = "not-an-object-id"

	err := v.Validate(reservation)
	if err == nil {
		t.Fatal("expected validation error for malformed room ID")
	}
	if !strings.Contains(err.Error(), "ObjectID") {
		t.Errorf("expected ObjectID message, got %v", err)
	}
}

func TestValidate_EndBeforeStart(t *testing.T) {
	v := NewReservationValidator(testLogger())

	reservation := validReservation()
	reservation.EndTime = reservation.StartTime.Add(-time.Hour)

	if err := v.Validate(reservation); err == nil {
		t.Error("expected validation error for end before start")
	}
}

func TestValidate_ZeroLengthRejected(t *testing.T) {
	v := NewReservationValidator(testLogger())

	reservation := validReservation()
	reservation.EndTime = reservation.StartTime

	if err := v.Validate(reservation); err == nil {
		t.Error("expected validation error for zero-length interval")
	}
}

func TestValidateUpdate_PartialFieldsOK(t *testing.T) {
	v := NewReservationValidator(testLogger())

	title := "Retro"
	if err := v.ValidateUpdate(&model.ReservationUpdate{Title: &title}); err != nil {
		t.Errorf("expected no error for title-only update, got %v", err)
	}
}

func TestValidateUpdate_InvertedWindow(t *testing.T) {
	v := NewReservationValidator(testLogger())

	start := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	end := start.Add(-time.Minute)

	err := v.ValidateUpdate(&model.ReservationUpdate{StartTime: &start, EndTime: &end})
	if err == nil {
		t.Fatal("expected validation error for inverted window")
	}
	if !strings.Contains(err.Error(), "end_time must be after start_time") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestValidateUpdate_SingleBoundAccepted(t *testing.T) {
	v := NewReservationValidator(testLogger())

	// Window ordering against the stored reservation is the service's
	// job once fields are merged; a lone bound is fine here.
	end := time.Date(2026, 1, 15, 11, 0, 0, 0, time.UTC)
	if err := v.ValidateUpdate(&model.ReservationUpdate{EndTime: &end}); err != nil {
		t.Errorf("expected no error for single bound, got %v", err)
	}
}
