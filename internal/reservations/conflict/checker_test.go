package conflict

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "huddle/pkg/errors"
	"huddle/pkg/model"
)

type mockOverlapFinder struct {
	findOverlappingFunc func(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]*model.Reservation, error)
	capturedExcludeID   string
}

func (m *mockOverlapFinder) FindOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]*model.Reservation, error) {
	m.capturedExcludeID = excludeID
	if m.findOverlappingFunc != nil {
		return m.findOverlappingFunc(ctx, roomID, start, end, excludeID)
	}
	return nil, nil
}

func testRange(t *testing.T) model.TimeRange {
	t.Helper()
	start, _ := time.Parse(time.RFC3339, "2026-01-15T09:00:00Z")
	end, _ := time.Parse(time.RFC3339, "2026-01-15T10:00:00Z")
	return model.NewTimeRange(start, end)
}

func TestEnsureNoConflict_NoOverlap(t *testing.T) {
	finder := &mockOverlapFinder{}
	checker := NewChecker(finder)

	err := checker.EnsureNoConflict(context.Background(), "room-1", "Boardroom", testRange(t), "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestEnsureNoConflict_ReportsEarliestHolder(t *testing.T) {
	s1, _ := time.Parse(time.RFC3339, "2026-01-15T08:30:00Z")
	e1, _ := time.Parse(time.RFC3339, "2026-01-15T09:30:00Z")
	s2, _ := time.Parse(time.RFC3339, "2026-01-15T09:30:00Z")
	e2, _ := time.Parse(time.RFC3339, "2026-01-15T10:30:00Z")

	finder := &mockOverlapFinder{
		findOverlappingFunc: func(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]*model.Reservation, error) {
			// Repository contract: sorted by start time ascending.
			return []*model.Reservation{
				{ID: "r1", ReservedBy: "Alice", StartTime: s1, EndTime: e1},
				{ID: "r2", ReservedBy: "Bob", StartTime: s2, EndTime: e2},
			}, nil
		},
	}
	checker := NewChecker(finder)

	err := checker.EnsureNoConflict(context.Background(), "room-1", "Boardroom", testRange(t), "")
	if err == nil {
		t.Fatal("expected conflict error")
	}

	appErr := apperrors.AsAppError(err)
	if appErr == nil {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.HTTPStatus != 409 {
		t.Errorf("expected status 409, got %d", appErr.HTTPStatus)
	}
	if !strings.Contains(appErr.Message, "Alice") {
		t.Errorf("expected message to name the earliest holder, got %q", appErr.Message)
	}
	if !strings.Contains(appErr.Message, "Boardroom") {
		t.Errorf("expected message to name the room, got %q", appErr.Message)
	}
	if appErr.Details["reserved_by"] != "Alice" {
		t.Errorf("expected reserved_by detail Alice, got %v", appErr.Details["reserved_by"])
	}
}

func TestEnsureNoConflict_PassesExcludeID(t *testing.T) {
	finder := &mockOverlapFinder{}
	checker := NewChecker(finder)

	if err := checker.EnsureNoConflict(context.Background(), "room-1", "Boardroom", testRange(t), "self-id"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if finder.capturedExcludeID != "self-id" {
		t.Errorf("expected excludeID to reach the finder, got %q", finder.capturedExcludeID)
	}
}

func TestEnsureNoConflict_FinderError(t *testing.T) {
	finder := &mockOverlapFinder{
		findOverlappingFunc: func(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]*model.Reservation, error) {
			return nil, errors.New("connection reset")
		},
	}
	checker := NewChecker(finder)

	err := checker.EnsureNoConflict(context.Background(), "room-1", "Boardroom", testRange(t), "")
	if err == nil {
		t.Fatal("expected error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != 500 {
		t.Errorf("expected internal error, got %v", err)
	}
}

func TestHasConflict(t *testing.T) {
	finder := &mockOverlapFinder{
		findOverlappingFunc: func(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]*model.Reservation, error) {
			if roomID == "busy" {
				return []*model.Reservation{{ID: "r1"}}, nil
			}
			return nil, nil
		},
	}
	checker := NewChecker(finder)

	got, err := checker.HasConflict(context.Background(), "busy", testRange(t), "")
	if err != nil || !got {
		t.Errorf("HasConflict(busy) = %v, %v; want true, nil", got, err)
	}

	got, err = checker.HasConflict(context.Background(), "free", testRange(t), "")
	if err != nil || got {
		t.Errorf("HasConflict(free) = %v, %v; want false, nil", got, err)
	}
}
