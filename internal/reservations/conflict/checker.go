// Package conflict decides whether a requested interval can be booked
// on a room. It is the single owner of the overlap rule: two
// reservations collide when their half-open intervals intersect, so a
// meeting ending at 10:00 never collides with one starting at 10:00.
package conflict

import (
	"context"
	"fmt"
	"time"

	apperrors "huddle/pkg/errors"
	"huddle/pkg/model"
)

// OverlapFinder is the slice of the reservation repository the checker
// needs.
type OverlapFinder interface {
	FindOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]*model.Reservation, error)
}

type Checker struct {
	finder OverlapFinder
}

func NewChecker(finder OverlapFinder) *Checker {
	return &Checker{finder: finder}
}

// HasConflict reports whether any existing reservation on roomID
// overlaps rng. excludeID, when non-empty, is ignored in the scan so an
// update does not collide with itself.
func (c *Checker) HasConflict(ctx context.Context, roomID string, rng model.TimeRange, excludeID string) (bool, error) {
	existing, err := c.finder.FindOverlapping(ctx, roomID, rng.Start, rng.End, excludeID)
	if err != nil {
		return false, err
	}
	return len(existing) > 0, nil
}

// EnsureNoConflict returns a conflict error naming the room, the
// requested interval, and the holder of the earliest overlapping
// reservation. roomName is used for the message only; lookups key on
// roomID.
func (c *Checker) EnsureNoConflict(ctx context.Context, roomID, roomName string, rng model.TimeRange, excludeID string) error {
	existing, err := c.finder.FindOverlapping(ctx, roomID, rng.Start, rng.End, excludeID)
	if err != nil {
		return apperrors.Internal("Failed to check existing reservations", err)
	}
	if len(existing) == 0 {
		return nil
	}

	// FindOverlapping sorts by start time, so the blame is deterministic.
	first := existing[0]
	return apperrors.Conflict(fmt.Sprintf(
		"Room %q is already reserved by %s from %s to %s",
		roomName,
		first.ReservedBy,
		first.StartTime.Format(time.RFC3339),
		first.EndTime.Format(time.RFC3339),
	)).WithDetails(map[string]any{
		"room_id":              roomID,
		"requested_start_time": rng.Start.Format(time.RFC3339),
		"requested_end_time":   rng.End.Format(time.RFC3339),
		"reserved_by":          first.ReservedBy,
	})
}
