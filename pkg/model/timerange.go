package model

import "time"

// TimeRange is a half-open interval [Start, End) over absolute instants.
// All comparisons are instant-to-instant; timezone handling is a
// presentation concern and never reaches this type.
type TimeRange struct {
	Start time.Time `json:"start_time" bson:"start_time"`
	End   time.Time `json:"end_time" bson:"end_time"`
}

func NewTimeRange(start, end time.Time) TimeRange {
	return TimeRange{Start: start, End: end}
}

// Overlaps reports whether two half-open ranges share at least one
// instant: start1 < end2 && end1 > start2. Strict inequalities on both
// sides, so back-to-back ranges (End == other.Start) do not overlap.
// This is the single overlap predicate used for conflict detection.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && r.End.After(other.Start)
}

// IsValid reports whether End is strictly after Start. Zero-length and
// inverted ranges are invalid.
func (r TimeRange) IsValid() bool {
	return r.End.After(r.Start)
}

// DurationMinutes returns whole minutes between End and Start based on
// the timestamp difference. Negative for inverted ranges; callers
// validate with IsValid first.
func (r TimeRange) DurationMinutes() int {
	return int(r.End.Sub(r.Start) / time.Minute)
}
