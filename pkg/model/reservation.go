package model

import "time"

// Reservation is a committed booking of one room for the half-open
// interval [StartTime, EndTime). RoomID never changes after creation.
type Reservation struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RoomID     string    `json:"room_id" bson:"room_id" validate:"required,mongodb"`
	ReservedBy string    `json:"reserved_by" bson:"reserved_by" validate:"required,min=1,max=100"`
	Title      string    `json:"title,omitempty" bson:"title,omitempty" validate:"omitempty,max=200"`
	StartTime  time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime    time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Notes      string    `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=2000"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Range returns the reserved interval.
func (r *Reservation) Range() TimeRange {
	return TimeRange{Start: r.StartTime, End: r.EndTime}
}

// ReservationUpdate carries a partial update. Time fields update
// independently of the descriptive fields; only supplied values are
// applied.
type ReservationUpdate struct {
	ReservedBy *string    `json:"reserved_by,omitempty" validate:"omitempty,min=1,max=100"`
	Title      *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	StartTime  *time.Time `json:"start_time,omitempty"`
	EndTime    *time.Time `json:"end_time,omitempty"`
	Notes      *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// TouchesTime reports whether the update supplies either time field and
// therefore requires a fresh conflict check.
func (u *ReservationUpdate) TouchesTime() bool {
	return u.StartTime != nil || u.EndTime != nil
}

// RoomAvailability is a single room's reservations touching one calendar
// day, earliest first.
type RoomAvailability struct {
	Date         string         `json:"date"`
	RoomID       string         `json:"room_id"`
	RoomName     string         `json:"room_name"`
	Reservations []*Reservation `json:"reservations"`
	Total        int            `json:"total"`
}
