package contracts

import "time"

// Event types carried in the event-type message header.
const (
	EventTypeReservationCreated = "reservation.created"
)

// ReservationCreatedEvent is the payload published after a reservation
// commits. Consumers must tolerate unknown extra fields.
type ReservationCreatedEvent struct {
	ReservationID string    `json:"reservation_id"`
	RoomID        string    `json:"room_id"`
	RoomName      string    `json:"room_name"`
	ReservedBy    string    `json:"reserved_by"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}
