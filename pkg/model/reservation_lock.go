package model

import "time"

// ReservationLock is an advisory lock serializing reservation writes per
// room. The lock id is derived from the room id, so two concurrent
// conflict checks for the same room cannot interleave with each other's
// persist step. ExpiresAt backs a TTL index that clears locks orphaned
// by a crashed request.
type ReservationLock struct {
	ID        string    `bson:"_id" json:"id"`
	RoomID    string    `bson:"room_id" json:"room_id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
