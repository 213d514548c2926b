package model

import "time"

// Room is a bookable conference room. Inactive rooms stay queryable and
// keep their reservation history; excluding them from new-booking UIs is
// a caller concern.
type Room struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string    `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Capacity    int       `json:"capacity" bson:"capacity" validate:"required,min=1"`
	Floor       string    `json:"floor,omitempty" bson:"floor,omitempty" validate:"omitempty,max=50"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	Amenities   []string  `json:"amenities" bson:"amenities" validate:"omitempty,dive,required"`
	Active      bool      `json:"active" bson:"active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// RoomCreate is the create payload. Active is a pointer so an absent
// flag (default active) is distinguishable from an explicit false:
// rooms can be created inactive. There is no id field; identity is
// assigned on insert.
type RoomCreate struct {
	Name        string   `json:"name" validate:"required,min=1,max=100"`
	Capacity    int      `json:"capacity" validate:"required,min=1"`
	Floor       string   `json:"floor,omitempty" validate:"omitempty,max=50"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	Amenities   []string `json:"amenities" validate:"omitempty,dive,required"`
	Active      *bool    `json:"active,omitempty"`
}

// RoomUpdate carries a partial update. Nil pointer fields leave the
// existing value untouched; this is apply-if-present, not set-to-null.
type RoomUpdate struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Capacity    *int      `json:"capacity,omitempty" validate:"omitempty,min=1"`
	Floor       *string   `json:"floor,omitempty" validate:"omitempty,max=50"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	Amenities   *[]string `json:"amenities,omitempty" validate:"omitempty,dive,required"`
	Active      *bool     `json:"active,omitempty"`
}
