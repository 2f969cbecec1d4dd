package entity

import "time"

type Bookmark struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	VehicleID string    `json:"vehicleId"`
	CreatedAt time.Time `json:"createdAt"`
}
