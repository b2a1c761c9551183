package entity

import "github.com/google/uuid"

type UserInfo struct {
	BaseNoDelete
	UserID     uuid.UUID `db:"user_id"`
	FirstName  *string   `db:"first_name"`
	LastName   *string   `db:"last_name"`
	BloodGroup *string   `db:"blood_group"`
	Age        *int      `db:"age"`
	Height     *float64  `db:"height"`
	Weight     *float64  `db:"weight"`
	City       *string   `db:"city"`
	Country    *string   `db:"country"`
	Pincode    *string   `db:"pincode"`
	IsActive   bool      `db:"is_active"`
}
