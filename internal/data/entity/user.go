package entity

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is identified by email, phone number or both. Password is only set for
// accounts created through signup.
type User struct {
	Base
	Email        *string  `db:"email"`
	PhoneNumber  *string  `db:"phone_number"`
	PasswordHash *string  `db:"password_hash"`
	Role         UserRole `db:"role"`
	IsActive     bool     `db:"is_active"`
}
