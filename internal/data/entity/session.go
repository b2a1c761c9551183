package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session backs one refresh token.
type Session struct {
	BaseSimple
	UserID     uuid.UUID  `db:"user_id"`
	Token      uuid.UUID  `db:"token"`
	DeviceInfo *string    `db:"device_info"`
	IPAddress  *string    `db:"ip_address"`
	ExpiresAt  time.Time  `db:"expires_at"`
	RevokedAt  *time.Time `db:"revoked_at"`
}
