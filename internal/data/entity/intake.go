package entity

import (
	"time"

	"github.com/google/uuid"
)

type IntakeStatus string

const (
	IntakePending IntakeStatus = "pending"
	IntakeTaken   IntakeStatus = "taken"
	IntakeMissed  IntakeStatus = "missed"
	IntakeDelayed IntakeStatus = "delayed"
)

// Recordable reports whether a client may set this status.
func (s IntakeStatus) Recordable() bool {
	switch s {
	case IntakeTaken, IntakeMissed, IntakeDelayed:
		return true
	}
	return false
}

// DailyIntake is the outcome of one schedule on one calendar date. At most one row
// exists per (ScheduleID, IntakeDate); no row means pending.
type DailyIntake struct {
	BaseNoDelete
	UserID          uuid.UUID    `db:"user_id"`
	ScheduleID      uuid.UUID    `db:"schedule_id"`
	IntakeDate      time.Time    `db:"intake_date"`
	Status          IntakeStatus `db:"status"`
	StatusChangedAt *time.Time   `db:"status_changed_at"`
	ScheduledTime   *string      `db:"scheduled_time"`
	Note            *string      `db:"note"`
}
