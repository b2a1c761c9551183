package entity

import (
	"time"

	"github.com/google/uuid"
)

type WaterGoal struct {
	BaseSimple
	UserID uuid.UUID `db:"user_id"`
	GoalML int       `db:"goal_ml"`
}

type WaterIntake struct {
	ID       uuid.UUID `db:"id"`
	UserID   uuid.UUID `db:"user_id"`
	IntakeML int       `db:"intake_ml"`
	Date     time.Time `db:"date"`
}
