package entity

import (
	"time"

	"github.com/google/uuid"
)

type ReadingTime string

const (
	ReadingMorning   ReadingTime = "morning"
	ReadingAfternoon ReadingTime = "afternoon"
	ReadingEvening   ReadingTime = "evening"
	ReadingNight     ReadingTime = "night"
)

type Vital struct {
	ID          uuid.UUID    `db:"id"`
	UserID      uuid.UUID    `db:"user_id"`
	SystolicBP  *int         `db:"systolic_bp"`
	DiastolicBP *int         `db:"diastolic_bp"`
	HeartRate   *int         `db:"heart_rate"`
	SpO2        *int         `db:"spo2"`
	Weight      *float64     `db:"weight"`
	ReadingTime *ReadingTime `db:"reading_time"`
	RecordedAt  time.Time    `db:"recorded_at"`
}
