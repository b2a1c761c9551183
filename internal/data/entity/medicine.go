package entity

import (
	"time"

	"github.com/google/uuid"
)

type Medicine struct {
	BaseNoDelete
	UserID    uuid.UUID  `db:"user_id"`
	Name      string     `db:"name"`
	Notes     *string    `db:"notes"`
	StartDate time.Time  `db:"start_date"`
	EndDate   *time.Time `db:"end_date"`

	Schedules []*MedicineSchedule `db:"-"`
}

// CoversDate reports whether date falls inside [StartDate, EndDate]. A nil EndDate is open-ended.
func (m *Medicine) CoversDate(date time.Time) bool {
	if date.Before(m.StartDate) {
		return false
	}
	return m.EndDate == nil || !date.After(*m.EndDate)
}

// MedicineSchedule is one dose time of a medicine. TimeOfDay is "HH:MM:SS".
type MedicineSchedule struct {
	BaseNoDelete
	MedicineID uuid.UUID `db:"medicine_id"`
	UserID     uuid.UUID `db:"user_id"`
	TimeOfDay  string    `db:"time_of_day"`
	DoseLabel  *string   `db:"dose_label"`
	Dosage     *string   `db:"dosage"`
}
