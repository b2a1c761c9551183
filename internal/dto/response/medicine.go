package response

import (
	"time"

	"heartcoach/internal/data/entity"
	"heartcoach/pkg/utils"

	"github.com/samber/lo"
)

type ScheduleResponse struct {
	ID         string  `json:"id"`
	MedicineID string  `json:"medicine_id"`
	TimeOfDay  string  `json:"time_of_day"`
	DoseLabel  *string `json:"dose_label,omitempty"`
	Dosage     *string `json:"dosage,omitempty"`
}

type MedicineResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Notes     *string            `json:"notes,omitempty"`
	StartDate string             `json:"start_date"`
	EndDate   *string            `json:"end_date,omitempty"`
	Schedules []ScheduleResponse `json:"schedules"`
	CreatedAt time.Time          `json:"created_at"`
}

// ScheduleStatusResponse is one schedule with its derived status for a date.
type ScheduleStatusResponse struct {
	ScheduleResponse
	Status          entity.IntakeStatus `json:"status"`
	StatusChangedAt *time.Time          `json:"status_changed_at,omitempty"`
	Note            *string             `json:"note,omitempty"`
}

type MedicineStatusResponse struct {
	ID        string                   `json:"id"`
	Name      string                   `json:"name"`
	Notes     *string                  `json:"notes,omitempty"`
	StartDate string                   `json:"start_date"`
	EndDate   *string                  `json:"end_date,omitempty"`
	Date      string                   `json:"date"`
	Schedules []ScheduleStatusResponse `json:"schedules"`
}

type IntakeResponse struct {
	ID              string              `json:"id"`
	ScheduleID      string              `json:"schedule_id"`
	IntakeDate      string              `json:"intake_date"`
	Status          entity.IntakeStatus `json:"status"`
	StatusChangedAt *time.Time          `json:"status_changed_at,omitempty"`
	ScheduledTime   *string             `json:"scheduled_time,omitempty"`
	Note            *string             `json:"note,omitempty"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(utils.DateLayout)
	return &s
}

func ScheduleToResponse(s *entity.MedicineSchedule) ScheduleResponse {
	return ScheduleResponse{
		ID:         s.ID.String(),
		MedicineID: s.MedicineID.String(),
		TimeOfDay:  s.TimeOfDay,
		DoseLabel:  s.DoseLabel,
		Dosage:     s.Dosage,
	}
}

func MedicineToResponse(m *entity.Medicine) MedicineResponse {
	return MedicineResponse{
		ID:        m.ID.String(),
		Name:      m.Name,
		Notes:     m.Notes,
		StartDate: m.StartDate.Format(utils.DateLayout),
		EndDate:   formatDate(m.EndDate),
		Schedules: lo.Map(m.Schedules, func(s *entity.MedicineSchedule, _ int) ScheduleResponse {
			return ScheduleToResponse(s)
		}),
		CreatedAt: m.CreatedAt,
	}
}

func IntakeToResponse(in *entity.DailyIntake) IntakeResponse {
	return IntakeResponse{
		ID:              in.ID.String(),
		ScheduleID:      in.ScheduleID.String(),
		IntakeDate:      in.IntakeDate.Format(utils.DateLayout),
		Status:          in.Status,
		StatusChangedAt: in.StatusChangedAt,
		ScheduledTime:   in.ScheduledTime,
		Note:            in.Note,
	}
}
