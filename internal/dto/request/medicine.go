package request

type ScheduleRequest struct {
	TimeOfDay string  `json:"time_of_day" validate:"required,timeofday"`
	DoseLabel *string `json:"dose_label,omitempty" validate:"omitempty,max=100"`
	Dosage    *string `json:"dosage,omitempty" validate:"omitempty,max=100"`
}

type CreateMedicineRequest struct {
	Name      string            `json:"name" validate:"required,max=255"`
	Notes     *string           `json:"notes,omitempty" validate:"omitempty,max=2000"`
	StartDate *string           `json:"start_date,omitempty" validate:"omitempty,isodate"`
	EndDate   *string           `json:"end_date,omitempty" validate:"omitempty,isodate"`
	Schedules []ScheduleRequest `json:"schedules" validate:"required,min=1,dive"`
}

// UpdateMedicineRequest applies only the fields that are present. A non-nil
// Schedules replaces every schedule of the medicine.
type UpdateMedicineRequest struct {
	Name      *string            `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Notes     *string            `json:"notes,omitempty" validate:"omitempty,max=2000"`
	StartDate *string            `json:"start_date,omitempty" validate:"omitempty,isodate"`
	EndDate   *string            `json:"end_date,omitempty" validate:"omitempty,isodate"`
	Schedules *[]ScheduleRequest `json:"schedules,omitempty" validate:"omitempty,min=1,dive"`
}

type UpdateScheduleRequest struct {
	TimeOfDay *string `json:"time_of_day,omitempty" validate:"omitempty,timeofday"`
	DoseLabel *string `json:"dose_label,omitempty" validate:"omitempty,max=100"`
	Dosage    *string `json:"dosage,omitempty" validate:"omitempty,max=100"`
}

type RecordIntakeRequest struct {
	Status     string  `json:"status" validate:"required"`
	ScheduleID string  `json:"schedule_id"`
	IntakeDate *string `json:"intake_date,omitempty" validate:"omitempty,isodate"`
	Note       *string `json:"note,omitempty" validate:"omitempty,max=1000"`
}
