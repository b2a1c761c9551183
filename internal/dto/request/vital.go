package request

type CreateVitalRequest struct {
	SystolicBP  *int     `json:"systolic_bp,omitempty" validate:"omitempty,gt=0,lt=300"`
	DiastolicBP *int     `json:"diastolic_bp,omitempty" validate:"omitempty,gt=0,lt=300"`
	HeartRate   *int     `json:"heart_rate,omitempty" validate:"omitempty,gt=0,lt=250"`
	SpO2        *int     `json:"spo2,omitempty" validate:"omitempty,gt=0,lte=100"`
	Weight      *float64 `json:"weight,omitempty" validate:"omitempty,gt=0,lt=500"`
	ReadingTime string   `json:"reading_time" validate:"required,oneof=morning afternoon evening night"`
}

// HasMetric reports whether at least one measurement is present.
func (r CreateVitalRequest) HasMetric() bool {
	return r.SystolicBP != nil || r.DiastolicBP != nil || r.HeartRate != nil || r.SpO2 != nil || r.Weight != nil
}

type UpdateVitalRequest struct {
	SystolicBP  *int     `json:"systolic_bp,omitempty" validate:"omitempty,gt=0,lt=300"`
	DiastolicBP *int     `json:"diastolic_bp,omitempty" validate:"omitempty,gt=0,lt=300"`
	HeartRate   *int     `json:"heart_rate,omitempty" validate:"omitempty,gt=0,lt=250"`
	SpO2        *int     `json:"spo2,omitempty" validate:"omitempty,gt=0,lte=100"`
	Weight      *float64 `json:"weight,omitempty" validate:"omitempty,gt=0,lt=500"`
	ReadingTime *string  `json:"reading_time,omitempty" validate:"omitempty,oneof=morning afternoon evening night"`
}

type ExportVitalsRequest struct {
	Start   *string `validate:"omitempty"`
	End     *string `validate:"omitempty"`
	MaxRows int     `validate:"min=1,max=5000"`
}
