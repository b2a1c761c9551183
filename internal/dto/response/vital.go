package response

import (
	"time"

	"heartcoach/internal/data/entity"
)

type VitalResponse struct {
	ID          string              `json:"id"`
	SystolicBP  *int                `json:"systolic_bp,omitempty"`
	DiastolicBP *int                `json:"diastolic_bp,omitempty"`
	HeartRate   *int                `json:"heart_rate,omitempty"`
	SpO2        *int                `json:"spo2,omitempty"`
	Weight      *float64            `json:"weight,omitempty"`
	ReadingTime *entity.ReadingTime `json:"reading_time,omitempty"`
	RecordedAt  time.Time           `json:"recorded_at"`
}

func VitalToResponse(v *entity.Vital) VitalResponse {
	return VitalResponse{
		ID:          v.ID.String(),
		SystolicBP:  v.SystolicBP,
		DiastolicBP: v.DiastolicBP,
		HeartRate:   v.HeartRate,
		SpO2:        v.SpO2,
		Weight:      v.Weight,
		ReadingTime: v.ReadingTime,
		RecordedAt:  v.RecordedAt,
	}
}

// VitalExport is a rendered CSV export. Key is set when the file was archived.
type VitalExport struct {
	Filename string
	Rows     int
	Data     []byte
	Key      string
}
