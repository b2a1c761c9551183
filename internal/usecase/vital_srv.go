package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"heartcoach/internal/data/entity"
	"heartcoach/internal/data/repository"
	"heartcoach/internal/dto/request"
	"heartcoach/internal/dto/response"
	"heartcoach/pkg/storage"
	"heartcoach/pkg/utils"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const DefaultExportRows = 500

var vitalCSVHeader = []string{"recorded_at", "reading_time", "systolic_bp", "diastolic_bp", "heart_rate", "spo2", "weight"}

type VitalService interface {
	Record(ctx context.Context, userID uuid.UUID, req *request.CreateVitalRequest) (*response.VitalResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.VitalResponse], error)
	Update(ctx context.Context, userID, id uuid.UUID, req *request.UpdateVitalRequest) (*response.VitalResponse, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	// ExportCSV renders readings in [start, end) oldest first, archiving the file when storage is configured.
	ExportCSV(ctx context.Context, userID uuid.UUID, req *request.ExportVitalsRequest) (*response.VitalExport, error)
}

type vitalService struct {
	repo     repository.VitalRepository
	uploader storage.Uploader
	config   *utils.Config
	now      func() time.Time
	log      *zap.Logger
}

func NewVitalService(
	repo repository.VitalRepository,
	uploader storage.Uploader,
	config *utils.Config,
	now func() time.Time,
	log *zap.Logger,
) VitalService {
	return &vitalService{
		repo:     repo,
		uploader: uploader,
		config:   config,
		now:      now,
		log:      log.With(zap.String("service", "vital")),
	}
}

func (s *vitalService) Record(ctx context.Context, userID uuid.UUID, req *request.CreateVitalRequest) (*response.VitalResponse, error) {
	if !req.HasMetric() {
		return nil, invalid("At least one vital must be provided")
	}

	readingTime := entity.ReadingTime(req.ReadingTime)
	vital := &entity.Vital{
		ID:          uuid.New(),
		UserID:      userID,
		SystolicBP:  req.SystolicBP,
		DiastolicBP: req.DiastolicBP,
		HeartRate:   req.HeartRate,
		SpO2:        req.SpO2,
		Weight:      req.Weight,
		ReadingTime: &readingTime,
		RecordedAt:  s.now(),
	}
	if err := s.repo.Create(ctx, vital); err != nil {
		return nil, err
	}

	s.log.Info("Vital recorded", zap.String("vital_id", vital.ID.String()))
	resp := response.VitalToResponse(vital)
	return &resp, nil
}

func (s *vitalService) ListMine(ctx context.Context, userID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.VitalResponse], error) {
	vitals, err := s.repo.ListByUser(ctx, userID, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	data := lo.Map(vitals, func(v *entity.Vital, _ int) response.VitalResponse {
		return response.VitalToResponse(v)
	})
	return response.NewPaginatedResponse(data, page.Page, page.Limit(), total), nil
}

func (s *vitalService) Update(ctx context.Context, userID, id uuid.UUID, req *request.UpdateVitalRequest) (*response.VitalResponse, error) {
	vital, err := s.repo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("find vital %s: %w", id, err)
	}
	if vital == nil {
		return nil, notFound("Vital not found")
	}

	if req.SystolicBP != nil {
		vital.SystolicBP = req.SystolicBP
	}
	if req.DiastolicBP != nil {
		vital.DiastolicBP = req.DiastolicBP
	}
	if req.HeartRate != nil {
		vital.HeartRate = req.HeartRate
	}
	if req.SpO2 != nil {
		vital.SpO2 = req.SpO2
	}
	if req.Weight != nil {
		vital.Weight = req.Weight
	}
	if req.ReadingTime != nil {
		rt := entity.ReadingTime(*req.ReadingTime)
		vital.ReadingTime = &rt
	}

	if err := s.repo.Update(ctx, vital); err != nil {
		if errors.Is(err, repository.ErrNotAffected) {
			return nil, notFound("Vital not found")
		}
		return nil, err
	}

	resp := response.VitalToResponse(vital)
	return &resp, nil
}

func (s *vitalService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id, userID)
	if errors.Is(err, repository.ErrNotAffected) {
		return notFound("Vital not found")
	}
	return err
}

// parseBound accepts an RFC 3339 timestamp or a date. A date as the upper bound
// includes the whole day.
func (s *vitalService) parseBound(field string, value *string, upper bool) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	v := strings.TrimSpace(*value)
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}

	d, err := utils.ParseDate(v)
	if err != nil {
		return nil, invalid(fmt.Sprintf("%s must be a date (YYYY-MM-DD) or an RFC 3339 timestamp", field))
	}
	t := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.config.Location())
	if upper {
		t = t.AddDate(0, 0, 1)
	}
	return &t, nil
}

func (s *vitalService) ExportCSV(ctx context.Context, userID uuid.UUID, req *request.ExportVitalsRequest) (*response.VitalExport, error) {
	// 1. Range
	start, err := s.parseBound("start", req.Start, false)
	if err != nil {
		return nil, err
	}
	end, err := s.parseBound("end", req.End, true)
	if err != nil {
		return nil, err
	}
	if start != nil && end != nil && !start.Before(*end) {
		return nil, invalid("start must be before end")
	}
	limit := req.MaxRows
	if limit <= 0 {
		limit = DefaultExportRows
	}

	// 2. Rows
	vitals, err := s.repo.ListInRange(ctx, userID, start, end, limit)
	if err != nil {
		return nil, err
	}
	if len(vitals) == 0 {
		return nil, notFound("No vitals found for the given range")
	}

	// 3. Render
	data, err := renderVitalsCSV(vitals)
	if err != nil {
		return nil, fmt.Errorf("render vitals csv: %w", err)
	}
	export := &response.VitalExport{
		Filename: fmt.Sprintf("vitals_%s.csv", s.now().UTC().Format("20060102T150405Z")),
		Rows:     len(vitals),
		Data:     data,
	}

	// 4. Archive, best effort
	if s.uploader != nil {
		key, err := s.uploader.Upload(ctx, userID.String()+"/"+export.Filename, "text/csv", data)
		if err != nil {
			s.log.Warn("Failed to archive vitals export", zap.Error(err), zap.String("user_id", userID.String()))
		} else {
			export.Key = key
		}
	}

	s.log.Info("Vitals exported", zap.String("user_id", userID.String()), zap.Int("rows", export.Rows))
	return export, nil
}

func renderVitalsCSV(vitals []*entity.Vital) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(vitalCSVHeader); err != nil {
		return nil, err
	}

	for _, v := range vitals {
		readingTime := ""
		if v.ReadingTime != nil {
			readingTime = string(*v.ReadingTime)
		}
		record := []string{
			v.RecordedAt.UTC().Format(time.RFC3339),
			readingTime,
			formatInt(v.SystolicBP),
			formatInt(v.DiastolicBP),
			formatInt(v.HeartRate),
			formatInt(v.SpO2),
			formatFloat(v.Weight),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
