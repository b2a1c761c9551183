package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"heartcoach/internal/data/entity"
	"heartcoach/internal/data/repository"
	"heartcoach/internal/dto/request"
	"heartcoach/internal/dto/response"
	"heartcoach/pkg/utils"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type MedicineService interface {
	Create(ctx context.Context, userID uuid.UUID, req *request.CreateMedicineRequest) (*response.MedicineResponse, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*response.MedicineResponse, error)
	Update(ctx context.Context, userID, id uuid.UUID, req *request.UpdateMedicineRequest) (*response.MedicineResponse, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	ListSchedules(ctx context.Context, userID, id uuid.UUID) ([]response.ScheduleResponse, error)
	// UpdateSchedule changes one schedule and returns its medicine.
	UpdateSchedule(ctx context.Context, userID, scheduleID uuid.UUID, req *request.UpdateScheduleRequest) (*response.MedicineResponse, error)
}

type medicineService struct {
	repo   *repository.Repository // medicine & schedule
	config *utils.Config
	now    func() time.Time
	log    *zap.Logger
}

func NewMedicineService(repo *repository.Repository, config *utils.Config, now func() time.Time, log *zap.Logger) MedicineService {
	return &medicineService{
		repo:   repo,
		config: config,
		now:    now,
		log:    log.With(zap.String("service", "medicine")),
	}
}

func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	d, err := utils.ParseDate(*value)
	if err != nil {
		return nil, invalid(fmt.Sprintf("%s: %v", field, err))
	}
	return &d, nil
}

func normalizeTimeOfDay(value string) (string, error) {
	t, err := utils.ParseTimeOfDay(value)
	if err != nil {
		return "", invalid(err.Error())
	}
	return t.Format(utils.TimeOfDayLayout), nil
}

func buildSchedules(medicine *entity.Medicine, reqs []request.ScheduleRequest, now time.Time) ([]*entity.MedicineSchedule, error) {
	schedules := make([]*entity.MedicineSchedule, 0, len(reqs))
	for _, r := range reqs {
		tod, err := normalizeTimeOfDay(r.TimeOfDay)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, &entity.MedicineSchedule{
			BaseNoDelete: entity.BaseNoDelete{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			MedicineID: medicine.ID,
			UserID:     medicine.UserID,
			TimeOfDay:  tod,
			DoseLabel:  sanitizeText(r.DoseLabel),
			Dosage:     sanitizeText(r.Dosage),
		})
	}
	return schedules, nil
}

func checkWindow(m *entity.Medicine) error {
	if m.EndDate != nil && m.EndDate.Before(m.StartDate) {
		return invalid("end_date must not be before start_date")
	}
	return nil
}

func (s *medicineService) Create(ctx context.Context, userID uuid.UUID, req *request.CreateMedicineRequest) (*response.MedicineResponse, error) {
	now := s.now()

	// 1. Window, start defaults to today
	start, err := parseOptionalDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	if start == nil {
		today := utils.DateOf(now, s.config.Location())
		start = &today
	}
	end, err := parseOptionalDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}

	medicine := &entity.Medicine{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:    userID,
		Name:      strings.TrimSpace(req.Name),
		Notes:     sanitizeText(req.Notes),
		StartDate: *start,
		EndDate:   end,
	}
	if medicine.Name == "" {
		return nil, invalid("Name is required")
	}
	if err := checkWindow(medicine); err != nil {
		return nil, err
	}

	// 2. Schedules
	medicine.Schedules, err = buildSchedules(medicine, req.Schedules, now)
	if err != nil {
		return nil, err
	}

	// 3. Save in one transaction
	if err := s.repo.Medicine.CreateWithSchedules(ctx, medicine); err != nil {
		return nil, err
	}

	s.log.Info("Medicine created",
		zap.String("medicine_id", medicine.ID.String()),
		zap.Int("schedules", len(medicine.Schedules)),
	)
	resp := response.MedicineToResponse(medicine)
	return &resp, nil
}

// load returns the owned medicine with its schedules.
func (s *medicineService) load(ctx context.Context, userID, id uuid.UUID) (*entity.Medicine, error) {
	medicine, err := s.repo.Medicine.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("find medicine %s: %w", id, err)
	}
	if medicine == nil {
		return nil, notFound("Medicine not found")
	}

	medicine.Schedules, err = s.repo.Schedule.FindByMedicine(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("find schedules of medicine %s: %w", id, err)
	}
	return medicine, nil
}

func (s *medicineService) Get(ctx context.Context, userID, id uuid.UUID) (*response.MedicineResponse, error) {
	medicine, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	resp := response.MedicineToResponse(medicine)
	return &resp, nil
}

func (s *medicineService) Update(ctx context.Context, userID, id uuid.UUID, req *request.UpdateMedicineRequest) (*response.MedicineResponse, error) {
	now := s.now()

	// 1. Ownership
	medicine, err := s.repo.Medicine.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("find medicine %s: %w", id, err)
	}
	if medicine == nil {
		return nil, notFound("Medicine not found")
	}

	// 2. Apply present fields
	if req.Name != nil {
		medicine.Name = strings.TrimSpace(*req.Name)
		if medicine.Name == "" {
			return nil, invalid("Name is required")
		}
	}
	if req.Notes != nil {
		medicine.Notes = sanitizeText(req.Notes)
	}
	if req.StartDate != nil {
		start, err := parseOptionalDate("start_date", req.StartDate)
		if err != nil {
			return nil, err
		}
		if start != nil {
			medicine.StartDate = *start
		}
	}
	if req.EndDate != nil {
		medicine.EndDate, err = parseOptionalDate("end_date", req.EndDate)
		if err != nil {
			return nil, err
		}
	}
	if err := checkWindow(medicine); err != nil {
		return nil, err
	}
	medicine.UpdatedAt = now

	// 3. Replacement schedules
	var schedules []*entity.MedicineSchedule
	if req.Schedules != nil {
		schedules, err = buildSchedules(medicine, *req.Schedules, now)
		if err != nil {
			return nil, err
		}
	}

	if err := s.repo.Medicine.Update(ctx, medicine, schedules); err != nil {
		if errors.Is(err, repository.ErrNotAffected) {
			return nil, notFound("Medicine not found")
		}
		return nil, err
	}

	s.log.Info("Medicine updated", zap.String("medicine_id", id.String()))
	return s.Get(ctx, userID, id)
}

func (s *medicineService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	err := s.repo.Medicine.Delete(ctx, id, userID)
	if errors.Is(err, repository.ErrNotAffected) {
		return notFound("Medicine not found")
	}
	if err != nil {
		return err
	}

	s.log.Info("Medicine deleted", zap.String("medicine_id", id.String()))
	return nil
}

func (s *medicineService) ListSchedules(ctx context.Context, userID, id uuid.UUID) ([]response.ScheduleResponse, error) {
	medicine, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return lo.Map(medicine.Schedules, func(sc *entity.MedicineSchedule, _ int) response.ScheduleResponse {
		return response.ScheduleToResponse(sc)
	}), nil
}

func (s *medicineService) UpdateSchedule(ctx context.Context, userID, scheduleID uuid.UUID, req *request.UpdateScheduleRequest) (*response.MedicineResponse, error) {
	schedule, err := s.repo.Schedule.FindByIDAndUser(ctx, scheduleID, userID)
	if err != nil {
		return nil, fmt.Errorf("find schedule %s: %w", scheduleID, err)
	}
	if schedule == nil {
		return nil, notFound("Schedule not found")
	}

	if req.TimeOfDay != nil {
		schedule.TimeOfDay, err = normalizeTimeOfDay(*req.TimeOfDay)
		if err != nil {
			return nil, err
		}
	}
	if req.DoseLabel != nil {
		schedule.DoseLabel = sanitizeText(req.DoseLabel)
	}
	if req.Dosage != nil {
		schedule.Dosage = sanitizeText(req.Dosage)
	}
	schedule.UpdatedAt = s.now()

	if err := s.repo.Schedule.Update(ctx, schedule); err != nil {
		if errors.Is(err, repository.ErrNotAffected) {
			return nil, notFound("Schedule not found")
		}
		return nil, err
	}

	return s.Get(ctx, userID, schedule.MedicineID)
}
