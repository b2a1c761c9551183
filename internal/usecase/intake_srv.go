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
	"heartcoach/internal/metrics"
	"heartcoach/pkg/events"
	"heartcoach/pkg/utils"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	defaultHistoryDays = 7
	maxHistoryDays     = 366
)

// IntakeService reconciles what the user reports against their schedules. Intake rows
// are written only when the user reports something; a schedule without a row is pending.
type IntakeService interface {
	RecordIntake(ctx context.Context, userID, medicineID uuid.UUID, req *request.RecordIntakeRequest) (*response.IntakeResponse, error)
	ListMedicinesWithTodayStatus(ctx context.Context, userID uuid.UUID) ([]response.MedicineStatusResponse, error)
	IntakeHistory(ctx context.Context, userID, medicineID uuid.UUID, from, to *string) ([]response.IntakeResponse, error)
}

type intakeService struct {
	repo      *repository.Repository // medicine, schedule & intake
	publisher events.Publisher
	metrics   metrics.Recorder
	config    *utils.Config
	now       func() time.Time
	log       *zap.Logger
}

func NewIntakeService(
	repo *repository.Repository,
	publisher events.Publisher,
	recorder metrics.Recorder,
	config *utils.Config,
	now func() time.Time,
	log *zap.Logger,
) IntakeService {
	return &intakeService{
		repo:      repo,
		publisher: publisher,
		metrics:   recorder,
		config:    config,
		now:       now,
		log:       log.With(zap.String("service", "intake")),
	}
}

// DeriveStatus is the status shown for a schedule on a date given its intake row, if any.
func DeriveStatus(intake *entity.DailyIntake) entity.IntakeStatus {
	if intake == nil {
		return entity.IntakePending
	}
	return intake.Status
}

func (s *intakeService) today() time.Time {
	return utils.DateOf(s.now(), s.config.Location())
}

func (s *intakeService) RecordIntake(ctx context.Context, userID, medicineID uuid.UUID, req *request.RecordIntakeRequest) (*response.IntakeResponse, error) {
	// 1. Medicine must be owned
	medicine, err := s.repo.Medicine.FindByIDAndUser(ctx, medicineID, userID)
	if err != nil {
		return nil, fmt.Errorf("find medicine %s: %w", medicineID, err)
	}
	if medicine == nil {
		return nil, notFound("Medicine not found")
	}

	// 2. Schedule must belong to the medicine and the user
	if strings.TrimSpace(req.ScheduleID) == "" {
		return nil, invalid("schedule_id is required")
	}
	scheduleID, err := uuid.Parse(req.ScheduleID)
	if err != nil {
		return nil, invalid("schedule_id must be a valid UUID")
	}
	schedule, err := s.repo.Schedule.FindForMedicine(ctx, scheduleID, medicineID, userID)
	if err != nil {
		return nil, fmt.Errorf("find schedule %s: %w", scheduleID, err)
	}
	if schedule == nil {
		return nil, notFound("Schedule not found for this medicine")
	}

	// 3. Only reported outcomes can be recorded
	status := entity.IntakeStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !status.Recordable() {
		return nil, invalid("Status must be one of: taken, missed, delayed")
	}

	// 4. Date defaults to today and must fall inside the medicine window
	date := s.today()
	if req.IntakeDate != nil && strings.TrimSpace(*req.IntakeDate) != "" {
		date, err = utils.ParseDate(*req.IntakeDate)
		if err != nil {
			return nil, invalid(err.Error())
		}
	}
	if date.Before(medicine.StartDate) {
		return nil, invalid("Intake date is before the medicine start date")
	}
	if !medicine.CoversDate(date) {
		return nil, invalid("Intake date is after the medicine end date")
	}

	// 5. Create or overwrite
	intake, created, err := s.upsert(ctx, schedule, date, status, sanitizeText(req.Note))
	if err != nil {
		return nil, err
	}
	s.metrics.RecordIntakeUpsert(created)

	// 6. Notify
	s.publish(ctx, medicineID, intake)

	s.log.Info("Intake recorded",
		zap.String("schedule_id", schedule.ID.String()),
		zap.String("date", date.Format(utils.DateLayout)),
		zap.String("status", string(status)),
		zap.Bool("created", created),
	)
	resp := response.IntakeToResponse(intake)
	return &resp, nil
}

// upsert writes the row for (schedule, date). A concurrent first write surfaces as
// ErrDuplicate on insert and is retried as an update of the winner's row.
func (s *intakeService) upsert(
	ctx context.Context,
	schedule *entity.MedicineSchedule,
	date time.Time,
	status entity.IntakeStatus,
	note *string,
) (*entity.DailyIntake, bool, error) {
	now := s.now()

	existing, err := s.repo.Intake.Find(ctx, schedule.ID, date)
	if err != nil {
		return nil, false, fmt.Errorf("find intake: %w", err)
	}

	if existing == nil {
		scheduledTime := schedule.TimeOfDay
		intake := &entity.DailyIntake{
			BaseNoDelete: entity.BaseNoDelete{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			UserID:          schedule.UserID,
			ScheduleID:      schedule.ID,
			IntakeDate:      date,
			Status:          status,
			StatusChangedAt: &now,
			ScheduledTime:   &scheduledTime,
			Note:            note,
		}

		err = s.repo.Intake.Create(ctx, intake)
		if err == nil {
			return intake, true, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, false, err
		}

		s.metrics.RecordIntakeDuplicateRetry()
		s.log.Debug("Intake insert lost race, retrying as update", zap.String("schedule_id", schedule.ID.String()))

		existing, err = s.repo.Intake.Find(ctx, schedule.ID, date)
		if err != nil {
			return nil, false, fmt.Errorf("find intake after duplicate insert: %w", err)
		}
		if existing == nil {
			return nil, false, fmt.Errorf("intake of schedule %s missing after duplicate insert", schedule.ID)
		}
	}

	existing.Status = status
	existing.Note = note
	existing.StatusChangedAt = &now
	existing.UpdatedAt = now
	if err := s.repo.Intake.Update(ctx, existing); err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (s *intakeService) publish(ctx context.Context, medicineID uuid.UUID, intake *entity.DailyIntake) {
	event := events.Event{
		Type:       events.TypeIntakeStatusChanged,
		UserID:     intake.UserID,
		MedicineID: medicineID,
		ScheduleID: intake.ScheduleID,
		Date:       intake.IntakeDate.Format(utils.DateLayout),
		Status:     string(intake.Status),
		At:         *intake.StatusChangedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("Failed to publish intake event",
			zap.Error(err),
			zap.String("schedule_id", intake.ScheduleID.String()),
		)
	}
}

func (s *intakeService) ListMedicinesWithTodayStatus(ctx context.Context, userID uuid.UUID) ([]response.MedicineStatusResponse, error) {
	today := s.today()

	medicines, err := s.repo.Medicine.ListByUserWithSchedules(ctx, userID)
	if err != nil {
		return nil, err
	}
	intakes, err := s.repo.Intake.ListByUserAndDate(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	bySchedule := lo.KeyBy(intakes, func(in *entity.DailyIntake) uuid.UUID {
		return in.ScheduleID
	})

	date := today.Format(utils.DateLayout)
	return lo.Map(medicines, func(m *entity.Medicine, _ int) response.MedicineStatusResponse {
		base := response.MedicineToResponse(m)
		return response.MedicineStatusResponse{
			ID:        base.ID,
			Name:      base.Name,
			Notes:     base.Notes,
			StartDate: base.StartDate,
			EndDate:   base.EndDate,
			Date:      date,
			Schedules: lo.Map(m.Schedules, func(sc *entity.MedicineSchedule, _ int) response.ScheduleStatusResponse {
				intake := bySchedule[sc.ID]
				item := response.ScheduleStatusResponse{
					ScheduleResponse: response.ScheduleToResponse(sc),
					Status:           DeriveStatus(intake),
				}
				if intake != nil {
					item.StatusChangedAt = intake.StatusChangedAt
					item.Note = intake.Note
				}
				return item
			}),
		}
	}), nil
}

func (s *intakeService) IntakeHistory(ctx context.Context, userID, medicineID uuid.UUID, from, to *string) ([]response.IntakeResponse, error) {
	medicine, err := s.repo.Medicine.FindByIDAndUser(ctx, medicineID, userID)
	if err != nil {
		return nil, fmt.Errorf("find medicine %s: %w", medicineID, err)
	}
	if medicine == nil {
		return nil, notFound("Medicine not found")
	}

	end, err := parseOptionalDate("to", to)
	if err != nil {
		return nil, err
	}
	if end == nil {
		today := s.today()
		end = &today
	}
	start, err := parseOptionalDate("from", from)
	if err != nil {
		return nil, err
	}
	if start == nil {
		d := end.AddDate(0, 0, -(defaultHistoryDays - 1))
		start = &d
	}
	if start.After(*end) {
		return nil, invalid("from must not be after to")
	}
	if end.Sub(*start) > maxHistoryDays*24*time.Hour {
		return nil, invalid(fmt.Sprintf("Range must not exceed %d days", maxHistoryDays))
	}

	intakes, err := s.repo.Intake.ListByMedicineInRange(ctx, userID, medicineID, *start, *end)
	if err != nil {
		return nil, err
	}
	return lo.Map(intakes, func(in *entity.DailyIntake, _ int) response.IntakeResponse {
		return response.IntakeToResponse(in)
	}), nil
}
