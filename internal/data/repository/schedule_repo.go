package repository

import (
	"context"
	"errors"
	"fmt"

	"heartcoach/internal/data/entity"
	"heartcoach/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ScheduleRepository reads and edits the dose times of a medicine.
type ScheduleRepository interface {
	// FindForMedicine returns the schedule only if it belongs to both the medicine and the user.
	FindForMedicine(ctx context.Context, id, medicineID, userID uuid.UUID) (*entity.MedicineSchedule, error)
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entity.MedicineSchedule, error)
	FindByMedicine(ctx context.Context, medicineID, userID uuid.UUID) ([]*entity.MedicineSchedule, error)
	Update(ctx context.Context, schedule *entity.MedicineSchedule) error
}

type scheduleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewScheduleRepository(db database.PgxIface, log *zap.Logger) ScheduleRepository {
	return &scheduleRepository{
		db:  db,
		log: log.With(zap.String("repository", "medicine_schedule")),
	}
}

const scheduleColumns = `id, medicine_id, user_id, time_of_day::text, dose_label, dosage, created_at, updated_at`

func scanSchedule(row pgx.Row) (*entity.MedicineSchedule, error) {
	var s entity.MedicineSchedule
	err := row.Scan(
		&s.ID,
		&s.MedicineID,
		&s.UserID,
		&s.TimeOfDay,
		&s.DoseLabel,
		&s.Dosage,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *scheduleRepository) FindForMedicine(ctx context.Context, id, medicineID, userID uuid.UUID) (*entity.MedicineSchedule, error) {
	query := `SELECT ` + scheduleColumns + `
		FROM medicine_schedules
		WHERE id = $1 AND medicine_id = $2 AND user_id = $3
	`

	s, err := scanSchedule(r.db.QueryRow(ctx, query, id, medicineID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find schedule",
			zap.Error(err),
			zap.String("schedule_id", id.String()),
			zap.String("medicine_id", medicineID.String()),
		)
		return nil, fmt.Errorf("find schedule %s: %w", id, err)
	}

	return s, nil
}

func (r *scheduleRepository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entity.MedicineSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM medicine_schedules WHERE id = $1 AND user_id = $2`

	s, err := scanSchedule(r.db.QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find schedule by ID",
			zap.Error(err),
			zap.String("schedule_id", id.String()),
		)
		return nil, fmt.Errorf("find schedule %s: %w", id, err)
	}

	return s, nil
}

func (r *scheduleRepository) FindByMedicine(ctx context.Context, medicineID, userID uuid.UUID) ([]*entity.MedicineSchedule, error) {
	query := `SELECT ` + scheduleColumns + `
		FROM medicine_schedules
		WHERE medicine_id = $1 AND user_id = $2
		ORDER BY time_of_day
	`

	rows, err := r.db.Query(ctx, query, medicineID, userID)
	if err != nil {
		r.log.Error("Failed to find schedules by medicine",
			zap.Error(err),
			zap.String("medicine_id", medicineID.String()),
		)
		return nil, fmt.Errorf("find schedules of medicine %s: %w", medicineID, err)
	}
	defer rows.Close()

	var schedules []*entity.MedicineSchedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			r.log.Error("Failed to scan schedule row", zap.Error(err))
			return nil, fmt.Errorf("scan schedule row: %w", err)
		}
		schedules = append(schedules, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedule rows: %w", err)
	}

	return schedules, nil
}

func (r *scheduleRepository) Update(ctx context.Context, schedule *entity.MedicineSchedule) error {
	query := `
		UPDATE medicine_schedules
		SET time_of_day = $3::time, dose_label = $4, dosage = $5, updated_at = $6
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.db.Exec(ctx, query,
		schedule.ID,
		schedule.UserID,
		schedule.TimeOfDay,
		schedule.DoseLabel,
		schedule.Dosage,
		schedule.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update schedule",
			zap.Error(err),
			zap.String("schedule_id", schedule.ID.String()),
		)
		return fmt.Errorf("update schedule %s: %w", schedule.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update schedule %s: %w", schedule.ID, ErrNotAffected)
	}

	return nil
}
