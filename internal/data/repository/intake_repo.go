package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"heartcoach/internal/data/entity"
	"heartcoach/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type IntakeRepository interface {
	Find(ctx context.Context, scheduleID uuid.UUID, date time.Time) (*entity.DailyIntake, error)
	// Create returns ErrDuplicate when a row for (schedule, date) already exists.
	Create(ctx context.Context, intake *entity.DailyIntake) error
	// Update overwrites status, note and status_changed_at of an existing row.
	Update(ctx context.Context, intake *entity.DailyIntake) error
	ListByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) ([]*entity.DailyIntake, error)
	ListByMedicineInRange(ctx context.Context, userID, medicineID uuid.UUID, from, to time.Time) ([]*entity.DailyIntake, error)
}

type intakeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewIntakeRepository(db database.PgxIface, log *zap.Logger) IntakeRepository {
	return &intakeRepository{
		db:  db,
		log: log.With(zap.String("repository", "intake")),
	}
}

const intakeColumns = `i.id, i.user_id, i.schedule_id, i.intake_date, i.status, i.status_changed_at,
	i.scheduled_time::text, i.note, i.created_at, i.updated_at`

func scanIntake(row pgx.Row) (*entity.DailyIntake, error) {
	var in entity.DailyIntake
	err := row.Scan(
		&in.ID,
		&in.UserID,
		&in.ScheduleID,
		&in.IntakeDate,
		&in.Status,
		&in.StatusChangedAt,
		&in.ScheduledTime,
		&in.Note,
		&in.CreatedAt,
		&in.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &in, nil
}

func (r *intakeRepository) Find(ctx context.Context, scheduleID uuid.UUID, date time.Time) (*entity.DailyIntake, error) {
	query := `SELECT ` + intakeColumns + `
		FROM daily_medicine_intakes i
		WHERE i.schedule_id = $1 AND i.intake_date = $2
	`

	in, err := scanIntake(r.db.QueryRow(ctx, query, scheduleID, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find intake",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
			zap.Time("date", date),
		)
		return nil, fmt.Errorf("find intake of schedule %s: %w", scheduleID, err)
	}

	return in, nil
}

func (r *intakeRepository) Create(ctx context.Context, intake *entity.DailyIntake) error {
	query := `
		INSERT INTO daily_medicine_intakes (id, user_id, schedule_id, intake_date, status,
		                                    status_changed_at, scheduled_time, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::time, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		intake.ID,
		intake.UserID,
		intake.ScheduleID,
		intake.IntakeDate,
		intake.Status,
		intake.StatusChangedAt,
		intake.ScheduledTime,
		intake.Note,
		intake.CreatedAt,
		intake.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("create intake of schedule %s: %w", intake.ScheduleID, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create intake",
			zap.Error(err),
			zap.String("schedule_id", intake.ScheduleID.String()),
		)
		return fmt.Errorf("create intake of schedule %s: %w", intake.ScheduleID, err)
	}

	return nil
}

func (r *intakeRepository) Update(ctx context.Context, intake *entity.DailyIntake) error {
	query := `
		UPDATE daily_medicine_intakes
		SET status = $2, note = $3, status_changed_at = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		intake.ID,
		intake.Status,
		intake.Note,
		intake.StatusChangedAt,
		intake.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update intake",
			zap.Error(err),
			zap.String("intake_id", intake.ID.String()),
		)
		return fmt.Errorf("update intake %s: %w", intake.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update intake %s: %w", intake.ID, ErrNotAffected)
	}

	return nil
}

func (r *intakeRepository) ListByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) ([]*entity.DailyIntake, error) {
	query := `SELECT ` + intakeColumns + `
		FROM daily_medicine_intakes i
		WHERE i.user_id = $1 AND i.intake_date = $2
	`
	return r.list(ctx, query, userID, date)
}

func (r *intakeRepository) ListByMedicineInRange(ctx context.Context, userID, medicineID uuid.UUID, from, to time.Time) ([]*entity.DailyIntake, error) {
	query := `SELECT ` + intakeColumns + `
		FROM daily_medicine_intakes i
		JOIN medicine_schedules s ON s.id = i.schedule_id
		WHERE i.user_id = $1 AND s.medicine_id = $2
		  AND i.intake_date BETWEEN $3 AND $4
		ORDER BY i.intake_date DESC, i.scheduled_time
	`
	return r.list(ctx, query, userID, medicineID, from, to)
}

func (r *intakeRepository) list(ctx context.Context, query string, args ...any) ([]*entity.DailyIntake, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list intakes", zap.Error(err))
		return nil, fmt.Errorf("list intakes: %w", err)
	}
	defer rows.Close()

	var intakes []*entity.DailyIntake
	for rows.Next() {
		in, err := scanIntake(rows)
		if err != nil {
			r.log.Error("Failed to scan intake row", zap.Error(err))
			return nil, fmt.Errorf("scan intake row: %w", err)
		}
		intakes = append(intakes, in)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate intake rows: %w", err)
	}

	return intakes, nil
}
