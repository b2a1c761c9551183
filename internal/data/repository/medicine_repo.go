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
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type MedicineRepository interface {
	// CreateWithSchedules inserts the medicine and its schedules in one transaction.
	CreateWithSchedules(ctx context.Context, medicine *entity.Medicine) error
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entity.Medicine, error)
	// ListByUserWithSchedules loads every medicine of the user with its schedules in a single query.
	ListByUserWithSchedules(ctx context.Context, userID uuid.UUID) ([]*entity.Medicine, error)
	// Update writes the scalar fields; a non-nil schedules slice replaces the existing schedules.
	Update(ctx context.Context, medicine *entity.Medicine, schedules []*entity.MedicineSchedule) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type medicineRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMedicineRepository(db database.PgxIface, log *zap.Logger) MedicineRepository {
	return &medicineRepository{
		db:  db,
		log: log.With(zap.String("repository", "medicine")),
	}
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertSchedule(ctx context.Context, q execer, s *entity.MedicineSchedule) error {
	query := `
		INSERT INTO medicine_schedules (id, medicine_id, user_id, time_of_day, dose_label, dosage, created_at, updated_at)
		VALUES ($1, $2, $3, $4::time, $5, $6, $7, $8)
	`
	_, err := q.Exec(ctx, query,
		s.ID,
		s.MedicineID,
		s.UserID,
		s.TimeOfDay,
		s.DoseLabel,
		s.Dosage,
		s.CreatedAt,
		s.UpdatedAt,
	)
	return err
}

func (r *medicineRepository) CreateWithSchedules(ctx context.Context, medicine *entity.Medicine) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create medicine: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO medicines (id, user_id, name, notes, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.Exec(ctx, query,
		medicine.ID,
		medicine.UserID,
		medicine.Name,
		medicine.Notes,
		medicine.StartDate,
		medicine.EndDate,
		medicine.CreatedAt,
		medicine.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create medicine",
			zap.Error(err),
			zap.String("user_id", medicine.UserID.String()),
		)
		return fmt.Errorf("create medicine: %w", err)
	}

	for _, s := range medicine.Schedules {
		if err := insertSchedule(ctx, tx, s); err != nil {
			r.log.Error("Failed to create medicine schedule",
				zap.Error(err),
				zap.String("medicine_id", medicine.ID.String()),
			)
			return fmt.Errorf("create schedule of medicine %s: %w", medicine.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create medicine: %w", err)
	}
	return nil
}

func (r *medicineRepository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entity.Medicine, error) {
	query := `
		SELECT id, user_id, name, notes, start_date, end_date, created_at, updated_at
		FROM medicines
		WHERE id = $1 AND user_id = $2
	`

	var m entity.Medicine
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&m.ID,
		&m.UserID,
		&m.Name,
		&m.Notes,
		&m.StartDate,
		&m.EndDate,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find medicine",
			zap.Error(err),
			zap.String("medicine_id", id.String()),
		)
		return nil, fmt.Errorf("find medicine %s: %w", id, err)
	}

	return &m, nil
}

func (r *medicineRepository) ListByUserWithSchedules(ctx context.Context, userID uuid.UUID) ([]*entity.Medicine, error) {
	query := `
		SELECT m.id, m.user_id, m.name, m.notes, m.start_date, m.end_date, m.created_at, m.updated_at,
		       s.id, s.time_of_day::text, s.dose_label, s.dosage, s.created_at, s.updated_at
		FROM medicines m
		LEFT JOIN medicine_schedules s ON s.medicine_id = m.id
		WHERE m.user_id = $1
		ORDER BY m.created_at DESC, m.id, s.time_of_day
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to list medicines",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("list medicines of %s: %w", userID, err)
	}
	defer rows.Close()

	var medicines []*entity.Medicine
	byID := make(map[uuid.UUID]*entity.Medicine)

	for rows.Next() {
		var (
			m                                entity.Medicine
			scheduleID                       *uuid.UUID
			timeOfDay, doseLabel, dosage     *string
			scheduleCreated, scheduleUpdated *time.Time
		)
		err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.Name,
			&m.Notes,
			&m.StartDate,
			&m.EndDate,
			&m.CreatedAt,
			&m.UpdatedAt,
			&scheduleID,
			&timeOfDay,
			&doseLabel,
			&dosage,
			&scheduleCreated,
			&scheduleUpdated,
		)
		if err != nil {
			r.log.Error("Failed to scan medicine row", zap.Error(err))
			return nil, fmt.Errorf("scan medicine row: %w", err)
		}

		current, ok := byID[m.ID]
		if !ok {
			current = &m
			byID[m.ID] = current
			medicines = append(medicines, current)
		}

		if scheduleID != nil {
			s := &entity.MedicineSchedule{
				MedicineID: current.ID,
				UserID:     current.UserID,
				DoseLabel:  doseLabel,
				Dosage:     dosage,
			}
			s.ID = *scheduleID
			if timeOfDay != nil {
				s.TimeOfDay = *timeOfDay
			}
			if scheduleCreated != nil {
				s.CreatedAt = *scheduleCreated
			}
			if scheduleUpdated != nil {
				s.UpdatedAt = *scheduleUpdated
			}
			current.Schedules = append(current.Schedules, s)
		}
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate medicine rows: %w", err)
	}

	return medicines, nil
}

func (r *medicineRepository) Update(ctx context.Context, medicine *entity.Medicine, schedules []*entity.MedicineSchedule) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update medicine: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE medicines
		SET name = $3, notes = $4, start_date = $5, end_date = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2
	`
	result, err := tx.Exec(ctx, query,
		medicine.ID,
		medicine.UserID,
		medicine.Name,
		medicine.Notes,
		medicine.StartDate,
		medicine.EndDate,
		medicine.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update medicine",
			zap.Error(err),
			zap.String("medicine_id", medicine.ID.String()),
		)
		return fmt.Errorf("update medicine %s: %w", medicine.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update medicine %s: %w", medicine.ID, ErrNotAffected)
	}

	if schedules != nil {
		_, err := tx.Exec(ctx, `DELETE FROM medicine_schedules WHERE medicine_id = $1`, medicine.ID)
		if err != nil {
			return fmt.Errorf("clear schedules of medicine %s: %w", medicine.ID, err)
		}
		for _, s := range schedules {
			if err := insertSchedule(ctx, tx, s); err != nil {
				r.log.Error("Failed to replace medicine schedule",
					zap.Error(err),
					zap.String("medicine_id", medicine.ID.String()),
				)
				return fmt.Errorf("replace schedule of medicine %s: %w", medicine.ID, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update medicine: %w", err)
	}
	return nil
}

// Delete removes the medicine; schedules and intakes go with it through ON DELETE CASCADE.
func (r *medicineRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM medicines WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.log.Error("Failed to delete medicine",
			zap.Error(err),
			zap.String("medicine_id", id.String()),
		)
		return fmt.Errorf("delete medicine %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete medicine %s: %w", id, ErrNotAffected)
	}

	r.log.Info("Medicine deleted", zap.String("medicine_id", id.String()))
	return nil
}
